package notification

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"

	"appointly/models"
)

//go:embed templates/*.html
var templatesFS embed.FS

var emailTemplates = template.Must(template.ParseFS(templatesFS, "templates/*.html"))

// Clinic identifies the venue in outbound messages.
type Clinic struct {
	Name    string
	Address string
	Phone   string
	Website string
	Email   string
}

type emailData struct {
	Booking models.Booking
	Clinic  Clinic
	When    string
	Year    int
}

// whenLayout renders like "Monday, June 10, 2024 at 10:00 AM EDT".
const whenLayout = "Monday, January 2, 2006 at 03:04 PM MST"

func render(name string, data emailData) (string, error) {
	var buf bytes.Buffer
	if err := emailTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s email: %w", name, err)
	}
	return buf.String(), nil
}

func newEmailData(b models.Booking, clinic Clinic, localize func(time.Time) time.Time, now time.Time) emailData {
	when := b.Start
	if start, err := b.StartTime(); err == nil {
		if localize != nil {
			start = localize(start)
		}
		when = start.Format(whenLayout)
	}
	return emailData{Booking: b, Clinic: clinic, When: when, Year: now.Year()}
}
