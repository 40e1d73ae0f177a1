package notification

import (
	"context"
	"fmt"
	"time"

	"appointly/models"
	"appointly/utils"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Sender abstracts the SMTP transport so messages can be captured in tests.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// EmailNotifier mails the clinic first, then the client.
type EmailNotifier struct {
	Sender   Sender
	From     string
	Clinic   Clinic
	Localize func(time.Time) time.Time
	Now      func() time.Time
}

// NewEmailNotifier dials host:port over implicit TLS (port 465) with the given account.
func NewEmailNotifier(host string, port int, user, pass string, clinic Clinic, localize func(time.Time) time.Time) *EmailNotifier {
	dialer := gomail.NewDialer(host, port, user, pass)
	dialer.SSL = port == 465
	if clinic.Email == "" {
		clinic.Email = user
	}
	return &EmailNotifier{
		Sender:   dialer,
		From:     user,
		Clinic:   clinic,
		Localize: localize,
		Now:      time.Now,
	}
}

func (n *EmailNotifier) Send(ctx context.Context, b models.Booking) error {
	logger := utils.GetLogger()
	data := newEmailData(b, n.Clinic, n.Localize, n.Now())

	clinicMsg, err := n.message("clinic", data, n.Clinic.Email, n.Clinic.Name+" Booking", "New Appointment: "+b.Name)
	if err != nil {
		return err
	}
	clientMsg, err := n.message("client", data, b.Email, n.Clinic.Name, "Your Appointment is Confirmed - "+n.Clinic.Name)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := n.Sender.DialAndSend(clinicMsg); err != nil {
		return fmt.Errorf("send clinic email: %w", err)
	}
	logger.Info("Email sent to clinic", zap.String("bookingID", b.ID), zap.String("to", n.Clinic.Email))

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := n.Sender.DialAndSend(clientMsg); err != nil {
		return fmt.Errorf("send client email: %w", err)
	}
	logger.Info("Confirmation email sent", zap.String("bookingID", b.ID), zap.String("to", b.Email))
	return nil
}

func (n *EmailNotifier) message(tmpl string, data emailData, to, fromName, subject string) (*gomail.Message, error) {
	body, err := render(tmpl, data)
	if err != nil {
		return nil, err
	}
	m := gomail.NewMessage()
	m.SetAddressHeader("From", n.From, fromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)
	return m, nil
}

// LogNotifier records the booking instead of sending mail; used when SMTP is not configured.
type LogNotifier struct{}

func (LogNotifier) Send(ctx context.Context, b models.Booking) error {
	utils.GetLogger().Info("Email disabled, skipping notification",
		zap.String("bookingID", b.ID), zap.String("start", b.Start))
	return nil
}
