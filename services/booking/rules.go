package booking

import (
	"fmt"
	"regexp"
	"time"
)

var dateFormat = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Date is a civil calendar date in the venue's local calendar.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate parses a strict YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	if !dateFormat.MatchString(s) {
		return Date{}, fmt.Errorf("date %q does not match YYYY-MM-DD", s)
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("date %q is not a calendar date: %w", s, err)
	}
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}, nil
}

// DateOf returns the calendar date of t's wall clock, ignoring its location.
func DateOf(t time.Time) Date {
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func (d Date) Weekday() time.Weekday {
	return time.Date(d.Year, d.Month, d.Day, 12, 0, 0, 0, time.UTC).Weekday()
}

// Compare returns -1, 0 or +1.
func (d Date) Compare(o Date) int {
	switch {
	case d.Year != o.Year:
		return sign(d.Year - o.Year)
	case d.Month != o.Month:
		return sign(int(d.Month) - int(o.Month))
	default:
		return sign(d.Day - o.Day)
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}

// Rules is the venue's business-day and daylight-saving policy for its one fixed zone.
type Rules struct {
	OpenDays       map[time.Weekday]bool
	StandardOffset int // hours from UTC
	DaylightOffset int // hours from UTC
	StandardName   string
	DaylightName   string
	TransitionHour int // local hour at which the offset switches
}

// DefaultRules: open Sunday through Thursday, US Eastern time.
func DefaultRules() Rules {
	return Rules{
		OpenDays: map[time.Weekday]bool{
			time.Sunday:    true,
			time.Monday:    true,
			time.Tuesday:   true,
			time.Wednesday: true,
			time.Thursday:  true,
		},
		StandardOffset: -5,
		DaylightOffset: -4,
		StandardName:   "EST",
		DaylightName:   "EDT",
		TransitionHour: 2,
	}
}

func (r Rules) IsOpen(d Date) bool {
	return r.OpenDays[d.Weekday()]
}

// nthWeekday returns the day of month of the n-th wd in month: the first wd on or
// after the 1st, then n-1 weeks later.
func nthWeekday(year int, month time.Month, wd time.Weekday, n int) int {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Weekday()
	return 1 + (int(wd)-int(first)+7)%7 + 7*(n-1)
}

// DaylightWindow returns the dates daylight time starts (second Sunday of March)
// and ends (first Sunday of November) in year.
func (r Rules) DaylightWindow(year int) (start, end Date) {
	start = Date{Year: year, Month: time.March, Day: nthWeekday(year, time.March, time.Sunday, 2)}
	end = Date{Year: year, Month: time.November, Day: nthWeekday(year, time.November, time.Sunday, 1)}
	return start, end
}

// OffsetAt returns the UTC offset in hours in effect at local civil time hour:minute on d.
// The switch happens at TransitionHour local time on both boundary dates; the repeated
// hour in November resolves to daylight time.
func (r Rules) OffsetAt(d Date, hour, minute int) int {
	start, end := r.DaylightWindow(d.Year)
	beforeTransition := hour*60+minute < r.TransitionHour*60

	switch c := d.Compare(start); {
	case c < 0:
		return r.StandardOffset
	case c == 0:
		if beforeTransition {
			return r.StandardOffset
		}
		return r.DaylightOffset
	}
	switch c := d.Compare(end); {
	case c < 0:
		return r.DaylightOffset
	case c == 0 && beforeTransition:
		return r.DaylightOffset
	}
	return r.StandardOffset
}

// UTCOffsetHours is the offset for the business day d, taken at local noon.
func (r Rules) UTCOffsetHours(d Date) int {
	return r.OffsetAt(d, 12, 0)
}

// Exists reports whether the local civil time occurs at all; the hour skipped when
// daylight time begins does not.
func (r Rules) Exists(d Date, hour, minute int) bool {
	start, _ := r.DaylightWindow(d.Year)
	if d != start {
		return true
	}
	m := hour*60 + minute
	gap := (r.DaylightOffset - r.StandardOffset) * 60
	return m < r.TransitionHour*60 || m >= r.TransitionHour*60+gap
}

// Instant converts local civil time on d to an absolute instant.
func (r Rules) Instant(d Date, hour, minute int) time.Time {
	off := r.OffsetAt(d, hour, minute)
	return time.Date(d.Year, d.Month, d.Day, hour-off, minute, 0, 0, time.UTC)
}

// ToLocal renders t in the venue's zone.
func (r Rules) ToLocal(t time.Time) time.Time {
	for _, off := range []int{r.DaylightOffset, r.StandardOffset} {
		civil := t.UTC().Add(time.Duration(off) * time.Hour)
		d, h, m := DateOf(civil), civil.Hour(), civil.Minute()
		if r.Exists(d, h, m) && r.OffsetAt(d, h, m) == off {
			return t.In(r.zone(off))
		}
	}
	return t.In(r.zone(r.StandardOffset))
}

func (r Rules) zone(off int) *time.Location {
	name := r.StandardName
	if off == r.DaylightOffset {
		name = r.DaylightName
	}
	return time.FixedZone(name, off*3600)
}
