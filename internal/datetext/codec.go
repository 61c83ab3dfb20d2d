// Package datetext converts dates to and from the single human-readable
// pattern used by the date fields, e.g. "January 2, 2006".
package datetext

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/lululau/rangecal/internal/calendar"
)

// Layout is the time package layout equivalent of the accepted pattern.
const Layout = "January 2, 2006"

var (
	// ErrFormat indicates the text does not look like "Month D, YYYY".
	ErrFormat = errors.New("expected a date like \"January 2, 2006\"")
	// ErrInvalidDate indicates the text matches the pattern but names no
	// real calendar day.
	ErrInvalidDate = errors.New("no such date")
)

var pattern = regexp.MustCompile(`^([A-Za-z]+)\s+(\d{1,2}),\s*(\d{4})$`)

// Format renders d using Layout. The zero date renders as "".
func Format(d calendar.Date) string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s %d, %04d", d.Month, d.Day, d.Year)
}

// Parse reads text written in Layout. Empty or whitespace-only text yields
// the zero date and a nil error.
func Parse(text string) (calendar.Date, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return calendar.Date{}, nil
	}

	m := pattern.FindStringSubmatch(text)
	if m == nil {
		return calendar.Date{}, fmt.Errorf("%w: %q", ErrFormat, text)
	}
	month, ok := lookupMonth(m[1])
	if !ok {
		return calendar.Date{}, fmt.Errorf("%w: unknown month %q", ErrFormat, m[1])
	}
	day, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])

	d := calendar.Date{Year: year, Month: month, Day: day}
	if !d.Valid() {
		return calendar.Date{}, fmt.Errorf("%w: %s %d, %d", ErrInvalidDate, month, day, year)
	}
	return d, nil
}

func lookupMonth(name string) (time.Month, bool) {
	for m := time.January; m <= time.December; m++ {
		if strings.EqualFold(m.String(), name) {
			return m, true
		}
	}
	return 0, false
}
