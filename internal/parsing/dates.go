package parsing

import (
	"strings"
	"time"
)

// ongoingMarkers are end-date values that mean "still ongoing".
var ongoingMarkers = map[string]bool{
	"present": true,
	"current": true,
	"now":     true,
	"ongoing": true,
	"today":   true,
}

// dateLayouts are tried in order when parsing resume dates.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01",
	"2006/01",
	"01/2006",
	"1/2006",
	"Jan 2006",
	"January 2006",
	"Jan. 2006",
	"2006",
}

// DateRange is a resolved start/end pair. Ongoing is set when the end was
// a "present" marker or missing, in which case End is the reference time.
type DateRange struct {
	Start   time.Time
	End     time.Time
	Ongoing bool
}

// Years returns the range length in years.
func (r DateRange) Years() float64 {
	return r.End.Sub(r.Start).Hours() / 24 / 365.25
}

// IsOngoing reports whether an end-date value means the entry is current.
func IsOngoing(value string) bool {
	v := strings.ToLower(strings.TrimSpace(value))
	return v == "" || ongoingMarkers[v]
}

// ParseDate parses a resume-style date. Month and year precision are
// accepted; missing parts resolve to the first of the period.
func ParseDate(value string) (time.Time, error) {
	v := strings.Join(strings.Fields(value), " ")
	if v == "" {
		return time.Time{}, &ParseError{Message: "empty date"}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	// Month names are matched case-insensitively
	if titled := titleMonth(v); titled != v {
		return ParseDate(titled)
	}
	return time.Time{}, &ParseError{Message: "unrecognized date " + value}
}

// ParseDateRange resolves start and end values against now. An empty or
// "present" end yields an ongoing range ending at now.
func ParseDateRange(start, end string, now time.Time) (DateRange, error) {
	s, err := ParseDate(start)
	if err != nil {
		return DateRange{}, err
	}

	r := DateRange{Start: s}
	if IsOngoing(end) {
		r.End = now
		r.Ongoing = true
	} else {
		e, err := ParseDate(end)
		if err != nil {
			return DateRange{}, err
		}
		r.End = e
	}

	if r.End.Before(r.Start) {
		return DateRange{}, &ParseError{Message: "end date " + end + " precedes start date " + start}
	}
	return r, nil
}

func titleMonth(v string) string {
	if v == "" {
		return v
	}
	return strings.ToUpper(v[:1]) + strings.ToLower(v[1:])
}
