package schedule

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Days
const (
	Mon Day = "Mon"
	Tue Day = "Tue"
	Wed Day = "Wed"
	Thu Day = "Thu"
	Fri Day = "Fri"
)

var (
	Days = []Day{Mon, Tue, Wed, Thu, Fri}

	dayOrder = map[Day]int{Mon: 0, Tue: 1, Wed: 2, Thu: 3, Fri: 4}

	timeRangeRegex = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)-([01]\d|2[0-3]):([0-5]\d)$`)

	// errors
	ErrInvalidDay       = errors.New("invalid day")
	ErrInvalidTimeRange = errors.New("invalid time range")
)

// Day is a weekday on which a section meets.
type Day string

func (d Day) IsValid() bool {
	_, ok := dayOrder[d]
	return ok
}

// ParseDay accepts "Mon".."Fri" in any case, with or without surrounding whitespace.
func ParseDay(s string) (Day, error) {
	s = strings.TrimSpace(s)
	if len(s) == 0 {
		return "", ErrInvalidDay
	}
	d := Day(strings.ToUpper(s[:1]) + strings.ToLower(s[1:]))
	if !d.IsValid() {
		return "", errors.Wrapf(ErrInvalidDay, "%q", s)
	}
	return d, nil
}

// CourseSection is a specific offering of a course with a fixed weekly slot.
// Minutes are counted from midnight; StartMinute < EndMinute.
type CourseSection struct {
	ID          string `json:"id"`
	Code        string `json:"code"`
	Day         Day    `json:"day"`
	StartMinute int    `json:"start_minute"`
	EndMinute   int    `json:"end_minute"`
	Credits     int    `json:"credits"`
}

// TimeLabel formats the section slot as "HH:MM-HH:MM".
func (s CourseSection) TimeLabel() string {
	return FormatTimeRange(s.StartMinute, s.EndMinute)
}

func (s CourseSection) String() string {
	return fmt.Sprintf("%s (%s %s)", s.Code, s.Day, s.TimeLabel())
}

// ParseTimeRange converts a "HH:MM-HH:MM" label into minutes since midnight.
func ParseTimeRange(label string) (start, end int, err error) {
	m := timeRangeRegex.FindStringSubmatch(strings.TrimSpace(label))
	if m == nil {
		return 0, 0, errors.Wrapf(ErrInvalidTimeRange, "%q", label)
	}
	start = toMinutes(m[1], m[2])
	end = toMinutes(m[3], m[4])
	if start >= end {
		return 0, 0, errors.Wrapf(ErrInvalidTimeRange, "%q ends before it starts", label)
	}
	return start, end, nil
}

// FormatTimeRange is the inverse of ParseTimeRange.
func FormatTimeRange(start, end int) string {
	return fmt.Sprintf("%02d:%02d-%02d:%02d", start/60, start%60, end/60, end%60)
}

// regex already guarantees two digits each
func toMinutes(hh, mm string) int {
	h, _ := strconv.Atoi(hh)
	m, _ := strconv.Atoi(mm)
	return h*60 + m
}
