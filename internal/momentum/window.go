package momentum

import (
	"fmt"
	"strings"
	"time"

	"insider-momentum/internal/types"
)

// TimeUnit is the granularity of a lookahead window.
type TimeUnit int

const (
	Days TimeUnit = iota
	Hours
)

// ParseTimeUnit accepts "days"/"d" and "hours"/"h", case-insensitively.
func ParseTimeUnit(s string) (TimeUnit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "days", "day", "d":
		return Days, nil
	case "hours", "hour", "h":
		return Hours, nil
	default:
		return Days, fmt.Errorf("unknown time unit %q (valid options: days, hours)", s)
	}
}

func (u TimeUnit) String() string {
	if u == Hours {
		return "hours"
	}
	return "days"
}

// Interval is the price bar size queried for this unit.
func (u TimeUnit) Interval() types.Interval {
	if u == Hours {
		return types.IntervalHour
	}
	return types.IntervalDay
}

// ElapsedColumn names the elapsed-time output column.
func (u TimeUnit) ElapsedColumn() string {
	if u == Hours {
		return "hoursDiff"
	}
	return "daysDiff"
}

// Window is a lookahead of Length units after the trade.
type Window struct {
	Length int
	Unit   TimeUnit
}

// End returns start plus the window length.
func (w Window) End(start time.Time) time.Time {
	if w.Unit == Hours {
		return start.Add(time.Duration(w.Length) * time.Hour)
	}
	return start.AddDate(0, 0, w.Length)
}

func (w Window) String() string {
	return fmt.Sprintf("%d %s", w.Length, w.Unit)
}

var transactionLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseTransactionTime parses a transaction date and drops its zone. Offset-bearing
// values are first converted to UTC.
func ParseTransactionTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range transactionLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Naive(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized transaction date %q", s)
}

// Naive returns t's UTC wall clock as a UTC time.
func Naive(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), u.Hour(), u.Minute(), u.Second(), u.Nanosecond(), time.UTC)
}

// TruncateToDate drops the time of day.
func TruncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
