package analytics

import (
	"math"
	"time"
)

// Calendar bucketing. All arithmetic is UTC so a row's bucket never depends
// on the host timezone.

const isoDate = "2006-01-02"

// GroupKey maps a raw date value to its bucket key and an orderable
// timestamp for the given granularity.
//
// day:   key is the date itself.
// week:  key is the Monday on or before the date (ISO week, Monday-anchored).
// month: key is "YYYY-MM", anchored at the first of the month.
//
// An unparseable date keeps its raw value as the key and sorts last via
// math.MaxInt64; bucketing never fails.
func GroupKey(dateValue string, granularity string) (key string, orderTS int64) {
	t, err := time.Parse(isoDate, dateValue)
	if err != nil {
		return dateValue, math.MaxInt64
	}

	switch granularity {
	case "month":
		first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
		return t.Format("2006-01"), first.UnixMilli()
	case "week":
		monday := mondayOnOrBefore(t)
		return monday.Format(isoDate), monday.UnixMilli()
	default: // day
		return t.Format(isoDate), t.UnixMilli()
	}
}

// mondayOnOrBefore shifts a date back to its ISO week start. Sunday maps to
// minus six days; any other weekday d maps to 1-d days.
func mondayOnOrBefore(t time.Time) time.Time {
	offset := 1 - int(t.Weekday())
	if t.Weekday() == time.Sunday {
		offset = -6
	}
	return t.AddDate(0, 0, offset)
}
