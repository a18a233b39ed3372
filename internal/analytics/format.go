package analytics

import (
	"fmt"
	"math"
	"strings"
	"time"

	"vizstudio/internal/dataset"
)

// Display formatting for metric values and bucket labels. These are the
// only string shapes the rendering boundary sees.

// FormatMetricValue renders a full-precision display value for a metric:
// grouped integers for numbers, "$1,234" for currency, "12.3%" for percent
// metrics (whose values are ratios).
func FormatMetricValue(value float64, kind dataset.FormatKind) string {
	switch kind {
	case dataset.FormatCurrency:
		return "$" + groupDigits(int64(math.Round(value)))
	case dataset.FormatPercent:
		return fmt.Sprintf("%.1f%%", value*100)
	default:
		return groupDigits(int64(math.Round(value)))
	}
}

// FormatCompactValue renders an abbreviated value for dense displays:
// 950, 1.2K, 3.4M, 5.6B.
func FormatCompactValue(value float64, kind dataset.FormatKind) string {
	if kind == dataset.FormatPercent {
		return fmt.Sprintf("%.1f%%", value*100)
	}

	prefix := ""
	if kind == dataset.FormatCurrency {
		prefix = "$"
	}

	abs := math.Abs(value)
	sign := ""
	if value < 0 {
		sign = "-"
	}

	switch {
	case abs >= 1e9:
		return fmt.Sprintf("%s%s%.1fB", sign, prefix, abs/1e9)
	case abs >= 1e6:
		return fmt.Sprintf("%s%s%.1fM", sign, prefix, abs/1e6)
	case abs >= 1e3:
		return fmt.Sprintf("%s%s%.1fK", sign, prefix, abs/1e3)
	default:
		return fmt.Sprintf("%s%s%s", sign, prefix, trimTrailingZero(abs))
	}
}

// FormatChange renders a signed percent delta, e.g. "+12.5%".
func FormatChange(value float64) string {
	prefix := ""
	if value > 0 {
		prefix = "+"
	}
	return fmt.Sprintf("%s%.1f%%", prefix, value)
}

// FormatSeriesLabel turns a bucket key into a human-readable axis label.
// Unparseable keys pass through unchanged.
func FormatSeriesLabel(groupKey string, granularity string) string {
	if groupKey == "" {
		return ""
	}

	switch granularity {
	case "month":
		t, err := time.Parse("2006-01", groupKey)
		if err != nil {
			return groupKey
		}
		return t.Format("Jan 2006")
	case "week":
		t, err := time.Parse(isoDate, groupKey)
		if err != nil {
			return groupKey
		}
		return "Week of " + t.Format("Jan 2")
	default:
		t, err := time.Parse(isoDate, groupKey)
		if err != nil {
			return groupKey
		}
		return t.Format("Jan 2")
	}
}

func groupDigits(n int64) string {
	if n < 0 {
		return "-" + groupDigits(-n)
	}
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}

	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	return strings.Join(parts, ",")
}

func trimTrailingZero(v float64) string {
	s := fmt.Sprintf("%.1f", v)
	return strings.TrimSuffix(s, ".0")
}
