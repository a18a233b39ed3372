package query

import (
	"slices"
	"time"

	"vizstudio/internal/dataset"
)

// Enumerated query fields. Anything outside these sets is repaired by
// Sanitize, never rejected.
const (
	GroupDay   = "day"
	GroupWeek  = "week"
	GroupMonth = "month"

	SortByValue = "value"
	SortByLabel = "label"

	SortAsc  = "asc"
	SortDesc = "desc"
)

// Limit bounds for breakdown truncation.
const (
	MinLimit     = 1
	MaxLimit     = 20
	DefaultLimit = 8
)

// Query is the canonical filter/aggregation description. A Query touched by
// Sanitize is guaranteed internally consistent for its dataset; anything
// arriving from a URL or stored blob must pass through Sanitize before it
// reaches the analytics engine.
type Query struct {
	DatasetID  string   `json:"datasetId"`
	DateFrom   string   `json:"dateFrom"`
	DateTo     string   `json:"dateTo"`
	Regions    []string `json:"regions"`
	Categories []string `json:"categories"`
	Metric     string   `json:"metric"`
	GroupBy    string   `json:"groupBy"`
	SortBy     string   `json:"sortBy"`
	SortDir    string   `json:"sortDir"`
	Limit      int      `json:"limit"`
}

// Clone returns a deep copy. Queries are snapshotted into saved views, so
// the stored copy must not alias the caller's selection slices.
func (q Query) Clone() Query {
	out := q
	out.Regions = slices.Clone(q.Regions)
	out.Categories = slices.Clone(q.Categories)
	return out
}

// Defaults derives the default query for a dataset: its declared default
// metric, the full observed date range, weekly grouping, value/desc sorting,
// and no region or category filters.
func Defaults(ds *dataset.Dataset) Query {
	return Query{
		DatasetID: ds.ID,
		DateFrom:  ds.MinDate,
		DateTo:    ds.MaxDate,
		Metric:    ds.DefaultMetric,
		GroupBy:   GroupWeek,
		SortBy:    SortByValue,
		SortDir:   SortDesc,
		Limit:     DefaultLimit,
	}
}

// Sanitize normalizes an arbitrary query against a dataset. It is total:
// garbage input yields the dataset defaults, and sanitizing twice gives the
// same result as sanitizing once.
func Sanitize(raw Query, ds *dataset.Dataset) Query {
	q := Defaults(ds)

	q.Regions = keepInDomain(raw.Regions, ds.HasRegion)
	q.Categories = keepInDomain(raw.Categories, ds.HasCategory)

	if ds.HasMetric(raw.Metric) {
		q.Metric = raw.Metric
	}
	if raw.GroupBy == GroupDay || raw.GroupBy == GroupWeek || raw.GroupBy == GroupMonth {
		q.GroupBy = raw.GroupBy
	}
	if raw.SortBy == SortByValue || raw.SortBy == SortByLabel {
		q.SortBy = raw.SortBy
	}
	if raw.SortDir == SortAsc || raw.SortDir == SortDesc {
		q.SortDir = raw.SortDir
	}
	if raw.Limit != 0 {
		q.Limit = min(max(raw.Limit, MinLimit), MaxLimit)
	}

	q.DateFrom = clampDate(raw.DateFrom, ds.MinDate, ds.MaxDate, ds.MinDate)
	q.DateTo = clampDate(raw.DateTo, ds.MinDate, ds.MaxDate, ds.MaxDate)
	if q.DateFrom > q.DateTo {
		// Inverted after clamping: reset to the full observed range.
		q.DateFrom = ds.MinDate
		q.DateTo = ds.MaxDate
	}

	return q
}

// SwitchDataset moves a query to a new dataset: metric, date range, and
// region/category filters reset to the new dataset's defaults while the
// grouping, sort, and limit preferences carry over.
func SwitchDataset(current Query, next *dataset.Dataset) Query {
	carried := Query{
		GroupBy: current.GroupBy,
		SortBy:  current.SortBy,
		SortDir: current.SortDir,
		Limit:   current.Limit,
	}
	return Sanitize(carried, next)
}

func keepInDomain(values []string, inDomain func(string) bool) []string {
	var out []string
	for _, v := range values {
		if inDomain(v) {
			out = append(out, v)
		}
	}
	return out
}

// clampDate snaps value into [minDate, maxDate]. Empty or unparseable values
// fall back to fallback (one of the range bounds).
func clampDate(value, minDate, maxDate, fallback string) string {
	if value == "" || !validISODate(value) {
		return fallback
	}
	if minDate != "" && value < minDate {
		return minDate
	}
	if maxDate != "" && value > maxDate {
		return maxDate
	}
	return value
}

func validISODate(value string) bool {
	_, err := time.Parse("2006-01-02", value)
	return err == nil
}
