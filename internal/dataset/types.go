package dataset

import (
	"encoding/json"
	"slices"
	"strings"
)

// FormatKind tells the presentation layer how to render a metric value.
type FormatKind string

const (
	FormatNumber   FormatKind = "number"
	FormatCurrency FormatKind = "currency"
	FormatPercent  FormatKind = "percent"
)

// AggKind selects the aggregation applied when rows collapse into a bucket.
type AggKind string

const (
	AggSum AggKind = "sum"
	AggAvg AggKind = "avg"
)

// Metric describes one numeric column of a dataset.
type Metric struct {
	Key         string     `json:"key"`
	Label       string     `json:"label"`
	Format      FormatKind `json:"format"`
	Aggregation AggKind    `json:"aggregation,omitempty"` // empty means sum
}

// Row is a single immutable observation. Metric values live in Values keyed
// by metric key; a cell that was not numeric in the source is simply absent.
type Row struct {
	Date     string
	Region   string
	Category string
	Values   map[string]float64
}

// rows are stored flat in dataset files: {"date": ..., "region": ...,
// "category": ..., "<metricKey>": <number>, ...}

// UnmarshalJSON decodes the flat row shape, keeping only numeric metric cells.
func (r *Row) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	r.Values = make(map[string]float64)
	for key, val := range raw {
		switch key {
		case "date":
			r.Date, _ = val.(string)
		case "region":
			r.Region, _ = val.(string)
		case "category":
			r.Category, _ = val.(string)
		default:
			if num, ok := val.(float64); ok {
				r.Values[key] = num
			}
		}
	}
	return nil
}

// MarshalJSON emits the same flat shape the loader accepts.
func (r Row) MarshalJSON() ([]byte, error) {
	flat := make(map[string]any, len(r.Values)+3)
	flat["date"] = r.Date
	flat["region"] = r.Region
	flat["category"] = r.Category
	for key, val := range r.Values {
		flat[key] = val
	}
	return json.Marshal(flat)
}

// Dataset is an immutable tabular source plus its derived domains. The
// engine only ever reads it.
type Dataset struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Metrics       []Metric `json:"metrics"`
	DefaultMetric string   `json:"defaultMetric"`
	Rows          []Row    `json:"rows"`

	// Derived, computed once at construction.
	Regions    []string `json:"regions"`
	Categories []string `json:"categories"`
	MinDate    string   `json:"minDate"`
	MaxDate    string   `json:"maxDate"`
}

// New builds a Dataset and derives its region/category domains and observed
// date range. ISO dates compare correctly as strings, so min/max are plain
// string comparisons.
func New(id, name, description string, metrics []Metric, defaultMetric string, rows []Row) *Dataset {
	ds := &Dataset{
		ID:            id,
		Name:          name,
		Description:   description,
		Metrics:       metrics,
		DefaultMetric: defaultMetric,
		Rows:          rows,
	}

	ds.Regions = uniqueSorted(rows, func(r Row) string { return r.Region })
	ds.Categories = uniqueSorted(rows, func(r Row) string { return r.Category })

	for _, row := range rows {
		if row.Date == "" {
			continue
		}
		if ds.MinDate == "" || row.Date < ds.MinDate {
			ds.MinDate = row.Date
		}
		if ds.MaxDate == "" || row.Date > ds.MaxDate {
			ds.MaxDate = row.Date
		}
	}

	if ds.DefaultMetric == "" && len(metrics) > 0 {
		ds.DefaultMetric = metrics[0].Key
	}
	return ds
}

// Metric returns the descriptor for key, falling back to the first declared
// metric when the key is unknown.
func (d *Dataset) Metric(key string) Metric {
	for _, m := range d.Metrics {
		if m.Key == key {
			return m
		}
	}
	if len(d.Metrics) > 0 {
		return d.Metrics[0]
	}
	return Metric{}
}

// HasMetric reports whether key is one of the declared metric keys.
func (d *Dataset) HasMetric(key string) bool {
	for _, m := range d.Metrics {
		if m.Key == key {
			return true
		}
	}
	return false
}

// HasRegion reports whether value is part of the observed region domain.
func (d *Dataset) HasRegion(value string) bool {
	return slices.Contains(d.Regions, value)
}

// HasCategory reports whether value is part of the observed category domain.
func (d *Dataset) HasCategory(value string) bool {
	return slices.Contains(d.Categories, value)
}

func uniqueSorted(rows []Row, pick func(Row) string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, row := range rows {
		v := pick(row)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	slices.SortFunc(out, strings.Compare)
	return out
}
