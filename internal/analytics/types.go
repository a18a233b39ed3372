package analytics

import "vizstudio/internal/dataset"

// Point is one labeled value in a series or breakdown.
type Point struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// KPIs are the summary values derived from the computed series.
//
// ChangePct compares only the first and last series bucket, with a zero
// first value yielding zero. Downstream displays assume exactly this
// definition; it is not a period-over-period comparison.
type KPIs struct {
	Total     float64 `json:"total"`
	Average   float64 `json:"average"`
	ChangePct float64 `json:"changePct"`
}

// Result is the render-ready output of one Compute call. It is rebuilt in
// full on every query change; callers must treat it as a read-only snapshot.
type Result struct {
	Metric            dataset.Metric `json:"metric"`
	FilteredRows      []dataset.Row  `json:"filteredRows"`
	Series            []Point        `json:"series"`
	CategoryBreakdown []Point        `json:"categoryBreakdown"`
	RegionBreakdown   []Point        `json:"regionBreakdown"`
	KPIs              KPIs           `json:"kpis"`
}

// bucket is the transient {sum, count} accumulator used during aggregation.
type bucket struct {
	sum   float64
	count int
}

func (b *bucket) add(value float64) {
	b.sum += value
	b.count++
}

// finalize resolves a bucket to its aggregate value: the raw sum, or the
// mean for avg metrics. An empty bucket is zero either way.
func (b *bucket) finalize(agg dataset.AggKind) float64 {
	if b.count == 0 {
		return 0
	}
	if agg == dataset.AggAvg {
		return b.sum / float64(b.count)
	}
	return b.sum
}
