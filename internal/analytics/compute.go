package analytics

import (
	"math"
	"slices"
	"sort"
	"strings"
	"time"

	"vizstudio/internal/dataset"
	"vizstudio/internal/query"
)

// Compute runs a sanitized query against a dataset: filter, bucket, sort,
// and summarize. It is pure; neither argument is mutated, and it always
// returns a usable result. An empty filtered set is a normal terminal state
// with zero KPIs, not an error.
func Compute(ds *dataset.Dataset, q query.Query) Result {
	metric := ds.Metric(q.Metric)
	agg := metric.Aggregation
	if agg == "" {
		agg = dataset.AggSum
	}

	filtered := filterRows(ds.Rows, q)
	if len(filtered) == 0 {
		return Result{
			Metric:            metric,
			FilteredRows:      []dataset.Row{},
			Series:            []Point{},
			CategoryBreakdown: []Point{},
			RegionBreakdown:   []Point{},
		}
	}

	// One pass, three independent groupings over the same rows.
	type seriesBucket struct {
		bucket
		orderTS int64
	}
	seriesBuckets := make(map[string]*seriesBucket)
	categoryBuckets := make(map[string]*bucket)
	regionBuckets := make(map[string]*bucket)

	for _, row := range filtered {
		value, numeric := row.Values[metric.Key]
		numeric = numeric && !math.IsNaN(value)

		key, ts := GroupKey(row.Date, q.GroupBy)
		sb := seriesBuckets[key]
		if sb == nil {
			sb = &seriesBucket{orderTS: ts}
			seriesBuckets[key] = sb
		}
		cb := categoryBuckets[row.Category]
		if cb == nil {
			cb = &bucket{}
			categoryBuckets[row.Category] = cb
		}
		rb := regionBuckets[row.Region]
		if rb == nil {
			rb = &bucket{}
			regionBuckets[row.Region] = rb
		}

		// Non-numeric cells leave the bucket in place but contribute
		// neither to sum nor to count.
		if numeric {
			sb.add(value)
			cb.add(value)
			rb.add(value)
		}
	}

	type tsPoint struct {
		Point
		orderTS int64
	}
	series := make([]tsPoint, 0, len(seriesBuckets))
	for key, sb := range seriesBuckets {
		series = append(series, tsPoint{
			Point:   Point{Label: key, Value: sb.finalize(agg)},
			orderTS: sb.orderTS,
		})
	}
	// Chronological order comes from the bucket timestamps, not the string
	// keys. Label is the tiebreak so equal timestamps stay deterministic.
	slices.SortStableFunc(series, func(a, b tsPoint) int {
		if a.orderTS != b.orderTS {
			if a.orderTS < b.orderTS {
				return -1
			}
			return 1
		}
		return strings.Compare(a.Label, b.Label)
	})

	result := Result{
		Metric:            metric,
		FilteredRows:      filtered,
		Series:            make([]Point, len(series)),
		CategoryBreakdown: sortAndLimit(finalizePoints(categoryBuckets, agg), q.SortBy, q.SortDir, q.Limit),
		RegionBreakdown:   sortAndLimit(finalizePoints(regionBuckets, agg), q.SortBy, q.SortDir, q.Limit),
	}
	for i, p := range series {
		result.Series[i] = p.Point
	}

	result.KPIs = computeKPIs(result.Series)
	return result
}

func filterRows(rows []dataset.Row, q query.Query) []dataset.Row {
	rangeStart, startErr := time.Parse(isoDate, q.DateFrom)
	rangeEnd, endErr := time.Parse(isoDate, q.DateTo)
	if startErr != nil || endErr != nil {
		return nil
	}

	var out []dataset.Row
	for _, row := range rows {
		rowDate, err := time.Parse(isoDate, row.Date)
		if err != nil {
			continue // undated rows never match
		}
		if rowDate.Before(rangeStart) || rowDate.After(rangeEnd) {
			continue
		}
		if !inSelection(row.Region, q.Regions) || !inSelection(row.Category, q.Categories) {
			continue
		}
		out = append(out, row)
	}
	return out
}

// inSelection treats an empty selection as "all".
func inSelection(value string, selected []string) bool {
	return len(selected) == 0 || slices.Contains(selected, value)
}

func finalizePoints(buckets map[string]*bucket, agg dataset.AggKind) []Point {
	points := make([]Point, 0, len(buckets))
	for label, b := range buckets {
		points = append(points, Point{Label: label, Value: b.finalize(agg)})
	}
	// Map iteration order is random; fix it before the user-facing sort so
	// equal values always tie-break the same way.
	slices.SortFunc(points, func(a, b Point) int { return strings.Compare(a.Label, b.Label) })
	return points
}

func sortAndLimit(points []Point, sortBy, sortDir string, limit int) []Point {
	asc := sortDir == query.SortAsc

	sort.SliceStable(points, func(i, j int) bool {
		var less bool
		if sortBy == query.SortByLabel {
			less = points[i].Label < points[j].Label
		} else {
			less = points[i].Value < points[j].Value
		}
		if asc {
			return less
		}
		if sortBy == query.SortByLabel {
			return points[i].Label > points[j].Label
		}
		return points[i].Value > points[j].Value
	})

	if limit > 0 && len(points) > limit {
		points = points[:limit]
	}
	return points
}

func computeKPIs(series []Point) KPIs {
	if len(series) == 0 {
		return KPIs{}
	}

	var total float64
	for _, p := range series {
		total += p.Value
	}

	first := series[0].Value
	last := series[len(series)-1].Value
	changePct := 0.0
	if first != 0 {
		changePct = (last - first) / math.Abs(first) * 100
	}

	return KPIs{
		Total:     total,
		Average:   total / float64(len(series)),
		ChangePct: changePct,
	}
}
