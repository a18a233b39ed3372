package analytics

import (
	"math"
	"testing"

	"vizstudio/internal/dataset"
	"vizstudio/internal/query"
)

func testDataset(rows []dataset.Row) *dataset.Dataset {
	return dataset.New("orders", "Orders", "test data",
		[]dataset.Metric{
			{Key: "revenue", Label: "Revenue", Format: dataset.FormatCurrency},
			{Key: "rate", Label: "Rate", Format: dataset.FormatPercent, Aggregation: dataset.AggAvg},
		},
		"revenue", rows)
}

func row(date, region, category string, revenue float64) dataset.Row {
	return dataset.Row{
		Date:     date,
		Region:   region,
		Category: category,
		Values:   map[string]float64{"revenue": revenue, "rate": revenue / 100},
	}
}

func baseQuery(ds *dataset.Dataset) query.Query {
	return query.Defaults(ds)
}

func TestCompute_EmptyFilteredSet(t *testing.T) {
	// Rows only in March; query window in January.
	ds := testDataset([]dataset.Row{
		row("2024-03-05", "Europe", "Online", 10),
		row("2024-03-12", "Europe", "Online", 20),
	})
	q := baseQuery(ds)
	q.DateFrom = "2024-01-01"
	q.DateTo = "2024-01-31"

	res := Compute(ds, q)

	if len(res.FilteredRows) != 0 {
		t.Errorf("filteredRows = %d, want 0", len(res.FilteredRows))
	}
	if len(res.Series) != 0 || len(res.CategoryBreakdown) != 0 || len(res.RegionBreakdown) != 0 {
		t.Errorf("expected empty series and breakdowns, got %d/%d/%d",
			len(res.Series), len(res.CategoryBreakdown), len(res.RegionBreakdown))
	}
	if res.KPIs != (KPIs{}) {
		t.Errorf("KPIs = %+v, want all zero", res.KPIs)
	}
	if res.Metric.Key != "revenue" {
		t.Errorf("metric = %q, want resolved descriptor even for empty result", res.Metric.Key)
	}
}

func TestCompute_SumAndAvgInOneWeekBucket(t *testing.T) {
	// Three rows in the same ISO week (Mon 2024-01-08 .. Sun 2024-01-14).
	ds := testDataset([]dataset.Row{
		row("2024-01-08", "Europe", "Online", 10),
		row("2024-01-10", "Europe", "Retail", 20),
		row("2024-01-14", "APAC", "Online", 30),
	})

	t.Run("sum", func(t *testing.T) {
		q := baseQuery(ds)
		q.Metric = "revenue"
		res := Compute(ds, q)

		if len(res.Series) != 1 {
			t.Fatalf("series length = %d, want 1", len(res.Series))
		}
		if res.Series[0].Label != "2024-01-08" {
			t.Errorf("bucket label = %q, want 2024-01-08", res.Series[0].Label)
		}
		if res.Series[0].Value != 60 {
			t.Errorf("sum bucket value = %v, want 60", res.Series[0].Value)
		}
	})

	t.Run("avg", func(t *testing.T) {
		q := baseQuery(ds)
		q.Metric = "rate"
		res := Compute(ds, q)

		if len(res.Series) != 1 {
			t.Fatalf("series length = %d, want 1", len(res.Series))
		}
		// rate values are 0.1, 0.2, 0.3 -> mean 0.2
		if math.Abs(res.Series[0].Value-0.2) > 1e-9 {
			t.Errorf("avg bucket value = %v, want 0.2", res.Series[0].Value)
		}
	})
}

func TestCompute_SeriesChronologicalOrder(t *testing.T) {
	// Month keys sort wrong as strings only within a year, so use weeks
	// crossing a year boundary where string order and time order agree, plus
	// assert the order comes out ascending regardless of insertion order.
	ds := testDataset([]dataset.Row{
		row("2024-02-14", "Europe", "Online", 3),
		row("2024-01-03", "Europe", "Online", 1),
		row("2024-01-24", "Europe", "Online", 2),
	})
	q := baseQuery(ds)
	q.GroupBy = query.GroupWeek

	res := Compute(ds, q)

	if len(res.Series) != 3 {
		t.Fatalf("series length = %d, want 3", len(res.Series))
	}
	wantOrder := []string{"2024-01-01", "2024-01-22", "2024-02-12"}
	for i, want := range wantOrder {
		if res.Series[i].Label != want {
			t.Errorf("series[%d] = %q, want %q", i, res.Series[i].Label, want)
		}
	}
}

func TestCompute_RegionAndCategoryFilters(t *testing.T) {
	ds := testDataset([]dataset.Row{
		row("2024-01-08", "Europe", "Online", 10),
		row("2024-01-08", "Europe", "Retail", 20),
		row("2024-01-08", "APAC", "Online", 40),
	})

	tests := []struct {
		name       string
		regions    []string
		categories []string
		wantTotal  float64
	}{
		{"no filters means all", nil, nil, 70},
		{"region filter", []string{"Europe"}, nil, 30},
		{"category filter", nil, []string{"Online"}, 50},
		{"both filters", []string{"APAC"}, []string{"Online"}, 40},
		{"combination matching nothing", []string{"APAC"}, []string{"Retail"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := baseQuery(ds)
			q.Regions = tt.regions
			q.Categories = tt.categories
			res := Compute(ds, q)
			if res.KPIs.Total != tt.wantTotal {
				t.Errorf("total = %v, want %v", res.KPIs.Total, tt.wantTotal)
			}
		})
	}
}

func TestCompute_UnparseableRowDateExcluded(t *testing.T) {
	ds := testDataset([]dataset.Row{
		row("2024-01-08", "Europe", "Online", 10),
		row("garbage", "Europe", "Online", 999),
	})
	q := baseQuery(ds)

	res := Compute(ds, q)
	if len(res.FilteredRows) != 1 {
		t.Fatalf("filteredRows = %d, want 1 (undated row excluded)", len(res.FilteredRows))
	}
	if res.KPIs.Total != 10 {
		t.Errorf("total = %v, want 10", res.KPIs.Total)
	}
}

func TestCompute_NonNumericValueSkipped(t *testing.T) {
	// A row whose value cell is absent still occupies the bucket but adds
	// nothing to sum or count.
	rows := []dataset.Row{
		row("2024-01-08", "Europe", "Online", 10),
		{Date: "2024-01-09", Region: "Europe", Category: "Online", Values: map[string]float64{}},
	}
	ds := testDataset(rows)

	t.Run("sum ignores missing cell", func(t *testing.T) {
		q := baseQuery(ds)
		res := Compute(ds, q)
		if res.KPIs.Total != 10 {
			t.Errorf("total = %v, want 10", res.KPIs.Total)
		}
	})

	t.Run("avg count excludes missing cell", func(t *testing.T) {
		q := baseQuery(ds)
		q.Metric = "rate"
		res := Compute(ds, q)
		if len(res.Series) != 1 {
			t.Fatalf("series length = %d, want 1", len(res.Series))
		}
		// Only the first row has a rate cell (0.1); the empty row must not
		// drag the average down.
		if math.Abs(res.Series[0].Value-0.1) > 1e-9 {
			t.Errorf("avg = %v, want 0.1", res.Series[0].Value)
		}
	})

	t.Run("bucket with no numeric cells finalizes to zero", func(t *testing.T) {
		only := testDataset(rows[1:2])
		q := baseQuery(only)
		res := Compute(only, q)
		if len(res.Series) != 1 || res.Series[0].Value != 0 {
			t.Errorf("series = %+v, want one zero-valued bucket", res.Series)
		}
	})
}

func TestCompute_BreakdownSortAndLimit(t *testing.T) {
	ds := testDataset([]dataset.Row{
		row("2024-01-08", "Alpha", "Online", 30),
		row("2024-01-08", "Beta", "Online", 10),
		row("2024-01-08", "Gamma", "Online", 20),
	})

	tests := []struct {
		name    string
		sortBy  string
		sortDir string
		limit   int
		want    []string
	}{
		{"value desc", "value", "desc", 0, []string{"Alpha", "Gamma", "Beta"}},
		{"value asc", "value", "asc", 0, []string{"Beta", "Gamma", "Alpha"}},
		{"label asc", "label", "asc", 0, []string{"Alpha", "Beta", "Gamma"}},
		{"label desc", "label", "desc", 0, []string{"Gamma", "Beta", "Alpha"}},
		{"limit truncates after sort", "value", "desc", 2, []string{"Alpha", "Gamma"}},
		{"non-positive limit disables truncation", "value", "desc", -1, []string{"Alpha", "Gamma", "Beta"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := baseQuery(ds)
			q.SortBy = tt.sortBy
			q.SortDir = tt.sortDir
			q.Limit = tt.limit
			res := Compute(ds, q)

			if len(res.RegionBreakdown) != len(tt.want) {
				t.Fatalf("breakdown length = %d, want %d", len(res.RegionBreakdown), len(tt.want))
			}
			for i, want := range tt.want {
				if res.RegionBreakdown[i].Label != want {
					t.Errorf("breakdown[%d] = %q, want %q", i, res.RegionBreakdown[i].Label, want)
				}
			}
		})
	}
}

func TestCompute_ChangePct(t *testing.T) {
	tests := []struct {
		name   string
		values []float64 // one per week bucket
		want   float64
	}{
		{"rising series", []float64{100, 150}, 50},
		{"zero first value guards division", []float64{0, 150}, 0},
		{"falling series", []float64{200, 100}, -50},
		{"negative first value uses absolute base", []float64{-100, 50}, 150},
		{"single bucket has no change", []float64{42}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// One row per week, Mondays a week apart.
			dates := []string{"2024-01-01", "2024-01-08", "2024-01-15"}
			var rows []dataset.Row
			for i, v := range tt.values {
				rows = append(rows, row(dates[i], "Europe", "Online", v))
			}
			ds := testDataset(rows)
			res := Compute(ds, baseQuery(ds))

			if math.Abs(res.KPIs.ChangePct-tt.want) > 1e-9 {
				t.Errorf("changePct = %v, want %v", res.KPIs.ChangePct, tt.want)
			}
		})
	}
}

func TestCompute_KPITotalsAndAverage(t *testing.T) {
	ds := testDataset([]dataset.Row{
		row("2024-01-01", "Europe", "Online", 10),
		row("2024-01-08", "Europe", "Online", 20),
		row("2024-01-15", "Europe", "Online", 30),
	})
	res := Compute(ds, baseQuery(ds))

	if res.KPIs.Total != 60 {
		t.Errorf("total = %v, want 60", res.KPIs.Total)
	}
	if res.KPIs.Average != 20 {
		t.Errorf("average = %v, want 20 (total / series length)", res.KPIs.Average)
	}
}

func TestCompute_DoesNotMutateInputs(t *testing.T) {
	ds := testDataset([]dataset.Row{
		row("2024-01-08", "Europe", "Online", 10),
		row("2024-01-09", "APAC", "Retail", 20),
	})
	q := baseQuery(ds)
	q.Regions = []string{"Europe"}

	before := len(ds.Rows)
	regionsBefore := append([]string(nil), q.Regions...)

	_ = Compute(ds, q)

	if len(ds.Rows) != before {
		t.Errorf("dataset rows changed from %d to %d", before, len(ds.Rows))
	}
	if len(q.Regions) != len(regionsBefore) || q.Regions[0] != regionsBefore[0] {
		t.Errorf("query regions mutated: %v", q.Regions)
	}
}
