package dataset

import (
	"math"
	"math/rand"
	"time"
)

// Built-in sample datasets. Rows are generated deterministically (fixed
// seeds) so tests and repeated runs always see identical data.

const (
	builtinStart = "2024-01-01"
	builtinDays  = 181 // through 2024-06-30
	builtinStep  = 3   // one row per region/category every 3 days
)

var builtinRegions = []string{"APAC", "Europe", "Latin America", "North America"}

func builtinDatasets() []*Dataset {
	return []*Dataset{
		salesDataset(),
		usersDataset(),
		retentionDataset(),
	}
}

func salesDataset() *Dataset {
	categories := []string{"Online", "Partner", "Retail", "Wholesale"}
	rng := rand.New(rand.NewSource(7))

	rows := generateRows(builtinRegions, categories, func(day int, region, category string) map[string]float64 {
		base := 1800.0 + 9.0*float64(day) // gentle upward trend
		base *= regionWeight(region)
		base *= 0.6 + rng.Float64()
		orders := math.Max(1, math.Round(base/55))
		return map[string]float64{
			"revenue": math.Round(base*100) / 100,
			"orders":  orders,
			"units":   math.Round(orders * (1.5 + rng.Float64())),
		}
	})

	return New("sales", "Sales Performance",
		"Revenue, order flow, and unit velocity across regions.",
		[]Metric{
			{Key: "revenue", Label: "Revenue", Format: FormatCurrency},
			{Key: "orders", Label: "Orders", Format: FormatNumber},
			{Key: "units", Label: "Units", Format: FormatNumber},
		},
		"revenue", rows)
}

func usersDataset() *Dataset {
	categories := []string{"Enterprise", "Free", "Pro", "Team"}
	rng := rand.New(rand.NewSource(11))

	rows := generateRows(builtinRegions, categories, func(day int, region, category string) map[string]float64 {
		base := 120.0 + 1.4*float64(day)
		base *= regionWeight(region)
		signups := math.Round(base * (0.5 + rng.Float64()))
		return map[string]float64{
			"signups":     signups,
			"activeUsers": math.Round(signups * (6 + 3*rng.Float64())),
			"churned":     math.Round(signups * (0.05 + 0.1*rng.Float64())),
		}
	})

	return New("users", "User Growth",
		"Acquisition and activity trends by plan and geography.",
		[]Metric{
			{Key: "signups", Label: "Signups", Format: FormatNumber},
			{Key: "activeUsers", Label: "Active Users", Format: FormatNumber},
			{Key: "churned", Label: "Churned Users", Format: FormatNumber},
		},
		"activeUsers", rows)
}

func retentionDataset() *Dataset {
	categories := []string{"Enterprise", "Free", "Pro", "Team"}
	rng := rand.New(rand.NewSource(13))

	rows := generateRows(builtinRegions, categories, func(day int, region, category string) map[string]float64 {
		cohort := math.Round(200 + 300*rng.Float64())
		rate := 0.35 + 0.4*rng.Float64()
		if category == "Enterprise" {
			rate = math.Min(0.95, rate+0.2)
		}
		return map[string]float64{
			"retentionRate": math.Round(rate*1000) / 1000,
			"retainedUsers": math.Round(cohort * rate),
			"cohortSize":    cohort,
		}
	})

	return New("retention", "Retention Health",
		"Cohort retention quality and trend movement.",
		[]Metric{
			{Key: "retentionRate", Label: "Retention Rate", Format: FormatPercent, Aggregation: AggAvg},
			{Key: "retainedUsers", Label: "Retained Users", Format: FormatNumber},
			{Key: "cohortSize", Label: "Cohort Size", Format: FormatNumber},
		},
		"retentionRate", rows)
}

func generateRows(regions, categories []string, values func(day int, region, category string) map[string]float64) []Row {
	start, _ := time.Parse("2006-01-02", builtinStart)

	var rows []Row
	for day := 0; day < builtinDays; day += builtinStep {
		date := start.AddDate(0, 0, day).Format("2006-01-02")
		for _, region := range regions {
			for _, category := range categories {
				rows = append(rows, Row{
					Date:     date,
					Region:   region,
					Category: category,
					Values:   values(day, region, category),
				})
			}
		}
	}
	return rows
}

func regionWeight(region string) float64 {
	switch region {
	case "North America":
		return 1.4
	case "Europe":
		return 1.15
	case "APAC":
		return 0.95
	default:
		return 0.7
	}
}
