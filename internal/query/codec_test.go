package query

import (
	"reflect"
	"strings"
	"testing"
)

func canonicalQuery() Query {
	return Query{
		DatasetID: "sales",
		DateFrom:  "2024-01-05",
		DateTo:    "2024-03-20",
		Metric:    "revenue",
		GroupBy:   GroupWeek,
		SortBy:    SortByValue,
		SortDir:   SortDesc,
		Limit:     8,
	}
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Query)
	}{
		{"defaults", func(q *Query) {}},
		{"with selections", func(q *Query) {
			q.Regions = []string{"Europe", "APAC"}
			q.Categories = []string{"Online"}
		}},
		{"empty selections", func(q *Query) {
			q.Regions = nil
			q.Categories = nil
		}},
		{"limit lower bound", func(q *Query) { q.Limit = 1 }},
		{"limit upper bound", func(q *Query) { q.Limit = 20 }},
		{"month grouping label sort asc", func(q *Query) {
			q.GroupBy = GroupMonth
			q.SortBy = SortByLabel
			q.SortDir = SortAsc
		}},
		{"selection values with spaces", func(q *Query) {
			q.Regions = []string{"Latin America", "North America"}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := canonicalQuery()
			tt.mutate(&q)

			decoded := Decode(Encode(q), q)
			if !reflect.DeepEqual(decoded, q) {
				t.Errorf("round trip mismatch:\nin  %+v\nout %+v\nencoded %q", q, decoded, Encode(q))
			}
		})
	}
}

func TestEncode_OmitsEmptyFields(t *testing.T) {
	encoded := Encode(Query{DatasetID: "sales", Limit: 8})

	if strings.Contains(encoded, "regions") || strings.Contains(encoded, "categories") {
		t.Errorf("empty selections must not be emitted: %q", encoded)
	}
	if strings.Contains(encoded, "from") || strings.Contains(encoded, "metric") {
		t.Errorf("empty scalars must not be emitted: %q", encoded)
	}

	empty := Encode(Query{})
	if empty != "" {
		t.Errorf("Encode(zero query) = %q, want empty string", empty)
	}
}

func TestDecode_FallbackForAbsentFields(t *testing.T) {
	fallback := canonicalQuery()
	q := Decode("groupBy=month", fallback)

	if q.GroupBy != GroupMonth {
		t.Errorf("groupBy = %q, want decoded value", q.GroupBy)
	}
	if q.DatasetID != fallback.DatasetID || q.Metric != fallback.Metric || q.Limit != fallback.Limit {
		t.Errorf("absent fields must come from fallback: %+v", q)
	}
	if q.DateFrom != fallback.DateFrom || q.DateTo != fallback.DateTo {
		t.Errorf("absent dates must come from fallback: %s..%s", q.DateFrom, q.DateTo)
	}
}

func TestDecode_SelectionParsing(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  []string
	}{
		{"plain list", "regions=Europe,APAC", []string{"Europe", "APAC"}},
		{"whitespace trimmed", "regions=%20Europe%20,%20APAC", []string{"Europe", "APAC"}},
		{"empty tokens dropped", "regions=Europe,,APAC,", []string{"Europe", "APAC"}},
		{"absent means no selection", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fallback := canonicalQuery()
			fallback.Regions = []string{"should-not-leak"}
			q := Decode(tt.token, fallback)
			if !reflect.DeepEqual(q.Regions, tt.want) {
				t.Errorf("regions = %v, want %v", q.Regions, tt.want)
			}
		})
	}
}

func TestDecode_LimitToken(t *testing.T) {
	fallback := canonicalQuery() // limit 8

	tests := []struct {
		name  string
		token string
		want  int
	}{
		{"integer", "limit=5", 5},
		{"float truncates", "limit=12.7", 12},
		{"non-numeric keeps fallback", "limit=abc", 8},
		{"infinite keeps fallback", "limit=Inf", 8},
		{"absent keeps fallback", "", 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := Decode(tt.token, fallback)
			if q.Limit != tt.want {
				t.Errorf("Decode(%q) limit = %d, want %d", tt.token, q.Limit, tt.want)
			}
		})
	}
}

func TestDecode_LeadingQuestionMark(t *testing.T) {
	q := Decode("?dataset=users", canonicalQuery())
	if q.DatasetID != "users" {
		t.Errorf("datasetId = %q, want leading ? stripped", q.DatasetID)
	}
}

func TestParseHashLocation(t *testing.T) {
	tests := []struct {
		name         string
		hash         string
		wantPathname string
		wantSearch   string
	}{
		{"full fragment", "#/dash?dataset=sales", "/dash", "?dataset=sales"},
		{"no search", "#/about", "/about", ""},
		{"bare hash", "#", "/", ""},
		{"empty", "", "/", ""},
		{"missing leading slash", "#dash?x=1", "/dash", "?x=1"},
		{"empty search part", "#/dash?", "/dash", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc := ParseHashLocation(tt.hash)
			if loc.Pathname != tt.wantPathname || loc.Search != tt.wantSearch {
				t.Errorf("ParseHashLocation(%q) = {%q %q}, want {%q %q}",
					tt.hash, loc.Pathname, loc.Search, tt.wantPathname, tt.wantSearch)
			}
		})
	}
}

func TestBuildShareURL(t *testing.T) {
	q := Query{DatasetID: "sales", Limit: 8}
	got := BuildShareURL("https://example.com/app", "/dash", q)
	want := "https://example.com/app#/dash?dataset=sales&limit=8"
	if got != want {
		t.Errorf("BuildShareURL = %q, want %q", got, want)
	}

	bare := BuildShareURL("https://example.com/app", "", Query{})
	if bare != "https://example.com/app#/" {
		t.Errorf("BuildShareURL with empty query = %q", bare)
	}
}
