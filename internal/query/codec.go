package query

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

// The codec is the canonical mapping between a Query and a user-editable URL
// query string. Encode emits only fields with a non-empty value; Decode fills
// absent fields from the caller-supplied fallback, so for any canonical query
// q, Decode(Encode(q), q) restores q exactly.

const listSeparator = ","

// Encode serializes a query to URL query-string form. Empty selections and
// zero values produce no parameter at all.
func Encode(q Query) string {
	params := url.Values{}

	setIfPresent(params, "dataset", q.DatasetID)
	setIfPresent(params, "from", q.DateFrom)
	setIfPresent(params, "to", q.DateTo)
	setIfPresent(params, "regions", strings.Join(q.Regions, listSeparator))
	setIfPresent(params, "categories", strings.Join(q.Categories, listSeparator))
	setIfPresent(params, "metric", q.Metric)
	setIfPresent(params, "groupBy", q.GroupBy)
	setIfPresent(params, "sortBy", q.SortBy)
	setIfPresent(params, "sortDir", q.SortDir)
	if q.Limit != 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}

	return params.Encode()
}

// Decode parses a query string, taking any absent scalar field from
// fallback. The fallback must be the default query of the dataset in play;
// decode never substitutes hard-coded defaults of its own.
func Decode(search string, fallback Query) Query {
	search = strings.TrimPrefix(search, "?")
	params, _ := url.ParseQuery(search) // partial results are fine, bad pairs are dropped

	q := fallback.Clone()
	q.DatasetID = getOr(params, "dataset", fallback.DatasetID)
	q.DateFrom = getOr(params, "from", fallback.DateFrom)
	q.DateTo = getOr(params, "to", fallback.DateTo)
	q.Regions = parseList(params.Get("regions"))
	q.Categories = parseList(params.Get("categories"))
	q.Metric = getOr(params, "metric", fallback.Metric)
	q.GroupBy = getOr(params, "groupBy", fallback.GroupBy)
	q.SortBy = getOr(params, "sortBy", fallback.SortBy)
	q.SortDir = getOr(params, "sortDir", fallback.SortDir)

	if token := params.Get("limit"); token != "" {
		if v, err := strconv.ParseFloat(token, 64); err == nil && !math.IsInf(v, 0) && !math.IsNaN(v) {
			q.Limit = int(v)
		}
	}

	return q
}

func setIfPresent(params url.Values, key, value string) {
	if value != "" {
		params.Set(key, value)
	}
}

func getOr(params url.Values, key, fallback string) string {
	if !params.Has(key) {
		return fallback
	}
	if v := params.Get(key); v != "" {
		return v
	}
	return fallback
}

// parseList splits a comma-joined token, trimming whitespace and dropping
// empty entries. An absent or empty token means "no selection", never "use
// the fallback selection".
func parseList(value string) []string {
	if value == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(value, listSeparator) {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// Location is a parsed hash fragment: the route path and its search portion.
type Location struct {
	Pathname string
	Search   string
}

// ParseHashLocation splits a hash fragment like "#/dash?dataset=sales" into
// pathname and search. A missing or bare "#" normalizes to pathname "/".
func ParseHashLocation(hash string) Location {
	withoutHash := strings.TrimPrefix(hash, "#")

	pathPart, searchPart, _ := strings.Cut(withoutHash, "?")
	loc := Location{Pathname: normalizePath(pathPart)}
	if searchPart != "" {
		loc.Search = "?" + searchPart
	}
	return loc
}

// BuildShareURL produces a shareable link for a query under the given base
// URL and hash route.
func BuildShareURL(base, pathname string, q Query) string {
	search := Encode(q)
	if search == "" {
		return base + "#" + normalizePath(pathname)
	}
	return base + "#" + normalizePath(pathname) + "?" + search
}

func normalizePath(pathname string) string {
	if pathname == "" {
		return "/"
	}
	if !strings.HasPrefix(pathname, "/") {
		return "/" + pathname
	}
	return pathname
}
