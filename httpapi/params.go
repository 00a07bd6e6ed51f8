package httpapi

import (
	"math"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/aarondl/null/v8"
	"github.com/friendsofgo/errors"

	"github.com/nrfta/go-catalog"
	"github.com/nrfta/go-catalog/pagination"
)

// errBadRequest marks errors caused by malformed query parameters.
var errBadRequest = errors.New("bad request")

// filterParsers maps a bracket parameter name to its filter kind.
var filterParsers = map[string]func(values []string) (catalog.FilterSpec, error){
	"filter": parseValue,
	"range":  parseRange,
	"gt":     parseThreshold(catalog.GreaterFilter),
	"lt":     parseThreshold(catalog.SmallerFilter),
	"in":     parseIn,
}

// ParseQueryState reads a QueryState from URL parameters. page takes
// precedence over cursor; a missing pageSize uses the configured default.
func ParseQueryState(q url.Values, pageConfig *catalog.PageConfig) (catalog.QueryState, error) {
	size, err := intParam(q, "pageSize", 0)
	if err != nil {
		return catalog.QueryState{}, err
	}
	if !q.Has("pageSize") {
		size = pageConfig.EffectiveSize(0)
	}

	page := 1
	if q.Has("page") {
		if page, err = intParam(q, "page", 1); err != nil {
			return catalog.QueryState{}, err
		}
	} else if c := q.Get("cursor"); c != "" {
		page = pagination.DecodeCursor(&c)
	}

	filters, err := ParseFilters(q)
	if err != nil {
		return catalog.QueryState{}, err
	}

	return catalog.NewQueryState(size).
		WithSearchTerm(strings.TrimSpace(q.Get("q"))).
		WithFilters(filters...).
		WithPage(page), nil
}

// ParseFilters reads the bracketed filter parameters, in key order.
//
//	filter[name]=phone     value
//	range[price]=50,150    range, either side may be empty
//	gt[price]=10           greater
//	lt[price]=10           smaller
//	in[category]=a,b       multiselect with a and b selected
func ParseFilters(q url.Values) ([]catalog.FieldFilter, error) {
	params := make([]string, 0, len(q))
	for p := range q {
		params = append(params, p)
	}
	slices.Sort(params)

	var filters []catalog.FieldFilter
	for _, p := range params {
		open := strings.IndexByte(p, '[')
		if open < 0 || !strings.HasSuffix(p, "]") {
			continue
		}
		kind, key := p[:open], p[open+1:len(p)-1]

		parse, ok := filterParsers[kind]
		if !ok {
			return nil, errors.Wrapf(errBadRequest, "unsupported filter %q", kind)
		}
		if key == "" {
			return nil, errors.Wrapf(errBadRequest, "%s filter without a field", kind)
		}

		spec, err := parse(q[p])
		if err != nil {
			return nil, errors.Wrapf(err, "%s", p)
		}
		filters = append(filters, catalog.FieldFilter{Key: key, Spec: spec})
	}
	return filters, nil
}

func parseValue(values []string) (catalog.FilterSpec, error) {
	return catalog.ValueFilter(null.StringFrom(values[0])), nil
}

func parseRange(values []string) (catalog.FilterSpec, error) {
	lo, hi, ok := strings.Cut(values[0], ",")
	if !ok {
		return catalog.FilterSpec{}, errors.Wrap(errBadRequest, "range must be min,max")
	}
	minBound, err := floatBound(lo)
	if err != nil {
		return catalog.FilterSpec{}, err
	}
	maxBound, err := floatBound(hi)
	if err != nil {
		return catalog.FilterSpec{}, err
	}
	return catalog.RangeFilter(minBound, maxBound), nil
}

func parseThreshold(build func(null.Float64) catalog.FilterSpec) func([]string) (catalog.FilterSpec, error) {
	return func(values []string) (catalog.FilterSpec, error) {
		t, err := floatBound(values[0])
		if err != nil {
			return catalog.FilterSpec{}, err
		}
		return build(t), nil
	}
}

func parseIn(values []string) (catalog.FilterSpec, error) {
	var opts []catalog.Option
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				opts = append(opts, catalog.Option{Value: part, Selected: true})
			}
		}
	}
	return catalog.MultiselectFilter(opts...), nil
}

func floatBound(s string) (null.Float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return null.Float64{}, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return null.Float64{}, errors.Wrapf(errBadRequest, "%q is not a finite number", s)
	}
	return null.Float64From(f), nil
}

func intParam(q url.Values, name string, fallback int) (int, error) {
	v := strings.TrimSpace(q.Get(name))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.Wrapf(errBadRequest, "%s must be an integer", name)
	}
	return n, nil
}
