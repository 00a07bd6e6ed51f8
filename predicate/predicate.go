// Package predicate evaluates declarative filter specs against a single
// product.
//
// Evaluation is total: unknown field keys and unknown filter kinds make a
// filter non-matching instead of failing the whole pass. An Evaluator can
// log those cases as warnings; the package level functions stay silent.
//
// Semantics per kind:
//   - value: case-insensitive substring of the field's string form; null value is vacuous
//   - range: min <= field <= max, either bound optional; both null is vacuous
//   - greater / smaller: field > t / field < t; null threshold is vacuous
//   - multiselect: field equals a selected option; nothing selected is vacuous
//
// A NaN or infinite numeric bound makes a filter non-matching.
package predicate

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/nrfta/go-catalog"
)

// Evaluator matches products against filters and search terms.
// The zero value is usable and logs nothing.
type Evaluator struct {
	logger zerolog.Logger
}

// New creates an Evaluator that reports malformed filters on logger.
func New(logger zerolog.Logger) *Evaluator {
	return &Evaluator{logger: logger}
}

var silent = &Evaluator{logger: zerolog.Nop()}

// Matches reports whether p satisfies spec on the field named key.
func Matches(p catalog.Product, key string, spec catalog.FilterSpec) bool {
	return silent.Matches(p, key, spec)
}

// MatchesAll reports whether p satisfies every filter.
func MatchesAll(p catalog.Product, filters []catalog.FieldFilter) bool {
	return silent.MatchesAll(p, filters)
}

// MatchesSearch reports whether term occurs in the name, category or
// description of p, ignoring case. An empty term matches everything.
func MatchesSearch(p catalog.Product, term string) bool {
	if term == "" {
		return true
	}
	needle := strings.ToLower(term)
	for _, key := range searchFields {
		text, _ := FieldText(p, key)
		if strings.Contains(strings.ToLower(text), needle) {
			return true
		}
	}
	return false
}

// Matches reports whether p satisfies spec on the field named key.
func (e *Evaluator) Matches(p catalog.Product, key string, spec catalog.FilterSpec) bool {
	if spec.IsVacuous() {
		return true
	}

	a, ok := accessors[key]
	if !ok {
		e.warn(key, spec.Kind, "unknown filter field")
		return false
	}

	switch spec.Kind {
	case catalog.KindRange, catalog.KindGreater, catalog.KindSmaller:
		if !spec.Finite() {
			e.warn(key, spec.Kind, "non-finite filter bound")
			return false
		}
	}

	switch spec.Kind {
	case catalog.KindValue:
		return strings.Contains(strings.ToLower(a.text(p)), strings.ToLower(spec.Value.String))

	case catalog.KindMultiselect:
		v := a.text(p)
		for _, o := range spec.Options {
			if o.Selected && o.Value == v {
				return true
			}
		}
		return false

	case catalog.KindRange:
		if !a.Numeric {
			return false
		}
		n := a.number(p)
		if spec.Min.Valid && n < spec.Min.Float64 {
			return false
		}
		if spec.Max.Valid && n > spec.Max.Float64 {
			return false
		}
		return true

	case catalog.KindGreater:
		return a.Numeric && a.number(p) > spec.Threshold.Float64

	case catalog.KindSmaller:
		return a.Numeric && a.number(p) < spec.Threshold.Float64

	case catalog.KindNever:
		return false

	default:
		e.warn(key, spec.Kind, "unknown filter kind")
		return false
	}
}

// MatchesAll reports whether p satisfies every filter. Filters on different
// keys narrow independently; they are never ORed.
func (e *Evaluator) MatchesAll(p catalog.Product, filters []catalog.FieldFilter) bool {
	for _, f := range filters {
		if !e.Matches(p, f.Key, f.Spec) {
			return false
		}
	}
	return true
}

// MatchesSearch applies the package level search predicate.
func (e *Evaluator) MatchesSearch(p catalog.Product, term string) bool {
	return MatchesSearch(p, term)
}

// Filter returns the products that satisfy all filters and the search term,
// preserving order.
func (e *Evaluator) Filter(products []catalog.Product, filters []catalog.FieldFilter, term string) []catalog.Product {
	e.checkKeys(filters)

	quiet := &Evaluator{logger: zerolog.Nop()}
	out := make([]catalog.Product, 0, len(products))
	for _, p := range products {
		if quiet.MatchesAll(p, filters) && MatchesSearch(p, term) {
			out = append(out, p)
		}
	}
	return out
}

// checkKeys logs malformed filters once per pass rather than once per product.
func (e *Evaluator) checkKeys(filters []catalog.FieldFilter) {
	for _, f := range filters {
		if f.Spec.IsVacuous() {
			continue
		}
		if _, ok := accessors[f.Key]; !ok {
			e.warn(f.Key, f.Spec.Kind, "unknown filter field")
			continue
		}
		switch f.Spec.Kind {
		case catalog.KindRange, catalog.KindGreater, catalog.KindSmaller:
			if !f.Spec.Finite() {
				e.warn(f.Key, f.Spec.Kind, "non-finite filter bound")
			}
		case catalog.KindValue, catalog.KindMultiselect, catalog.KindNever:
		default:
			e.warn(f.Key, f.Spec.Kind, "unknown filter kind")
		}
	}
}

func (e *Evaluator) warn(key string, kind catalog.FilterKind, msg string) {
	if e == nil {
		return
	}
	e.logger.Warn().
		Str("field", key).
		Str("kind", string(kind)).
		Msg(msg)
}
