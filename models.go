package catalog

import (
	"cmp"
	"math"
	"slices"

	"github.com/aarondl/null/v8"
)

// Product is a single catalog entry as returned by a DataSource.
// Products are treated as immutable once fetched.
type Product struct {
	ID          int64       `json:"id" boil:"id"`
	Name        string      `json:"name" boil:"name"`
	Category    string      `json:"category" boil:"category"`
	Price       float64     `json:"price" boil:"price"`
	Description string      `json:"description" boil:"description"`
	ImageURL    null.String `json:"imageUrl" boil:"image_url"`
}

// SortByID puts products into catalog order, ascending by ID. Products with
// equal IDs keep their relative order.
func SortByID(products []Product) {
	slices.SortStableFunc(products, func(a, b Product) int {
		return cmp.Compare(a.ID, b.ID)
	})
}

// Field keys understood by the predicate evaluator and the remote payload.
// They match the JSON names of Product.
const (
	FieldID          = "id"
	FieldName        = "name"
	FieldCategory    = "category"
	FieldPrice       = "price"
	FieldDescription = "description"
	FieldImageURL    = "imageUrl"
)

// FilterKind discriminates the FilterSpec variants.
type FilterKind string

const (
	// KindValue is a case-insensitive substring match against a field.
	KindValue FilterKind = "value"

	// KindRange is an inclusive numeric range. A null bound is unbounded.
	KindRange FilterKind = "range"

	// KindGreater matches values strictly greater than the threshold.
	KindGreater FilterKind = "greater"

	// KindSmaller matches values strictly smaller than the threshold.
	KindSmaller FilterKind = "smaller"

	// KindMultiselect matches values whose option is selected.
	KindMultiselect FilterKind = "multiselect"

	// KindNever matches nothing. It stands in for filters that arrived
	// malformed, so they narrow the result to empty instead of failing.
	KindNever FilterKind = "never"
)

// Option is one candidate value of a multiselect filter.
type Option struct {
	Value    string `json:"value"`
	Selected bool   `json:"selected"`
}

// FilterSpec is a declarative filter over a single product field.
// Only the fields belonging to Kind are meaningful.
//
// Use the constructors (ValueFilter, RangeFilter, ...) rather than building
// the struct by hand:
//
//	price := catalog.RangeFilter(null.Float64From(50), null.Float64From(150))
//	cats := catalog.MultiselectFilter(
//	    catalog.Option{Value: "Phones", Selected: true},
//	    catalog.Option{Value: "Laptops"},
//	)
type FilterSpec struct {
	Kind FilterKind `json:"type"`

	// Value is used by KindValue.
	Value null.String `json:"value,omitempty"`

	// Min and Max are used by KindRange.
	Min null.Float64 `json:"min,omitempty"`
	Max null.Float64 `json:"max,omitempty"`

	// Threshold is used by KindGreater and KindSmaller.
	Threshold null.Float64 `json:"threshold,omitempty"`

	// Options is used by KindMultiselect. Order is preserved.
	Options []Option `json:"options,omitempty"`
}

// ValueFilter builds a substring filter. An empty value is still a value;
// use null.String{} for an inactive filter.
func ValueFilter(v null.String) FilterSpec {
	return FilterSpec{Kind: KindValue, Value: v}
}

// RangeFilter builds an inclusive range filter.
func RangeFilter(min, max null.Float64) FilterSpec {
	return FilterSpec{Kind: KindRange, Min: min, Max: max}
}

// GreaterFilter builds an exclusive lower-threshold filter.
func GreaterFilter(t null.Float64) FilterSpec {
	return FilterSpec{Kind: KindGreater, Threshold: t}
}

// SmallerFilter builds an exclusive upper-threshold filter.
func SmallerFilter(t null.Float64) FilterSpec {
	return FilterSpec{Kind: KindSmaller, Threshold: t}
}

// MultiselectFilter builds a selection filter from ordered options.
func MultiselectFilter(opts ...Option) FilterSpec {
	return FilterSpec{Kind: KindMultiselect, Options: opts}
}

// Selected returns the values of all selected options, in order.
func (f FilterSpec) Selected() []string {
	var out []string
	for _, o := range f.Options {
		if o.Selected {
			out = append(out, o.Value)
		}
	}
	return out
}

// IsVacuous reports whether the filter excludes nothing in its current
// configuration. Unknown kinds are never vacuous: they exclude everything.
func (f FilterSpec) IsVacuous() bool {
	switch f.Kind {
	case KindValue:
		return !f.Value.Valid
	case KindRange:
		return !f.Min.Valid && !f.Max.Valid
	case KindGreater, KindSmaller:
		return !f.Threshold.Valid
	case KindMultiselect:
		for _, o := range f.Options {
			if o.Selected {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Finite reports whether every set numeric bound of the filter is a finite
// number. Filters with a NaN or infinite bound match nothing.
func (f FilterSpec) Finite() bool {
	for _, b := range []null.Float64{f.Min, f.Max, f.Threshold} {
		if b.Valid && (math.IsNaN(b.Float64) || math.IsInf(b.Float64, 0)) {
			return false
		}
	}
	return true
}

// FieldFilter binds a FilterSpec to a product field key.
type FieldFilter struct {
	Key  string     `json:"key"`
	Spec FilterSpec `json:"spec"`
}
