package predicate

import (
	"strconv"

	"github.com/nrfta/go-catalog"
)

// Field describes a product field that filters and search can address.
type Field struct {
	// Key is the field key used in filters and payloads.
	Key string

	// Column is the products table column holding the field.
	Column string

	// Numeric fields support range, greater and smaller filters.
	Numeric bool
}

type accessor struct {
	Field
	text   func(catalog.Product) string
	number func(catalog.Product) float64
}

var accessors = map[string]accessor{
	catalog.FieldID: {
		Field:  Field{Key: catalog.FieldID, Column: "id", Numeric: true},
		text:   func(p catalog.Product) string { return strconv.FormatInt(p.ID, 10) },
		number: func(p catalog.Product) float64 { return float64(p.ID) },
	},
	catalog.FieldName: {
		Field: Field{Key: catalog.FieldName, Column: "name"},
		text:  func(p catalog.Product) string { return p.Name },
	},
	catalog.FieldCategory: {
		Field: Field{Key: catalog.FieldCategory, Column: "category"},
		text:  func(p catalog.Product) string { return p.Category },
	},
	catalog.FieldPrice: {
		Field:  Field{Key: catalog.FieldPrice, Column: "price", Numeric: true},
		text:   func(p catalog.Product) string { return catalog.FormatNumber(p.Price) },
		number: func(p catalog.Product) float64 { return p.Price },
	},
	catalog.FieldDescription: {
		Field: Field{Key: catalog.FieldDescription, Column: "description"},
		text:  func(p catalog.Product) string { return p.Description },
	},
	catalog.FieldImageURL: {
		Field: Field{Key: catalog.FieldImageURL, Column: "image_url"},
		text:  func(p catalog.Product) string { return p.ImageURL.String },
	},
}

// fieldOrder keeps Fields() deterministic.
var fieldOrder = []string{
	catalog.FieldID,
	catalog.FieldName,
	catalog.FieldCategory,
	catalog.FieldPrice,
	catalog.FieldDescription,
	catalog.FieldImageURL,
}

// Fields lists the known field keys in a stable order.
func Fields() []Field {
	out := make([]Field, 0, len(fieldOrder))
	for _, k := range fieldOrder {
		out = append(out, accessors[k].Field)
	}
	return out
}

// LookupField returns the field for key.
func LookupField(key string) (Field, bool) {
	a, ok := accessors[key]
	return a.Field, ok
}

// FieldText returns the string form of a product field, the form used by
// value and multiselect filters.
func FieldText(p catalog.Product, key string) (string, bool) {
	a, ok := accessors[key]
	if !ok {
		return "", false
	}
	return a.text(p), true
}

// searchFields are the fields a free text search looks at.
var searchFields = []string{
	catalog.FieldName,
	catalog.FieldCategory,
	catalog.FieldDescription,
}

// SearchFields lists the field keys covered by MatchesSearch.
func SearchFields() []string {
	return append([]string(nil), searchFields...)
}
