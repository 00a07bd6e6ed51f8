// Package catalogtest holds product fixtures and data source fakes shared
// by the test suites.
package catalogtest

import (
	"fmt"

	"github.com/aarondl/null/v8"

	"github.com/nrfta/go-catalog"
)

// Category names used by Products.
const (
	Electronics = "Electronics"
	Accessories = "Accessories"
)

// Products returns a 10 product catalog across two categories, priced
// 19, 49, 79, 99, 149, 199, 299, 399, 699 and 999. Exactly one product
// ("Phone") matches the search term "phone".
func Products() []catalog.Product {
	return []catalog.Product{
		{ID: 1, Name: "Phone", Category: Electronics, Price: 699, Description: "Smart handset with a large OLED screen", ImageURL: null.StringFrom("https://img.example.com/1.png")},
		{ID: 2, Name: "Laptop", Category: Electronics, Price: 999, Description: "Thin and light 14 inch notebook"},
		{ID: 3, Name: "Tablet", Category: Electronics, Price: 399, Description: "10 inch touch screen slate", ImageURL: null.StringFrom("https://img.example.com/3.png")},
		{ID: 4, Name: "Smartwatch", Category: Electronics, Price: 299, Description: "Fitness tracking on the wrist"},
		{ID: 5, Name: "Camera", Category: Electronics, Price: 149, Description: "Compact mirrorless body"},
		{ID: 6, Name: "Charger", Category: Accessories, Price: 19, Description: "65W USB-C wall adapter"},
		{ID: 7, Name: "Cable", Category: Accessories, Price: 49, Description: "Braided USB-C cable, 2m"},
		{ID: 8, Name: "Case", Category: Accessories, Price: 79, Description: "Leather sleeve for small devices"},
		{ID: 9, Name: "Keyboard", Category: Accessories, Price: 99, Description: "Mechanical, tenkeyless"},
		{ID: 10, Name: "Mouse", Category: Accessories, Price: 199, Description: "Wireless ergonomic pointer"},
	}
}

// Generate returns n deterministic products with IDs 1..n spread over three
// categories.
func Generate(n int) []catalog.Product {
	categories := []string{Electronics, Accessories, "Home"}
	out := make([]catalog.Product, n)
	for i := range out {
		id := int64(i + 1)
		out[i] = catalog.Product{
			ID:          id,
			Name:        fmt.Sprintf("Product %03d", id),
			Category:    categories[i%len(categories)],
			Price:       float64((i*37)%1000) + 0.99,
			Description: fmt.Sprintf("Generated item number %d", id),
		}
		if i%4 == 0 {
			out[i].ImageURL = null.StringFrom(fmt.Sprintf("https://img.example.com/%d.png", id))
		}
	}
	return out
}

// Names returns the names of products, in order.
func Names(products []catalog.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.Name
	}
	return out
}
