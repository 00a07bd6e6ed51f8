package memstore

import (
	"os"

	"github.com/aarondl/null/v8"
	"github.com/friendsofgo/errors"
	"gopkg.in/yaml.v3"

	"github.com/nrfta/go-catalog"
)

// fileProduct is the on-disk shape of a fixture entry. YAML is a superset
// of JSON, so the same decoder reads both formats.
type fileProduct struct {
	ID          int64   `yaml:"id"`
	Name        string  `yaml:"name"`
	Category    string  `yaml:"category"`
	Price       float64 `yaml:"price"`
	Description string  `yaml:"description"`
	ImageURL    *string `yaml:"imageUrl"`
}

// ParseProducts decodes a YAML or JSON list of products.
func ParseProducts(data []byte) ([]catalog.Product, error) {
	var entries []fileProduct
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, errors.Wrap(err, "decode products")
	}

	seen := make(map[int64]struct{}, len(entries))
	out := make([]catalog.Product, 0, len(entries))
	for i, e := range entries {
		if _, dup := seen[e.ID]; dup {
			return nil, errors.Errorf("entry %d: duplicate product id %d", i, e.ID)
		}
		if e.Price < 0 {
			return nil, errors.Errorf("entry %d: negative price %v", i, e.Price)
		}
		seen[e.ID] = struct{}{}

		out = append(out, catalog.Product{
			ID:          e.ID,
			Name:        e.Name,
			Category:    e.Category,
			Price:       e.Price,
			Description: e.Description,
			ImageURL:    null.StringFromPtr(e.ImageURL),
		})
	}
	return out, nil
}

// LoadFile reads a fixture file and returns a Store over its products.
func LoadFile(path string, opts ...Option) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}

	products, err := ParseProducts(data)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}

	return New(products, opts...), nil
}
