// Package customers holds the static customer showcase dataset.
package customers

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"sitecontent/internal/domain"
)

//go:embed customers.yaml
var dataset []byte

type file struct {
	Customers []domain.Customer `yaml:"customers"`
}

// Load decodes the embedded dataset.
func Load() ([]domain.Customer, error) {
	return Parse(dataset)
}

// Parse decodes a customers document, keeping declaration order. Every
// customer needs an id, a name and an industry; ids must be unique.
func Parse(data []byte) ([]domain.Customer, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode customers: %w", err)
	}

	seen := make(map[string]bool, len(f.Customers))
	for i, c := range f.Customers {
		switch {
		case c.ID == "":
			return nil, fmt.Errorf("customer %d: id is required", i)
		case c.Name == "":
			return nil, fmt.Errorf("customer %q: name is required", c.ID)
		case c.Industry == "":
			return nil, fmt.Errorf("customer %q: industry is required", c.ID)
		case seen[c.ID]:
			return nil, fmt.Errorf("customer %q: duplicate id", c.ID)
		}
		seen[c.ID] = true
	}

	if f.Customers == nil {
		f.Customers = []domain.Customer{}
	}
	return f.Customers, nil
}
