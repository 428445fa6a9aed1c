package game

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// CatalogFile represents the top-level YAML structure of a type
// catalog.
type CatalogFile struct {
	UnitTypes  []UnitTypeEntry  `yaml:"unitTypes"`
	GoodsTypes []GoodsTypeEntry `yaml:"goodsTypes"`
}

// UnitTypeEntry describes one unit type.
type UnitTypeEntry struct {
	Name     string `yaml:"name"`
	Moves    int    `yaml:"moves"`
	Naval    bool   `yaml:"naval"`
	Capacity int    `yaml:"capacity"`
}

// GoodsTypeEntry describes one goods type.
type GoodsTypeEntry struct {
	Name      string `yaml:"name"`
	BasePrice int    `yaml:"basePrice"`
}

// Catalog is the static type table that units and goods reference by
// name.
type Catalog struct {
	unitTypes  map[string]UnitTypeEntry
	goodsTypes map[string]GoodsTypeEntry
}

// LoadCatalog parses a YAML catalog file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cf CatalogFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("parse catalog YAML: %w", err)
	}
	return newCatalog(cf), nil
}

func newCatalog(cf CatalogFile) *Catalog {
	c := &Catalog{
		unitTypes:  make(map[string]UnitTypeEntry),
		goodsTypes: make(map[string]GoodsTypeEntry),
	}
	for _, u := range cf.UnitTypes {
		c.unitTypes[u.Name] = u
	}
	for _, gt := range cf.GoodsTypes {
		c.goodsTypes[gt.Name] = gt
	}
	return c
}

// DefaultCatalog returns the built-in catalog used when no file is
// supplied.
func DefaultCatalog() *Catalog {
	return newCatalog(CatalogFile{
		UnitTypes: []UnitTypeEntry{
			{Name: "scout", Moves: 4},
			{Name: "soldier", Moves: 1},
			{Name: "wagon", Moves: 2, Capacity: 2},
			{Name: "caravel", Moves: 4, Naval: true, Capacity: 2},
		},
		GoodsTypes: []GoodsTypeEntry{
			{Name: "food", BasePrice: 1},
			{Name: "furs", BasePrice: 4},
			{Name: "ore", BasePrice: 3},
			{Name: "tools", BasePrice: 2},
		},
	})
}

// UnitType returns the entry for the named unit type.
func (c *Catalog) UnitType(name string) (UnitTypeEntry, bool) {
	u, ok := c.unitTypes[name]
	return u, ok
}

// GoodsType returns the entry for the named goods type.
func (c *Catalog) GoodsType(name string) (GoodsTypeEntry, bool) {
	gt, ok := c.goodsTypes[name]
	return gt, ok
}

// UnitTypeNames returns all unit type names, sorted.
func (c *Catalog) UnitTypeNames() []string {
	names := make([]string, 0, len(c.unitTypes))
	for name := range c.unitTypes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GoodsTypeNames returns all goods type names, sorted.
func (c *Catalog) GoodsTypeNames() []string {
	names := make([]string, 0, len(c.goodsTypes))
	for name := range c.goodsTypes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
