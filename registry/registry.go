package registry

import (
	"fmt"
	"log"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"armario-dressup/models"
)

// defaultCategories is the built-in wardrobe, in load order
var defaultCategories = []models.Category{
	{ID: "socks2", File: "Socks2.json", Order: 6},
	{ID: "bottombikini1", File: "BottomBikini1.json", Order: 1},
	{ID: "bottombikini2", File: "BottomBikini2.json", Order: 1},
	{ID: "topbikini1", File: "TopBikini1.json", Order: 2},
	{ID: "onepiece1", File: "OnePiece1.json", Order: 3},
	{ID: "short1", File: "Short1.json", Order: 4},
	{ID: "short2", File: "Short2.json", Order: 4},
	{ID: "skirt1", File: "Skirt1.json", Order: 5},
	{ID: "dress1", File: "Dress1.json", Order: 7},
	{ID: "hat1", File: "Hat1.json", Order: 9},
	{ID: "hat2", File: "Hat2.json", Order: 9},
	{ID: "jacket1", File: "Jacket1.json", Order: 8},
	{ID: "jacket2", File: "Jacket2.json", Order: 8},
}

var defaultRules = []models.ExclusionRule{
	{A: []string{"topbikini1", "bottombikini1"}, B: []string{"onepiece1"}},
	{A: []string{"dress1"}, B: []string{"short1", "skirt1"}},
}

// Definition is the on-disk (YAML) form of a wardrobe
type Definition struct {
	Categories []models.Category      `yaml:"categories"`
	Rules      []models.ExclusionRule `yaml:"rules"`
}

// Registry maps categories to their stacking order and holds the load order
// and the exclusion rules of the wardrobe
type Registry struct {
	categories []models.Category
	index      map[string]int
	rules      []models.ExclusionRule
	logger     *log.Logger

	warnOnce sync.Once
	// OnUnknown is called on every lookup of an unknown category (metrics hook)
	OnUnknown func(categoryID string)
}

// Default returns the built-in wardrobe registry
func Default() *Registry {
	r, err := New(Definition{Categories: defaultCategories, Rules: defaultRules})
	if err != nil {
		panic(fmt.Sprintf("registry: invalid built-in definition: %v", err))
	}
	return r
}

// New validates a definition and builds a registry from it
func New(def Definition) (*Registry, error) {
	if len(def.Categories) == 0 {
		return nil, fmt.Errorf("definition has no categories")
	}

	r := &Registry{
		index:  make(map[string]int, len(def.Categories)),
		logger: log.Default(),
	}

	for i, c := range def.Categories {
		c.ID = strings.ToLower(strings.TrimSpace(c.ID))
		c.File = strings.TrimSpace(c.File)
		if c.File == "" {
			return nil, fmt.Errorf("category %d (%s) has an empty file name", i, c.ID)
		}
		// Definitions may omit the id: "OnePiece1.json" -> "onepiece1"
		if c.ID == "" {
			c.ID = CategoryIDFromFile(c.File)
		}
		if _, exists := r.index[c.ID]; exists {
			return nil, fmt.Errorf("duplicate category %s", c.ID)
		}
		r.index[c.ID] = i
		r.categories = append(r.categories, c)
	}

	for i, rule := range def.Rules {
		if len(rule.A) == 0 || len(rule.B) == 0 {
			return nil, fmt.Errorf("rule %d: both sides must name at least one category", i)
		}
		sideA := make(map[string]bool, len(rule.A))
		normalized := models.ExclusionRule{}
		for _, id := range rule.A {
			id = strings.ToLower(strings.TrimSpace(id))
			if _, ok := r.index[id]; !ok {
				return nil, fmt.Errorf("rule %d: unknown category %s", i, id)
			}
			sideA[id] = true
			normalized.A = append(normalized.A, id)
		}
		for _, id := range rule.B {
			id = strings.ToLower(strings.TrimSpace(id))
			if _, ok := r.index[id]; !ok {
				return nil, fmt.Errorf("rule %d: unknown category %s", i, id)
			}
			if sideA[id] {
				return nil, fmt.Errorf("rule %d: category %s is on both sides", i, id)
			}
			normalized.B = append(normalized.B, id)
		}
		r.rules = append(r.rules, normalized)
	}

	return r, nil
}

// LoadFile reads a YAML wardrobe definition from path
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read wardrobe definition: %w", err)
	}

	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("failed to parse wardrobe definition: %w", err)
	}

	r, err := New(def)
	if err != nil {
		return nil, fmt.Errorf("invalid wardrobe definition %s: %w", path, err)
	}

	log.Printf("✓ Wardrobe definition loaded from %s: %d categories, %d rules", path, len(r.categories), len(r.rules))
	return r, nil
}

// SetLogger replaces the logger used for registry warnings
func (r *Registry) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// StackingOrder returns the z-index of a category.
// Unknown categories get 0; only the first unknown lookup is logged.
func (r *Registry) StackingOrder(categoryID string) int {
	if i, ok := r.index[categoryID]; ok {
		return r.categories[i].Order
	}

	r.warnOnce.Do(func() {
		r.logger.Printf("⚠️  Z-index for category %q is not defined. Defaulting to 0.", categoryID)
	})
	if r.OnUnknown != nil {
		r.OnUnknown(categoryID)
	}
	return 0
}

// Category returns the category with the given id
func (r *Registry) Category(categoryID string) (models.Category, bool) {
	i, ok := r.index[categoryID]
	if !ok {
		return models.Category{}, false
	}
	return r.categories[i], true
}

// LoadOrder returns the categories in the order they must be loaded.
// It is also the rendering tie-break between equal stacking orders.
func (r *Registry) LoadOrder() []models.Category {
	out := make([]models.Category, len(r.categories))
	copy(out, r.categories)
	return out
}

// LoadIndex returns the position of a category in the load order, or -1
func (r *Registry) LoadIndex(categoryID string) int {
	if i, ok := r.index[categoryID]; ok {
		return i
	}
	return -1
}

// Rules returns the exclusion rules of the wardrobe
func (r *Registry) Rules() []models.ExclusionRule {
	out := make([]models.ExclusionRule, len(r.rules))
	copy(out, r.rules)
	return out
}

// CategoryIDFromFile derives the category id from its JSON file name ("OnePiece1.json" -> "onepiece1")
func CategoryIDFromFile(file string) string {
	return strings.ToLower(strings.TrimSuffix(file, ".json"))
}
