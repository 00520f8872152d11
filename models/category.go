package models

// Category represents a clothing category of the dress-up wardrobe
type Category struct {
	ID    string `json:"id" yaml:"id"`       // Lower-case identifier (e.g., "onepiece1")
	File  string `json:"file" yaml:"file"`   // JSON file holding the category items (e.g., "OnePiece1.json")
	Order int    `json:"order" yaml:"order"` // Stacking order (z-index) of the category layers
}

// ExclusionRule describes two disjoint sets of categories that can't be worn together.
// An item becoming visible in any category of A hides every item of B, and vice versa.
type ExclusionRule struct {
	A []string `json:"a" yaml:"a"`
	B []string `json:"b" yaml:"b"`
}

// CategoryData holds the raw item records loaded for a category
type CategoryData struct {
	Category Category     `json:"category"`
	Items    []ItemRecord `json:"items"`
}
