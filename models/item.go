package models

// ItemRecord represents an item as stored in a category JSON file
// Example: {"id": "topbikini1item", "src": "images/topbikini1.png", "visibility": "hidden", "alt": "Red top"}
type ItemRecord struct {
	ID         string `json:"id"`
	Src        string `json:"src"`
	Visibility string `json:"visibility"` // "visible" or anything else (hidden)
	Alt        string `json:"alt"`
}

// Item represents a wardrobe item with its current visibility
type Item struct {
	ID       string `json:"id"`
	Category string `json:"category"`
	Name     string `json:"name"`
	Src      string `json:"src"`
	Visible  bool   `json:"visible"`
}

// RenderRequest carries everything the presentation layer needs to draw an item
// Toggling the item must send back (ID, Category)
type RenderRequest struct {
	ID        string `json:"id"`
	Category  string `json:"category"`
	Src       string `json:"src"`
	ButtonSrc string `json:"buttonSrc"`
	Label     string `json:"label"`
	Visible   bool   `json:"visible"`
	ZIndex    int    `json:"zIndex"`
}

// ToggleRequest represents the request body for toggling an item
// Example: {"itemId": "onepiece1item.png", "category": "onepiece1"}
type ToggleRequest struct {
	ItemID   string `json:"itemId"`
	Category string `json:"category"`
}
