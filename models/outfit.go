package models

// Outfit represents a saved combination of visible items
type Outfit struct {
	ID        int64    `json:"id"`
	Name      string   `json:"name"`
	ItemIDs   []string `json:"itemIds"`
	CreatedAt string   `json:"createdAt"`
}

// SaveOutfitRequest represents the request body for saving the current outfit of a session
// Example: {"name": "Beach day"}
type SaveOutfitRequest struct {
	Name string `json:"name"`
}

// OutfitListResponse represents the response for listing saved outfits
type OutfitListResponse struct {
	Outfits []Outfit `json:"outfits"`
}

// SessionResponse represents a session with the render requests of all its items
// Example response:
// {
//   "id": "5c0d8f0e-...",
//   "createdAt": "2026-01-04T10:30:00Z",
//   "items": [
//     {"id": "socks2item.png", "category": "socks2", "src": "images/socks2.png",
//      "buttonSrc": "images/socks2b.png", "label": "Socks", "visible": false, "zIndex": 6}
//   ]
// }
type SessionResponse struct {
	ID        string          `json:"id"`
	CreatedAt string          `json:"createdAt"`
	Items     []RenderRequest `json:"items"`
}
