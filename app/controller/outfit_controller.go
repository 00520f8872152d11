package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"armario-dressup/models"
	"armario-dressup/repository"
	"armario-dressup/session"
)

// OutfitController handles HTTP requests for saved outfits
// repository is nil when no database is configured
type OutfitController struct {
	store      *session.Store
	repository repository.OutfitRepositoryInterface
}

// NewOutfitController creates a new OutfitController
func NewOutfitController(store *session.Store, repo repository.OutfitRepositoryInterface) *OutfitController {
	return &OutfitController{
		store:      store,
		repository: repo,
	}
}

func (c *OutfitController) enabled(w http.ResponseWriter) bool {
	if c.repository == nil {
		http.Error(w, "Saved outfits are disabled: no database configured", http.StatusServiceUnavailable)
		return false
	}
	return true
}

// ListOutfits handles GET /api/outfits
func (c *OutfitController) ListOutfits(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !c.enabled(w) {
		return
	}

	outfits, err := c.repository.List(r.Context())
	if err != nil {
		log.Printf("❌ ListOutfits: %v", err)
		http.Error(w, fmt.Sprintf("Failed to list outfits: %v", err), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, models.OutfitListResponse{Outfits: outfits})
}

// SaveOutfit handles POST /api/sessions/{id}/outfits
// Body: {"name": "Beach day"}
// Stores the items currently visible in the session
func (c *OutfitController) SaveOutfit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !c.enabled(w) {
		return
	}

	id, _ := splitSessionPath(r.URL.Path)
	s, err := c.store.Get(id)
	if err != nil {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}

	var req models.SaveOutfitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ SaveOutfit: Failed to decode request body: %v", err)
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		http.Error(w, "name cannot be empty", http.StatusBadRequest)
		return
	}

	outfit, err := c.repository.Save(r.Context(), req.Name, s.VisibleIDs())
	if err != nil {
		log.Printf("❌ SaveOutfit: %v", err)
		http.Error(w, fmt.Sprintf("Failed to save outfit: %v", err), http.StatusInternalServerError)
		return
	}

	log.Printf("✅ SaveOutfit: session=%s outfit=%d items=%d", s.ID, outfit.ID, len(outfit.ItemIDs))
	writeJSON(w, http.StatusCreated, outfit)
}

// ApplyOutfit handles POST /api/sessions/{id}/outfits/{outfitId}/apply
// Replays a saved outfit on the session through the engine
func (c *OutfitController) ApplyOutfit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !c.enabled(w) {
		return
	}

	id, rest := splitSessionPath(r.URL.Path)
	if len(rest) != 3 || rest[0] != "outfits" || rest[2] != "apply" {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}

	outfitID, err := strconv.ParseInt(rest[1], 10, 64)
	if err != nil || outfitID <= 0 {
		http.Error(w, "Invalid outfit id", http.StatusBadRequest)
		return
	}

	s, err := c.store.Get(id)
	if err != nil {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}

	outfit, err := c.repository.GetByID(r.Context(), outfitID)
	if err != nil {
		if errors.Is(err, repository.ErrOutfitNotFound) {
			http.Error(w, "Outfit not found", http.StatusNotFound)
			return
		}
		log.Printf("❌ ApplyOutfit: %v", err)
		http.Error(w, fmt.Sprintf("Failed to get outfit: %v", err), http.StatusInternalServerError)
		return
	}

	if skipped := s.Apply(outfit.ItemIDs); len(skipped) > 0 {
		log.Printf("⚠️  ApplyOutfit: outfit %d references unknown items %v", outfit.ID, skipped)
	}
	writeJSON(w, http.StatusOK, sessionResponse(s))
}
