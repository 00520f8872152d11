package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"armario-dressup/engine"
	"armario-dressup/models"
	"armario-dressup/service"
	"armario-dressup/session"
)

// SessionController handles HTTP requests for dress-up sessions
type SessionController struct {
	store    *session.Store
	composer service.OutfitComposerInterface
	snapshot service.SnapshotServiceInterface
}

// NewSessionController creates a new SessionController
func NewSessionController(store *session.Store, composer service.OutfitComposerInterface, snapshot service.SnapshotServiceInterface) *SessionController {
	return &SessionController{
		store:    store,
		composer: composer,
		snapshot: snapshot,
	}
}

func sessionResponse(s *session.Session) models.SessionResponse {
	return models.SessionResponse{
		ID:        s.ID,
		CreatedAt: s.CreatedAt.UTC().Format(time.RFC3339),
		Items:     s.RenderRequests(),
	}
}

// lookup resolves the session of the request path, answering 404 itself when it is missing
func (c *SessionController) lookup(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id, _ := splitSessionPath(r.URL.Path)
	s, err := c.store.Get(id)
	if err != nil {
		log.Printf("❌ Session not found: %s", id)
		http.Error(w, "Session not found", http.StatusNotFound)
		return nil, false
	}
	return s, true
}

// CreateSession handles POST /api/sessions
// Starts a session with every item at its initial visibility
func (c *SessionController) CreateSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s := c.store.Create()
	writeJSON(w, http.StatusCreated, sessionResponse(s))
}

// GetSession handles GET /api/sessions/{id}
// Returns the render requests of every item of the session
func (c *SessionController) GetSession(w http.ResponseWriter, r *http.Request) {
	s, ok := c.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse(s))
}

// DeleteSession handles DELETE /api/sessions/{id}
func (c *SessionController) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id, _ := splitSessionPath(r.URL.Path)
	if !c.store.Delete(id) {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Toggle handles POST /api/sessions/{id}/toggle
// Body: {"itemId": "onepiece1item.png", "category": "onepiece1"}
func (c *SessionController) Toggle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s, ok := c.lookup(w, r)
	if !ok {
		return
	}

	var req models.ToggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ Toggle: Failed to decode request body: %v", err)
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	req.ItemID = strings.TrimSpace(req.ItemID)
	req.Category = strings.ToLower(strings.TrimSpace(req.Category))
	if req.ItemID == "" || req.Category == "" {
		http.Error(w, "itemId and category are required", http.StatusBadRequest)
		return
	}

	if !toggle(w, s, req) {
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse(s))
}

// toggle applies a toggle and maps engine errors to HTTP errors; it reports success
func toggle(w http.ResponseWriter, s *session.Session, req models.ToggleRequest) bool {
	err := s.Toggle(req.ItemID, req.Category)
	switch {
	case err == nil:
		return true
	case errors.Is(err, engine.ErrUnknownItem):
		log.Printf("❌ Toggle: %v", err)
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, engine.ErrCategoryMismatch):
		log.Printf("❌ Toggle: %v", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		log.Printf("❌ Toggle: %v", err)
		http.Error(w, "Failed to toggle item", http.StatusInternalServerError)
	}
	return false
}

// Reset handles POST /api/sessions/{id}/reset
func (c *SessionController) Reset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s, ok := c.lookup(w, r)
	if !ok {
		return
	}
	s.Reset()
	writeJSON(w, http.StatusOK, sessionResponse(s))
}

// OutfitImage handles GET /api/sessions/{id}/outfit.png?size=thumb|medium|full
// Returns the visible layers flattened into one PNG
func (c *SessionController) OutfitImage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s, ok := c.lookup(w, r)
	if !ok {
		return
	}

	size := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("size")))
	if !service.ValidComposeSize(size) {
		http.Error(w, "Invalid size. Valid sizes: thumb, medium, full", http.StatusBadRequest)
		return
	}

	png, err := c.composer.Compose(r.Context(), s.Layers(), size)
	if err != nil {
		log.Printf("❌ OutfitImage: Error composing outfit for session %s: %v", s.ID, err)
		http.Error(w, fmt.Sprintf("Failed to compose outfit: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// Snapshot handles GET /api/sessions/{id}/snapshot?format=png|pdf
// Captures the dress-up page of the session with headless Chrome
func (c *SessionController) Snapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s, ok := c.lookup(w, r)
	if !ok {
		return
	}

	format := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	if format == "" {
		format = "png"
	}

	var (
		data        []byte
		err         error
		contentType string
	)
	switch format {
	case "png":
		data, err = c.snapshot.CapturePNG(r.Context(), s.ID)
		contentType = "image/png"
	case "pdf":
		data, err = c.snapshot.CapturePDF(r.Context(), s.ID)
		contentType = "application/pdf"
	default:
		http.Error(w, "Invalid format. Valid formats: png, pdf", http.StatusBadRequest)
		return
	}
	if err != nil {
		log.Printf("❌ Snapshot: Error capturing session %s: %v", s.ID, err)
		http.Error(w, fmt.Sprintf("Failed to capture snapshot: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`inline; filename="outfit-%s.%s"`, s.ID, format))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
