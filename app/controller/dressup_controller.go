package controller

import (
	"bytes"
	"log"
	"net/http"
	"net/url"
	"strings"

	"armario-dressup/models"
	"armario-dressup/registry"
	"armario-dressup/session"
	"armario-dressup/templates"
)

// DressUpController serves the dress-up HTML page
type DressUpController struct {
	store      *session.Store
	registry   *registry.Registry
	assetsBase string // base href for item images
	baseImage  string
}

// NewDressUpController creates a new DressUpController
func NewDressUpController(store *session.Store, reg *registry.Registry, assetsBase, baseImage string) *DressUpController {
	if !strings.HasSuffix(assetsBase, "/") {
		assetsBase += "/"
	}
	return &DressUpController{
		store:      store,
		registry:   reg,
		assetsBase: assetsBase,
		baseImage:  baseImage,
	}
}

type categoryView struct {
	ID    string
	Items []models.RenderRequest
}

type pageData struct {
	SessionID  string
	AssetsBase string
	BaseImage  string
	Items      []models.RenderRequest
	Categories []categoryView
}

func pageURL(sessionID string) string {
	return "/dressup?session=" + url.QueryEscape(sessionID)
}

// Page handles GET /dressup?session=ID
// Unknown or missing sessions get a new session and a redirect to it
func (c *DressUpController) Page(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s, err := c.store.Get(r.URL.Query().Get("session"))
	if err != nil {
		s = c.store.Create()
		http.Redirect(w, r, pageURL(s.ID), http.StatusSeeOther)
		return
	}

	items := s.RenderRequests()
	byCategory := make(map[string][]models.RenderRequest)
	for _, it := range items {
		byCategory[it.Category] = append(byCategory[it.Category], it)
	}

	data := pageData{
		SessionID:  s.ID,
		AssetsBase: c.assetsBase,
		BaseImage:  c.baseImage,
		Items:      items,
	}
	for _, cat := range c.registry.LoadOrder() {
		data.Categories = append(data.Categories, categoryView{ID: cat.ID, Items: byCategory[cat.ID]})
	}

	var buf bytes.Buffer
	if err := templates.DressUp.Execute(&buf, data); err != nil {
		log.Printf("❌ Page: Error rendering template: %v", err)
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// Toggle handles POST /dressup/toggle (form fields: session, itemId, category)
// Redirects back to the page once the item is toggled
func (c *DressUpController) Toggle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	s, err := c.store.Get(r.PostForm.Get("session"))
	if err != nil {
		http.Redirect(w, r, "/dressup", http.StatusSeeOther)
		return
	}

	req := models.ToggleRequest{
		ItemID:   strings.TrimSpace(r.PostForm.Get("itemId")),
		Category: strings.ToLower(strings.TrimSpace(r.PostForm.Get("category"))),
	}
	if !toggle(w, s, req) {
		return
	}

	http.Redirect(w, r, pageURL(s.ID), http.StatusSeeOther)
}
