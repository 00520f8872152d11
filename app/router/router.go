package router

import (
	"net/http"
	"strings"

	"armario-dressup/app/controller"
)

type Controllers struct {
	Session *controller.SessionController
	DressUp *controller.DressUpController
	Outfit  *controller.OutfitController
	Metrics http.Handler
	Assets  http.Handler // nil when item images are not served by this service
}

// pingHandler handles GET /ping
func pingHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func SetupRoutes(mux *http.ServeMux, controllers *Controllers) {
	// Ping endpoint
	mux.HandleFunc("/ping", pingHandler)

	// Prometheus metrics
	mux.Handle("/metrics", controllers.Metrics)

	// Dress-up page and its toggle form
	mux.HandleFunc("/dressup", controllers.DressUp.Page)
	mux.HandleFunc("/dressup/toggle", controllers.DressUp.Toggle)

	// Item images
	if controllers.Assets != nil {
		mux.Handle("/assets/", http.StripPrefix("/assets/", controllers.Assets))
	}

	// Saved outfits
	mux.HandleFunc("/api/outfits", controllers.Outfit.ListOutfits)

	// Create session
	mux.HandleFunc("/api/sessions", controllers.Session.CreateSession)

	// Session actions (must be before the generic /:id route)
	mux.HandleFunc("/api/sessions/", func(w http.ResponseWriter, r *http.Request) {
		path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/sessions/"), "/")

		// Route to specific actions first
		if strings.HasSuffix(path, "/toggle") {
			controllers.Session.Toggle(w, r)
			return
		}
		if strings.HasSuffix(path, "/reset") {
			controllers.Session.Reset(w, r)
			return
		}
		if strings.HasSuffix(path, "/outfit.png") {
			controllers.Session.OutfitImage(w, r)
			return
		}
		if strings.HasSuffix(path, "/snapshot") {
			controllers.Session.Snapshot(w, r)
			return
		}
		// Handle POST /api/sessions/:id/outfits/:outfitId/apply
		if strings.Contains(path, "/outfits/") && strings.HasSuffix(path, "/apply") {
			controllers.Outfit.ApplyOutfit(w, r)
			return
		}
		// Handle POST /api/sessions/:id/outfits
		if strings.HasSuffix(path, "/outfits") {
			controllers.Outfit.SaveOutfit(w, r)
			return
		}

		if path == "" || strings.Contains(path, "/") {
			http.Error(w, "Not found", http.StatusNotFound)
			return
		}

		// GET /api/sessions/:id or DELETE /api/sessions/:id
		switch r.Method {
		case http.MethodGet:
			controllers.Session.GetSession(w, r)
		case http.MethodDelete:
			controllers.Session.DeleteSession(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})
}
