package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"armario-dressup/models"
	"armario-dressup/registry"
	"armario-dressup/repository"
	"armario-dressup/session"
)

func newStore(t *testing.T) (*session.Store, *registry.Registry) {
	t.Helper()
	reg := registry.Default()
	var data []models.CategoryData
	for _, c := range reg.LoadOrder() {
		data = append(data, models.CategoryData{
			Category: c,
			Items: []models.ItemRecord{
				{ID: c.ID + "item", Src: "images/" + c.ID + ".png", Visibility: "hidden", Alt: c.ID},
			},
		})
	}
	return session.NewStore(reg, data, nil), reg
}

type fakeComposer struct {
	layers []models.Item
	size   string
	err    error
}

func (f *fakeComposer) Compose(ctx context.Context, layers []models.Item, size string) ([]byte, error) {
	f.layers, f.size = layers, size
	return []byte("PNG"), f.err
}

type fakeSnapshot struct{ sessionID string }

func (f *fakeSnapshot) CapturePNG(ctx context.Context, sessionID string) ([]byte, error) {
	f.sessionID = sessionID
	return []byte("png"), nil
}

func (f *fakeSnapshot) CapturePDF(ctx context.Context, sessionID string) ([]byte, error) {
	f.sessionID = sessionID
	return []byte("%PDF"), nil
}

func decodeSession(t *testing.T, rec *httptest.ResponseRecorder) models.SessionResponse {
	t.Helper()
	var resp models.SessionResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func visibleIDs(resp models.SessionResponse) []string {
	var ids []string
	for _, it := range resp.Items {
		if it.Visible {
			ids = append(ids, it.ID)
		}
	}
	return ids
}

func TestSessionController_CreateAndGet(t *testing.T) {
	store, _ := newStore(t)
	c := NewSessionController(store, &fakeComposer{}, &fakeSnapshot{})

	rec := httptest.NewRecorder()
	c.CreateSession(rec, httptest.NewRequest(http.MethodPost, "/api/sessions", nil))
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeSession(t, rec)
	require.Len(t, created.Items, 13)
	assert.Equal(t, 6, created.Items[0].ZIndex)

	rec = httptest.NewRecorder()
	c.GetSession(rec, httptest.NewRequest(http.MethodGet, "/api/sessions/"+created.ID, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, created.ID, decodeSession(t, rec).ID)

	rec = httptest.NewRecorder()
	c.GetSession(rec, httptest.NewRequest(http.MethodGet, "/api/sessions/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	c.CreateSession(rec, httptest.NewRequest(http.MethodGet, "/api/sessions", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestSessionController_Toggle(t *testing.T) {
	store, _ := newStore(t)
	c := NewSessionController(store, &fakeComposer{}, &fakeSnapshot{})
	s := store.Create()
	path := "/api/sessions/" + s.ID + "/toggle"

	post := func(body string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		c.Toggle(rec, httptest.NewRequest(http.MethodPost, path, strings.NewReader(body)))
		return rec
	}

	rec := post(`{"itemId":"topbikini1item.png","category":"topbikini1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"topbikini1item.png"}, visibleIDs(decodeSession(t, rec)))

	rec = post(`{"itemId":"onepiece1item.png","category":"OnePiece1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"onepiece1item.png"}, visibleIDs(decodeSession(t, rec)))

	tests := []struct {
		name string
		body string
		want int
	}{
		{"bad json", `{`, http.StatusBadRequest},
		{"missing fields", `{"itemId":""}`, http.StatusBadRequest},
		{"unknown item", `{"itemId":"ghost.png","category":"hat1"}`, http.StatusNotFound},
		{"wrong category", `{"itemId":"hat1item.png","category":"hat2"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, post(tt.body).Code)
		})
	}
}

func TestSessionController_ResetAndDelete(t *testing.T) {
	store, _ := newStore(t)
	c := NewSessionController(store, &fakeComposer{}, &fakeSnapshot{})
	s := store.Create()
	require.NoError(t, s.Toggle("hat1item.png", "hat1"))

	rec := httptest.NewRecorder()
	c.Reset(rec, httptest.NewRequest(http.MethodPost, "/api/sessions/"+s.ID+"/reset", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, visibleIDs(decodeSession(t, rec)))

	rec = httptest.NewRecorder()
	c.DeleteSession(rec, httptest.NewRequest(http.MethodDelete, "/api/sessions/"+s.ID, nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	c.DeleteSession(rec, httptest.NewRequest(http.MethodDelete, "/api/sessions/"+s.ID, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSessionController_OutfitImage(t *testing.T) {
	store, _ := newStore(t)
	composer := &fakeComposer{}
	c := NewSessionController(store, composer, &fakeSnapshot{})
	s := store.Create()
	require.NoError(t, s.Toggle("hat2item.png", "hat2"))
	require.NoError(t, s.Toggle("socks2item.png", "socks2"))

	rec := httptest.NewRecorder()
	c.OutfitImage(rec, httptest.NewRequest(http.MethodGet, "/api/sessions/"+s.ID+"/outfit.png?size=thumb", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, "thumb", composer.size)
	require.Len(t, composer.layers, 2)
	assert.Equal(t, "socks2item.png", composer.layers[0].ID)

	rec = httptest.NewRecorder()
	c.OutfitImage(rec, httptest.NewRequest(http.MethodGet, "/api/sessions/"+s.ID+"/outfit.png?size=huge", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	composer.err = errors.New("boom")
	rec = httptest.NewRecorder()
	c.OutfitImage(rec, httptest.NewRequest(http.MethodGet, "/api/sessions/"+s.ID+"/outfit.png", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestSessionController_Snapshot(t *testing.T) {
	store, _ := newStore(t)
	snap := &fakeSnapshot{}
	c := NewSessionController(store, &fakeComposer{}, snap)
	s := store.Create()

	rec := httptest.NewRecorder()
	c.Snapshot(rec, httptest.NewRequest(http.MethodGet, "/api/sessions/"+s.ID+"/snapshot?format=pdf", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, s.ID, snap.sessionID)

	rec = httptest.NewRecorder()
	c.Snapshot(rec, httptest.NewRequest(http.MethodGet, "/api/sessions/"+s.ID+"/snapshot", nil))
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))

	rec = httptest.NewRecorder()
	c.Snapshot(rec, httptest.NewRequest(http.MethodGet, "/api/sessions/"+s.ID+"/snapshot?format=gif", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDressUpController_Page(t *testing.T) {
	store, reg := newStore(t)
	c := NewDressUpController(store, reg, "/assets", "base.png")

	// No session: a new one is created and the browser redirected to it
	rec := httptest.NewRecorder()
	c.Page(rec, httptest.NewRequest(http.MethodGet, "/dressup", nil))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	sessionID := loc.Query().Get("session")
	s, err := store.Get(sessionID)
	require.NoError(t, err)
	require.NoError(t, s.Toggle("dress1item.png", "dress1"))

	rec = httptest.NewRecorder()
	c.Page(rec, httptest.NewRequest(http.MethodGet, "/dressup?session="+sessionID, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()

	assert.Contains(t, body, `<base href="/assets/">`)
	assert.Contains(t, body, `id="dress1item.png" class="dress1" src="images/dress1.png" alt="dress1" style="visibility: visible; z-index: 7"`)
	assert.Contains(t, body, `id="hat1item.png" class="hat1" src="images/hat1.png" alt="hat1" style="visibility: hidden; z-index: 9"`)
	assert.Contains(t, body, `src="images/dress1b.png"`)
	assert.Contains(t, body, `<h3>socks2</h3>`)
	assert.Less(t, strings.Index(body, "<h3>socks2</h3>"), strings.Index(body, "<h3>jacket2</h3>"))
}

func TestDressUpController_Toggle(t *testing.T) {
	store, reg := newStore(t)
	c := NewDressUpController(store, reg, "/assets/", "")
	s := store.Create()

	form := url.Values{"session": {s.ID}, "itemId": {"skirt1item.png"}, "category": {"skirt1"}}
	req := httptest.NewRequest(http.MethodPost, "/dressup/toggle", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := httptest.NewRecorder()
	c.Toggle(rec, req)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/dressup?session="+s.ID, rec.Header().Get("Location"))
	assert.Equal(t, []string{"skirt1item.png"}, s.VisibleIDs())

	form.Set("itemId", "ghost.png")
	req = httptest.NewRequest(http.MethodPost, "/dressup/toggle", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec = httptest.NewRecorder()
	c.Toggle(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

type fakeOutfitRepo struct {
	outfits map[int64]models.Outfit
	nextID  int64
}

func (f *fakeOutfitRepo) EnsureSchema(ctx context.Context) error { return nil }

func (f *fakeOutfitRepo) Save(ctx context.Context, name string, itemIDs []string) (*models.Outfit, error) {
	f.nextID++
	o := models.Outfit{ID: f.nextID, Name: name, ItemIDs: itemIDs, CreatedAt: "2026-01-04T10:30:00Z"}
	f.outfits[o.ID] = o
	return &o, nil
}

func (f *fakeOutfitRepo) GetByID(ctx context.Context, id int64) (*models.Outfit, error) {
	o, ok := f.outfits[id]
	if !ok {
		return nil, repository.ErrOutfitNotFound
	}
	return &o, nil
}

func (f *fakeOutfitRepo) List(ctx context.Context) ([]models.Outfit, error) {
	out := []models.Outfit{}
	for _, o := range f.outfits {
		out = append(out, o)
	}
	return out, nil
}

func TestOutfitController_SaveListApply(t *testing.T) {
	store, _ := newStore(t)
	repo := &fakeOutfitRepo{outfits: map[int64]models.Outfit{}}
	c := NewOutfitController(store, repo)

	a := store.Create()
	require.NoError(t, a.Toggle("onepiece1item.png", "onepiece1"))
	require.NoError(t, a.Toggle("hat1item.png", "hat1"))

	rec := httptest.NewRecorder()
	c.SaveOutfit(rec, httptest.NewRequest(http.MethodPost, "/api/sessions/"+a.ID+"/outfits", strings.NewReader(`{"name":"Pool"}`)))
	require.Equal(t, http.StatusCreated, rec.Code)
	var saved models.Outfit
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&saved))
	assert.Equal(t, []string{"onepiece1item.png", "hat1item.png"}, saved.ItemIDs)

	rec = httptest.NewRecorder()
	c.ListOutfits(rec, httptest.NewRequest(http.MethodGet, "/api/outfits", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var list models.OutfitListResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&list))
	assert.Len(t, list.Outfits, 1)

	b := store.Create()
	require.NoError(t, b.Toggle("topbikini1item.png", "topbikini1"))
	rec = httptest.NewRecorder()
	c.ApplyOutfit(rec, httptest.NewRequest(http.MethodPost, "/api/sessions/"+b.ID+"/outfits/1/apply", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"onepiece1item.png", "hat1item.png"}, b.VisibleIDs())

	rec = httptest.NewRecorder()
	c.ApplyOutfit(rec, httptest.NewRequest(http.MethodPost, "/api/sessions/"+b.ID+"/outfits/99/apply", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	c.ApplyOutfit(rec, httptest.NewRequest(http.MethodPost, "/api/sessions/"+b.ID+"/outfits/abc/apply", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	c.SaveOutfit(rec, httptest.NewRequest(http.MethodPost, "/api/sessions/"+a.ID+"/outfits", strings.NewReader(`{"name":"  "}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOutfitController_Disabled(t *testing.T) {
	store, _ := newStore(t)
	c := NewOutfitController(store, nil)

	rec := httptest.NewRecorder()
	c.ListOutfits(rec, httptest.NewRequest(http.MethodGet, "/api/outfits", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestSplitSessionPath(t *testing.T) {
	id, rest := splitSessionPath("/api/sessions/abc/outfits/3/apply")
	assert.Equal(t, "abc", id)
	assert.Equal(t, []string{"outfits", "3", "apply"}, rest)

	id, rest = splitSessionPath("/api/sessions/")
	assert.Empty(t, id)
	assert.Empty(t, rest)
}
