package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"armario-dressup/engine"
	"armario-dressup/metrics"
	"armario-dressup/models"
	"armario-dressup/registry"
)

// ErrNotFound is returned when a session id is unknown or expired
var ErrNotFound = errors.New("session not found")

// Session is one user's dress-up state. Its engine is only touched while
// holding mu, so toggles of a session run one after the other.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu       sync.Mutex
	wardrobe *engine.Wardrobe
	lastUsed time.Time
}

// Toggle flips an item of the session wardrobe
func (s *Session) Toggle(itemID, categoryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUsed = time.Now()
	return s.wardrobe.Toggle(itemID, categoryID)
}

// RenderRequests returns the render requests of every item
func (s *Session) RenderRequests() []models.RenderRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wardrobe.RenderRequests()
}

// Layers returns the visible items, bottom to top
func (s *Session) Layers() []models.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wardrobe.Layers()
}

// VisibleIDs returns the ids of the visible items
func (s *Session) VisibleIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wardrobe.VisibleIDs()
}

// Reset restores the initial visibility of every item
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUsed = time.Now()
	s.wardrobe.Reset()
}

// Apply shows exactly the given items; unknown ids are returned
func (s *Session) Apply(itemIDs []string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUsed = time.Now()
	return s.wardrobe.Apply(itemIDs)
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}

// Store keeps the sessions in memory, each with its own wardrobe built from the shared catalog
type Store struct {
	registry *registry.Registry
	catalog  []models.CategoryData
	metrics  *metrics.Metrics

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewStore creates a new Store
func NewStore(reg *registry.Registry, catalog []models.CategoryData, m *metrics.Metrics) *Store {
	return &Store{
		registry: reg,
		catalog:  catalog,
		metrics:  m,
		sessions: make(map[string]*Session),
	}
}

// Create starts a new session with every item at its initial visibility
func (st *Store) Create() *Session {
	now := time.Now()
	s := &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		lastUsed:  now,
		wardrobe:  engine.New(st.registry, st.catalog),
	}

	if st.metrics != nil {
		m := st.metrics
		s.wardrobe.Subscribe(func(c engine.Change) {
			if c.Category != "" {
				m.Toggles.WithLabelValues(c.Category).Inc()
			}
			for _, id := range c.Shown {
				m.ItemsShown.WithLabelValues(categoryOf(s.wardrobe, id)).Inc()
			}
			for _, id := range c.Hidden {
				m.ItemsHidden.WithLabelValues(categoryOf(s.wardrobe, id)).Inc()
			}
		})
	}

	st.mu.Lock()
	st.sessions[s.ID] = s
	n := len(st.sessions)
	st.mu.Unlock()

	if st.metrics != nil {
		st.metrics.ActiveSessions.Set(float64(n))
	}
	log.Printf("🆕 Session created: %s", s.ID)
	return s
}

func categoryOf(w *engine.Wardrobe, itemID string) string {
	it, _ := w.Item(itemID)
	return it.Category
}

// Get returns the session with the given id
func (st *Store) Get(id string) (*Session, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s, nil
}

// Delete removes a session; it reports whether the session existed
func (st *Store) Delete(id string) bool {
	st.mu.Lock()
	_, ok := st.sessions[id]
	delete(st.sessions, id)
	n := len(st.sessions)
	st.mu.Unlock()

	if st.metrics != nil {
		st.metrics.ActiveSessions.Set(float64(n))
	}
	return ok
}

// Len returns the number of sessions held
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Sweep removes the sessions idle for longer than maxIdle and returns how many it removed
func (st *Store) Sweep(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	st.mu.Lock()
	removed := 0
	for id, s := range st.sessions {
		if s.idleSince().Before(cutoff) {
			delete(st.sessions, id)
			removed++
		}
	}
	n := len(st.sessions)
	st.mu.Unlock()

	if st.metrics != nil {
		st.metrics.ActiveSessions.Set(float64(n))
	}
	if removed > 0 {
		log.Printf("🧹 Swept %d idle sessions, %d remaining", removed, n)
	}
	return removed
}

// RunSweeper sweeps idle sessions every interval until ctx is done
func (st *Store) RunSweeper(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			st.Sweep(maxIdle)
		}
	}
}
