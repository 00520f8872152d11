// Package engine owns the visibility state of a dress-up wardrobe.
//
// A Wardrobe is not safe for concurrent use: toggles are expected to run one
// at a time, each completing before the next is dispatched.
package engine

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"

	"armario-dressup/models"
	"armario-dressup/registry"
)

var (
	// ErrUnknownItem is returned when toggling an item the wardrobe never loaded
	ErrUnknownItem = errors.New("unknown item")
	// ErrCategoryMismatch is returned when the category does not own the item
	ErrCategoryMismatch = errors.New("item does not belong to category")
)

// Change lists the items whose visibility changed during one toggle
type Change struct {
	ItemID   string
	Category string
	// Shown and Hidden hold item ids, in wardrobe order
	Shown  []string
	Hidden []string
}

type item struct {
	models.Item
	initial  bool
	position int // position inside its category
}

// Wardrobe holds every item and its visibility, indexed by category
type Wardrobe struct {
	registry   *registry.Registry
	items      map[string]*item
	order      []string            // item ids in load order
	byCategory map[string][]string // category id -> item ids
	exclusions map[string][]string // category id -> categories hidden when it becomes visible
	observers  []func(Change)
}

// NormalizeItemID appends the .png suffix item ids carry once loaded
func NormalizeItemID(id string) string {
	if strings.HasSuffix(id, ".png") {
		return id
	}
	return id + ".png"
}

// New builds a wardrobe from loaded category data.
// A category marking more than one item visible keeps only the first one visible.
// Duplicate item ids keep the first occurrence.
func New(reg *registry.Registry, data []models.CategoryData) *Wardrobe {
	w := &Wardrobe{
		registry:   reg,
		items:      make(map[string]*item),
		byCategory: make(map[string][]string),
		exclusions: buildExclusions(reg.Rules()),
	}

	for _, cd := range data {
		categoryID := cd.Category.ID
		visibleSeen := false

		for _, rec := range cd.Items {
			id := NormalizeItemID(rec.ID)
			if _, exists := w.items[id]; exists {
				log.Printf("⚠️  Duplicate item id %s in category %s, skipping", id, categoryID)
				continue
			}

			visible := rec.Visibility == "visible"
			if visible && visibleSeen {
				log.Printf("⚠️  Category %s marks more than one item visible, hiding %s", categoryID, id)
				visible = false
			}
			visibleSeen = visibleSeen || visible

			w.items[id] = &item{
				Item: models.Item{
					ID:       id,
					Category: categoryID,
					Name:     rec.Alt,
					Src:      rec.Src,
					Visible:  visible,
				},
				initial:  visible,
				position: len(w.byCategory[categoryID]),
			}
			w.byCategory[categoryID] = append(w.byCategory[categoryID], id)
			w.order = append(w.order, id)
		}
	}

	return w
}

// buildExclusions flattens the symmetric rules into a lookup keyed by category
func buildExclusions(rules []models.ExclusionRule) map[string][]string {
	out := make(map[string][]string)
	for _, rule := range rules {
		for _, a := range rule.A {
			out[a] = append(out[a], rule.B...)
		}
		for _, b := range rule.B {
			out[b] = append(out[b], rule.A...)
		}
	}
	return out
}

// Subscribe registers fn to be called after every toggle that changed something
func (w *Wardrobe) Subscribe(fn func(Change)) {
	w.observers = append(w.observers, fn)
}

// Toggle flips the visibility of an item.
// Other items of the same category are hidden first. If the item ends up
// visible, the categories excluded by its category are hidden too.
func (w *Wardrobe) Toggle(itemID, categoryID string) error {
	target, ok := w.items[itemID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownItem, itemID)
	}
	if target.Category != categoryID {
		return fmt.Errorf("%w: %s is in %s, not %s", ErrCategoryMismatch, itemID, target.Category, categoryID)
	}

	before := w.visibleSet()

	for _, id := range w.byCategory[categoryID] {
		if id != itemID {
			w.items[id].Visible = false
		}
	}

	target.Visible = !target.Visible

	if target.Visible {
		for _, excluded := range w.exclusions[categoryID] {
			w.hideCategory(excluded)
		}
	}

	w.notify(itemID, categoryID, before)
	return nil
}

func (w *Wardrobe) hideCategory(categoryID string) {
	for _, id := range w.byCategory[categoryID] {
		w.items[id].Visible = false
	}
}

func (w *Wardrobe) visibleSet() map[string]bool {
	set := make(map[string]bool)
	for id, it := range w.items {
		if it.Visible {
			set[id] = true
		}
	}
	return set
}

func (w *Wardrobe) notify(itemID, categoryID string, before map[string]bool) {
	change := Change{ItemID: itemID, Category: categoryID}
	for _, id := range w.order {
		now := w.items[id].Visible
		switch {
		case now && !before[id]:
			change.Shown = append(change.Shown, id)
		case !now && before[id]:
			change.Hidden = append(change.Hidden, id)
		}
	}
	if len(change.Shown) == 0 && len(change.Hidden) == 0 {
		return
	}
	for _, fn := range w.observers {
		fn(change)
	}
}

// Item returns a copy of the item with the given id
func (w *Wardrobe) Item(itemID string) (models.Item, bool) {
	it, ok := w.items[itemID]
	if !ok {
		return models.Item{}, false
	}
	return it.Item, true
}

// Visible reports whether an item is currently visible
func (w *Wardrobe) Visible(itemID string) bool {
	it, ok := w.items[itemID]
	return ok && it.Visible
}

// Items returns every item in load order
func (w *Wardrobe) Items() []models.Item {
	out := make([]models.Item, 0, len(w.order))
	for _, id := range w.order {
		out = append(out, w.items[id].Item)
	}
	return out
}

// CategoryItems returns the ids of the items of a category
func (w *Wardrobe) CategoryItems(categoryID string) []string {
	ids := w.byCategory[categoryID]
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}

// VisibleIDs returns the ids of the visible items in load order
func (w *Wardrobe) VisibleIDs() []string {
	var ids []string
	for _, id := range w.order {
		if w.items[id].Visible {
			ids = append(ids, id)
		}
	}
	return ids
}

// Layers returns the visible items bottom to top: by stacking order, then
// by category load order, then by position inside the category.
func (w *Wardrobe) Layers() []models.Item {
	var visible []*item
	for _, id := range w.order {
		if it := w.items[id]; it.Visible {
			visible = append(visible, it)
		}
	}

	sort.SliceStable(visible, func(i, j int) bool {
		a, b := visible[i], visible[j]
		za, zb := w.registry.StackingOrder(a.Category), w.registry.StackingOrder(b.Category)
		if za != zb {
			return za < zb
		}
		la, lb := w.registry.LoadIndex(a.Category), w.registry.LoadIndex(b.Category)
		if la != lb {
			return la < lb
		}
		return a.position < b.position
	})

	out := make([]models.Item, 0, len(visible))
	for _, it := range visible {
		out = append(out, it.Item)
	}
	return out
}

// RenderRequests returns one render request per item, in load order
func (w *Wardrobe) RenderRequests() []models.RenderRequest {
	out := make([]models.RenderRequest, 0, len(w.order))
	for _, id := range w.order {
		it := w.items[id]
		out = append(out, models.RenderRequest{
			ID:        it.ID,
			Category:  it.Category,
			Src:       it.Src,
			ButtonSrc: ButtonSrc(it.Src),
			Label:     it.Name,
			Visible:   it.Visible,
			ZIndex:    w.registry.StackingOrder(it.Category),
		})
	}
	return out
}

// ButtonSrc returns the image of the toggle button of an item ("top.png" -> "topb.png")
func ButtonSrc(src string) string {
	return strings.Replace(src, ".png", "b.png", 1)
}

// Reset restores the visibility every item had at load time
func (w *Wardrobe) Reset() {
	before := w.visibleSet()
	for _, it := range w.items {
		it.Visible = it.initial
	}
	w.notify("", "", before)
}

// Apply shows exactly the given items, in order, through Toggle so that the
// category and exclusion invariants still hold. Unknown ids are skipped.
// It returns the ids that were skipped.
func (w *Wardrobe) Apply(itemIDs []string) []string {
	for _, id := range w.VisibleIDs() {
		it := w.items[id]
		if err := w.Toggle(id, it.Category); err != nil {
			log.Printf("❌ Apply: failed to hide %s: %v", id, err)
		}
	}

	var skipped []string
	for _, id := range itemIDs {
		it, ok := w.items[id]
		if !ok {
			skipped = append(skipped, id)
			continue
		}
		if it.Visible {
			continue
		}
		if err := w.Toggle(id, it.Category); err != nil {
			log.Printf("❌ Apply: failed to show %s: %v", id, err)
			skipped = append(skipped, id)
		}
	}
	return skipped
}
