package registry

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"armario-dressup/models"
)

func TestStackingOrder_KnownCategories(t *testing.T) {
	r := Default()

	tests := []struct {
		category string
		want     int
	}{
		{"bottombikini1", 1},
		{"bottombikini2", 1},
		{"topbikini1", 2},
		{"onepiece1", 3},
		{"short1", 4},
		{"short2", 4},
		{"skirt1", 5},
		{"socks2", 6},
		{"dress1", 7},
		{"jacket1", 8},
		{"jacket2", 8},
		{"hat1", 9},
		{"hat2", 9},
	}

	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			assert.Equal(t, tt.want, r.StackingOrder(tt.category))
		})
	}
}

func TestStackingOrder_UnknownWarnsOnce(t *testing.T) {
	r := Default()
	var buf bytes.Buffer
	r.SetLogger(log.New(&buf, "", 0))

	var unknown []string
	r.OnUnknown = func(id string) { unknown = append(unknown, id) }

	assert.NotPanics(t, func() {
		assert.Equal(t, 0, r.StackingOrder("cape1"))
		assert.Equal(t, 0, r.StackingOrder("cape1"))
		assert.Equal(t, 0, r.StackingOrder("boots3"))
	})

	assert.Equal(t, 1, strings.Count(buf.String(), "is not defined"))
	assert.Contains(t, buf.String(), `"cape1"`)
	assert.Equal(t, []string{"cape1", "cape1", "boots3"}, unknown)
}

func TestLoadOrder(t *testing.T) {
	r := Default()

	var ids []string
	for _, c := range r.LoadOrder() {
		ids = append(ids, c.ID)
		assert.Equal(t, c.ID, CategoryIDFromFile(c.File))
	}

	assert.Equal(t, []string{
		"socks2", "bottombikini1", "bottombikini2", "topbikini1", "onepiece1",
		"short1", "short2", "skirt1", "dress1", "hat1", "hat2", "jacket1", "jacket2",
	}, ids)
	assert.Equal(t, 0, r.LoadIndex("socks2"))
	assert.Equal(t, 12, r.LoadIndex("jacket2"))
	assert.Equal(t, -1, r.LoadIndex("cape1"))
}

func TestLoadOrder_ReturnsCopy(t *testing.T) {
	r := Default()
	order := r.LoadOrder()
	order[0].Order = 100

	assert.Equal(t, 6, r.StackingOrder("socks2"))
}

func TestNew_Validation(t *testing.T) {
	cats := []models.Category{
		{ID: "top", File: "Top.json", Order: 1},
		{ID: "dress", File: "Dress.json", Order: 2},
	}

	tests := []struct {
		name    string
		def     Definition
		wantErr string
	}{
		{
			name:    "no categories",
			def:     Definition{},
			wantErr: "no categories",
		},
		{
			name:    "empty file",
			def:     Definition{Categories: []models.Category{{ID: "top"}}},
			wantErr: "empty file name",
		},
		{
			name: "duplicate category",
			def: Definition{Categories: []models.Category{
				{ID: "top", File: "Top.json"},
				{ID: "TOP", File: "Top2.json"},
			}},
			wantErr: "duplicate category top",
		},
		{
			name: "unknown category in rule",
			def: Definition{
				Categories: cats,
				Rules:      []models.ExclusionRule{{A: []string{"top"}, B: []string{"cape"}}},
			},
			wantErr: "unknown category cape",
		},
		{
			name: "overlapping sides",
			def: Definition{
				Categories: cats,
				Rules:      []models.ExclusionRule{{A: []string{"top"}, B: []string{"top"}}},
			},
			wantErr: "both sides",
		},
		{
			name:    "neither id nor file",
			def:     Definition{Categories: []models.Category{{Order: 3}}},
			wantErr: "empty file name",
		},
		{
			name: "valid",
			def: Definition{
				Categories: cats,
				Rules:      []models.ExclusionRule{{A: []string{"Top"}, B: []string{"dress"}}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := New(tt.def)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, []models.ExclusionRule{{A: []string{"top"}, B: []string{"dress"}}}, r.Rules())
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wardrobe.yaml")
	content := `
categories:
  - id: shirt1
    file: Shirt1.json
    order: 2
  - file: Overall1.json
    order: 3
rules:
  - a: [shirt1]
    b: [overall1]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	r, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, 3, r.StackingOrder("overall1"))
	c, ok := r.Category("shirt1")
	require.True(t, ok)
	assert.Equal(t, "Shirt1.json", c.File)
	assert.Len(t, r.Rules(), 1)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
