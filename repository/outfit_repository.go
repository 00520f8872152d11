package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"armario-dressup/models"
)

// ErrOutfitNotFound is returned when no outfit has the requested id
var ErrOutfitNotFound = errors.New("outfit not found")

// OutfitRepository handles database operations for saved outfits
type OutfitRepository struct {
	db *sql.DB
}

// NewOutfitRepository creates a new OutfitRepository
func NewOutfitRepository(conn *sql.DB) *OutfitRepository {
	return &OutfitRepository{db: conn}
}

// Ensure OutfitRepository implements OutfitRepositoryInterface
var _ OutfitRepositoryInterface = (*OutfitRepository)(nil)

// EnsureSchema creates the outfits table if it doesn't exist
func (r *OutfitRepository) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS outfits (
			id         BIGSERIAL PRIMARY KEY,
			name       TEXT NOT NULL,
			item_ids   JSONB NOT NULL DEFAULT '[]'::jsonb,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create outfits table: %w", err)
	}
	return nil
}

// Save stores a named outfit
func (r *OutfitRepository) Save(ctx context.Context, name string, itemIDs []string) (*models.Outfit, error) {
	if itemIDs == nil {
		itemIDs = []string{}
	}
	encoded, err := json.Marshal(itemIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to encode item ids: %w", err)
	}

	query := `
		INSERT INTO outfits (name, item_ids, created_at)
		VALUES ($1, $2::jsonb, NOW())
		RETURNING id, created_at
	`

	outfit := models.Outfit{Name: name, ItemIDs: itemIDs}
	var createdAt time.Time
	if err := r.db.QueryRowContext(ctx, query, name, string(encoded)).Scan(&outfit.ID, &createdAt); err != nil {
		log.Printf("❌ Error inserting outfit: %v", err)
		return nil, fmt.Errorf("failed to insert outfit: %w", err)
	}
	outfit.CreatedAt = createdAt.Format(time.RFC3339)

	log.Printf("✓ Outfit saved: id=%d, name=%s, items=%d", outfit.ID, outfit.Name, len(itemIDs))
	return &outfit, nil
}

// GetByID returns the outfit with the given id
func (r *OutfitRepository) GetByID(ctx context.Context, id int64) (*models.Outfit, error) {
	query := `
		SELECT id, name, item_ids::text, created_at
		FROM outfits
		WHERE id = $1
	`

	outfit, err := scanOutfit(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %d", ErrOutfitNotFound, id)
		}
		return nil, fmt.Errorf("failed to get outfit: %w", err)
	}
	return outfit, nil
}

// List returns every saved outfit, newest first
func (r *OutfitRepository) List(ctx context.Context) ([]models.Outfit, error) {
	query := `
		SELECT id, name, item_ids::text, created_at
		FROM outfits
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list outfits: %w", err)
	}
	defer rows.Close()

	outfits := []models.Outfit{}
	for rows.Next() {
		outfit, err := scanOutfit(rows)
		if err != nil {
			log.Printf("❌ Error scanning outfit: %v", err)
			continue
		}
		outfits = append(outfits, *outfit)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate outfits: %w", err)
	}
	return outfits, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOutfit(row rowScanner) (*models.Outfit, error) {
	var outfit models.Outfit
	var itemIDs string
	var createdAt time.Time
	if err := row.Scan(&outfit.ID, &outfit.Name, &itemIDs, &createdAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(itemIDs), &outfit.ItemIDs); err != nil {
		return nil, fmt.Errorf("failed to decode item ids of outfit %d: %w", outfit.ID, err)
	}
	outfit.CreatedAt = createdAt.Format(time.RFC3339)
	return &outfit, nil
}
