package repository

import (
	"context"

	"armario-dressup/models"
)

// OutfitRepositoryInterface defines the contract for saved outfit operations
type OutfitRepositoryInterface interface {
	EnsureSchema(ctx context.Context) error
	Save(ctx context.Context, name string, itemIDs []string) (*models.Outfit, error)
	GetByID(ctx context.Context, id int64) (*models.Outfit, error)
	List(ctx context.Context) ([]models.Outfit, error)
}
