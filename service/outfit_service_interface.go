package service

import (
	"context"

	"armario-dressup/models"
)

// OutfitComposerInterface defines the contract for flattening an outfit into one image
type OutfitComposerInterface interface {
	Compose(ctx context.Context, layers []models.Item, size string) ([]byte, error)
}

// SnapshotServiceInterface defines the contract for capturing the dress-up page
type SnapshotServiceInterface interface {
	CapturePNG(ctx context.Context, sessionID string) ([]byte, error)
	CapturePDF(ctx context.Context, sessionID string) ([]byte, error)
}

// Ensure the services implement their interfaces
var (
	_ OutfitComposerInterface  = (*OutfitComposer)(nil)
	_ SnapshotServiceInterface = (*SnapshotService)(nil)
)
