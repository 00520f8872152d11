package service

import "context"

// CategorySourceInterface defines the contract for fetching wardrobe files (category JSON and item images)
type CategorySourceInterface interface {
	Name() string
	Fetch(ctx context.Context, name string) ([]byte, error)
}
