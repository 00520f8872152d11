package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"armario-dressup/metrics"
	"armario-dressup/models"
	"armario-dressup/registry"
)

const (
	defaultBatchSize  = 5
	defaultBatchPause = 50 * time.Millisecond
)

// CategoryLoader loads the category files of the wardrobe from a source
type CategoryLoader struct {
	source     CategorySourceInterface
	registry   *registry.Registry
	metrics    *metrics.Metrics
	batchSize  int
	batchPause time.Duration
}

// NewCategoryLoader creates a new CategoryLoader
// batchSize <= 0 and batchPause < 0 fall back to the defaults (5 files, 50ms)
func NewCategoryLoader(source CategorySourceInterface, reg *registry.Registry, m *metrics.Metrics, batchSize int, batchPause time.Duration) *CategoryLoader {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	if batchPause < 0 {
		batchPause = defaultBatchPause
	}
	return &CategoryLoader{
		source:     source,
		registry:   reg,
		metrics:    m,
		batchSize:  batchSize,
		batchPause: batchPause,
	}
}

// LoadCategory fetches and decodes the items of one category.
// Failures are logged and yield an empty list.
func (l *CategoryLoader) LoadCategory(ctx context.Context, category models.Category) []models.ItemRecord {
	items, err := l.fetchCategory(ctx, category)
	if err != nil {
		log.Printf("❌ Failed to load %s: %v", category.File, err)
		if l.metrics != nil {
			l.metrics.LoadFailures.WithLabelValues(category.ID).Inc()
		}
		return []models.ItemRecord{}
	}
	if l.metrics != nil {
		l.metrics.ItemsLoaded.WithLabelValues(category.ID).Set(float64(len(items)))
	}
	return items
}

func (l *CategoryLoader) fetchCategory(ctx context.Context, category models.Category) ([]models.ItemRecord, error) {
	data, err := l.source.Fetch(ctx, category.File)
	if err != nil {
		return nil, err
	}

	var items []models.ItemRecord
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", category.File, err)
	}
	if items == nil {
		items = []models.ItemRecord{}
	}
	return items, nil
}

// LoadAll loads every category in batches, fetching the files of a batch
// concurrently and pausing between batches. The result follows the
// registry load order. Cancelling ctx stops before the next batch.
func (l *CategoryLoader) LoadAll(ctx context.Context) ([]models.CategoryData, error) {
	categories := l.registry.LoadOrder()
	results := make([]models.CategoryData, len(categories))

	log.Printf("🔄 Loading %d categories from %s (batch size %d)", len(categories), l.source.Name(), l.batchSize)

	for start := 0; start < len(categories); start += l.batchSize {
		end := start + l.batchSize
		if end > len(categories) {
			end = len(categories)
		}

		if start > 0 && l.batchPause > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(l.batchPause):
			}
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		g, gctx := errgroup.WithContext(ctx)
		for i := start; i < end; i++ {
			g.Go(func() error {
				results[i] = models.CategoryData{
					Category: categories[i],
					Items:    l.LoadCategory(gctx, categories[i]),
				}
				return nil
			})
		}
		// LoadCategory never returns an error, failures become empty lists
		_ = g.Wait()
	}

	total := 0
	for _, r := range results {
		total += len(r.Items)
	}
	log.Printf("✓ Loaded %d items in %d categories", total, len(results))
	return results, nil
}
