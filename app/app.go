package app

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"armario-dressup/app/controller"
	"armario-dressup/app/router"
	"armario-dressup/config"
	"armario-dressup/db"
	"armario-dressup/metrics"
	"armario-dressup/registry"
	"armario-dressup/repository"
	"armario-dressup/service"
	"armario-dressup/session"
)

// App holds the wired application
type App struct {
	Handler http.Handler
	Store   *session.Store
}

// newSource builds the wardrobe source selected by the configuration.
// assetsBase is where browsers fetch item images from; assets is non-nil
// when this service has to serve them itself.
func newSource(ctx context.Context, cfg *config.Config) (src service.CategorySourceInterface, assetsBase string, assets http.Handler, err error) {
	switch cfg.Source {
	case config.SourceHTTP:
		httpSource := service.NewHTTPSource(cfg.WardrobeBaseURL)
		return httpSource, httpSource.BaseURL(), nil, nil
	case config.SourceDrive:
		driveService, err := service.NewDriveService(ctx, cfg.GoogleCredentials)
		if err != nil {
			return nil, "", nil, err
		}
		driveSource := service.NewDriveSource(driveService, cfg.DriveFolderID)
		return driveSource, "/assets/", NewSourceHandler(driveSource), nil
	default:
		fileSource := service.NewFileSource(cfg.WardrobeDir)
		return fileSource, "/assets/", http.FileServer(http.Dir(fileSource.Dir())), nil
	}
}

// Initialize loads the wardrobe and wires the HTTP handlers
func Initialize(ctx context.Context, cfg *config.Config) (*App, error) {
	m := metrics.New()

	// Category registry: built-in unless a definition file is configured
	reg := registry.Default()
	if cfg.WardrobeDefinition != "" {
		var err error
		reg, err = registry.LoadFile(cfg.WardrobeDefinition)
		if err != nil {
			return nil, err
		}
	}
	reg.OnUnknown = func(string) { m.UnknownCategories.Inc() }

	source, assetsBase, assets, err := newSource(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize wardrobe source: %w", err)
	}

	// Load every category once; sessions share the catalog
	loader := service.NewCategoryLoader(source, reg, m, cfg.LoadBatchSize, cfg.LoadBatchPause)
	catalog, err := loader.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load wardrobe: %w", err)
	}

	store := session.NewStore(reg, catalog, m)

	// Saved outfits are optional
	var outfitRepo repository.OutfitRepositoryInterface
	if cfg.SavedOutfitsEnabled() {
		if err := db.InitDB(ctx, cfg.DatabaseURL); err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		repo := repository.NewOutfitRepository(db.DB)
		if err := repo.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		outfitRepo = repo
	} else {
		log.Printf("⚠️  No database configured, saved outfits are disabled")
	}

	composer := service.NewOutfitComposer(source, cfg.BaseImage)
	snapshot := service.NewSnapshotService(cfg.BaseURL, cfg.ChromePath)

	// Create controllers
	controllers := &router.Controllers{
		Session: controller.NewSessionController(store, composer, snapshot),
		DressUp: controller.NewDressUpController(store, reg, assetsBase, cfg.BaseImage),
		Outfit:  controller.NewOutfitController(store, outfitRepo),
		Metrics: m.Handler(),
		Assets:  assets,
	}

	mux := http.NewServeMux()
	router.SetupRoutes(mux, controllers)

	return &App{Handler: mux, Store: store}, nil
}
