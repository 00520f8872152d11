package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Source kinds for the wardrobe files
const (
	SourceFile  = "file"
	SourceHTTP  = "http"
	SourceDrive = "drive"
)

// Config holds the settings of the dress-up service, read from environment variables
type Config struct {
	Port    string
	BaseURL string // URL the service is reachable at, used by headless snapshots

	Source             string // file, http or drive
	WardrobeDir        string
	WardrobeBaseURL    string
	DriveFolderID      string
	GoogleCredentials  string
	WardrobeDefinition string // optional YAML file overriding the built-in categories and rules
	BaseImage          string // optional base character image, relative to the source
	LoadBatchSize      int
	LoadBatchPause     time.Duration
	SessionMaxIdle     time.Duration
	SessionSweepEvery  time.Duration
	DatabaseURL        string // empty disables saved outfits
	ChromePath         string
}

// Load reads the configuration from the environment
func Load() (*Config, error) {
	cfg := &Config{
		Port:               strings.TrimPrefix(getEnv("PORT", "8080"), ":"),
		Source:             strings.ToLower(getEnv("WARDROBE_SOURCE", SourceFile)),
		WardrobeDir:        getEnv("WARDROBE_DIR", "wardrobe"),
		WardrobeBaseURL:    os.Getenv("WARDROBE_BASE_URL"),
		DriveFolderID:      os.Getenv("WARDROBE_DRIVE_FOLDER_ID"),
		GoogleCredentials:  os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		WardrobeDefinition: os.Getenv("WARDROBE_DEFINITION"),
		BaseImage:          os.Getenv("WARDROBE_BASE_IMAGE"),
		ChromePath:         os.Getenv("CHROME_PATH"),
	}
	cfg.BaseURL = strings.TrimSuffix(getEnv("BASE_URL", "http://localhost:"+cfg.Port), "/")

	var err error
	if cfg.LoadBatchSize, err = getInt("LOAD_BATCH_SIZE", 5); err != nil {
		return nil, err
	}
	if cfg.LoadBatchSize <= 0 {
		return nil, fmt.Errorf("LOAD_BATCH_SIZE must be greater than 0")
	}
	if cfg.LoadBatchPause, err = getDuration("LOAD_BATCH_PAUSE", 50*time.Millisecond); err != nil {
		return nil, err
	}
	if cfg.SessionMaxIdle, err = getDuration("SESSION_MAX_IDLE", 2*time.Hour); err != nil {
		return nil, err
	}
	if cfg.SessionSweepEvery, err = getDuration("SESSION_SWEEP_INTERVAL", 5*time.Minute); err != nil {
		return nil, err
	}

	cfg.DatabaseURL = databaseURL()

	switch cfg.Source {
	case SourceFile:
		if cfg.WardrobeDir == "" {
			return nil, fmt.Errorf("WARDROBE_DIR is required for the file source")
		}
	case SourceHTTP:
		if cfg.WardrobeBaseURL == "" {
			return nil, fmt.Errorf("WARDROBE_BASE_URL is required for the http source")
		}
	case SourceDrive:
		if cfg.DriveFolderID == "" {
			return nil, fmt.Errorf("WARDROBE_DRIVE_FOLDER_ID is required for the drive source")
		}
		if cfg.GoogleCredentials == "" {
			return nil, fmt.Errorf("GOOGLE_APPLICATION_CREDENTIALS environment variable is not set")
		}
	default:
		return nil, fmt.Errorf("invalid WARDROBE_SOURCE %q: expected file, http or drive", cfg.Source)
	}

	return cfg, nil
}

// SavedOutfitsEnabled reports whether a database is configured
func (c *Config) SavedOutfitsEnabled() bool {
	return c.DatabaseURL != ""
}

// databaseURL returns DATABASE_URL or builds a connection string from DB_* variables.
// It returns "" when neither is set.
func databaseURL() string {
	if connStr := os.Getenv("DATABASE_URL"); connStr != "" {
		return connStr
	}

	host := os.Getenv("DB_HOST")
	user := os.Getenv("DB_USER")
	dbname := os.Getenv("DB_NAME")
	if host == "" || user == "" || dbname == "" {
		return ""
	}

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, getEnv("DB_PORT", "5432"), user, os.Getenv("DB_PASSWORD"), dbname, getEnv("DB_SSLMODE", "disable"))
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
