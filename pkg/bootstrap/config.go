package bootstrap

import (
	"fmt"
	"os"
	"time"

	shared "github.com/Esteb4ncd/solace-server/pkg"
	"github.com/Esteb4ncd/solace-server/pkg/infrastructure/llm"
)

// Progress backends.
const (
	BackendFirestore = "firestore"
	BackendSQLite    = "sqlite"
)

// DefaultSQLitePath is used when SQLITE_PATH is not set.
const DefaultSQLitePath = "data/solace.db"

// Config holds standard configuration for all services
type Config struct {
	ProjectID         string
	EnablePublish     bool
	GCSArtifactBucket string
	// LocalArtifactDir replaces GCS with a local directory when set.
	LocalArtifactDir string

	CatalogBucket string
	CatalogObject string
	CatalogPath   string

	ProgressBackend string
	SQLitePath      string
	Timezone        string

	CoachModel        string
	CoachAPIKeySecret string
}

// LoadConfig reads configuration from environment variables
func LoadConfig() *Config {
	projectID := os.Getenv("GOOGLE_CLOUD_PROJECT")
	if projectID == "" {
		projectID = shared.ProjectID // Fallback
	}

	return &Config{
		ProjectID:         projectID,
		EnablePublish:     os.Getenv("ENABLE_PUBLISH") == "true",
		GCSArtifactBucket: os.Getenv("GCS_ARTIFACT_BUCKET"),
		LocalArtifactDir:  os.Getenv("LOCAL_ARTIFACT_DIR"),

		CatalogBucket: os.Getenv("CATALOG_BUCKET"),
		CatalogObject: getenv("CATALOG_OBJECT", "catalog/exercises.json"),
		CatalogPath:   os.Getenv("CATALOG_PATH"),

		ProgressBackend: getenv("PROGRESS_BACKEND", BackendFirestore),
		SQLitePath:      getenv("SQLITE_PATH", DefaultSQLitePath),
		Timezone:        os.Getenv("TIMEZONE"),

		CoachModel:        getenv("COACH_MODEL", llm.DefaultModel),
		CoachAPIKeySecret: os.Getenv("COACH_API_KEY_SECRET"),
	}
}

// Location resolves Timezone; empty means the process's local zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
