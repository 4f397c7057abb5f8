package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/pubsub"
	"cloud.google.com/go/storage"

	shared "github.com/Esteb4ncd/solace-server/pkg"
	"github.com/Esteb4ncd/solace-server/pkg/domain/exercise"
	"github.com/Esteb4ncd/solace-server/pkg/domain/intake"
	apperrors "github.com/Esteb4ncd/solace-server/pkg/errors"
	"github.com/Esteb4ncd/solace-server/pkg/infrastructure/database"
	"github.com/Esteb4ncd/solace-server/pkg/infrastructure/llm"
	infrapubsub "github.com/Esteb4ncd/solace-server/pkg/infrastructure/pubsub"
	"github.com/Esteb4ncd/solace-server/pkg/infrastructure/secrets"
	infrastorage "github.com/Esteb4ncd/solace-server/pkg/infrastructure/storage"
	"github.com/Esteb4ncd/solace-server/pkg/wellness"
)

// Service holds initialized dependencies
type Service struct {
	DB       shared.Database
	Store    shared.BlobStore
	Pub      shared.Publisher
	Secrets  shared.SecretStore
	Catalog  *exercise.Catalog
	Wellness *wellness.Service
	Config   *Config
}

// NewService initializes all standard dependencies
func NewService(ctx context.Context) (*Service, error) {
	InitLogger()
	cfg := LoadConfig()

	slog.Info("Initializing service", "project_id", cfg.ProjectID, "progress_backend", cfg.ProgressBackend)

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	db, err := newDatabase(ctx, cfg)
	if err != nil {
		return nil, err
	}

	// Pub/Sub
	var pubAdapter shared.Publisher
	if cfg.EnablePublish {
		psClient, err := pubsub.NewClient(ctx, cfg.ProjectID)
		if err != nil {
			slog.Error("PubSub init failed", "error", err)
			return nil, fmt.Errorf("pubsub init: %w", err)
		}
		pubAdapter = &infrapubsub.PubSubAdapter{Client: psClient}
		slog.Info("Pub/Sub: REAL (ENABLE_PUBLISH=true)")
	} else {
		pubAdapter = &infrapubsub.LogPublisher{}
		slog.Info("Pub/Sub: MOCK (LogPublisher)")
	}

	// Storage
	var store shared.BlobStore
	if cfg.LocalArtifactDir != "" {
		store = &infrastorage.DirStore{Root: cfg.LocalArtifactDir}
		slog.Info("Storage: LOCAL", "dir", cfg.LocalArtifactDir)
	} else {
		gcsClient, err := storage.NewClient(ctx)
		if err != nil {
			slog.Error("Storage init failed", "error", err)
			return nil, fmt.Errorf("storage init: %w", err)
		}
		store = &infrastorage.StorageAdapter{Client: gcsClient}
	}

	secretStore := &secrets.SecretsAdapter{}

	catalog, err := LoadCatalog(ctx, cfg, store)
	if err != nil {
		slog.Error("Catalog load failed", "error", err)
		return nil, err
	}
	slog.Info("Catalog loaded", "exercises", catalog.Len())

	logger := slog.Default()
	responder := NewResponder(ctx, cfg, secretStore, logger)

	return &Service{
		DB:      db,
		Pub:     pubAdapter,
		Store:   store,
		Secrets: secretStore,
		Catalog: catalog,
		Wellness: &wellness.Service{
			DB:       db,
			Pub:      pubAdapter,
			Catalog:  catalog,
			Coach:    intake.NewCoach(catalog, responder, logger),
			Location: loc,
			Logger:   logger,
		},
		Config: cfg,
	}, nil
}

func newDatabase(ctx context.Context, cfg *Config) (shared.Database, error) {
	switch cfg.ProgressBackend {
	case BackendFirestore:
		fsClient, err := firestore.NewClient(ctx, cfg.ProjectID)
		if err != nil {
			slog.Error("Firestore init failed", "error", err)
			return nil, fmt.Errorf("firestore init: %w", err)
		}
		return database.NewFirestoreAdapter(fsClient), nil
	case BackendSQLite:
		db, err := database.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			slog.Error("SQLite init failed", "error", err, "path", cfg.SQLitePath)
			return nil, fmt.Errorf("sqlite init: %w", err)
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unknown PROGRESS_BACKEND %q", cfg.ProgressBackend)
	}
}

// LoadCatalog picks the catalog source: a local file, then a bucket
// object, then the catalog bundled in the binary.
func LoadCatalog(ctx context.Context, cfg *Config, store shared.BlobStore) (*exercise.Catalog, error) {
	switch {
	case cfg.CatalogPath != "":
		return exercise.Load(cfg.CatalogPath)
	case cfg.CatalogBucket != "":
		data, err := store.Read(ctx, cfg.CatalogBucket, cfg.CatalogObject)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeCatalogInvalid,
				fmt.Sprintf("failed to read gs://%s/%s", cfg.CatalogBucket, cfg.CatalogObject))
		}
		return exercise.Parse(data, exercise.FormatFromPath(cfg.CatalogObject))
	default:
		return exercise.Default(), nil
	}
}

// NewResponder returns the Gemini responder when an API key secret is
// configured and resolvable. Otherwise it returns nil and the coach
// answers from templates.
func NewResponder(ctx context.Context, cfg *Config, store shared.SecretStore, logger *slog.Logger) intake.Responder {
	if cfg.CoachAPIKeySecret == "" {
		logger.Info("Coach: TEMPLATES (COACH_API_KEY_SECRET not set)")
		return nil
	}

	apiKey, err := store.GetSecret(ctx, cfg.ProjectID, cfg.CoachAPIKeySecret)
	if err != nil {
		logger.Warn("Coach: TEMPLATES (secret unavailable)", "error", apperrors.ErrCoachUnavailable.WithCause(err))
		return nil
	}

	r, err := llm.NewGeminiResponder(ctx, llm.Options{
		APIKey:       apiKey,
		Model:        cfg.CoachModel,
		SystemPrompt: intake.SystemPrompt,
	})
	if err != nil {
		logger.Warn("Coach: TEMPLATES (client init failed)", "error", apperrors.ErrCoachUnavailable.WithCause(err))
		return nil
	}
	logger.Info("Coach: MODEL", "model", cfg.CoachModel)
	return r
}
