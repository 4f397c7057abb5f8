package bootstrap

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	apperrors "github.com/Esteb4ncd/solace-server/pkg/errors"
	"github.com/Esteb4ncd/solace-server/pkg/testing/mocks"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, k := range []string{"GOOGLE_CLOUD_PROJECT", "ENABLE_PUBLISH", "PROGRESS_BACKEND", "SQLITE_PATH", "CATALOG_OBJECT", "COACH_MODEL", "TIMEZONE"} {
		t.Setenv(k, "")
	}

	cfg := LoadConfig()
	if cfg.ProjectID != "solace-wellness" {
		t.Errorf("ProjectID = %q", cfg.ProjectID)
	}
	if cfg.EnablePublish {
		t.Error("EnablePublish should default to false")
	}
	if cfg.ProgressBackend != BackendFirestore {
		t.Errorf("ProgressBackend = %q", cfg.ProgressBackend)
	}
	if cfg.SQLitePath != DefaultSQLitePath {
		t.Errorf("SQLitePath = %q", cfg.SQLitePath)
	}
	if cfg.CatalogObject != "catalog/exercises.json" {
		t.Errorf("CatalogObject = %q", cfg.CatalogObject)
	}
	if cfg.CoachModel == "" {
		t.Error("CoachModel should have a default")
	}
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("GOOGLE_CLOUD_PROJECT", "proj")
	t.Setenv("ENABLE_PUBLISH", "true")
	t.Setenv("PROGRESS_BACKEND", "sqlite")
	t.Setenv("TIMEZONE", "Pacific/Auckland")

	cfg := LoadConfig()
	if cfg.ProjectID != "proj" || !cfg.EnablePublish || cfg.ProgressBackend != BackendSQLite {
		t.Errorf("cfg = %+v", cfg)
	}
	loc, err := cfg.Location()
	if err != nil {
		t.Fatalf("Location: %v", err)
	}
	if loc.String() != "Pacific/Auckland" {
		t.Errorf("loc = %s", loc)
	}

	cfg.Timezone = "Not/AZone"
	if _, err := cfg.Location(); err == nil {
		t.Error("expected error for invalid timezone")
	}
}

func TestLoadCatalog(t *testing.T) {
	ctx := context.Background()
	yamlCatalog := []byte("- id: a\n  name: A\n  targetAreas: [neck]\n")

	t.Run("default", func(t *testing.T) {
		c, err := LoadCatalog(ctx, &Config{}, &mocks.MockBlobStore{})
		if err != nil {
			t.Fatal(err)
		}
		if c.Len() == 0 {
			t.Error("expected bundled catalog")
		}
	})

	t.Run("local file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "catalog.yaml")
		if err := os.WriteFile(path, yamlCatalog, 0644); err != nil {
			t.Fatal(err)
		}
		c, err := LoadCatalog(ctx, &Config{CatalogPath: path}, nil)
		if err != nil {
			t.Fatal(err)
		}
		if c.Len() != 1 {
			t.Errorf("Len = %d, want 1", c.Len())
		}
	})

	t.Run("bucket", func(t *testing.T) {
		store := &mocks.MockBlobStore{
			ReadFunc: func(ctx context.Context, bucket, object string) ([]byte, error) {
				if bucket != "cfg-bucket" || object != "catalog/exercises.yaml" {
					t.Errorf("read %s/%s", bucket, object)
				}
				return yamlCatalog, nil
			},
		}
		c, err := LoadCatalog(ctx, &Config{CatalogBucket: "cfg-bucket", CatalogObject: "catalog/exercises.yaml"}, store)
		if err != nil {
			t.Fatal(err)
		}
		if _, ok := c.FindByID("a"); !ok {
			t.Error("expected exercise a")
		}
	})

	t.Run("bucket read failure", func(t *testing.T) {
		store := &mocks.MockBlobStore{
			ReadFunc: func(ctx context.Context, bucket, object string) ([]byte, error) {
				return nil, errors.New("denied")
			},
		}
		_, err := LoadCatalog(ctx, &Config{CatalogBucket: "b", CatalogObject: "x.json"}, store)
		if apperrors.GetCode(err) != apperrors.CodeCatalogInvalid {
			t.Errorf("err = %v, want CATALOG_INVALID", err)
		}
	})
}

func TestNewResponder_FallsBackToTemplates(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	if r := NewResponder(ctx, &Config{}, &mocks.MockSecretStore{}, logger); r != nil {
		t.Error("expected nil responder without secret name")
	}

	failing := &mocks.MockSecretStore{
		GetSecretFunc: func(ctx context.Context, projectID, name string) (string, error) {
			return "", errors.New("not found")
		},
	}
	var logs bytes.Buffer
	if r := NewResponder(ctx, &Config{CoachAPIKeySecret: "COACH_KEY"}, failing, slog.New(slog.NewJSONHandler(&logs, nil))); r != nil {
		t.Error("expected nil responder when secret is unavailable")
	}
	if !strings.Contains(logs.String(), "COACH_UNAVAILABLE") {
		t.Errorf("expected COACH_UNAVAILABLE in log, got %s", logs.String())
	}

	if r := NewResponder(ctx, &Config{CoachAPIKeySecret: "COACH_KEY", CoachModel: "gemini-test"}, &mocks.MockSecretStore{}, logger); r == nil {
		t.Error("expected responder when secret resolves")
	}
}

func TestComponentHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, slog.LevelInfo))

	logger.Info("direct", "component", "catalog", "n", 3)
	logger.With("component", "coach").Info("bound", "k", "v")
	logger.Debug("hidden")

	dec := json.NewDecoder(&buf)
	var lines []map[string]interface{}
	for dec.More() {
		var m map[string]interface{}
		if err := dec.Decode(&m); err != nil {
			t.Fatal(err)
		}
		lines = append(lines, m)
	}
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}

	if lines[0]["message"] != "[catalog] direct" || lines[0]["severity"] != "INFO" {
		t.Errorf("line 0 = %v", lines[0])
	}
	if _, ok := lines[0]["component"]; ok {
		t.Error("component attribute should be folded into the message")
	}
	if lines[1]["message"] != "[coach] bound" || lines[1]["k"] != "v" {
		t.Errorf("line 1 = %v", lines[1])
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"WARN":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
		"bogus": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
