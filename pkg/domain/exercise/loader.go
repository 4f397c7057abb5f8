package exercise

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	apperrors "github.com/Esteb4ncd/solace-server/pkg/errors"
)

// Format identifies the encoding of a catalog file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

//go:embed data/exercises.json
var defaultCatalogJSON []byte

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the catalog bundled with the binary.
// The bundled file is part of the build, so a parse failure panics.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Parse(defaultCatalogJSON, FormatJSON)
		if err != nil {
			panic(fmt.Sprintf("bundled exercise catalog: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// FormatFromPath infers the catalog format from a file or object name.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Load reads a catalog file from disk.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeCatalogInvalid, "read catalog").
			WithMetadata("path", path)
	}
	return Parse(data, FormatFromPath(path))
}

// Parse decodes a catalog document, which is an array of exercise records.
func Parse(data []byte, format Format) (*Catalog, error) {
	var exercises []Exercise
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &exercises)
	case FormatJSON, "":
		err = json.Unmarshal(data, &exercises)
	default:
		return nil, apperrors.New(apperrors.CodeCatalogInvalid, fmt.Sprintf("unsupported catalog format %q", format))
	}
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeCatalogInvalid, "decode catalog")
	}
	return NewCatalog(exercises)
}

// NewCatalog validates exercises and builds a catalog that keeps their order.
// An empty difficulty defaults to beginner.
func NewCatalog(exercises []Exercise) (*Catalog, error) {
	c := &Catalog{
		exercises: make([]Exercise, len(exercises)),
		byID:      make(map[string]int, len(exercises)),
	}
	for i, e := range exercises {
		if e.ID == "" {
			return nil, apperrors.New(apperrors.CodeCatalogInvalid, fmt.Sprintf("exercise at index %d has no id", i))
		}
		if _, dup := c.byID[e.ID]; dup {
			return nil, apperrors.New(apperrors.CodeCatalogInvalid, "duplicate exercise id").
				WithMetadata("exercise_id", e.ID)
		}
		if e.Difficulty == "" {
			e.Difficulty = DifficultyBeginner
		}
		if !e.Difficulty.Valid() {
			return nil, apperrors.New(apperrors.CodeCatalogInvalid, fmt.Sprintf("unknown difficulty %q", e.Difficulty)).
				WithMetadata("exercise_id", e.ID)
		}
		c.exercises[i] = e
		c.byID[e.ID] = i
	}
	return c, nil
}
