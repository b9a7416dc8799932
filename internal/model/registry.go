package model

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/rshade/smartcarbon/internal/logging"
	"github.com/rshade/smartcarbon/internal/stage"
)

// modelFileExtension is appended to the stage's model ID, e.g. "A4.yaml".
const modelFileExtension = ".yaml"

// File is the on-disk model description.
//
//	kind: linear
//	stage: transportation_to_site
//	intercept: 1.5
//	coefficients:
//	  Mass_used: 0.02
//	category_offsets: [0, 0.3, 0.1]
type File struct {
	Kind   string `yaml:"kind"`
	Stage  string `yaml:"stage,omitempty"`
	Linear `yaml:",inline"`
}

// Registry maps stages to predictors. Safe for concurrent use.
type Registry struct {
	mu         sync.RWMutex
	predictors map[stage.Stage]Predictor
	sources    map[stage.Stage]string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		predictors: make(map[stage.Stage]Predictor),
		sources:    make(map[stage.Stage]string),
	}
}

// Default returns a registry with the Product predictor for every stage.
func Default() *Registry {
	r := NewRegistry()
	for _, s := range stage.All() {
		r.Register(s, Product{}, KindProduct)
	}
	return r
}

// Register installs p for s. source is a free-form label (file path or kind).
func (r *Registry) Register(s stage.Stage, p Predictor, source string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.predictors[s] = p
	r.sources[s] = source
}

// Get returns the predictor for s.
func (r *Registry) Get(s stage.Stage) (Predictor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.predictors[s]
	return p, ok
}

// Source returns where the predictor for s came from, or "".
func (r *Registry) Source(s stage.Stage) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sources[s]
}

// Load reads <dir>/<ModelID>.yaml for every stage. A missing file installs
// the Product predictor when fallback is true and leaves the stage without
// a model otherwise. A malformed file is an error.
func Load(ctx context.Context, dir string, fallback bool) (*Registry, error) {
	logger := logging.ComponentLogger(logging.FromContext(ctx), "model")
	r := NewRegistry()

	for _, s := range stage.All() {
		path := ""
		if dir != "" {
			path = filepath.Join(dir, s.ModelID()+modelFileExtension)
		}

		p, err := loadPath(path, s)
		switch {
		case err == nil:
			r.Register(s, p, path)
			logger.Debug().Str("stage", s.String()).Str("path", path).Msg("model loaded")
		case errors.Is(err, fs.ErrNotExist):
			if fallback {
				r.Register(s, Product{}, KindProduct)
				logger.Debug().Str("stage", s.String()).Msg("model file missing, using product model")
			} else {
				logger.Warn().Str("stage", s.String()).Str("path", path).Msg("model file missing")
			}
		default:
			return nil, err
		}
	}
	return r, nil
}

func loadPath(path string, s stage.Stage) (Predictor, error) {
	if path == "" {
		return nil, fs.ErrNotExist
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p, err := Parse(data, s)
	if err != nil {
		return nil, fmt.Errorf("loading model %s: %w", path, err)
	}
	return p, nil
}

// Parse decodes a model file for stage s.
func Parse(data []byte, s stage.Stage) (Predictor, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing model YAML: %w", err)
	}

	if f.Stage != "" {
		declared, err := stage.Parse(f.Stage)
		if err != nil {
			return nil, err
		}
		if declared != s {
			return nil, fmt.Errorf("%w: file declares %s, expected %s", ErrStageMismatch, declared, s)
		}
	}

	switch strings.ToLower(f.Kind) {
	case KindProduct:
		return Product{}, nil
	case KindLinear:
		return f.Linear, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, f.Kind)
	}
}
