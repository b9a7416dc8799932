package cli

import (
	"context"
	"fmt"

	"github.com/rshade/smartcarbon/internal/config"
	"github.com/rshade/smartcarbon/internal/engine"
	"github.com/rshade/smartcarbon/internal/model"
	"github.com/rshade/smartcarbon/internal/stage"
	"github.com/rshade/smartcarbon/internal/store"
)

// session ties the estimator to the store and, when persistence is on, to
// the session file shared by separate invocations.
type session struct {
	store     *store.Store
	file      *store.FileStore
	estimator *engine.Estimator
}

// openSession validates cfg, loads the models and the saved session.
func openSession(ctx context.Context, cfg *config.Config) (*session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	registry, err := model.Load(ctx, cfg.Models.Dir, cfg.Models.Fallback)
	if err != nil {
		return nil, fmt.Errorf("loading models: %w", err)
	}

	st := store.New()
	var file *store.FileStore
	if cfg.Store.Persist {
		file, err = store.NewFileStore(cfg.Store.File, cfg.Store.MaxAge())
		if err != nil {
			return nil, err
		}
		st, err = file.Load(ctx)
		if err != nil {
			return nil, err
		}
	}

	est, err := engine.NewEstimator(registry, st, cfg.Thresholds)
	if err != nil {
		return nil, err
	}

	return &session{store: st, file: file, estimator: est}, nil
}

// Predict runs one stage and saves the session.
func (s *session) Predict(ctx context.Context, st stage.Stage, in engine.Inputs) (*engine.Prediction, error) {
	p, err := s.estimator.Predict(ctx, st, in)
	if err != nil {
		return nil, err
	}
	if err = s.save(ctx, s.store); err != nil {
		return nil, err
	}
	return p, nil
}

// Summary classifies the current store.
func (s *session) Summary(ctx context.Context) engine.Summary {
	return s.estimator.Summarize(ctx, s.store)
}

// Reset clears every stage and the session file.
func (s *session) Reset() error {
	s.store.Reset()
	if s.file == nil {
		return nil
	}
	return s.file.Clear()
}

func (s *session) save(ctx context.Context, st *store.Store) error {
	if s.file == nil {
		return nil
	}
	if err := s.file.Save(ctx, st); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}
