package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/parmanandojha/aiagentsearch/internal/audit"
	"github.com/parmanandojha/aiagentsearch/internal/discovery"
	"github.com/parmanandojha/aiagentsearch/internal/history"
	"github.com/parmanandojha/aiagentsearch/internal/pipeline"
	"github.com/parmanandojha/aiagentsearch/internal/scorer"
	"github.com/parmanandojha/aiagentsearch/internal/stream"
	"github.com/parmanandojha/aiagentsearch/pkg/google"
)

// searchEnv bundles the wired search stack shared by run and serve.
type searchEnv struct {
	Store      history.Store
	Dispatcher *stream.Dispatcher
}

func (e *searchEnv) Close() {
	if err := e.Store.Close(); err != nil {
		zap.L().Warn("close history store", zap.Error(err))
	}
}

// initSearch opens the history store, builds all clients, and assembles the
// streaming dispatcher.
func initSearch(ctx context.Context) (*searchEnv, error) {
	st, err := history.Open(ctx, cfg.Store)
	if err != nil {
		return nil, eris.Wrap(err, "open history store")
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, eris.Wrap(err, "migrate history store")
	}

	rubric := scorer.DefaultRubric()
	if cfg.Scorer.RubricPath != "" {
		rubric, err = scorer.LoadRubric(cfg.Scorer.RubricPath)
		if err != nil {
			st.Close()
			return nil, err
		}
	}

	places := google.NewClient(cfg.Google.Key, google.WithBaseURL(cfg.Google.BaseURL))
	coordinator := discovery.NewCoordinator(places, cfg.Discovery)
	auditor := audit.New(cfg.Audit)
	proc := pipeline.New(auditor, scorer.New(rubric), cfg.Pipeline)

	return &searchEnv{
		Store:      st,
		Dispatcher: stream.New(coordinator, proc, st, cfg.Stream),
	}, nil
}
