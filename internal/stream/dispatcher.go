// Package stream bridges a run-to-completion search into an incremental
// event sequence for a live consumer.
package stream

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/parmanandojha/aiagentsearch/internal/config"
	"github.com/parmanandojha/aiagentsearch/internal/discovery"
	"github.com/parmanandojha/aiagentsearch/internal/history"
	"github.com/parmanandojha/aiagentsearch/internal/model"
	"github.com/parmanandojha/aiagentsearch/internal/pipeline"
	"github.com/parmanandojha/aiagentsearch/internal/report"
)

// Discoverer finds candidate businesses, suppressing the given keys.
type Discoverer interface {
	Search(ctx context.Context, q discovery.Query, existing model.KeySet) ([]model.Candidate, error)
}

// Processor audits candidates, reporting each record through the callback.
type Processor interface {
	Process(ctx context.Context, candidates []model.Candidate, onItem pipeline.OnItem) []model.ProcessedBusiness
}

// Request describes one streaming search run.
type Request struct {
	Industry        string
	Location        string
	MaxResults      int
	WebsiteRequired bool
}

// Dispatcher runs one producer goroutine per request and relays its output
// as ordered stream events.
type Dispatcher struct {
	discoverer Discoverer
	processor  Processor
	store      history.Store
	cfg        config.StreamConfig
}

// New creates a Dispatcher.
func New(d Discoverer, p Processor, store history.Store, cfg config.StreamConfig) *Dispatcher {
	return &Dispatcher{discoverer: d, processor: p, store: store, cfg: cfg}
}

type item struct {
	business model.ProcessedBusiness
	index    int
	total    int
}

type outcome struct {
	businesses []model.ProcessedBusiness
	err        error
}

// Run starts the search and returns the event channel. The channel is closed
// when the run completes, fails, or exceeds the join timeout.
func (d *Dispatcher) Run(ctx context.Context, req Request) <-chan model.StreamEvent {
	out := make(chan model.StreamEvent, 1)
	go d.run(ctx, req, out)
	return out
}

func (d *Dispatcher) run(ctx context.Context, req Request, out chan<- model.StreamEvent) {
	defer close(out)
	log := zap.L().With(zap.String("industry", req.Industry), zap.String("location", req.Location))
	log.Info("stream: starting search", zap.Int("max_results", req.MaxResults))

	out <- statusEvent(fmt.Sprintf("Starting search for %q in %q...", req.Industry, req.Location), "starting")

	// The store is read once before the producer starts and written once
	// after it completes; the producer itself never touches it.
	existing := model.KeySet{}
	previous, err := d.store.Find(ctx, req.Industry, req.Location)
	if err != nil {
		log.Warn("stream: history lookup failed", zap.Error(err))
	}
	if previous != nil {
		existing = history.DuplicateKeys(previous)
		log.Info("stream: previous search found", zap.Int("known_keys", len(existing)))
		out <- statusEvent("Found previous search. Starting fresh search (will skip duplicates from previous results)...", "info")
	}

	items := make(chan item, d.cfg.BufferSize)
	done := make(chan outcome, 1)
	prodCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		candidates, searchErr := d.discoverer.Search(prodCtx, discovery.Query{
			Industry:        req.Industry,
			Location:        req.Location,
			MaxResults:      req.MaxResults,
			WebsiteRequired: req.WebsiteRequired,
		}, existing)
		if searchErr != nil {
			done <- outcome{err: searchErr}
			return
		}
		processed := d.processor.Process(prodCtx, candidates, func(b model.ProcessedBusiness, index, total int) {
			// The send races producer cancellation so an abandoned run
			// cannot wedge on a full buffer.
			select {
			case items <- item{business: b, index: index, total: total}:
			case <-prodCtx.Done():
			}
		})
		done <- outcome{businesses: processed}
	}()

	joinDeadline := time.NewTimer(d.cfg.JoinTimeout())
	defer joinDeadline.Stop()

	var result *outcome
	for result == nil {
		select {
		case it := <-items:
			emitItem(out, it)
		case r := <-done:
			result = &r
		case <-joinDeadline.C:
			// Abandon the run: cancel the producer so it stops at its
			// next suspension point, end the stream with no terminal
			// events.
			log.Error("stream: producer missed join deadline", zap.Duration("timeout", d.cfg.JoinTimeout()))
			return
		case <-ctx.Done():
			log.Warn("stream: consumer context cancelled", zap.Error(ctx.Err()))
			return
		}
	}

	// Producer finished; drain anything still buffered before the terminal
	// events. The poll interval bounds the emptiness check.
	for {
		select {
		case it := <-items:
			emitItem(out, it)
			continue
		case <-time.After(d.cfg.PollInterval()):
		}
		break
	}

	if result.err != nil {
		log.Error("stream: search failed", zap.Error(result.err))
		out <- model.StreamEvent{Type: model.EventError, Error: &model.ErrorPayload{Error: result.err.Error()}}
		return
	}

	rep := report.Build(req.Industry, req.Location, result.businesses)

	if err := d.store.Append(ctx, history.Entry{
		Industry:   req.Industry,
		Location:   req.Location,
		MaxResults: req.MaxResults,
		Summary:    rep.Summary,
		Businesses: rep.Businesses,
	}); err != nil {
		log.Warn("stream: could not save search history", zap.Error(err))
	}

	total := rep.Summary.TotalBusinesses
	log.Info("stream: search complete", zap.Int("total", total))
	out <- model.StreamEvent{Type: model.EventSummary, Summary: &rep.Summary}
	out <- model.StreamEvent{Type: model.EventComplete, Complete: &model.CompletePayload{
		Message: fmt.Sprintf("Search complete! Found %d businesses.", total),
		Total:   total,
	}}
}

func emitItem(out chan<- model.StreamEvent, it item) {
	out <- model.StreamEvent{Type: model.EventBusiness, Business: &model.BusinessPayload{
		Business: it.business,
		Index:    it.index,
		Total:    it.total,
	}}
	out <- model.StreamEvent{Type: model.EventProgress, Progress: &model.ProgressPayload{
		Current: it.index,
		Total:   it.total,
		Message: fmt.Sprintf("Processed %d/%d businesses", it.index, it.total),
	}}
}

func statusEvent(message, kind string) model.StreamEvent {
	return model.StreamEvent{Type: model.EventStatus, Status: &model.StatusPayload{Message: message, Kind: kind}}
}
