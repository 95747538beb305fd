// Package pipeline runs each discovered candidate through contact
// extraction, social discovery, website audit, and scoring.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/parmanandojha/aiagentsearch/internal/config"
	"github.com/parmanandojha/aiagentsearch/internal/model"
)

// SiteAuditor is the per-website analysis surface the pipeline drives.
type SiteAuditor interface {
	Probe(ctx context.Context, websiteURL string) bool
	ExtractContacts(ctx context.Context, websiteURL string) model.Contact
	DiscoverSocials(ctx context.Context, websiteURL string) model.Socials
	Audit(ctx context.Context, websiteURL string) (model.AuditResult, error)
}

// Scorer turns an audit into a score and outreach tier.
type Scorer interface {
	Score(audit model.AuditResult) float64
	Opportunity(score float64) model.OpportunityLevel
}

// OnItem receives each completed record with its 1-based index and the total
// count, synchronously, before the next candidate starts.
type OnItem func(business model.ProcessedBusiness, index, total int)

// Pipeline processes candidates strictly sequentially. The politeness
// throttle and the auditor's shared connection budget both assume no
// intra-run parallelism.
type Pipeline struct {
	auditor  SiteAuditor
	scorer   Scorer
	throttle time.Duration
	limiter  *rate.Limiter
}

// New creates a Pipeline with the configured inter-candidate throttle.
func New(auditor SiteAuditor, scorer Scorer, cfg config.PipelineConfig) *Pipeline {
	p := &Pipeline{
		auditor:  auditor,
		scorer:   scorer,
		throttle: cfg.Throttle(),
	}
	if p.throttle > 0 {
		p.limiter = rate.NewLimiter(rate.Every(p.throttle), 1)
		// Drain the initial burst token so every Wait pays the full interval.
		p.limiter.Allow()
	}
	return p
}

// Process audits every candidate and returns one record per input, in input
// order. Per-candidate failures degrade that record only; Process itself
// never fails. onItem may be nil.
func (p *Pipeline) Process(ctx context.Context, candidates []model.Candidate, onItem OnItem) []model.ProcessedBusiness {
	log := zap.L()
	total := len(candidates)
	processed := make([]model.ProcessedBusiness, 0, total)

	for i, candidate := range candidates {
		log.Info("pipeline: processing business",
			zap.String("name", candidate.Name),
			zap.Int("index", i+1),
			zap.Int("total", total),
		)

		record := p.processOne(ctx, candidate)
		processed = append(processed, record)

		if onItem != nil {
			onItem(record, i+1, total)
		}
		p.pause(ctx)
	}
	return processed
}

// processOne never lets a candidate escape without a record.
func (p *Pipeline) processOne(ctx context.Context, candidate model.Candidate) (record model.ProcessedBusiness) {
	record = model.ProcessedBusiness{
		Candidate:   candidate,
		Issues:      []model.Issue{},
		Opportunity: model.OpportunityUnknown,
	}

	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("pipeline: candidate processing panicked",
				zap.String("name", candidate.Name),
				zap.Any("panic", r),
			)
			record.Issues = append(record.Issues, model.Issue{
				Kind:   model.IssueProcessingError,
				Detail: fmt.Sprint(r),
			})
			record.WebsiteScore = 0
			record.Opportunity = model.OpportunityUnknown
		}
	}()

	if candidate.Website == "" {
		zap.L().Warn("pipeline: no website", zap.String("name", candidate.Name))
		return record
	}

	if !p.auditor.Probe(ctx, candidate.Website) {
		record.Issues = append(record.Issues, model.Issue{Kind: model.IssueNotAccessible})
		return record
	}

	record.Contact = p.auditor.ExtractContacts(ctx, candidate.Website)
	record.Socials = p.auditor.DiscoverSocials(ctx, candidate.Website)

	audit, err := p.auditor.Audit(ctx, candidate.Website)
	if err != nil {
		zap.L().Error("pipeline: audit failed",
			zap.String("website", candidate.Website),
			zap.Error(err),
		)
		record.Issues = append(record.Issues, model.Issue{
			Kind:   model.IssueAuditError,
			Detail: err.Error(),
		})
		return record
	}

	record.TechStack = audit.TechStack
	if len(audit.Issues) > 0 {
		record.Issues = audit.Issues
	}
	record.WebsiteScore = p.scorer.Score(audit)
	record.Opportunity = p.scorer.Opportunity(record.WebsiteScore)
	return record
}

func (p *Pipeline) pause(ctx context.Context) {
	if p.limiter == nil {
		return
	}
	if err := p.limiter.Wait(ctx); err != nil {
		zap.L().Debug("pipeline: throttle interrupted", zap.Error(err))
	}
}
