package discovery

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/parmanandojha/aiagentsearch/internal/config"
	"github.com/parmanandojha/aiagentsearch/internal/model"
	"github.com/parmanandojha/aiagentsearch/pkg/google"
)

// pageSlack is added to the page budget so runs with a high history-duplicate
// rate can keep paginating past the naive page count.
const pageSlack = 3

// Query describes one discovery run.
type Query struct {
	Industry        string
	Location        string
	MaxResults      int
	WebsiteRequired bool
}

// Text renders the directory search string.
func (q Query) Text() string {
	return q.Industry + " in " + q.Location
}

// Coordinator drives paginated directory search with duplicate suppression.
type Coordinator struct {
	google    google.Client
	limiter   *rate.Limiter
	pageDelay time.Duration
	pageSize  int
}

// NewCoordinator creates a Coordinator with the given directory client.
func NewCoordinator(g google.Client, cfg config.DiscoveryConfig) *Coordinator {
	rateLimit := cfg.RateLimit
	if rateLimit <= 0 {
		rateLimit = 10
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	return &Coordinator{
		google:    g,
		limiter:   rate.NewLimiter(rate.Limit(rateLimit), 1),
		pageDelay: cfg.PageDelay(),
		pageSize:  pageSize,
	}
}

// accumulator threads the duplicate-suppression state through page
// iterations. It is local to one Search call and never shared.
type accumulator struct {
	accepted []model.Candidate
	seen     model.KeySet
}

// Search fetches directory pages until MaxResults unique candidates are
// accepted, pages run out, or the page budget is spent. Candidates whose
// duplicate key appears in existing are skipped without counting toward the
// target. Directory errors mid-pagination end the search with whatever was
// accepted so far; a zero-length result is not an error.
func (c *Coordinator) Search(ctx context.Context, q Query, existing model.KeySet) ([]model.Candidate, error) {
	log := zap.L().With(zap.String("industry", q.Industry), zap.String("location", q.Location))

	if q.MaxResults <= 0 {
		return []model.Candidate{}, nil
	}
	if existing == nil {
		existing = model.KeySet{}
	}

	// Every history duplicate burns a page slot without yielding a result,
	// so budget well past ceil(target/pageSize).
	maxPages := ((q.MaxResults+c.pageSize-1)/c.pageSize)*3/2 + pageSlack

	log.Info("discovery: starting search",
		zap.Int("target", q.MaxResults),
		zap.Int("max_pages", maxPages),
		zap.Int("existing_keys", len(existing)),
	)

	acc := accumulator{accepted: []model.Candidate{}, seen: model.KeySet{}}
	pageToken := ""

	for page := 0; page < maxPages; page++ {
		if page > 0 {
			// The directory requires a pause before a dependent page fetch;
			// page requests are sequential and not reorderable.
			if err := sleepCtx(ctx, c.pageDelay); err != nil {
				return acc.accepted, err
			}
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return acc.accepted, err
		}

		resp, err := c.google.TextSearch(ctx, google.TextSearchRequest{
			Query:     q.Text(),
			PageToken: pageToken,
		})
		if err != nil {
			if ctx.Err() != nil {
				return acc.accepted, ctx.Err()
			}
			// Partial results, never an error past this boundary.
			log.Warn("discovery: page fetch failed, returning partial results",
				zap.Int("page", page+1),
				zap.Int("accepted", len(acc.accepted)),
				zap.Error(err),
			)
			return acc.accepted, nil
		}

		acc = c.reducePage(ctx, q, acc, existing, resp.Results)

		if len(acc.accepted) >= q.MaxResults || resp.NextPageToken == "" {
			break
		}
		pageToken = resp.NextPageToken
	}

	log.Info("discovery: search complete",
		zap.Int("accepted", len(acc.accepted)),
		zap.Int("target", q.MaxResults),
	)
	return acc.accepted, nil
}

// reducePage folds one page of places into the accumulator.
func (c *Coordinator) reducePage(ctx context.Context, q Query, acc accumulator, existing model.KeySet, places []google.Place) accumulator {
	log := zap.L()

	for _, place := range places {
		if len(acc.accepted) >= q.MaxResults {
			break
		}

		cand := model.Candidate{
			PlaceID: place.PlaceID,
			Name:    place.Name,
			Address: place.FormattedAddress,
		}
		key := cand.Key()

		if existing.Contains(key) {
			log.Info("discovery: duplicate from previous search, continuing",
				zap.String("name", cand.Name),
			)
			continue
		}
		if acc.seen.Contains(key) {
			log.Debug("discovery: duplicate within current search",
				zap.String("name", cand.Name),
			)
			continue
		}

		if cand.PlaceID != "" {
			details, err := c.google.Details(ctx, cand.PlaceID)
			if err != nil {
				log.Warn("discovery: details fetch failed",
					zap.String("name", cand.Name),
					zap.Error(err),
				)
			} else {
				cand.Website = details.Website
				cand.Phone = details.Phone
			}
		}

		// Filtered candidates count toward neither duplicates nor results.
		if q.WebsiteRequired && cand.Website == "" {
			continue
		}

		acc.seen.Add(key)
		acc.accepted = append(acc.accepted, cand)
	}
	return acc
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
