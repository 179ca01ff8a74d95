// Package ingest drives one ingestion pass: dispatch every configured
// source to its adapter under a bounded worker pool, recover fields, and
// reconcile the result. Per-source failures shrink coverage, never the run.
package ingest

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"jobsift-engine/internal/config"
	"jobsift-engine/internal/domain"
	"jobsift-engine/internal/reconcile"
	"jobsift-engine/internal/recovery"
	"jobsift-engine/internal/source"
	"jobsift-engine/internal/source/browser"
	"jobsift-engine/internal/source/detail"
	"jobsift-engine/internal/source/feedapi"
	"jobsift-engine/internal/source/generic"
	"jobsift-engine/internal/source/htmlpage"
	"jobsift-engine/internal/source/util"
)

type SourceStatus struct {
	Name       string
	Adapter    string
	Candidates int
	Err        error
}

type Summary struct {
	RunID         string
	Started       time.Time
	Duration      time.Duration
	SourcesOK     int
	SourcesFailed int
	Candidates    int
	DetailFetches int
	Postings      int
	Statuses      []SourceStatus
}

type Runner struct {
	cfg       config.Config
	log       *zap.Logger
	dispatch  *source.Dispatcher
	recoverer *recovery.Recoverer
	hydrator  *detail.Hydrator
	budget    *detail.Budget
	browser   *browser.Adapter
	now       func() time.Time
}

func NewRunner(cfg config.Config, log *zap.Logger) *Runner {
	limiter := util.NewHostLimiter(cfg.Run.RequestsPerSec, cfg.Run.Burst)
	hc := util.NewHTTPClient(20 * time.Second)
	br := browser.New(log, time.Duration(cfg.Run.BrowserTimeoutSec)*time.Second)
	budget := detail.NewBudget(cfg.Run.DetailFetchBudget)

	return &Runner{
		cfg: cfg,
		log: log,
		dispatch: &source.Dispatcher{
			FeedAPI:        feedapi.New(hc, limiter, log),
			StructuredHTML: htmlpage.New(hc, limiter, log),
			Generic:        generic.New(hc, limiter, log),
			Browser:        br,
		},
		recoverer: recovery.New(cfg.Companies.Aliases),
		hydrator:  detail.NewHydrator(hc, limiter, budget, log),
		budget:    budget,
		browser:   br,
		now:       time.Now,
	}
}

// Close releases the headless browser, if one was ever launched.
func (r *Runner) Close() error { return r.browser.Close() }

// Run executes one ingestion pass. The caller's ctx carries the run-level
// deadline; sources still pending when it expires contribute nothing, and
// results already gathered are kept.
func (r *Runner) Run(ctx context.Context) (Summary, []domain.CanonicalPosting, error) {
	started := r.now()
	sum := Summary{
		RunID:   uuid.NewString(),
		Started: started,
	}
	log := r.log.With(zap.String("run_id", sum.RunID))

	sources := r.cfg.Sources
	perSource := make([][]domain.RawCandidate, len(sources))
	statuses := make([]SourceStatus, len(sources))

	var g errgroup.Group
	g.SetLimit(r.cfg.Run.Workers)

	for i, s := range sources {
		i, desc := i, s.Descriptor()
		g.Go(func() error {
			adapter, resolved := r.dispatch.Resolve(desc)
			statuses[i] = SourceStatus{Name: resolved.Name, Adapter: adapter.Name()}

			sctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Run.SourceTimeoutSecs)*time.Second)
			defer cancel()

			log.Info("fetching source",
				zap.String("source", resolved.Name),
				zap.String("adapter", adapter.Name()),
				zap.String("kind", string(resolved.Kind)),
				zap.String("vendor", string(resolved.Vendor)))

			cands, err := adapter.Fetch(sctx, resolved)
			if err != nil {
				// best-effort: skip source, keep siblings running
				var fe *source.FetchError
				if errors.As(err, &fe) {
					log.Warn("source failed",
						zap.String("source", resolved.Name),
						zap.String("reason", string(fe.Reason)),
						zap.Error(fe.Err))
				} else {
					log.Warn("source failed", zap.String("source", resolved.Name), zap.Error(err))
				}
				statuses[i].Err = err
				return nil
			}
			perSource[i] = cands
			statuses[i].Candidates = len(cands)
			return nil
		})
	}
	_ = g.Wait()

	// Flatten in configuration order so reconciliation tie-breaks see a
	// deterministic first-seen order regardless of completion order.
	var candidates []domain.RawCandidate
	for i := range perSource {
		candidates = append(candidates, perSource[i]...)
	}

	sum.DetailFetches = r.hydrateLowQuality(ctx, candidates)

	today := r.now()
	records := make([]domain.RecoveredRecord, 0, len(candidates))
	rec := r.recoverer.WithNow(func() time.Time { return today })
	for _, c := range candidates {
		records = append(records, rec.Recover(c))
	}

	postings := reconcile.Reconcile(records, today)

	for _, st := range statuses {
		if st.Err != nil {
			sum.SourcesFailed++
		} else {
			sum.SourcesOK++
		}
	}
	sum.Statuses = statuses
	sum.Candidates = len(candidates)
	sum.Postings = len(postings)
	sum.Duration = r.now().Sub(started)

	log.Info("ingestion pass complete",
		zap.Int("sources_ok", sum.SourcesOK),
		zap.Int("sources_failed", sum.SourcesFailed),
		zap.Int("candidates", sum.Candidates),
		zap.Int("detail_fetches", sum.DetailFetches),
		zap.Int("postings", sum.Postings),
		zap.Duration("took", sum.Duration))

	return sum, postings, nil
}

// hydrateLowQuality runs detail follow-ups for candidates whose listing
// data was weak, in parallel, all drawing on the one shared budget.
func (r *Runner) hydrateLowQuality(ctx context.Context, candidates []domain.RawCandidate) int {
	before := r.budget.Remaining()

	var g errgroup.Group
	g.SetLimit(r.cfg.Run.Workers)

	for i := range candidates {
		if !detail.Needed(candidates[i]) {
			continue
		}
		c := &candidates[i]
		g.Go(func() error {
			r.hydrator.Hydrate(ctx, c)
			return nil
		})
	}
	_ = g.Wait()

	return before - r.budget.Remaining()
}
