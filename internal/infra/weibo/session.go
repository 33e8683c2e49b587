package weibo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/weibolens/weibolens/internal/config"
	"github.com/weibolens/weibolens/internal/domain/contracts"
	"github.com/weibolens/weibolens/internal/domain/model"
	pkg "github.com/weibolens/weibolens/pkg/logger"
	"golang.org/x/time/rate"
)

// ProgressFunc receives genuine crawl progress after every page: pages
// fetched so far and posts accepted so far.
type ProgressFunc func(pages, accepted int)

// Session drives the paginated crawl. The Session value itself holds no
// per-request state; every Run owns its own accumulator, cursor and
// failure counter, so independent requests may run in parallel against
// one Session. Fetches within a run are strictly sequential.
type Session struct {
	fetcher  contracts.PageFetcher
	log      pkg.Logger
	cfg      config.CrawlConfig
	progress ProgressFunc
}

func NewSession(fetcher contracts.PageFetcher, log pkg.Logger, cfg config.CrawlConfig) *Session {
	return &Session{
		fetcher: fetcher,
		log:     log,
		cfg:     cfg,
	}
}

// OnProgress registers a callback invoked after each fetched page.
func (s *Session) OnProgress(fn ProgressFunc) {
	s.progress = fn
}

type run struct {
	posts    []*model.Post
	seen     map[string]struct{}
	cursor   string
	failures int
	pages    int
}

// Run fetches pages until one of the stop conditions holds and returns
// whatever was accumulated together with the terminal reason. Partial
// results are always usable: a late failure never discards earlier posts.
func (s *Session) Run(ctx context.Context, req model.CrawlRequest) (*contracts.CrawlOutcome, error) {
	since, hasSince := req.SinceTime()
	limiter := rate.NewLimiter(rate.Every(s.cfg.RateInterval), 1)
	st := &run{seen: make(map[string]struct{})}

	for {
		if ctx.Err() != nil {
			s.log.Warn("Crawl cancelled", "accepted", len(st.posts))
			return s.outcome(st, model.ReasonCancelled), nil
		}

		page, err := s.fetchWithRetry(ctx, limiter, req, st.cursor)
		if err != nil {
			if ctx.Err() != nil {
				s.log.Warn("Crawl cancelled during fetch", "accepted", len(st.posts))
				return s.outcome(st, model.ReasonCancelled), nil
			}
			st.failures++
			s.log.Error("Page fetch gave up", "cursor", st.cursor, "consecutive_failures", st.failures, "err", err)
			if st.failures >= s.cfg.FailureThreshold {
				s.log.Warn("Aborting session on consecutive failures", "accepted", len(st.posts))
				return s.outcome(st, model.ReasonAbortedOnFailures), nil
			}
			continue
		}
		st.failures = 0
		st.pages++

		belowSince := 0
		for _, post := range page.Posts {
			if post.ID == "" {
				continue
			}
			if _, dup := st.seen[post.ID]; dup {
				continue
			}
			if hasSince && post.TimeValid && post.CreatedAt.Before(since) {
				belowSince++
				continue
			}
			st.seen[post.ID] = struct{}{}
			st.posts = append(st.posts, post)
			if len(st.posts) >= req.MaxCount {
				s.report(st)
				s.log.Info("Reached max_count", "max_count", req.MaxCount, "pages", st.pages)
				return s.outcome(st, model.ReasonCompleted), nil
			}
		}
		s.report(st)

		// A full page below since_date means the newest-first result set
		// crossed the date boundary. The ordering is undocumented, so an
		// unsorted result set could end the crawl early here.
		if hasSince && len(page.Posts) > 0 && belowSince == len(page.Posts) {
			s.log.Info("Crossed since_date boundary", "since", req.SinceDate, "pages", st.pages)
			return s.outcome(st, model.ReasonCompleted), nil
		}
		if !page.HasMore {
			s.log.Info("Platform reported no more pages", "accepted", len(st.posts), "pages", st.pages)
			return s.outcome(st, model.ReasonExhausted), nil
		}
		st.cursor = page.NextCursor
	}
}

// fetchWithRetry fetches one page at the current cursor, retrying
// transient failures with exponential backoff up to the attempt ceiling.
// The minimum inter-request delay is enforced before every attempt.
func (s *Session) fetchWithRetry(ctx context.Context, limiter *rate.Limiter, req model.CrawlRequest, cursor string) (*contracts.Page, error) {
	backoff := s.cfg.BackoffBase
	var lastErr error

	for attempt := 1; attempt <= s.cfg.MaxAttempts; attempt++ {
		if err := limiter.Wait(ctx); err != nil {
			return nil, err
		}
		page, err := s.fetcher.FetchPage(ctx, req, cursor)
		if err == nil {
			return page, nil
		}
		var te *TransientError
		if !errors.As(err, &te) {
			return nil, err
		}
		lastErr = err
		s.log.Warn("Transient fetch error", "cursor", cursor, "attempt", attempt, "err", err)

		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		backoff *= 2
	}
	return nil, fmt.Errorf("fetch at cursor %q failed after %d attempts: %w", cursor, s.cfg.MaxAttempts, lastErr)
}

func (s *Session) report(st *run) {
	if s.progress != nil {
		s.progress(st.pages, len(st.posts))
	}
}

func (s *Session) outcome(st *run, reason model.TerminalReason) *contracts.CrawlOutcome {
	return &contracts.CrawlOutcome{
		Posts:  st.posts,
		Reason: reason,
		Pages:  st.pages,
	}
}
