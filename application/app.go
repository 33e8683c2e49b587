package application

import (
	"context"
	"fmt"

	"github.com/weibolens/weibolens/internal/config"
	"github.com/weibolens/weibolens/internal/domain/contracts"
	"github.com/weibolens/weibolens/internal/domain/model"
	"github.com/weibolens/weibolens/internal/service/analyzer"
	pkg "github.com/weibolens/weibolens/pkg/logger"
)

// App composes one crawl session's output into the analysis stages and
// assembles the final result. It is the only entry point the external
// API layer calls.
type App struct {
	Crawler   contracts.Crawler
	Store     contracts.PostStore
	Archive   contracts.Archiver // optional
	Tokenizer *analyzer.Tokenizer
	Renderer  contracts.Renderer
	Reporter  contracts.Reporter // optional
	Logger    pkg.Logger
	Cfg       config.Config
}

func NewApp(crawler contracts.Crawler, store contracts.PostStore, tokenizer *analyzer.Tokenizer,
	renderer contracts.Renderer, logger pkg.Logger, cfg config.Config) *App {
	return &App{
		Crawler:   crawler,
		Store:     store,
		Tokenizer: tokenizer,
		Renderer:  renderer,
		Logger:    logger,
		Cfg:       cfg,
	}
}

// Analyze runs the whole pipeline for one request. A crawl failure is
// fatal only when nothing was accumulated; partial sets are analyzed as
// usual and callers see the shortfall through post_count and
// terminal_reason. A durable-write failure is always fatal.
func (a *App) Analyze(ctx context.Context, req model.CrawlRequest) (*model.AnalysisResult, error) {
	if err := req.Validate(a.Cfg.Crawl.MaxCountCeiling); err != nil {
		return nil, err
	}
	a.Logger.Info("Starting analysis", "term", req.Term(), "max_count", req.MaxCount, "n", req.NgramSize)

	outcome, err := a.Crawler.Run(ctx, req)
	if err != nil {
		if outcome == nil || len(outcome.Posts) == 0 {
			return nil, fmt.Errorf("crawl session failed: %w", err)
		}
		a.Logger.Warn("Crawl session failed after partial accumulation", "accepted", len(outcome.Posts), "err", err)
	}
	posts := outcome.Posts
	a.Logger.Info("Crawl finished", "accepted", len(posts), "pages", outcome.Pages, "reason", outcome.Reason)

	ref, err := a.Store.WritePosts(ctx, req.Term(), posts)
	if err != nil {
		return nil, err
	}
	if a.Archive != nil {
		if err := a.Archive.SaveBatch(ctx, posts); err != nil {
			a.Logger.Error("Post archive failed", "err", err)
		}
	}

	sequences := make([][]string, 0, len(posts))
	for _, p := range posts {
		sequences = append(sequences, a.Tokenizer.Tokenize(p.Text))
	}

	ngrams := analyzer.AggregateNgrams(sequences, req.NgramSize, a.Cfg.Analysis.TopNgrams)

	// The cloud is always unigram-based, independent of the requested n.
	unigrams := analyzer.AggregateNgrams(sequences, 1, a.Cfg.Wordcloud.MaxWords)
	image, renderErr := a.Renderer.Render(unigrams)
	if renderErr != nil {
		a.Logger.Warn("Word cloud rendering failed, using placeholder", "err", renderErr)
		image = a.Renderer.Placeholder()
	}

	k := a.Cfg.Analysis.TopPosts
	result := &model.AnalysisResult{
		Ngrams:         ngrams,
		WordcloudImage: image,
		TimeSeries:     analyzer.AggregateTimeSeries(posts),
		TopPosts: model.TopPosts{
			TopAttitudes: analyzer.RankByMetric(posts, analyzer.MetricAttitudes, k),
			TopComments:  analyzer.RankByMetric(posts, analyzer.MetricComments, k),
			TopReposts:   analyzer.RankByMetric(posts, analyzer.MetricReposts, k),
		},
		PostCount:      len(posts),
		OutputDir:      ref.ID,
		TerminalReason: outcome.Reason,
		PagesFetched:   outcome.Pages,
	}

	if a.Reporter != nil {
		if err := a.Reporter.Export(ctx, ref.Path, result); err != nil {
			a.Logger.Error("Report export failed", "err", err)
		}
	}

	a.Logger.Info("Analysis completed", "post_count", result.PostCount, "output", ref.ID)
	return result, nil
}
