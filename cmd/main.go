package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/weibolens/weibolens/application"
	"github.com/weibolens/weibolens/internal/config"
	"github.com/weibolens/weibolens/internal/domain/model"
	"github.com/weibolens/weibolens/internal/infra/database"
	"github.com/weibolens/weibolens/internal/infra/storage"
	"github.com/weibolens/weibolens/internal/infra/weibo"
	"github.com/weibolens/weibolens/internal/service/analyzer"
	"github.com/weibolens/weibolens/internal/service/reporter"
	"github.com/weibolens/weibolens/internal/service/wordcloud"
	pkg "github.com/weibolens/weibolens/pkg/logger"
)

func main() {
	configPath := flag.String("config", "./config.yaml", "path to config file")
	keyword := flag.String("keyword", "", "search keyword (mutually exclusive with -user)")
	userID := flag.String("user", "", "user id to crawl (mutually exclusive with -keyword)")
	maxCount := flag.Int("max", 50, "maximum number of posts to crawl")
	sinceDate := flag.String("since", "", "only posts on or after this date (YYYY-MM-DD)")
	ngramSize := flag.Int("n", 2, "n-gram size (1, 2 or 3)")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("error load config %v", err)
	}

	zaplogger, err := pkg.NewZapLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("error initialize logger: %v", err)
	}
	defer zaplogger.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	tokenizer, err := analyzer.NewTokenizer(cfg.Analysis)
	if err != nil {
		zaplogger.Error("tokenizer init error", "err", err)
		return
	}

	client := weibo.NewClient(cfg.Weibo, zaplogger.WithPackage("weibo"))
	session := weibo.NewSession(client, zaplogger.WithPackage("weibo"), cfg.Crawl)
	session.OnProgress(func(pages, accepted int) {
		zaplogger.Info("Crawl progress", "pages", pages, "accepted", accepted)
	})

	store := storage.NewCSVStore(cfg.Storage, zaplogger.WithPackage("storage"))
	renderer := wordcloud.NewRenderer(cfg.Wordcloud, zaplogger.WithPackage("wordcloud"))

	app := application.NewApp(session, store, tokenizer, renderer, zaplogger, cfg)

	if cfg.Database.DSN != "" {
		db, err := database.NewPostgresPool(zaplogger.WithPackage("database"), cfg.Database)
		if err != nil {
			zaplogger.Error("failed to init DB, archiving disabled", "err", err)
		} else {
			defer db.Pool.Close()
			app.Archive = db
		}
	}
	if cfg.Report.Enabled {
		app.Reporter = reporter.NewExporter(zaplogger.WithPackage("reporter"))
	}

	req := model.CrawlRequest{
		Keyword:   *keyword,
		UserID:    *userID,
		MaxCount:  *maxCount,
		SinceDate: *sinceDate,
		NgramSize: *ngramSize,
	}

	result, err := app.Analyze(ctx, req)
	if err != nil {
		zaplogger.Error("analysis failed", "err", err)
		return
	}

	printSummary(result)
}

func printSummary(res *model.AnalysisResult) {
	fmt.Printf("posts: %d  pages: %d  reason: %s  output: %s\n",
		res.PostCount, res.PagesFetched, res.TerminalReason, res.OutputDir)
	fmt.Println("top n-grams:")
	for _, ng := range res.Ngrams {
		fmt.Printf("  %6d  %s\n", ng.Count, ng.Ngram)
	}
	if len(res.TimeSeries) > 0 {
		buckets, _ := json.Marshal(res.TimeSeries)
		fmt.Printf("time series: %s\n", buckets)
	}
}
