package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Default returns the configuration used when no file or field overrides it.
func Default() Config {
	return Config{
		Crawl: CrawlConfig{
			MaxCountCeiling:  500,
			RateInterval:     2 * time.Second,
			MaxAttempts:      4,
			BackoffBase:      500 * time.Millisecond,
			FailureThreshold: 3,
		},
		Weibo: WeiboConfig{
			BaseURL:   "https://m.weibo.cn",
			UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/86.0.4240.111 Safari/537.36",
			Timeout:   10 * time.Second,
		},
		Analysis: AnalysisConfig{
			MinTokenRunes: 2,
			TopNgrams:     20,
			TopPosts:      10,
		},
		Wordcloud: WordcloudConfig{
			FontPath: "./fonts/NotoSansSC-Regular.otf",
			Width:    800,
			Height:   400,
			MaxWords: 200,
		},
		Storage: StorageConfig{OutputDir: "./data"},
		Report:  ReportConfig{Enabled: true},
		Logger:  LoggerConfig{Level: "info"},
	}
}

// LoadConfig reads the yaml file at path on top of the defaults, then
// applies environment overrides (a local .env file is honored when present).
func LoadConfig(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}

	_ = godotenv.Load()
	if cookie := os.Getenv("WEIBO_COOKIE"); cookie != "" {
		cfg.Weibo.Cookie = cookie
	}
	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		cfg.Database.DSN = dsn
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate runs once at load; components trust the values afterwards.
func (c Config) Validate() error {
	if c.Crawl.MaxCountCeiling <= 0 {
		return fmt.Errorf("crawl.max_count_ceiling must be positive, got %d", c.Crawl.MaxCountCeiling)
	}
	if c.Crawl.MaxAttempts <= 0 {
		return fmt.Errorf("crawl.max_attempts must be positive, got %d", c.Crawl.MaxAttempts)
	}
	if c.Crawl.RateInterval < 0 || c.Crawl.BackoffBase < 0 {
		return fmt.Errorf("crawl intervals must not be negative")
	}
	if c.Crawl.FailureThreshold <= 0 {
		return fmt.Errorf("crawl.failure_threshold must be positive, got %d", c.Crawl.FailureThreshold)
	}
	if c.Weibo.BaseURL == "" {
		return fmt.Errorf("weibo.base_url must not be empty")
	}
	if c.Analysis.MinTokenRunes < 1 {
		return fmt.Errorf("analysis.min_token_runes must be at least 1, got %d", c.Analysis.MinTokenRunes)
	}
	if c.Analysis.TopNgrams <= 0 || c.Analysis.TopPosts <= 0 {
		return fmt.Errorf("analysis top limits must be positive")
	}
	if c.Wordcloud.Width <= 0 || c.Wordcloud.Height <= 0 {
		return fmt.Errorf("wordcloud dimensions must be positive")
	}
	if c.Storage.OutputDir == "" {
		return fmt.Errorf("storage.output_dir must not be empty")
	}
	return nil
}
