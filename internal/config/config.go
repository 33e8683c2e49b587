package config

import "time"

type Config struct {
	Crawl     CrawlConfig     `yaml:"crawl"`
	Weibo     WeiboConfig     `yaml:"weibo"`
	Analysis  AnalysisConfig  `yaml:"analysis"`
	Wordcloud WordcloudConfig `yaml:"wordcloud"`
	Storage   StorageConfig   `yaml:"storage"`
	Database  DatabaseConfig  `yaml:"database"`
	Report    ReportConfig    `yaml:"report"`
	Logger    LoggerConfig    `yaml:"logger"`
}

type CrawlConfig struct {
	// MaxCountCeiling caps the max_count a request may ask for.
	MaxCountCeiling int `yaml:"max_count_ceiling"`
	// RateInterval is the minimum delay between two page fetches.
	RateInterval time.Duration `yaml:"rate_interval"`
	// MaxAttempts bounds retries of a single page fetch at one cursor.
	MaxAttempts int           `yaml:"max_attempts"`
	BackoffBase time.Duration `yaml:"backoff_base"`
	// FailureThreshold is the number of consecutive exhausted-retry
	// fetches after which the session gives up with partial results.
	FailureThreshold int `yaml:"failure_threshold"`
}

type WeiboConfig struct {
	BaseURL   string        `yaml:"base_url"`
	UserAgent string        `yaml:"user_agent"`
	Cookie    string        `yaml:"cookie"`
	Timeout   time.Duration `yaml:"timeout"`
}

type AnalysisConfig struct {
	StopwordFile  string `yaml:"stopword_file"`
	MinTokenRunes int    `yaml:"min_token_runes"`
	TopNgrams     int    `yaml:"top_ngrams"`
	TopPosts      int    `yaml:"top_posts"`
}

type WordcloudConfig struct {
	FontPath string `yaml:"font_path"`
	Width    int    `yaml:"width"`
	Height   int    `yaml:"height"`
	MaxWords int    `yaml:"max_words"`
}

type StorageConfig struct {
	OutputDir string `yaml:"output_dir"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type ReportConfig struct {
	Enabled bool `yaml:"enabled"`
}

type LoggerConfig struct {
	Level      string `yaml:"level"`
	FilePath   string `yaml:"file_path"`
	Production bool   `yaml:"production"`
}
