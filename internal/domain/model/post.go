package model

import "time"

// SourceZone is the timezone the platform reports timestamps in,
// regardless of the caller's locale. Calendar-date semantics (since_date,
// time buckets) are defined against it.
var SourceZone = time.FixedZone("CST", 8*60*60)

// Post is one accepted microblog record. Immutable once it leaves the
// crawl session. TimeValid is false when the platform timestamp could not
// be normalized; such posts still count for n-gram and engagement analysis
// but never appear in the time series.
type Post struct {
	ID             string    `json:"id"`
	AuthorID       string    `json:"author_id"`
	ScreenName     string    `json:"screen_name"`
	Text           string    `json:"text"`
	Topics         []string  `json:"topics,omitempty"`
	AtUsers        []string  `json:"at_users,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	TimeValid      bool      `json:"time_valid"`
	Source         string    `json:"source"`
	AttitudesCount int       `json:"attitudes_count"`
	CommentsCount  int       `json:"comments_count"`
	RepostsCount   int       `json:"reposts_count"`
}

// TerminalReason classifies why a crawl session stopped.
type TerminalReason string

const (
	ReasonCompleted         TerminalReason = "completed"
	ReasonExhausted         TerminalReason = "exhausted"
	ReasonAbortedOnFailures TerminalReason = "aborted_on_failures"
	ReasonCancelled         TerminalReason = "cancelled"
)

type NgramResult struct {
	Ngram string `json:"ngram"`
	Count int    `json:"count"`
}

// TimeBucket is one calendar date with its post count. Dates are in the
// source timezone and the series holds only dates that actually occur.
type TimeBucket struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type TopPosts struct {
	TopAttitudes []Post `json:"top_attitudes"`
	TopComments  []Post `json:"top_comments"`
	TopReposts   []Post `json:"top_reposts"`
}

// AnalysisResult is the aggregate handed to the external API layer.
// WordcloudImage holds PNG bytes; encoding/json emits them base64.
type AnalysisResult struct {
	Ngrams         []NgramResult  `json:"ngrams"`
	WordcloudImage []byte         `json:"wordcloud_image"`
	TimeSeries     []TimeBucket   `json:"time_series"`
	TopPosts       TopPosts       `json:"top_posts"`
	PostCount      int            `json:"post_count"`
	OutputDir      string         `json:"output_dir"`
	TerminalReason TerminalReason `json:"terminal_reason"`
	PagesFetched   int            `json:"pages_fetched"`
}
