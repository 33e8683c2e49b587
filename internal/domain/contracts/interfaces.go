package contracts

import (
	"context"

	"github.com/weibolens/weibolens/internal/domain/model"
)

// Page is one fetched page of raw results. NextCursor is an opaque marker
// identifying where the following fetch should resume.
type Page struct {
	Posts      []*model.Post
	NextCursor string
	HasMore    bool
}

// PageFetcher fetches a single page at a given cursor. Fetches must be
// retriable at the same cursor.
type PageFetcher interface {
	FetchPage(ctx context.Context, req model.CrawlRequest, cursor string) (*Page, error)
}

// CrawlOutcome is what a finished session hands back. Posts may be a
// partial set; Reason says why the session stopped.
type CrawlOutcome struct {
	Posts  []*model.Post
	Reason model.TerminalReason
	Pages  int
}

type Crawler interface {
	Run(ctx context.Context, req model.CrawlRequest) (*CrawlOutcome, error)
}

// OutputRef identifies where accepted posts were durably written. ID is
// the opaque identifier exposed to callers, Path the local directory.
type OutputRef struct {
	ID   string
	Path string
}

type PostStore interface {
	WritePosts(ctx context.Context, term string, posts []*model.Post) (OutputRef, error)
}

// Archiver is an optional secondary sink for accepted posts.
type Archiver interface {
	SaveBatch(ctx context.Context, posts []*model.Post) error
}

type Renderer interface {
	Render(words []model.NgramResult) ([]byte, error)
	Placeholder() []byte
}

type Reporter interface {
	Export(ctx context.Context, dir string, res *model.AnalysisResult) error
}
