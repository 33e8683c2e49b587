package application

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weibolens/weibolens/internal/config"
	"github.com/weibolens/weibolens/internal/domain/contracts"
	"github.com/weibolens/weibolens/internal/domain/model"
	"github.com/weibolens/weibolens/internal/service/analyzer"
	pkg "github.com/weibolens/weibolens/pkg/logger"
)

type fakeCrawler struct {
	outcome *contracts.CrawlOutcome
	err     error
	calls   int
}

func (f *fakeCrawler) Run(ctx context.Context, req model.CrawlRequest) (*contracts.CrawlOutcome, error) {
	f.calls++
	return f.outcome, f.err
}

type fakeStore struct {
	term string
	err  error
}

func (f *fakeStore) WritePosts(ctx context.Context, term string, posts []*model.Post) (contracts.OutputRef, error) {
	f.term = term
	if f.err != nil {
		return contracts.OutputRef{}, f.err
	}
	return contracts.OutputRef{ID: "out-1234", Path: "/tmp/out-1234"}, nil
}

type fakeRenderer struct {
	err error
}

func (f *fakeRenderer) Render(words []model.NgramResult) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []byte("png-bytes"), nil
}

func (f *fakeRenderer) Placeholder() []byte { return []byte("placeholder") }

var (
	appTokenizer *analyzer.Tokenizer
	tokOnce      sync.Once
)

func testApp(t *testing.T, crawler contracts.Crawler, store contracts.PostStore, renderer contracts.Renderer) *App {
	t.Helper()
	tokOnce.Do(func() {
		tok, err := analyzer.NewTokenizer(config.AnalysisConfig{MinTokenRunes: 2})
		if err != nil {
			t.Fatalf("tokenizer init: %v", err)
		}
		appTokenizer = tok
	})
	return NewApp(crawler, store, appTokenizer, renderer, pkg.NewNopLogger(), config.Default())
}

func crawledPosts() []*model.Post {
	return []*model.Post{
		{ID: "1", Text: "golang weibo analysis", AttitudesCount: 5, CommentsCount: 1},
		{ID: "2", Text: "golang testing", AttitudesCount: 1, CommentsCount: 9, RepostsCount: 2},
	}
}

func TestAnalyzeRejectsInvalidRequestBeforeCrawling(t *testing.T) {
	crawler := &fakeCrawler{}
	app := testApp(t, crawler, &fakeStore{}, &fakeRenderer{})

	_, err := app.Analyze(context.Background(), model.CrawlRequest{
		Keyword: "k", UserID: "u", MaxCount: 10, NgramSize: 2,
	})

	require.ErrorIs(t, err, model.ErrInvalidRequest)
	assert.Zero(t, crawler.calls, "no fetch may happen for an invalid request")
}

func TestAnalyzeAssemblesResult(t *testing.T) {
	crawler := &fakeCrawler{outcome: &contracts.CrawlOutcome{
		Posts:  crawledPosts(),
		Reason: model.ReasonCompleted,
		Pages:  2,
	}}
	store := &fakeStore{}
	app := testApp(t, crawler, store, &fakeRenderer{})

	res, err := app.Analyze(context.Background(), model.CrawlRequest{Keyword: "golang", MaxCount: 10, NgramSize: 1})
	require.NoError(t, err)

	assert.Equal(t, 2, res.PostCount)
	assert.Equal(t, 2, res.PagesFetched)
	assert.Equal(t, model.ReasonCompleted, res.TerminalReason)
	assert.Equal(t, "out-1234", res.OutputDir)
	assert.Equal(t, "golang", store.term)
	assert.Equal(t, []byte("png-bytes"), res.WordcloudImage)

	require.NotEmpty(t, res.Ngrams)
	assert.Equal(t, "golang", res.Ngrams[0].Ngram)
	assert.Equal(t, 2, res.Ngrams[0].Count)

	require.Len(t, res.TopPosts.TopAttitudes, 2)
	assert.Equal(t, "1", res.TopPosts.TopAttitudes[0].ID)
	assert.Equal(t, "2", res.TopPosts.TopComments[0].ID)
	assert.Equal(t, "2", res.TopPosts.TopReposts[0].ID)
}

func TestAnalyzeCrawlFailureWithoutPostsIsFatal(t *testing.T) {
	crawler := &fakeCrawler{err: errors.New("boom")}
	app := testApp(t, crawler, &fakeStore{}, &fakeRenderer{})

	_, err := app.Analyze(context.Background(), model.CrawlRequest{Keyword: "k", MaxCount: 10, NgramSize: 1})
	require.Error(t, err)
}

func TestAnalyzePartialCrawlStillAnalyzed(t *testing.T) {
	crawler := &fakeCrawler{
		outcome: &contracts.CrawlOutcome{
			Posts:  crawledPosts(),
			Reason: model.ReasonAbortedOnFailures,
			Pages:  1,
		},
		err: errors.New("gave up"),
	}
	app := testApp(t, crawler, &fakeStore{}, &fakeRenderer{})

	res, err := app.Analyze(context.Background(), model.CrawlRequest{Keyword: "k", MaxCount: 10, NgramSize: 1})
	require.NoError(t, err)
	assert.Equal(t, model.ReasonAbortedOnFailures, res.TerminalReason)
	assert.Equal(t, 2, res.PostCount)
}

func TestAnalyzeEmptyCrawlYieldsValidResult(t *testing.T) {
	crawler := &fakeCrawler{outcome: &contracts.CrawlOutcome{
		Reason: model.ReasonExhausted,
	}}
	app := testApp(t, crawler, &fakeStore{}, &fakeRenderer{})

	res, err := app.Analyze(context.Background(), model.CrawlRequest{Keyword: "冷门词", MaxCount: 10, NgramSize: 2})
	require.NoError(t, err)
	assert.Zero(t, res.PostCount)
	assert.Empty(t, res.Ngrams)
	assert.Empty(t, res.TimeSeries)
	assert.Empty(t, res.TopPosts.TopAttitudes)
	assert.NotNil(t, res.WordcloudImage)
	assert.Equal(t, model.ReasonExhausted, res.TerminalReason)
}

func TestAnalyzeAbortedSessionWithZeroPostsYieldsValidResult(t *testing.T) {
	crawler := &fakeCrawler{outcome: &contracts.CrawlOutcome{
		Reason: model.ReasonAbortedOnFailures,
		Pages:  0,
	}}
	app := testApp(t, crawler, &fakeStore{}, &fakeRenderer{})

	res, err := app.Analyze(context.Background(), model.CrawlRequest{Keyword: "k", MaxCount: 10, NgramSize: 1})
	require.NoError(t, err)
	assert.Zero(t, res.PostCount)
	assert.Empty(t, res.Ngrams)
	assert.Empty(t, res.TimeSeries)
	assert.Equal(t, model.ReasonAbortedOnFailures, res.TerminalReason)
}

func TestAnalyzeStoreFailureIsFatal(t *testing.T) {
	crawler := &fakeCrawler{outcome: &contracts.CrawlOutcome{Posts: crawledPosts(), Reason: model.ReasonCompleted}}
	store := &fakeStore{err: &model.StorageError{Err: errors.New("disk full")}}
	app := testApp(t, crawler, store, &fakeRenderer{})

	_, err := app.Analyze(context.Background(), model.CrawlRequest{Keyword: "k", MaxCount: 10, NgramSize: 1})
	var se *model.StorageError
	require.ErrorAs(t, err, &se)
}

func TestAnalyzeRenderFailureDegradesToPlaceholder(t *testing.T) {
	crawler := &fakeCrawler{outcome: &contracts.CrawlOutcome{Posts: crawledPosts(), Reason: model.ReasonCompleted}}
	app := testApp(t, crawler, &fakeStore{}, &fakeRenderer{err: errors.New("no font")})

	res, err := app.Analyze(context.Background(), model.CrawlRequest{Keyword: "k", MaxCount: 10, NgramSize: 1})
	require.NoError(t, err)
	assert.Equal(t, []byte("placeholder"), res.WordcloudImage)
}
