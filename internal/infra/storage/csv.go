package storage

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/weibolens/weibolens/internal/config"
	"github.com/weibolens/weibolens/internal/domain/contracts"
	"github.com/weibolens/weibolens/internal/domain/model"
	pkg "github.com/weibolens/weibolens/pkg/logger"
)

// Column order matches the crawler's historical CSV layout; external
// tools depend on it staying stable.
var csvHeader = []string{
	"id", "user_id", "screen_name", "text", "topics", "at_users",
	"created_at", "source", "attitudes_count", "comments_count", "reposts_count",
}

var unsafeChars = regexp.MustCompile(`[^\p{Han}\p{L}\p{N}_-]+`)

// CSVStore writes each request's accepted posts to
// <output_dir>/<identifier>/posts.csv.
type CSVStore struct {
	baseDir string
	log     pkg.Logger
}

func NewCSVStore(cfg config.StorageConfig, log pkg.Logger) *CSVStore {
	return &CSVStore{
		baseDir: cfg.OutputDir,
		log:     log,
	}
}

func (s *CSVStore) WritePosts(ctx context.Context, term string, posts []*model.Post) (contracts.OutputRef, error) {
	id := outputID(term)
	dir := filepath.Join(s.baseDir, id)
	ref := contracts.OutputRef{ID: id, Path: dir}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return contracts.OutputRef{}, &model.StorageError{Err: fmt.Errorf("create output dir: %w", err)}
	}

	path := filepath.Join(dir, "posts.csv")
	f, err := os.Create(path)
	if err != nil {
		return contracts.OutputRef{}, &model.StorageError{Err: fmt.Errorf("create %s: %w", path, err)}
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return contracts.OutputRef{}, &model.StorageError{Err: err}
	}
	for _, p := range posts {
		if err := ctx.Err(); err != nil {
			return contracts.OutputRef{}, &model.StorageError{Err: err}
		}
		createdAt := ""
		if p.TimeValid {
			createdAt = p.CreatedAt.Format("2006-01-02 15:04:05")
		}
		row := []string{
			p.ID,
			p.AuthorID,
			p.ScreenName,
			p.Text,
			strings.Join(p.Topics, ","),
			strings.Join(p.AtUsers, ","),
			createdAt,
			p.Source,
			strconv.Itoa(p.AttitudesCount),
			strconv.Itoa(p.CommentsCount),
			strconv.Itoa(p.RepostsCount),
		}
		if err := w.Write(row); err != nil {
			return contracts.OutputRef{}, &model.StorageError{Err: err}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return contracts.OutputRef{}, &model.StorageError{Err: err}
	}
	// The file is the durable record; a buffered write can still fail here.
	if err := f.Close(); err != nil {
		return contracts.OutputRef{}, &model.StorageError{Err: fmt.Errorf("close %s: %w", path, err)}
	}

	s.log.Info("Wrote posts to CSV", "path", path, "count", len(posts))
	return ref, nil
}

// outputID labels the output directory with the sanitized search term and
// a short random suffix so repeated requests never collide.
func outputID(term string) string {
	clean := unsafeChars.ReplaceAllString(term, "_")
	clean = strings.Trim(clean, "_")
	if clean == "" {
		clean = "crawl"
	}
	return clean + "-" + uuid.NewString()[:8]
}
