package storage

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/weibolens/weibolens/internal/config"
	"github.com/weibolens/weibolens/internal/domain/model"
	pkg "github.com/weibolens/weibolens/pkg/logger"
)

func TestWritePosts(t *testing.T) {
	dir := t.TempDir()
	store := NewCSVStore(config.StorageConfig{OutputDir: dir}, pkg.NewNopLogger())

	posts := []*model.Post{
		{
			ID:             "1",
			AuthorID:       "42",
			ScreenName:     "tester",
			Text:           "今天天气不错",
			Topics:         []string{"春天", "天气"},
			AtUsers:        []string{"某人"},
			CreatedAt:      time.Date(2023, 5, 2, 10, 15, 0, 0, time.UTC),
			TimeValid:      true,
			Source:         "iPhone",
			AttitudesCount: 12,
			CommentsCount:  3,
			RepostsCount:   1,
		},
		{ID: "2", Text: "no timestamp", TimeValid: false},
	}

	ref, err := store.WritePosts(context.Background(), "春天", posts)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(ref.ID, "春天-") {
		t.Errorf("output id %q does not carry the sanitized term", ref.ID)
	}

	f, err := os.Open(filepath.Join(ref.Path, "posts.csv"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header + 2", len(rows))
	}
	for i, col := range csvHeader {
		if rows[0][i] != col {
			t.Errorf("header[%d] = %q, want %q", i, rows[0][i], col)
		}
	}

	first := rows[1]
	if first[0] != "1" || first[2] != "tester" || first[3] != "今天天气不错" {
		t.Errorf("unexpected first row: %v", first)
	}
	if first[4] != "春天,天气" || first[5] != "某人" {
		t.Errorf("topics/at_users not joined: %v", first[4:6])
	}
	if first[6] != "2023-05-02 10:15:00" {
		t.Errorf("created_at = %q", first[6])
	}
	if first[8] != "12" || first[9] != "3" || first[10] != "1" {
		t.Errorf("counters wrong: %v", first[8:])
	}

	if rows[2][6] != "" {
		t.Errorf("invalid timestamp must write an empty created_at, got %q", rows[2][6])
	}
}

func TestWritePostsEmptySet(t *testing.T) {
	dir := t.TempDir()
	store := NewCSVStore(config.StorageConfig{OutputDir: dir}, pkg.NewNopLogger())

	ref, err := store.WritePosts(context.Background(), "nothing", nil)
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(ref.Path, "posts.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Count(string(data), "\n") != 1 {
		t.Errorf("empty set must still produce a header-only file, got %q", data)
	}
}

func TestWritePostsUniqueOutputIDs(t *testing.T) {
	dir := t.TempDir()
	store := NewCSVStore(config.StorageConfig{OutputDir: dir}, pkg.NewNopLogger())

	a, err := store.WritePosts(context.Background(), "term", nil)
	if err != nil {
		t.Fatal(err)
	}
	b, err := store.WritePosts(context.Background(), "term", nil)
	if err != nil {
		t.Fatal(err)
	}
	if a.ID == b.ID {
		t.Errorf("repeated requests must not collide, both got %q", a.ID)
	}
}

func TestWritePostsStorageError(t *testing.T) {
	// A regular file in the directory path makes MkdirAll fail.
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, nil, 0644); err != nil {
		t.Fatal(err)
	}
	store := NewCSVStore(config.StorageConfig{OutputDir: filepath.Join(blocker, "out")}, pkg.NewNopLogger())

	_, err := store.WritePosts(context.Background(), "term", nil)
	var se *model.StorageError
	if !errors.As(err, &se) {
		t.Fatalf("want StorageError, got %v", err)
	}
}

func TestOutputIDSanitizesTerm(t *testing.T) {
	id := outputID("a/b\\c: d")
	if strings.ContainsAny(id, "/\\: ") {
		t.Errorf("unsafe characters survived: %q", id)
	}
	if !strings.HasPrefix(outputID("///"), "crawl-") {
		t.Error("all-unsafe term must fall back to a generic label")
	}
}
