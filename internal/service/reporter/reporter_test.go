package reporter

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/weibolens/weibolens/internal/domain/model"
	pkg "github.com/weibolens/weibolens/pkg/logger"
	"github.com/xuri/excelize/v2"
)

func sampleResult() *model.AnalysisResult {
	post := model.Post{
		ID: "1", Text: "今天天气不错",
		CreatedAt: time.Date(2023, 5, 2, 10, 0, 0, 0, time.UTC), TimeValid: true,
		AttitudesCount: 12, CommentsCount: 3, RepostsCount: 1,
	}
	return &model.AnalysisResult{
		Ngrams:     []model.NgramResult{{Ngram: "天气 不错", Count: 4}},
		TimeSeries: []model.TimeBucket{{Date: "2023-05-02", Count: 1}},
		TopPosts: model.TopPosts{
			TopAttitudes: []model.Post{post},
			TopComments:  []model.Post{post},
			TopReposts:   []model.Post{post},
		},
		PostCount: 1,
	}
}

func TestExportWritesAllArtifacts(t *testing.T) {
	dir := t.TempDir()
	e := NewExporter(pkg.NewNopLogger())

	if err := e.Export(context.Background(), dir, sampleResult()); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"report.xlsx", "digest.docx", "timeseries.html"} {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			t.Errorf("missing %s: %v", name, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", name)
		}
	}

	f, err := excelize.OpenFile(filepath.Join(dir, "report.xlsx"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	got, err := f.GetCellValue("Ngrams", "A2")
	if err != nil {
		t.Fatal(err)
	}
	if got != "天气 不错" {
		t.Errorf("Ngrams!A2 = %q", got)
	}
	count, err := f.GetCellValue("TimeSeries", "B2")
	if err != nil {
		t.Fatal(err)
	}
	if count != "1" {
		t.Errorf("TimeSeries!B2 = %q", count)
	}
}

func TestExportMissingDirReportsError(t *testing.T) {
	e := NewExporter(pkg.NewNopLogger())

	if err := e.Export(context.Background(), "/no/such/dir", sampleResult()); err == nil {
		t.Fatal("expected error")
	}
}

func TestExportEmptyResult(t *testing.T) {
	dir := t.TempDir()
	e := NewExporter(pkg.NewNopLogger())

	if err := e.Export(context.Background(), dir, &model.AnalysisResult{}); err != nil {
		t.Fatal(err)
	}
}
