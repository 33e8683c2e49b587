package reporter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"baliance.com/gooxml/document"
	"baliance.com/gooxml/schema/soo/wml"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/weibolens/weibolens/internal/domain/model"
	pkg "github.com/weibolens/weibolens/pkg/logger"
	"github.com/xuri/excelize/v2"
)

// Exporter writes human-readable report files next to the CSV record:
// an xlsx workbook with the metrics, a docx digest of the top posts and
// an html snapshot of the time series. All of it is best-effort; the
// analysis result is complete without these files.
type Exporter struct {
	log pkg.Logger
}

func NewExporter(log pkg.Logger) *Exporter {
	return &Exporter{log: log}
}

func (e *Exporter) Export(ctx context.Context, dir string, res *model.AnalysisResult) error {
	e.log.Info("Exporting report files", "dir", dir)
	var errs []error
	if err := e.saveExcel(filepath.Join(dir, "report.xlsx"), res); err != nil {
		e.log.Error("Failed to save report.xlsx", "err", err)
		errs = append(errs, err)
	}
	if err := e.saveDigest(filepath.Join(dir, "digest.docx"), res); err != nil {
		e.log.Error("Failed to save digest.docx", "err", err)
		errs = append(errs, err)
	}
	if err := e.saveChart(filepath.Join(dir, "timeseries.html"), res); err != nil {
		e.log.Error("Failed to save timeseries.html", "err", err)
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		e.log.Info("All report files saved")
	}
	return errors.Join(errs...)
}

func (e *Exporter) saveExcel(path string, res *model.AnalysisResult) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", "Ngrams")
	f.SetCellValue("Ngrams", "A1", "ngram")
	f.SetCellValue("Ngrams", "B1", "count")
	for i, ng := range res.Ngrams {
		f.SetCellValue("Ngrams", fmt.Sprintf("A%d", i+2), ng.Ngram)
		f.SetCellValue("Ngrams", fmt.Sprintf("B%d", i+2), ng.Count)
	}

	if _, err := f.NewSheet("TimeSeries"); err != nil {
		return err
	}
	f.SetCellValue("TimeSeries", "A1", "date")
	f.SetCellValue("TimeSeries", "B1", "count")
	for i, b := range res.TimeSeries {
		f.SetCellValue("TimeSeries", fmt.Sprintf("A%d", i+2), b.Date)
		f.SetCellValue("TimeSeries", fmt.Sprintf("B%d", i+2), b.Count)
	}

	if _, err := f.NewSheet("TopPosts"); err != nil {
		return err
	}
	headers := []string{"metric", "rank", "text", "attitudes", "comments", "reposts"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue("TopPosts", cell, h)
	}
	row := 2
	for _, section := range []struct {
		metric string
		posts  []model.Post
	}{
		{"attitudes", res.TopPosts.TopAttitudes},
		{"comments", res.TopPosts.TopComments},
		{"reposts", res.TopPosts.TopReposts},
	} {
		for rank, p := range section.posts {
			f.SetCellValue("TopPosts", fmt.Sprintf("A%d", row), section.metric)
			f.SetCellValue("TopPosts", fmt.Sprintf("B%d", row), rank+1)
			f.SetCellValue("TopPosts", fmt.Sprintf("C%d", row), p.Text)
			f.SetCellValue("TopPosts", fmt.Sprintf("D%d", row), p.AttitudesCount)
			f.SetCellValue("TopPosts", fmt.Sprintf("E%d", row), p.CommentsCount)
			f.SetCellValue("TopPosts", fmt.Sprintf("F%d", row), p.RepostsCount)
			row++
		}
	}

	return f.SaveAs(path)
}

func (e *Exporter) saveDigest(path string, res *model.AnalysisResult) error {
	doc := document.New()

	for _, section := range []struct {
		title string
		posts []model.Post
	}{
		{"Top posts by attitudes", res.TopPosts.TopAttitudes},
		{"Top posts by comments", res.TopPosts.TopComments},
		{"Top posts by reposts", res.TopPosts.TopReposts},
	} {
		para := doc.AddParagraph()
		para.SetStyle("Heading1")
		run := para.AddRun()
		run.Properties().SetBold(true)
		run.AddText(section.title)

		for _, post := range section.posts {
			if post.TimeValid {
				doc.AddParagraph().AddRun().AddText(post.CreatedAt.Format("2006-01-02 15:04:05"))
			}
			body := doc.AddParagraph()
			body.Properties().SetAlignment(wml.ST_JcBoth)
			body.AddRun().AddText(post.Text)
			doc.AddParagraph().AddRun().AddText(fmt.Sprintf("attitudes: %d  comments: %d  reposts: %d",
				post.AttitudesCount, post.CommentsCount, post.RepostsCount))
			doc.AddParagraph().AddRun().AddText("----------")
		}
	}

	return doc.SaveToFile(path)
}

func (e *Exporter) saveChart(path string, res *model.AnalysisResult) error {
	line := charts.NewLine()
	line.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: "Posts per day"}))

	x := make([]string, 0, len(res.TimeSeries))
	y := make([]opts.LineData, 0, len(res.TimeSeries))
	for _, b := range res.TimeSeries {
		x = append(x, b.Date)
		y = append(y, opts.LineData{Value: b.Count})
	}
	line.SetXAxis(x).AddSeries("posts", y)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return line.Render(f)
}
