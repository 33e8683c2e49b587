package wordcloud

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/weibolens/weibolens/internal/config"
	"github.com/weibolens/weibolens/internal/domain/model"
	pkg "github.com/weibolens/weibolens/pkg/logger"
)

func testRenderer() *Renderer {
	return NewRenderer(config.WordcloudConfig{
		FontPath: "/does/not/exist.otf",
		Width:    80,
		Height:   40,
		MaxWords: 50,
	}, pkg.NewNopLogger())
}

func TestPlaceholderIsValidPNG(t *testing.T) {
	r := testRenderer()

	data := r.Placeholder()
	if len(data) == 0 {
		t.Fatal("placeholder must not be empty")
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != 80 || bounds.Dy() != 40 {
		t.Errorf("placeholder size = %dx%d, want 80x40", bounds.Dx(), bounds.Dy())
	}
}

func TestRenderEmptyWordsYieldsPlaceholder(t *testing.T) {
	r := testRenderer()

	data, err := r.Render(nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := png.Decode(bytes.NewReader(data)); err != nil {
		t.Fatal(err)
	}
}

func TestRenderMissingFont(t *testing.T) {
	r := testRenderer()

	_, err := r.Render([]model.NgramResult{{Ngram: "词", Count: 3}})
	if err == nil {
		t.Fatal("expected error for missing font file")
	}
}
