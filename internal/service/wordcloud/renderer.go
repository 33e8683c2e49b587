package wordcloud

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/psykhi/wordclouds"
	"github.com/weibolens/weibolens/internal/config"
	"github.com/weibolens/weibolens/internal/domain/model"
	pkg "github.com/weibolens/weibolens/pkg/logger"
)

var palette = []color.Color{
	color.RGBA{R: 0xd7, G: 0x26, B: 0x38, A: 0xff},
	color.RGBA{R: 0xf5, G: 0x7d, B: 0x1f, A: 0xff},
	color.RGBA{R: 0xfd, G: 0xb6, B: 0x32, A: 0xff},
	color.RGBA{R: 0x00, G: 0x7f, B: 0x5f, A: 0xff},
	color.RGBA{R: 0x25, G: 0x5c, B: 0x99, A: 0xff},
}

// Renderer lays out unigram frequencies as a word cloud and encodes it as
// PNG. The font file must cover CJK glyphs; a missing font is a
// RenderError the orchestrator degrades to Placeholder output.
type Renderer struct {
	cfg config.WordcloudConfig
	log pkg.Logger
}

func NewRenderer(cfg config.WordcloudConfig, log pkg.Logger) *Renderer {
	return &Renderer{
		cfg: cfg,
		log: log,
	}
}

func (r *Renderer) Render(words []model.NgramResult) ([]byte, error) {
	if len(words) == 0 {
		return r.Placeholder(), nil
	}
	if _, err := os.Stat(r.cfg.FontPath); err != nil {
		return nil, fmt.Errorf("wordcloud font %q unavailable: %w", r.cfg.FontPath, err)
	}

	counts := make(map[string]int, len(words))
	for i, w := range words {
		if r.cfg.MaxWords > 0 && i >= r.cfg.MaxWords {
			break
		}
		counts[w.Ngram] = w.Count
	}

	cloud := wordclouds.NewWordcloud(
		counts,
		wordclouds.FontFile(r.cfg.FontPath),
		wordclouds.Width(r.cfg.Width),
		wordclouds.Height(r.cfg.Height),
		wordclouds.BackgroundColor(color.White),
		wordclouds.Colors(palette),
		wordclouds.FontMinSize(12),
		wordclouds.FontMaxSize(96),
	)
	img := cloud.Draw()

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode wordcloud png: %w", err)
	}
	r.log.Debug("Rendered word cloud", "words", len(counts), "bytes", buf.Len())
	return buf.Bytes(), nil
}

// Placeholder is the blank image returned when rendering is impossible:
// the analysis result stays valid, only the cloud is empty.
func (r *Renderer) Placeholder() []byte {
	img := image.NewRGBA(image.Rect(0, 0, r.cfg.Width, r.cfg.Height))
	for y := 0; y < r.cfg.Height; y++ {
		for x := 0; x < r.cfg.Width; x++ {
			img.Set(x, y, color.White)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		// Encoding an in-memory RGBA cannot fail short of OOM.
		return nil
	}
	return buf.Bytes()
}
