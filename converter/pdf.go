package converter

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/gen2brain/go-fitz"
	"go.uber.org/zap"

	"mediaconverter/converter/image/format"
	"mediaconverter/shared/log"
)

// rasterizer renders every PDF page to a PNG at a fixed resolution.
type rasterizer struct {
	dpi       float64
	maxPixels int64
	png       format.Encoder
	logger    *zap.Logger
}

func (r *rasterizer) Run(ctx context.Context, job Job) ([]string, error) {
	logger := log.LoggerWithTrace(ctx, r.logger)

	doc, err := fitz.New(job.Input)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	defer doc.Close()

	total := doc.NumPage()
	if total == 0 {
		return nil, fmt.Errorf("PDF has no pages")
	}
	logger.Debug("Rasterizing PDF", zap.Int("pages", total), zap.Float64("dpi", r.dpi))

	paths := make([]string, 0, total)
	for n := 0; n < total; n++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		bounds, err := doc.Bound(n)
		if err != nil {
			return nil, fmt.Errorf("reading page %d: %w", n+1, err)
		}
		w := int64(float64(bounds.Dx()) * r.dpi / 72)
		h := int64(float64(bounds.Dy()) * r.dpi / 72)
		if r.maxPixels > 0 && w*h > r.maxPixels {
			return nil, fmt.Errorf("page %d renders to %dx%d, over the %d pixel limit", n+1, w, h, r.maxPixels)
		}

		page, err := doc.ImageDPI(n, r.dpi)
		if err != nil {
			return nil, fmt.Errorf("rendering page %d: %w", n+1, err)
		}

		body, _, err := r.png.Encode(ctx, page)
		if err != nil {
			return nil, fmt.Errorf("encoding page %d: %w", n+1, err)
		}

		name := pageName(job.Input, n+1, total, format.PNG.Extension())
		if total == 1 {
			name = outputName(job.Input, "", format.PNG.Extension())
		}

		out := filepath.Join(job.OutDir, name)
		if err := writeFile(out, body); err != nil {
			return nil, err
		}
		paths = append(paths, out)
	}

	return paths, nil
}
