package format

import (
	"bytes"
	"context"
	ico "github.com/biessek/golang-ico"
	"github.com/disintegration/imaging"
	"go.uber.org/zap"
	"image"
	"io"
	"mediaconverter/shared/log"
)

// icoMaxSide is the largest dimension an ICO directory entry can describe.
const icoMaxSide = 256

type Ico struct {
	logger *zap.Logger
}

func MustIco(logger *zap.Logger) *Ico {
	return &Ico{logger: logger}
}

func (w *Ico) Encode(ctx context.Context, img image.Image) (io.Reader, int64, error) {
	logger := log.LoggerWithTrace(ctx, w.logger)

	b := img.Bounds()
	if b.Dx() > icoMaxSide || b.Dy() > icoMaxSide {
		logger.Debug("Downscaling image to fit ico", zap.Int("width", b.Dx()), zap.Int("height", b.Dy()))
		img = imaging.Fit(img, icoMaxSide, icoMaxSide, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := ico.Encode(&buf, img); err != nil {
		logger.Error("Error encoding ico", zap.Error(err))
		return nil, 0, err
	}

	return &buf, int64(buf.Len()), nil
}
