package format

import (
	"bytes"
	"context"
	"github.com/chai2010/webp"
	"go.uber.org/zap"
	"image"
	"io"
	"mediaconverter/shared/log"
)

type Webp struct {
	logger *zap.Logger
}

func MustWebp(logger *zap.Logger) *Webp {
	return &Webp{logger: logger}
}

// Encode writes lossless webp so pixel values survive the transcode.
func (w *Webp) Encode(ctx context.Context, img image.Image) (io.Reader, int64, error) {
	logger := log.LoggerWithTrace(ctx, w.logger)
	logger.Debug("Encoding webp")

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Lossless: true, Exact: true}); err != nil {
		logger.Error("Error encoding webp", zap.Error(err))
		return nil, 0, err
	}

	return &buf, int64(buf.Len()), nil
}
