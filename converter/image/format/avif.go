package format

import (
	"bytes"
	"context"
	"github.com/Kagami/go-avif"
	"go.uber.org/zap"
	"image"
	"io"
	"mediaconverter/shared/log"
)

type Avif struct {
	quality int
	logger  *zap.Logger
}

func MustAvif(quality int, logger *zap.Logger) *Avif {
	return &Avif{quality: quality, logger: logger}
}

func (w *Avif) Encode(ctx context.Context, img image.Image) (io.Reader, int64, error) {
	logger := log.LoggerWithTrace(ctx, w.logger)

	// libaom quantizer runs 0 (best) to 63 (worst)
	quantizer := 63 - w.quality*63/100
	logger.Debug("Encoding avif", zap.Int("quantizer", quantizer))

	var buf bytes.Buffer
	if err := avif.Encode(&buf, img, &avif.Options{Threads: 0, Speed: 8, Quality: quantizer}); err != nil {
		logger.Error("Error encoding avif", zap.Error(err))
		return nil, 0, err
	}

	return &buf, int64(buf.Len()), nil
}
