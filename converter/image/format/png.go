package format

import (
	"bytes"
	"context"
	"go.uber.org/zap"
	"image"
	"image/png"
	"io"
	"mediaconverter/shared/log"
)

type Png struct {
	logger *zap.Logger
}

func MustPng(logger *zap.Logger) *Png {
	return &Png{logger: logger}
}

func (w *Png) Encode(ctx context.Context, img image.Image) (io.Reader, int64, error) {
	logger := log.LoggerWithTrace(ctx, w.logger)
	logger.Debug("Encoding png")

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		logger.Error("Error encoding png", zap.Error(err))
		return nil, 0, err
	}

	return &buf, int64(buf.Len()), nil
}
