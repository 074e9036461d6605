package format

import (
	"bytes"
	"context"
	"go.uber.org/zap"
	"golang.org/x/image/bmp"
	"image"
	"io"
	"mediaconverter/shared/log"
)

type Bmp struct {
	logger *zap.Logger
}

func MustBmp(logger *zap.Logger) *Bmp {
	return &Bmp{logger: logger}
}

func (w *Bmp) Encode(ctx context.Context, img image.Image) (io.Reader, int64, error) {
	logger := log.LoggerWithTrace(ctx, w.logger)
	logger.Debug("Encoding bmp")

	var buf bytes.Buffer
	if err := bmp.Encode(&buf, img); err != nil {
		logger.Error("Error encoding bmp", zap.Error(err))
		return nil, 0, err
	}

	return &buf, int64(buf.Len()), nil
}
