package format

import (
	"bytes"
	"context"
	"go.uber.org/zap"
	"image"
	"image/jpeg"
	"io"
	"mediaconverter/shared/log"
)

type Jpeg struct {
	quality int
	logger  *zap.Logger
}

func MustJpeg(quality int, logger *zap.Logger) *Jpeg {
	return &Jpeg{quality: quality, logger: logger}
}

func (w *Jpeg) Encode(ctx context.Context, img image.Image) (io.Reader, int64, error) {
	logger := log.LoggerWithTrace(ctx, w.logger)
	logger.Debug("Encoding jpeg", zap.Int("quality", w.quality))

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: w.quality}); err != nil {
		logger.Error("Error encoding jpeg", zap.Error(err))
		return nil, 0, err
	}

	return &buf, int64(buf.Len()), nil
}
