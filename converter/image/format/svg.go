package format

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"go.uber.org/zap"
	"image"
	"image/png"
	"io"
	"mediaconverter/shared/log"
)

// Svg wraps the raster as a base64 PNG inside a single <image> element.
// The output is an embedding, not a vector trace.
type Svg struct {
	logger *zap.Logger
}

func MustSvg(logger *zap.Logger) *Svg {
	return &Svg{logger: logger}
}

func (w *Svg) Encode(ctx context.Context, img image.Image) (io.Reader, int64, error) {
	logger := log.LoggerWithTrace(ctx, w.logger)
	logger.Debug("Embedding raster in svg")

	var raster bytes.Buffer
	if err := png.Encode(&raster, img); err != nil {
		logger.Error("Error encoding svg payload", zap.Error(err))
		return nil, 0, err
	}

	width, height := img.Bounds().Dx(), img.Bounds().Dy()

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<?xml version="1.0" encoding="UTF-8"?>`+"\n")
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n", width, height, width, height)
	fmt.Fprintf(&buf, `  <image width="%d" height="%d" href="data:image/png;base64,%s"/>`+"\n", width, height, base64.StdEncoding.EncodeToString(raster.Bytes()))
	buf.WriteString("</svg>\n")

	return &buf, int64(buf.Len()), nil
}
