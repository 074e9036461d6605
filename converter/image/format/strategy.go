package format

import (
	"context"
	"fmt"
	"go.uber.org/zap"
	"image"
	"io"
)

type Encoder interface {
	Encode(ctx context.Context, img image.Image) (io.Reader, int64, error)
}

type Options struct {
	JpegQuality int
	AvifQuality int
}

type Strategy struct {
	m map[Format]Encoder
}

func MustStrategy(opts Options, logger *zap.Logger) *Strategy {
	return &Strategy{m: map[Format]Encoder{
		JPEG: MustJpeg(opts.JpegQuality, logger),
		PNG:  MustPng(logger),
		BMP:  MustBmp(logger),
		WBMP: MustWbmp(logger),
		ICO:  MustIco(logger),
		SVG:  MustSvg(logger),
		WEBP: MustWebp(logger),
		AVIF: MustAvif(opts.AvifQuality, logger),
	}}
}

func (s *Strategy) Apply(f Format) (Encoder, error) {
	e, ok := s.m[f]
	if !ok {
		return nil, fmt.Errorf("no encoder for format %q", f)
	}
	return e, nil
}
