package image

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"github.com/disintegration/imaging"
	"github.com/h2non/bimg"
	"image"
	_ "image/gif"
	"io"
	"mediaconverter/converter/image/format"
	"net/http"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var (
	// ErrNotDecoded is returned when neither the Go decoders nor libvips understand the input.
	ErrNotDecoded = errors.New("unsupported or corrupt image")
	ErrTooLarge   = errors.New("image exceeds pixel limit")
)

// CustomImage carries a decoded raster through transforms to an encoder.
type CustomImage struct {
	img image.Image

	e         format.Encoder
	maxPixels int64
}

// NewCustomImage returns an image that refuses to decode inputs larger than
// maxPixels. Zero disables the limit.
func NewCustomImage(e format.Encoder, maxPixels int64) *CustomImage {
	return &CustomImage{e: e, maxPixels: maxPixels}
}

// Decode reads the whole input. Formats the Go decoders know are decoded
// directly; anything else is handed to libvips and re-read as PNG. Pixels are
// kept as stored, EXIF orientation is not applied.
func (ci *CustomImage) Decode(reader io.Reader) error {
	buf, err := io.ReadAll(reader)
	if err != nil {
		return err
	}

	if cfg, _, cerr := image.DecodeConfig(bytes.NewReader(buf)); cerr == nil {
		if err := ci.checkSize(cfg.Width, cfg.Height); err != nil {
			return err
		}
		img, err := imaging.Decode(bytes.NewReader(buf))
		if err != nil {
			return fmt.Errorf("%w: %v", ErrNotDecoded, err)
		}
		ci.img = img
		return nil
	}

	img, err := ci.decodeWithVips(buf)
	if err != nil {
		return err
	}

	ci.img = img
	return nil
}

func (ci *CustomImage) decodeWithVips(buf []byte) (image.Image, error) {
	if bimg.DetermineImageType(buf) == bimg.UNKNOWN {
		return nil, ErrNotDecoded
	}

	vi := bimg.NewImage(buf)
	size, err := vi.Size()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotDecoded, err)
	}
	if err := ci.checkSize(size.Width, size.Height); err != nil {
		return nil, err
	}

	converted, err := vi.Process(bimg.Options{Type: bimg.PNG})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotDecoded, err)
	}

	return imaging.Decode(bytes.NewReader(converted))
}

func (ci *CustomImage) checkSize(w, h int) error {
	if ci.maxPixels > 0 && int64(w)*int64(h) > ci.maxPixels {
		return fmt.Errorf("%w: %dx%d is over %d pixels", ErrTooLarge, w, h, ci.maxPixels)
	}
	return nil
}

func (ci *CustomImage) Image() image.Image {
	return ci.img
}

func (ci *CustomImage) Transform(funcs ...Transform) {
	for _, f := range funcs {
		ci.img = f(ci.img)
	}
}

func (ci *CustomImage) Encode(ctx context.Context) (io.Reader, int64, error) {
	if ci.img == nil {
		return nil, 0, errors.New("image not decoded")
	}
	return ci.e.Encode(ctx, ci.img)
}

// IsImage sniffs the leading bytes of an upload. libvips signatures are
// checked first; BMP and ICO, which libvips has no loader signature for, fall
// back to content sniffing.
func IsImage(head []byte) bool {
	switch bimg.DetermineImageType(head) {
	case bimg.UNKNOWN:
	case bimg.PDF:
		return false
	default:
		return true
	}

	return strings.HasPrefix(http.DetectContentType(head), "image/")
}
