package format

import (
	"bufio"
	"bytes"
	"context"
	"go.uber.org/zap"
	"image"
	"image/color"
	"io"
	"mediaconverter/shared/log"
)

// wbmpThreshold splits 8-bit luminance into black and white.
const wbmpThreshold = 128

// Wbmp writes WAP bitmaps, type 0: no extension headers, one bit per pixel,
// rows padded to whole bytes, set bits are white.
type Wbmp struct {
	logger *zap.Logger
}

func MustWbmp(logger *zap.Logger) *Wbmp {
	return &Wbmp{logger: logger}
}

func (w *Wbmp) Encode(ctx context.Context, img image.Image) (io.Reader, int64, error) {
	logger := log.LoggerWithTrace(ctx, w.logger)
	logger.Debug("Encoding wbmp")

	var buf bytes.Buffer
	if err := encodeWbmp(&buf, img); err != nil {
		logger.Error("Error encoding wbmp", zap.Error(err))
		return nil, 0, err
	}

	return &buf, int64(buf.Len()), nil
}

func encodeWbmp(w io.Writer, img image.Image) error {
	b := img.Bounds()
	bw := bufio.NewWriter(w)

	// type 0, fix header 0
	bw.WriteByte(0)
	bw.WriteByte(0)
	bw.Write(uintvar(uint32(b.Dx())))
	bw.Write(uintvar(uint32(b.Dy())))

	row := make([]byte, (b.Dx()+7)/8)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		clear(row)
		for x := b.Min.X; x < b.Max.X; x++ {
			g := color.GrayModel.Convert(img.At(x, y)).(color.Gray)
			if g.Y >= wbmpThreshold {
				i := x - b.Min.X
				row[i/8] |= 0x80 >> (i % 8)
			}
		}
		if _, err := bw.Write(row); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// uintvar encodes v as a WAP multi-byte integer: 7 bits per byte, most
// significant group first, continuation flag in the high bit.
func uintvar(v uint32) []byte {
	out := []byte{byte(v & 0x7f)}
	for v >>= 7; v > 0; v >>= 7 {
		out = append([]byte{byte(v&0x7f) | 0x80}, out...)
	}
	return out
}
