package image

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"testing"

	"github.com/h2non/bimg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

type captureEncoder struct {
	got image.Image
}

func (c *captureEncoder) Encode(_ context.Context, img image.Image) (io.Reader, int64, error) {
	c.got = img
	return bytes.NewReader([]byte("ok")), 2, nil
}

func translucent(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x < w/2 {
				img.SetNRGBA(x, y, color.NRGBA{R: 200, G: 10, B: 10, A: 255})
			}
		}
	}
	return img
}

func TestDecode_GoFormats(t *testing.T) {
	src := translucent(8, 6)

	var pngBuf, bmpBuf bytes.Buffer
	require.NoError(t, png.Encode(&pngBuf, src))
	require.NoError(t, bmp.Encode(&bmpBuf, src))

	for name, data := range map[string][]byte{"png": pngBuf.Bytes(), "bmp": bmpBuf.Bytes()} {
		t.Run(name, func(t *testing.T) {
			ci := NewCustomImage(&captureEncoder{}, 0)
			require.NoError(t, ci.Decode(bytes.NewReader(data)))
			assert.Equal(t, 8, ci.Image().Bounds().Dx())
			assert.Equal(t, 6, ci.Image().Bounds().Dy())
		})
	}
}

func TestDecode_Garbage(t *testing.T) {
	ci := NewCustomImage(&captureEncoder{}, 0)
	err := ci.Decode(bytes.NewReader([]byte("definitely not an image")))
	assert.ErrorIs(t, err, ErrNotDecoded)
}

func TestDecode_PixelLimit(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, translucent(100, 100)))

	err := NewCustomImage(&captureEncoder{}, 5000).Decode(bytes.NewReader(buf.Bytes()))
	assert.ErrorIs(t, err, ErrTooLarge)

	ci := NewCustomImage(&captureEncoder{}, 10000)
	require.NoError(t, ci.Decode(bytes.NewReader(buf.Bytes())))
	assert.Equal(t, 100, ci.Image().Bounds().Dx())
}

// withExifOrientation inserts an APP1 segment holding a single orientation tag.
func withExifOrientation(t *testing.T, jpg []byte, orientation byte) []byte {
	t.Helper()
	require.Equal(t, []byte{0xff, 0xd8}, jpg[:2])

	app1 := []byte{
		0xff, 0xe1, 0x00, 0x22,
		'E', 'x', 'i', 'f', 0x00, 0x00,
		'I', 'I', 0x2a, 0x00, 0x08, 0x00, 0x00, 0x00,
		0x01, 0x00,
		0x12, 0x01, 0x03, 0x00, 0x01, 0x00, 0x00, 0x00, orientation, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
	}

	out := append([]byte{0xff, 0xd8}, app1...)
	return append(out, jpg[2:]...)
}

func TestDecode_KeepsStoredOrientation(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, translucent(8, 4), nil))
	data := withExifOrientation(t, buf.Bytes(), 6)

	ci := NewCustomImage(&captureEncoder{}, 0)
	require.NoError(t, ci.Decode(bytes.NewReader(data)))

	assert.Equal(t, image.Rect(0, 0, 8, 4), ci.Image().Bounds())
}

func TestIsImage(t *testing.T) {
	var pngBuf, jpgBuf, bmpBuf bytes.Buffer
	require.NoError(t, png.Encode(&pngBuf, translucent(4, 4)))
	require.NoError(t, jpeg.Encode(&jpgBuf, translucent(4, 4), nil))
	require.NoError(t, bmp.Encode(&bmpBuf, translucent(4, 4)))

	tests := []struct {
		name string
		head []byte
		want bool
	}{
		{"png", pngBuf.Bytes(), true},
		{"jpeg", jpgBuf.Bytes(), true},
		{"bmp", bmpBuf.Bytes(), true},
		{"ico", []byte{0x00, 0x00, 0x01, 0x00, 0x01, 0x00, 0x10, 0x10, 0x00, 0x00, 0x01, 0x00, 0x20, 0x00}, true},
		{"pdf", []byte("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n1 0 obj"), false},
		{"text", []byte("just some notes about a holiday"), false},
		{"empty", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsImage(tt.head))
		})
	}
}

func TestIsImage_Avif(t *testing.T) {
	if !bimg.IsTypeSupported(bimg.AVIF) {
		t.Skip("libvips built without AVIF support")
	}

	head := []byte("\x00\x00\x00\x1cftypavif\x00\x00\x00\x00avifmif1miaf")
	assert.True(t, IsImage(head))
}

func TestEncode_BeforeDecode(t *testing.T) {
	_, _, err := NewCustomImage(&captureEncoder{}, 0).Encode(context.Background())
	assert.Error(t, err)
}

func TestTransform_Chain(t *testing.T) {
	enc := &captureEncoder{}
	ci := NewCustomImage(enc, 0)
	ci.img = translucent(10, 10)

	ci.Transform(Flatten(), Resize(4, 3))
	_, _, err := ci.Encode(context.Background())
	require.NoError(t, err)

	assert.Equal(t, image.Rect(0, 0, 4, 3), enc.got.Bounds())
	assert.False(t, HasAlpha(enc.got))
}

func TestFlatten_TransparentBecomesWhite(t *testing.T) {
	out := Flatten()(translucent(10, 4))

	assert.False(t, HasAlpha(out))
	r, g, b, a := out.At(9, 0).RGBA()
	assert.Equal(t, [4]uint32{0xffff, 0xffff, 0xffff, 0xffff}, [4]uint32{r, g, b, a})
	r, g, b, _ = out.At(0, 0).RGBA()
	assert.Equal(t, [3]uint32{200 * 0x101, 10 * 0x101, 10 * 0x101}, [3]uint32{r, g, b})
}

func TestFlatten_OpaqueKeepsPixels(t *testing.T) {
	src := image.NewGray(image.Rect(2, 2, 5, 5))
	src.SetGray(2, 2, color.Gray{Y: 40})

	out := Flatten()(src)

	assert.Equal(t, image.Rect(0, 0, 3, 3), out.Bounds())
	r, _, _, _ := out.At(0, 0).RGBA()
	assert.Equal(t, uint32(40*0x101), r)
}

func TestResize_Exact(t *testing.T) {
	out := Resize(100, 200)(translucent(37, 11))
	assert.Equal(t, 100, out.Bounds().Dx())
	assert.Equal(t, 200, out.Bounds().Dy())
}

func TestMonochrome(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 3, 1))
	src.SetGray(0, 0, color.Gray{Y: 10})
	src.SetGray(1, 0, color.Gray{Y: 127})
	src.SetGray(2, 0, color.Gray{Y: 200})

	out := Monochrome()(src)

	var got []uint8
	for x := 0; x < 3; x++ {
		got = append(got, color.GrayModel.Convert(out.At(x, 0)).(color.Gray).Y)
	}
	assert.Equal(t, []uint8{0, 0, 255}, got)
}
