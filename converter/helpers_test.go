package converter

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// writePDF writes a minimal PDF with blank pages of the given size in points.
func writePDF(t *testing.T, path string, pages int, widthPt, heightPt int) {
	t.Helper()

	var buf bytes.Buffer
	offsets := []int{}
	obj := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	buf.WriteString("%PDF-1.4\n")
	obj("<< /Type /Catalog /Pages 2 0 R >>")

	kids := ""
	for i := 0; i < pages; i++ {
		kids += fmt.Sprintf("%d 0 R ", i+3)
	}
	obj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", kids, pages))
	for i := 0; i < pages; i++ {
		obj(fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %d %d] >>", widthPt, heightPt))
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(offsets)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)

	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

// writePNG writes a w x h image whose right half is fully transparent.
func writePNG(t *testing.T, path string, w, h int) *image.NRGBA {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w/2; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 20, G: 120, B: 220, A: 255})
		}
	}

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))

	return img
}

type fixture struct {
	in  string
	out string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	root := t.TempDir()
	f := fixture{in: filepath.Join(root, "in"), out: filepath.Join(root, "out")}
	require.NoError(t, os.Mkdir(f.in, 0o755))
	require.NoError(t, os.Mkdir(f.out, 0o755))
	return f
}

func (f fixture) outputs(t *testing.T) []string {
	t.Helper()
	entries, err := os.ReadDir(f.out)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func testDispatcher(t *testing.T, ex executor) *Dispatcher {
	t.Helper()
	d, err := newDispatcher(Options{RasterDPI: 200, JpegQuality: 95, AvifQuality: 80, SofficePath: "soffice"}, zap.NewNop(), ex)
	require.NoError(t, err)
	return d
}
