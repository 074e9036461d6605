package format

import "fmt"

type Format struct {
	s           string
	ext         string
	contentType string
}

var (
	JPEG = Format{"jpeg", ".jpg", "image/jpeg"}
	PNG  = Format{"png", ".png", "image/png"}
	BMP  = Format{"bmp", ".bmp", "image/bmp"}
	WBMP = Format{"wbmp", ".wbmp", "image/vnd.wap.wbmp"}
	ICO  = Format{"ico", ".ico", "image/x-icon"}
	SVG  = Format{"svg", ".svg", "image/svg+xml"}
	WEBP = Format{"webp", ".webp", "image/webp"}
	AVIF = Format{"avif", ".avif", "image/avif"}
)

var all = []Format{JPEG, PNG, BMP, WBMP, ICO, SVG, WEBP, AVIF}

func (f Format) String() string {
	return f.s
}

// Extension is the canonical file extension including the leading dot.
func (f Format) Extension() string {
	return f.ext
}

func (f Format) ContentType() string {
	return f.contentType
}

func MakeFromString(s string) (Format, error) {
	for _, f := range all {
		if f.s == s {
			return f, nil
		}
	}

	return Format{}, fmt.Errorf("unknown format: %s", s)
}

func All() []Format {
	out := make([]Format, len(all))
	copy(out, all)
	return out
}
