package converter

import (
	"fmt"
	"path/filepath"
	"strings"
)

const resizedSuffix = "_resized"

func stem(path string) string {
	base := filepath.Base(path)
	s := strings.TrimSuffix(base, filepath.Ext(base))
	if s == "" || s == "." {
		return "converted"
	}
	return s
}

// outputName replaces the input extension with ext, inserting suffix before it.
func outputName(input, suffix, ext string) string {
	return stem(input) + suffix + ext
}

// pageName numbers pages from 1, zero padded so that names sort in page order.
func pageName(input string, page, total int, ext string) string {
	width := len(fmt.Sprint(total))
	if width < 3 {
		width = 3
	}
	return fmt.Sprintf("%s_page_%0*d%s", stem(input), width, page, ext)
}
