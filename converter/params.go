package converter

import (
	"fmt"
	"strconv"
	"strings"
)

// RawParams are the untyped form values sent with a conversion request.
type RawParams map[string]string

// Params is the typed parameter set of one operation kind.
type Params interface {
	params()
}

type NoParams struct{}

func (NoParams) params() {}

type ResizeParams struct {
	Width  int
	Height int
}

func (ResizeParams) params() {}

func parseNoParams(RawParams) (Params, error) {
	return NoParams{}, nil
}

// resizeParser rejects targets larger than maxPixels. Zero disables the check.
func resizeParser(maxPixels int64) func(RawParams) (Params, error) {
	return func(raw RawParams) (Params, error) {
		p, err := parseResizeParams(raw)
		if err != nil {
			return nil, err
		}

		rp := p.(ResizeParams)
		if maxPixels > 0 && int64(rp.Width) > maxPixels/int64(rp.Height) {
			return nil, InvalidParameters(fmt.Sprintf("Width times height must not exceed %d pixels.", maxPixels))
		}
		return rp, nil
	}
}

func parseResizeParams(raw RawParams) (Params, error) {
	width, werr := strconv.Atoi(strings.TrimSpace(raw["width"]))
	height, herr := strconv.Atoi(strings.TrimSpace(raw["height"]))
	if werr != nil || herr != nil {
		return nil, InvalidParameters("Invalid width or height.")
	}

	if width <= 0 || height <= 0 {
		return nil, InvalidParameters("Width and height must be positive integers.")
	}

	return ResizeParams{Width: width, Height: height}, nil
}
