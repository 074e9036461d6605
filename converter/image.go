package converter

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	img "mediaconverter/converter/image"
	"mediaconverter/converter/image/format"
)

// imageRoute decodes the input, applies transforms and encodes to one format.
type imageRoute struct {
	formats    *format.Strategy
	format     format.Format
	suffix     string
	maxPixels  int64
	transforms func(Params) []img.Transform
}

func (r *imageRoute) Run(ctx context.Context, job Job) ([]string, error) {
	enc, err := r.formats.Apply(r.format)
	if err != nil {
		return nil, err
	}

	in, err := os.Open(job.Input)
	if err != nil {
		return nil, fmt.Errorf("opening input: %w", err)
	}
	defer in.Close()

	ci := img.NewCustomImage(enc, r.maxPixels)
	if err := ci.Decode(in); err != nil {
		return nil, err
	}

	if r.transforms != nil {
		ci.Transform(r.transforms(job.Params)...)
	}

	body, _, err := ci.Encode(ctx)
	if err != nil {
		return nil, err
	}

	out := filepath.Join(job.OutDir, outputName(job.Input, r.suffix, r.format.Extension()))
	if err := writeFile(out, body); err != nil {
		return nil, err
	}

	return []string{out}, nil
}

func flattenToRGB(Params) []img.Transform {
	return []img.Transform{img.Flatten()}
}

func toMonochrome(Params) []img.Transform {
	return []img.Transform{img.Flatten(), img.Monochrome()}
}

func resizeToRGB(p Params) []img.Transform {
	rp := p.(ResizeParams)
	return []img.Transform{img.Resize(rp.Width, rp.Height), img.Flatten()}
}

func writeFile(path string, body io.Reader) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Base(path), err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	if _, err = io.Copy(f, body); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return nil
}
