package image

import (
	"github.com/disintegration/imaging"
	"image"
	"image/color"
	"image/draw"
)

type Transform func(image.Image) image.Image

// HasAlpha reports whether any pixel is not fully opaque.
func HasAlpha(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return !o.Opaque()
	}

	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a != 0xffff {
				return true
			}
		}
	}
	return false
}

// Flatten composites translucent images onto opaque white. Opaque images are
// only converted to RGB.
func Flatten() Transform {
	return func(img image.Image) image.Image {
		b := img.Bounds()
		dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))

		if HasAlpha(img) {
			draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
			draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Over)
			return dst
		}

		draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
		return dst
	}
}

// Resize scales to exactly width x height, ignoring aspect ratio.
func Resize(width, height int) Transform {
	return func(img image.Image) image.Image {
		if img.Bounds().Dx() == width && img.Bounds().Dy() == height {
			return img
		}
		return imaging.Resize(img, width, height, imaging.Lanczos)
	}
}

// Monochrome reduces the image to pure black and white at mid luminance.
func Monochrome() Transform {
	return func(img image.Image) image.Image {
		gray := imaging.Grayscale(img)
		b := gray.Bounds()
		dst := image.NewGray(b)
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				if gray.NRGBAAt(x, y).R >= 128 {
					dst.SetGray(x, y, color.Gray{Y: 255})
				}
			}
		}
		return dst
	}
}
