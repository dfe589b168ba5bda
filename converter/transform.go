package converter

import (
	"image"

	"github.com/disintegration/imaging"
)

type Transform func(image.Image) image.Image

// WithNormalizedMode passes through the layouts the encoder consumes directly
// and flattens everything else (paletted, gray, gray+alpha, CMYK, ...) to
// NRGBA. Transparency survives the conversion.
func WithNormalizedMode() Transform {
	return func(img image.Image) image.Image {
		switch img.(type) {
		case *image.NRGBA, *image.RGBA, *image.YCbCr:
			return img
		default:
			return imaging.Clone(img)
		}
	}
}

// WithSize resizes to exactly (width, height) when both are set. With one
// dimension the other is derived from the original ratio, truncating the
// fractional part. Zero for both is a no-op.
func WithSize(width, height int) Transform {
	return func(img image.Image) image.Image {
		if width == 0 && height == 0 {
			return img
		}

		imgDx := img.Bounds().Dx()
		imgDy := img.Bounds().Dy()

		targetW, targetH := width, height
		if targetW == 0 {
			targetW = imgDx * height / imgDy
		}
		if targetH == 0 {
			targetH = imgDy * width / imgDx
		}

		if targetW == imgDx && targetH == imgDy {
			return img
		}

		return imaging.Resize(img, targetW, targetH, imaging.Lanczos)
	}
}
