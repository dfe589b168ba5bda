package converter

import (
	"bytes"
	"image"
	"image/png"

	"github.com/h2non/bimg"
)

// encodeAvif hands the normalized image to libvips through a PNG
// intermediate, so the resize arithmetic stays in Go while the encode keeps
// the alpha channel. The PNG step also fixes the channel count: opaque
// sources stay three-channel, everything else carries alpha.
func encodeAvif(img image.Image, opts Options) ([]byte, error) {
	var intermediate bytes.Buffer
	if err := png.Encode(&intermediate, img); err != nil {
		return nil, err
	}

	options := bimg.Options{Type: bimg.AVIF, Quality: opts.Quality}
	if opts.Lossless {
		// Lossless ignores the quality parameter entirely.
		options = bimg.Options{Type: bimg.AVIF, Lossless: true}
	}

	return bimg.NewImage(intermediate.Bytes()).Process(options)
}
