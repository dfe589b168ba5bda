// Package converter turns JPEG, PNG and WEBP payloads into AVIF.
//
// The pipeline is decode, color-mode normalization, optional Lanczos resize,
// encode. Only two pixel layouts reach the encoder: opaque YCbCr (from JPEG)
// and RGBA-style buffers; every other source mode is flattened to NRGBA first.
package converter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"go.uber.org/zap"
	_ "golang.org/x/image/webp"

	"avifconv/shared/log"
)

// Error kinds surfaced by the pipeline. Both map to HTTP 500 at the
// controller, but callers can tell them apart with errors.Is.
var (
	ErrDecode = errors.New("decode image")
	ErrEncode = errors.New("encode avif")
)

const (
	DefaultQuality = 60
	MinQuality     = 1
	MaxQuality     = 100
)

// Options controls a single conversion. Width and Height are zero when no
// resize on that axis was requested.
type Options struct {
	Quality  int
	Lossless bool
	Width    int
	Height   int
}

// NewOptions validates ranges up front so bad values never reach the encoder.
func NewOptions(quality int, lossless bool, width, height int) (Options, error) {
	if quality < MinQuality || quality > MaxQuality {
		return Options{}, fmt.Errorf("quality must be between %d and %d, got %d", MinQuality, MaxQuality, quality)
	}
	if width < 0 {
		return Options{}, fmt.Errorf("width must be a positive integer, got %d", width)
	}
	if height < 0 {
		return Options{}, fmt.Errorf("height must be a positive integer, got %d", height)
	}

	return Options{Quality: quality, Lossless: lossless, Width: width, Height: height}, nil
}

type Converter struct {
	logger *zap.Logger
}

func New(logger *zap.Logger) *Converter {
	return &Converter{logger: logger}
}

// ToAvif converts a raw image payload to AVIF bytes.
func (c *Converter) ToAvif(ctx context.Context, data []byte, opts Options) ([]byte, error) {
	logger := log.LoggerWithTrace(ctx, c.logger)

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		logger.Error("Error decoding image", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	logger.Debug("Decoded source image",
		zap.String("format", format),
		zap.Int("width", img.Bounds().Dx()),
		zap.Int("height", img.Bounds().Dy()),
	)

	for _, f := range []Transform{WithNormalizedMode(), WithSize(opts.Width, opts.Height)} {
		img = f(img)
	}

	avif, err := encodeAvif(img, opts)
	if err != nil {
		logger.Error("Error encoding image to avif", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrEncode, err)
	}

	return avif, nil
}
