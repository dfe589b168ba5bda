package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"avifconv/api/model"
	"avifconv/config"
	"avifconv/converter"
	"avifconv/shared/log"
)

// FetchError marks failures talking to the remote host, including non-2xx
// responses and oversized bodies. Controllers map it to HTTP 502.
type FetchError struct {
	cause error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("Fetch failed: %v", e.cause)
}

func (e *FetchError) Unwrap() error {
	return e.cause
}

type ImageService struct {
	config    *config.Config
	converter *converter.Converter
	transport http.RoundTripper
	logger    *zap.Logger
}

func NewImageService(c *config.Config, conv *converter.Converter, logger *zap.Logger) *ImageService {
	return &ImageService{
		config:    c,
		converter: conv,
		transport: http.DefaultTransport,
		logger:    logger,
	}
}

// Convert runs the conversion pipeline and wraps the result for the HTTP
// layer. baseName is the suggested download name without extension.
func (s *ImageService) Convert(ctx context.Context, data []byte, params model.ConvertParams, baseName string) (*model.ConvertResponse, error) {
	opts, err := converter.NewOptions(params.Quality, params.Lossless, params.Width, params.Height)
	if err != nil {
		return nil, err
	}

	avif, err := s.converter.ToAvif(ctx, data, opts)
	if err != nil {
		return nil, err
	}

	if baseName == "" {
		baseName = "image"
	}

	return &model.ConvertResponse{
		Type:               "image/avif",
		ContentLength:      int64(len(avif)),
		ContentDisposition: fmt.Sprintf("attachment; filename=%q", baseName+".avif"),
		Body:               bytes.NewReader(avif),
	}, nil
}

// ConvertFromURL fetches the remote image and converts it. Fetched files have
// no reliable original name, so the download name is always image.avif.
func (s *ImageService) ConvertFromURL(ctx context.Context, params model.FetchParams) (*model.ConvertResponse, error) {
	logger := log.LoggerWithTrace(ctx, s.logger)

	data, err := s.fetch(ctx, params.URL, params.TimeoutDuration())
	if err != nil {
		logger.Error("Error fetching remote image", zap.String("url", params.URL), zap.Error(err))
		return nil, err
	}

	return s.Convert(ctx, data, params.Convert(), "image")
}

func (s *ImageService) fetch(ctx context.Context, rawURL string, timeout time.Duration) ([]byte, error) {
	// Redirects are followed by default; the timeout bounds the whole fetch.
	client := &http.Client{Transport: s.transport, Timeout: timeout}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &FetchError{cause: err}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, &FetchError{cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &FetchError{cause: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	// The remote content type is inspected for the log line only. Servers
	// mislabel images often enough that conversion is attempted regardless.
	if contentType := resp.Header.Get("Content-Type"); contentType != "" {
		if _, err := model.MakeFromContentType(contentType); err != nil {
			log.LoggerWithTrace(ctx, s.logger).Debug(
				"Remote content type is not an accepted image type, converting anyway",
				zap.String("content_type", contentType),
			)
		}
	}

	limit := s.config.BodyLimit()
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, &FetchError{cause: err}
	}
	if int64(len(data)) > limit {
		return nil, &FetchError{cause: fmt.Errorf("response body exceeds %d bytes", limit)}
	}

	return data, nil
}
