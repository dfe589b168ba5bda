package model

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"time"
)

const (
	DefaultQuality = 60

	DefaultTimeoutSec = 20.0
	MinTimeoutSec     = 1.0
	MaxTimeoutSec     = 60.0
)

// Scheme check only. DNS or SSRF protection is out of scope here.
var urlPattern = regexp.MustCompile(`(?i)^https?://`)

// ConvertParams are the query parameters shared by both conversion endpoints.
type ConvertParams struct {
	Quality  int  `query:"quality"`
	Lossless bool `query:"lossless"`
	Width    int  `query:"width"`
	Height   int  `query:"height"`
}

func DefaultConvertParams() ConvertParams {
	return ConvertParams{Quality: DefaultQuality}
}

func (p ConvertParams) Validate() error {
	if p.Quality < 1 || p.Quality > 100 {
		return fmt.Errorf("quality must be between 1 and 100, got %d", p.Quality)
	}
	if p.Width < 0 {
		return fmt.Errorf("width must be a positive integer, got %d", p.Width)
	}
	if p.Height < 0 {
		return fmt.Errorf("height must be a positive integer, got %d", p.Height)
	}

	return nil
}

// FetchParams are the query parameters of the URL-fetch endpoint.
type FetchParams struct {
	URL      string  `query:"url"`
	Quality  int     `query:"quality"`
	Lossless bool    `query:"lossless"`
	Width    int     `query:"width"`
	Height   int     `query:"height"`
	Timeout  float64 `query:"timeout"`
}

func DefaultFetchParams() FetchParams {
	return FetchParams{Quality: DefaultQuality, Timeout: DefaultTimeoutSec}
}

func (p FetchParams) Validate() error {
	if p.URL == "" {
		return errors.New("url is required")
	}
	if p.Timeout < MinTimeoutSec || p.Timeout > MaxTimeoutSec {
		return fmt.Errorf("timeout must be between %g and %g seconds, got %g", MinTimeoutSec, MaxTimeoutSec, p.Timeout)
	}

	return p.Convert().Validate()
}

// ValidURL reports whether the URL carries an http or https scheme.
func (p FetchParams) ValidURL() bool {
	return urlPattern.MatchString(p.URL)
}

func (p FetchParams) TimeoutDuration() time.Duration {
	return time.Duration(p.Timeout * float64(time.Second))
}

func (p FetchParams) Convert() ConvertParams {
	return ConvertParams{
		Quality:  p.Quality,
		Lossless: p.Lossless,
		Width:    p.Width,
		Height:   p.Height,
	}
}

// ConvertResponse is the converted payload handed back to the controller.
type ConvertResponse struct {
	Type               string
	ContentLength      int64
	ContentDisposition string

	Body io.Reader
}
