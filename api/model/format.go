package model

import (
	"fmt"
	"strings"
)

// SourceFormat is an accepted upload media type.
type SourceFormat struct {
	s string
}

var (
	JPEG = SourceFormat{"image/jpeg"}
	JPG  = SourceFormat{"image/jpg"}
	PNG  = SourceFormat{"image/png"}
	WEBP = SourceFormat{"image/webp"}
)

func (f SourceFormat) String() string {
	return f.s
}

// MakeFromContentType resolves a declared Content-Type header against the
// allow-list. Parameters such as charset are ignored.
func MakeFromContentType(contentType string) (SourceFormat, error) {
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	contentType = strings.ToLower(strings.TrimSpace(contentType))

	switch contentType {
	case JPEG.s:
		return JPEG, nil
	case JPG.s:
		return JPG, nil
	case PNG.s:
		return PNG, nil
	case WEBP.s:
		return WEBP, nil
	}

	return SourceFormat{}, fmt.Errorf("unsupported content type: %s", contentType)
}
