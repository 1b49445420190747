package util

import (
	"encoding/base64"
	"errors"
	"strings"
)

// ErrInvalidDataURI is returned when an image payload is not a valid
// base64-encoded image data URI.
var ErrInvalidDataURI = errors.New("invalid image data URI")

// ParseImageDataURI decodes a "data:image/<ext>;base64,<payload>" string
// into the raw image bytes and the image extension.
func ParseImageDataURI(dataURI string) ([]byte, string, error) {
	const prefix = "data:image/"

	if !strings.HasPrefix(dataURI, prefix) {
		return nil, "", ErrInvalidDataURI
	}

	rest := strings.TrimPrefix(dataURI, prefix)
	meta, payload, found := strings.Cut(rest, ",")
	if !found {
		return nil, "", ErrInvalidDataURI
	}

	ext, encoding, found := strings.Cut(meta, ";")
	if !found || encoding != "base64" || ext == "" {
		return nil, "", ErrInvalidDataURI
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", ErrInvalidDataURI
	}
	if len(raw) == 0 {
		return nil, "", ErrInvalidDataURI
	}

	return raw, ext, nil
}
