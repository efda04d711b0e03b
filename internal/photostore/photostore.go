package photostore

import (
	"context"
	"errors"
	"io"
	"net/http"
)

// ErrNotFound is returned by Get when no photo exists under the key.
var ErrNotFound = errors.New("photo not found")

type PhotoStore interface {
	Save(ctx context.Context, mimeType string, r io.Reader) (storageKey string, err error)
	Get(ctx context.Context, storageKey string) (io.ReadCloser, string, error)
}

// allowedImageTypes is the set of MIME types accepted into the store.
// net/http.DetectContentType handles JPEG, PNG, and GIF via magic-byte
// sniffing. WebP is detected separately because the WHATWG sniff spec (and
// therefore the stdlib) does not include a WebP signature.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// isWebP reports whether data is a WebP image (RIFF container with "WEBP" at
// offset 8).
func isWebP(data []byte) bool {
	return len(data) >= 12 &&
		string(data[0:4]) == "RIFF" &&
		string(data[8:12]) == "WEBP"
}

// DetectImageMIME returns the detected MIME type and true if the data is an
// accepted image format, or ("", false) otherwise.
func DetectImageMIME(data []byte) (string, bool) {
	if isWebP(data) {
		return "image/webp", true
	}
	mime := http.DetectContentType(data)
	if allowedImageTypes[mime] {
		return mime, true
	}
	return "", false
}
