// Package device implements the camera and media-library capabilities on top
// of the local machine: an external capture command for the camera, and a
// file path or browser upload for the library. Every produced image is
// imported into the photo store and its storage key becomes the location.
package device

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/vbonduro/photogrid/internal/domain"
	"github.com/vbonduro/photogrid/internal/photostore"
)

// MaxPhotoSize caps how many bytes are imported per image.
const MaxPhotoSize = 50 * 1024 * 1024 // 50 MB

// importImage reads r, checks that it is an accepted image and saves it.
// Empty input counts as no image.
func importImage(ctx context.Context, photos photostore.PhotoStore, r io.Reader) (domain.Result, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxPhotoSize+1))
	if err != nil {
		return domain.Result{}, fmt.Errorf("failed to read image: %w", err)
	}
	if len(data) == 0 {
		return domain.Result{Cancelled: true}, nil
	}
	if len(data) > MaxPhotoSize {
		return domain.Result{}, fmt.Errorf("image exceeds %d bytes", MaxPhotoSize)
	}

	mimeType, ok := photostore.DetectImageMIME(data)
	if !ok {
		return domain.Result{}, fmt.Errorf("unsupported image format")
	}

	key, err := photos.Save(ctx, mimeType, bytes.NewReader(data))
	if err != nil {
		return domain.Result{}, fmt.Errorf("failed to save photo: %w", err)
	}
	return domain.Result{Location: domain.Location(key)}, nil
}
