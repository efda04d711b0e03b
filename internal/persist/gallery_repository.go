// Package persist keeps the gallery as one JSON snapshot in a key-value store.
package persist

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/vbonduro/photogrid/internal/domain"
)

// GalleryKey is the fixed key the snapshot lives under.
const GalleryKey = "gallery"

// keyValueStore is the subset of store.KVStore that GalleryRepository requires.
type keyValueStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

type GalleryRepository struct {
	kv     keyValueStore
	logger *slog.Logger
}

func NewGalleryRepository(kv keyValueStore, logger *slog.Logger) *GalleryRepository {
	return &GalleryRepository{kv: kv, logger: logger}
}

// Load returns the stored gallery. A missing snapshot is an empty gallery; a
// read or decode failure is logged and also yields an empty gallery.
func (r *GalleryRepository) Load(ctx context.Context) domain.Gallery {
	raw, found, err := r.kv.Get(ctx, GalleryKey)
	if err != nil {
		r.logger.Error("failed to load images from storage",
			"error", fmt.Errorf("%w: %w", domain.ErrPersistenceRead, err))
		return domain.Gallery{}
	}
	if !found {
		return domain.Gallery{}
	}

	var locations []string
	if err := json.Unmarshal([]byte(raw), &locations); err != nil {
		r.logger.Error("failed to decode stored gallery",
			"error", fmt.Errorf("%w: %w", domain.ErrPersistenceRead, err), "bytes", len(raw))
		return domain.Gallery{}
	}

	g := make(domain.Gallery, 0, len(locations))
	for _, loc := range locations {
		// JSON nulls decode to "", which is not a location.
		if loc == "" {
			continue
		}
		g = append(g, domain.Location(loc))
	}
	r.logger.Debug("gallery loaded", "images", len(g))
	return g
}

// Save overwrites the snapshot with g. On failure the error is logged and
// returned; the previous snapshot is left untouched.
func (r *GalleryRepository) Save(ctx context.Context, g domain.Gallery) error {
	payload, err := json.Marshal(g.Strings())
	if err != nil {
		err = fmt.Errorf("%w: encode: %w", domain.ErrPersistenceWrite, err)
		r.logger.Error("failed to save images to storage", "error", err)
		return err
	}

	if err := r.kv.Set(ctx, GalleryKey, string(payload)); err != nil {
		err = fmt.Errorf("%w: %w", domain.ErrPersistenceWrite, err)
		r.logger.Error("failed to save images to storage", "images", len(g), "error", err)
		return err
	}

	r.logger.Debug("gallery saved", "images", len(g))
	return nil
}
