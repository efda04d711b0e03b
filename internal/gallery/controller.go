// Package gallery owns the in-memory gallery and the two actions that grow it.
package gallery

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/vbonduro/photogrid/internal/domain"
)

// Camera is the host camera capability.
type Camera interface {
	RequestPermission(ctx context.Context) (domain.Permission, error)
	Capture(ctx context.Context) (domain.Result, error)
}

// MediaLibrary is the host media-library picker capability.
type MediaLibrary interface {
	RequestPermission(ctx context.Context) (domain.Permission, error)
	Pick(ctx context.Context) (domain.Result, error)
}

// repository is the subset of persist.GalleryRepository that Controller requires.
type repository interface {
	Load(ctx context.Context) domain.Gallery
	Save(ctx context.Context, g domain.Gallery) error
}

// Outcome reports what an action did. Exactly one of Added or Notice is set.
type Outcome struct {
	Added  domain.Location
	Notice *domain.Notice
	// Reason is domain.ErrPermissionDenied or domain.ErrNoResult when the
	// action stopped early.
	Reason error
}

var (
	cameraDenied  = domain.Notice{Title: "Permission denied", Message: "Camera access is required."}
	libraryDenied = domain.Notice{Title: "Permission denied", Message: "Media library access is required."}
	noCapture     = domain.Notice{Title: "No image", Message: "No image was captured."}
	noSelection   = domain.Notice{Title: "No image", Message: "No image was selected."}
)

type Controller struct {
	repo   repository
	saver  *saver
	logger *slog.Logger

	mu      sync.Mutex
	gallery domain.Gallery
	loaded  bool
}

func New(repo repository, logger *slog.Logger) *Controller {
	return &Controller{
		repo:    repo,
		saver:   newSaver(repo, logger),
		logger:  logger,
		gallery: domain.Gallery{},
	}
}

// Load initializes the gallery from storage. Only the first call has an
// effect, and it is skipped if an action already changed the gallery.
func (c *Controller) Load(ctx context.Context) {
	c.mu.Lock()
	done := c.loaded
	c.mu.Unlock()
	if done {
		return
	}

	g := c.repo.Load(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loaded {
		return
	}
	c.gallery = g
	c.loaded = true
	c.logger.Info("gallery loaded", "images", len(g))
}

// Images returns a copy of the gallery in display order.
func (c *Controller) Images() domain.Gallery {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gallery.Clone()
}

// Capture takes a photo with cam and appends it to the gallery.
func (c *Controller) Capture(ctx context.Context, cam Camera) Outcome {
	return c.run(ctx, "capture", cam.RequestPermission, cam.Capture, cameraDenied, noCapture)
}

// Pick takes an image from lib and appends it to the gallery.
func (c *Controller) Pick(ctx context.Context, lib MediaLibrary) Outcome {
	return c.run(ctx, "pick", lib.RequestPermission, lib.Pick, libraryDenied, noSelection)
}

func (c *Controller) run(
	ctx context.Context,
	action string,
	requestPermission func(context.Context) (domain.Permission, error),
	acquire func(context.Context) (domain.Result, error),
	denied, empty domain.Notice,
) Outcome {
	perm, err := requestPermission(ctx)
	if err != nil {
		c.logger.Error("permission request failed", "action", action, "error", err)
		perm = domain.PermissionDenied
	}
	if perm != domain.PermissionGranted {
		c.logger.Info("permission denied", "action", action)
		return stopped(denied, domain.ErrPermissionDenied)
	}

	res, err := acquire(ctx)
	if err != nil {
		c.logger.Error("image acquisition failed", "action", action, "error", err)
		return stopped(empty, fmt.Errorf("%w: %w", domain.ErrNoResult, err))
	}
	if res.Cancelled || res.Location == "" {
		c.logger.Info("no image", "action", action)
		return stopped(empty, domain.ErrNoResult)
	}

	c.append(ctx, res.Location)
	c.logger.Info("image added", "action", action, "location", res.Location)
	return Outcome{Added: res.Location}
}

// append adds loc and queues a save of the resulting snapshot. Both happen
// under mu so snapshots reach the saver in the order they were produced.
func (c *Controller) append(ctx context.Context, loc domain.Location) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gallery = append(c.gallery, loc)
	c.loaded = true
	c.saver.submit(ctx, c.gallery.Clone())
}

// Wait blocks until every queued save has been attempted or ctx is done.
func (c *Controller) Wait(ctx context.Context) error {
	return c.saver.wait(ctx)
}

func stopped(n domain.Notice, reason error) Outcome {
	return Outcome{Notice: &n, Reason: reason}
}
