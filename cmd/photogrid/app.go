package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"

	"github.com/vbonduro/photogrid/internal/config"
	"github.com/vbonduro/photogrid/internal/db"
	"github.com/vbonduro/photogrid/internal/device"
	"github.com/vbonduro/photogrid/internal/domain"
	"github.com/vbonduro/photogrid/internal/gallery"
	"github.com/vbonduro/photogrid/internal/persist"
	"github.com/vbonduro/photogrid/internal/photostore/local"
	"github.com/vbonduro/photogrid/internal/store"
)

// app bundles everything a command needs once the database is open.
type app struct {
	db      *sql.DB
	gallery *gallery.Controller
	photos  *local.LocalPhotoStore
	camera  *device.CommandCamera
	library *device.Library
	logger  *slog.Logger
}

func openApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	photos, err := local.NewLocalPhotoStore(cfg.PhotoPath)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to initialize photo store: %w", err)
	}

	repo := persist.NewGalleryRepository(store.NewKVStore(database), logger.With("component", "persist"))
	ctrl := gallery.New(repo, logger.With("component", "gallery"))
	ctrl.Load(ctx)

	return &app{
		db:      database,
		gallery: ctrl,
		photos:  photos,
		camera: device.NewCommandCamera(cfg.CameraArgs(), cfg.CameraDevice,
			domain.ParsePermission(cfg.CameraAccess), photos, logger.With("component", "camera")),
		library: device.NewLibrary(domain.ParsePermission(cfg.LibraryAccess), cfg.LibraryRoot,
			photos, logger.With("component", "library")),
		logger: logger,
	}, nil
}

// Close waits for the last gallery save and closes the database.
func (a *app) Close(ctx context.Context) {
	if err := a.gallery.Wait(ctx); err != nil {
		a.logger.Error("pending gallery save did not finish", "error", err)
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close database", "error", err)
	}
}

// report prints the outcome of an action for a terminal user.
func report(w io.Writer, out gallery.Outcome) error {
	if out.Notice != nil {
		_, err := fmt.Fprintf(w, "%s: %s\n", out.Notice.Title, out.Notice.Message)
		return err
	}
	_, err := fmt.Fprintf(w, "added %s\n", out.Added)
	return err
}
