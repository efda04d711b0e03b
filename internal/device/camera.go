package device

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/vbonduro/photogrid/internal/domain"
	"github.com/vbonduro/photogrid/internal/photostore"
)

// OutputPlaceholder is replaced with the capture file path in camera commands.
const OutputPlaceholder = "{output}"

// CommandCamera captures photos by running an external command such as
// libcamera-still or fswebcam.
type CommandCamera struct {
	command []string
	device  string
	access  domain.Permission
	photos  photostore.PhotoStore
	logger  *slog.Logger
}

// NewCommandCamera builds a camera around command. device, when set, must be
// openable for the camera to be granted.
func NewCommandCamera(command []string, device string, access domain.Permission, photos photostore.PhotoStore, logger *slog.Logger) *CommandCamera {
	return &CommandCamera{
		command: command,
		device:  device,
		access:  access,
		photos:  photos,
		logger:  logger,
	}
}

func (c *CommandCamera) RequestPermission(ctx context.Context) (domain.Permission, error) {
	if c.access == domain.PermissionDenied {
		return domain.PermissionDenied, nil
	}
	if len(c.command) == 0 {
		return domain.PermissionDenied, nil
	}
	if c.device != "" {
		f, err := os.Open(c.device)
		if err != nil {
			c.logger.Warn("camera device unavailable", "device", c.device, "error", err)
			return domain.PermissionDenied, nil
		}
		_ = f.Close()
	}
	return domain.PermissionGranted, nil
}

// Capture runs the command and imports whatever it wrote to the output path.
// A successful run that leaves no file behind is a cancelled capture.
func (c *CommandCamera) Capture(ctx context.Context) (domain.Result, error) {
	dir, err := os.MkdirTemp("", "photogrid-capture-")
	if err != nil {
		return domain.Result{}, fmt.Errorf("failed to create capture directory: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			c.logger.Error("failed to remove capture directory", "dir", dir, "error", err)
		}
	}()

	output := filepath.Join(dir, "capture.jpg")
	args := make([]string, len(c.command))
	for i, arg := range c.command {
		args[i] = strings.ReplaceAll(arg, OutputPlaceholder, output)
	}

	c.logger.Debug("running camera command", "command", args[0])
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return domain.Result{}, fmt.Errorf("camera command failed: %w: %s", err, strings.TrimSpace(string(out)))
	}

	f, err := os.Open(output)
	if errors.Is(err, os.ErrNotExist) {
		return domain.Result{Cancelled: true}, nil
	}
	if err != nil {
		return domain.Result{}, fmt.Errorf("failed to open capture: %w", err)
	}
	defer closeWithLog(f, "capture file", c.logger)

	return importImage(ctx, c.photos, f)
}
