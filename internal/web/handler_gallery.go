package web

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/vbonduro/photogrid/internal/device"
	"github.com/vbonduro/photogrid/internal/domain"
	"github.com/vbonduro/photogrid/internal/gallery"
	"github.com/vbonduro/photogrid/internal/photostore"
)

const galleryTitle = "My Gallery"

// MaxUploadSize caps a /pick request body: one image plus room for the
// multipart envelope.
const MaxUploadSize = device.MaxPhotoSize + 1<<20

type galleryPage struct {
	Title   string
	Columns int
	Images  domain.Gallery
	Notice  *domain.Notice
}

func (s *Server) handleGallery(w http.ResponseWriter, r *http.Request) {
	s.renderGallery(w, nil)
}

func (s *Server) handleCapture(w http.ResponseWriter, r *http.Request) {
	s.finishAction(w, r, s.gallery.Capture(r.Context(), s.camera))
}

func (s *Server) handlePick(w http.ResponseWriter, r *http.Request) {
	file, err := uploadedImage(w, r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "upload too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "failed to parse form", http.StatusBadRequest)
		return
	}

	var sel *device.Selection
	if file == nil {
		sel = s.library.SelectUpload(nil)
	} else {
		defer closeWithLog(file, "upload file", s.logger)
		sel = s.library.SelectUpload(file)
	}

	s.finishAction(w, r, s.gallery.Pick(r.Context(), sel))
}

// uploadedImage returns the "image" part of a multipart upload, or nil when
// the request carries no file.
func uploadedImage(w http.ResponseWriter, r *http.Request) (multipart.File, error) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)
	if err := r.ParseMultipartForm(device.MaxPhotoSize); err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, err
	}
	file, _, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	return file, err
}

// finishAction sends the browser back to the grid after a successful action,
// or renders the grid with the notice when the action stopped early.
func (s *Server) finishAction(w http.ResponseWriter, r *http.Request, out gallery.Outcome) {
	if out.Notice == nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.renderGallery(w, out.Notice)
}

func (s *Server) renderGallery(w http.ResponseWriter, notice *domain.Notice) {
	page := galleryPage{
		Title:   galleryTitle,
		Columns: GridColumns,
		Images:  s.gallery.Images(),
		Notice:  notice,
	}
	if err := s.renderPage(w, page, "base.html", "gallery.html"); err != nil {
		s.logger.Error("render page failed", "error", err)
	}
}

func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	reader, mimeType, err := s.photoStore.Get(r.Context(), key)
	if err != nil {
		if !errors.Is(err, photostore.ErrNotFound) {
			s.logger.Warn("get image failed", "key", key, "error", err)
		}
		http.NotFound(w, r)
		return
	}
	defer closeWithLog(reader, "photo reader", s.logger)

	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Cache-Control", "private, max-age=31536000, immutable")
	if _, err := io.Copy(w, reader); err != nil {
		s.logger.Error("write image failed", "key", key, "error", err)
	}
}

type galleryResponse struct {
	Columns int      `json:"columns"`
	Images  []string `json:"images"`
}

func (s *Server) handleAPIGallery(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	resp := galleryResponse{Columns: GridColumns, Images: s.gallery.Images().Strings()}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Error("encode gallery failed", "error", err)
	}
}

// closeWithLog closes c and logs any error, using label to identify the resource.
func closeWithLog(c io.Closer, label string, logger *slog.Logger) {
	if err := c.Close(); err != nil {
		logger.Error("failed to close resource", "label", label, "error", err)
	}
}
