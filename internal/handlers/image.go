package handlers

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"path"

	"travel-journal-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// ImageHandler handles image upload, removal and serving
type ImageHandler struct {
	imageService   *services.ImageService
	maxUploadBytes int64
}

// NewImageHandler creates a new image handler
func NewImageHandler(imageService *services.ImageService, maxUploadBytes int64) *ImageHandler {
	return &ImageHandler{
		imageService:   imageService,
		maxUploadBytes: maxUploadBytes,
	}
}

// UploadImage handles POST /image-upload with a multipart "image" field
func (h *ImageHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, "Image is too large", http.StatusRequestEntityTooLarge)
			return
		}
		respondError(w, "No image uploaded", http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("image")
	if err != nil {
		respondError(w, "No image uploaded", http.StatusBadRequest)
		return
	}
	defer file.Close()

	imageURL, err := h.imageService.StoreImage(ctx, file, header.Size, header.Filename, header.Header.Get("Content-Type"))
	if err != nil {
		respondServiceError(w, err, "Image not found")
		return
	}

	log.Info().
		Str("filename", header.Filename).
		Str("image_url", imageURL).
		Msg("Image uploaded")

	respondJSON(w, map[string]string{"imageUrl": imageURL}, http.StatusCreated)
}

// DeleteImage handles DELETE /delete-image?imageUrl=
func (h *ImageHandler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	imageURL := r.URL.Query().Get("imageUrl")
	if imageURL == "" {
		respondError(w, "imageUrl parameter is required", http.StatusBadRequest)
		return
	}

	found, err := h.imageService.DeleteImage(r.Context(), imageURL)
	if err != nil {
		respondServiceError(w, err, "Image not found")
		return
	}

	// A missing image is reported in the body, not the status
	if !found {
		respondError(w, "Image not found", http.StatusOK)
		return
	}

	respondJSON(w, map[string]string{"message": "Image deleted successfully"}, http.StatusOK)
}

// ServeImage handles GET /uploads/{key}
func (h *ImageHandler) ServeImage(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	rc, err := h.imageService.OpenImage(r.Context(), key)
	if err != nil {
		respondServiceError(w, err, "Image not found")
		return
	}
	defer rc.Close()

	contentType := mime.TypeByExtension(path.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, rc); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to stream image")
	}
}
