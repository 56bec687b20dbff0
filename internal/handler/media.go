package handler

import (
	"errors"
	"log"
	"net/http"

	"minigram/internal/httputil"
	"minigram/internal/model"
	"minigram/internal/service"
)

// MediaHandler serves image uploads backing post imageUrl and
// profileImage fields.
type MediaHandler struct {
	media *service.MediaService
}

func NewMediaHandler(media *service.MediaService) *MediaHandler {
	return &MediaHandler{media: media}
}

// Upload handles POST /api/media/upload (multipart field "image").
func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, model.MaxImageSizeBytes+1<<20)

	file, header, err := r.FormFile("image")
	if err != nil {
		httputil.WriteBadRequest(w, "Image file is required")
		return
	}
	defer file.Close()

	result, err := h.media.UploadImage(r.Context(), file, header)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrFileTooLarge):
			httputil.WriteBadRequest(w, "Image exceeds 10MB limit")
		case errors.Is(err, model.ErrInvalidImageType):
			httputil.WriteBadRequest(w, "Unsupported image type. Allowed: jpeg, png, gif, webp")
		default:
			log.Printf("[MediaHandler] Upload failed: %v", err)
			httputil.WriteInternalError(w, "Error uploading image")
		}
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, "Image uploaded successfully", httputil.M{
		"url": result.URL,
		"key": result.Key,
	})
}
