package handler

import (
	"errors"
	"log"
	"net/http"

	"buzzline/internal/httputil"
	"buzzline/internal/model"
	"buzzline/internal/service"
)

type MediaHandler struct {
	mediaService *service.MediaService
}

func NewMediaHandler(mediaService *service.MediaService) *MediaHandler {
	return &MediaHandler{mediaService: mediaService}
}

// Upload handles POST /media/upload
// Accepts a multipart form with a "file" field. The optional "kind" field
// selects avatar processing (resized to 200x200 JPEG) over plain post
// media upload. Returns the public URL and object key; the caller stores
// those references on the user or post record.
func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, model.MaxUploadSizeBytes+1<<20)

	if err := r.ParseMultipartForm(model.MaxUploadSizeBytes); err != nil {
		httputil.WriteBadRequestWithCode(w, model.CodeFileTooLarge, "Upload exceeds size limit")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.WriteBadRequest(w, "file field is required")
		return
	}
	defer file.Close()

	var result *model.UploadResult
	if r.FormValue("kind") == "avatar" {
		result, err = h.mediaService.UploadAvatar(r.Context(), file, header)
	} else {
		result, err = h.mediaService.UploadPostImage(r.Context(), file, header)
	}
	if err != nil {
		switch {
		case errors.Is(err, model.ErrFileTooLarge):
			httputil.WriteBadRequestWithCode(w, model.CodeFileTooLarge, "File exceeds size limit")
		case errors.Is(err, model.ErrInvalidImageType):
			httputil.WriteBadRequestWithCode(w, model.CodeInvalidImageType, "Unsupported image type. Allowed: jpeg, png, gif, webp")
		default:
			log.Printf("[ERROR] Upload media handler: err=%v", err)
			httputil.WriteInternalError(w, "Failed to upload media")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, result)
}
