package images

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	imagesdomain "social-app-go/internal/domain/images"
	"social-app-go/internal/storage"
	commonhandler "social-app-go/internal/transport/httpserver/handler/common"
	"social-app-go/internal/transport/httpserver/middleware"
	"social-app-go/pkg/logger"
)

type imageResponse struct {
	ID          string    `json:"id"`
	UploaderID  *string   `json:"uploader_id"`
	URL         string    `json:"url"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	Width       int       `json:"width"`
	Height      int       `json:"height"`
	CreatedAt   time.Time `json:"created_at"`
}

type imageListResponse struct {
	Items []imageResponse `json:"items"`
	Total int             `json:"total"`
}

func (h *Handlers) ListImages(w http.ResponseWriter, r *http.Request) {
	items, err := h.Images.List(r.Context())
	if err != nil {
		logger.FromContext(r.Context(), h.log).InternalError("images.list: list images failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	response := make([]imageResponse, 0, len(items))
	for _, item := range items {
		response = append(response, toImageResponse(item))
	}

	writeJSON(w, http.StatusOK, imageListResponse{Items: response, Total: len(response)})
}

func (h *Handlers) UploadImage(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	log := logger.FromContext(r.Context(), h.log)

	file, err := commonhandler.OpenUpload(w, r, "photo", h.maxUploadBytes)
	if err != nil {
		h.writeUploadError(w, log, user.ID, err)
		return
	}
	defer commonhandler.CloseUpload(r, file)

	image, err := h.Images.Upload(r.Context(), user.ID, file)
	if err != nil {
		h.writeUploadError(w, log, user.ID, err)
		return
	}

	writeJSON(w, http.StatusCreated, toImageResponse(*image))
}

// ServeMedia streams a stored object under /media/.
func (h *Handlers) ServeMedia(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	log := logger.FromContext(r.Context(), h.log)

	body, info, err := h.Images.Open(r.Context(), key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) || errors.Is(err, storage.ErrInvalidKey) {
			log.BusinessError("media.get: object not found", err, "key", key)
			writeError(w, http.StatusNotFound, "not_found", "not found")
			return
		}
		log.InternalError("media.get: open object failed", err, "key", key)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	defer body.Close()

	if info.ContentType != "" {
		w.Header().Set("Content-Type", info.ContentType)
	}
	if info.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(info.Size, 10))
	}
	if !info.LastModified.IsZero() {
		w.Header().Set("Last-Modified", info.LastModified.UTC().Format(http.TimeFormat))
	}
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, body); err != nil {
		log.Warn("media.get: stream interrupted", "key", key, "err", err)
	}
}

func (h *Handlers) writeUploadError(w http.ResponseWriter, log logger.Logger, userID string, err error) {
	status, code, message, ok := commonhandler.UploadError(err)
	if ok {
		log.BusinessError("images.upload: rejected upload", err, "user_id", userID)
	} else {
		log.InternalError("images.upload: upload failed", err, "user_id", userID)
	}
	writeError(w, status, code, message)
}

func toImageResponse(image imagesdomain.Image) imageResponse {
	return imageResponse{
		ID:          image.ID,
		UploaderID:  image.UploaderID,
		URL:         commonhandler.MediaURL(image.ObjectKey),
		ContentType: image.ContentType,
		SizeBytes:   image.SizeBytes,
		Width:       image.Width,
		Height:      image.Height,
		CreatedAt:   image.CreatedAt,
	}
}
