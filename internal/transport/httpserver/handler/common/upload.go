package common

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"social-app-go/internal/storage"
)

// multipartOverhead leaves room for the other form fields next to the file.
const multipartOverhead = 1 << 20

var ErrUploadMissing = errors.New("upload is missing")

// OpenUpload limits the request body and returns the named multipart file.
func OpenUpload(w http.ResponseWriter, r *http.Request, field string, maxBytes int64) (multipart.File, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+multipartOverhead)
	if err := r.ParseMultipartForm(maxBytes + multipartOverhead); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, storage.ErrImageTooLarge
		}
		return nil, fmt.Errorf("parse multipart form: %w", err)
	}

	file, _, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, ErrUploadMissing
		}
		return nil, fmt.Errorf("read %s: %w", field, err)
	}
	return file, nil
}

// UploadError maps upload and image pipeline failures to a status, code and message.
// ok is false for unexpected failures.
func UploadError(err error) (status int, code, message string, ok bool) {
	switch {
	case errors.Is(err, storage.ErrImageTooLarge):
		return http.StatusRequestEntityTooLarge, "image_too_large", "image is too large", true
	case errors.Is(err, storage.ErrUnsupportedType):
		return http.StatusBadRequest, "unsupported_image", "image must be jpeg, png or webp", true
	case errors.Is(err, storage.ErrInvalidImage):
		return http.StatusBadRequest, "invalid_image", "image could not be decoded", true
	case errors.Is(err, ErrUploadMissing):
		return http.StatusBadRequest, "invalid_request", "image file is required", true
	default:
		return http.StatusInternalServerError, "internal_error", "internal error", false
	}
}

// CloseUpload closes a multipart file and drops any temp files of the form.
func CloseUpload(r *http.Request, file io.Closer) {
	_ = file.Close()
	if r.MultipartForm != nil {
		_ = r.MultipartForm.RemoveAll()
	}
}

// MediaURL is the public path of a stored object.
func MediaURL(key string) string {
	if key == "" {
		return ""
	}
	return "/media/" + key
}
