package profiles

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	profilesdomain "social-app-go/internal/domain/profiles"
	commonhandler "social-app-go/internal/transport/httpserver/handler/common"
	"social-app-go/internal/transport/httpserver/middleware"
	"social-app-go/pkg/logger"
)

type updateProfileRequest struct {
	Bio       string `json:"bio"`
	Location  string `json:"location"`
	BirthDate string `json:"birth_date"`
}

type profileResponse struct {
	UserID     string    `json:"user_id"`
	Username   string    `json:"username,omitempty"`
	Bio        string    `json:"bio"`
	Location   string    `json:"location"`
	BirthDate  *string   `json:"birth_date"`
	PictureURL *string   `json:"picture_url"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (h *Handlers) GetProfile(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	log := logger.FromContext(r.Context(), h.log)

	view, err := h.Profiles.GetByUsername(r.Context(), username)
	if err != nil {
		if errors.Is(err, profilesdomain.ErrProfileNotFound) {
			log.BusinessError("profiles.get: user not found", err, "username", username)
			writeError(w, http.StatusNotFound, "profile_not_found", "profile not found")
			return
		}
		log.InternalError("profiles.get: get profile failed", err, "username", username)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	response := toProfileResponse(view.Profile)
	response.Username = view.Username
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	log := logger.FromContext(r.Context(), h.log)

	var req updateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	profile, err := h.Profiles.Update(r.Context(), user.ID, profilesdomain.UpdateInput{
		Bio:       req.Bio,
		Location:  req.Location,
		BirthDate: req.BirthDate,
	})
	if err != nil {
		if profilesdomain.IsValidation(err) {
			log.BusinessError("profiles.update: invalid input", err, "user_id", user.ID)
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}
		log.InternalError("profiles.update: update profile failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	response := toProfileResponse(*profile)
	response.Username = user.Username
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) UploadPicture(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	log := logger.FromContext(r.Context(), h.log)

	file, err := commonhandler.OpenUpload(w, r, "picture", h.maxUploadBytes)
	if err != nil {
		h.writeUploadError(w, log, user.ID, err)
		return
	}
	defer commonhandler.CloseUpload(r, file)

	profile, err := h.Profiles.SetPicture(r.Context(), user.ID, file)
	if err != nil {
		h.writeUploadError(w, log, user.ID, err)
		return
	}

	response := toProfileResponse(*profile)
	response.Username = user.Username
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) writeUploadError(w http.ResponseWriter, log logger.Logger, userID string, err error) {
	status, code, message, ok := commonhandler.UploadError(err)
	if ok {
		log.BusinessError("profiles.upload_picture: rejected upload", err, "user_id", userID)
	} else {
		log.InternalError("profiles.upload_picture: set picture failed", err, "user_id", userID)
	}
	writeError(w, status, code, message)
}

func toProfileResponse(profile profilesdomain.Profile) profileResponse {
	response := profileResponse{
		UserID:    profile.UserID,
		Bio:       profile.Bio,
		Location:  profile.Location,
		UpdatedAt: profile.UpdatedAt,
	}
	if date := profile.BirthDateString(); date != "" {
		response.BirthDate = &date
	}
	if url := commonhandler.MediaURL(profile.PictureKey); url != "" {
		response.PictureURL = &url
	}
	return response
}
