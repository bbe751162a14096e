package profiles

import (
	"net/http"

	profilesdomain "social-app-go/internal/domain/profiles"
	commonhandler "social-app-go/internal/transport/httpserver/handler/common"
	"social-app-go/pkg/logger"
)

type Handlers struct {
	Profiles       *profilesdomain.Service
	maxUploadBytes int64
	log            logger.Logger
}

func New(profiles *profilesdomain.Service, maxUploadBytes int64, log logger.Logger) *Handlers {
	return &Handlers{
		Profiles:       profiles,
		maxUploadBytes: maxUploadBytes,
		log:            log,
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	commonhandler.WriteError(w, status, code, message)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	commonhandler.WriteJSON(w, status, payload)
}

func decodeJSON(r *http.Request, dst interface{}) error {
	return commonhandler.DecodeJSON(r, dst)
}
