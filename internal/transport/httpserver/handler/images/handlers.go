package images

import (
	"net/http"

	imagesdomain "social-app-go/internal/domain/images"
	commonhandler "social-app-go/internal/transport/httpserver/handler/common"
	"social-app-go/pkg/logger"
)

type Handlers struct {
	Images         *imagesdomain.Service
	maxUploadBytes int64
	log            logger.Logger
}

func New(images *imagesdomain.Service, maxUploadBytes int64, log logger.Logger) *Handlers {
	return &Handlers{
		Images:         images,
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
