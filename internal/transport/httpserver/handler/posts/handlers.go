package posts

import (
	"net/http"

	postsdomain "social-app-go/internal/domain/posts"
	commonhandler "social-app-go/internal/transport/httpserver/handler/common"
	"social-app-go/pkg/logger"
)

type Handlers struct {
	Posts *postsdomain.Service
	log   logger.Logger
}

func New(posts *postsdomain.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Posts: posts,
		log:   log,
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
