package groups

import (
	"net/http"

	groupsdomain "social-app-go/internal/domain/groups"
	commonhandler "social-app-go/internal/transport/httpserver/handler/common"
	"social-app-go/pkg/logger"
)

type Handlers struct {
	Groups *groupsdomain.Service
	log    logger.Logger
}

func New(groups *groupsdomain.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Groups: groups,
		log:    log,
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
