package accounts

import (
	"net/http"
	"time"

	userdomain "social-app-go/internal/domain/user"
	commonhandler "social-app-go/internal/transport/httpserver/handler/common"
	"social-app-go/internal/transport/httpserver/middleware"
	"social-app-go/pkg/logger"
)

// TokenIssuer signs access tokens for authenticated users.
type TokenIssuer interface {
	Issue(user middleware.User) (string, time.Time, error)
}

type Handlers struct {
	Accounts *userdomain.Service
	Tokens   TokenIssuer
	log      logger.Logger
}

func New(accounts *userdomain.Service, tokens TokenIssuer, log logger.Logger) *Handlers {
	return &Handlers{
		Accounts: accounts,
		Tokens:   tokens,
		log:      log,
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
