package handler

import (
	"social-app-go/internal/transport/httpserver/handler/accounts"
	"social-app-go/internal/transport/httpserver/handler/common"
	"social-app-go/internal/transport/httpserver/handler/groups"
	"social-app-go/internal/transport/httpserver/handler/images"
	"social-app-go/internal/transport/httpserver/handler/posts"
	"social-app-go/internal/transport/httpserver/handler/profiles"
)

type Handlers struct {
	Common   *common.Handlers
	Accounts *accounts.Handlers
	Groups   *groups.Handlers
	Posts    *posts.Handlers
	Profiles *profiles.Handlers
	Images   *images.Handlers
}
