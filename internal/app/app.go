package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"social-app-go/internal/auth"
	"social-app-go/internal/config"
	"social-app-go/internal/db"
	groupsdomain "social-app-go/internal/domain/groups"
	imagesdomain "social-app-go/internal/domain/images"
	postsdomain "social-app-go/internal/domain/posts"
	profilesdomain "social-app-go/internal/domain/profiles"
	userdomain "social-app-go/internal/domain/user"
	"social-app-go/internal/repository/inmemory"
	groupsrepo "social-app-go/internal/repository/postgres/groups"
	imagesrepo "social-app-go/internal/repository/postgres/images"
	postsrepo "social-app-go/internal/repository/postgres/posts"
	profilesrepo "social-app-go/internal/repository/postgres/profiles"
	userrepo "social-app-go/internal/repository/postgres/user"
	redisrepo "social-app-go/internal/repository/redis"
	"social-app-go/internal/storage"
	"social-app-go/internal/transport/httpserver"
	"social-app-go/internal/transport/httpserver/handler"
	accountshandler "social-app-go/internal/transport/httpserver/handler/accounts"
	commonhandler "social-app-go/internal/transport/httpserver/handler/common"
	groupshandler "social-app-go/internal/transport/httpserver/handler/groups"
	imageshandler "social-app-go/internal/transport/httpserver/handler/images"
	postshandler "social-app-go/internal/transport/httpserver/handler/posts"
	profileshandler "social-app-go/internal/transport/httpserver/handler/profiles"
	authmw "social-app-go/internal/transport/httpserver/middleware"
	"social-app-go/internal/transport/httpserver/ui"
	"social-app-go/pkg/logger"
)

type Options struct {
	// Migrate applies pending migrations before the server starts.
	Migrate bool
}

type App struct {
	cfg        config.Config
	log        logger.Logger
	httpServer *http.Server
	db         *gorm.DB
	redis      *goredis.Client
	limiter    *authmw.RateLimiter
}

func New(ctx context.Context, log logger.Logger, opts Options) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}

	log.Info("app: initializing database")
	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		return nil, err
	}

	a := &App{cfg: cfg, log: log, db: dbConn}

	if opts.Migrate {
		log.Info("app: applying migrations")
		if err := db.Migrate(dbConn); err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}

	log.Info("app: initializing storage", "driver", cfg.Storage.Driver)
	store, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("storage: %w", err)
	}

	groupCache, err := a.newGroupCache(ctx)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	tokens, err := auth.NewTokens(cfg.Auth.Secret, cfg.Auth.TokenTTL)
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("auth tokens: %w", err)
	}

	imageOptions := storage.ImageOptions{
		MaxBytes: cfg.Images.MaxBytes,
		MaxDim:   cfg.Images.MaxDim,
	}

	profilesService := profilesdomain.NewService(profilesrepo.NewPostgres(dbConn), store, imageOptions, log)
	userService := userdomain.NewService(userrepo.NewPostgres(dbConn), profilesService, cfg.Auth.PasswordMinLength)
	groupsService := groupsdomain.NewService(groupsrepo.NewPostgres(dbConn), groupCache, cfg.Cache.GroupTTL)
	postsService := postsdomain.NewService(postsrepo.NewPostgres(dbConn), userService, cfg.PostsPage)
	imagesService := imagesdomain.NewService(imagesrepo.NewPostgres(dbConn), store, imageOptions, log)

	authMiddleware := authmw.NewAuth(cfg.Auth, tokens, userService, cfg.Production(), log)
	if cfg.Auth.SkipAuth {
		log.Warn("app: authentication disabled, every request acts as the mock user", "username", cfg.Auth.MockUsername)
	}

	handlers := &handler.Handlers{
		Common:   commonhandler.New(log),
		Accounts: accountshandler.New(userService, authMiddleware, log),
		Groups:   groupshandler.New(groupsService, log),
		Posts:    postshandler.New(postsService, log),
		Profiles: profileshandler.New(profilesService, cfg.Images.MaxBytes, log),
		Images:   imageshandler.New(imagesService, cfg.Images.MaxBytes, log),
	}

	pages := ui.NewHandler(ui.Services{
		Accounts: userService,
		Groups:   groupsService,
		Posts:    postsService,
		Profiles: profilesService,
		Images:   imagesService,
	}, authMiddleware, cfg.Production(), cfg.Images.MaxBytes, log)

	a.limiter = authmw.NewRateLimiter(cfg.HTTP.RateLimitRPS, cfg.HTTP.RateLimitBurst)

	log.Info("app: initializing router")
	router := httpserver.NewRouter(cfg, handlers, pages, authMiddleware, a.limiter, log)

	log.Info("app: initializing http server")
	a.httpServer = httpserver.New(cfg, router)

	return a, nil
}

// newGroupCache uses Redis when REDIS_ADDR is set and an in-process map otherwise.
func (a *App) newGroupCache(ctx context.Context) (groupsdomain.Cache, error) {
	if a.cfg.Cache.RedisAddr == "" {
		a.log.Info("app: using in-memory group cache")
		return inmemory.NewGroupCache(), nil
	}

	client, err := redisrepo.NewClient(ctx, a.cfg.Cache)
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}
	a.redis = client
	a.log.Info("app: using redis group cache", "addr", a.cfg.Cache.RedisAddr)
	return redisrepo.NewGroupCache(client, a.log), nil
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

// RunBackground starts housekeeping that stops with ctx.
func (a *App) RunBackground(ctx context.Context) {
	if a.limiter != nil {
		go a.limiter.Run(ctx)
	}
}

func (a *App) Close() error {
	var errs []error
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	if a.db != nil {
		sqlDB, err := a.db.DB()
		if err != nil {
			errs = append(errs, err)
		} else if err := sqlDB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close db: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Migrate applies pending migrations and exits.
func Migrate(log logger.Logger) error {
	cfg, err := config.Load(log)
	if err != nil {
		return err
	}

	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		return err
	}
	defer func() {
		if sqlDB, err := dbConn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}()

	if err := db.Migrate(dbConn); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	log.Info("app: migrations applied")
	return nil
}
