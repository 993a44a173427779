// Package app wires configuration, storage and HTTP into a runnable server.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"blog-cms/config"
	"blog-cms/handlers"
	"blog-cms/helper"
	"blog-cms/logger"
	"blog-cms/middleware"
	"blog-cms/repositories"
	"blog-cms/routes"
	"blog-cms/services"
	"blog-cms/storage"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/afero"
	"gorm.io/gorm"
)

type Repositories struct {
	Users    repositories.UserRepository
	Blogs    repositories.BlogRepository
	Pincodes repositories.PincodeRepository
}

type Services struct {
	Tokens   services.TokenService
	Auth     services.AuthService
	Admin    services.AdminService
	Blogs    services.BlogService
	Uploads  services.UploadService
	Pincodes services.PincodeService
}

type App struct {
	Config   *config.Config
	Log      logger.Logger
	Repos    Repositories
	Services Services
	Router   *gin.Engine

	db      *gorm.DB
	redis   *redis.Client
	closers []func() error
}

type options struct {
	fs    afero.Fs
	store storage.ObjectStore
}

type Option func(*options)

// WithFilesystem backs the local upload store with fs instead of the OS.
func WithFilesystem(fs afero.Fs) Option {
	return func(o *options) { o.fs = fs }
}

// WithObjectStore replaces the configured upload store entirely.
func WithObjectStore(store storage.ObjectStore) Option {
	return func(o *options) { o.store = store }
}

func New(ctx context.Context, cfg *config.Config, log logger.Logger, opts ...Option) (*App, error) {
	o := options{fs: afero.NewOsFs()}
	for _, opt := range opts {
		opt(&o)
	}

	a := &App{Config: cfg, Log: log}

	repos, err := a.openRepositories()
	if err != nil {
		return nil, err
	}
	a.Repos = repos

	var local *storage.LocalStore
	store := o.store
	if store == nil {
		store, local, err = newObjectStore(ctx, cfg, o.fs)
		if err != nil {
			_ = a.Close()
			return nil, err
		}
	}

	tokens := services.NewTokenService(cfg.JWTSecret, cfg.JWTExpiration)
	a.Services = Services{
		Tokens:   tokens,
		Auth:     services.NewAuthService(repos.Users, tokens, cfg.BcryptCost, log.With("component", "auth")),
		Admin:    services.NewAdminService(repos.Users, log.With("component", "admin")),
		Blogs:    services.NewBlogService(repos.Blogs, repos.Users, log.With("component", "blog")),
		Uploads:  services.NewUploadService(store, cfg.UploadMaxBytes, log.With("component", "upload")),
		Pincodes: services.NewPincodeService(repos.Pincodes, log.With("component", "pincode")),
	}

	router, err := a.buildRouter(local)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.Router = router

	return a, nil
}

// NewStore opens only the repositories; the CLI maintenance commands use it.
func NewStore(cfg *config.Config, log logger.Logger) (*App, error) {
	a := &App{Config: cfg, Log: log}
	repos, err := a.openRepositories()
	if err != nil {
		return nil, err
	}
	a.Repos = repos
	return a, nil
}

func (a *App) openRepositories() (Repositories, error) {
	if a.Config.DBDriver == "memory" {
		a.Log.Warn("using in-memory store, data is lost on exit")
		mem := repositories.NewMemoryStore()
		return Repositories{Users: mem.Users(), Blogs: mem.Blogs(), Pincodes: mem.Pincodes()}, nil
	}

	db, err := config.InitDB(a.Config, a.Log.With("component", "gorm"))
	if err != nil {
		return Repositories{}, err
	}
	a.db = db
	a.closers = append(a.closers, func() error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	})

	return Repositories{
		Users:    repositories.NewUserRepository(db),
		Blogs:    repositories.NewBlogRepository(db),
		Pincodes: repositories.NewPincodeRepository(db),
	}, nil
}

func newObjectStore(ctx context.Context, cfg *config.Config, fs afero.Fs) (storage.ObjectStore, *storage.LocalStore, error) {
	if cfg.StorageDriver == "s3" {
		s3Store, err := storage.NewS3Store(ctx, storage.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			PublicURL: cfg.S3PublicURL,
		})
		return s3Store, nil, err
	}

	local, err := storage.NewLocalStore(fs, cfg.UploadDir, cfg.PublicBaseURL)
	if err != nil {
		return nil, nil, err
	}
	return local, local, nil
}

func (a *App) buildRouter(local *storage.LocalStore) (*gin.Engine, error) {
	httpHelper, err := helper.NewHTTPHelper(a.Log.With("component", "http"))
	if err != nil {
		return nil, err
	}

	if a.Config.RedisURL != "" {
		opts, err := redis.ParseURL(a.Config.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("parse REDIS_URL: %w", err)
		}
		a.redis = redis.NewClient(opts)
		a.closers = append(a.closers, a.redis.Close)
	}

	metrics := middleware.NewMetrics()
	throttle, err := middleware.RateLimit(middleware.RateLimitConfig{
		Rate:  a.Config.LoginRateLimit,
		Redis: a.redis,
	}, httpHelper, metrics, a.Log)
	if err != nil {
		return nil, err
	}

	s := a.Services
	return routes.NewRouter(routes.Handlers{
		Auth:    handlers.NewAuthHandler(s.Auth, httpHelper),
		Admin:   handlers.NewAdminHandler(s.Auth, s.Admin, a.Config.AdminSignupKey, httpHelper),
		Blog:    handlers.NewBlogHandler(s.Blogs, httpHelper),
		Upload:  handlers.NewUploadHandler(s.Uploads, a.Config.UploadMaxBytes, httpHelper),
		Pincode: handlers.NewPincodeHandler(s.Pincodes, httpHelper),
	}, routes.Options{
		Guard:       middleware.NewAuthGuard(s.Tokens, s.Auth, httpHelper),
		Helper:      httpHelper,
		Metrics:     metrics,
		RateLimit:   throttle,
		CORSOrigins: a.Config.CORSAllowedOrigins,
		Uploads:     local,
		Log:         a.Log.With("component", "http"),
	}), nil
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         ":" + a.Config.Port,
		Handler:      a.Router,
		ReadTimeout:  a.Config.ReadTimeout,
		WriteTimeout: a.Config.WriteTimeout,
		IdleTimeout:  a.Config.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		a.Log.Info("server starting", "addr", srv.Addr, "env", a.Config.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	timeout := a.Config.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	a.Log.Info("server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (a *App) DB() *gorm.DB {
	return a.db
}

func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}
