package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"postauth/docs"
	"postauth/internal/auth"
	"postauth/internal/cache"
	"postauth/internal/config"
	"postauth/internal/db"
	"postauth/internal/handler"
	"postauth/internal/logger"
	"postauth/internal/metrics"
	"postauth/internal/middleware"
	"postauth/internal/repository"
	"postauth/internal/router"
	"postauth/internal/service"
)

const (
	serviceName     = "postauth"
	version         = "1.0.0"
	shutdownTimeout = 10 * time.Second
)

// @title Post Auth API
// @version 1.0
// @description User registration, JWT sessions, role-based access control and owned posts.
// @host localhost:8080
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()
	log := logger.New(logger.Config{Env: cfg.LogEnv, Level: cfg.LogLevel, ServiceName: serviceName})
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server exited with error", zap.Error(err))
	}
	log.Info("server exited")
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN, db.WithLogger(log))
	if err != nil {
		return err
	}
	if cfg.AutoMigrate {
		if err := db.Migrate(gormDB); err != nil {
			return err
		}
	}

	var cacheClient *cache.Client
	if cfg.RedisAddr != "" {
		cacheClient = cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		if err := cacheClient.Ping(ctx); err != nil {
			log.Warn("redis unreachable, cache calls will miss", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		}
	} else {
		cacheClient = cache.NewMemory(cfg.ProfileCacheTTL)
	}
	defer func() { _ = cacheClient.Close() }()

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	roleRepo := repository.NewRoleRepository(gormDB)
	postRepo := repository.NewPostRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret, auth.WithTTL(cfg.JWTTTL))
	hasher := auth.NewBcryptHasher(cfg.BcryptCost)
	throttle := auth.NewLoginThrottle(cacheClient, cfg.LoginMaxAttempts, cfg.LoginLockout)
	profiles := service.NewProfileCache(cacheClient, cfg.ProfileCacheTTL)

	// Initialize services
	authService := service.NewAuthService(userRepo, roleRepo, jwtService, hasher, throttle, profiles)
	roleService := service.NewRoleService(roleRepo, userRepo, profiles, log)
	userService := service.NewUserService(userRepo, roleRepo, hasher, profiles)
	postService := service.NewPostService(postRepo, userRepo)

	if err := roleService.EnsureDefaultRoles(ctx); err != nil {
		return err
	}

	m := metrics.New()
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	router.Register(e, cfg, log, m, middleware.NewGuard(jwtService, m, log), router.Handlers{
		Health: handler.NewHealthHandler(serviceName, version),
		Auth:   handler.NewAuthHandler(authService, m),
		Post:   handler.NewPostHandler(postService),
		Role:   handler.NewRoleHandler(roleService),
		User:   handler.NewUserHandler(userService, roleService),
	})

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		addr := ":" + cfg.ServerPort
		log.Info("listening", zap.String("addr", addr), zap.String("swagger", "http://localhost"+addr+"/swagger/index.html"))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
