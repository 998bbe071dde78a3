package router

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	_ "postauth/docs" // swagger docs

	"postauth/internal/config"
	"postauth/internal/handler"
	"postauth/internal/metrics"
	"postauth/internal/middleware"
	"postauth/internal/model"
	"postauth/internal/validation"
)

// Handlers groups the resource handlers mounted by Register.
type Handlers struct {
	Health *handler.HealthHandler
	Auth   *handler.AuthHandler
	Post   *handler.PostHandler
	Role   *handler.RoleHandler
	User   *handler.UserHandler
}

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	log *zap.Logger,
	m *metrics.Metrics,
	guard *middleware.Guard,
	h Handlers,
) {
	e.HTTPErrorHandler = ErrorHandler(log)
	e.Validator = &CustomValidator{}

	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(log))
	e.Use(m.Middleware())
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	e.GET("/", h.Health.Health)
	e.GET("/healthz", h.Health.Health)
	e.GET("/metrics", echo.WrapHandler(m.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	authenticated := guard.Authenticate()
	anyRole := guard.RequireRoles()
	adminOnly := guard.RequireRoles(model.RoleAdmin)

	authGroup := e.Group("/auth")
	authGroup.POST("/register", h.Auth.Register)
	authGroup.POST("/login", h.Auth.Login)
	authGroup.GET("/profile", h.Auth.Profile, authenticated, anyRole)

	posts := e.Group("/posts")
	posts.GET("", h.Post.List)
	posts.GET("/:id", h.Post.Get)
	posts.POST("", h.Post.Create, authenticated, anyRole)
	posts.PATCH("/:id", h.Post.Update, authenticated, anyRole)
	posts.DELETE("/:id", h.Post.Delete, authenticated, anyRole)

	roles := e.Group("/roles", authenticated, adminOnly)
	roles.GET("", h.Role.List)
	roles.GET("/:id", h.Role.Get)
	roles.POST("", h.Role.Create)
	roles.PATCH("/:id", h.Role.Update)
	roles.DELETE("/:id", h.Role.Delete)

	users := e.Group("/users", authenticated, adminOnly)
	users.GET("", h.User.ListUsers)
	users.GET("/:id", h.User.GetUser)
	users.POST("", h.User.CreateUser)
	users.PATCH("/:id/roles", h.User.SetRoles)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct{}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return validation.Struct(i)
}
