package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/99minutos/forum-system/docs"
	"github.com/99minutos/forum-system/internal/api/handler"
	"github.com/99minutos/forum-system/internal/api/middleware"
	"github.com/99minutos/forum-system/internal/core/ports"
)

const defaultRequestTimeout = 5 * time.Second

// RouterDeps carries everything NewRouter wires into the routes.
type RouterDeps struct {
	Log          zerolog.Logger
	AuthService  ports.AuthService
	BoardService ports.BoardService
	PostService  ports.PostService

	// Readiness lists the dependencies pinged by /health/ready.
	Readiness map[string]handler.Pinger

	RequestTimeout time.Duration

	// Registerer and Gatherer enable the HTTP metrics middleware and the
	// /metrics endpoint. Leave nil to disable both.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps RouterDeps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	timeout := deps.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	e.Use(echomiddleware.BodyLimit("1M"))
	if deps.Registerer != nil {
		e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
			Namespace:  "forum",
			Registerer: deps.Registerer,
			Skipper: func(c echo.Context) bool {
				return c.Path() == "/metrics"
			},
		}))
	}

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.AuthService)
	boardHandler := handler.NewBoardHandler(deps.BoardService)
	postHandler := handler.NewPostHandler(deps.PostService)
	authMiddleware := middleware.Auth(deps.AuthService)

	v1 := e.Group("/api/v1", echomiddleware.ContextTimeoutWithConfig(echomiddleware.ContextTimeoutConfig{
		Timeout: timeout,
	}))

	// --- Auth routes ---
	v1.POST("/signup", authHandler.Signup)
	v1.POST("/login", authHandler.Login)
	v1.POST("/logout", authHandler.Logout, authMiddleware)
	v1.GET("/me", authHandler.Me, authMiddleware)

	// --- Board routes ---
	boards := v1.Group("/boards", authMiddleware)
	boards.POST("", boardHandler.Create)
	boards.GET("", boardHandler.List)
	boards.GET("/:id", boardHandler.Get)
	boards.PUT("/:id", boardHandler.Update)
	boards.DELETE("/:id", boardHandler.Delete)
	boards.GET("/:id/posts", postHandler.ListByBoard)

	// --- Post routes ---
	posts := v1.Group("/posts", authMiddleware)
	posts.POST("", postHandler.Create)
	posts.GET("/:id", postHandler.Get)
	posts.PUT("/:id", postHandler.Update)
	posts.DELETE("/:id", postHandler.Delete)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Readiness)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Operational endpoints ---
	if deps.Gatherer != nil {
		e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
			Gatherer: deps.Gatherer,
		}))
	}
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger writes one zerolog event per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			switch {
			case v.Status >= 500:
				evt = log.Error().Err(v.Error)
			case v.Status >= 400:
				evt = log.Warn()
			}
			evt.
				Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
