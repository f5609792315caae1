package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"interpreter-gateway/internal/config"
	"interpreter-gateway/internal/models"
	"interpreter-gateway/internal/router"
)

const (
	maxBodyBytes        = 50 << 20 // audio uploads arrive base64-encoded
	shutdownGracePeriod = 10 * time.Second
	readTimeout         = 30 * time.Second
	writeTimeout        = 120 * time.Second
	idleTimeout         = 120 * time.Second
)

// Server is the HTTP gateway in front of the resolved provider clients.
type Server struct {
	cfg     config.Config
	router  *router.Router
	app     *echo.Echo
	log     *zap.Logger
	address string
}

// New constructs the gateway server wired with routing and middleware.
func New(cfg config.Config, rt *router.Router, log *zap.Logger) (*Server, error) {
	if rt == nil {
		return nil, errors.New("router must not be nil")
	}
	if log == nil {
		log = zap.NewNop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler

	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogLatency:   true,
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Info("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Int64("latency_ms", v.Latency.Milliseconds()),
				zap.String("request_id", v.RequestID),
				zap.Error(v.Error),
			)
			return nil
		},
	}))
	e.Use(corsMiddleware)

	srv := &Server{
		cfg:     cfg,
		router:  rt,
		app:     e,
		log:     log,
		address: fmt.Sprintf(":%d", cfg.Server.Port),
	}

	srv.registerRoutes()

	return srv, nil
}

// Run starts the HTTP server and blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	printStartupBanner(s.cfg.Server.Port)
	s.log.Info("starting server",
		zap.String("addr", s.address),
		zap.String("provider", s.router.Resolved().ProviderID),
		zap.Bool("fallback", s.router.HasFallback()))

	httpServer := &http.Server{
		Addr:         s.address,
		Handler:      s.app,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.app.StartServer(httpServer); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGracePeriod)
		defer cancel()
		if err := s.app.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.log.Info("server shutdown complete")
		return nil
	case err := <-errCh:
		return err
	}
}

// Handler exposes the echo handler for tests.
func (s *Server) Handler() http.Handler {
	return s.app
}

func (s *Server) registerRoutes() {
	s.app.GET("/api/health", s.handleHealth)
	s.app.POST("/api/chat", s.handleChat)
	s.app.POST("/api/tts", s.handleTTS)
	s.app.POST("/api/transcribe", s.handleTranscribe)
	s.app.GET("/api/config-check", s.handleConfigCheck)
}

// corsMiddleware applies the gateway's single cross-origin policy: any
// origin, the standard simple and preflight methods, and a 200 empty body
// for preflight.
func corsMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		h := c.Response().Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		h.Set("Access-Control-Allow-Methods", "GET, OPTIONS, PATCH, DELETE, POST, PUT")

		if c.Request().Method == http.MethodOptions {
			return c.NoContent(http.StatusOK)
		}
		return next(c)
	}
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func decodeRequestBody[T any](c echo.Context, target *T) error {
	req := c.Request()
	defer req.Body.Close()

	req.Body = http.MaxBytesReader(c.Response(), req.Body, maxBodyBytes)

	decoder := json.NewDecoder(req.Body)
	if err := decoder.Decode(target); err != nil {
		if errors.Is(err, io.EOF) {
			return models.NewError(models.ErrInvalidInput, "request body is required")
		}
		return models.NewError(models.ErrInvalidInput, fmt.Sprintf("invalid JSON payload: %v", err))
	}
	return nil
}

type errorBody struct {
	Error struct {
		Code    models.ErrorCode `json:"code"`
		Message string           `json:"message"`
	} `json:"error"`
}

func writeError(c echo.Context, status int, code models.ErrorCode, message string) error {
	var payload errorBody
	payload.Error.Code = code
	payload.Error.Message = message
	return c.JSON(status, payload)
}

// errorHandler normalizes every failure into the stable error wire shape.
// Raw upstream exceptions never reach the caller unformatted.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var appErr *models.Error
	if errors.As(err, &appErr) {
		_ = writeError(c, appErr.Status(), appErr.Code, appErr.Message)
		return
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		_ = writeError(c, httpErr.Code, models.ErrInvalidInput, fmt.Sprintf("%v", httpErr.Message))
		return
	}

	_ = writeError(c, http.StatusInternalServerError, models.ErrUpstream, "internal server error")
}

func printStartupBanner(port int) {
	host := "127.0.0.1"
	fmt.Println()
	fmt.Println("interpreter-gateway ready")
	fmt.Printf("Listening on http://%s:%d\n", host, port)
	fmt.Println("Endpoints:")
	fmt.Println("  GET  /api/health")
	fmt.Println("  POST /api/chat")
	fmt.Println("  POST /api/tts")
	fmt.Println("  POST /api/transcribe")
	fmt.Println("  GET  /api/config-check")
	fmt.Println()
}
