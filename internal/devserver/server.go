// Package devserver serves the Requests list REST API from SQLite so the
// client can run locally and be tested end to end.
package devserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// Server is the echo application backing the REST API.
type Server struct {
	echo   *echo.Echo
	store  *Store
	apiKey string
	logger *slog.Logger
}

// New builds a server over store. An empty apiKey disables authentication.
func New(store *Store, apiKey string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{echo: e, store: store, apiKey: apiKey, logger: logger}
	e.HTTPErrorHandler = s.errorHandler
	e.Use(s.requestLogger)
	registerRoutes(e, NewHandler(store), s.requireAPIKey)
	return s
}

// Handler exposes the server as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start listens on addr until Shutdown or Close is called.
func (s *Server) Start(addr string) error {
	s.logger.Info("devserver listening", slog.String("addr", addr))
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown waits for in-flight requests, up to ctx's deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Close stops the listener immediately.
func (s *Server) Close() error {
	return s.echo.Close()
}

func (s *Server) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	code := "internal_error"
	message := "an unexpected error occurred"

	var herr *httpError
	var echoErr *echo.HTTPError
	switch {
	case errors.As(err, &herr):
		status, code, message = herr.Status, herr.Code, herr.Message
		if herr.Internal != nil && status >= http.StatusInternalServerError {
			s.logger.Error("internal error",
				slog.String("code", herr.Code),
				slog.Any("internal", herr.Internal),
				slog.String("path", c.Request().URL.Path),
			)
		}
	case errors.As(err, &echoErr):
		status = echoErr.Code
		code = strings.ReplaceAll(strings.ToLower(http.StatusText(status)), " ", "_")
		if msg, ok := echoErr.Message.(string); ok {
			message = msg
		} else {
			message = http.StatusText(status)
		}
	default:
		s.logger.Error("unhandled error",
			slog.Any("error", err),
			slog.String("path", c.Request().URL.Path),
		)
	}

	_ = c.JSON(status, map[string]any{
		"error": map[string]string{"code": code, "message": message},
	})
}

func (s *Server) requireAPIKey(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if s.apiKey == "" {
			return next(c)
		}
		header := c.Request().Header.Get("Authorization")
		if header == "" {
			return newUnauthorized("api key required")
		}
		key := strings.TrimPrefix(header, "Bearer ")
		if key == header {
			return newUnauthorized("invalid authorization format, use: Bearer <key>")
		}
		if key != s.apiKey {
			return newUnauthorized("invalid api key")
		}
		return next(c)
	}
}

func (s *Server) requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		err := next(c)
		if err != nil {
			c.Error(err)
		}
		s.logger.Debug("request",
			slog.String("method", c.Request().Method),
			slog.String("path", c.Request().URL.Path),
			slog.Int("status", c.Response().Status),
		)
		return nil
	}
}
