package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/jakechorley/bethel-serve/internal/config"
	"github.com/jakechorley/bethel-serve/pkg/core/services"
	"github.com/jakechorley/bethel-serve/pkg/db"
)

// Options configures the HTTP server
type Options struct {
	Config *config.Config
	Store  db.Database
	// Sheets is optional; without it schedule publishing is unavailable
	Sheets services.SheetsClient
	Logger *zap.Logger
}

// Server serves the JSON API
type Server struct {
	cfg      *config.Config
	store    db.Database
	sheets   services.SheetsClient
	logger   *zap.Logger
	sessions *sessionManager
	app      *echo.Echo
}

// New builds the server and registers every route. The admin password and
// session secret must be configured.
func New(opts Options) (*Server, error) {
	if err := opts.Config.ValidateServer(); err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		cfg:      opts.Config,
		store:    opts.Store,
		sheets:   opts.Sheets,
		logger:   logger,
		sessions: newSessionManager(opts.Config.Admin, time.Now),
		app:      echo.New(),
	}
	s.setup()
	return s, nil
}

func (s *Server) setup() {
	s.app.HideBanner = true
	s.app.HidePort = true

	s.app.Pre(middleware.RemoveTrailingSlash())
	s.app.Use(requestLogger(s.logger))
	s.app.Use(middleware.Recover())

	validator := newRequestValidator()
	s.app.Validator = validator
	s.app.HTTPErrorHandler = newHTTPErrorHandler(s.logger, validator)

	s.app.GET("/health", s.health)

	api := s.app.Group("/api")
	s.registerPublicRoutes(api)

	admin := api.Group("/admin")
	admin.POST("/login", s.login)
	admin.POST("/logout", s.logout)
	admin.GET("/session", s.session, s.requireAdmin)

	s.registerAdminRoutes(admin.Group("", s.requireAdmin))
}

// Start listens on the configured address until Shutdown is called
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server", zap.String("addr", s.cfg.Server.Addr))
	if err := s.app.Start(s.cfg.Server.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

// ServeHTTP lets tests drive the server without a listener
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.app.ServeHTTP(w, r)
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
