package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/cognicore/sentitag/pkg/sentitag"
	"github.com/cognicore/sentitag/pkg/sentitag/store"
)

// Options configures a Server. Classifier is required; Store enables
// recording and the history endpoints.
type Options struct {
	Classifier *sentitag.Classifier
	Store      store.Store
	Logger     *slog.Logger
	Clock      clockwork.Clock
}

// Server exposes the classifier over HTTP.
type Server struct {
	echo       *echo.Echo
	classifier *sentitag.Classifier
	store      store.Store
	logger     *slog.Logger
	clock      clockwork.Clock
	startTime  time.Time
}

func NewServer(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			opts.Logger.Debug("request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
			)
			return nil
		},
	}))

	srv := &Server{
		echo:       e,
		classifier: opts.Classifier,
		store:      opts.Store,
		logger:     opts.Logger,
		clock:      opts.Clock,
		startTime:  opts.Clock.Now(),
	}
	srv.registerRoutes()
	return srv
}

// Handler returns the server as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) Start(addr string) error {
	s.logger.Info("starting server", "addr", addr)
	return s.echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
