// Package web serves the users JSON API and the HTML users page over fiber.
package web

import (
	"context"
	"html/template"
	"net"
	"time"

	"github.com/dmitrijs2005/userservice/internal/logging"
	"github.com/dmitrijs2005/userservice/internal/server/models"
	"github.com/dmitrijs2005/userservice/internal/server/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

type userSvc interface {
	Create(ctx context.Context, req services.CreateUserRequest) (*models.User, error)
	Get(ctx context.Context, id int64) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
}

type Server struct {
	address         string
	app             *fiber.App
	users           userSvc
	logger          logging.Logger
	indexTmpl       *template.Template
	shutdownTimeout time.Duration
	rateLimitMax    int
	rateLimitWindow time.Duration
}

// Option tunes a Server.
type Option func(*Server)

// WithShutdownTimeout bounds how long Run waits for in-flight requests once
// its context is cancelled.
func WithShutdownTimeout(d time.Duration) Option {
	return func(s *Server) { s.shutdownTimeout = d }
}

// WithRateLimit caps write requests per client IP to max per window.
// max <= 0 disables the limit.
func WithRateLimit(max int, window time.Duration) Option {
	return func(s *Server) {
		s.rateLimitMax = max
		s.rateLimitWindow = window
	}
}

func NewServer(a string, l logging.Logger, us userSvc, opts ...Option) (*Server, error) {
	tmpl, err := template.ParseFS(templates, "templates/index.html")
	if err != nil {
		return nil, err
	}

	s := &Server{
		address:         a,
		users:           us,
		logger:          l.With("module", "web_server"),
		indexTmpl:       tmpl,
		shutdownTimeout: 10 * time.Second,
		rateLimitWindow: time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "users",
		ErrorHandler:          s.errorHandler,
		DisableStartupMessage: true,
	})
	s.registerRoutes()

	return s, nil
}

func (s *Server) registerRoutes() {
	s.app.Use(s.requestID, s.accessLog, recover.New())

	write := s.writeLimiter()

	s.app.Get("/ping", s.ping)
	s.app.Get("/fun", s.fun)

	s.app.Post("/users", write, s.createUser)
	s.app.Get("/users/:id", s.getUser)
	s.app.Get("/users", s.listUsers)

	s.app.Get("/", s.index)
	s.app.Post("/", write, s.indexCreate)
}

func (s *Server) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		if err := s.app.ShutdownWithTimeout(s.shutdownTimeout); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	// starts accepting incoming connections
	return s.app.Listener(listen)
}
