// Package httpapi is the public HTTP boundary: it maps requests onto the
// account and todo services and their results onto status codes.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/todokeeper/internal/common"
	"github.com/dmitrijs2005/todokeeper/internal/logging"
	"github.com/dmitrijs2005/todokeeper/internal/server/config"
	"github.com/dmitrijs2005/todokeeper/internal/server/metrics"
	"github.com/dmitrijs2005/todokeeper/internal/server/models"
	"github.com/dmitrijs2005/todokeeper/internal/server/services"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// MaxBodyBytes caps request bodies.
const MaxBodyBytes = 1 << 20

// Authenticator is the account API used by the handlers.
type Authenticator interface {
	Signup(ctx context.Context, email, password string) (*services.AuthResult, error)
	Login(ctx context.Context, email, password string) (*services.AuthResult, error)
	Authenticate(ctx context.Context, token string) (*models.User, error)
	Logout(ctx context.Context, userID, token string) error
	LogoutAll(ctx context.Context, userID string) error
	DeleteAccount(ctx context.Context, userID string) error
}

// TodoManager is the todo API used by the handlers.
type TodoManager interface {
	Create(ctx context.Context, ownerID, text string) (*models.Todo, error)
	List(ctx context.Context, ownerID string) ([]*models.Todo, error)
	Get(ctx context.Context, ownerID, id string) (*models.Todo, error)
	Update(ctx context.Context, ownerID, id string, patch models.TodoPatch) (*models.Todo, error)
	Delete(ctx context.Context, ownerID, id string) (*models.Todo, error)
}

// Pinger reports store reachability for /healthz.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	address         string
	shutdownTimeout time.Duration
	engine          *gin.Engine
	logger          logging.Logger
	auth            Authenticator
	todos           TodoManager
	store           Pinger
}

// NewServer builds the router. m may be nil, which disables /metrics.
func NewServer(cfg *config.Config, l logging.Logger, a Authenticator, t TodoManager, store Pinger, m *metrics.HTTPMetrics) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		address:         cfg.EndpointAddrHTTP,
		shutdownTimeout: cfg.ShutdownTimeout,
		engine:          gin.New(),
		logger:          l.With("module", "http_server"),
		auth:            a,
		todos:           t,
		store:           store,
	}

	s.engine.Use(requestID(), s.accessLog(), s.recovery(), limitBody(MaxBodyBytes))
	if m != nil {
		s.engine.Use(m.Middleware())
	}
	if len(cfg.CORSAllowedOrigins) > 0 {
		s.engine.Use(cors.New(corsConfig(cfg.CORSAllowedOrigins)))
	}

	s.routes()
	if m != nil {
		s.engine.GET("/metrics", gin.WrapH(m.Handler()))
	}
	return s
}

func corsConfig(origins []string) cors.Config {
	c := cors.DefaultConfig()
	c.AllowOrigins = origins
	c.AllowHeaders = []string{
		"Origin",
		"Content-Type",
		"Accept",
		common.AuthorizationHeaderName,
		common.AuthTokenHeaderName,
		common.RequestIDHeaderName,
	}
	c.ExposeHeaders = []string{common.AuthTokenHeaderName, common.RequestIDHeaderName}
	return c
}

func (s *Server) routes() {
	s.engine.GET("/healthz", s.health)

	usersGroup := s.engine.Group("/users")
	usersGroup.POST("", s.signup)
	usersGroup.POST("/login", s.login)

	me := usersGroup.Group("/me", s.requireAuth())
	me.GET("", s.me)
	me.DELETE("", s.deleteAccount)
	me.DELETE("/token", s.logout)
	me.DELETE("/tokens", s.logoutAll)

	todosGroup := s.engine.Group("/todos", s.requireAuth())
	todosGroup.POST("", s.createTodo)
	todosGroup.GET("", s.listTodos)
	todosGroup.GET("/:id", s.getTodo)
	todosGroup.PATCH("/:id", s.updateTodo)
	todosGroup.DELETE("/:id", s.deleteTodo)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, lis)
}

// Serve serves on lis until ctx is cancelled, then drains in-flight
// requests for up to the shutdown timeout.
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(lis)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", lis.Addr().String())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
