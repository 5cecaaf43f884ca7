// Package httpapi exposes the review platform over HTTP: Slack login,
// owner project and devlog endpoints, the reviewer queue and decisions,
// and the audit trails. Handlers translate form input into service calls
// and service errors into status codes; no business rules live here.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shipyardhq/shipyard/internal/logging"
	"github.com/shipyardhq/shipyard/internal/server/config"
	"github.com/shipyardhq/shipyard/internal/server/identity"
	"github.com/shipyardhq/shipyard/internal/server/services"
)

const sessionCookieName = "shipyard_session"

type Server struct {
	config   *config.Config
	logger   logging.Logger
	provider identity.Provider

	userService    *services.UserService
	projectService *services.ProjectService
	devlogService  *services.DevlogService
	reviewService  *services.ReviewService

	httpServer *http.Server
}

func NewServer(cfg *config.Config, logger logging.Logger, provider identity.Provider,
	us *services.UserService, ps *services.ProjectService, ds *services.DevlogService,
	rs *services.ReviewService) *Server {

	s := &Server{
		config:         cfg,
		logger:         logger.With("module", "httpapi"),
		provider:       provider,
		userService:    us,
		projectService: ps,
		devlogService:  ds,
		reviewService:  rs,
	}

	s.httpServer = &http.Server{
		Addr:    cfg.EndpointAddrHTTP,
		Handler: s.router(),
	}

	return s
}

func (s *Server) router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.sessionMiddleware())

	r.GET("/auth/slack/login", s.handleLogin)
	r.GET("/auth/slack/callback", s.handleCallback)
	r.POST("/logout", s.handleLogout)

	authed := r.Group("/", s.requirePrincipal())
	{
		authed.POST("/projects", s.handleProjectCreate)
		authed.GET("/projects/:id", s.handleProjectGet)
		authed.POST("/projects/:id", s.handleProjectUpdate)
		authed.DELETE("/projects/:id", s.handleProjectDelete)
		authed.POST("/projects/:id/submit", s.handleProjectSubmit)

		authed.GET("/projects/:id/devlogs", s.handleDevlogList)
		authed.POST("/projects/:id/devlogs", s.handleDevlogCreate)
		authed.POST("/devlogs/presign", s.handleDevlogPresign)

		authed.GET("/review/queue", s.handleReviewQueue)
		authed.POST("/review/list", s.handleReviewList)
		authed.GET("/review/projects/:id", s.handleReviewDetail)
		authed.POST("/review/projects/:id/t1", s.handleReviewT1)
		authed.POST("/review/projects/:id/t2", s.handleReviewT2)
		authed.POST("/review/projects/:id/finalize", s.handleReviewFinalize)

		authed.GET("/audit/projects/:id", s.handleProjectAudit)
		authed.GET("/audit/sessions", s.handleSessionAudit)
	}

	return r
}

// Run serves until ctx is cancelled, then shuts down draining in-flight
// requests.
func (s *Server) Run(ctx context.Context) error {

	errCh := make(chan error, 1)

	go func() {
		s.logger.Info(ctx, "http server listening", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}
