package httpapi

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/todokeeper/internal/common"
	"github.com/dmitrijs2005/todokeeper/internal/ids"
	"github.com/dmitrijs2005/todokeeper/internal/server/auth"
	"github.com/gin-gonic/gin"
)

const (
	requestIDKey     = "request_id"
	maxRequestIDSize = 64
)

// requestID tags each request with an id, reusing a sane incoming
// X-Request-ID, and echoes it on the response.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(common.RequestIDHeaderName)
		if id == "" || len(id) > maxRequestIDSize {
			id = ids.New()
		}
		c.Set(requestIDKey, id)
		c.Header(common.RequestIDHeaderName, id)
		c.Next()
	}
}

// accessLog writes one line per request. Headers and bodies are never
// logged, so tokens and passwords stay out of the logs.
func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		s.logger.Info(c.Request.Context(), "HTTP request",
			"method", c.Request.Method,
			"route", route,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
			"request_id", c.GetString(requestIDKey),
		)
	}
}

func (s *Server) recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		s.logger.Error(c.Request.Context(), "Panic recovered",
			"panic", recovered,
			"route", c.FullPath(),
			"request_id", c.GetString(requestIDKey),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, errorBody("internal error"))
	})
}

func limitBody(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		}
		c.Next()
	}
}

// tokenFromRequest reads "Authorization: Bearer <token>", falling back to a
// bare token in X-Auth.
func tokenFromRequest(r *http.Request) string {
	if h := r.Header.Get(common.AuthorizationHeaderName); h != "" {
		if len(h) > len(common.BearerPrefix) && strings.EqualFold(h[:len(common.BearerPrefix)], common.BearerPrefix) {
			return strings.TrimSpace(h[len(common.BearerPrefix):])
		}
		return ""
	}
	return strings.TrimSpace(r.Header.Get(common.AuthTokenHeaderName))
}

// requireAuth resolves the request token to a user and stores both on the
// request context. Missing and invalid tokens alike get 401.
func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFromRequest(c.Request)
		if token == "" {
			s.abortWithError(c, common.ErrorUnauthorized)
			return
		}

		user, err := s.auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			s.abortWithError(c, err)
			return
		}

		c.Request = c.Request.WithContext(auth.ContextWithUser(c.Request.Context(), user, token))
		c.Next()
	}
}
