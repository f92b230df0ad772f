package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"petshop-commerce/internal/domain"
	"petshop-commerce/internal/identity"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ctxKey string

const (
	projectCtxKey   ctxKey = "project"
	principalCtxKey ctxKey = "principal"
	loggerCtxKey    ctxKey = "logger"

	requestIDHeader = "X-Request-ID"
)

type projectLookup interface {
	GetByKey(ctx context.Context, key string) (*domain.Project, error)
}

type tokenVerifier interface {
	Verify(token string) (identity.Principal, error)
}

// requestContext assigns a request id, honoring an incoming one, and binds a
// request-scoped logger.
func requestContext(base *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(requestIDHeader, id)
		l := base.With(zap.String("request_id", id))
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), loggerCtxKey, l))
		c.Next()
	}
}

func accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if p, ok := c.Request.Context().Value(projectCtxKey).(*domain.Project); ok {
			fields = append(fields, zap.String("project", p.Key))
		}
		if p, ok := c.Request.Context().Value(principalCtxKey).(identity.Principal); ok {
			fields = append(fields, zap.String("account_id", p.AccountID))
		}
		l := loggerFrom(c)
		if c.Writer.Status() >= http.StatusInternalServerError {
			l.Warn("request", fields...)
			return
		}
		l.Info("request", fields...)
	}
}

func loggerFrom(c *gin.Context) *zap.Logger {
	if l, ok := c.Request.Context().Value(loggerCtxKey).(*zap.Logger); ok {
		return l
	}
	return zap.NewNop()
}

func projectMiddleware(repo projectLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		projectKey := c.Param("projectKey")
		if projectKey == "" {
			writeFailure(c, http.StatusBadRequest, codeBadRequest, "project key required")
			return
		}
		project, err := repo.GetByKey(c.Request.Context(), projectKey)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				writeFailure(c, http.StatusNotFound, codeNotFound, "project not found")
				return
			}
			writeError(c, fmt.Errorf("lookup project: %w", err))
			return
		}
		ctx := context.WithValue(c.Request.Context(), projectCtxKey, project)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// identityMiddleware rejects the request before any handler runs unless it
// carries a valid bearer token minted for the current project.
func identityMiddleware(v tokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := identity.BearerToken(c.GetHeader("Authorization"))
		if token == "" {
			writeFailure(c, http.StatusUnauthorized, codeUnauthorized, "missing bearer token")
			return
		}
		principal, err := v.Verify(token)
		if err != nil {
			loggerFrom(c).Debug("token rejected", zap.Error(err))
			writeFailure(c, http.StatusUnauthorized, codeUnauthorized, "invalid token")
			return
		}
		project := projectFrom(c)
		if project == nil || principal.ProjectKey != project.Key {
			writeFailure(c, http.StatusUnauthorized, codeUnauthorized, "token not valid for this project")
			return
		}
		ctx := context.WithValue(c.Request.Context(), principalCtxKey, principal)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func projectFrom(c *gin.Context) *domain.Project {
	p, _ := c.Request.Context().Value(projectCtxKey).(*domain.Project)
	return p
}

func accountFrom(c *gin.Context) string {
	p, _ := c.Request.Context().Value(principalCtxKey).(identity.Principal)
	return p.AccountID
}
