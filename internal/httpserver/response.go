package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"petshop-commerce/internal/domain"
	"petshop-commerce/internal/identity"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// Envelope codes. 0 is success; the rest name a failure category.
const (
	codeOK           = 0
	codeBadRequest   = 40000
	codeUnauthorized = 40100
	codeNotFound     = 40400
	codeConflict     = 40900
	codeUnavailable  = 42200
	codeInternal     = 50000
	codeTimeout      = 50300
)

type envelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func writeOK(c *gin.Context, data any) {
	writeOKMessage(c, "success", data)
}

func writeOKMessage(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, envelope{Code: codeOK, Message: message, Data: data})
}

func writeFailure(c *gin.Context, status, code int, message string) {
	c.AbortWithStatusJSON(status, envelope{Code: code, Message: message})
}

// writeError maps err onto the envelope. Unexpected errors are logged and
// reported without detail.
func writeError(c *gin.Context, err error) {
	status, code := classify(err)
	msg := clientMessage(err)
	var pgErr *pgconn.PgError
	switch {
	case code == codeInternal:
		loggerFrom(c).Error("request failed", zap.Error(err))
		msg = "internal error"
	case errors.As(err, &pgErr):
		loggerFrom(c).Warn("store rejected request",
			zap.String("sqlstate", pgErr.Code),
			zap.String("constraint", pgErr.ConstraintName),
			zap.String("detail", pgErr.Message))
	}
	c.Error(err)
	writeFailure(c, status, code, msg)
}

// recoverPanic answers a panicking handler with the internal-error envelope.
func recoverPanic(c *gin.Context, rec any) {
	loggerFrom(c).Error("panic recovered", zap.Any("panic", rec), zap.Stack("stack"))
	writeFailure(c, http.StatusInternalServerError, codeInternal, "internal error")
}

func classify(err error) (int, int) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, codeBadRequest
	case errors.Is(err, identity.ErrInvalidToken):
		return http.StatusUnauthorized, codeUnauthorized
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, codeNotFound
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrAlreadyExists):
		return http.StatusBadRequest, codeConflict
	case errors.Is(err, domain.ErrUnavailable):
		return http.StatusBadRequest, codeUnavailable
	case errors.Is(err, domain.ErrTimeout):
		return http.StatusServiceUnavailable, codeTimeout
	}
	return http.StatusInternalServerError, codeInternal
}

// clientMessage drops the sentinel prefix so "conflict: status does not
// allow payment" reads as "status does not allow payment".
func clientMessage(err error) string {
	msg := err.Error()
	for _, sentinel := range []error{
		domain.ErrInvalidInput, domain.ErrNotFound, domain.ErrConflict,
		domain.ErrAlreadyExists, domain.ErrUnavailable, domain.ErrTimeout,
	} {
		if rest, ok := strings.CutPrefix(msg, sentinel.Error()+": "); ok {
			return rest
		}
	}
	return msg
}
