package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/todokeeper/internal/common"
	"github.com/gin-gonic/gin"
)

func errorBody(msg string) gin.H {
	return gin.H{"error": msg}
}

// statusFor maps service errors onto HTTP statuses and a client-safe
// message. Unknown errors are reported as a bare 500.
func statusFor(err error) (int, string) {
	var ve *common.ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, ve.Error()
	case errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest, common.ErrorValidation.Error()
	case errors.Is(err, common.ErrorDuplicateIdentifier):
		return http.StatusBadRequest, common.ErrorDuplicateIdentifier.Error()
	case errors.Is(err, common.ErrorInvalidCredentials):
		return http.StatusUnauthorized, common.ErrorInvalidCredentials.Error()
	case errors.Is(err, common.ErrorUnauthorized), errors.Is(err, common.ErrInvalidToken):
		return http.StatusUnauthorized, common.ErrorUnauthorized.Error()
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, common.ErrorNotFound.Error()
	case errors.Is(err, common.ErrorStoreUnavailable):
		return http.StatusServiceUnavailable, common.ErrorStoreUnavailable.Error()
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

func (s *Server) abortWithError(c *gin.Context, err error) {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error(c.Request.Context(), "Request failed",
			"route", c.FullPath(),
			"status", status,
			"error", err,
			"request_id", c.GetString(requestIDKey),
		)
	}
	c.AbortWithStatusJSON(status, errorBody(msg))
}

// bindJSON decodes the body into dst, answering 413 or 400 on failure.
func (s *Server) bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, errorBody("request body too large"))
			return false
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, errorBody("invalid request body"))
		return false
	}
	return true
}
