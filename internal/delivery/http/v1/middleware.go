package v1

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	emailCtxKey     = "session_email"
	requestIDCtxKey = "request_id"
)

// RequestLogger attaches a request ID and logs every request with its
// status and latency.
func RequestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := uuid.NewString()
		c.Set(requestIDCtxKey, requestID)

		c.Next()

		logger.Info().
			Str("request_id", requestID).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("handled request")
	}
}

// HandleAuthMiddleware gates a route behind the session cookie. A missing
// cookie is unauthenticated (401); a cookie that fails signature or expiry
// checks is forbidden (403). On success the claimed email is placed in the
// request context for the downstream handler.
func (h *handlerImpl) HandleAuthMiddleware(c *gin.Context) {
	token, err := c.Cookie(sessionCookie)
	if err != nil {
		h.logger.Warn().Msg("no session token cookie")
		abort(c, newUnauthorizedError(errMissingSessionToken.Error()))
		return
	}

	claims, err := h.parseSessionToken(token)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to verify session token")
		abort(c, newForbiddenError(errInvalidSessionToken.Error()))
		return
	}

	c.Set(emailCtxKey, claims.Email)
	c.Next()
}

func getStringFromContext(c *gin.Context, key string) (string, bool) {
	value, exists := c.Get(key)
	if !exists {
		return "", false
	}
	str, ok := value.(string)
	return str, ok
}
