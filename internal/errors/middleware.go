package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Err writes an error response. Structured errors keep their status and
// are serialized verbatim; anything else becomes an opaque 500.
func Err(c *gin.Context, err error) {
	if err == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unknown error"})
		return
	}

	if e, ok := AsError(err); ok {
		if e.Unwrap() != nil {
			log.Debug().Err(e.Unwrap()).Str("code", e.Code).Msg("request failed")
		}
		c.JSON(e.Status, e)
		return
	}

	log.Err(err).Str("path", c.Request.URL.Path).Msg("unexpected error")
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

// ErrorHandlerMiddleware converts errors attached to the context into
// a response, unless a handler already wrote one.
func ErrorHandlerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		Err(c, c.Errors.Last().Err)
	}
}

// RecoveryMiddleware turns panics into 500 responses instead of
// tearing down the connection.
func RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).Str("path", c.Request.URL.Path).Msg("recovered from panic")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			}
		}()
		c.Next()
	}
}
