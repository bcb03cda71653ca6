package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"
)

// RecoveryConfig defines the config for Recovery middleware.
type RecoveryConfig struct {
	// EnableStackTrace logs the goroutine stack on panic.
	// Default: true
	EnableStackTrace bool

	// PanicHandler is invoked after recovery, before the error response.
	PanicHandler func(c *gin.Context, err interface{}, stack []byte)
}

// DefaultRecoveryConfig is the default Recovery middleware config.
var DefaultRecoveryConfig = RecoveryConfig{
	EnableStackTrace: true,
}

// Recovery returns a middleware that recovers from panics and responds
// with a JSON 500 error.
func Recovery() gin.HandlerFunc {
	return RecoveryWithConfig(DefaultRecoveryConfig)
}

// RecoveryWithConfig returns a Recovery middleware with custom config.
func RecoveryWithConfig(config RecoveryConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				var stack []byte
				if config.EnableStackTrace {
					stack = debug.Stack()
					logger.Errorw("panic recovered",
						"error", err,
						"path", c.Request.URL.Path,
						"stack", string(stack),
					)
				} else {
					logger.Errorw("panic recovered",
						"error", err,
						"path", c.Request.URL.Path,
					)
				}

				if config.PanicHandler != nil {
					config.PanicHandler(c, err, stack)
				}

				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"code":    http.StatusInternalServerError,
					"message": "Internal server error",
				})
			}
		}()

		c.Next()
	}
}
