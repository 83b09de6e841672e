// file: internal/server/middleware/errors.go
// version: 1.0.0
// guid: 3b4c7d0e-6f2a-4b5c-8d9e-1f2a3b4c5d6e

package middleware

import (
	"errors"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/jdfalk/notekeeper/internal/api"
)

// AbortWithError records a declared pipeline failure and stops the chain.
// The ErrorNormalizer converts it into the response envelope; stages never
// write raw error responses themselves.
func AbortWithError(c *gin.Context, err *api.Error) {
	_ = c.Error(err)
	c.Abort()
}

// ErrorNormalizer is the single point where stage failures become
// responses. Declared *api.Error values are serialized verbatim.
// Anything else — including panics from the wrapped handler — becomes
// INTERNAL_ERROR; its message is the raw failure text only outside
// production (information-leakage guard).
func ErrorNormalizer(production bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("[ERROR] panic handling %s %s: %v", c.Request.Method, c.Request.URL.Path, r)
				writeError(c, normalize(fmt.Errorf("%v", r), production))
			}
		}()

		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		last := c.Errors.Last().Err
		apiErr := normalize(last, production)
		if apiErr.Code == api.KindInternal {
			log.Printf("[ERROR] %s %s: %v", c.Request.Method, c.Request.URL.Path, last)
		} else {
			log.Printf("[WARN] %s %s: %v", c.Request.Method, c.Request.URL.Path, last)
		}
		writeError(c, apiErr)
	}
}

func normalize(err error, production bool) *api.Error {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	if production {
		return api.NewInternalError("internal server error")
	}
	return api.NewInternalError(err.Error())
}

func writeError(c *gin.Context, apiErr *api.Error) {
	if c.Writer.Written() {
		return
	}
	c.JSON(apiErr.Status(), api.Fail(apiErr))
}
