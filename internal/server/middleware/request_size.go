// file: internal/server/middleware/request_size.go
// version: 1.0.0
// guid: 6e7f0a3b-9c5d-4e8f-1a2b-4c5d6e7f8a9b

package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jdfalk/notekeeper/internal/api"
)

func methodHasBody(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	default:
		return false
	}
}

func selectBodyLimit(path string, jsonLimitBytes, uploadLimitBytes int64) int64 {
	if strings.Contains(path, "/attachments") {
		return uploadLimitBytes
	}
	return jsonLimitBytes
}

// MaxRequestBodySize rejects oversized payloads before any parsing cost.
// Attachment routes get the larger upload limit. The body is additionally
// wrapped in MaxBytesReader to catch chunked uploads with no declared
// Content-Length.
func MaxRequestBodySize(jsonLimitBytes, uploadLimitBytes int64) gin.HandlerFunc {
	if jsonLimitBytes < 1 {
		jsonLimitBytes = 1 << 20
	}
	if uploadLimitBytes < jsonLimitBytes {
		uploadLimitBytes = jsonLimitBytes
	}

	return func(c *gin.Context) {
		if !methodHasBody(c.Request.Method) {
			c.Next()
			return
		}

		limit := selectBodyLimit(c.Request.URL.Path, jsonLimitBytes, uploadLimitBytes)
		if c.Request.ContentLength > limit && c.Request.ContentLength > 0 {
			AbortWithError(c, api.NewPayloadTooLarge(limit))
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}
