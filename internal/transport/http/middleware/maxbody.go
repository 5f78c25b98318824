package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	resp "trouve-ton-artisan/internal/transport/http/response"
)

// MaxBodyBytes rejects request bodies larger than n bytes.
func MaxBodyBytes(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
		if c.Err() != nil && !c.Writer.Written() {
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeBadRequest, "request body too large"))
		}
	}
}
