package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	"alertdispatch/internal/common"

	"github.com/gin-gonic/gin"
)

// Recovery converts a panic in any handler into a generic 500 response.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		slog.Error("error processing request",
			"request_id", c.GetString(RequestIDKey),
			"path", c.Request.URL.Path,
			"error", fmt.Sprint(recovered),
		)
		common.Error(c, http.StatusInternalServerError, "internal server error")
		c.Abort()
	})
}
