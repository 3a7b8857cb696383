package middleware

import (
	"net"
	"net/http"
	"os"
	"runtime/debug"
	"strings"

	"storesync/internal/logger"

	"github.com/gin-gonic/gin"
)

func Recovery(logger *logger.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		// A client that hung up mid-response is not a server fault.
		if ne, ok := recovered.(*net.OpError); ok {
			if se, ok := ne.Err.(*os.SyscallError); ok {
				msg := strings.ToLower(se.Error())
				if strings.Contains(msg, "broken pipe") || strings.Contains(msg, "connection reset by peer") {
					c.Abort()
					return
				}
			}
		}

		if gin.IsDebugging() {
			logger.Error("panic recovered: %v\n%s", recovered, string(debug.Stack()))
		} else {
			logger.Error("panic recovered: %v", recovered)
		}
		c.AbortWithStatus(http.StatusInternalServerError)
	})
}
