// file: middlewares/lock.go
package middlewares

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mauprogramador/ifms-dev-competition/services"
	"github.com/mauprogramador/ifms-dev-competition/utils"
)

// LockGuardMiddleware 轮次锁定时拒绝队伍的收发请求（423）
func LockGuardMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		dynamic := utils.FormatDynamic(c.Param("dynamic"))

		record, err := services.GetDynamic(dynamic)
		if errors.Is(err, services.ErrNotFound) {
			utils.ErrorWithStatus(c, http.StatusNotFound, 4040, err.Error())
			c.Abort()
			return
		}
		if err != nil {
			utils.Error(c, 5000, err.Error())
			c.Abort()
			return
		}

		if record.LockRequests {
			utils.ErrorWithStatus(c, http.StatusLocked, 4230,
				"Request sending has not started yet")
			c.Abort()
			return
		}
		c.Next()
	}
}
