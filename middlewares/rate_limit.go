// file: middlewares/rate_limit.go
package middlewares

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mauprogramador/ifms-dev-competition/database"
	"github.com/mauprogramador/ifms-dev-competition/utils"
)

// 收发文件接口的固定窗口限流：每客户端 IP 每 2 秒 60 次
const (
	rateLimitWindow = 2 * time.Second
	rateLimitMax    = 60
)

// RateLimitMiddleware 基于 Redis INCR 的固定窗口限流；未配置 Redis 时直接放行
func RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if database.RDB == nil {
			c.Next()
			return
		}

		window := time.Now().Unix() / int64(rateLimitWindow.Seconds())
		key := fmt.Sprintf("rl:%s:%d", c.ClientIP(), window)

		count, err := database.RDB.Incr(database.Ctx, key).Result()
		if err != nil {
			// Redis 故障时放行，不能因限流组件拖垮主流程
			log.Printf("Rate limiter error: %v", err)
			c.Next()
			return
		}
		if count == 1 {
			database.RDB.Expire(database.Ctx, key, rateLimitWindow)
		}

		if count > rateLimitMax {
			utils.ErrorWithStatus(c, http.StatusTooManyRequests, 4290, "请求过于频繁")
			c.Abort()
			return
		}
		c.Next()
	}
}
