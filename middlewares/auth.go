// file: middlewares/auth.go
package middlewares

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mauprogramador/ifms-dev-competition/utils"
)

// JWTAuthMiddleware 验证管理员是否登录
func JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.Request.Header.Get("Authorization")
		if authHeader == "" {
			utils.Error(c, 4001, "请求头中 Authorization 为空")
			c.Abort()
			return
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			utils.Error(c, 4002, "Authorization 格式有误")
			c.Abort()
			return
		}

		claims, err := utils.ParseToken(parts[1])
		if err != nil || claims.Role != utils.RoleAdmin {
			utils.Error(c, 4003, "无效的 Token")
			c.Abort()
			return
		}
		c.Set("role", claims.Role)
		c.Next()
	}
}
