// file: controllers/auth_controller.go
package controllers

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	"github.com/mauprogramador/ifms-dev-competition/utils"
)

type loginReq struct {
	Password string `json:"password" form:"password" binding:"required"`
}

// Login 管理员凭密码换取 Token
func Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBind(&req); err != nil {
		utils.Error(c, 1001, "参数无效: "+err.Error())
		return
	}

	if subtle.ConstantTimeCompare([]byte(req.Password), []byte(utils.Cfg.AdminPassword)) != 1 {
		utils.Error(c, 4001, "密码错误")
		return
	}

	token, err := utils.GenerateToken(utils.RoleAdmin)
	if err != nil {
		utils.Error(c, 5000, "Failed to generate token")
		return
	}

	utils.Success(c, "Login successful", gin.H{"token": token})
}
