// file: controllers/code_dir_controller.go
package controllers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mauprogramador/ifms-dev-competition/services"
	"github.com/mauprogramador/ifms-dev-competition/utils"
)

// ListCodeDirs 列出轮次下的队伍目录
func ListCodeDirs(c *gin.Context) {
	dynamic := utils.FormatDynamic(c.Param("dynamic"))

	codes, err := services.Workspace.ListCodeDirs(dynamic)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.Success(c, dynamic+" code dirs", gin.H{
		"dynamic":   dynamic,
		"count":     len(codes),
		"code_dirs": codes,
	})
}

// AddCodeDir 为轮次新增一个队伍目录
func AddCodeDir(c *gin.Context) {
	dynamic := utils.FormatDynamic(c.Param("dynamic"))

	code, err := services.Workspace.AddCodeDir(dynamic)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	log.Printf("Code dir %s added", code)
	utils.Success(c, "New code dir "+code+" added", gin.H{
		"dynamic": dynamic,
		"code":    code,
	})
}

// RemoveCodeDir 删除一个队伍目录
func RemoveCodeDir(c *gin.Context) {
	dynamic := utils.FormatDynamic(c.Param("dynamic"))
	code := utils.FormatCode(c.Param("code"))

	if !utils.CodePattern.MatchString(code) {
		utils.ErrorWithStatus(c, http.StatusUnprocessableEntity, 1001, "参数无效: code")
		return
	}

	if err := services.Workspace.RemoveCodeDir(dynamic, code); err != nil {
		handleServiceError(c, err)
		return
	}

	log.Printf("Code dir %s removed", code)
	utils.Success(c, "Code dir "+code+" removed from "+dynamic, gin.H{
		"dynamic": dynamic,
		"code":    code,
	})
}
