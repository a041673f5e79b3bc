// file: controllers/admin_controller.go
package controllers

import (
	"io"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mauprogramador/ifms-dev-competition/dto"
	"github.com/mauprogramador/ifms-dev-competition/services"
	"github.com/mauprogramador/ifms-dev-competition/utils"
)

// SetLockRequests 切换动态的请求锁定状态
func SetLockRequests(c *gin.Context) {
	dynamic := utils.FormatDynamic(c.Param("dynamic"))

	var query dto.LockQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.ErrorWithStatus(c, http.StatusUnprocessableEntity, 1001, "参数无效: "+err.Error())
		return
	}

	if err := services.SetLockStatus(dynamic, query.Locked()); err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, dynamic+" lock status updated",
		gin.H{"dynamic": dynamic, "lock_status": query.Name()})
}

// SetWeight 设置动态的计分权重
func SetWeight(c *gin.Context) {
	dynamic := utils.FormatDynamic(c.Param("dynamic"))

	var query dto.WeightQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.ErrorWithStatus(c, http.StatusUnprocessableEntity, 1001, "参数无效: "+err.Error())
		return
	}

	if err := services.SetWeight(dynamic, query.Weight); err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, dynamic+" weight updated",
		gin.H{"dynamic": dynamic, "weight": query.Weight})
}

// CleanReports 清空动态的审计记录，删除前先备份数据库文件
func CleanReports(c *gin.Context) {
	dynamic := utils.FormatDynamic(c.Param("dynamic"))

	backup, err := backupDatabaseFile(utils.Cfg.DatabaseFile)
	if err != nil {
		utils.Error(c, 5000, "Unexpected internal error occurred")
		return
	}

	if err := services.CleanReports(dynamic); err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, dynamic+" reports cleaned",
		gin.H{"dynamic": dynamic, "backup": backup})
}

// CleanFiles 清空动态下所有队伍目录的文件内容并删除比对产物
func CleanFiles(c *gin.Context) {
	dynamic := utils.FormatDynamic(c.Param("dynamic"))

	if err := services.Workspace.CleanFiles(dynamic); err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, dynamic+" files cleaned", gin.H{"dynamic": dynamic})
}

func backupDatabaseFile(path string) (string, error) {
	src, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer src.Close()

	backup := utils.BackupFilename(path, time.Now())
	dst, err := os.Create(backup)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return backup, nil
}
