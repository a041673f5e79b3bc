// file: controllers/file_controller.go
package controllers

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mauprogramador/ifms-dev-competition/dto"
	"github.com/mauprogramador/ifms-dev-competition/models"
	"github.com/mauprogramador/ifms-dev-competition/services"
	"github.com/mauprogramador/ifms-dev-competition/utils"
)

// RetrieveFile 读取队伍文件内容，每次读取都追加一条审计记录
func RetrieveFile(c *gin.Context) {
	dynamic := utils.FormatDynamic(c.Param("dynamic"))

	var query dto.RetrieveFileQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.ErrorWithStatus(c, http.StatusUnprocessableEntity, 1001, "参数无效: "+err.Error())
		return
	}
	if err := query.Normalize(); err != nil {
		utils.ErrorWithStatus(c, http.StatusUnprocessableEntity, 1001, "参数无效: "+err.Error())
		return
	}

	codeDir := services.Workspace.CodeDirPath(dynamic, query.Code)
	if _, err := os.Stat(codeDir); err != nil {
		utils.ErrorWithStatus(c, http.StatusNotFound, 4040, "Code dir "+query.Code+" not found")
		return
	}

	filePath := services.Workspace.FilePath(dynamic, query.Code, query.FileType())
	content, err := os.ReadFile(filePath)
	if err != nil {
		handleServiceError(c, fmt.Errorf("reading %s: %w", query.FileType().Filename(), err))
		return
	}

	if err := services.AddReport(dynamic, query.Code, models.OperationRetrieve,
		query.FileType(), nil); err != nil {
		handleServiceError(c, err)
		return
	}

	message := fmt.Sprintf("Retrieve code dir %s %s", query.Code, query.FileType().Filename())
	log.Println(message)

	utils.Success(c, message, gin.H{
		"dynamic": dynamic,
		"code":    query.Code,
		"type":    string(query.FileType()),
		"file":    string(content),
	})
}

// UploadFile 写入队伍文件；CSS 上传会同步触发比对打分，
// 比对失败只记日志，不影响上传本身的成功响应
func UploadFile(c *gin.Context) {
	dynamic := utils.FormatDynamic(c.Param("dynamic"))

	var form dto.UploadFileForm
	if err := c.ShouldBind(&form); err != nil {
		utils.ErrorWithStatus(c, http.StatusUnprocessableEntity, 1001, "参数无效: "+err.Error())
		return
	}
	if err := form.Normalize(); err != nil {
		utils.ErrorWithStatus(c, http.StatusUnprocessableEntity, 1001, "参数无效: "+err.Error())
		return
	}

	codeDir := services.Workspace.CodeDirPath(dynamic, form.Code)
	if _, err := os.Stat(codeDir); err != nil {
		utils.ErrorWithStatus(c, http.StatusNotFound, 4040, "Code dir "+form.Code+" not found")
		return
	}

	filePath := services.Workspace.FilePath(dynamic, form.Code, form.FileType())
	if err := os.WriteFile(filePath, []byte(form.File), 0o644); err != nil {
		handleServiceError(c, fmt.Errorf("writing %s: %w", form.FileType().Filename(), err))
		return
	}

	var similarity *float64
	if form.FileType() == models.FileTypeCSS {
		result, err := services.Compare.Run(dynamic, form.Code)
		if err != nil {
			log.Printf("Failed to compare %s %s page to answer key: %v", dynamic, form.Code, err)
		} else {
			similarity = &result.Similarity
		}
	}

	if err := services.AddReport(dynamic, form.Code, models.OperationUpload,
		form.FileType(), similarity); err != nil {
		handleServiceError(c, err)
		return
	}

	message := fmt.Sprintf("Upload code dir %s %s", form.Code, form.FileType().Filename())
	log.Println(message)

	utils.Success(c, message, gin.H{
		"dynamic": dynamic,
		"code":    form.Code,
		"type":    string(form.FileType()),
	})
}

// DownloadDirTree 打包下载整个轮次的 web 目录
func DownloadDirTree(c *gin.Context) {
	dynamic := utils.FormatDynamic(c.Param("dynamic"))

	if _, err := os.Stat(services.Workspace.DynamicWebDir(dynamic)); err != nil {
		utils.ErrorWithStatus(c, http.StatusNotFound, 4040, "Dynamic "+dynamic+" web dir not found")
		return
	}

	filename := strings.ToLower(dynamic) + ".zip"
	c.Header("Content-Type", "application/zip")
	c.Header("Content-Disposition", "attachment; filename="+filename)

	if err := services.Workspace.ZipDynamicTree(dynamic, c.Writer); err != nil {
		handleServiceError(c, err)
		return
	}

	log.Printf("Zip file %s sent", filename)
}
