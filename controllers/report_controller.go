// file: controllers/report_controller.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mauprogramador/ifms-dev-competition/dto"
	"github.com/mauprogramador/ifms-dev-competition/models"
	"github.com/mauprogramador/ifms-dev-competition/services"
	"github.com/mauprogramador/ifms-dev-competition/utils"
)

// GetDynamicReport 返回动态下全部审计记录，按时间升序
func GetDynamicReport(c *gin.Context) {
	dynamic := utils.FormatDynamic(c.Param("dynamic"))

	reports, err := services.GetDynamicReports(dynamic)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, dynamic+" dynamic report", reports)
}

// GetFileReport 返回某队伍某类型文件的最新一条审计记录
func GetFileReport(c *gin.Context) {
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

	report, err := services.GetFileReport(dynamic, query.Code, query.FileType())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, query.Code+" file report", report)
}

// GetOperationReport 按操作类型聚合各队伍的请求统计
func GetOperationReport(c *gin.Context) {
	dynamic := utils.FormatDynamic(c.Param("dynamic"))

	operation, err := models.ParseOperation(c.Param("operation"))
	if err != nil {
		utils.ErrorWithStatus(c, http.StatusUnprocessableEntity, 1001, "参数无效: "+err.Error())
		return
	}

	reports, err := services.GetOperationReports(dynamic, operation)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, string(operation)+" operation report", reports)
}
