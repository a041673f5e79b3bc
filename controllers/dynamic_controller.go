// file: controllers/dynamic_controller.go
package controllers

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/mauprogramador/ifms-dev-competition/dto"
	"github.com/mauprogramador/ifms-dev-competition/services"
	"github.com/mauprogramador/ifms-dev-competition/utils"
)

// ListDynamics 列出所有轮次目录
func ListDynamics(c *gin.Context) {
	dynamics, err := services.Workspace.ListDynamics()
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.Success(c, "All dynamics teams code dirs", gin.H{
		"count":    len(dynamics),
		"dynamics": dynamics,
	})
}

// AddDynamic 新建轮次：建目录树、补足队伍目录、登记轮次记录
func AddDynamic(c *gin.Context) {
	var req dto.CreateDynamicReq
	if err := c.ShouldBind(&req); err != nil {
		utils.Error(c, 1001, "参数无效: "+err.Error())
		return
	}
	req.Normalize()
	if !req.Valid() {
		utils.Error(c, 1001, "参数无效: dynamic name")
		return
	}

	count, err := services.Workspace.CreateDynamicTree(req.Name, req.TeamsNumber)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	if err := services.AddDynamic(req.Name, utils.Cfg.DefaultWeight); err != nil {
		handleServiceError(c, err)
		return
	}

	log.Printf("Dynamic %s has %d code dirs created", req.Name, count)
	utils.Success(c, req.Name+" code dirs tree created", gin.H{
		"dynamic": req.Name,
		"count":   count,
	})
}

// RemoveDynamic 删除轮次及其目录树、图片和轮次记录
func RemoveDynamic(c *gin.Context) {
	dynamic := utils.FormatDynamic(c.Param("dynamic"))

	if err := services.Workspace.RemoveDynamicTree(dynamic); err != nil {
		handleServiceError(c, err)
		return
	}
	if err := services.RemoveDynamic(dynamic); err != nil {
		handleServiceError(c, err)
		return
	}

	log.Printf("Dynamic %s removed", dynamic)
	utils.Success(c, "Dynamic "+dynamic+" removed", gin.H{"dynamic": dynamic})
}
