// file: controllers/answer_key_controller.go
package controllers

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mauprogramador/ifms-dev-competition/dto"
	"github.com/mauprogramador/ifms-dev-competition/services"
	"github.com/mauprogramador/ifms-dev-competition/utils"
)

// SaveAnswerKey 保存动态的标准答案图，可直接上传图片或提交 HTML/CSS 渲染生成
func SaveAnswerKey(c *gin.Context) {
	dynamic := utils.FormatDynamic(c.Param("dynamic"))
	if !utils.DynamicPattern.MatchString(dynamic) {
		utils.ErrorWithStatus(c, http.StatusUnprocessableEntity, 1001, "参数无效: dynamic 名称格式错误")
		return
	}

	var form dto.AnswerKeyForm
	if err := c.ShouldBind(&form); err != nil {
		utils.ErrorWithStatus(c, http.StatusUnprocessableEntity, 1001, "参数无效: "+err.Error())
		return
	}
	if form.Empty() {
		utils.ErrorWithStatus(c, http.StatusUnprocessableEntity, 1001, "参数无效: 需要提交图片或 HTML/CSS 内容")
		return
	}

	if form.HasWebFields() {
		width, height, err := services.AnswerKey.SaveFromWebFields(dynamic, form.HTML, form.CSS)
		if err == nil {
			utils.Success(c, "Answer-Key image saved",
				gin.H{"dynamic": dynamic, "width": width, "height": height})
			return
		}
		// 渲染失败时，如果同时提交了图片则降级使用图片
		if form.Image == nil {
			handleServiceError(c, err)
			return
		}
		log.Printf("answer key render failed for %s, falling back to uploaded image: %v", dynamic, err)
	}

	file, err := form.Image.Open()
	if err != nil {
		utils.Error(c, 5000, "Unexpected internal error occurred")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		utils.Error(c, 5000, "Unexpected internal error occurred")
		return
	}

	contentType := form.Image.Header.Get("Content-Type")
	width, height, err := services.AnswerKey.SaveFromImage(dynamic, content, contentType)
	if err != nil {
		if errors.Is(err, services.ErrUnsupportedMedia) {
			utils.ErrorWithStatus(c, http.StatusUnsupportedMediaType, 4150, "仅支持 image/* 类型的标准答案图")
			return
		}
		handleServiceError(c, err)
		return
	}
	utils.Success(c, "Answer-Key image saved",
		gin.H{"dynamic": dynamic, "width": width, "height": height})
}
