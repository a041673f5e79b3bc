// file: controllers/errors.go
package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mauprogramador/ifms-dev-competition/services"
	"github.com/mauprogramador/ifms-dev-competition/utils"
)

// handleServiceError 服务层错误统一映射为响应码
func handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.ErrorWithStatus(c, http.StatusNotFound, 4040, err.Error())
	case errors.Is(err, services.ErrConflict):
		utils.ErrorWithStatus(c, http.StatusConflict, 4090, err.Error())
	case errors.Is(err, services.ErrUnsupportedMedia):
		utils.ErrorWithStatus(c, http.StatusUnsupportedMediaType, 4150, err.Error())
	default:
		log.Printf("Internal error: %v", err)
		utils.Error(c, 5000, "Unexpected internal error occurred")
	}
}
