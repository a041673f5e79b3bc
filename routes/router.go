// file: routes/router.go
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/mauprogramador/ifms-dev-competition/controllers"
	"github.com/mauprogramador/ifms-dev-competition/middlewares"
	"github.com/mauprogramador/ifms-dev-competition/utils"
)

func SetupRouter(cfg *utils.Config) *gin.Engine {
	r := gin.Default()
	r.Use(middlewares.RequestIDMiddleware())

	// 比对产物（截图、差异图、答案图）直接按目录提供静态访问
	r.Static("/images", cfg.ImgDir)

	apiV1 := r.Group("/api/v1")
	{
		apiV1.POST("/auth/login", controllers.Login)

		// --- 动态（轮次）管理 ---
		apiV1.GET("/list-dynamics", controllers.ListDynamics)
		apiV1.POST("/add-dynamic", controllers.AddDynamic)
		apiV1.DELETE("/remove-dynamic/:dynamic", controllers.RemoveDynamic)

		dynamicRoutes := apiV1.Group("/:dynamic")
		{
			// --- 队伍目录管理 ---
			dynamicRoutes.GET("/list", controllers.ListCodeDirs)
			dynamicRoutes.POST("/add", controllers.AddCodeDir)
			dynamicRoutes.DELETE("/remove/:code", controllers.RemoveCodeDir)
			dynamicRoutes.GET("/download", controllers.DownloadDirTree)

			// --- 文件收发：限流 + 锁定检查 ---
			fileRoutes := dynamicRoutes.Group("")
			fileRoutes.Use(middlewares.RateLimitMiddleware(), middlewares.LockGuardMiddleware())
			{
				fileRoutes.GET("/retrieve", controllers.RetrieveFile)
				fileRoutes.POST("/upload", controllers.UploadFile)
			}

			// --- 审计报表 ---
			reportRoutes := dynamicRoutes.Group("")
			reportRoutes.Use(middlewares.RateLimitMiddleware())
			{
				reportRoutes.GET("/dynamic-report", controllers.GetDynamicReport)
				reportRoutes.GET("/file-report", controllers.GetFileReport)
				reportRoutes.GET("/operation-report/:operation", controllers.GetOperationReport)
			}

			// --- 管理员接口 ---
			adminRoutes := dynamicRoutes.Group("")
			adminRoutes.Use(middlewares.JWTAuthMiddleware())
			{
				adminRoutes.POST("/answer-key", controllers.SaveAnswerKey)
				adminRoutes.PUT("/lock-requests", controllers.SetLockRequests)
				adminRoutes.PUT("/set-weight", controllers.SetWeight)
				adminRoutes.DELETE("/clean-reports", controllers.CleanReports)
				adminRoutes.DELETE("/clean-files", controllers.CleanFiles)
			}
		}
	}

	return r
}
