// file: main.go
package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mauprogramador/ifms-dev-competition/database"
	"github.com/mauprogramador/ifms-dev-competition/routes"
	"github.com/mauprogramador/ifms-dev-competition/services"
	"github.com/mauprogramador/ifms-dev-competition/utils"
)

func main() {
	cfg := utils.LoadConfig()

	database.Connect(cfg)
	database.MigrateTables()
	database.InitRedis(cfg)

	services.InitWorkspace(cfg)

	// 浏览器不可用时服务照常启动，比对功能在上传时按请求报错
	if err := services.Browser.Initialize(cfg); err != nil {
		log.Printf("Browser initialization failed, comparisons disabled: %v", err)
	}
	services.InitCompare(services.Browser, services.Workspace)
	services.InitAnswerKey(services.Browser, services.Workspace)

	r := routes.SetupRouter(cfg)

	srv := &http.Server{
		Addr:    net.JoinHostPort(cfg.Host, cfg.Port),
		Handler: r,
	}

	go func() {
		log.Printf("Starting server on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to run server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	services.Browser.Shutdown()

	if sqlDB, err := database.DB.DB(); err == nil {
		sqlDB.Close()
	}
	log.Println("Server exited")
}
