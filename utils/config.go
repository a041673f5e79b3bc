// file: utils/config.go
package utils

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config 服务运行配置，全部来自 .env / 环境变量
type Config struct {
	Host          string
	Port          string
	DatabaseFile  string
	WebDir        string
	ImgDir        string
	DefaultWeight float64
	AdminPassword string
	JWTSecret     string

	// Redis 为空时不启用限流
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// 浏览器三种接入方式：远程 DevTools / Docker 托管容器 / 本地启动
	ChromeRemoteURL string
	ChromeImage     string
	ChromeAutoRun   bool
}

// Cfg 全局配置实例，由 LoadConfig 填充
var Cfg *Config

// LoadConfig 读取 .env 并组装配置，缺省值与生产默认一致
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables only")
	}

	Cfg = &Config{
		Host:            getEnv("HOST", "0.0.0.0"),
		Port:            getEnv("PORT", "8000"),
		DatabaseFile:    getEnv("DATABASE_FILE", "database.db"),
		WebDir:          getEnv("WEB_DIR", "web"),
		ImgDir:          getEnv("IMG_DIR", "images"),
		DefaultWeight:   getEnvFloat("DEFAULT_WEIGHT", 5000),
		AdminPassword:   getEnv("ADMIN_PASSWORD", "admin"),
		JWTSecret:       getEnv("JWT_SECRET", "a-very-secure-secret-that-should-be-in-env"),
		RedisAddr:       getEnv("REDIS_ADDR", ""),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RedisDB:         getEnvInt("REDIS_DB", 0),
		ChromeRemoteURL: getEnv("CHROME_REMOTE_URL", ""),
		ChromeImage:     getEnv("CHROME_IMAGE", "chromedp/headless-shell:latest"),
		ChromeAutoRun:   getEnvBool("CHROME_AUTO_RUN", false),
	}
	return Cfg
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
		log.Printf("Warning: invalid integer for %s, using default %d", key, fallback)
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
		log.Printf("Warning: invalid number for %s, using default %v", key, fallback)
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}
