// file: database/connect.go
package database

import (
	"log"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mauprogramador/ifms-dev-competition/models"
	"github.com/mauprogramador/ifms-dev-competition/utils"
)

var DB *gorm.DB

func Connect(cfg *utils.Config) {
	var err error
	DB, err = gorm.Open(sqlite.Open(cfg.DatabaseFile), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		log.Fatal("Failed to get underlying sql.DB:", err)
	}

	// SQLite 同一时刻只允许一个写事务，单连接避免 database is locked
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Println("Database connection successfully established.")
}

func MigrateTables() {
	err := DB.AutoMigrate(&models.Dynamic{}, &models.Report{})
	if err != nil {
		log.Fatal("Failed to migrate database:", err)
	}
	log.Println("Database migration completed.")
}
