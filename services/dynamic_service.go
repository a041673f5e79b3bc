// file: services/dynamic_service.go
package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mauprogramador/ifms-dev-competition/database"
	"github.com/mauprogramador/ifms-dev-competition/models"
	"github.com/mauprogramador/ifms-dev-competition/utils"
)

// AddDynamic 登记新轮次：默认锁定、默认权重、尺寸为空
func AddDynamic(dynamic string, defaultWeight float64) error {
	record := models.Dynamic{
		Dynamic:      dynamic,
		LockRequests: true,
		Weight:       defaultWeight,
	}
	if err := database.DB.Create(&record).Error; err != nil {
		return fmt.Errorf("saving %s dynamic: %w", dynamic, err)
	}
	return nil
}

// RemoveDynamic 删除轮次记录，目录树由 WorkspaceService 级联清理
func RemoveDynamic(dynamic string) error {
	err := database.DB.Where("dynamic = ?", dynamic).Delete(&models.Dynamic{}).Error
	if err != nil {
		return fmt.Errorf("removing %s dynamic: %w", dynamic, err)
	}
	return nil
}

// GetDynamic 查询轮次记录，不存在返回 ErrNotFound
func GetDynamic(dynamic string) (*models.Dynamic, error) {
	var record models.Dynamic
	err := database.DB.Where("dynamic = ?", dynamic).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: dynamic %s", ErrNotFound, dynamic)
	}
	if err != nil {
		return nil, fmt.Errorf("getting %s dynamic: %w", dynamic, err)
	}
	return &record, nil
}

// GetDynamicSize 取轮次答案图的记录尺寸，未记录时返回 ErrNotFound
func GetDynamicSize(dynamic string) (int, int, error) {
	record, err := GetDynamic(dynamic)
	if err != nil {
		return 0, 0, err
	}
	if record.Size == nil {
		return 0, 0, fmt.Errorf("%w: %s size", ErrNotFound, dynamic)
	}
	return utils.ParseSize(*record.Size)
}

// SetDynamicSize 记录答案图像素尺寸
func SetDynamicSize(dynamic string, width, height int) error {
	size := utils.FormatSize(width, height)
	err := database.DB.Model(&models.Dynamic{}).
		Where("dynamic = ?", dynamic).
		Update("size", size).Error
	if err != nil {
		return fmt.Errorf("setting answer-key size for %s dynamic: %w", dynamic, err)
	}
	return nil
}

// SetLockStatus 锁定/放行轮次的收发请求
func SetLockStatus(dynamic string, locked bool) error {
	result := database.DB.Model(&models.Dynamic{}).
		Where("dynamic = ?", dynamic).
		Update("lock_requests", locked)
	if result.Error != nil {
		return fmt.Errorf("setting lock status for %s dynamic: %w", dynamic, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: dynamic %s", ErrNotFound, dynamic)
	}
	return nil
}

// SetWeight 更新得分权重
func SetWeight(dynamic string, weight float64) error {
	result := database.DB.Model(&models.Dynamic{}).
		Where("dynamic = ?", dynamic).
		Update("weight", weight)
	if result.Error != nil {
		return fmt.Errorf("setting weight for %s dynamic: %w", dynamic, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: dynamic %s", ErrNotFound, dynamic)
	}
	return nil
}
