// file: models/dynamic.go
package models

// Dynamic 一轮比赛：锁定状态门控队伍收发请求，weight 参与得分计算，
// size 在保存答案图后记录其像素尺寸（"宽x高"），之前为 NULL
type Dynamic struct {
	ID           uint    `gorm:"primarykey" json:"id,omitempty"`
	Dynamic      string  `gorm:"size:50;uniqueIndex;not null" json:"dynamic"`
	LockRequests bool    `gorm:"not null" json:"lock_requests"`
	Weight       float64 `gorm:"not null" json:"weight"`
	Size         *string `gorm:"size:20" json:"size,omitempty"`
}

func (Dynamic) TableName() string {
	return "dynamic"
}
