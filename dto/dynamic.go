// file: dto/dynamic.go
package dto

import (
	"github.com/mauprogramador/ifms-dev-competition/utils"
)

// ========== 请求 DTO ==========

type CreateDynamicReq struct {
	Name        string `json:"name" form:"name" binding:"required,min=1,max=50"`
	TeamsNumber int    `json:"teams_number" form:"teams_number" binding:"required,min=1,max=200"`
}

// Normalize 轮次名统一为大写、下划线分隔
func (r *CreateDynamicReq) Normalize() {
	r.Name = utils.FormatDynamic(r.Name)
}

func (r *CreateDynamicReq) Valid() bool {
	return utils.DynamicPattern.MatchString(r.Name)
}

type LockQuery struct {
	// LOCK 禁止队伍收发文件，UNLOCK 放行
	LockStatus string `form:"lock_status" binding:"required,oneof=LOCK UNLOCK lock unlock"`
}

func (q *LockQuery) Locked() bool {
	return q.LockStatus == "LOCK" || q.LockStatus == "lock"
}

func (q *LockQuery) Name() string {
	if q.Locked() {
		return "LOCK"
	}
	return "UNLOCK"
}

type WeightQuery struct {
	Weight float64 `form:"weight" binding:"required,gte=1,lte=100000"`
}
