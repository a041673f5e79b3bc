// file: services/errors.go
package services

import "errors"

// 服务层错误哨兵，controller 据此映射 HTTP 状态码
var (
	// ErrNotFound 目录、答案图或轮次记录不存在
	ErrNotFound = errors.New("not found")
	// ErrConflict 轮次目录已存在且队伍目录已满
	ErrConflict = errors.New("already exists")
	// ErrUnsupportedMedia 答案图必须是 image/* 类型
	ErrUnsupportedMedia = errors.New("unsupported media type")
)
