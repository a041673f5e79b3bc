// file: models/report.go
package models

import (
	"fmt"
	"strings"
	"time"
)

// Operation 审计记录的操作类型
type Operation string

const (
	OperationRetrieve Operation = "RETRIEVE"
	OperationUpload   Operation = "UPLOAD"
	// OperationAll 仅用于报表查询，不会写入记录
	OperationAll Operation = "ALL"
)

// ParseOperation 解析路径参数里的操作类型
func ParseOperation(s string) (Operation, error) {
	switch Operation(strings.ToUpper(strings.TrimSpace(s))) {
	case OperationRetrieve:
		return OperationRetrieve, nil
	case OperationUpload:
		return OperationUpload, nil
	case OperationAll:
		return OperationAll, nil
	}
	return "", fmt.Errorf("invalid operation %q", s)
}

// FileType 队伍工作目录里的两类文件
type FileType string

const (
	FileTypeHTML FileType = "HTML"
	FileTypeCSS  FileType = "CSS"
)

// Filename 文件类型对应的固定文件名
func (f FileType) Filename() string {
	if f == FileTypeHTML {
		return "index.html"
	}
	return "style.css"
}

func ParseFileType(s string) (FileType, error) {
	switch FileType(strings.ToUpper(strings.TrimSpace(s))) {
	case FileTypeHTML:
		return FileTypeHTML, nil
	case FileTypeCSS:
		return FileTypeCSS, nil
	}
	return "", fmt.Errorf("invalid file type %q", s)
}

// Report 追加写入的审计记录，每次 retrieve/upload 各写一行；
// score 与 similarity 同时为空或同时有值
type Report struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	Dynamic    string    `gorm:"size:50;index;not null" json:"dynamic"`
	Code       string    `gorm:"size:4;not null" json:"code"`
	Operation  Operation `gorm:"size:10;not null" json:"operation"`
	FileType   FileType  `gorm:"size:4;not null" json:"file_type"`
	Timestamp  time.Time `gorm:"not null" json:"timestamp"`
	Similarity *float64  `json:"similarity"`
	Score      *int      `json:"score"`
}

func (Report) TableName() string {
	return "report"
}
