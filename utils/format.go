// file: utils/format.go
package utils

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	// DynamicPattern 轮次名规范化后只含大写字母、数字和下划线
	DynamicPattern = regexp.MustCompile(`^[A-Z0-9_]{1,50}$`)
	// CodePattern 目录代码为 4 个大写字母
	CodePattern = regexp.MustCompile(`^[A-Z]{4}$`)
)

// FormatDynamic 规范化轮次名：去空白、转大写、分隔符替换为下划线
func FormatDynamic(name string) string {
	name = strings.ToUpper(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, "-", "_")
	return strings.ReplaceAll(name, " ", "_")
}

// FormatCode 规范化目录代码
func FormatCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// FormatSize 把像素尺寸编码为 Dynamic 表里存储的 "宽x高" 字符串
func FormatSize(width, height int) string {
	return fmt.Sprintf("%dx%d", width, height)
}

// ParseSize 解析 "宽x高" 字符串，非法输入返回错误
func ParseSize(size string) (int, int, error) {
	var width, height int
	if _, err := fmt.Sscanf(size, "%dx%d", &width, &height); err != nil {
		return 0, 0, fmt.Errorf("invalid size %q: %w", size, err)
	}
	if width <= 0 || height <= 0 {
		return 0, 0, fmt.Errorf("invalid size %q", size)
	}
	return width, height, nil
}

// FormatElapsed 报表里第一次到最后一次操作的耗时，格式 THH:MM:SS.micro
func FormatElapsed(first, last time.Time) string {
	elapsed := last.Sub(first)
	if elapsed < 0 {
		elapsed = 0
	}

	hours := int(elapsed.Hours())
	minutes := int(elapsed.Minutes()) % 60
	seconds := int(elapsed.Seconds()) % 60
	micros := int(elapsed.Microseconds()) % 1_000_000

	return fmt.Sprintf("T%02d:%02d:%02d.%06d", hours, minutes, seconds, micros)
}

// BackupFilename 数据库备份文件名：原名 + 时间戳
func BackupFilename(path string, now time.Time) string {
	ext := ""
	base := path
	if idx := strings.LastIndex(path, "."); idx > strings.LastIndex(path, "/") {
		base, ext = path[:idx], path[idx:]
	}
	return fmt.Sprintf("%s_%s%s", base, now.Format("2006-01-02_15-04-05"), ext)
}
