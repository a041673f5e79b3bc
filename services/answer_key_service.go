// file: services/answer_key_service.go
package services

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/mauprogramador/ifms-dev-competition/models"
)

// AnswerKeyService 维护每个轮次唯一的答案图及其记录尺寸。
// 两条保存路径：直接上传图片，或写入 HTML+CSS 渲染后截图
type AnswerKeyService struct {
	capturer  Capturer
	workspace *WorkspaceService
}

// AnswerKey 全局实例，main 里初始化
var AnswerKey *AnswerKeyService

func InitAnswerKey(capturer Capturer, workspace *WorkspaceService) {
	AnswerKey = NewAnswerKeyService(capturer, workspace)
}

func NewAnswerKeyService(capturer Capturer, workspace *WorkspaceService) *AnswerKeyService {
	return &AnswerKeyService{capturer: capturer, workspace: workspace}
}

// SaveFromImage 解码上传的图片并存为 PNG 答案图，返回像素尺寸。
// 非 image/* 类型返回 ErrUnsupportedMedia，不做任何 I/O
func (s *AnswerKeyService) SaveFromImage(dynamic string, content []byte, contentType string) (int, int, error) {
	if contentType != "" && !strings.HasPrefix(contentType, "image/") {
		return 0, 0, fmt.Errorf("%w: answer-key file must be an image", ErrUnsupportedMedia)
	}
	return s.saveImage(dynamic, content)
}

// SaveFromWebFields 把 HTML+CSS 写入轮次的参考目录，渲染截图并存为答案图
func (s *AnswerKeyService) SaveFromWebFields(dynamic, html, css string) (int, int, error) {
	dynamicDir := s.workspace.DynamicWebDir(dynamic)
	if _, err := os.Stat(dynamicDir); err != nil {
		return 0, 0, fmt.Errorf("%w: dynamic %s web dir", ErrNotFound, dynamic)
	}

	htmlPath := filepath.Join(dynamicDir, models.FileTypeHTML.Filename())
	cssPath := filepath.Join(dynamicDir, models.FileTypeCSS.Filename())

	if err := os.WriteFile(htmlPath, []byte(html), 0o644); err != nil {
		return 0, 0, fmt.Errorf("writing answer-key html: %w", err)
	}
	if err := os.WriteFile(cssPath, []byte(css), 0o644); err != nil {
		return 0, 0, fmt.Errorf("writing answer-key css: %w", err)
	}

	binaryScreenshot, err := s.capturer.Capture(htmlPath, 0, 0)
	if err != nil {
		return 0, 0, fmt.Errorf("getting %s answer-key screenshot: %w", dynamic, err)
	}

	return s.saveImage(dynamic, binaryScreenshot)
}

// saveImage 解码、落盘并把尺寸记录进 Dynamic 表
func (s *AnswerKeyService) saveImage(dynamic string, content []byte) (int, int, error) {
	decoded, err := imaging.Decode(bytes.NewReader(content))
	if err != nil {
		return 0, 0, fmt.Errorf("decoding %s answer-key: %w", dynamic, err)
	}

	size := decoded.Bounds().Size()

	imgDir := filepath.Join(s.workspace.ImgDir, dynamic)
	if err := os.MkdirAll(imgDir, 0o755); err != nil {
		return 0, 0, fmt.Errorf("create %s dir: %w", imgDir, err)
	}

	answerKeyPath := s.workspace.AnswerKeyPath(dynamic)
	if err := imaging.Save(decoded, answerKeyPath); err != nil {
		return 0, 0, fmt.Errorf("saving %s answer-key: %w", dynamic, err)
	}

	if err := SetDynamicSize(dynamic, size.X, size.Y); err != nil {
		return 0, 0, err
	}

	log.Printf("Answer-Key image %dx%d saved in PNG", size.X, size.Y)
	return size.X, size.Y, nil
}
