// file: services/testing_helpers_test.go
package services_test

import (
	"bytes"
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"

	"github.com/mauprogramador/ifms-dev-competition/database"
	"github.com/mauprogramador/ifms-dev-competition/services"
	"github.com/mauprogramador/ifms-dev-competition/utils"
)

// setupTestEnv 在临时目录里准备 SQLite 库和 web/images 目录树
func setupTestEnv(t *testing.T) *utils.Config {
	t.Helper()
	dir := t.TempDir()

	cfg := &utils.Config{
		DatabaseFile:  filepath.Join(dir, "test.db"),
		WebDir:        filepath.Join(dir, "web"),
		ImgDir:        filepath.Join(dir, "images"),
		DefaultWeight: 5000,
	}
	utils.Cfg = cfg

	database.Connect(cfg)
	database.MigrateTables()
	services.InitWorkspace(cfg)
	return cfg
}

// stubCapturer 假浏览器：返回预置的 PNG 字节或错误
type stubCapturer struct {
	png []byte
	err error
}

func (s *stubCapturer) Capture(htmlPath string, width, height int) ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.png, nil
}

func uniformImage(width, height int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, imaging.PNG))
	return buf.Bytes()
}

// pixelAt 返回 NRGBA 图里某个像素的 RGB 三通道
func pixelAt(img *image.NRGBA, x, y int) (uint8, uint8, uint8) {
	offset := y*img.Stride + x*4
	return img.Pix[offset], img.Pix[offset+1], img.Pix[offset+2]
}
