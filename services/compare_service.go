// file: services/compare_service.go
package services

import (
	"bytes"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	"github.com/mauprogramador/ifms-dev-competition/models"
)

// diffThreshold 差异图二值化阈值（0-255 灰度），只影响可视化，不影响相似度
const diffThreshold = 30

// CompareResult 一次比对的结果；上传接口据此决定记录得分还是只记日志
type CompareResult struct {
	Similarity  float64
	DiffPixels  int
	TotalPixels int
}

// CompareService 渲染队伍页面并与答案图比对。
// 尺寸不一致时把截图缩放到答案图的实际尺寸再比对：缩放有插值损耗，
// 但保证任何视口下的提交都能算分，逐像素循环也不会越界
type CompareService struct {
	capturer  Capturer
	workspace *WorkspaceService
}

// Compare 全局比对服务，main 里初始化
var Compare *CompareService

func InitCompare(capturer Capturer, workspace *WorkspaceService) {
	Compare = NewCompareService(capturer, workspace)
}

func NewCompareService(capturer Capturer, workspace *WorkspaceService) *CompareService {
	return &CompareService{capturer: capturer, workspace: workspace}
}

// Run 截图 -> 对齐 -> 逐像素比对 -> 落盘截图和差异图。
// index.html 或答案图缺失返回 ErrNotFound，图像处理失败包装原因返回
func (s *CompareService) Run(dynamic, code string) (*CompareResult, error) {
	htmlPath := s.workspace.FilePath(dynamic, code, models.FileTypeHTML)
	if _, err := os.Stat(htmlPath); err != nil {
		return nil, fmt.Errorf("%w: index.html in %s %s code dir", ErrNotFound, dynamic, code)
	}

	width, height, err := GetDynamicSize(dynamic)
	if err != nil {
		return nil, err
	}

	answerKeyPath := s.workspace.AnswerKeyPath(dynamic)
	if _, err := os.Stat(answerKeyPath); err != nil {
		return nil, fmt.Errorf("%w: answer-key image of %s", ErrNotFound, dynamic)
	}

	binaryScreenshot, err := s.capturer.Capture(htmlPath, width, height)
	if err != nil {
		return nil, fmt.Errorf("getting %s %s screenshot: %w", dynamic, code, err)
	}

	decoded, err := imaging.Decode(bytes.NewReader(binaryScreenshot))
	if err != nil {
		return nil, fmt.Errorf("decoding %s %s screenshot: %w", dynamic, code, err)
	}
	screenshot := imaging.Clone(decoded)

	opened, err := imaging.Open(answerKeyPath)
	if err != nil {
		return nil, fmt.Errorf("reading %s answer-key: %w", dynamic, err)
	}
	answerKey := imaging.Clone(opened)

	// 以答案图的实际尺寸为准对齐，记录尺寸可能已过期
	keySize := answerKey.Bounds().Size()
	if !screenshot.Bounds().Size().Eq(keySize) {
		oldSize := screenshot.Bounds().Size()
		log.Printf("Resizing %s %s screenshot from %dx%d to %dx%d",
			dynamic, code, oldSize.X, oldSize.Y, keySize.X, keySize.Y)
		screenshot = imaging.Resize(screenshot, keySize.X, keySize.Y, imaging.CatmullRom)
	}

	artifactDir := s.workspace.ArtifactDir(dynamic, code)
	if err := os.MkdirAll(artifactDir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s dir: %w", artifactDir, err)
	}

	screenshotPath := filepath.Join(artifactDir, ScreenshotFilename)
	if err := imaging.Save(screenshot, screenshotPath); err != nil {
		return nil, fmt.Errorf("saving %s %s screenshot: %w", dynamic, code, err)
	}

	diffPixels, totalPixels := CountDiffPixels(answerKey, screenshot)
	percentageDiff := float64(diffPixels) / float64(totalPixels) * 100
	similarity := 100.0 - percentageDiff

	diffImage := RenderDiffImage(answerKey, screenshot)
	diffPath := filepath.Join(artifactDir, DiffFilename)
	if err := imaging.Save(diffImage, diffPath); err != nil {
		return nil, fmt.Errorf("saving %s %s diff image: %w", dynamic, code, err)
	}

	log.Printf("Similarity of %s to the answer-key: %.2f%%", code, similarity)

	return &CompareResult{
		Similarity:  similarity,
		DiffPixels:  diffPixels,
		TotalPixels: totalPixels,
	}, nil
}

// CountDiffPixels 逐像素统计差异：任一 RGB 通道的绝对差之和非零即算不同。
// 两图尺寸必须一致（调用前已对齐）
func CountDiffPixels(answerKey, screenshot *image.NRGBA) (int, int) {
	bounds := answerKey.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	totalPixels := width * height

	diffPixels := 0
	for y := 0; y < height; y++ {
		keyRow := answerKey.Pix[y*answerKey.Stride:]
		shotRow := screenshot.Pix[y*screenshot.Stride:]

		for x := 0; x < width; x++ {
			offset := x * 4
			sum := absDiff(keyRow[offset], shotRow[offset]) +
				absDiff(keyRow[offset+1], shotRow[offset+1]) +
				absDiff(keyRow[offset+2], shotRow[offset+2])
			if sum != 0 {
				diffPixels++
			}
		}
	}
	return diffPixels, totalPixels
}

// RenderDiffImage 生成人工检查用的差异图：饱和减法 -> 灰度 -> 阈值二值化，
// 超过阈值的像素标红，其余强制为白。与相似度采用的是另一套差异判定，
// 两者刻意保持独立
func RenderDiffImage(answerKey, screenshot *image.NRGBA) *image.NRGBA {
	bounds := answerKey.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	diff := image.NewNRGBA(image.Rect(0, 0, width, height))

	for y := 0; y < height; y++ {
		keyRow := answerKey.Pix[y*answerKey.Stride:]
		shotRow := screenshot.Pix[y*screenshot.Stride:]
		diffRow := diff.Pix[y*diff.Stride:]

		for x := 0; x < width; x++ {
			offset := x * 4
			r := saturatingSub(keyRow[offset], shotRow[offset])
			g := saturatingSub(keyRow[offset+1], shotRow[offset+1])
			b := saturatingSub(keyRow[offset+2], shotRow[offset+2])

			// BT.601 亮度权重，与 OpenCV 灰度转换一致
			gray := (299*int(r) + 587*int(g) + 114*int(b)) / 1000

			if gray > diffThreshold {
				diffRow[offset], diffRow[offset+1], diffRow[offset+2] = 255, 0, 0
			} else {
				diffRow[offset], diffRow[offset+1], diffRow[offset+2] = 255, 255, 255
			}
			diffRow[offset+3] = 255
		}
	}
	return diff
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

func saturatingSub(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return 0
}
