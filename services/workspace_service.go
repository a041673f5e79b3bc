// file: services/workspace_service.go
package services

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mauprogramador/ifms-dev-competition/models"
	"github.com/mauprogramador/ifms-dev-competition/utils"
)

// 落盘的图片文件名
const (
	AnswerKeyFilename  = "answer_key.png"
	ScreenshotFilename = "screenshot.png"
	DiffFilename       = "diff.png"
)

// WorkspaceService 负责 web/ 与 images/ 两棵目录树的增删清理
type WorkspaceService struct {
	WebDir string
	ImgDir string
}

// Workspace 全局实例，main 里初始化
var Workspace *WorkspaceService

func InitWorkspace(cfg *utils.Config) {
	Workspace = &WorkspaceService{WebDir: cfg.WebDir, ImgDir: cfg.ImgDir}

	for _, dir := range []string{cfg.WebDir, cfg.ImgDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			panic(fmt.Sprintf("create %s dir: %v", dir, err))
		}
	}
}

// DynamicWebDir 轮次的 web 目录路径
func (s *WorkspaceService) DynamicWebDir(dynamic string) string {
	return filepath.Join(s.WebDir, dynamic)
}

// CodeDirPath 队伍工作目录路径
func (s *WorkspaceService) CodeDirPath(dynamic, code string) string {
	return filepath.Join(s.WebDir, dynamic, code)
}

// FilePath 队伍工作目录里某类文件的路径
func (s *WorkspaceService) FilePath(dynamic, code string, fileType models.FileType) string {
	return filepath.Join(s.WebDir, dynamic, code, fileType.Filename())
}

// AnswerKeyPath 轮次答案图路径
func (s *WorkspaceService) AnswerKeyPath(dynamic string) string {
	return filepath.Join(s.ImgDir, dynamic, AnswerKeyFilename)
}

// ArtifactDir 队伍截图/差异图所在目录
func (s *WorkspaceService) ArtifactDir(dynamic, code string) string {
	return filepath.Join(s.ImgDir, dynamic, code)
}

// ListDynamics 列出已有轮次目录名
func (s *WorkspaceService) ListDynamics() ([]string, error) {
	entries, err := os.ReadDir(s.WebDir)
	if err != nil {
		return nil, fmt.Errorf("read %s dir: %w", s.WebDir, err)
	}

	dynamics := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			dynamics = append(dynamics, entry.Name())
		}
	}
	return dynamics, nil
}

// ListCodeDirs 列出轮次下所有队伍目录代码
func (s *WorkspaceService) ListCodeDirs(dynamic string) ([]string, error) {
	dynamicDir := s.DynamicWebDir(dynamic)
	if _, err := os.Stat(dynamicDir); err != nil {
		return nil, fmt.Errorf("%w: dynamic %s web dir", ErrNotFound, dynamic)
	}

	entries, err := os.ReadDir(dynamicDir)
	if err != nil {
		return nil, fmt.Errorf("read %s dir: %w", dynamicDir, err)
	}

	codes := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			codes = append(codes, entry.Name())
		}
	}
	return codes, nil
}

// CreateDynamicTree 创建轮次目录并补足到 teams 个队伍目录，
// 返回新建目录数；已满时返回 ErrConflict
func (s *WorkspaceService) CreateDynamicTree(dynamic string, teams int) (int, error) {
	dynamicDir := s.DynamicWebDir(dynamic)
	if err := os.MkdirAll(dynamicDir, 0o755); err != nil {
		return 0, fmt.Errorf("create %s dir: %w", dynamicDir, err)
	}

	entries, err := os.ReadDir(dynamicDir)
	if err != nil {
		return 0, fmt.Errorf("read %s dir: %w", dynamicDir, err)
	}

	count := teams - len(entries)
	if count <= 0 {
		return 0, fmt.Errorf("%w: dynamic dir for %s", ErrConflict, dynamic)
	}

	for i := 0; i < count; i++ {
		if _, err := s.createCodeDir(dynamicDir); err != nil {
			return 0, err
		}
	}
	return count, nil
}

// AddCodeDir 为已有轮次新增一个队伍目录
func (s *WorkspaceService) AddCodeDir(dynamic string) (string, error) {
	dynamicDir := s.DynamicWebDir(dynamic)
	if _, err := os.Stat(dynamicDir); err != nil {
		return "", fmt.Errorf("%w: dynamic %s web dir", ErrNotFound, dynamic)
	}
	return s.createCodeDir(dynamicDir)
}

func (s *WorkspaceService) createCodeDir(dynamicDir string) (string, error) {
	code := utils.GenerateDirCode()
	dirPath := filepath.Join(dynamicDir, code)

	if err := os.MkdirAll(dirPath, 0o755); err != nil {
		return "", fmt.Errorf("create code dir %s: %w", code, err)
	}
	if err := touchWebFiles(dirPath); err != nil {
		return "", err
	}
	return code, nil
}

// touchWebFiles 建立空的 index.html 和 style.css
func touchWebFiles(dirPath string) error {
	for _, fileType := range []models.FileType{models.FileTypeHTML, models.FileTypeCSS} {
		path := filepath.Join(dirPath, fileType.Filename())
		if err := os.WriteFile(path, []byte{}, 0o644); err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
	}
	return nil
}

// RemoveCodeDir 删除单个队伍目录及其图片产物
func (s *WorkspaceService) RemoveCodeDir(dynamic, code string) error {
	dirPath := s.CodeDirPath(dynamic, code)
	if _, err := os.Stat(dirPath); err != nil {
		return fmt.Errorf("%w: code dir %s", ErrNotFound, code)
	}

	if err := os.RemoveAll(dirPath); err != nil {
		return fmt.Errorf("remove code dir %s: %w", code, err)
	}

	_ = os.RemoveAll(s.ArtifactDir(dynamic, code))
	return nil
}

// RemoveDynamicTree 删除轮次的 web 目录和图片目录
func (s *WorkspaceService) RemoveDynamicTree(dynamic string) error {
	dynamicDir := s.DynamicWebDir(dynamic)
	if _, err := os.Stat(dynamicDir); err != nil {
		return fmt.Errorf("%w: dynamic %s dir", ErrNotFound, dynamic)
	}

	if err := os.RemoveAll(dynamicDir); err != nil {
		return fmt.Errorf("remove dynamic dir %s: %w", dynamic, err)
	}

	imgDir := filepath.Join(s.ImgDir, dynamic)
	if _, err := os.Stat(imgDir); err == nil {
		if err := os.RemoveAll(imgDir); err != nil {
			return fmt.Errorf("remove dynamic img dir %s: %w", dynamic, err)
		}
	}
	return nil
}

// CleanFiles 清空轮次下所有队伍文件并移除截图/差异图
func (s *WorkspaceService) CleanFiles(dynamic string) error {
	dynamicDir := s.DynamicWebDir(dynamic)
	if _, err := os.Stat(dynamicDir); err != nil {
		return fmt.Errorf("%w: dynamic %s web dir", ErrNotFound, dynamic)
	}

	codes, err := s.ListCodeDirs(dynamic)
	if err != nil {
		return err
	}
	for _, code := range codes {
		if err := touchWebFiles(filepath.Join(dynamicDir, code)); err != nil {
			return err
		}
	}

	imgDir := filepath.Join(s.ImgDir, dynamic)
	if _, err := os.Stat(imgDir); err != nil {
		// 还没有任何图片产物，不算错误
		return nil
	}

	entries, err := os.ReadDir(imgDir)
	if err != nil {
		return fmt.Errorf("read %s dir: %w", imgDir, err)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		for _, name := range []string{ScreenshotFilename, DiffFilename} {
			path := filepath.Join(imgDir, entry.Name(), name)
			if _, err := os.Stat(path); err == nil {
				if err := os.Remove(path); err != nil {
					return fmt.Errorf("remove %s: %w", path, err)
				}
			}
		}
	}
	return nil
}

// ZipDynamicTree 把轮次 web 目录打包写入 w
func (s *WorkspaceService) ZipDynamicTree(dynamic string, w io.Writer) error {
	dynamicDir := s.DynamicWebDir(dynamic)
	if _, err := os.Stat(dynamicDir); err != nil {
		return fmt.Errorf("%w: dynamic %s web dir", ErrNotFound, dynamic)
	}

	archive := zip.NewWriter(w)
	defer archive.Close()

	err := filepath.Walk(dynamicDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		relPath, err := filepath.Rel(dynamicDir, path)
		if err != nil {
			return err
		}

		entry, err := archive.Create(filepath.ToSlash(relPath))
		if err != nil {
			return err
		}

		file, err := os.Open(path)
		if err != nil {
			return err
		}
		defer file.Close()

		_, err = io.Copy(entry, file)
		return err
	})
	if err != nil {
		return fmt.Errorf("compress %s dir: %w", dynamic, err)
	}
	return nil
}
