// file: services/browser_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/mauprogramador/ifms-dev-competition/utils"
)

// Capturer 渲染本地页面并截图；宽高为 0 时保持默认视口
type Capturer interface {
	Capture(htmlPath string, width, height int) ([]byte, error)
}

const (
	defaultViewportWidth  = 1280
	defaultViewportHeight = 720

	// settleDelay 导航完成后等待布局和样式加载的时间
	settleDelay = 1 * time.Second

	captureTimeout = 15 * time.Second
)

// BrowserService 进程级共享的 headless 浏览器会话。
// 单个页面无法安全并发导航，navigate-wait-capture 全程持锁串行执行，
// Initialize 也由同一把锁门控，避免重复启动浏览器进程。
type BrowserService struct {
	mu sync.Mutex

	allocCtx      context.Context
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc

	ready bool
}

// Browser 全局浏览器会话，main 里初始化
var Browser = &BrowserService{}

// Initialize 建立浏览器会话，按优先级：远程 DevTools > Docker 托管容器 > 本地启动
func (s *BrowserService) Initialize(cfg *utils.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ready {
		return nil
	}

	remoteURL := cfg.ChromeRemoteURL
	if remoteURL == "" && cfg.ChromeAutoRun {
		url, err := EnsureBrowserContainer(context.Background(), cfg)
		if err != nil {
			return fmt.Errorf("start browser container: %w", err)
		}
		remoteURL = url
	}

	if remoteURL != "" {
		s.allocCtx, s.allocCancel = chromedp.NewRemoteAllocator(context.Background(), remoteURL)
		log.Printf("Using remote browser at %s", remoteURL)
	} else {
		opts := append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.DisableGPU,
			chromedp.NoSandbox,
		)
		s.allocCtx, s.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
		log.Println("Using local headless browser")
	}

	s.browserCtx, s.browserCancel = chromedp.NewContext(s.allocCtx)

	// 预热浏览器并设置默认视口
	err := chromedp.Run(s.browserCtx,
		chromedp.EmulateViewport(defaultViewportWidth, defaultViewportHeight))
	if err != nil {
		s.browserCancel()
		s.allocCancel()
		return fmt.Errorf("launch browser: %w", err)
	}

	s.ready = true
	log.Println("Browser session initialized.")
	return nil
}

// Capture 导航到本地 HTML 文件并截取整页截图，返回 PNG 字节。
// 路径不存在返回 ErrNotFound；导航或截图失败包装原因返回，会话保持可用。
func (s *BrowserService) Capture(htmlPath string, width, height int) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready {
		return nil, errors.New("browser session not initialized")
	}

	absPath, err := filepath.Abs(htmlPath)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", htmlPath, err)
	}
	if _, err := os.Stat(absPath); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, htmlPath)
	}

	fileURL := "file://" + filepath.ToSlash(absPath)

	tasks := chromedp.Tasks{}
	if width > 0 && height > 0 {
		tasks = append(tasks, chromedp.EmulateViewport(int64(width), int64(height)))
	}

	var buf []byte
	tasks = append(tasks,
		chromedp.Navigate(fileURL),
		chromedp.Sleep(settleDelay),
		chromedp.FullScreenshot(&buf, 100),
	)

	ctx, cancel := context.WithTimeout(s.browserCtx, captureTimeout)
	defer cancel()

	if err := chromedp.Run(ctx, tasks); err != nil {
		return nil, fmt.Errorf("capture %s: %w", htmlPath, err)
	}
	return buf, nil
}

// Shutdown 关闭浏览器会话，幂等
func (s *BrowserService) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready {
		return
	}
	s.browserCancel()
	s.allocCancel()
	s.ready = false
	log.Println("Browser session closed.")
}
