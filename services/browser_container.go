// file: services/browser_container.go
package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/client"
	"github.com/docker/go-connections/nat"

	"github.com/mauprogramador/ifms-dev-competition/utils"
)

const (
	browserContainerName = "dev-competition-chrome"
	devtoolsPort         = "9222"
)

// EnsureBrowserContainer 保证 headless-shell 容器在本机运行，
// 返回其 DevTools WebSocket 地址；容器已存在时复用
func EnsureBrowserContainer(ctx context.Context, cfg *utils.Config) (string, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return "", fmt.Errorf("connect to Docker daemon: %w", err)
	}
	defer cli.Close()

	containers, err := cli.ContainerList(ctx, container.ListOptions{
		All:     true,
		Filters: filters.NewArgs(filters.Arg("name", browserContainerName)),
	})
	if err != nil {
		return "", fmt.Errorf("list containers: %w", err)
	}

	if len(containers) > 0 {
		existing := containers[0]
		if existing.State != "running" {
			if err := cli.ContainerStart(ctx, existing.ID, container.StartOptions{}); err != nil {
				return "", fmt.Errorf("start container %s: %w", browserContainerName, err)
			}
			log.Printf("Browser container %s restarted", browserContainerName)
		}
		return waitForDevtools()
	}

	if err := ensureImage(ctx, cli, cfg.ChromeImage); err != nil {
		return "", err
	}

	portSet := nat.PortSet{devtoolsPort + "/tcp": struct{}{}}
	portMap := nat.PortMap{
		devtoolsPort + "/tcp": []nat.PortBinding{
			{HostIP: "127.0.0.1", HostPort: devtoolsPort},
		},
	}

	resp, err := cli.ContainerCreate(ctx,
		&container.Config{
			Image:        cfg.ChromeImage,
			ExposedPorts: portSet,
		},
		&container.HostConfig{
			PortBindings: portMap,
			RestartPolicy: container.RestartPolicy{
				Name: container.RestartPolicyUnlessStopped,
			},
			Resources: container.Resources{
				Memory:   512 * 1024 * 1024, // 限制内存 512MB
				NanoCPUs: 1000000000,        // 限制 CPU 1 Core
			},
		},
		nil, nil, browserContainerName)
	if err != nil {
		return "", fmt.Errorf("create container %s: %w", browserContainerName, err)
	}

	if err := cli.ContainerStart(ctx, resp.ID, container.StartOptions{}); err != nil {
		return "", fmt.Errorf("start container %s: %w", browserContainerName, err)
	}

	log.Printf("Browser container %s started from %s", browserContainerName, cfg.ChromeImage)
	return waitForDevtools()
}

// ensureImage 确保镜像在本机可用
func ensureImage(ctx context.Context, cli *client.Client, ref string) error {
	pullCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	rc, err := cli.ImagePull(pullCtx, ref, types.ImagePullOptions{})
	if err != nil {
		return fmt.Errorf("pull image %q: %w", ref, err)
	}
	defer rc.Close()
	_, _ = io.Copy(io.Discard, rc)
	return nil
}

// waitForDevtools 轮询 DevTools 端点直到容器就绪
func waitForDevtools() (string, error) {
	versionURL := fmt.Sprintf("http://127.0.0.1:%s/json/version", devtoolsPort)

	for i := 0; i < 30; i++ {
		resp, err := http.Get(versionURL)
		if err == nil {
			resp.Body.Close()
			return fmt.Sprintf("ws://127.0.0.1:%s", devtoolsPort), nil
		}
		time.Sleep(500 * time.Millisecond)
	}
	return "", fmt.Errorf("devtools endpoint %s not reachable", versionURL)
}
