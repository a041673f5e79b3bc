// file: services/workspace_service_test.go
package services_test

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mauprogramador/ifms-dev-competition/models"
	"github.com/mauprogramador/ifms-dev-competition/services"
	"github.com/mauprogramador/ifms-dev-competition/utils"
)

func TestCreateDynamicTree(t *testing.T) {
	setupTestEnv(t)

	created, err := services.Workspace.CreateDynamicTree("ROUND_A", 3)
	require.NoError(t, err)
	assert.Equal(t, 3, created)

	codes, err := services.Workspace.ListCodeDirs("ROUND_A")
	require.NoError(t, err)
	require.Len(t, codes, 3)

	for _, code := range codes {
		assert.True(t, utils.CodePattern.MatchString(code), "code %q", code)
		// 每个队伍目录带一对空文件
		assert.FileExists(t, filepath.Join(services.Workspace.CodeDirPath("ROUND_A", code), "index.html"))
		assert.FileExists(t, filepath.Join(services.Workspace.CodeDirPath("ROUND_A", code), "style.css"))
	}

	// 已有 3 个目录，再要 3 个不会新建
	_, err = services.Workspace.CreateDynamicTree("ROUND_A", 3)
	assert.ErrorIs(t, err, services.ErrConflict)

	// 补足到 5 个
	created, err = services.Workspace.CreateDynamicTree("ROUND_A", 5)
	require.NoError(t, err)
	assert.Equal(t, 2, created)
}

func TestAddAndRemoveCodeDir(t *testing.T) {
	setupTestEnv(t)

	_, err := services.Workspace.AddCodeDir("MISSING")
	assert.ErrorIs(t, err, services.ErrNotFound)

	_, err = services.Workspace.CreateDynamicTree("ROUND_A", 1)
	require.NoError(t, err)

	code, err := services.Workspace.AddCodeDir("ROUND_A")
	require.NoError(t, err)
	assert.DirExists(t, services.Workspace.CodeDirPath("ROUND_A", code))

	// 删除目录时顺带清掉图片产物
	artifactDir := services.Workspace.ArtifactDir("ROUND_A", code)
	require.NoError(t, os.MkdirAll(artifactDir, 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(artifactDir, services.ScreenshotFilename), []byte("png"), 0o644))

	require.NoError(t, services.Workspace.RemoveCodeDir("ROUND_A", code))
	assert.NoDirExists(t, services.Workspace.CodeDirPath("ROUND_A", code))
	assert.NoDirExists(t, artifactDir)

	assert.ErrorIs(t, services.Workspace.RemoveCodeDir("ROUND_A", code), services.ErrNotFound)
}

func TestCleanFiles(t *testing.T) {
	setupTestEnv(t)

	_, err := services.Workspace.CreateDynamicTree("ROUND_A", 2)
	require.NoError(t, err)
	codes, err := services.Workspace.ListCodeDirs("ROUND_A")
	require.NoError(t, err)

	htmlPath := services.Workspace.CodeDirPath("ROUND_A", codes[0]) + "/index.html"
	require.NoError(t, os.WriteFile(htmlPath, []byte("<h1>hi</h1>"), 0o644))

	artifactDir := services.Workspace.ArtifactDir("ROUND_A", codes[0])
	require.NoError(t, os.MkdirAll(artifactDir, 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(artifactDir, services.DiffFilename), []byte("png"), 0o644))

	require.NoError(t, services.Workspace.CleanFiles("ROUND_A"))

	content, err := os.ReadFile(htmlPath)
	require.NoError(t, err)
	assert.Empty(t, content)
	assert.NoFileExists(t, filepath.Join(artifactDir, services.DiffFilename))

	assert.ErrorIs(t, services.Workspace.CleanFiles("MISSING"), services.ErrNotFound)
}

func TestRemoveDynamicTree(t *testing.T) {
	setupTestEnv(t)

	_, err := services.Workspace.CreateDynamicTree("ROUND_A", 1)
	require.NoError(t, err)

	require.NoError(t, services.Workspace.RemoveDynamicTree("ROUND_A"))
	assert.NoDirExists(t, services.Workspace.DynamicWebDir("ROUND_A"))

	assert.ErrorIs(t, services.Workspace.RemoveDynamicTree("ROUND_A"), services.ErrNotFound)
}

func TestZipDynamicTree(t *testing.T) {
	setupTestEnv(t)

	_, err := services.Workspace.CreateDynamicTree("ROUND_A", 1)
	require.NoError(t, err)
	codes, err := services.Workspace.ListCodeDirs("ROUND_A")
	require.NoError(t, err)

	htmlPath := services.Workspace.FilePath("ROUND_A", codes[0], models.FileTypeHTML)
	require.NoError(t, os.WriteFile(htmlPath, []byte("<h1>hi</h1>"), 0o644))

	var buf bytes.Buffer
	require.NoError(t, services.Workspace.ZipDynamicTree("ROUND_A", &buf))

	reader, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)

	names := make(map[string]bool, len(reader.File))
	for _, f := range reader.File {
		names[f.Name] = true
	}
	assert.True(t, names[codes[0]+"/index.html"])
	assert.True(t, names[codes[0]+"/style.css"])

	assert.ErrorIs(t, services.Workspace.ZipDynamicTree("MISSING", &buf), services.ErrNotFound)
}
