// file: controllers/api_test.go
package controllers_test

import (
	"bytes"
	"encoding/json"
	"image"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mauprogramador/ifms-dev-competition/database"
	"github.com/mauprogramador/ifms-dev-competition/routes"
	"github.com/mauprogramador/ifms-dev-competition/services"
	"github.com/mauprogramador/ifms-dev-competition/utils"
)

type apiResponse struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

// stubCapturer 固定返回一张 4x2 纯红 PNG，答案图和队伍截图因此完全一致
type stubCapturer struct{}

func (s *stubCapturer) Capture(htmlPath string, width, height int) ([]byte, error) {
	return redPNG(), nil
}

func redPNG() []byte {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+3] = 255, 255
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dir := t.TempDir()

	cfg := &utils.Config{
		DatabaseFile:  filepath.Join(dir, "test.db"),
		WebDir:        filepath.Join(dir, "web"),
		ImgDir:        filepath.Join(dir, "images"),
		DefaultWeight: 5000,
		AdminPassword: "secret",
		JWTSecret:     "test-secret",
	}
	utils.Cfg = cfg

	database.Connect(cfg)
	database.MigrateTables()
	services.InitWorkspace(cfg)
	services.InitCompare(&stubCapturer{}, services.Workspace)
	services.InitAnswerKey(&stubCapturer{}, services.Workspace)

	return routes.SetupRouter(cfg)
}

func doRequest(router *gin.Engine, method, path, contentType, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) apiResponse {
	t.Helper()
	var resp apiResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func adminToken(t *testing.T, router *gin.Engine) string {
	t.Helper()
	w := doRequest(router, http.MethodPost, "/api/v1/auth/login",
		"application/json", `{"password":"secret"}`, "")
	resp := parseResponse(t, w)
	require.Equal(t, 0, resp.Code)

	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	require.NotEmpty(t, data.Token)
	return data.Token
}

// answerKeyMultipart 构造带 image/png 类型图片字段的 multipart 请求体
func answerKeyMultipart(t *testing.T) (string, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="image"; filename="key.png"`)
	header.Set("Content-Type", "image/png")
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(redPNG())
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	return writer.FormDataContentType(), buf.String()
}

func TestLogin(t *testing.T) {
	router := setupRouter(t)

	w := doRequest(router, http.MethodPost, "/api/v1/auth/login",
		"application/json", `{"password":"wrong"}`, "")
	assert.Equal(t, 4001, parseResponse(t, w).Code)

	adminToken(t, router)
}

func TestAdminRoutesRequireToken(t *testing.T) {
	router := setupRouter(t)

	w := doRequest(router, http.MethodPut,
		"/api/v1/ROUND_A/lock-requests?lock_status=UNLOCK", "", "", "")
	assert.Equal(t, 4001, parseResponse(t, w).Code)

	w = doRequest(router, http.MethodPut,
		"/api/v1/ROUND_A/lock-requests?lock_status=UNLOCK", "", "", "bad-token")
	assert.Equal(t, 4003, parseResponse(t, w).Code)
}

func TestCompetitionFlow(t *testing.T) {
	router := setupRouter(t)
	token := adminToken(t, router)

	// 建轮次：1 个队伍目录，默认锁定
	w := doRequest(router, http.MethodPost, "/api/v1/add-dynamic",
		"application/json", `{"name":"final round","teams_number":1}`, "")
	resp := parseResponse(t, w)
	require.Equal(t, 0, resp.Code, resp.Msg)

	var created struct {
		Dynamic string `json:"dynamic"`
		Count   int    `json:"count"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &created))
	assert.Equal(t, "FINAL_ROUND", created.Dynamic)
	assert.Equal(t, 1, created.Count)

	// 取队伍代码
	w = doRequest(router, http.MethodGet, "/api/v1/FINAL_ROUND/list", "", "", "")
	resp = parseResponse(t, w)
	require.Equal(t, 0, resp.Code)
	var listing struct {
		CodeDirs []string `json:"code_dirs"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &listing))
	require.Len(t, listing.CodeDirs, 1)
	code := listing.CodeDirs[0]

	// 锁定期间拒绝收发
	w = doRequest(router, http.MethodGet,
		"/api/v1/FINAL_ROUND/retrieve?code="+code+"&type=HTML", "", "", "")
	assert.Equal(t, http.StatusLocked, w.Code)

	// 不存在的轮次直接 404
	w = doRequest(router, http.MethodGet,
		"/api/v1/NOPE/retrieve?code="+code+"&type=HTML", "", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	// 管理员放行
	w = doRequest(router, http.MethodPut,
		"/api/v1/FINAL_ROUND/lock-requests?lock_status=UNLOCK", "", "", token)
	require.Equal(t, 0, parseResponse(t, w).Code)

	// 答案图缺失时上传照样成功，只是没有相似度
	form := url.Values{"code": {code}, "type": {"CSS"}, "file": {"h1{color:red}"}}
	w = doRequest(router, http.MethodPost, "/api/v1/FINAL_ROUND/upload",
		"application/x-www-form-urlencoded", form.Encode(), "")
	require.Equal(t, 0, parseResponse(t, w).Code)

	// 上传答案图
	contentType, body := answerKeyMultipart(t)
	w = doRequest(router, http.MethodPost, "/api/v1/FINAL_ROUND/answer-key",
		contentType, body, token)
	resp = parseResponse(t, w)
	require.Equal(t, 0, resp.Code, resp.Msg)
	var key struct {
		Width  int `json:"width"`
		Height int `json:"height"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &key))
	assert.Equal(t, 4, key.Width)
	assert.Equal(t, 2, key.Height)

	// 读取空的 index.html
	w = doRequest(router, http.MethodGet,
		"/api/v1/FINAL_ROUND/retrieve?code="+code+"&type=HTML", "", "", "")
	resp = parseResponse(t, w)
	require.Equal(t, 0, resp.Code)
	var retrieved struct {
		File string `json:"file"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &retrieved))
	assert.Empty(t, retrieved.File)

	// 上传 CSS 触发比对，截图与答案图一致，相似度 100
	form = url.Values{"code": {code}, "type": {"CSS"}, "file": {"body{margin:0}"}}
	w = doRequest(router, http.MethodPost, "/api/v1/FINAL_ROUND/upload",
		"application/x-www-form-urlencoded", form.Encode(), "")
	require.Equal(t, 0, parseResponse(t, w).Code)

	w = doRequest(router, http.MethodGet, "/api/v1/FINAL_ROUND/dynamic-report", "", "", "")
	resp = parseResponse(t, w)
	require.Equal(t, 0, resp.Code)
	var reports []struct {
		Operation  string   `json:"operation"`
		Similarity *float64 `json:"similarity"`
		Score      *int     `json:"score"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &reports))
	require.Len(t, reports, 3)
	assert.Equal(t, "UPLOAD", reports[0].Operation)
	assert.Nil(t, reports[0].Similarity)
	assert.Nil(t, reports[0].Score)
	assert.Equal(t, "RETRIEVE", reports[1].Operation)
	assert.Nil(t, reports[1].Score)
	assert.Equal(t, "UPLOAD", reports[2].Operation)
	require.NotNil(t, reports[2].Similarity)
	assert.InDelta(t, 100.0, *reports[2].Similarity, 0.0001)
	require.NotNil(t, reports[2].Score)
	assert.Equal(t, 5000, *reports[2].Score)

	// 聚合报表
	w = doRequest(router, http.MethodGet,
		"/api/v1/FINAL_ROUND/operation-report/ALL", "", "", "")
	require.Equal(t, 0, parseResponse(t, w).Code)

	// 清空记录后报表为空
	w = doRequest(router, http.MethodDelete,
		"/api/v1/FINAL_ROUND/clean-reports", "", "", token)
	require.Equal(t, 0, parseResponse(t, w).Code)

	w = doRequest(router, http.MethodGet, "/api/v1/FINAL_ROUND/dynamic-report", "", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	// 清空文件、删除轮次
	w = doRequest(router, http.MethodDelete,
		"/api/v1/FINAL_ROUND/clean-files", "", "", token)
	require.Equal(t, 0, parseResponse(t, w).Code)

	cssPath := filepath.Join(services.Workspace.CodeDirPath("FINAL_ROUND", code), "style.css")
	cleaned, err := os.ReadFile(cssPath)
	require.NoError(t, err)
	assert.Empty(t, cleaned)

	w = doRequest(router, http.MethodDelete, "/api/v1/remove-dynamic/FINAL_ROUND", "", "", "")
	require.Equal(t, 0, parseResponse(t, w).Code)

	w = doRequest(router, http.MethodGet, "/api/v1/FINAL_ROUND/list", "", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDownloadDirTree(t *testing.T) {
	router := setupRouter(t)

	w := doRequest(router, http.MethodPost, "/api/v1/add-dynamic",
		"application/json", `{"name":"round b","teams_number":2}`, "")
	require.Equal(t, 0, parseResponse(t, w).Code)

	w = doRequest(router, http.MethodGet, "/api/v1/ROUND_B/download", "", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/zip", w.Header().Get("Content-Type"))
	assert.NotEmpty(t, w.Body.Bytes())

	w = doRequest(router, http.MethodGet, "/api/v1/MISSING/download", "", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAnswerKeyRejectsEmptyForm(t *testing.T) {
	router := setupRouter(t)
	token := adminToken(t, router)

	w := doRequest(router, http.MethodPost, "/api/v1/add-dynamic",
		"application/json", `{"name":"round c","teams_number":1}`, "")
	require.Equal(t, 0, parseResponse(t, w).Code)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.Close())

	w = doRequest(router, http.MethodPost, "/api/v1/ROUND_C/answer-key",
		writer.FormDataContentType(), buf.String(), token)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
