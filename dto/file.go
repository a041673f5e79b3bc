// file: dto/file.go
package dto

import (
	"mime/multipart"

	"github.com/mauprogramador/ifms-dev-competition/models"
	"github.com/mauprogramador/ifms-dev-competition/utils"
)

// ========== 请求 DTO ==========

type RetrieveFileQuery struct {
	Code string `form:"code" binding:"required,len=4,alpha"`
	Type string `form:"type" binding:"required"`

	fileType models.FileType
}

// Normalize 代码转大写并解析文件类型，解析失败返回错误
func (q *RetrieveFileQuery) Normalize() error {
	q.Code = utils.FormatCode(q.Code)
	fileType, err := models.ParseFileType(q.Type)
	if err != nil {
		return err
	}
	q.fileType = fileType
	return nil
}

func (q *RetrieveFileQuery) FileType() models.FileType {
	return q.fileType
}

type UploadFileForm struct {
	Code string `form:"code" binding:"required,len=4,alpha"`
	Type string `form:"type" binding:"required"`
	File string `form:"file" binding:"required,min=1"`

	fileType models.FileType
}

func (f *UploadFileForm) Normalize() error {
	f.Code = utils.FormatCode(f.Code)
	fileType, err := models.ParseFileType(f.Type)
	if err != nil {
		return err
	}
	f.fileType = fileType
	return nil
}

func (f *UploadFileForm) FileType() models.FileType {
	return f.fileType
}

// AnswerKeyForm 答案图表单：图片文件和 HTML+CSS 至少提供一组；
// 两者都有时优先渲染网页，失败再回退到图片
type AnswerKeyForm struct {
	Image *multipart.FileHeader `form:"image"`
	HTML  string                `form:"html"`
	CSS   string                `form:"css"`
}

// HasWebFields HTML 和 CSS 是否都已提供
func (f *AnswerKeyForm) HasWebFields() bool {
	return f.HTML != "" && f.CSS != ""
}

// Empty 既没有图片也没有完整的网页字段
func (f *AnswerKeyForm) Empty() bool {
	return f.Image == nil && !f.HasWebFields()
}

// ========== 响应 DTO ==========

type ReportItemResp struct {
	ID         uint     `json:"id"`
	Code       string   `json:"code"`
	Operation  string   `json:"operation"`
	FileType   string   `json:"file_type"`
	Timestamp  string   `json:"timestamp"`
	Similarity *float64 `json:"similarity"`
	Score      *int     `json:"score"`
}

type OperationReportResp struct {
	Code           string   `json:"code"`
	Operation      string   `json:"operation"`
	TotalExchanges int      `json:"total_exchanges"`
	FirstTimestamp string   `json:"first_timestamp"`
	LastTimestamp  string   `json:"last_timestamp"`
	ElapsedTime    string   `json:"elapsed_time"`
	Similarity     *float64 `json:"similarity"`
	Score          *int     `json:"score"`
}
