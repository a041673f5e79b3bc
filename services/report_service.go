// file: services/report_service.go
package services

import (
	"fmt"
	"math"
	"time"

	"github.com/mauprogramador/ifms-dev-competition/database"
	"github.com/mauprogramador/ifms-dev-competition/dto"
	"github.com/mauprogramador/ifms-dev-competition/models"
	"github.com/mauprogramador/ifms-dev-competition/utils"
)

// DeriveScore 相似度按轮次权重折算成整数得分；无相似度则无得分
func DeriveScore(similarity *float64, weight float64) *int {
	if similarity == nil {
		return nil
	}
	score := int(math.Floor(*similarity * weight / 100))
	return &score
}

// AddReport 每次 retrieve/upload 追加一条审计记录，
// 得分按写入时刻的轮次权重计算
func AddReport(dynamic, code string, operation models.Operation,
	fileType models.FileType, similarity *float64) error {

	record, err := GetDynamic(dynamic)
	if err != nil {
		return err
	}

	report := models.Report{
		Dynamic:    dynamic,
		Code:       code,
		Operation:  operation,
		FileType:   fileType,
		Timestamp:  time.Now(),
		Similarity: similarity,
		Score:      DeriveScore(similarity, record.Weight),
	}

	if err := database.DB.Create(&report).Error; err != nil {
		return fmt.Errorf("saving report: %w", err)
	}
	return nil
}

// CleanReports 删除轮次的全部审计记录
func CleanReports(dynamic string) error {
	err := database.DB.Where("dynamic = ?", dynamic).Delete(&models.Report{}).Error
	if err != nil {
		return fmt.Errorf("removing %s reports: %w", dynamic, err)
	}
	return nil
}

// GetDynamicReports 轮次全部记录，按时间升序
func GetDynamicReports(dynamic string) ([]dto.ReportItemResp, error) {
	var reports []models.Report
	err := database.DB.Where("dynamic = ?", dynamic).
		Order("timestamp ASC").
		Find(&reports).Error
	if err != nil {
		return nil, fmt.Errorf("getting %s reports: %w", dynamic, err)
	}
	if len(reports) == 0 {
		return nil, fmt.Errorf("%w: %s reports", ErrNotFound, dynamic)
	}

	items := make([]dto.ReportItemResp, 0, len(reports))
	for _, report := range reports {
		items = append(items, dto.ReportItemResp{
			ID:         report.ID,
			Code:       report.Code,
			Operation:  string(report.Operation),
			FileType:   string(report.FileType),
			Timestamp:  report.Timestamp.Format(time.RFC3339),
			Similarity: report.Similarity,
			Score:      report.Score,
		})
	}
	return items, nil
}

// GetFileReport 某队伍某文件最近一次操作的时间
func GetFileReport(dynamic, code string, fileType models.FileType) (map[string]string, error) {
	var report models.Report
	err := database.DB.
		Where("dynamic = ? AND code = ? AND file_type = ?", dynamic, code, fileType).
		Order("timestamp DESC").
		First(&report).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s file report", ErrNotFound, code, fileType)
	}

	return map[string]string{
		"last_timestamp": report.Timestamp.Format(time.RFC3339),
	}, nil
}

// operationAgg 单个队伍的聚合中间态
type operationAgg struct {
	count      int
	first      time.Time
	last       time.Time
	similarity *float64
	score      *int
}

// GetOperationReports 按队伍聚合的操作报表；operation 为 ALL 时不过滤。
// SQLite 的 MIN/MAX 聚合列丢失 datetime 类型信息无法扫回 time.Time，
// 这里取原始行在内存里聚合，审计表的规模允许这样做
func GetOperationReports(dynamic string, operation models.Operation) ([]dto.OperationReportResp, error) {
	query := database.DB.Where("dynamic = ?", dynamic)
	if operation != models.OperationAll {
		query = query.Where("operation = ?", operation)
	}

	var rows []models.Report
	if err := query.Order("timestamp ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("getting %s operation report: %w", operation, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: operation report %s", ErrNotFound, operation)
	}

	codes := make([]string, 0)
	byCode := make(map[string]*operationAgg)
	for _, row := range rows {
		agg, ok := byCode[row.Code]
		if !ok {
			agg = &operationAgg{first: row.Timestamp}
			byCode[row.Code] = agg
			codes = append(codes, row.Code)
		}
		agg.count++
		agg.last = row.Timestamp
		if row.Similarity != nil &&
			(agg.similarity == nil || *row.Similarity > *agg.similarity) {
			agg.similarity = row.Similarity
		}
		if row.Score != nil && (agg.score == nil || *row.Score > *agg.score) {
			agg.score = row.Score
		}
	}

	reports := make([]dto.OperationReportResp, 0, len(codes))
	for _, code := range codes {
		agg := byCode[code]
		reports = append(reports, dto.OperationReportResp{
			Code:           code,
			Operation:      string(operation),
			TotalExchanges: agg.count,
			FirstTimestamp: agg.first.Format(time.RFC3339),
			LastTimestamp:  agg.last.Format(time.RFC3339),
			ElapsedTime:    utils.FormatElapsed(agg.first, agg.last),
			Similarity:     agg.similarity,
			Score:          agg.score,
		})
	}
	return reports, nil
}
