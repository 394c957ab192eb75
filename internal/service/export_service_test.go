package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Afnanpathan2004/livedisplay-sub001/internal/dto"
	"github.com/Afnanpathan2004/livedisplay-sub001/internal/realtime"
	"github.com/Afnanpathan2004/livedisplay-sub001/internal/repository"
)

// ── 测试辅助 ──

func setupTestExportService(t *testing.T) (ExportService, *repository.Repository) {
	t.Helper()
	repo := newTestRepo()
	sched := NewScheduleService(repo, realtime.Nop{}, zap.NewNop())
	ctx := context.Background()

	seed := []*dto.ScheduleEntryRequest{
		{Date: "2026-03-02", StartTime: "09:00", EndTime: "10:00", RoomNumber: "A101", Subject: "Calculus", FacultyName: "Dr. Rao", Tags: []string{"math", "core"}},
		{Date: "2026-03-02", StartTime: "10:00", EndTime: "11:30", RoomNumber: "A101", Subject: "Physics, Lab", FacultyName: "Dr. Chen"},
		{Date: "2026-03-03", StartTime: "13:00", EndTime: "14:00", RoomNumber: "B202", Subject: "History", FacultyName: "Ms. Park", Tags: []string{"elective"}},
	}
	for _, req := range seed {
		if _, err := sched.Create(ctx, req, "seed"); err != nil {
			t.Fatalf("准备数据失败: %v", err)
		}
	}

	svc := NewExportService(repo, zap.NewNop())
	svc.(*exportService).now = fixedClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	return svc, repo
}

func requestsFromRepo(t *testing.T, repo *repository.Repository, date string) []dto.ScheduleEntryRequest {
	t.Helper()
	entries, err := repo.ScheduleEntry.List(context.Background(), repository.ScheduleFilter{Date: date})
	if err != nil {
		t.Fatalf("读取课表失败: %v", err)
	}
	out := make([]dto.ScheduleEntryRequest, 0, len(entries))
	for _, e := range entries {
		var tags []string
		if len(e.Tags) > 0 {
			tags = append(tags, e.Tags...)
		}
		out = append(out, dto.ScheduleEntryRequest{
			Date: e.Date, StartTime: e.StartTime, EndTime: e.EndTime,
			RoomNumber: e.RoomNumber, Subject: e.Subject, FacultyName: e.FacultyName, Tags: tags,
		})
	}
	return out
}

// normalizeTags 空标签统一为 nil（JSON 导出的 [] 与 CSV 的空列等价）
func normalizeTags(reqs []dto.ScheduleEntryRequest) []dto.ScheduleEntryRequest {
	for i := range reqs {
		if len(reqs[i].Tags) == 0 {
			reqs[i].Tags = nil
		}
	}
	return reqs
}

// ── ExportSchedule 测试 ──

func TestExportService_Filename(t *testing.T) {
	svc, _ := setupTestExportService(t)
	ctx := context.Background()

	tests := []struct {
		req  dto.ExportRequest
		want string
	}{
		{dto.ExportRequest{}, "schedule_2026-03-01.json"},
		{dto.ExportRequest{Format: "csv", Date: "2026-03-02"}, "schedule_2026-03-02.csv"},
		{dto.ExportRequest{Format: "xlsx", From: "2026-03-02", To: "2026-03-03"}, "schedule_2026-03-02_2026-03-03.xlsx"},
		{dto.ExportRequest{Format: "ics", From: "2026-03-02"}, "schedule_2026-03-02.ics"},
	}
	for _, tt := range tests {
		file, err := svc.ExportSchedule(ctx, &tt.req)
		if err != nil {
			t.Fatalf("ExportSchedule(%+v) 失败: %v", tt.req, err)
		}
		if file.Filename != tt.want {
			t.Errorf("期望文件名 %s，实际 %s", tt.want, file.Filename)
		}
	}
}

func TestExportService_JSON(t *testing.T) {
	svc, _ := setupTestExportService(t)

	file, err := svc.ExportSchedule(context.Background(), &dto.ExportRequest{Format: "json", Date: "2026-03-02"})
	if err != nil {
		t.Fatalf("导出失败: %v", err)
	}
	if file.ContentType != "application/json" {
		t.Errorf("ContentType 不符: %s", file.ContentType)
	}
	var rows []map[string]interface{}
	if err := json.Unmarshal(file.Data, &rows); err != nil {
		t.Fatalf("JSON 无法解析: %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("期望 2 条，实际 %d", len(rows))
	}
}

func TestExportService_UnsupportedFormat(t *testing.T) {
	svc, _ := setupTestExportService(t)
	_, err := svc.ExportSchedule(context.Background(), &dto.ExportRequest{Format: "pdf"})
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("期望 ErrUnsupportedFormat，实际: %v", err)
	}
}

func TestExportService_InvalidRange(t *testing.T) {
	svc, _ := setupTestExportService(t)
	_, err := svc.ExportSchedule(context.Background(), &dto.ExportRequest{From: "2026-03-05", To: "2026-03-01"})
	if !errors.Is(err, ErrInvalidDateRange) {
		t.Errorf("期望 ErrInvalidDateRange，实际: %v", err)
	}
}

// ── 导出 → 导入往返 ──

func TestExportService_RoundTrip(t *testing.T) {
	for _, format := range []string{FormatJSON, FormatCSV, FormatXLSX, FormatICS} {
		t.Run(format, func(t *testing.T) {
			svc, repo := setupTestExportService(t)
			ctx := context.Background()

			file, err := svc.ExportSchedule(ctx, &dto.ExportRequest{Format: format, Date: "2026-03-02"})
			if err != nil {
				t.Fatalf("导出失败: %v", err)
			}

			got, err := svc.ParseImport(file.Filename, bytes.NewReader(file.Data))
			if err != nil {
				t.Fatalf("解析导出文件失败: %v", err)
			}
			want := requestsFromRepo(t, repo, "2026-03-02")
			if !reflect.DeepEqual(normalizeTags(got), want) {
				t.Errorf("往返结果不一致\n期望 %#v\n实际 %#v", want, got)
			}
		})
	}
}

// ── ParseImport 测试 ──

func TestParseImport_CSVHeaderMapping(t *testing.T) {
	svc := NewExportService(newTestRepo(), zap.NewNop())
	data := "\xef\xbb\xbfSubject,Date,Start Time,End Time,Room Number,Faculty Name,Tags\n" +
		"Chemistry,2026-03-04,08:00,09:00,C303,Dr. Li,lab; core\n" +
		",,,,,,\n"

	got, err := svc.ParseImport("upload.CSV", strings.NewReader(data))
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("期望跳过空行后 1 条，实际 %d", len(got))
	}
	want := dto.ScheduleEntryRequest{
		Date: "2026-03-04", StartTime: "08:00", EndTime: "09:00", RoomNumber: "C303",
		Subject: "Chemistry", FacultyName: "Dr. Li", Tags: []string{"lab", "core"},
	}
	if !reflect.DeepEqual(got[0], want) {
		t.Errorf("期望 %#v，实际 %#v", want, got[0])
	}
}

func TestParseImport_MissingColumn(t *testing.T) {
	svc := NewExportService(newTestRepo(), zap.NewNop())
	_, err := svc.ParseImport("a.csv", strings.NewReader("date,start_time\n2026-03-04,08:00\n"))
	if !errors.Is(err, ErrImportMissingColumn) {
		t.Errorf("期望 ErrImportMissingColumn，实际: %v", err)
	}
}

func TestParseImport_JSONWrapped(t *testing.T) {
	svc := NewExportService(newTestRepo(), zap.NewNop())
	body := `{"entries":[{"date":"2026-03-04","start_time":"08:00","end_time":"09:00","room_number":"C303","subject":"X","faculty_name":"Y"}]}`

	got, err := svc.ParseImport("batch.json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if len(got) != 1 || got[0].RoomNumber != "C303" {
		t.Errorf("解析结果不符: %+v", got)
	}
}

func TestParseImport_Errors(t *testing.T) {
	svc := NewExportService(newTestRepo(), zap.NewNop())

	if _, err := svc.ParseImport("a.txt", strings.NewReader("x")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("期望 ErrUnsupportedFormat，实际: %v", err)
	}
	if _, err := svc.ParseImport("a.json", strings.NewReader("[]")); !errors.Is(err, ErrImportFileInvalid) {
		t.Errorf("空文件期望 ErrImportFileInvalid，实际: %v", err)
	}
	if _, err := svc.ParseImport("a.json", strings.NewReader("{broken")); !errors.Is(err, ErrImportFileInvalid) {
		t.Errorf("损坏文件期望 ErrImportFileInvalid，实际: %v", err)
	}
	big := bytes.Repeat([]byte(" "), importMaxFileSize+1)
	if _, err := svc.ParseImport("a.json", bytes.NewReader(big)); !errors.Is(err, ErrImportFileTooLarge) {
		t.Errorf("超大文件期望 ErrImportFileTooLarge，实际: %v", err)
	}
}

// ── ICS 辅助函数 ──

func TestParseICSDuration(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"PT1H30M", 90 * time.Minute, false},
		{"PT45M", 45 * time.Minute, false},
		{"P1D", 24 * time.Hour, false},
		{"P1DT2H", 26 * time.Hour, false},
		{"PT30S", 30 * time.Second, false},
		{"1H", 0, true},
		{"PT1X", 0, true},
	}
	for _, tt := range tests {
		got, err := parseICSDuration(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseICSDuration(%q) err=%v", tt.in, err)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("parseICSDuration(%q) = %v, 期望 %v", tt.in, got, tt.want)
		}
	}
}

func TestParseCalendar_DurationAndTZ(t *testing.T) {
	cal := "BEGIN:VCALENDAR\r\n" +
		"VERSION:2.0\r\n" +
		"PRODID:-//Test//EN\r\n" +
		"BEGIN:VEVENT\r\n" +
		"UID:1@test\r\n" +
		"DTSTAMP:20260301T000000Z\r\n" +
		"DTSTART:20260304T080000Z\r\n" +
		"DURATION:PT1H30M\r\n" +
		"SUMMARY:Seminar\r\n" +
		"LOCATION:D404\r\n" +
		"DESCRIPTION:Prof. Kim\r\n" +
		"END:VEVENT\r\n" +
		"END:VCALENDAR\r\n"

	got, err := parseCalendar(strings.NewReader(cal), time.UTC)
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("期望 1 个事件，实际 %d", len(got))
	}
	e := got[0]
	if e.Date != "2026-03-04" || e.StartTime != "08:00" || e.EndTime != "09:30" {
		t.Errorf("时间解析不符: %+v", e)
	}
	if e.RoomNumber != "D404" || e.Subject != "Seminar" || e.FacultyName != "Prof. Kim" {
		t.Errorf("文本字段不符: %+v", e)
	}
}
