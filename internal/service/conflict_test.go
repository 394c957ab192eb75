package service

import (
	"strings"
	"testing"

	"github.com/Afnanpathan2004/livedisplay-sub001/internal/model"
	apperrors "github.com/Afnanpathan2004/livedisplay-sub001/pkg/errors"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"06:00", 360, false},
		{"09:30", 570, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"12:60", 0, true},
		{"9:30", 0, true},
		{"09:3", 0, true},
		{"09-30", 0, true},
		{"ab:cd", 0, true},
		{"", 0, true},
		{"09:30:00", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseClock(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseClock(%q) err = %v, 期望出错=%v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseClock(%q) = %d, 期望 %d", tt.in, got, tt.want)
		}
	}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name                   string
		aStart, aEnd, bS, bE   int
		expect                 bool
	}{
		{"完全重叠", 540, 600, 540, 600, true},
		{"部分重叠", 570, 630, 540, 600, true},
		{"包含", 540, 720, 600, 660, true},
		{"首尾相接", 540, 600, 600, 660, false},
		{"尾首相接", 600, 660, 540, 600, false},
		{"不相交", 480, 500, 600, 660, false},
	}

	for _, tt := range tests {
		if got := Overlaps(tt.aStart, tt.aEnd, tt.bS, tt.bE); got != tt.expect {
			t.Errorf("%s: Overlaps = %v, 期望 %v", tt.name, got, tt.expect)
		}
		// 对称性
		if got := Overlaps(tt.bS, tt.bE, tt.aStart, tt.aEnd); got != tt.expect {
			t.Errorf("%s(交换): Overlaps = %v, 期望 %v", tt.name, got, tt.expect)
		}
	}
}

func validEntry() *model.ScheduleEntry {
	return &model.ScheduleEntry{
		Date:        "2026-03-02",
		StartTime:   "09:00",
		EndTime:     "10:00",
		RoomNumber:  "A101",
		Subject:     "Calculus",
		FacultyName: "Dr. Rao",
	}
}

func fieldsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	ve, ok := apperrors.AsValidation(err)
	if !ok {
		t.Fatalf("期望 ValidationError，实际: %v", err)
	}
	out := make(map[string]string, len(ve.Fields))
	for _, f := range ve.Fields {
		out[f.Field] = f.Message
	}
	return out
}

func TestValidateEntry_Valid(t *testing.T) {
	e := validEntry()
	e.Subject = "  Calculus  "
	e.Tags = model.StringArray{" exam "}
	if err := validateEntry(e); err != nil {
		t.Fatalf("期望校验通过: %v", err)
	}
	if e.Subject != "Calculus" {
		t.Errorf("期望去除首尾空白，实际 %q", e.Subject)
	}
	if e.Tags[0] != "exam" {
		t.Errorf("期望标签去除空白，实际 %q", e.Tags[0])
	}
}

func TestValidateEntry_WindowBoundaries(t *testing.T) {
	e := validEntry()
	e.StartTime, e.EndTime = "06:00", "23:00"
	if err := validateEntry(e); err != nil {
		t.Fatalf("06:00-23:00 应允许: %v", err)
	}

	e = validEntry()
	e.StartTime = "05:59"
	if _, ok := fieldsOf(t, validateEntry(e))["start_time"]; !ok {
		t.Error("05:59 开始应报 start_time 错误")
	}

	e = validEntry()
	e.StartTime, e.EndTime = "22:00", "23:01"
	if _, ok := fieldsOf(t, validateEntry(e))["end_time"]; !ok {
		t.Error("23:01 结束应报 end_time 错误")
	}
}

func TestValidateEntry_StartNotBeforeEnd(t *testing.T) {
	e := validEntry()
	e.StartTime, e.EndTime = "10:00", "10:00"
	if _, ok := fieldsOf(t, validateEntry(e))["end_time"]; !ok {
		t.Error("开始等于结束应报 end_time 错误")
	}
}

func TestValidateEntry_RequiredAndLength(t *testing.T) {
	e := validEntry()
	e.Date = "2026-02-30"
	e.RoomNumber = "   "
	e.Subject = strings.Repeat("x", 201)
	e.FacultyName = ""

	fields := fieldsOf(t, validateEntry(e))
	for _, f := range []string{"date", "room_number", "subject", "faculty_name"} {
		if _, ok := fields[f]; !ok {
			t.Errorf("期望字段 %s 报错，实际 %v", f, fields)
		}
	}
}

func TestValidateEntry_Tags(t *testing.T) {
	e := validEntry()
	for i := 0; i < maxTags+1; i++ {
		e.Tags = append(e.Tags, "t")
	}
	if _, ok := fieldsOf(t, validateEntry(e))["tags"]; !ok {
		t.Error("超过标签数量上限应报 tags 错误")
	}

	e = validEntry()
	e.Tags = model.StringArray{"ok", " ", strings.Repeat("y", maxTagLength+1)}
	fields := fieldsOf(t, validateEntry(e))
	if _, ok := fields["tags[1]"]; !ok {
		t.Error("空标签应报 tags[1] 错误")
	}
	if _, ok := fields["tags[2]"]; !ok {
		t.Error("过长标签应报 tags[2] 错误")
	}
}

func TestFindConflict(t *testing.T) {
	existing := []model.ScheduleEntry{
		{ID: "e1", Date: "2026-03-02", RoomNumber: "A101", StartTime: "09:00", EndTime: "10:00", Subject: "Calculus"},
		{ID: "e2", Date: "2026-03-02", RoomNumber: "B202", StartTime: "09:00", EndTime: "10:00", Subject: "Physics"},
	}

	tests := []struct {
		name      string
		candidate model.ScheduleEntry
		wantID    string
	}{
		{"同教室重叠", model.ScheduleEntry{Date: "2026-03-02", RoomNumber: "A101", StartTime: "09:30", EndTime: "10:30"}, "e1"},
		{"同教室相接", model.ScheduleEntry{Date: "2026-03-02", RoomNumber: "A101", StartTime: "10:00", EndTime: "11:00"}, ""},
		{"不同教室", model.ScheduleEntry{Date: "2026-03-02", RoomNumber: "C303", StartTime: "09:00", EndTime: "10:00"}, ""},
		{"不同日期", model.ScheduleEntry{Date: "2026-03-03", RoomNumber: "A101", StartTime: "09:00", EndTime: "10:00"}, ""},
		{"与自身比较跳过", model.ScheduleEntry{ID: "e1", Date: "2026-03-02", RoomNumber: "A101", StartTime: "09:15", EndTime: "09:45"}, ""},
	}

	for _, tt := range tests {
		got := findConflict(&tt.candidate, existing)
		switch {
		case tt.wantID == "" && got != nil:
			t.Errorf("%s: 期望无冲突，实际与 %s 冲突", tt.name, got.ID)
		case tt.wantID != "" && (got == nil || got.ID != tt.wantID):
			t.Errorf("%s: 期望与 %s 冲突，实际 %v", tt.name, tt.wantID, got)
		}
	}
}

func TestNewScheduleConflict_Message(t *testing.T) {
	err := newScheduleConflict(&model.ScheduleEntry{
		ID: "e1", Date: "2026-03-02", RoomNumber: "A101",
		StartTime: "09:00", EndTime: "10:00", Subject: "Calculus",
	})
	ce, ok := apperrors.AsConflict(err)
	if !ok {
		t.Fatalf("期望 ConflictError，实际 %T", err)
	}
	want := "Room A101 is already booked for Calculus from 09:00 to 10:00"
	if ce.Message != want {
		t.Errorf("期望 %q，实际 %q", want, ce.Message)
	}
}
