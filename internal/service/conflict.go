package service

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Afnanpathan2004/livedisplay-sub001/internal/dto"
	"github.com/Afnanpathan2004/livedisplay-sub001/internal/model"
	apperrors "github.com/Afnanpathan2004/livedisplay-sub001/pkg/errors"
)

// 课表允许的时间窗口（自零点起的分钟数，两端均可取）
const (
	dayWindowStart = 6 * 60
	dayWindowEnd   = 23 * 60
)

const (
	maxTags      = 20
	maxTagLength = 50
)

// ParseClock 将 HH:mm 解析为自零点起的分钟数，仅接受两位补零写法
func ParseClock(s string) (int, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	for _, i := range []int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return 0, fmt.Errorf("invalid time %q", s)
		}
	}
	h := int(s[0]-'0')*10 + int(s[1]-'0')
	m := int(s[3]-'0')*10 + int(s[4]-'0')
	if h > 23 || m > 59 {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	return h*60 + m, nil
}

// Overlaps 判断半开区间 [aStart, aEnd) 与 [bStart, bEnd) 是否相交
// 首尾相接（一个 10:00 结束、另一个 10:00 开始）不算重叠
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && aEnd > bStart
}

// validateEntry 校验并规范化课表条目（去除文本字段首尾空白）
// 创建、更新与批量导入共用
func validateEntry(e *model.ScheduleEntry) error {
	ve := apperrors.NewValidationError()

	if !validDate(e.Date) {
		ve.Add("date", "must be a valid date in YYYY-MM-DD format")
	}

	start, startErr := ParseClock(e.StartTime)
	if startErr != nil {
		ve.Add("start_time", "must be in HH:mm format")
	}
	end, endErr := ParseClock(e.EndTime)
	if endErr != nil {
		ve.Add("end_time", "must be in HH:mm format")
	}
	if startErr == nil && endErr == nil {
		if start < dayWindowStart || start > dayWindowEnd {
			ve.Add("start_time", "must be between 06:00 and 23:00")
		}
		if end < dayWindowStart || end > dayWindowEnd {
			ve.Add("end_time", "must be between 06:00 and 23:00")
		}
		if start >= end {
			ve.Add("end_time", "must be after start_time")
		}
	}

	requireText(ve, "room_number", &e.RoomNumber, 20)
	requireText(ve, "subject", &e.Subject, 200)
	requireText(ve, "faculty_name", &e.FacultyName, 100)

	if len(e.Tags) > maxTags {
		ve.Add("tags", fmt.Sprintf("must contain at most %d tags", maxTags))
	}
	for i, tag := range e.Tags {
		tag = strings.TrimSpace(tag)
		e.Tags[i] = tag
		field := fmt.Sprintf("tags[%d]", i)
		switch {
		case tag == "":
			ve.Add(field, "must not be empty")
		case utf8.RuneCountInString(tag) > maxTagLength:
			ve.Add(field, fmt.Sprintf("must be at most %d characters", maxTagLength))
		}
	}

	if ve.HasErrors() {
		return ve
	}
	return nil
}

// findConflict 在同一天的条目中查找与候选条目同教室且时段重叠的第一条
// 候选条目自身（更新场景）会被排除；调用前候选条目须已通过 validateEntry
func findConflict(candidate *model.ScheduleEntry, sameDay []model.ScheduleEntry) *model.ScheduleEntry {
	start, _ := ParseClock(candidate.StartTime)
	end, _ := ParseClock(candidate.EndTime)

	for i := range sameDay {
		other := &sameDay[i]
		if other.ID == candidate.ID || other.RoomNumber != candidate.RoomNumber || other.Date != candidate.Date {
			continue
		}
		oStart, err1 := ParseClock(other.StartTime)
		oEnd, err2 := ParseClock(other.EndTime)
		if err1 != nil || err2 != nil {
			continue
		}
		if Overlaps(start, end, oStart, oEnd) {
			return other
		}
	}
	return nil
}

// newScheduleConflict 构造 409 错误，消息中包含教室、占用课程与时段
func newScheduleConflict(blocking *model.ScheduleEntry) *apperrors.ConflictError {
	return &apperrors.ConflictError{
		Message: fmt.Sprintf("Room %s is already booked for %s from %s to %s",
			blocking.RoomNumber, blocking.Subject, blocking.StartTime, blocking.EndTime),
		Conflicting: dto.ConflictDetail{
			ID:         blocking.ID,
			Date:       blocking.Date,
			RoomNumber: blocking.RoomNumber,
			Subject:    blocking.Subject,
			StartTime:  blocking.StartTime,
			EndTime:    blocking.EndTime,
		},
	}
}
