package service

import (
	"fmt"
	"io"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/Afnanpathan2004/livedisplay-sub001/internal/dto"
	"github.com/Afnanpathan2004/livedisplay-sub001/internal/model"
)

// ── ICS 日历导入导出 ──
//
// 导出时每条课表条目对应一个 VEVENT：
//   - DTSTART / DTEND 使用浮动本地时间（无 Z、无 TZID），与显示屏所在地时间一致
//   - SUMMARY = subject，LOCATION = room_number，DESCRIPTION = faculty_name
//   - CATEGORIES = tags（逗号分隔）
// 导入时按同样的映射还原；RRULE 仅展开首次出现（课表按日期逐条维护）。

const (
	icsProductID   = "-//LiveBoard//Schedule//EN"
	icsFloatLayout = "20060102T150405"
	icsUIDSuffix   = "@liveboard"
)

// buildCalendar 将课表条目序列化为 iCalendar 文本
func buildCalendar(entries []model.ScheduleEntry, stamp time.Time) (string, error) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(icsProductID)

	for _, e := range entries {
		start, err := time.ParseInLocation(dateLayout+" 15:04", e.Date+" "+e.StartTime, time.Local)
		if err != nil {
			return "", fmt.Errorf("条目 %s 开始时间无效: %w", e.ID, err)
		}
		end, err := time.ParseInLocation(dateLayout+" 15:04", e.Date+" "+e.EndTime, time.Local)
		if err != nil {
			return "", fmt.Errorf("条目 %s 结束时间无效: %w", e.ID, err)
		}

		evt := cal.AddEvent(e.ID + icsUIDSuffix)
		evt.SetDtStampTime(stamp)
		evt.SetProperty(ics.ComponentPropertyDtStart, start.Format(icsFloatLayout))
		evt.SetProperty(ics.ComponentPropertyDtEnd, end.Format(icsFloatLayout))
		evt.SetSummary(e.Subject)
		evt.SetLocation(e.RoomNumber)
		evt.SetDescription(e.FacultyName)
		if len(e.Tags) > 0 {
			escaped := make([]string, len(e.Tags))
			for i, t := range e.Tags {
				escaped[i] = escapeICSText(t)
			}
			evt.SetProperty(ics.ComponentPropertyCategories, strings.Join(escaped, ","))
		}
	}

	return cal.Serialize(), nil
}

// parseCalendar 将 iCalendar 文本解析为课表创建请求
// 字段缺失的事件仍会返回，由导入流程逐行校验并报告
func parseCalendar(r io.Reader, loc *time.Location) ([]dto.ScheduleEntryRequest, error) {
	cal, err := ics.ParseCalendar(r)
	if err != nil {
		return nil, fmt.Errorf("解析 ICS 失败: %w", err)
	}

	events := cal.Events()
	out := make([]dto.ScheduleEntryRequest, 0, len(events))
	for _, evt := range events {
		req := dto.ScheduleEntryRequest{
			Subject:     icsText(evt, ics.ComponentPropertySummary),
			RoomNumber:  icsText(evt, ics.ComponentPropertyLocation),
			FacultyName: icsText(evt, ics.ComponentPropertyDescription),
		}

		if start, err := parseICSDateTime(evt, ics.ComponentPropertyDtStart, loc); err == nil {
			req.Date = start.Format(dateLayout)
			req.StartTime = start.Format("15:04")

			if end, err := parseICSDateTime(evt, ics.ComponentPropertyDtEnd, loc); err == nil {
				req.EndTime = end.Format("15:04")
			} else if d := evt.GetProperty(ics.ComponentProperty(ics.PropertyDuration)); d != nil {
				if dur, err := parseICSDuration(d.Value); err == nil {
					req.EndTime = start.Add(dur).Format("15:04")
				}
			}
		}

		if cats := evt.GetProperty(ics.ComponentPropertyCategories); cats != nil && cats.Value != "" {
			for _, tag := range splitICSList(cats.Value) {
				req.Tags = append(req.Tags, unescapeICSText(tag))
			}
		}

		out = append(out, req)
	}
	return out, nil
}

// ── 辅助函数 ──

func icsText(evt *ics.VEvent, prop ics.ComponentProperty) string {
	p := evt.GetProperty(prop)
	if p == nil {
		return ""
	}
	return unescapeICSText(p.Value)
}

// parseICSDateTime 从 VEVENT 中解析日期时间属性，统一换算到 loc
func parseICSDateTime(evt *ics.VEvent, propName ics.ComponentProperty, loc *time.Location) (time.Time, error) {
	prop := evt.GetProperty(propName)
	if prop == nil {
		return time.Time{}, fmt.Errorf("missing property %s", propName)
	}
	val := prop.Value

	tzid := ""
	for k, v := range prop.ICalParameters {
		if strings.EqualFold(k, "TZID") && len(v) > 0 {
			tzid = v[0]
		}
	}

	for _, layout := range []string{"20060102T150405Z", icsFloatLayout, "20060102"} {
		t, err := time.Parse(layout, val)
		if err != nil {
			continue
		}
		if strings.HasSuffix(layout, "Z") {
			return t.In(loc), nil
		}
		if tzid != "" {
			if tzLoc, err := time.LoadLocation(tzid); err == nil {
				return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, tzLoc).In(loc), nil
			}
		}
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc), nil
	}

	return time.Time{}, fmt.Errorf("无法解析日期: %s", val)
}

// parseICSDuration 解析 PT1H30M 形式的时长（仅支持天/时/分/秒）
func parseICSDuration(v string) (time.Duration, error) {
	s := strings.TrimPrefix(strings.ToUpper(v), "+")
	if !strings.HasPrefix(s, "P") {
		return 0, fmt.Errorf("invalid duration %q", v)
	}
	s = s[1:]

	var (
		total  time.Duration
		num    int
		inTime bool
		digits bool
	)
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			num = num*10 + int(r-'0')
			digits = true
		case r == 'T':
			inTime = true
		case r == 'W' && digits:
			total += time.Duration(num) * 7 * 24 * time.Hour
		case r == 'D' && digits:
			total += time.Duration(num) * 24 * time.Hour
		case r == 'H' && inTime && digits:
			total += time.Duration(num) * time.Hour
		case r == 'M' && inTime && digits:
			total += time.Duration(num) * time.Minute
		case r == 'S' && inTime && digits:
			total += time.Duration(num) * time.Second
		default:
			return 0, fmt.Errorf("invalid duration %q", v)
		}
		if r < '0' || r > '9' {
			num, digits = 0, false
		}
	}
	return total, nil
}

var (
	icsEscaper   = strings.NewReplacer(`\`, `\\`, `;`, `\;`, `,`, `\,`, "\n", `\n`)
	icsUnescaper = strings.NewReplacer(`\\`, `\`, `\;`, `;`, `\,`, `,`, `\n`, "\n", `\N`, "\n")
)

func escapeICSText(s string) string   { return icsEscaper.Replace(s) }
func unescapeICSText(s string) string { return icsUnescaper.Replace(s) }

// splitICSList 按未转义的逗号拆分 CATEGORIES 值
func splitICSList(v string) []string {
	var (
		parts   []string
		cur     strings.Builder
		escaped bool
	)
	for _, r := range v {
		switch {
		case escaped:
			cur.WriteRune('\\')
			cur.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == ',':
			parts = append(parts, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	parts = append(parts, cur.String())
	return parts
}
