package service

import (
	"errors"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"

	apperrors "github.com/Afnanpathan2004/livedisplay-sub001/pkg/errors"
)

const dateLayout = "2006-01-02"

// validDate 严格校验 YYYY-MM-DD（拒绝 2025-1-5 这类非补零写法）
func validDate(s string) bool {
	if len(s) != len(dateLayout) {
		return false
	}
	_, err := time.Parse(dateLayout, s)
	return err == nil
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// requireText 去除首尾空白后校验非空与长度上限（按字符计）
func requireText(ve *apperrors.ValidationError, field string, value *string, max int) {
	*value = strings.TrimSpace(*value)
	switch {
	case *value == "":
		ve.Add(field, "is required")
	case utf8.RuneCountInString(*value) > max:
		ve.Add(field, "must be at most "+strconv.Itoa(max)+" characters")
	}
}

func strPtr(s string) *string { return &s }

func derefOr(p *string, def string) string {
	if p == nil {
		return def
	}
	return *p
}
