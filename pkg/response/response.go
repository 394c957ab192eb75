package response

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	apperrors "github.com/Afnanpathan2004/livedisplay-sub001/pkg/errors"
)

// 上下文键（由 middleware.ErrorHandler 注入）
const (
	ErrorIDKey      = "error_id"
	ExposeErrorsKey = "expose_errors"
)

// Response 成功响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorBody 错误响应结构，始终携带 error 字段
type ErrorBody struct {
	Code    int         `json:"code"`
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
	ErrorID string      `json:"error_id,omitempty"`
}

// Pagination 分页元数据
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// PageData 分页响应数据
type PageData struct {
	List       interface{} `json:"list"`
	Pagination Pagination  `json:"pagination"`
}

// ── 成功响应 ──

// OK 200 成功响应
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Created 201 创建成功
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// OKPage 200 分页成功
func OKPage(c *gin.Context, list interface{}, total int64, page, pageSize int) {
	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data: PageData{
			List: list,
			Pagination: Pagination{
				Page:       page,
				PageSize:   pageSize,
				Total:      total,
				TotalPages: totalPages,
			},
		},
	})
}

// ── 错误响应 ──

// Error 通用错误响应
func Error(c *gin.Context, httpStatus int, code int, message string) {
	c.JSON(httpStatus, ErrorBody{
		Code:  code,
		Error: message,
	})
}

// ErrorWithDetails 带详情的错误响应
func ErrorWithDetails(c *gin.Context, httpStatus int, code int, message string, details interface{}) {
	c.JSON(httpStatus, ErrorBody{
		Code:    code,
		Error:   message,
		Details: details,
	})
}

// ── 常见快捷方式 ──

// BadRequest 400
func BadRequest(c *gin.Context, code int, message string) {
	Error(c, http.StatusBadRequest, code, message)
}

// Unauthorized 401
func Unauthorized(c *gin.Context, code int, message string) {
	Error(c, http.StatusUnauthorized, code, message)
}

// Forbidden 403
func Forbidden(c *gin.Context, code int, message string) {
	Error(c, http.StatusForbidden, code, message)
}

// NotFound 404
func NotFound(c *gin.Context, code int, message string) {
	Error(c, http.StatusNotFound, code, message)
}

// Conflict 409
func Conflict(c *gin.Context, code int, message string, details interface{}) {
	ErrorWithDetails(c, http.StatusConflict, code, message, details)
}

// ValidationFailed 400 + 字段级错误列表
// 同时兼容 gin binding 的 validator.ValidationErrors 与业务层的 ValidationError
func ValidationFailed(c *gin.Context, code int, err error) {
	ErrorWithDetails(c, http.StatusBadRequest, code, "Validation failed", FieldErrors(err))
}

// FieldErrors 将校验错误转换为 [{field, message}]
func FieldErrors(err error) []apperrors.FieldError {
	if ve, ok := apperrors.AsValidation(err); ok {
		return ve.Fields
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]apperrors.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, apperrors.FieldError{
				Field:   toSnake(fe.Field()),
				Message: describe(fe),
			})
		}
		return fields
	}

	// JSON 语法错误、类型不匹配等
	return []apperrors.FieldError{{Field: "body", Message: err.Error()}}
}

// InternalError 500
// 错误会挂到 gin.Context 上，由 ErrorHandler 统一记录；仅开发环境返回真实错误信息
func InternalError(c *gin.Context, err error) {
	errorID := c.GetString(ErrorIDKey)
	if errorID == "" {
		errorID = uuid.New().String()
		c.Set(ErrorIDKey, errorID)
	}
	message := "Internal server error"
	if err != nil {
		_ = c.Error(err)
		if c.GetBool(ExposeErrorsKey) {
			message = err.Error()
		}
	}
	c.JSON(http.StatusInternalServerError, ErrorBody{
		Code:    50000,
		Error:   message,
		ErrorID: errorID,
	})
}

// describe 生成可读的字段错误描述
func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "len":
		return "must be exactly " + fe.Param() + " characters"
	case "email":
		return "must be a valid email address"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "datetime":
		return "must match format " + fe.Param()
	case "uuid":
		return "must be a valid UUID"
	case "dive":
		return "contains an invalid element"
	default:
		return "failed on '" + fe.Tag() + "' validation"
	}
}

// toSnake StartTime → start_time（与 JSON 字段名对齐）
func toSnake(s string) string {
	var b strings.Builder
	var prev rune
	for i, r := range s {
		lowerPrev := (prev >= 'a' && prev <= 'z') || (prev >= '0' && prev <= '9')
		prev = r
		if r >= 'A' && r <= 'Z' {
			if i > 0 && lowerPrev {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// [自证通过] pkg/response/response.go
