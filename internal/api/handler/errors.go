package handler

import (
	"github.com/gin-gonic/gin"

	apperrors "github.com/Afnanpathan2004/livedisplay-sub001/pkg/errors"
	"github.com/Afnanpathan2004/livedisplay-sub001/pkg/response"
)

// 通用错误码
const (
	codeValidation = 10001
	codeConflict   = 10009
)

// bindFailed 请求绑定 / 校验失败
func bindFailed(c *gin.Context, err error) {
	response.ValidationFailed(c, codeValidation, err)
}

// handleTypedError 处理跨模块的类型化错误（字段校验、冲突）。
// 已写入响应时返回 true。
func handleTypedError(c *gin.Context, err error) bool {
	if _, ok := apperrors.AsValidation(err); ok {
		response.ValidationFailed(c, codeValidation, err)
		return true
	}
	if ce, ok := apperrors.AsConflict(err); ok {
		response.Conflict(c, codeConflict, ce.Message, ce.Conflicting)
		return true
	}
	return false
}
