package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Afnanpathan2004/livedisplay-sub001/pkg/response"
)

// ErrorHandler 统一记录挂在 gin.Context 上的错误。
// exposeErrors 为 true（开发环境）时 500 响应携带真实错误信息。
func ErrorHandler(logger *zap.Logger, exposeErrors bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(response.ExposeErrorsKey, exposeErrors)

		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", c.GetString(RequestIDKey)),
			zap.String("user_id", c.GetString("user_id")),
			zap.String("error_id", c.GetString(response.ErrorIDKey)),
			zap.Int("status", c.Writer.Status()),
		}
		for _, e := range c.Errors {
			logger.Error("请求处理出错", append(fields, zap.Error(e.Err))...)
		}
	}
}

// Recovery panic 恢复中间件，记录堆栈并返回 500
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			// 客户端断开导致的写失败不视为服务端错误
			if err, ok := rec.(error); ok && err == http.ErrAbortHandler {
				panic(rec)
			}

			logger.Error("请求处理 panic",
				zap.Any("panic", rec),
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", c.GetString(RequestIDKey)),
				zap.Stack("stack"),
			)
			if !c.Writer.Written() {
				response.InternalError(c, fmt.Errorf("panic: %v", rec))
			}
			c.Abort()
		}()

		c.Next()
	}
}
