package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"jobportal/internal/api/middleware"
	"jobportal/internal/errcode"
)

// Error 写出统一的错误响应体。
func Error(c *gin.Context, status int, code int, msg, reason string) {
	c.JSON(status, gin.H{"error": msg, "code": code, "reason": reason})
}

// Fail 根据错误分类写出响应：原始错误只进日志，不会返回给客户端。
func Fail(c *gin.Context, err error) {
	status := errcode.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		middleware.LoggerFromContext(c).Error("request failed", slog.Any("error", err))
	}
	Error(c, status, errcode.Code(err), errcode.PublicMessage(err), errcode.Reason(err))
}

// BadRequest 用于请求体无法解析的情况。
func BadRequest(c *gin.Context, msg string) {
	Error(c, http.StatusBadRequest, errcode.InvalidInput, msg, "")
}

// TooManyRequests 用于登录限流与锁定。
func TooManyRequests(c *gin.Context, msg string) {
	Error(c, http.StatusTooManyRequests, errcode.InvalidInput, msg, "RateLimited")
}

func pathID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, strconv.IntSize)
	if err != nil || id == 0 {
		return 0, errcode.Invalid("id", "must be a positive integer")
	}
	return uint(id), nil
}
