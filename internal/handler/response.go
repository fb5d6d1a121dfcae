package handler

import (
	"errors"
	"net/http"

	"github.com/Hossein-79/Fortuna/internal/logic"
	"github.com/Hossein-79/Fortuna/internal/store"
	"github.com/gin-gonic/gin"
)

// 通用响应结构
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// SuccessResponse 成功响应
func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ErrorResponse 错误响应
func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, Response{
		Success: false,
		Message: message,
		Data:    nil,
	})
}

// statusForError 领域错误到HTTP状态码的映射
// 未识别的错误视为存储层故障，返回500（调用方可重试）
func statusForError(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrDuplicateId):
		return http.StatusConflict
	case errors.Is(err, store.ErrInvalidField), errors.Is(err, logic.ErrInvalidAmount):
		return http.StatusBadRequest
	case errors.Is(err, logic.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, logic.ErrCauseClosed),
		errors.Is(err, logic.ErrCauseExpired),
		errors.Is(err, logic.ErrCauseStillOpen),
		errors.Is(err, store.ErrAlreadyClosed):
		return http.StatusConflict
	case errors.Is(err, logic.ErrSettlementMismatch):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// AbortWithError 按错误类型返回响应
func AbortWithError(c *gin.Context, err error) {
	ErrorResponse(c, statusForError(err), err.Error())
}
