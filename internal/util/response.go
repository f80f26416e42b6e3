package util

import (
	"career_os_backend/pkg/logger"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// PageResponse 分页响应结构
type PageResponse struct {
	List  interface{} `json:"list"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    http.StatusOK,
		Message: "success",
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    http.StatusCreated,
		Message: "created",
		Data:    data,
	})
}

func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
	})
}

func Unauthorized(c *gin.Context) {
	Error(c, http.StatusUnauthorized, "Unauthorized")
}

func Forbidden(c *gin.Context) {
	Error(c, http.StatusForbidden, "Forbidden")
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

func NotFound(c *gin.Context) {
	Error(c, http.StatusNotFound, "Resource not found")
}

func Conflict(c *gin.Context, message string) {
	Error(c, http.StatusConflict, message)
}

func InternalServerError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "Internal server error")
}

func LogInternalError(c *gin.Context, err error) {
	logger.Log.Error("Internal server error", zap.Error(err))
	InternalServerError(c)
}

// RespondError 按错误分类映射 HTTP 状态码（见 errors.go 的分类）
func RespondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrPathNotFound),
		errors.Is(err, ErrStepNotFound),
		errors.Is(err, ErrEnrollmentNotFound),
		errors.Is(err, ErrUserNotFound):
		Error(c, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrStaleWrite):
		Conflict(c, err.Error())
	case errors.Is(err, ErrAlreadyEnrolled):
		Conflict(c, err.Error())
	case errors.Is(err, ErrGraphDeadlock):
		Error(c, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, ErrEmptyTargetSkills),
		errors.Is(err, ErrInvalidStepType),
		errors.Is(err, ErrForeignPrereq),
		errors.Is(err, ErrInvalidProgress),
		errors.Is(err, ErrEnrollmentInactive),
		errors.Is(err, ErrStepNotReopenable),
		errors.Is(err, ErrEnrollmentNotPaused),
		errors.Is(err, ErrNoStrugglingAreas):
		BadRequest(c, err.Error())
	default:
		LogInternalError(c, err)
	}
}
