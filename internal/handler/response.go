package handler

import (
	"github.com/gin-gonic/gin"
)

// Response 统一响应信封
// 前端依赖 ok 字段区分"请求失败"和"合法的空结果"，空列表必须以 ok:true 返回。
type Response struct {
	Ok      bool        `json:"ok"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Details string      `json:"details,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
}

// OkResponse 成功响应
func OkResponse(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, Response{
		Ok:   true,
		Data: data,
	})
}

// OkResponseWithMeta 带meta的成功响应
func OkResponseWithMeta(c *gin.Context, statusCode int, data interface{}, meta interface{}) {
	c.JSON(statusCode, Response{
		Ok:   true,
		Data: data,
		Meta: meta,
	})
}

// ErrorResponse 错误响应
func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, Response{
		Ok:    false,
		Error: message,
	})
}

// ErrorResponseWithDetails 带内部细节的错误响应
// 细节只在非生产模式下返回，生产环境只暴露通用信息。
func ErrorResponseWithDetails(c *gin.Context, statusCode int, message string, err error) {
	response := Response{
		Ok:    false,
		Error: message,
	}
	if gin.Mode() != gin.ReleaseMode && err != nil {
		response.Details = err.Error()
	}
	c.JSON(statusCode, response)
}
