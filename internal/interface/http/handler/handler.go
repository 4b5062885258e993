// Package handler HTTP处理器
// 只负责参数绑定、调用用例、输出响应；业务规则都在应用层和领域层
package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/xiebiao/bookstore-orders/pkg/errors"
	"github.com/xiebiao/bookstore-orders/pkg/response"
)

// bindJSON 绑定失败时直接写400并返回false
func bindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		response.Error(c, apperrors.WithMessage(apperrors.ErrBindError, "参数格式错误: %v", err))
		return false
	}
	return true
}

// uintParam 解析路径中的数字ID
func uintParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		response.Error(c, apperrors.WithMessage(apperrors.ErrInvalidParams, "无效的%s: %q", name, c.Param(name)))
		return 0, false
	}
	return uint(id), true
}
