package order

import (
	apperrors "github.com/xiebiao/bookstore-orders/pkg/errors"
)

// 订单领域错误定义
var (
	// ErrOrderNotFound 订单不存在
	ErrOrderNotFound = apperrors.ErrOrderNotFound

	// ErrEmptyOrder 订单明细为空
	ErrEmptyOrder = apperrors.New(apperrors.ErrCodeInvalidParams, "订单明细不能为空")

	// ErrInvalidQuantity 购买数量不合法
	ErrInvalidQuantity = apperrors.New(apperrors.ErrCodeInvalidParams, "购买数量必须大于0")

	// ErrInvalidUnitPrice 单价不合法
	ErrInvalidUnitPrice = apperrors.New(apperrors.ErrCodeInvalidParams, "单价不能为负数")

	// ErrDuplicateLine 同一订单中图书重复
	ErrDuplicateLine = apperrors.New(apperrors.ErrCodeInvalidParams, "同一订单中的图书不能重复")

	// ErrInvalidStatus 未定义的订单状态
	ErrInvalidStatus = apperrors.ErrInvalidOrderStatus
)
