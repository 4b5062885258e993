package dto

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/xiebiao/bookstore-orders/internal/domain/order"
)

// OrderLineRequest 下单明细
// 数量/图书是否存在由用例校验，以便返回统一的业务错误码
type OrderLineRequest struct {
	BookID   uint `json:"bookId" example:"1"`
	Quantity int  `json:"quantity" example:"2"`
}

// CreateOrderRequest 下单请求体是明细数组
type CreateOrderRequest []OrderLineRequest

// StatusValue 订单状态请求体
// 同时接受名称（"Paid"，忽略大小写）和枚举序号（1）
type StatusValue string

func (s *StatusValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		*s = StatusValue(name)
		return nil
	}

	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("status must be a name or a number: %w", err)
	}
	*s = StatusValue(order.Status(n).String())
	return nil
}
