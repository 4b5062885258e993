package order

import (
	"context"

	"github.com/xiebiao/bookstore-orders/internal/domain/order"
)

// TxManager 事务管理器（MySQL / 内存实现）
type TxManager interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher 订单事件发布，在事务提交后调用，失败只记日志
type EventPublisher interface {
	Publish(ctx context.Context, ev order.Event) error
}
