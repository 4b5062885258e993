// Package messaging 订单事件发布
package messaging

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/bookstore-orders/internal/domain/order"
	"github.com/xiebiao/bookstore-orders/pkg/circuitbreaker"
	"github.com/xiebiao/bookstore-orders/pkg/mq"
)

// publisher 底层消息发布接口，便于测试替换
type publisher interface {
	Publish(ctx context.Context, routingKey string, message interface{}) error
}

// OrderEventPublisher 经熔断器保护的订单事件发布者
type OrderEventPublisher struct {
	pub     publisher
	breaker *circuitbreaker.CircuitBreaker
	timeout time.Duration
	log     *zap.Logger
}

// NewOrderEventPublisher 创建订单事件发布者
// 连续5次发布失败后熔断30秒，熔断期间直接丢弃事件
func NewOrderEventPublisher(pub *mq.Publisher, log *zap.Logger) *OrderEventPublisher {
	return newOrderEventPublisher(pub, log)
}

func newOrderEventPublisher(pub publisher, log *zap.Logger) *OrderEventPublisher {
	breaker := circuitbreaker.NewCircuitBreaker("order-events", circuitbreaker.Config{
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(c circuitbreaker.Counts) bool {
			return c.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to circuitbreaker.State) {
			log.Warn("熔断器状态变化",
				zap.String("breaker", name),
				zap.Stringer("from", from),
				zap.Stringer("to", to),
			)
		},
	})

	return &OrderEventPublisher{
		pub:     pub,
		breaker: breaker,
		timeout: 2 * time.Second,
		log:     log,
	}
}

// Publish 发布订单事件
func (p *OrderEventPublisher) Publish(ctx context.Context, ev order.Event) error {
	// 不继承请求的取消：请求返回后事件仍应尽量发出
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()

	return p.breaker.Execute(func() error {
		return p.pub.Publish(ctx, ev.Type, ev)
	})
}

// NopPublisher 未启用消息队列时使用
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, order.Event) error { return nil }
