package main

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/xiebiao/bookstore-orders/internal/domain/order"
	"github.com/xiebiao/bookstore-orders/pkg/mq"
)

// newEventHandler 解析订单事件并记录
// 无法解析的消息直接确认丢弃，避免反复重投
func newEventHandler(log *zap.Logger) mq.Handler {
	return func(_ context.Context, msg mq.Message) error {
		var ev order.Event
		if err := json.Unmarshal(msg.Body, &ev); err != nil {
			log.Error("订单事件格式错误,已丢弃",
				zap.String("routing_key", msg.RoutingKey),
				zap.ByteString("body", msg.Body),
				zap.Error(err),
			)
			return nil
		}

		log.Info("订单事件",
			zap.String("event_id", ev.ID),
			zap.String("type", ev.Type),
			zap.Uint("order_id", ev.OrderID),
			zap.String("customer_id", ev.CustomerID),
			zap.String("status", ev.Status),
			zap.String("total_price", ev.TotalPrice),
			zap.Int("line_count", ev.LineCount),
			zap.Time("occurred_at", ev.OccurredAt),
		)
		return nil
	}
}
