package order

import (
	"time"

	"github.com/google/uuid"
)

// 订单事件的routing key
const (
	EventCreated       = "order.created"
	EventStatusChanged = "order.status_changed"
	EventDeleted       = "order.deleted"
)

// Event 订单领域事件
// 在事务提交之后发布，消费者不能假设每个事件都一定送达
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	OrderID    uint      `json:"order_id"`
	CustomerID string    `json:"customer_id"`
	Status     string    `json:"status"`
	TotalPrice string    `json:"total_price"`
	LineCount  int       `json:"line_count"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewEvent 根据订单当前状态生成事件
func NewEvent(eventType string, o *Order, now time.Time) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		OrderID:    o.ID,
		CustomerID: o.CustomerID,
		Status:     o.Status.String(),
		TotalPrice: o.TotalPrice.StringFixed(2),
		LineCount:  len(o.Lines),
		OccurredAt: now.UTC(),
	}
}
