package inventory

import (
	"context"
	"time"
)

// ChangeType 库存变更类型
type ChangeType string

const (
	ChangeDeduct  ChangeType = "DEDUCT"  // 下单扣减
	ChangeRestock ChangeType = "RESTOCK" // 管理员补货
)

// Log 库存变更流水（只追加，不修改）
// 每一次库存变化都留下 before/after 快照，便于对账
type Log struct {
	ID          uint
	BookID      uint
	OrderID     *uint // 扣减时关联的订单
	ChangeType  ChangeType
	Quantity    int // 变化量（正数）
	BeforeStock int
	AfterStock  int
	CreatedAt   time.Time
}

// LogRepository 库存流水仓储
type LogRepository interface {
	// Append 追加流水，应与库存变更在同一事务中调用
	Append(ctx context.Context, logs ...*Log) error

	// ListByBookID 按时间顺序查询某本书的流水
	ListByBookID(ctx context.Context, bookID uint) ([]*Log, error)
}
