package order

import (
	"context"
)

// Repository 订单仓储接口（依赖倒置原则）
// 教学要点：
// 1. 由domain层定义接口，infrastructure层实现
// 2. 订单与明细一起读写；事务通过context传递
type Repository interface {
	// Create 创建订单（包含订单明细），成功后回填ID
	Create(ctx context.Context, order *Order) error

	// FindByID 根据ID查找订单（包含订单明细）
	FindByID(ctx context.Context, id uint) (*Order, error)

	// ListByCustomerID 查询客户的全部订单（按ID升序）
	ListByCustomerID(ctx context.Context, customerID string) ([]*Order, error)

	// ListAll 查询全部订单（管理员）
	ListAll(ctx context.Context) ([]*Order, error)

	// UpdateStatus 更新订单状态
	UpdateStatus(ctx context.Context, id uint, status Status) error

	// Delete 删除订单及其明细
	Delete(ctx context.Context, id uint) error
}
