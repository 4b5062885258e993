package order

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/bookstore-orders/internal/domain/auth"
	"github.com/xiebiao/bookstore-orders/internal/domain/book"
	"github.com/xiebiao/bookstore-orders/internal/domain/order"
	"github.com/xiebiao/bookstore-orders/internal/domain/user"
	"github.com/xiebiao/bookstore-orders/pkg/logger"
)

// SetStatusUseCase 修改订单状态
// 只有订单所有者可以修改（管理员也不例外）；不校验状态流转顺序
type SetStatusUseCase struct {
	tx     TxManager
	orders order.Repository
	events EventPublisher
	now    func() time.Time
}

// NewSetStatusUseCase 创建修改状态用例
func NewSetStatusUseCase(tx TxManager, orders order.Repository, events EventPublisher) *SetStatusUseCase {
	return &SetStatusUseCase{tx: tx, orders: orders, events: events, now: time.Now}
}

// Execute 先确认订单存在，再做归属检查
func (uc *SetStatusUseCase) Execute(ctx context.Context, p auth.Principal, orderID uint, statusName string) error {
	status, err := order.ParseStatus(statusName)
	if err != nil {
		return err
	}

	var updated *order.Order
	err = uc.tx.Transaction(ctx, func(txCtx context.Context) error {
		o, err := uc.orders.FindByID(txCtx, orderID)
		if err != nil {
			return err
		}
		if err := auth.RequireOwner(p, o.CustomerID); err != nil {
			return err
		}
		if err := o.SetStatus(status); err != nil {
			return err
		}
		if err := uc.orders.UpdateStatus(txCtx, o.ID, o.Status); err != nil {
			return err
		}
		updated = o
		return nil
	})
	if err != nil {
		return err
	}

	logger.FromContext(ctx).Info("订单状态已修改",
		zap.Uint("order_id", orderID),
		zap.Stringer("status", status),
	)
	publish(ctx, uc.events, order.NewEvent(order.EventStatusChanged, updated, uc.now()))
	return nil
}

// DeleteOrderUseCase 删除订单
// 删除订单与明细，不回补库存
type DeleteOrderUseCase struct {
	tx     TxManager
	orders order.Repository
	events EventPublisher
	now    func() time.Time
}

// NewDeleteOrderUseCase 创建删除订单用例
func NewDeleteOrderUseCase(tx TxManager, orders order.Repository, events EventPublisher) *DeleteOrderUseCase {
	return &DeleteOrderUseCase{tx: tx, orders: orders, events: events, now: time.Now}
}

func (uc *DeleteOrderUseCase) Execute(ctx context.Context, p auth.Principal, orderID uint) error {
	var deleted *order.Order
	err := uc.tx.Transaction(ctx, func(txCtx context.Context) error {
		o, err := uc.orders.FindByID(txCtx, orderID)
		if err != nil {
			return err
		}
		if err := auth.RequireOwner(p, o.CustomerID); err != nil {
			return err
		}
		if err := uc.orders.Delete(txCtx, o.ID); err != nil {
			return err
		}
		deleted = o
		return nil
	})
	if err != nil {
		return err
	}

	logger.FromContext(ctx).Info("订单已删除", zap.Uint("order_id", orderID))
	publish(ctx, uc.events, order.NewEvent(order.EventDeleted, deleted, uc.now()))
	return nil
}

// QueryOrdersUseCase 订单查询
type QueryOrdersUseCase struct {
	orders order.Repository
	views  viewAssembler
}

// NewQueryOrdersUseCase 创建订单查询用例
func NewQueryOrdersUseCase(orders order.Repository, books book.Repository, users user.Repository) *QueryOrdersUseCase {
	return &QueryOrdersUseCase{
		orders: orders,
		views:  viewAssembler{books: books, users: users},
	}
}

// ListMine 当前客户的全部订单
func (uc *QueryOrdersUseCase) ListMine(ctx context.Context, p auth.Principal) ([]OrderView, error) {
	orders, err := uc.orders.ListByCustomerID(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	return uc.views.assemble(ctx, orders)
}

// ListAll 全部订单（调用方需已通过Admin角色检查）
func (uc *QueryOrdersUseCase) ListAll(ctx context.Context) ([]OrderView, error) {
	orders, err := uc.orders.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return uc.views.assemble(ctx, orders)
}

// Get 查询单个订单，所有者或管理员可见
func (uc *QueryOrdersUseCase) Get(ctx context.Context, p auth.Principal, orderID uint) (*OrderView, error) {
	o, err := uc.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := auth.RequireOwnerOrAdmin(p, o.CustomerID); err != nil {
		return nil, err
	}
	return uc.views.one(ctx, o)
}
