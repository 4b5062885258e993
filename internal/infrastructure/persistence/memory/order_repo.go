package memory

import (
	"context"
	"sort"
	"time"

	"github.com/xiebiao/bookstore-orders/internal/domain/order"
	apperrors "github.com/xiebiao/bookstore-orders/pkg/errors"
)

type orderRepository struct {
	store *Store
}

// NewOrderRepository 创建订单仓储
func NewOrderRepository(store *Store) order.Repository {
	return &orderRepository{store: store}
}

// cloneOrder 返回独立副本，调用方修改明细不会影响存储
func cloneOrder(o order.Order) *order.Order {
	o.Lines = append([]order.Line(nil), o.Lines...)
	return &o
}

func (r *orderRepository) Create(ctx context.Context, o *order.Order) error {
	return r.store.exec(ctx, func() error {
		r.store.nextOrderID++
		o.ID = r.store.nextOrderID
		for i := range o.Lines {
			o.Lines[i].OrderID = o.ID
		}
		r.store.writeOrders()[o.ID] = *cloneOrder(*o)
		return nil
	})
}

func (r *orderRepository) get(id uint) (*order.Order, error) {
	o, ok := r.store.orders[id]
	if !ok {
		return nil, apperrors.WithMessage(order.ErrOrderNotFound, "订单 %d 不存在", id)
	}
	return cloneOrder(o), nil
}

func (r *orderRepository) FindByID(ctx context.Context, id uint) (*order.Order, error) {
	var found *order.Order
	err := r.store.exec(ctx, func() (err error) {
		found, err = r.get(id)
		return err
	})
	return found, err
}

func (r *orderRepository) list(keep func(order.Order) bool) []*order.Order {
	result := make([]*order.Order, 0)
	for _, o := range r.store.orders {
		if keep(o) {
			result = append(result, cloneOrder(o))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

func (r *orderRepository) ListByCustomerID(ctx context.Context, customerID string) ([]*order.Order, error) {
	var result []*order.Order
	err := r.store.exec(ctx, func() error {
		result = r.list(func(o order.Order) bool { return o.CustomerID == customerID })
		return nil
	})
	return result, err
}

func (r *orderRepository) ListAll(ctx context.Context) ([]*order.Order, error) {
	var result []*order.Order
	err := r.store.exec(ctx, func() error {
		result = r.list(func(order.Order) bool { return true })
		return nil
	})
	return result, err
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id uint, status order.Status) error {
	return r.store.exec(ctx, func() error {
		o, err := r.get(id)
		if err != nil {
			return err
		}
		o.Status = status
		o.UpdatedAt = time.Now()
		r.store.writeOrders()[id] = *o
		return nil
	})
}

func (r *orderRepository) Delete(ctx context.Context, id uint) error {
	return r.store.exec(ctx, func() error {
		if _, err := r.get(id); err != nil {
			return err
		}
		delete(r.store.writeOrders(), id)
		return nil
	})
}
