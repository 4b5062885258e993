package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/xiebiao/bookstore-orders/internal/domain/order"
	apperrors "github.com/xiebiao/bookstore-orders/pkg/errors"
)

// orderRepository 订单仓储实现（MySQL）
// 1. 订单与明细是聚合关系，一起保存、一起删除
// 2. 查询时Preload明细，避免N+1
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓储
func NewOrderRepository(db *gorm.DB) order.Repository {
	return &orderRepository{db: db}
}

// Create 创建订单，GORM会一并插入Lines
func (r *orderRepository) Create(ctx context.Context, o *order.Order) error {
	model := toOrderModel(o)
	if err := dbFrom(ctx, r.db).Create(model).Error; err != nil {
		return dbError(err, "创建订单失败")
	}

	o.ID = model.ID
	for i := range o.Lines {
		o.Lines[i].OrderID = model.ID
	}
	return nil
}

func (r *orderRepository) FindByID(ctx context.Context, id uint) (*order.Order, error) {
	var model OrderModel
	err := dbFrom(ctx, r.db).Preload("Lines").First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.WithMessage(order.ErrOrderNotFound, "订单 %d 不存在", id)
		}
		return nil, dbError(err, "查询订单失败")
	}
	return toOrderEntity(&model), nil
}

func (r *orderRepository) find(query *gorm.DB) ([]*order.Order, error) {
	var models []OrderModel
	if err := query.Preload("Lines").Order("id ASC").Find(&models).Error; err != nil {
		return nil, dbError(err, "查询订单列表失败")
	}

	orders := make([]*order.Order, len(models))
	for i := range models {
		orders[i] = toOrderEntity(&models[i])
	}
	return orders, nil
}

func (r *orderRepository) ListByCustomerID(ctx context.Context, customerID string) ([]*order.Order, error) {
	return r.find(dbFrom(ctx, r.db).Where("customer_id = ?", customerID))
}

func (r *orderRepository) ListAll(ctx context.Context) ([]*order.Order, error) {
	return r.find(dbFrom(ctx, r.db))
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id uint, status order.Status) error {
	result := dbFrom(ctx, r.db).Model(&OrderModel{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":     int(status),
		"updated_at": time.Now().UTC(),
	})
	if result.Error != nil {
		return dbError(result.Error, "更新订单状态失败")
	}
	if result.RowsAffected == 0 {
		return apperrors.WithMessage(order.ErrOrderNotFound, "订单 %d 不存在", id)
	}
	return nil
}

// Delete 先删明细再删订单，调用方应在事务中执行
func (r *orderRepository) Delete(ctx context.Context, id uint) error {
	db := dbFrom(ctx, r.db)
	if err := db.Where("order_id = ?", id).Delete(&OrderLineModel{}).Error; err != nil {
		return dbError(err, "删除订单明细失败")
	}

	result := db.Delete(&OrderModel{}, id)
	if result.Error != nil {
		return dbError(result.Error, "删除订单失败")
	}
	if result.RowsAffected == 0 {
		return apperrors.WithMessage(order.ErrOrderNotFound, "订单 %d 不存在", id)
	}
	return nil
}

func toOrderModel(o *order.Order) *OrderModel {
	lines := make([]OrderLineModel, len(o.Lines))
	for i, l := range o.Lines {
		lines[i] = OrderLineModel{
			OrderID:   l.OrderID,
			BookID:    l.BookID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
		}
	}

	return &OrderModel{
		ID:         o.ID,
		CustomerID: o.CustomerID,
		OrderDate:  o.OrderDate,
		TotalPrice: o.TotalPrice,
		Status:     int(o.Status),
		Lines:      lines,
		CreatedAt:  o.CreatedAt,
		UpdatedAt:  o.UpdatedAt,
	}
}

func toOrderEntity(m *OrderModel) *order.Order {
	lines := make([]order.Line, len(m.Lines))
	for i, l := range m.Lines {
		lines[i] = order.Line{
			OrderID:   l.OrderID,
			BookID:    l.BookID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
		}
	}

	return &order.Order{
		ID:         m.ID,
		CustomerID: m.CustomerID,
		OrderDate:  m.OrderDate,
		TotalPrice: m.TotalPrice,
		Status:     order.Status(m.Status),
		Lines:      lines,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}
