package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/xiebiao/bookstore-orders/internal/domain/inventory"
)

type inventoryLogRepository struct {
	db *gorm.DB
}

// NewInventoryLogRepository 创建库存流水仓储
func NewInventoryLogRepository(db *gorm.DB) inventory.LogRepository {
	return &inventoryLogRepository{db: db}
}

// Append 批量插入流水
func (r *inventoryLogRepository) Append(ctx context.Context, logs ...*inventory.Log) error {
	if len(logs) == 0 {
		return nil
	}

	models := make([]InventoryLogModel, len(logs))
	for i, l := range logs {
		models[i] = InventoryLogModel{
			BookID:      l.BookID,
			OrderID:     l.OrderID,
			ChangeType:  string(l.ChangeType),
			Quantity:    l.Quantity,
			BeforeStock: l.BeforeStock,
			AfterStock:  l.AfterStock,
			CreatedAt:   l.CreatedAt,
		}
	}
	if err := dbFrom(ctx, r.db).Create(&models).Error; err != nil {
		return dbError(err, "写入库存流水失败")
	}

	for i := range logs {
		logs[i].ID = models[i].ID
	}
	return nil
}

func (r *inventoryLogRepository) ListByBookID(ctx context.Context, bookID uint) ([]*inventory.Log, error) {
	var models []InventoryLogModel
	if err := dbFrom(ctx, r.db).Where("book_id = ?", bookID).Order("id ASC").Find(&models).Error; err != nil {
		return nil, dbError(err, "查询库存流水失败")
	}

	logs := make([]*inventory.Log, len(models))
	for i, m := range models {
		logs[i] = &inventory.Log{
			ID:          m.ID,
			BookID:      m.BookID,
			OrderID:     m.OrderID,
			ChangeType:  inventory.ChangeType(m.ChangeType),
			Quantity:    m.Quantity,
			BeforeStock: m.BeforeStock,
			AfterStock:  m.AfterStock,
			CreatedAt:   m.CreatedAt,
		}
	}
	return logs, nil
}
