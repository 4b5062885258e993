package book

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/bookstore-orders/internal/domain/book"
	"github.com/xiebiao/bookstore-orders/internal/domain/inventory"
	"github.com/xiebiao/bookstore-orders/pkg/logger"
	"github.com/xiebiao/bookstore-orders/pkg/metrics"
)

// TxManager 事务管理器
type TxManager interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// InventoryUseCase 补货与库存流水查询（管理员）
type InventoryUseCase struct {
	tx     TxManager
	ledger *inventory.Ledger
}

// NewInventoryUseCase 创建库存用例
func NewInventoryUseCase(tx TxManager, ledger *inventory.Ledger) *InventoryUseCase {
	return &InventoryUseCase{tx: tx, ledger: ledger}
}

// Restock 补货，加锁、加库存、写流水在同一事务中完成
func (uc *InventoryUseCase) Restock(ctx context.Context, bookID uint, quantity int) (*BookView, error) {
	var restocked *book.Book
	err := uc.tx.Transaction(ctx, func(ctx context.Context) error {
		b, err := uc.ledger.Restock(ctx, bookID, quantity)
		if err != nil {
			return err
		}
		restocked = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.StockChangedTotal.WithLabelValues(string(inventory.ChangeRestock)).Add(float64(quantity))
	logger.FromContext(ctx).Info("补货完成",
		zap.Uint("book_id", bookID),
		zap.Int("quantity", quantity),
		zap.Int("stock", restocked.Stock),
	)
	return toView(restocked), nil
}

// History 某本书的库存流水（按时间顺序）
func (uc *InventoryUseCase) History(ctx context.Context, bookID uint) ([]*InventoryLogView, error) {
	logs, err := uc.ledger.History(ctx, bookID)
	if err != nil {
		return nil, err
	}

	views := make([]*InventoryLogView, len(logs))
	for i, l := range logs {
		views[i] = toLogView(l)
	}
	return views, nil
}
