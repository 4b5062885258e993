package memory

import (
	"context"
	"sort"

	"github.com/xiebiao/bookstore-orders/internal/domain/inventory"
)

type inventoryLogRepository struct {
	store *Store
}

// NewInventoryLogRepository 创建库存流水仓储
func NewInventoryLogRepository(store *Store) inventory.LogRepository {
	return &inventoryLogRepository{store: store}
}

func (r *inventoryLogRepository) Append(ctx context.Context, logs ...*inventory.Log) error {
	return r.store.exec(ctx, func() error {
		for _, l := range logs {
			r.store.nextLogID++
			l.ID = r.store.nextLogID
			r.store.writeLogs()[l.ID] = *l
		}
		return nil
	})
}

func (r *inventoryLogRepository) ListByBookID(ctx context.Context, bookID uint) ([]*inventory.Log, error) {
	var result []*inventory.Log
	err := r.store.exec(ctx, func() error {
		for _, l := range r.store.logs {
			if l.BookID == bookID {
				l := l
				result = append(result, &l)
			}
		}
		return nil
	})
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, err
}
