// Package inventory 库存台账
//
// 设计说明：
// 1. 图书库存只能通过Ledger修改：下单扣减（Reserve + Commit）、管理员补货（Restock）
// 2. Reserve只做"加锁 + 校验 + 暂存"，不写库；Commit才真正扣减
// 3. 两者都必须在同一个数据库事务中调用，行锁一直持有到事务结束，
//    因此并发下单不会出现"都看到库存足够、都扣减成功"的超卖
package inventory

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/xiebiao/bookstore-orders/internal/domain/book"
	"github.com/xiebiao/bookstore-orders/pkg/tracing"
)

const tracerName = "inventory"

// Ledger 库存台账
type Ledger struct {
	books book.Repository
	logs  LogRepository
	now   func() time.Time
}

// NewLedger 创建库存台账
func NewLedger(books book.Repository, logs LogRepository) *Ledger {
	return &Ledger{
		books: books,
		logs:  logs,
		now:   time.Now,
	}
}

// Reserve 锁定图书并校验库存，返回带价格快照的预留
// 必须在事务context中调用
func (l *Ledger) Reserve(ctx context.Context, bookID uint, quantity int) (Reservation, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "Ledger.Reserve")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("book_id", int64(bookID)),
		attribute.Int("quantity", quantity),
	)

	if quantity <= 0 {
		return Reservation{}, ErrInvalidQuantity
	}

	b, err := l.books.LockByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, book.ErrBookNotFound) {
			return Reservation{}, newBookNotFound(bookID)
		}
		span.RecordError(err)
		return Reservation{}, err
	}

	if !b.HasStock(quantity) {
		return Reservation{}, newInsufficientStock(b, quantity)
	}

	return Reservation{
		BookID:      b.ID,
		Title:       b.Title,
		Quantity:    quantity,
		UnitPrice:   b.Price,
		StockBefore: b.Stock,
	}, nil
}

// Commit 把暂存的预留落库：逐条做带条件的扣减并记录流水
// 必须与Reserve处于同一事务；任何一条失败都应回滚整个事务
func (l *Ledger) Commit(ctx context.Context, orderID uint, rs *Reservations) error {
	ctx, span := tracing.StartSpan(ctx, tracerName, "Ledger.Commit")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("order_id", int64(orderID)),
		attribute.Int("lines", rs.Len()),
	)

	now := l.now()
	logs := make([]*Log, 0, rs.Len())
	for _, r := range rs.Items() {
		if err := l.books.UpdateStock(ctx, r.BookID, -r.Quantity); err != nil {
			span.RecordError(err)
			return err
		}

		oid := orderID
		logs = append(logs, &Log{
			BookID:      r.BookID,
			OrderID:     &oid,
			ChangeType:  ChangeDeduct,
			Quantity:    r.Quantity,
			BeforeStock: r.StockBefore,
			AfterStock:  r.StockBefore - r.Quantity,
			CreatedAt:   now,
		})
	}

	return l.logs.Append(ctx, logs...)
}

// Restock 补货
// 必须在事务context中调用（加锁 → 增加库存 → 记流水）
func (l *Ledger) Restock(ctx context.Context, bookID uint, quantity int) (*book.Book, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "Ledger.Restock")
	defer span.End()

	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	b, err := l.books.LockByID(ctx, bookID)
	if err != nil {
		return nil, err
	}

	before := b.Stock
	if err := l.books.UpdateStock(ctx, bookID, quantity); err != nil {
		return nil, err
	}
	if err := b.IncrStock(quantity); err != nil {
		return nil, err
	}

	err = l.logs.Append(ctx, &Log{
		BookID:      bookID,
		ChangeType:  ChangeRestock,
		Quantity:    quantity,
		BeforeStock: before,
		AfterStock:  b.Stock,
		CreatedAt:   l.now(),
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

// History 库存流水
func (l *Ledger) History(ctx context.Context, bookID uint) ([]*Log, error) {
	if _, err := l.books.FindByID(ctx, bookID); err != nil {
		return nil, err
	}
	return l.logs.ListByBookID(ctx, bookID)
}
