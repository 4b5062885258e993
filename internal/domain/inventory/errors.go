package inventory

import (
	"github.com/xiebiao/bookstore-orders/internal/domain/book"
	apperrors "github.com/xiebiao/bookstore-orders/pkg/errors"
)

var (
	// ErrBookNotFound 预留的图书不存在
	// 与目录查询的404不同，下单时引用不存在的图书属于请求错误（400）
	ErrBookNotFound = apperrors.New(apperrors.ErrCodeOrderBookNotFound, "图书不存在")

	// ErrInsufficientStock 库存不足
	ErrInsufficientStock = apperrors.ErrInsufficientStock

	// ErrInvalidQuantity 数量必须为正整数
	ErrInvalidQuantity = apperrors.New(apperrors.ErrCodeInvalidParams, "数量必须大于0")

	// ErrDuplicateReservation 同一事务中重复预留同一本书
	ErrDuplicateReservation = apperrors.New(apperrors.ErrCodeInternal, "重复预留同一本书")
)

func newBookNotFound(bookID uint) error {
	return apperrors.WithMessage(ErrBookNotFound, "图书 %d 不存在", bookID)
}

func newInsufficientStock(b *book.Book, want int) error {
	return apperrors.WithMessage(ErrInsufficientStock, "《%s》库存不足:剩余 %d,需要 %d", b.Title, b.Stock, want)
}
