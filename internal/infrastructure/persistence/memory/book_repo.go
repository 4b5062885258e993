package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/xiebiao/bookstore-orders/internal/domain/book"
	apperrors "github.com/xiebiao/bookstore-orders/pkg/errors"
)

type bookRepository struct {
	store *Store
}

// NewBookRepository 创建图书仓储
func NewBookRepository(store *Store) book.Repository {
	return &bookRepository{store: store}
}

func (r *bookRepository) Create(ctx context.Context, b *book.Book) error {
	return r.store.exec(ctx, func() error {
		r.store.nextBookID++
		b.ID = r.store.nextBookID
		now := time.Now()
		if b.CreatedAt.IsZero() {
			b.CreatedAt = now
		}
		b.UpdatedAt = now
		r.store.writeBooks()[b.ID] = *b
		return nil
	})
}

func (r *bookRepository) get(id uint) (*book.Book, error) {
	b, ok := r.store.books[id]
	if !ok {
		return nil, apperrors.WithMessage(book.ErrBookNotFound, "图书 %d 不存在", id)
	}
	return &b, nil
}

func (r *bookRepository) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	var found *book.Book
	err := r.store.exec(ctx, func() (err error) {
		found, err = r.get(id)
		return err
	})
	return found, err
}

func (r *bookRepository) FindByIDs(ctx context.Context, ids []uint) (map[uint]*book.Book, error) {
	result := make(map[uint]*book.Book, len(ids))
	err := r.store.exec(ctx, func() error {
		for _, id := range ids {
			if b, ok := r.store.books[id]; ok {
				result[id] = &b
			}
		}
		return nil
	})
	return result, err
}

// Update 只更新目录字段，库存保持存储中的值
func (r *bookRepository) Update(ctx context.Context, b *book.Book) error {
	return r.store.exec(ctx, func() error {
		cur, err := r.get(b.ID)
		if err != nil {
			return err
		}
		cur.Title = b.Title
		cur.Price = b.Price
		cur.AuthorID = b.AuthorID
		cur.CategoryID = b.CategoryID
		cur.UpdatedAt = time.Now()
		r.store.writeBooks()[b.ID] = *cur

		b.Stock = cur.Stock
		b.UpdatedAt = cur.UpdatedAt
		return nil
	})
}

func (r *bookRepository) Delete(ctx context.Context, id uint) error {
	return r.store.exec(ctx, func() error {
		if _, err := r.get(id); err != nil {
			return err
		}
		delete(r.store.writeBooks(), id)
		return nil
	})
}

func (r *bookRepository) List(ctx context.Context, params book.ListParams) ([]*book.Book, int64, error) {
	params.Normalize()
	keyword := strings.ToLower(strings.TrimSpace(params.Keyword))

	var (
		page  []*book.Book
		total int64
	)
	err := r.store.exec(ctx, func() error {
		matched := make([]*book.Book, 0, len(r.store.books))
		for _, b := range r.store.books {
			if keyword != "" && !strings.Contains(strings.ToLower(b.Title), keyword) {
				continue
			}
			b := b
			matched = append(matched, &b)
		}
		sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

		total = int64(len(matched))
		start := min(params.Offset(), len(matched))
		end := min(start+params.PageSize, len(matched))
		page = matched[start:end]
		return nil
	})
	return page, total, err
}

// LockByID 事务内的读取；整个事务已独占存储，无需额外加锁
func (r *bookRepository) LockByID(ctx context.Context, id uint) (*book.Book, error) {
	return r.FindByID(ctx, id)
}

func (r *bookRepository) UpdateStock(ctx context.Context, id uint, delta int) error {
	return r.store.exec(ctx, func() error {
		b, err := r.get(id)
		if err != nil {
			return err
		}
		if b.Stock+delta < 0 {
			return apperrors.WithMessage(book.ErrInsufficientStock, "《%s》库存不足:剩余 %d,需要 %d", b.Title, b.Stock, -delta)
		}
		b.Stock += delta
		b.UpdatedAt = time.Now()
		r.store.writeBooks()[id] = *b
		return nil
	})
}
