package book

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
)

// Service 图书目录领域服务
// 只负责目录信息的增删改查；库存的变更走inventory.Ledger
type Service interface {
	AddBook(ctx context.Context, title string, price decimal.Decimal, stock int, authorID uint, categoryID *uint) (*Book, error)
	GetBook(ctx context.Context, id uint) (*Book, error)
	UpdateBook(ctx context.Context, id uint, title string, price *decimal.Decimal, authorID uint, categoryID *uint) (*Book, error)
	DeleteBook(ctx context.Context, id uint) error
	ListBooks(ctx context.Context, params ListParams) ([]*Book, int64, error)
}

type service struct {
	repo Repository
}

// NewService 创建图书领域服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) AddBook(ctx context.Context, title string, price decimal.Decimal, stock int, authorID uint, categoryID *uint) (*Book, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrInvalidTitle
	}
	if !price.IsPositive() {
		return nil, ErrInvalidPrice
	}
	if stock < 0 {
		return nil, ErrInvalidStock
	}

	b := NewBook(title, price.Round(2), stock, authorID, categoryID)
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) GetBook(ctx context.Context, id uint) (*Book, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) UpdateBook(ctx context.Context, id uint, title string, price *decimal.Decimal, authorID uint, categoryID *uint) (*Book, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	b.UpdateInfo(strings.TrimSpace(title), authorID, categoryID)
	if price != nil {
		if err := b.UpdatePrice(price.Round(2)); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) DeleteBook(ctx context.Context, id uint) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *service) ListBooks(ctx context.Context, params ListParams) ([]*Book, int64, error) {
	params.Normalize()
	return s.repo.List(ctx, params)
}
