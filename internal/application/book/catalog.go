package book

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/xiebiao/bookstore-orders/internal/domain/book"
	"github.com/xiebiao/bookstore-orders/pkg/logger"
)

// CatalogUseCase 图书目录用例
// 应用层只做编排和DTO转换，业务规则由book.Service负责
// 目录编辑不修改库存，库存只走InventoryUseCase
type CatalogUseCase struct {
	svc book.Service
}

// NewCatalogUseCase 创建目录用例
func NewCatalogUseCase(svc book.Service) *CatalogUseCase {
	return &CatalogUseCase{svc: svc}
}

// AddBookRequest 上架请求
type AddBookRequest struct {
	Title      string
	Price      decimal.Decimal
	Stock      int // 初始库存
	AuthorID   uint
	CategoryID *uint
}

// UpdateBookRequest 修改请求，零值表示不修改
type UpdateBookRequest struct {
	ID         uint
	Title      string
	Price      *decimal.Decimal
	AuthorID   uint
	CategoryID *uint
}

// ListBooksRequest 列表查询请求
type ListBooksRequest struct {
	Page     int
	PageSize int
	Keyword  string
}

// AddBook 上架图书
func (uc *CatalogUseCase) AddBook(ctx context.Context, req AddBookRequest) (*BookView, error) {
	b, err := uc.svc.AddBook(ctx, req.Title, req.Price, req.Stock, req.AuthorID, req.CategoryID)
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("图书上架",
		zap.Uint("book_id", b.ID),
		zap.String("title", b.Title),
		zap.Int("stock", b.Stock),
	)
	return toView(b), nil
}

// UpdateBook 修改书名/价格/作者/分类
func (uc *CatalogUseCase) UpdateBook(ctx context.Context, req UpdateBookRequest) (*BookView, error) {
	b, err := uc.svc.UpdateBook(ctx, req.ID, req.Title, req.Price, req.AuthorID, req.CategoryID)
	if err != nil {
		return nil, err
	}
	return toView(b), nil
}

// DeleteBook 删除图书
// 历史订单明细保留，订单视图中的书名显示为空
func (uc *CatalogUseCase) DeleteBook(ctx context.Context, id uint) error {
	if err := uc.svc.DeleteBook(ctx, id); err != nil {
		return err
	}
	logger.FromContext(ctx).Info("图书已删除", zap.Uint("book_id", id))
	return nil
}

// GetBook 图书详情
func (uc *CatalogUseCase) GetBook(ctx context.Context, id uint) (*BookView, error) {
	b, err := uc.svc.GetBook(ctx, id)
	if err != nil {
		return nil, err
	}
	return toView(b), nil
}

// ListBooks 分页查询
func (uc *CatalogUseCase) ListBooks(ctx context.Context, req ListBooksRequest) (*BookListView, error) {
	params := book.ListParams{Page: req.Page, PageSize: req.PageSize, Keyword: req.Keyword}
	params.Normalize()

	books, total, err := uc.svc.ListBooks(ctx, params)
	if err != nil {
		return nil, err
	}

	list := make([]*BookView, len(books))
	for i, b := range books {
		list[i] = toView(b)
	}

	totalPages := int(total) / params.PageSize
	if int(total)%params.PageSize != 0 {
		totalPages++
	}

	return &BookListView{
		List:       list,
		Total:      total,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalPages: totalPages,
	}, nil
}
