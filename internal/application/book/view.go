package book

import (
	"encoding/json"
	"time"

	"github.com/xiebiao/bookstore-orders/internal/domain/book"
	"github.com/xiebiao/bookstore-orders/internal/domain/inventory"
)

// BookView 图书视图
type BookView struct {
	ID         uint        `json:"id"`
	Title      string      `json:"title"`
	Price      json.Number `json:"price"`
	Stock      int         `json:"stock"`
	AuthorID   uint        `json:"authorId"`
	CategoryID *uint       `json:"categoryId,omitempty"`
}

func toView(b *book.Book) *BookView {
	return &BookView{
		ID:         b.ID,
		Title:      b.Title,
		Price:      json.Number(b.Price.StringFixed(2)),
		Stock:      b.Stock,
		AuthorID:   b.AuthorID,
		CategoryID: b.CategoryID,
	}
}

// BookListView 分页列表
type BookListView struct {
	List       []*BookView `json:"list"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
}

// InventoryLogView 库存流水视图
type InventoryLogView struct {
	ID          uint      `json:"id"`
	OrderID     *uint     `json:"orderId,omitempty"`
	ChangeType  string    `json:"changeType"`
	Quantity    int       `json:"quantity"`
	BeforeStock int       `json:"beforeStock"`
	AfterStock  int       `json:"afterStock"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toLogView(l *inventory.Log) *InventoryLogView {
	return &InventoryLogView{
		ID:          l.ID,
		OrderID:     l.OrderID,
		ChangeType:  string(l.ChangeType),
		Quantity:    l.Quantity,
		BeforeStock: l.BeforeStock,
		AfterStock:  l.AfterStock,
		CreatedAt:   l.CreatedAt,
	}
}
