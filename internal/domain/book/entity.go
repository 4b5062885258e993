package book

import (
	"time"

	"github.com/shopspring/decimal"
)

// Book 图书实体（聚合根）
// DDD设计说明：
// 1. 价格使用decimal（定点数），避免浮点误差
// 2. Stock只能通过库存台账（inventory.Ledger）的加减操作修改，目录编辑不会写库存
// 3. AuthorID/CategoryID只是外部引用，不持有作者/分类对象（避免隐式关联加载）
type Book struct {
	ID         uint
	Title      string
	Price      decimal.Decimal
	Stock      int   // 库存数量，恒 >= 0
	AuthorID   uint  // 作者ID
	CategoryID *uint // 分类ID（可选）
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewBook 创建新图书（工厂方法）
func NewBook(title string, price decimal.Decimal, stock int, authorID uint, categoryID *uint) *Book {
	now := time.Now()
	return &Book{
		Title:      title,
		Price:      price,
		Stock:      stock,
		AuthorID:   authorID,
		CategoryID: categoryID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// UpdatePrice 更新价格（领域行为）
// 业务规则：价格必须>0
// 已下单的订单明细保存了下单时的价格快照，改价不影响历史订单
func (b *Book) UpdatePrice(newPrice decimal.Decimal) error {
	if !newPrice.IsPositive() {
		return ErrInvalidPrice
	}
	b.Price = newPrice
	b.UpdatedAt = time.Now()
	return nil
}

// UpdateInfo 更新图书基本信息（空值表示不修改）
func (b *Book) UpdateInfo(title string, authorID uint, categoryID *uint) {
	if title != "" {
		b.Title = title
	}
	if authorID != 0 {
		b.AuthorID = authorID
	}
	if categoryID != nil {
		b.CategoryID = categoryID
	}
	b.UpdatedAt = time.Now()
}

// HasStock 库存是否足够
func (b *Book) HasStock(quantity int) bool {
	return quantity > 0 && b.Stock >= quantity
}

// DecrStock 扣减库存
// 业务规则：扣减后库存不能为负数
func (b *Book) DecrStock(quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if b.Stock < quantity {
		return ErrInsufficientStock
	}
	b.Stock -= quantity
	b.UpdatedAt = time.Now()
	return nil
}

// IncrStock 增加库存（补货）
func (b *Book) IncrStock(quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	b.Stock += quantity
	b.UpdatedAt = time.Now()
	return nil
}
