package book

import (
	"context"
)

// Repository 图书仓储接口（依赖倒置原则）
// 设计说明：
// 1. 由domain层定义接口，infrastructure层实现（MySQL / 内存）
// 2. 事务通过context传递，同一事务内的调用共享连接
type Repository interface {
	// Create 创建图书
	Create(ctx context.Context, book *Book) error

	// FindByID 根据ID查找图书
	FindByID(ctx context.Context, id uint) (*Book, error)

	// FindByIDs 批量查询，返回 id → Book，不存在的id不出现在结果中
	FindByIDs(ctx context.Context, ids []uint) (map[uint]*Book, error)

	// Update 更新书名/价格/作者/分类，不修改库存
	Update(ctx context.Context, book *Book) error

	// Delete 删除图书
	Delete(ctx context.Context, id uint) error

	// List 分页查询图书列表
	List(ctx context.Context, params ListParams) ([]*Book, int64, error)

	// LockByID 悲观锁查询图书（SELECT ... FOR UPDATE）
	// 必须在事务中调用，锁在事务提交/回滚时释放
	LockByID(ctx context.Context, id uint) (*Book, error)

	// UpdateStock 原子地调整库存
	// delta为正数表示增加，负数表示减少；减少后库存会为负时返回ErrInsufficientStock
	UpdateStock(ctx context.Context, id uint, delta int) error
}

// ListParams 列表查询参数
type ListParams struct {
	Page     int    // 页码（从1开始）
	PageSize int    // 每页数量
	Keyword  string // 书名关键词
}

// Normalize 修正非法分页参数
func (p *ListParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 || p.PageSize > 100 {
		p.PageSize = 20
	}
}

// Offset 计算偏移量
func (p ListParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}
