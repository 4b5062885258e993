// Package memory 内存存储实现
//
// 用于本地运行与测试，行为上对齐MySQL实现：
//  1. 事务串行执行（相当于对所有行加锁），出错时回滚到事务开始时的状态
//     快照按表延迟生成：某张表在事务内第一次被写时才复制，只读事务不复制任何数据
//  2. 事务外的单条操作视为自动提交的小事务
//  3. 自增ID回滚后不回收，与InnoDB一致
package memory

import (
	"context"
	"maps"

	"github.com/xiebiao/bookstore-orders/internal/domain/book"
	"github.com/xiebiao/bookstore-orders/internal/domain/inventory"
	"github.com/xiebiao/bookstore-orders/internal/domain/order"
	"github.com/xiebiao/bookstore-orders/internal/domain/user"
)

type txKey struct{}

// Store 内存数据库
type Store struct {
	// sem 容量为1的信号量，持有者独占所有表；用channel是为了等待时可以响应ctx取消
	sem chan struct{}

	books  map[uint]book.Book
	orders map[uint]order.Order
	users  map[string]user.User
	logs   map[uint]inventory.Log

	// undo 当前事务的回滚快照，事务外为nil
	undo *snapshot

	nextBookID  uint
	nextOrderID uint
	nextLogID   uint
}

// NewStore 创建内存数据库
func NewStore() *Store {
	return &Store{
		sem:    make(chan struct{}, 1),
		books:  make(map[uint]book.Book),
		orders: make(map[uint]order.Order),
		users:  make(map[string]user.User),
		logs:   make(map[uint]inventory.Log),
	}
}

// snapshot 事务开始时各表的副本，nil表示该表在事务内未被写过
type snapshot struct {
	books  map[uint]book.Book
	orders map[uint]order.Order
	users  map[string]user.User
	logs   map[uint]inventory.Log
}

// 表中只存值类型，Lines/Roles等切片在写入时整体替换，浅拷贝即可作为快照
// 写表前必须经由下面的方法取得map，以便在第一次写时保存副本

func (s *Store) writeBooks() map[uint]book.Book {
	if s.undo != nil && s.undo.books == nil {
		s.undo.books = maps.Clone(s.books)
	}
	return s.books
}

func (s *Store) writeOrders() map[uint]order.Order {
	if s.undo != nil && s.undo.orders == nil {
		s.undo.orders = maps.Clone(s.orders)
	}
	return s.orders
}

func (s *Store) writeUsers() map[string]user.User {
	if s.undo != nil && s.undo.users == nil {
		s.undo.users = maps.Clone(s.users)
	}
	return s.users
}

func (s *Store) writeLogs() map[uint]inventory.Log {
	if s.undo != nil && s.undo.logs == nil {
		s.undo.logs = maps.Clone(s.logs)
	}
	return s.logs
}

func (s *Store) rollback() {
	if s.undo.books != nil {
		s.books = s.undo.books
	}
	if s.undo.orders != nil {
		s.orders = s.undo.orders
	}
	if s.undo.users != nil {
		s.users = s.undo.users
	}
	if s.undo.logs != nil {
		s.logs = s.undo.logs
	}
}

func (s *Store) acquire(ctx context.Context) error {
	select {
	case s.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Store) release() {
	<-s.sem
}

func inTx(ctx context.Context) bool {
	_, ok := ctx.Value(txKey{}).(*Store)
	return ok
}

// Transaction 执行事务
// fn返回error或ctx在提交前被取消时回滚；嵌套调用加入外层事务
func (s *Store) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if inTx(ctx) {
		return fn(ctx)
	}

	if err := s.acquire(ctx); err != nil {
		return err
	}
	defer s.release()

	s.undo = &snapshot{}
	defer func() { s.undo = nil }()
	txCtx := context.WithValue(ctx, txKey{}, s)

	err := fn(txCtx)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		s.rollback()
		return err
	}
	return nil
}

// exec 仓储操作的统一入口：事务内直接执行，事务外包一层自动提交事务
func (s *Store) exec(ctx context.Context, fn func() error) error {
	if inTx(ctx) {
		return fn()
	}
	return s.Transaction(ctx, func(context.Context) error { return fn() })
}

// TxManager 事务管理器
type TxManager struct {
	store *Store
}

// NewTxManager 创建事务管理器
func NewTxManager(store *Store) *TxManager {
	return &TxManager{store: store}
}

// Transaction 执行事务
func (m *TxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.store.Transaction(ctx, fn)
}
