// Package persistence 按配置选择存储驱动，组装各仓储
package persistence

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/xiebiao/bookstore-orders/internal/domain/book"
	"github.com/xiebiao/bookstore-orders/internal/domain/inventory"
	"github.com/xiebiao/bookstore-orders/internal/domain/order"
	"github.com/xiebiao/bookstore-orders/internal/domain/user"
	"github.com/xiebiao/bookstore-orders/internal/infrastructure/config"
	"github.com/xiebiao/bookstore-orders/internal/infrastructure/persistence/memory"
	"github.com/xiebiao/bookstore-orders/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/bookstore-orders/internal/infrastructure/persistence/redis"
)

// TxManager 事务管理器，fn内的仓储调用共享同一事务
type TxManager interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Repositories 一组共享同一存储的仓储
type Repositories struct {
	Books         book.Repository
	Orders        order.Repository
	Users         user.Repository
	InventoryLogs inventory.LogRepository
	Sessions      user.SessionStore
	Tx            TxManager

	closers []func() error
}

// Close 释放数据库/Redis连接
func (r *Repositories) Close() error {
	var first error
	for _, c := range r.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// NewMemory 内存存储（测试与本地运行）
func NewMemory() *Repositories {
	store := memory.NewStore()
	return &Repositories{
		Books:         memory.NewBookRepository(store),
		Orders:        memory.NewOrderRepository(store),
		Users:         memory.NewUserRepository(store),
		InventoryLogs: memory.NewInventoryLogRepository(store),
		Sessions:      memory.NewSessionStore(),
		Tx:            memory.NewTxManager(store),
	}
}

// New 根据 database.driver 与 redis.enabled 组装仓储
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Repositories, error) {
	var repos *Repositories

	switch cfg.Database.Driver {
	case config.DriverMemory:
		repos = NewMemory()
		log.Warn("使用内存存储,进程退出后数据丢失")

	case config.DriverMySQL:
		db, err := mysql.NewDB(cfg, log)
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("获取SQL DB失败: %w", err)
		}
		repos = &Repositories{
			Books:         mysql.NewBookRepository(db),
			Orders:        mysql.NewOrderRepository(db),
			Users:         mysql.NewUserRepository(db),
			InventoryLogs: mysql.NewInventoryLogRepository(db),
			Sessions:      memory.NewSessionStore(),
			Tx:            mysql.NewTxManager(db),
			closers:       []func() error{sqlDB.Close},
		}

	default:
		return nil, fmt.Errorf("未知的数据库驱动: %q", cfg.Database.Driver)
	}

	if cfg.Redis.Enabled {
		client, err := redis.NewClient(ctx, cfg.Redis, log)
		if err != nil {
			repos.Close()
			return nil, err
		}
		repos.Sessions = redis.NewSessionStore(client)
		repos.closers = append(repos.closers, client.Close)
	}

	return repos, nil
}
