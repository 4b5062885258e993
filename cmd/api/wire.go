//go:build wireinject
// +build wireinject

// Wire依赖注入配置
// 修改Provider后运行 `wire gen ./cmd/api` 重新生成wire_gen.go

package main

import (
	"context"

	"github.com/google/wire"
	"go.uber.org/zap"

	appbook "github.com/xiebiao/bookstore-orders/internal/application/book"
	apporder "github.com/xiebiao/bookstore-orders/internal/application/order"
	appuser "github.com/xiebiao/bookstore-orders/internal/application/user"
	"github.com/xiebiao/bookstore-orders/internal/domain/book"
	"github.com/xiebiao/bookstore-orders/internal/domain/inventory"
	"github.com/xiebiao/bookstore-orders/internal/domain/user"
	"github.com/xiebiao/bookstore-orders/internal/infrastructure/config"
	"github.com/xiebiao/bookstore-orders/internal/infrastructure/persistence"
	"github.com/xiebiao/bookstore-orders/internal/interface/http/handler"
	"github.com/xiebiao/bookstore-orders/internal/interface/http/middleware"
	"github.com/xiebiao/bookstore-orders/internal/interface/http/router"
)

// repositorySet 按配置选择存储驱动
var repositorySet = wire.NewSet(
	provideRepositories,
	wire.FieldsOf(new(*persistence.Repositories), "Books", "Orders", "Users", "InventoryLogs", "Sessions"),
	provideOrderTx,
	provideBookTx,
)

var domainSet = wire.NewSet(
	user.NewService,
	book.NewService,
	inventory.NewLedger,
)

var applicationSet = wire.NewSet(
	appuser.NewRegisterUseCase,
	appuser.NewLoginUseCase,
	appuser.NewLogoutUseCase,
	appuser.NewAccountUseCase,
	appbook.NewCatalogUseCase,
	appbook.NewInventoryUseCase,
	apporder.NewCreateOrderUseCase,
	apporder.NewSetStatusUseCase,
	apporder.NewDeleteOrderUseCase,
	apporder.NewQueryOrdersUseCase,
	provideEventPublisher,
)

var httpSet = wire.NewSet(
	provideJWTManager,
	middleware.NewAuth,
	handler.NewBookHandler,
	handler.NewOrderHandler,
	handler.NewUserHandler,
	wire.Struct(new(router.Handlers), "*"),
	provideRouterOptions,
	router.New,
)

// InitializeApp 组装整个应用
// 返回的cleanup关闭数据库、Redis与消息队列连接
func InitializeApp(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, func(), error) {
	wire.Build(
		repositorySet,
		domainSet,
		applicationSet,
		httpSet,
		wire.Struct(new(App), "*"),
	)
	return nil, nil, nil
}
