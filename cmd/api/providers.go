package main

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appbook "github.com/xiebiao/bookstore-orders/internal/application/book"
	apporder "github.com/xiebiao/bookstore-orders/internal/application/order"
	appuser "github.com/xiebiao/bookstore-orders/internal/application/user"
	"github.com/xiebiao/bookstore-orders/internal/infrastructure/config"
	"github.com/xiebiao/bookstore-orders/internal/infrastructure/messaging"
	"github.com/xiebiao/bookstore-orders/internal/infrastructure/persistence"
	"github.com/xiebiao/bookstore-orders/internal/interface/http/router"
	"github.com/xiebiao/bookstore-orders/pkg/jwt"
	"github.com/xiebiao/bookstore-orders/pkg/mq"
)

// App 启动所需的对象
type App struct {
	Engine   *gin.Engine
	Register *appuser.RegisterUseCase
}

func provideRepositories(ctx context.Context, cfg *config.Config, log *zap.Logger) (*persistence.Repositories, func(), error) {
	repos, err := persistence.New(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := repos.Close(); err != nil {
			log.Warn("关闭存储连接失败", zap.Error(err))
		}
	}
	return repos, cleanup, nil
}

func provideOrderTx(repos *persistence.Repositories) apporder.TxManager {
	return repos.Tx
}

func provideBookTx(repos *persistence.Repositories) appbook.TxManager {
	return repos.Tx
}

// provideJWTManager 签名密钥只在启动时从配置读取一次
func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Lifetime)
}

// provideEventPublisher mq.enabled=false 时订单事件直接丢弃
func provideEventPublisher(cfg *config.Config, log *zap.Logger) (apporder.EventPublisher, func(), error) {
	if !cfg.MQ.Enabled {
		log.Info("消息队列未启用,订单事件不发布")
		return messaging.NopPublisher{}, func() {}, nil
	}

	pub, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, "topic", log)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := pub.Close(); err != nil {
			log.Warn("关闭消息队列连接失败", zap.Error(err))
		}
	}
	return messaging.NewOrderEventPublisher(pub, log), cleanup, nil
}

func provideRouterOptions(cfg *config.Config) router.Options {
	opts := router.Options{
		Mode:           cfg.Server.Mode,
		RequestTimeout: cfg.Server.RequestTimeout,
		SlowRequest:    3 * cfg.Server.RequestTimeout / 5,
		Swagger:        cfg.Server.Mode != gin.ReleaseMode,
	}
	if cfg.Metrics.Enabled {
		opts.MetricsPath = cfg.Metrics.Path
	}
	return opts
}
