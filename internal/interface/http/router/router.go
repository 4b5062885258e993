// Package router 注册全部HTTP路由
// 生产入口和接口测试使用同一个New，保证测试覆盖的就是线上的路由与中间件
package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/xiebiao/bookstore-orders/internal/domain/auth"
	"github.com/xiebiao/bookstore-orders/internal/interface/http/handler"
	"github.com/xiebiao/bookstore-orders/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/bookstore-orders/pkg/errors"
	"github.com/xiebiao/bookstore-orders/pkg/response"
)

// Options 路由级配置
type Options struct {
	Mode           string        // gin模式：debug | release | test
	RequestTimeout time.Duration // 单个请求的截止时间，<=0不限制
	SlowRequest    time.Duration // 超过该耗时记Warn
	MetricsPath    string        // 为空时不暴露指标端点
	Swagger        bool
}

// Handlers 各模块处理器
type Handlers struct {
	Book  *handler.BookHandler
	Order *handler.OrderHandler
	User  *handler.UserHandler
}

// New 创建Gin引擎
//
// 中间件顺序：Recovery → Tracing → RequestLogger → Metrics → Timeout → (Auth → Role) → Handler
func New(opts Options, h Handlers, authMW *middleware.Auth, log *zap.Logger) *gin.Engine {
	if opts.Mode != "" {
		gin.SetMode(opts.Mode)
	}

	r := gin.New()
	r.Use(
		gin.CustomRecovery(func(c *gin.Context, _ any) {
			response.Error(c, apperrors.ErrInternal)
		}),
		middleware.Tracing(),
		middleware.RequestLogger(log, opts.SlowRequest),
		middleware.Metrics(),
		middleware.RequestTimeout(opts.RequestTimeout),
	)

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, apperrors.ErrNotFound)
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if opts.MetricsPath != "" {
		r.GET(opts.MetricsPath, gin.WrapH(promhttp.Handler()))
	}
	if opts.Swagger {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	requireAuth := authMW.RequireAuth()
	adminOnly := middleware.RequireRole(auth.RoleAdmin)
	customerOnly := middleware.RequireRole(auth.RoleCustomer)

	v1 := r.Group("/api/v1")
	{
		users := v1.Group("/users")
		{
			users.POST("/login", h.User.Login)
			users.GET("/logout", requireAuth, h.User.Logout)
			users.PUT("/profile/changepassword", requireAuth, h.User.ChangePassword)
			users.DELETE("/:id", requireAuth, h.User.DeleteUser)
		}

		customers := v1.Group("/customers")
		{
			customers.POST("/register", h.User.RegisterCustomer)
			customers.PUT("/profile", requireAuth, h.User.EditProfile)
			customers.GET("", requireAuth, adminOnly, h.User.ListCustomers)
			customers.GET("/:id", requireAuth, h.User.GetCustomer)
		}

		v1.POST("/admins/register", requireAuth, adminOnly, h.User.RegisterAdmin)

		books := v1.Group("/books")
		{
			books.GET("", h.Book.ListBooks)
			books.GET("/:id", h.Book.GetBook)

			admin := books.Group("", requireAuth, adminOnly)
			admin.POST("", h.Book.AddBook)
			admin.PUT("/:id", h.Book.UpdateBook)
			admin.DELETE("/:id", h.Book.DeleteBook)
			admin.PUT("/:id/stock", h.Book.Restock)
			admin.GET("/:id/inventory-logs", h.Book.InventoryLogs)
		}

		orders := v1.Group("/orders", requireAuth)
		{
			orders.GET("", adminOnly, h.Order.ListOrders)
			orders.GET("/:id", h.Order.GetOrder)
			orders.GET("/my", customerOnly, h.Order.ListMyOrders)
			orders.POST("", customerOnly, h.Order.CreateOrder)
			orders.PUT("/:id", customerOnly, h.Order.SetStatus)
			orders.DELETE("/:id", customerOnly, h.Order.DeleteOrder)
		}
	}

	return r
}
