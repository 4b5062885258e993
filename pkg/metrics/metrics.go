// Package metrics 基于Prometheus的业务与HTTP指标
//
// 指标类型选择：
//   - Counter：只增不减（请求数、订单数、扣减的库存件数）
//   - Gauge：瞬时值（处理中的请求数、熔断器状态）
//   - Histogram：分布（耗时、订单金额）
//
// 设计说明：
// 1. 所有指标在包加载时创建，未注册时也可以安全调用（测试无需初始化）
// 2. InitMetrics把指标注册到指定Registerer，只生效一次
// 3. /metrics端点由main通过promhttp暴露
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var registerOnce sync.Once

// HTTP请求指标
var (
	// HTTPRequestsTotal 标签：method、path（路由模板）、status
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP请求总数",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP请求耗时(秒)",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInProgress = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_progress",
			Help: "正在处理的HTTP请求数",
		},
	)
)

// 订单与库存指标
var (
	OrdersCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "orders_created_total",
			Help: "订单创建成功总数",
		},
	)

	// OrdersFailedTotal 标签：reason(validation/book_not_found/insufficient_stock/customer_not_found/internal)
	OrdersFailedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orders_failed_total",
			Help: "订单创建失败总数",
		},
		[]string{"reason"},
	)

	OrderCreationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "order_creation_duration_seconds",
			Help:    "订单创建耗时(秒),包含加锁等待",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)

	OrderTotalAmount = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "order_total_amount",
			Help:    "订单金额分布",
			Buckets: []float64{10, 50, 100, 500, 1000},
		},
	)

	OrdersInProgress = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "orders_in_progress",
			Help: "正在处理的下单请求数",
		},
	)

	// StockChangedTotal 标签：type(DEDUCT/RESTOCK)，值为件数
	StockChangedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_stock_changed_total",
			Help: "库存变更件数",
		},
		[]string{"type"},
	)
)

// 熔断器与消息队列指标
var (
	// CircuitBreakerState 0=CLOSED, 1=OPEN, 2=HALF_OPEN
	CircuitBreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "熔断器状态(0=CLOSED, 1=OPEN, 2=HALF_OPEN)",
		},
		[]string{"name"},
	)

	// CircuitBreakerRequests 标签：result(success/failure/rejected)
	CircuitBreakerRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "熔断器请求总数",
		},
		[]string{"name", "result"},
	)

	// MessagesPublishedTotal 标签：routing_key、result(success/failure)
	MessagesPublishedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_published_total",
			Help: "消息发布总数",
		},
		[]string{"routing_key", "result"},
	)

	MessagesConsumedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_consumed_total",
			Help: "消息消费总数",
		},
		[]string{"queue", "result"},
	)
)

func collectors() []prometheus.Collector {
	return []prometheus.Collector{
		HTTPRequestsTotal,
		HTTPRequestDuration,
		HTTPRequestsInProgress,
		OrdersCreatedTotal,
		OrdersFailedTotal,
		OrderCreationDuration,
		OrderTotalAmount,
		OrdersInProgress,
		StockChangedTotal,
		CircuitBreakerState,
		CircuitBreakerRequests,
		MessagesPublishedTotal,
		MessagesConsumedTotal,
	}
}

// InitMetrics 注册全部指标（重复调用只生效一次）
// reg为nil时注册到prometheus.DefaultRegisterer
func InitMetrics(reg prometheus.Registerer) {
	registerOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		reg.MustRegister(collectors()...)
	})
}
