package order

import (
	"context"
	"errors"
	"math"
	"sort"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/xiebiao/bookstore-orders/internal/domain/book"
	"github.com/xiebiao/bookstore-orders/internal/domain/inventory"
	"github.com/xiebiao/bookstore-orders/internal/domain/order"
	"github.com/xiebiao/bookstore-orders/internal/domain/user"
	"github.com/xiebiao/bookstore-orders/pkg/logger"
	"github.com/xiebiao/bookstore-orders/pkg/metrics"
	"github.com/xiebiao/bookstore-orders/pkg/tracing"
)

const tracerName = "order"

// CreateOrderUseCase 创建订单用例
//
// 防超卖：整个下单在一个事务里完成
//  1. 合并同一本书的多条明细，按图书ID升序加锁（固定加锁顺序，避免死锁）
//  2. 逐条Reserve:SELECT ... FOR UPDATE + 库存校验 + 价格快照，只暂存不写库
//  3. 全部通过后才写订单、明细、扣减库存、库存流水
//  4. 任何一步失败整个事务回滚，不会出现"扣了一部分"的情况
type CreateOrderUseCase struct {
	tx     TxManager
	ledger *inventory.Ledger
	orders order.Repository
	users  user.Repository
	views  viewAssembler
	events EventPublisher
	now    func() time.Time
}

// NewCreateOrderUseCase 创建下单用例
func NewCreateOrderUseCase(
	tx TxManager,
	ledger *inventory.Ledger,
	orders order.Repository,
	books book.Repository,
	users user.Repository,
	events EventPublisher,
) *CreateOrderUseCase {
	return &CreateOrderUseCase{
		tx:     tx,
		ledger: ledger,
		orders: orders,
		users:  users,
		views:  viewAssembler{books: books, users: users},
		events: events,
		now:    time.Now,
	}
}

// LineRequest 下单明细
type LineRequest struct {
	BookID   uint
	Quantity int
}

// CreateOrderCommand 下单命令
type CreateOrderCommand struct {
	CustomerID string // 来自Token的nameidentifier
	Lines      []LineRequest
}

// Execute 执行下单
func (uc *CreateOrderUseCase) Execute(ctx context.Context, cmd CreateOrderCommand) (view *OrderView, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "CreateOrder")
	defer func() {
		tracing.RecordError(span, err)
		span.End()
	}()
	span.SetAttributes(
		attribute.String("customer_id", cmd.CustomerID),
		attribute.Int("lines", len(cmd.Lines)),
	)

	metrics.OrdersInProgress.Inc()
	start := time.Now()
	defer func() {
		metrics.OrdersInProgress.Dec()
		metrics.OrderCreationDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			metrics.OrdersFailedTotal.WithLabelValues(failureReason(err)).Inc()
		}
	}()

	log := logger.FromContext(ctx).With(zap.String("customer_id", cmd.CustomerID))

	lines, err := normalizeLines(cmd.Lines)
	if err != nil {
		return nil, err
	}

	if _, err := uc.users.FindByID(ctx, cmd.CustomerID); err != nil {
		return nil, err
	}

	var created *order.Order
	var reserved *inventory.Reservations
	err = uc.tx.Transaction(ctx, func(txCtx context.Context) error {
		rs := inventory.NewReservations(len(lines))
		for _, l := range lines {
			r, err := uc.ledger.Reserve(txCtx, l.BookID, l.Quantity)
			if err != nil {
				return err
			}
			if err := rs.Add(r); err != nil {
				return err
			}
		}

		orderLines := make([]order.Line, 0, rs.Len())
		for _, r := range rs.Items() {
			orderLines = append(orderLines, order.Line{
				BookID:    r.BookID,
				Quantity:  r.Quantity,
				UnitPrice: r.UnitPrice,
			})
		}

		o, err := order.NewOrder(cmd.CustomerID, orderLines, uc.now())
		if err != nil {
			return err
		}
		if err := uc.orders.Create(txCtx, o); err != nil {
			return err
		}
		if err := uc.ledger.Commit(txCtx, o.ID, rs); err != nil {
			return err
		}

		created = o
		reserved = rs
		return nil
	})
	if err != nil {
		if errors.Is(err, inventory.ErrInsufficientStock) {
			log.Info("库存不足,下单失败", zap.Error(err))
		}
		return nil, err
	}

	// 以下都在事务提交之后
	metrics.OrdersCreatedTotal.Inc()
	metrics.OrderTotalAmount.Observe(created.TotalPrice.InexactFloat64())
	for _, r := range reserved.Items() {
		metrics.StockChangedTotal.WithLabelValues(string(inventory.ChangeDeduct)).Add(float64(r.Quantity))
	}
	log.Info("订单创建成功",
		zap.Uint("order_id", created.ID),
		zap.String("total", created.TotalPrice.StringFixed(2)),
		zap.Int("lines", len(created.Lines)),
	)
	publish(ctx, uc.events, order.NewEvent(order.EventCreated, created, uc.now()))

	return uc.views.one(ctx, created)
}

// normalizeLines 校验明细并合并同一本书，结果按图书ID升序
// 合并时数量封顶为math.MaxInt，不会溢出回绕，超出库存的请求仍由Reserve判为库存不足
func normalizeLines(lines []LineRequest) ([]LineRequest, error) {
	if len(lines) == 0 {
		return nil, order.ErrEmptyOrder
	}

	merged := make(map[uint]int, len(lines))
	for _, l := range lines {
		if l.Quantity <= 0 {
			return nil, order.ErrInvalidQuantity
		}
		merged[l.BookID] = addQuantity(merged[l.BookID], l.Quantity)
	}

	result := make([]LineRequest, 0, len(merged))
	for id, qty := range merged {
		result = append(result, LineRequest{BookID: id, Quantity: qty})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].BookID < result[j].BookID })
	return result, nil
}

func addQuantity(a, b int) int {
	if b > math.MaxInt-a {
		return math.MaxInt
	}
	return a + b
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, order.ErrEmptyOrder), errors.Is(err, order.ErrInvalidQuantity):
		return "validation"
	case errors.Is(err, inventory.ErrBookNotFound):
		return "book_not_found"
	case errors.Is(err, inventory.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, user.ErrUserNotFound):
		return "customer_not_found"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return "timeout"
	default:
		return "internal"
	}
}

// publish 发布事件，失败不影响已提交的业务
func publish(ctx context.Context, events EventPublisher, ev order.Event) {
	if events == nil {
		return
	}
	if err := events.Publish(ctx, ev); err != nil {
		logger.FromContext(ctx).Warn("订单事件发布失败",
			zap.String("event", ev.Type),
			zap.Uint("order_id", ev.OrderID),
			zap.Error(err),
		)
	}
}
