package order_test

import (
	"context"
	"encoding/json"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apporder "github.com/xiebiao/bookstore-orders/internal/application/order"
	"github.com/xiebiao/bookstore-orders/internal/domain/auth"
	"github.com/xiebiao/bookstore-orders/internal/domain/book"
	"github.com/xiebiao/bookstore-orders/internal/domain/inventory"
	"github.com/xiebiao/bookstore-orders/internal/domain/order"
	"github.com/xiebiao/bookstore-orders/internal/domain/user"
	"github.com/xiebiao/bookstore-orders/internal/infrastructure/persistence"
	apperrors "github.com/xiebiao/bookstore-orders/pkg/errors"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []order.Event
}

func (r *recordingPublisher) Publish(_ context.Context, ev order.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *recordingPublisher) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := make([]string, len(r.events))
	for i, ev := range r.events {
		types[i] = ev.Type
	}
	return types
}

type fixture struct {
	repos  *persistence.Repositories
	events *recordingPublisher

	create    *apporder.CreateOrderUseCase
	setStatus *apporder.SetStatusUseCase
	remove    *apporder.DeleteOrderUseCase
	query     *apporder.QueryOrdersUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repos := persistence.NewMemory()
	events := &recordingPublisher{}
	ledger := inventory.NewLedger(repos.Books, repos.InventoryLogs)

	return &fixture{
		repos:     repos,
		events:    events,
		create:    apporder.NewCreateOrderUseCase(repos.Tx, ledger, repos.Orders, repos.Books, repos.Users, events),
		setStatus: apporder.NewSetStatusUseCase(repos.Tx, repos.Orders, events),
		remove:    apporder.NewDeleteOrderUseCase(repos.Tx, repos.Orders, events),
		query:     apporder.NewQueryOrdersUseCase(repos.Orders, repos.Books, repos.Users),
	}
}

func (f *fixture) customer(t *testing.T, username string) auth.Principal {
	t.Helper()
	u := user.NewUser(username, username+"@example.com", "hash", auth.RoleCustomer)
	u.FullName = "Customer " + username
	require.NoError(t, f.repos.Users.Create(context.Background(), u))
	return auth.Principal{UserID: u.ID, Username: u.Username, Roles: u.Roles}
}

func (f *fixture) book(t *testing.T, title, price string, stock int) *book.Book {
	t.Helper()
	b := book.NewBook(title, decimal.RequireFromString(price), stock, 1, nil)
	require.NoError(t, f.repos.Books.Create(context.Background(), b))
	return b
}

func (f *fixture) stock(t *testing.T, id uint) int {
	t.Helper()
	b, err := f.repos.Books.FindByID(context.Background(), id)
	require.NoError(t, err)
	return b.Stock
}

func (f *fixture) orderCount(t *testing.T) int {
	t.Helper()
	all, err := f.repos.Orders.ListAll(context.Background())
	require.NoError(t, err)
	return len(all)
}

func TestCreateOrder_Success(t *testing.T) {
	f := newFixture(t)
	alice := f.customer(t, "alice")
	b := f.book(t, "Go语言实战", "10.00", 5)

	view, err := f.create.Execute(context.Background(), apporder.CreateOrderCommand{
		CustomerID: alice.UserID,
		Lines:      []apporder.LineRequest{{BookID: b.ID, Quantity: 3}},
	})
	require.NoError(t, err)

	assert.Equal(t, json.Number("30.00"), view.TotalPrice)
	assert.Equal(t, "Pending", view.Status)
	assert.Equal(t, "Customer alice", view.CustomerName)
	assert.Equal(t, time.Now().Format("2006-01-02"), view.OrderDate)
	require.Len(t, view.Details, 1)
	assert.Equal(t, apporder.OrderDetailView{BookID: b.ID, BookTitle: "Go语言实战", Quantity: 3, UnitPrice: "10.00"}, view.Details[0])

	assert.Equal(t, 2, f.stock(t, b.ID))
	assert.Equal(t, []string{order.EventCreated}, f.events.types())

	logs, err := f.repos.InventoryLogs.ListByBookID(context.Background(), b.ID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, inventory.ChangeDeduct, logs[0].ChangeType)
	assert.Equal(t, 5, logs[0].BeforeStock)
	assert.Equal(t, 2, logs[0].AfterStock)
	require.NotNil(t, logs[0].OrderID)
	assert.Equal(t, view.ID, *logs[0].OrderID)
}

func TestCreateOrder_InsufficientStock(t *testing.T) {
	f := newFixture(t)
	alice := f.customer(t, "alice")
	b := f.book(t, "Go语言实战", "10.00", 2)

	_, err := f.create.Execute(context.Background(), apporder.CreateOrderCommand{
		CustomerID: alice.UserID,
		Lines:      []apporder.LineRequest{{BookID: b.ID, Quantity: 3}},
	})
	require.ErrorIs(t, err, inventory.ErrInsufficientStock)
	assert.Equal(t, 400, apperrors.GetAppError(err).HTTPStatus())

	assert.Equal(t, 2, f.stock(t, b.ID))
	assert.Zero(t, f.orderCount(t))
	assert.Empty(t, f.events.types())
}

func TestCreateOrder_UnknownBookLeavesNoPartialEffect(t *testing.T) {
	f := newFixture(t)
	alice := f.customer(t, "alice")
	b := f.book(t, "Go语言实战", "10.00", 5)

	_, err := f.create.Execute(context.Background(), apporder.CreateOrderCommand{
		CustomerID: alice.UserID,
		Lines: []apporder.LineRequest{
			{BookID: b.ID, Quantity: 1},
			{BookID: 999, Quantity: 1},
		},
	})
	require.ErrorIs(t, err, inventory.ErrBookNotFound)
	assert.Equal(t, 400, apperrors.GetAppError(err).HTTPStatus(), "下单时图书不存在属于请求错误")

	assert.Equal(t, 5, f.stock(t, b.ID))
	assert.Zero(t, f.orderCount(t))

	logs, _ := f.repos.InventoryLogs.ListByBookID(context.Background(), b.ID)
	assert.Empty(t, logs)
}

func TestCreateOrder_MultiLineAtomicity(t *testing.T) {
	f := newFixture(t)
	alice := f.customer(t, "alice")
	b1 := f.book(t, "A", "10.00", 5)
	b2 := f.book(t, "B", "20.00", 5)
	b3 := f.book(t, "C", "30.00", 1)

	_, err := f.create.Execute(context.Background(), apporder.CreateOrderCommand{
		CustomerID: alice.UserID,
		Lines: []apporder.LineRequest{
			{BookID: b1.ID, Quantity: 2},
			{BookID: b2.ID, Quantity: 2},
			{BookID: b3.ID, Quantity: 2},
		},
	})
	require.ErrorIs(t, err, inventory.ErrInsufficientStock)

	assert.Equal(t, 5, f.stock(t, b1.ID))
	assert.Equal(t, 5, f.stock(t, b2.ID))
	assert.Equal(t, 1, f.stock(t, b3.ID))
	assert.Zero(t, f.orderCount(t))
}

func TestCreateOrder_Validation(t *testing.T) {
	f := newFixture(t)
	alice := f.customer(t, "alice")
	b := f.book(t, "A", "10.00", 5)

	tests := []struct {
		name  string
		lines []apporder.LineRequest
		want  error
	}{
		{"空明细", nil, order.ErrEmptyOrder},
		{"数量为0", []apporder.LineRequest{{BookID: b.ID, Quantity: 0}}, order.ErrInvalidQuantity},
		{"数量为负", []apporder.LineRequest{{BookID: b.ID, Quantity: 1}, {BookID: b.ID, Quantity: -1}}, order.ErrInvalidQuantity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.create.Execute(context.Background(), apporder.CreateOrderCommand{CustomerID: alice.UserID, Lines: tt.lines})
			require.ErrorIs(t, err, tt.want)
			assert.Equal(t, 400, apperrors.GetAppError(err).HTTPStatus())
		})
	}
	assert.Equal(t, 5, f.stock(t, b.ID))
}

func TestCreateOrder_MissingCustomer(t *testing.T) {
	f := newFixture(t)
	b := f.book(t, "A", "10.00", 5)

	_, err := f.create.Execute(context.Background(), apporder.CreateOrderCommand{
		CustomerID: "no-such-customer",
		Lines:      []apporder.LineRequest{{BookID: b.ID, Quantity: 1}},
	})
	require.ErrorIs(t, err, user.ErrUserNotFound)
	assert.Equal(t, 404, apperrors.GetAppError(err).HTTPStatus())
	assert.Equal(t, 5, f.stock(t, b.ID))
}

func TestCreateOrder_MergesDuplicateBooks(t *testing.T) {
	f := newFixture(t)
	alice := f.customer(t, "alice")
	b := f.book(t, "A", "12.50", 5)

	view, err := f.create.Execute(context.Background(), apporder.CreateOrderCommand{
		CustomerID: alice.UserID,
		Lines:      []apporder.LineRequest{{BookID: b.ID, Quantity: 2}, {BookID: b.ID, Quantity: 2}},
	})
	require.NoError(t, err)
	require.Len(t, view.Details, 1)
	assert.Equal(t, 4, view.Details[0].Quantity)
	assert.Equal(t, json.Number("50.00"), view.TotalPrice)
	assert.Equal(t, 1, f.stock(t, b.ID))

	// 合并后超过库存应整体失败
	_, err = f.create.Execute(context.Background(), apporder.CreateOrderCommand{
		CustomerID: alice.UserID,
		Lines:      []apporder.LineRequest{{BookID: b.ID, Quantity: 1}, {BookID: b.ID, Quantity: 1}},
	})
	require.ErrorIs(t, err, inventory.ErrInsufficientStock)
	assert.Equal(t, 1, f.stock(t, b.ID))
}

func TestCreateOrder_MergedQuantityDoesNotWrapAround(t *testing.T) {
	f := newFixture(t)
	alice := f.customer(t, "alice")
	b := f.book(t, "A", "10.00", 5)

	tests := []struct {
		name  string
		lines []apporder.LineRequest
	}{
		{"两条合计溢出", []apporder.LineRequest{{BookID: b.ID, Quantity: math.MaxInt}, {BookID: b.ID, Quantity: 1}}},
		{"回绕到小正数", []apporder.LineRequest{
			{BookID: b.ID, Quantity: math.MaxInt},
			{BookID: b.ID, Quantity: math.MaxInt},
			{BookID: b.ID, Quantity: 4},
		}},
		{"单条极大数量", []apporder.LineRequest{{BookID: b.ID, Quantity: math.MaxInt}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.create.Execute(context.Background(), apporder.CreateOrderCommand{CustomerID: alice.UserID, Lines: tt.lines})
			require.ErrorIs(t, err, inventory.ErrInsufficientStock)
			assert.Equal(t, 400, apperrors.GetAppError(err).HTTPStatus())
		})
	}

	assert.Equal(t, 5, f.stock(t, b.ID))
	assert.Zero(t, f.orderCount(t))
	assert.Empty(t, f.events.types())
}

func TestCreateOrder_PriceSnapshot(t *testing.T) {
	f := newFixture(t)
	alice := f.customer(t, "alice")
	b := f.book(t, "A", "10.00", 5)

	created, err := f.create.Execute(context.Background(), apporder.CreateOrderCommand{
		CustomerID: alice.UserID,
		Lines:      []apporder.LineRequest{{BookID: b.ID, Quantity: 2}},
	})
	require.NoError(t, err)

	require.NoError(t, b.UpdatePrice(decimal.RequireFromString("99.99")))
	require.NoError(t, f.repos.Books.Update(context.Background(), b))

	got, err := f.query.Get(context.Background(), alice, created.ID)
	require.NoError(t, err)
	assert.Equal(t, json.Number("20.00"), got.TotalPrice)
	assert.Equal(t, json.Number("10.00"), got.Details[0].UnitPrice)
}

func TestCreateOrder_TotalMatchesLines(t *testing.T) {
	f := newFixture(t)
	alice := f.customer(t, "alice")
	b1 := f.book(t, "A", "19.99", 10)
	b2 := f.book(t, "B", "0.10", 10)

	_, err := f.create.Execute(context.Background(), apporder.CreateOrderCommand{
		CustomerID: alice.UserID,
		Lines:      []apporder.LineRequest{{BookID: b2.ID, Quantity: 3}, {BookID: b1.ID, Quantity: 3}},
	})
	require.NoError(t, err)

	orders, err := f.repos.Orders.ListByCustomerID(context.Background(), alice.UserID)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	o := orders[0]
	assert.True(t, o.TotalPrice.Equal(o.CalculateTotal()))
	assert.Equal(t, "60.27", o.TotalPrice.StringFixed(2))
	assert.Equal(t, []uint{b1.ID, b2.ID}, o.BookIDs(), "明细按图书ID升序")
}

func TestCreateOrder_ConcurrentOrdersNeverOversell(t *testing.T) {
	f := newFixture(t)
	b := f.book(t, "热门图书", "10.00", 10)

	const (
		workers  = 20
		quantity = 3
	)
	customers := make([]auth.Principal, workers)
	for i := range customers {
		customers[i] = f.customer(t, "c"+string(rune('a'+i)))
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(p auth.Principal) {
			defer wg.Done()
			_, err := f.create.Execute(context.Background(), apporder.CreateOrderCommand{
				CustomerID: p.UserID,
				Lines:      []apporder.LineRequest{{BookID: b.ID, Quantity: quantity}},
			})
			if err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			} else {
				assert.ErrorIs(t, err, inventory.ErrInsufficientStock)
			}
		}(customers[i])
	}
	wg.Wait()

	assert.Equal(t, 3, successes)
	assert.LessOrEqual(t, successes*quantity, 10)
	assert.Equal(t, 10-successes*quantity, f.stock(t, b.ID))
	assert.Equal(t, successes, f.orderCount(t), "订单历史只包含成功的下单")
}

func TestCreateOrder_CancelledRequestRollsBack(t *testing.T) {
	f := newFixture(t)
	alice := f.customer(t, "alice")
	b := f.book(t, "A", "10.00", 5)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.create.Execute(ctx, apporder.CreateOrderCommand{
		CustomerID: alice.UserID,
		Lines:      []apporder.LineRequest{{BookID: b.ID, Quantity: 1}},
	})
	require.Error(t, err)
	assert.Equal(t, 5, f.stock(t, b.ID))
	assert.Zero(t, f.orderCount(t))
}

func placeOrder(t *testing.T, f *fixture, p auth.Principal, b *book.Book, qty int) *apporder.OrderView {
	t.Helper()
	view, err := f.create.Execute(context.Background(), apporder.CreateOrderCommand{
		CustomerID: p.UserID,
		Lines:      []apporder.LineRequest{{BookID: b.ID, Quantity: qty}},
	})
	require.NoError(t, err)
	return view
}

func TestSetStatus(t *testing.T) {
	f := newFixture(t)
	alice := f.customer(t, "alice")
	bob := f.customer(t, "bob")
	admin := auth.Principal{UserID: "admin-1", Roles: []string{auth.RoleAdmin}}
	b := f.book(t, "A", "10.00", 5)
	created := placeOrder(t, f, alice, b, 1)

	t.Run("所有者可以任意切换状态", func(t *testing.T) {
		require.NoError(t, f.setStatus.Execute(context.Background(), alice, created.ID, "delivered"))
		require.NoError(t, f.setStatus.Execute(context.Background(), alice, created.ID, "Pending"))

		got, err := f.query.Get(context.Background(), alice, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Pending", got.Status)
	})

	t.Run("他人不能修改", func(t *testing.T) {
		err := f.setStatus.Execute(context.Background(), bob, created.ID, "Paid")
		require.ErrorIs(t, err, auth.ErrForbidden)
		assert.Equal(t, 401, apperrors.GetAppError(err).HTTPStatus())
	})

	t.Run("管理员也不能修改", func(t *testing.T) {
		err := f.setStatus.Execute(context.Background(), admin, created.ID, "Paid")
		require.ErrorIs(t, err, auth.ErrForbidden)
	})

	t.Run("订单不存在", func(t *testing.T) {
		err := f.setStatus.Execute(context.Background(), alice, 999, "Paid")
		require.ErrorIs(t, err, order.ErrOrderNotFound)
		assert.Equal(t, 404, apperrors.GetAppError(err).HTTPStatus())
	})

	t.Run("未知状态", func(t *testing.T) {
		err := f.setStatus.Execute(context.Background(), alice, created.ID, "Refunded")
		require.ErrorIs(t, err, order.ErrInvalidStatus)
		assert.Equal(t, 400, apperrors.GetAppError(err).HTTPStatus())
	})

	assert.Equal(t, []string{order.EventCreated, order.EventStatusChanged, order.EventStatusChanged}, f.events.types())
}

func TestDeleteOrder(t *testing.T) {
	f := newFixture(t)
	alice := f.customer(t, "alice")
	bob := f.customer(t, "bob")
	b := f.book(t, "A", "10.00", 5)
	created := placeOrder(t, f, alice, b, 2)

	err := f.remove.Execute(context.Background(), bob, created.ID)
	require.ErrorIs(t, err, auth.ErrForbidden)

	require.NoError(t, f.remove.Execute(context.Background(), alice, created.ID))
	assert.Zero(t, f.orderCount(t))
	assert.Equal(t, 3, f.stock(t, b.ID), "删除订单不回补库存")

	err = f.remove.Execute(context.Background(), alice, created.ID)
	require.ErrorIs(t, err, order.ErrOrderNotFound)
}

func TestQueryOrders(t *testing.T) {
	f := newFixture(t)
	alice := f.customer(t, "alice")
	bob := f.customer(t, "bob")
	admin := auth.Principal{UserID: "admin-1", Roles: []string{auth.RoleAdmin}}
	b := f.book(t, "A", "10.00", 10)

	a1 := placeOrder(t, f, alice, b, 1)
	placeOrder(t, f, bob, b, 1)
	placeOrder(t, f, alice, b, 2)

	mine, err := f.query.ListMine(context.Background(), alice)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, a1.ID, mine[0].ID)
	for _, v := range mine {
		assert.Equal(t, "Customer alice", v.CustomerName)
	}

	all, err := f.query.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = f.query.Get(context.Background(), bob, a1.ID)
	assert.ErrorIs(t, err, auth.ErrForbidden)

	got, err := f.query.Get(context.Background(), admin, a1.ID)
	require.NoError(t, err)
	assert.Equal(t, a1.ID, got.ID)
}

func TestQueryOrders_DeletedCustomerShowsUnknown(t *testing.T) {
	f := newFixture(t)
	alice := f.customer(t, "alice")
	b := f.book(t, "A", "10.00", 10)
	created := placeOrder(t, f, alice, b, 1)

	require.NoError(t, f.repos.Users.Delete(context.Background(), alice.UserID))

	all, err := f.query.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, created.ID, all[0].ID)
	assert.Equal(t, "Unknown", all[0].CustomerName)
}

func TestOrderView_JSONShape(t *testing.T) {
	f := newFixture(t)
	alice := f.customer(t, "alice")
	b := f.book(t, "A", "10", 5)
	created := placeOrder(t, f, alice, b, 3)

	raw, err := json.Marshal(created)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, 30.0, decoded["totalPrice"], "金额以数字输出")
	assert.Contains(t, decoded, "customerName")
	assert.Contains(t, decoded, "orderDate")
	details := decoded["details"].([]interface{})
	assert.Equal(t, "A", details[0].(map[string]interface{})["bookTitle"])
}
