package order

import (
	"context"
	"encoding/json"

	"github.com/xiebiao/bookstore-orders/internal/domain/book"
	"github.com/xiebiao/bookstore-orders/internal/domain/order"
	"github.com/xiebiao/bookstore-orders/internal/domain/user"
)

const unknownCustomer = "Unknown"

// OrderView 订单视图
// 金额以两位小数的JSON数字输出，日期只保留到天
type OrderView struct {
	ID           uint              `json:"id"`
	CustomerName string            `json:"customerName"`
	OrderDate    string            `json:"orderDate"`
	TotalPrice   json.Number       `json:"totalPrice"`
	Status       string            `json:"status"`
	Details      []OrderDetailView `json:"details"`
}

// OrderDetailView 订单明细视图
type OrderDetailView struct {
	BookID    uint        `json:"bookId"`
	BookTitle string      `json:"bookTitle"`
	Quantity  int         `json:"quantity"`
	UnitPrice json.Number `json:"unitPrice"`
}

// viewAssembler 组装订单视图
// 客户名与书名都通过一次批量查询取得，不逐条加载关联对象
type viewAssembler struct {
	books book.Repository
	users user.Repository
}

func (a viewAssembler) assemble(ctx context.Context, orders []*order.Order) ([]OrderView, error) {
	customerIDs := make([]string, 0, len(orders))
	bookIDs := make([]uint, 0)
	seenCustomer := make(map[string]struct{})
	seenBook := make(map[uint]struct{})
	for _, o := range orders {
		if _, ok := seenCustomer[o.CustomerID]; !ok {
			seenCustomer[o.CustomerID] = struct{}{}
			customerIDs = append(customerIDs, o.CustomerID)
		}
		for _, id := range o.BookIDs() {
			if _, ok := seenBook[id]; !ok {
				seenBook[id] = struct{}{}
				bookIDs = append(bookIDs, id)
			}
		}
	}

	customers, err := a.users.FindByIDs(ctx, customerIDs)
	if err != nil {
		return nil, err
	}
	books, err := a.books.FindByIDs(ctx, bookIDs)
	if err != nil {
		return nil, err
	}

	views := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, buildView(o, customers[o.CustomerID], books))
	}
	return views, nil
}

func (a viewAssembler) one(ctx context.Context, o *order.Order) (*OrderView, error) {
	views, err := a.assemble(ctx, []*order.Order{o})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func buildView(o *order.Order, customer *user.User, books map[uint]*book.Book) OrderView {
	details := make([]OrderDetailView, 0, len(o.Lines))
	for _, l := range o.Lines {
		d := OrderDetailView{
			BookID:    l.BookID,
			Quantity:  l.Quantity,
			UnitPrice: json.Number(l.UnitPrice.StringFixed(2)),
		}
		// 图书已从目录删除时书名为空，历史单价不受影响
		if b, ok := books[l.BookID]; ok {
			d.BookTitle = b.Title
		}
		details = append(details, d)
	}

	return OrderView{
		ID:           o.ID,
		CustomerName: customerName(customer),
		OrderDate:    o.OrderDate.Format("2006-01-02"),
		TotalPrice:   json.Number(o.TotalPrice.StringFixed(2)),
		Status:       o.Status.String(),
		Details:      details,
	}
}

func customerName(u *user.User) string {
	switch {
	case u == nil:
		return unknownCustomer
	case u.FullName != "":
		return u.FullName
	default:
		return u.Username
	}
}
