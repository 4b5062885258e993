package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order 订单实体（聚合根）
// 教学要点：
// 1. Order是聚合根，Line是子实体，明细只能随订单一起创建/删除
// 2. TotalPrice由明细计算得出，只在NewOrder中赋值，之后不允许单独修改
// 3. 只保存CustomerID，不持有客户对象（查询视图时显式批量加载）
type Order struct {
	ID         uint
	CustomerID string
	OrderDate  time.Time // 下单日期（精确到天）
	TotalPrice decimal.Decimal
	Status     Status
	Lines      []Line
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Line 订单明细
// 1. (OrderID, BookID) 唯一
// 2. UnitPrice 是下单时的价格快照，之后图书改价不影响历史订单
type Line struct {
	OrderID   uint
	BookID    uint
	Quantity  int
	UnitPrice decimal.Decimal
}

// Subtotal 明细小计
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// NewOrder 创建新订单（工厂方法）
// 教学要点：
// 1. 工厂方法保证实体有效：明细非空、数量为正、图书不重复
// 2. 总价在这里由明细算出，调用方无法传入一个与明细不符的总价
// 3. 初始状态为Pending
func NewOrder(customerID string, lines []Line, now time.Time) (*Order, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyOrder
	}

	seen := make(map[uint]struct{}, len(lines))
	for _, l := range lines {
		if l.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		if l.UnitPrice.IsNegative() {
			return nil, ErrInvalidUnitPrice
		}
		if _, dup := seen[l.BookID]; dup {
			return nil, ErrDuplicateLine
		}
		seen[l.BookID] = struct{}{}
	}

	o := &Order{
		CustomerID: customerID,
		OrderDate:  DateOf(now),
		Status:     StatusPending,
		Lines:      append([]Line(nil), lines...),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	o.TotalPrice = o.CalculateTotal()
	return o, nil
}

// DateOf 取日期部分（按t自身时区的年月日，存为UTC零点）
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// CalculateTotal 计算订单总金额 = Σ 数量 × 单价
func (o *Order) CalculateTotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range o.Lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// IsOwnedBy 检查订单是否属于指定客户
func (o *Order) IsOwnedBy(customerID string) bool {
	return o.CustomerID == customerID
}

// SetStatus 修改状态
// 不校验流转顺序，只拒绝未定义的状态值
func (o *Order) SetStatus(s Status) error {
	if !s.IsValid() {
		return ErrInvalidStatus
	}
	o.Status = s
	o.UpdatedAt = time.Now()
	return nil
}

// BookIDs 订单涉及的图书ID（按明细顺序）
func (o *Order) BookIDs() []uint {
	ids := make([]uint, 0, len(o.Lines))
	for _, l := range o.Lines {
		ids = append(ids, l.BookID)
	}
	return ids
}
