package inventory

import (
	"github.com/shopspring/decimal"
)

// Reservation 一条已校验、尚未提交的库存预留
// UnitPrice是预留时锁定的价格快照
type Reservation struct {
	BookID      uint
	Title       string
	Quantity    int
	UnitPrice   decimal.Decimal
	StockBefore int
}

// Subtotal 小计
func (r Reservation) Subtotal() decimal.Decimal {
	return r.UnitPrice.Mul(decimal.NewFromInt(int64(r.Quantity)))
}

// Reservations 预留暂存区
// 下单时所有明细先在这里暂存，全部通过后才一次性写库；
// 任何一条失败，整个暂存区直接丢弃，不会产生任何持久化副作用
type Reservations struct {
	items []Reservation
	index map[uint]int
}

// NewReservations 创建暂存区
func NewReservations(capacity int) *Reservations {
	return &Reservations{
		items: make([]Reservation, 0, capacity),
		index: make(map[uint]int, capacity),
	}
}

// Add 暂存一条预留
func (rs *Reservations) Add(r Reservation) error {
	if _, ok := rs.index[r.BookID]; ok {
		return ErrDuplicateReservation
	}
	rs.index[r.BookID] = len(rs.items)
	rs.items = append(rs.items, r)
	return nil
}

// Get 按图书查询预留
func (rs *Reservations) Get(bookID uint) (Reservation, bool) {
	i, ok := rs.index[bookID]
	if !ok {
		return Reservation{}, false
	}
	return rs.items[i], true
}

// Items 全部预留（按加入顺序）
func (rs *Reservations) Items() []Reservation {
	return append([]Reservation(nil), rs.items...)
}

// Len 预留条数
func (rs *Reservations) Len() int {
	return len(rs.items)
}

// Total 合计金额
func (rs *Reservations) Total() decimal.Decimal {
	total := decimal.Zero
	for _, r := range rs.items {
		total = total.Add(r.Subtotal())
	}
	return total
}
