package order

import (
	"strings"
)

// Status 订单状态
// 教学要点：
// 1. 使用int存储（节省空间，便于索引），对外以名称字符串呈现
// 2. 状态是封闭枚举，未知值一律拒绝
// 3. 不强制状态流转图：任意合法状态之间都可以直接切换（与现有客户端行为保持一致）
type Status int

const (
	StatusPending   Status = iota // 待支付
	StatusPaid                    // 已支付
	StatusShipped                 // 已发货
	StatusDelivered               // 已送达
	StatusCancelled               // 已取消
)

var statusNames = [...]string{
	StatusPending:   "Pending",
	StatusPaid:      "Paid",
	StatusShipped:   "Shipped",
	StatusDelivered: "Delivered",
	StatusCancelled: "Cancelled",
}

// String 实现Stringer接口
func (s Status) String() string {
	if !s.IsValid() {
		return "Unknown"
	}
	return statusNames[s]
}

// IsValid 是否为已定义的状态
func (s Status) IsValid() bool {
	return s >= StatusPending && int(s) < len(statusNames)
}

// ParseStatus 按名称解析状态（忽略大小写）
func ParseStatus(name string) (Status, error) {
	name = strings.TrimSpace(name)
	for i, n := range statusNames {
		if strings.EqualFold(n, name) {
			return Status(i), nil
		}
	}
	return 0, ErrInvalidStatus
}

// AllStatuses 全部状态（用于文档与校验）
func AllStatuses() []Status {
	all := make([]Status, len(statusNames))
	for i := range statusNames {
		all[i] = Status(i)
	}
	return all
}
