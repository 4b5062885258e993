package mysql

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// 这里是infrastructure层的数据模型（带GORM tag），
// domain层实体不依赖GORM，由Repository负责两者之间的转换

// UserModel 用户表，管理员与客户共用
type UserModel struct {
	ID           string    `gorm:"primaryKey;size:36;comment:用户ID(UUID)"`
	Username     string    `gorm:"uniqueIndex;size:256;not null;comment:用户名"`
	Email        string    `gorm:"uniqueIndex;size:256;not null;comment:邮箱"`
	PasswordHash string    `gorm:"size:255;not null;comment:密码(bcrypt)"`
	FullName     string    `gorm:"size:100;comment:姓名"`
	PhoneNumber  string    `gorm:"size:30;comment:电话"`
	Address      string    `gorm:"size:500;comment:地址"`
	Roles        string    `gorm:"size:100;not null;default:'';comment:角色(逗号分隔)"`
	CreatedAt    time.Time `gorm:"comment:创建时间"`
	UpdatedAt    time.Time `gorm:"comment:更新时间"`
}

func (UserModel) TableName() string {
	return "users"
}

func joinRoles(roles []string) string {
	return strings.Join(roles, ",")
}

func splitRoles(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

// BookModel 图书表
// 价格使用decimal(10,2)，库存由CHECK约束兜底不为负
type BookModel struct {
	ID         uint            `gorm:"primaryKey"`
	Title      string          `gorm:"index;size:200;not null;comment:书名"`
	Price      decimal.Decimal `gorm:"type:decimal(10,2);not null;comment:单价"`
	Stock      int             `gorm:"not null;default:0;check:stock >= 0;comment:库存"`
	AuthorID   uint            `gorm:"index;not null;comment:作者ID"`
	CategoryID *uint           `gorm:"index;comment:分类ID"`
	CreatedAt  time.Time       `gorm:"comment:创建时间"`
	UpdatedAt  time.Time       `gorm:"comment:更新时间"`
}

func (BookModel) TableName() string {
	return "books"
}

// OrderModel 订单表，与OrderLineModel一对多
type OrderModel struct {
	ID         uint             `gorm:"primaryKey"`
	CustomerID string           `gorm:"index;size:36;not null;comment:客户ID"`
	OrderDate  time.Time        `gorm:"type:date;not null;comment:下单日期"`
	TotalPrice decimal.Decimal  `gorm:"type:decimal(12,2);not null;comment:订单总价"`
	Status     int              `gorm:"index;type:tinyint;not null;default:0;comment:状态(0待支付1已支付2已发货3已送达4已取消)"`
	Lines      []OrderLineModel `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time        `gorm:"comment:创建时间"`
	UpdatedAt  time.Time        `gorm:"comment:更新时间"`
}

func (OrderModel) TableName() string {
	return "orders"
}

// OrderLineModel 订单明细表，(order_id, book_id) 为联合主键
// UnitPrice是下单时的价格快照
type OrderLineModel struct {
	OrderID   uint            `gorm:"primaryKey;autoIncrement:false;comment:订单ID"`
	BookID    uint            `gorm:"primaryKey;autoIncrement:false;index;comment:图书ID"`
	Quantity  int             `gorm:"not null;comment:数量"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(10,2);not null;comment:下单时单价"`
}

func (OrderLineModel) TableName() string {
	return "order_lines"
}

// InventoryLogModel 库存流水表（只追加）
type InventoryLogModel struct {
	ID          uint      `gorm:"primaryKey"`
	BookID      uint      `gorm:"index;not null;comment:图书ID"`
	OrderID     *uint     `gorm:"index;comment:关联订单ID"`
	ChangeType  string    `gorm:"size:16;not null;comment:DEDUCT/RESTOCK"`
	Quantity    int       `gorm:"not null;comment:变化量"`
	BeforeStock int       `gorm:"not null;comment:变更前库存"`
	AfterStock  int       `gorm:"not null;comment:变更后库存"`
	CreatedAt   time.Time `gorm:"index;comment:创建时间"`
}

func (InventoryLogModel) TableName() string {
	return "inventory_logs"
}
