package order

import (
	"time"
)

// Status 订单状态
// 设计说明:
// 1. 使用int类型而非string(节省存储空间,便于索引)
// 2. 状态流转由transitions表统一定义,不允许散落的if判断
type Status int

const (
	StatusPending   Status = 1 // 待支付
	StatusPaid      Status = 2 // 已支付
	StatusAllocated Status = 3 // 已配货
	StatusShipped   Status = 4 // 已发货
	StatusDelivered Status = 5 // 已送达
	StatusCancelled Status = 6 // 已取消(终态)
	StatusReturned  Status = 7 // 已退货(终态)
)

// String 实现Stringer接口(方便日志输出)
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "PENDING"
	case StatusPaid:
		return "PAID"
	case StatusAllocated:
		return "ALLOCATED"
	case StatusShipped:
		return "SHIPPED"
	case StatusDelivered:
		return "DELIVERED"
	case StatusCancelled:
		return "CANCELLED"
	case StatusReturned:
		return "RETURNED"
	default:
		return "UNKNOWN"
	}
}

// ParseStatus 解析状态名称
func ParseStatus(name string) (Status, error) {
	for s := StatusPending; s <= StatusReturned; s++ {
		if s.String() == name {
			return s, nil
		}
	}
	return 0, ErrUnknownStatus
}

// transitions 状态转换表
// 设计说明:合法流转集中在一张表里,任何不在表中的边都是非法流转
//
//	PENDING → PAID → ALLOCATED → SHIPPED → DELIVERED(终态可退货)
//	PENDING/PAID/ALLOCATED → CANCELLED
//	DELIVERED → RETURNED
var transitions = map[Status][]Status{
	StatusPending:   {StatusPaid, StatusCancelled},
	StatusPaid:      {StatusAllocated, StatusCancelled},
	StatusAllocated: {StatusShipped, StatusCancelled},
	StatusShipped:   {StatusDelivered},
	StatusDelivered: {StatusReturned},
	StatusCancelled: {},
	StatusReturned:  {},
}

// reversalEdges 需要回补库存的流转
// ALLOCATED→CANCELLED 和 DELIVERED→RETURNED 必须在同一事务内
// 按订单明细原数量回增对应仓库的库存
var reversalEdges = map[Status]map[Status]bool{
	StatusAllocated: {StatusCancelled: true},
	StatusDelivered: {StatusReturned: true},
}

// IsTerminal 是否为终态(无后续流转)
func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// AddressType 订单地址类型
type AddressType string

const (
	AddressTypeShipping AddressType = "shipping" // 收货地址
	AddressTypeBilling  AddressType = "billing"  // 账单地址
)

// Order 订单实体(聚合根)
// 设计说明:
// 1. Order是聚合根,Line和Address是聚合内的子实体
// 2. TotalAmount永远由明细重新计算,不允许单独编辑
// 3. LockedAt记录状态变更操作开始的时刻
type Order struct {
	ID          uint
	OrderNo     string // 订单号(业务主键,全局唯一)
	CustomerID  uint   // 买家客户ID
	Status      Status
	TotalAmount int64 // 订单总金额(分),= Σ 数量×快照单价
	Lines       []Line
	Addresses   []Address
	PlacedAt    time.Time
	LockedAt    *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Line 订单明细项
// 设计说明:
// 1. (order, book)唯一,必须通过Order访问
// 2. UnitPrice是下单时的价格快照,之后目录改价不影响历史订单
// 3. WarehouseID记录扣减来源仓库,用于取消/退货时精确回补
type Line struct {
	ID          uint
	OrderID     uint
	BookID      uint
	WarehouseID uint  // 库存扣减来源仓库
	Quantity    int   // 购买数量
	UnitPrice   int64 // 下单时单价快照(分)
}

// Subtotal 明细小计(分)
func (l Line) Subtotal() int64 {
	return l.UnitPrice * int64(l.Quantity)
}

// Address 订单地址快照
// 下单时从请求复制,不回指客户地址簿,每种类型每单至多一条
type Address struct {
	ID         uint
	OrderID    uint
	Type       AddressType
	Line1      string
	Line2      string
	City       string
	State      string
	PostalCode string
	Country    string
}

// New 创建新订单(工厂方法)
// 初始状态为Pending,总金额由明细计算得出
func New(orderNo string, customerID uint, lines []Line, addresses []Address) (*Order, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyLines
	}
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
	}
	now := time.Now()
	o := &Order{
		OrderNo:    orderNo,
		CustomerID: customerID,
		Status:     StatusPending,
		Lines:      lines,
		Addresses:  addresses,
		PlacedAt:   now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	o.TotalAmount = o.CalculateTotal()
	return o, nil
}

// CalculateTotal 根据明细计算订单总金额(分)
// TotalAmount冗余存储,但只能通过本方法重算,防止改价攻击
func (o *Order) CalculateTotal() int64 {
	var total int64
	for _, line := range o.Lines {
		total += line.Subtotal()
	}
	return total
}

// CanTransitionTo 检查是否可以转换到目标状态
func (o *Order) CanTransitionTo(target Status) bool {
	for _, allowed := range transitions[o.Status] {
		if allowed == target {
			return true
		}
	}
	return false
}

// TransitionTo 状态转换
// 非法流转返回ErrInvalidStatusTransition且不修改任何字段
func (o *Order) TransitionTo(target Status) error {
	if !o.CanTransitionTo(target) {
		return ErrInvalidStatusTransition
	}
	now := time.Now()
	o.Status = target
	o.LockedAt = &now
	o.UpdatedAt = now
	return nil
}

// RequiresInventoryReversal 该流转是否需要回补库存
// 调用方必须在转换前用当前状态判断
func (o *Order) RequiresInventoryReversal(target Status) bool {
	return reversalEdges[o.Status][target]
}

// ShippingAddress 返回收货地址快照(可能为nil)
func (o *Order) ShippingAddress() *Address {
	return o.addressOf(AddressTypeShipping)
}

// BillingAddress 返回账单地址快照(可能为nil)
func (o *Order) BillingAddress() *Address {
	return o.addressOf(AddressTypeBilling)
}

func (o *Order) addressOf(t AddressType) *Address {
	for i := range o.Addresses {
		if o.Addresses[i].Type == t {
			return &o.Addresses[i]
		}
	}
	return nil
}

// IsOwnedBy 检查订单是否属于指定客户
func (o *Order) IsOwnedBy(customerID uint) bool {
	return o.CustomerID == customerID
}
