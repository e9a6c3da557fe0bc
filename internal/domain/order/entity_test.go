package order

import (
	"testing"
	"time"
)

// TestStatusTransitions 验证状态机的全部合法边
func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusPending, StatusPaid, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusAllocated, false},
		{StatusPending, StatusShipped, false},
		{StatusPaid, StatusAllocated, true},
		{StatusPaid, StatusCancelled, true},
		{StatusPaid, StatusDelivered, false},
		{StatusAllocated, StatusShipped, true},
		{StatusAllocated, StatusCancelled, true},
		{StatusAllocated, StatusPaid, false},
		{StatusShipped, StatusDelivered, true},
		{StatusShipped, StatusCancelled, false},
		{StatusDelivered, StatusReturned, true},
		{StatusDelivered, StatusCancelled, false},
		{StatusCancelled, StatusPending, false},
		{StatusCancelled, StatusPaid, false},
		{StatusReturned, StatusDelivered, false},
		{StatusReturned, StatusPending, false},
	}

	for _, tc := range cases {
		o := &Order{Status: tc.from}
		got := o.CanTransitionTo(tc.to)
		if got != tc.allowed {
			t.Errorf("%s → %s: 期望allowed=%v, 实际%v", tc.from, tc.to, tc.allowed, got)
		}
	}
}

// TestTransitionTo_Illegal 非法流转不得修改任何字段
func TestTransitionTo_Illegal(t *testing.T) {
	o := &Order{Status: StatusShipped}
	err := o.TransitionTo(StatusCancelled)
	if err != ErrInvalidStatusTransition {
		t.Fatalf("期望ErrInvalidStatusTransition, 实际%v", err)
	}
	if o.Status != StatusShipped {
		t.Errorf("非法流转不应修改状态, 实际变成了%s", o.Status)
	}
	if o.LockedAt != nil {
		t.Error("非法流转不应设置LockedAt")
	}
}

// TestTransitionTo_Legal 合法流转更新状态与锁定时间
func TestTransitionTo_Legal(t *testing.T) {
	o := &Order{Status: StatusPending}
	if err := o.TransitionTo(StatusPaid); err != nil {
		t.Fatalf("期望流转成功, 实际%v", err)
	}
	if o.Status != StatusPaid {
		t.Errorf("期望状态PAID, 实际%s", o.Status)
	}
	if o.LockedAt == nil {
		t.Error("流转后应设置LockedAt")
	}
}

// TestIsTerminal 终态无出边
func TestIsTerminal(t *testing.T) {
	terminals := map[Status]bool{
		StatusPending:   false,
		StatusPaid:      false,
		StatusAllocated: false,
		StatusShipped:   false,
		StatusDelivered: false, // DELIVERED可退货,不是终态
		StatusCancelled: true,
		StatusReturned:  true,
	}
	for s, want := range terminals {
		if s.IsTerminal() != want {
			t.Errorf("%s.IsTerminal(): 期望%v", s, want)
		}
	}
}

// TestRequiresInventoryReversal 只有两条边需要回补库存
func TestRequiresInventoryReversal(t *testing.T) {
	cases := []struct {
		from Status
		to   Status
		want bool
	}{
		{StatusAllocated, StatusCancelled, true},
		{StatusDelivered, StatusReturned, true},
		{StatusPending, StatusCancelled, false}, // 未配货,无扣减可回补
		{StatusPaid, StatusCancelled, false},
		{StatusPaid, StatusAllocated, false},
		{StatusShipped, StatusDelivered, false},
	}
	for _, tc := range cases {
		o := &Order{Status: tc.from}
		if got := o.RequiresInventoryReversal(tc.to); got != tc.want {
			t.Errorf("%s → %s 回补判断: 期望%v, 实际%v", tc.from, tc.to, tc.want, got)
		}
	}
}

// TestParseStatus 状态名解析
func TestParseStatus(t *testing.T) {
	for s := StatusPending; s <= StatusReturned; s++ {
		got, err := ParseStatus(s.String())
		if err != nil {
			t.Fatalf("解析%s失败: %v", s, err)
		}
		if got != s {
			t.Errorf("期望%d, 实际%d", s, got)
		}
	}

	if _, err := ParseStatus("SHIPPED_BACK"); err != ErrUnknownStatus {
		t.Errorf("未知状态名期望ErrUnknownStatus, 实际%v", err)
	}
}

// TestNew 工厂方法校验与总额计算
func TestNew(t *testing.T) {
	lines := []Line{
		{BookID: 1, WarehouseID: 1, Quantity: 2, UnitPrice: 5900},
		{BookID: 2, WarehouseID: 1, Quantity: 1, UnitPrice: 12800},
	}
	o, err := New("ORD20260831000000000001", 42, lines, nil)
	if err != nil {
		t.Fatalf("创建订单失败: %v", err)
	}

	if o.Status != StatusPending {
		t.Errorf("新订单期望PENDING, 实际%s", o.Status)
	}
	want := int64(2*5900 + 12800)
	if o.TotalAmount != want {
		t.Errorf("总额期望%d, 实际%d", want, o.TotalAmount)
	}
	if o.CustomerID != 42 {
		t.Errorf("客户ID期望42, 实际%d", o.CustomerID)
	}
}

// TestNew_EmptyLines 明细为空必须拒绝
func TestNew_EmptyLines(t *testing.T) {
	if _, err := New("ORD1", 1, nil, nil); err != ErrEmptyLines {
		t.Errorf("期望ErrEmptyLines, 实际%v", err)
	}
}

// TestNew_InvalidQuantity 数量非正必须拒绝
func TestNew_InvalidQuantity(t *testing.T) {
	lines := []Line{{BookID: 1, Quantity: 0, UnitPrice: 100}}
	if _, err := New("ORD1", 1, lines, nil); err != ErrInvalidQuantity {
		t.Errorf("期望ErrInvalidQuantity, 实际%v", err)
	}
}

// TestCalculateTotal 总额永远由明细重算
func TestCalculateTotal(t *testing.T) {
	o := &Order{
		Lines: []Line{
			{Quantity: 3, UnitPrice: 1000},
			{Quantity: 2, UnitPrice: 2500},
		},
		TotalAmount: 99999999, // 被篡改的冗余值
	}
	if got := o.CalculateTotal(); got != 8000 {
		t.Errorf("期望8000, 实际%d", got)
	}
}

// TestAddressAccessors 地址快照按类型读取
func TestAddressAccessors(t *testing.T) {
	o := &Order{
		Addresses: []Address{
			{Type: AddressTypeShipping, City: "北京"},
			{Type: AddressTypeBilling, City: "上海"},
		},
	}
	if addr := o.ShippingAddress(); addr == nil || addr.City != "北京" {
		t.Errorf("收货地址读取错误: %+v", addr)
	}
	if addr := o.BillingAddress(); addr == nil || addr.City != "上海" {
		t.Errorf("账单地址读取错误: %+v", addr)
	}

	onlyShipping := &Order{Addresses: []Address{{Type: AddressTypeShipping}}}
	if onlyShipping.BillingAddress() != nil {
		t.Error("没有账单地址时应返回nil")
	}
}

// TestFullLifecycle 典型生命周期走通
func TestFullLifecycle(t *testing.T) {
	o := &Order{Status: StatusPending, PlacedAt: time.Now()}
	path := []Status{StatusPaid, StatusAllocated, StatusShipped, StatusDelivered, StatusReturned}
	for _, next := range path {
		if err := o.TransitionTo(next); err != nil {
			t.Fatalf("流转到%s失败: %v", next, err)
		}
	}
	if !o.Status.IsTerminal() {
		t.Errorf("走完生命周期应到达终态, 实际%s", o.Status)
	}
}
