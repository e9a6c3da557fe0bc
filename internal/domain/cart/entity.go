package cart

import "time"

// Cart 购物车实体(聚合根)
// 设计说明:
// 1. 每个客户同一时刻只有一个激活购物车(IsActive=true)
// 2. 结账成功后购物车被"消费":仅翻转IsActive,不物理删除
// 3. Items按插入顺序排列,两次读取结果一致(可重复物化)
type Cart struct {
	ID         uint
	CustomerID uint
	IsActive   bool
	Items      []Item
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Item 购物车条目
// UnitPrice是加购时的目录价快照,每次加购都重新快照,
// 保证结账前客户看到的始终是当前售价
type Item struct {
	ID        uint
	CartID    uint
	BookID    uint
	Quantity  int
	UnitPrice int64 // 加购时单价快照(分)
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Subtotal 条目小计(分)
func (i Item) Subtotal() int64 {
	return i.UnitPrice * int64(i.Quantity)
}

// New 创建激活状态的购物车
func New(customerID uint) *Cart {
	now := time.Now()
	return &Cart{
		CustomerID: customerID,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// IsEmpty 购物车是否为空
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// TotalAmount 购物车总金额(分),按快照价计算
func (c *Cart) TotalAmount() int64 {
	var total int64
	for _, item := range c.Items {
		total += item.Subtotal()
	}
	return total
}

// Upsert 加购:已有同一图书则累加数量,否则追加条目
// 无论哪个分支都用unitPrice重新快照当前售价
func (c *Cart) Upsert(bookID uint, quantity int, unitPrice int64) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	now := time.Now()
	for i := range c.Items {
		if c.Items[i].BookID == bookID {
			c.Items[i].Quantity += quantity
			c.Items[i].UnitPrice = unitPrice
			c.Items[i].UpdatedAt = now
			c.UpdatedAt = now
			return nil
		}
	}
	c.Items = append(c.Items, Item{
		CartID:    c.ID,
		BookID:    bookID,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		CreatedAt: now,
		UpdatedAt: now,
	})
	c.UpdatedAt = now
	return nil
}

// Remove 移除指定图书的条目
func (c *Cart) Remove(bookID uint) error {
	for i := range c.Items {
		if c.Items[i].BookID == bookID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			c.UpdatedAt = time.Now()
			return nil
		}
	}
	return ErrItemNotFound
}

// Deactivate 结账后灭活购物车
// 幂等:对已灭活的购物车再次调用无副作用
func (c *Cart) Deactivate() {
	if !c.IsActive {
		return
	}
	c.IsActive = false
	c.UpdatedAt = time.Now()
}
