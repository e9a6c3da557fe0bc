package inventory

import "time"

// Warehouse 仓库实体
// Code是业务主键(唯一),一个仓库持有多条库存记录
type Warehouse struct {
	ID        uint
	Code      string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Inventory 库存台账(领域模型)
// 设计说明:
// 1. 以(WarehouseID, BookID)为业务主键,Quantity任何时刻≥0
// 2. 只有两种合法变更:下单扣减(checkout)与回补/补货(取消、退货、进货)
// 3. 并发扣减靠数据库行锁串行化,锁必须按(warehouse_id, book_id)
//    升序获取,保证全局加锁顺序一致,避免死锁
type Inventory struct {
	ID          uint
	WarehouseID uint
	BookID      uint
	Quantity    int // 可用库存,非负
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate 验证库存实体
func (i *Inventory) Validate() error {
	if i.WarehouseID == 0 {
		return ErrInvalidWarehouseID
	}
	if i.BookID == 0 {
		return ErrInvalidBookID
	}
	if i.Quantity < 0 {
		return ErrNegativeQuantity
	}
	return nil
}

// CanAllocate 判断能否整行满足扣减数量
// 必须在行锁持有期间调用,否则判断结果不可信
func (i *Inventory) CanAllocate(quantity int) bool {
	return quantity > 0 && i.Quantity >= quantity
}

// IsOutOfStock 是否缺货
func (i *Inventory) IsOutOfStock() bool {
	return i.Quantity <= 0
}
