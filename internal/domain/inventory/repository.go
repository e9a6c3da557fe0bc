package inventory

import "context"

// Repository 库存仓储接口(领域层定义)
// 设计说明:
// 1. 依赖倒置:高层定义接口,mysql实现
// 2. LockForBooks/Deduct/Restore必须在事务内调用(context携带事务DB)
type Repository interface {
	// LockForBooks 锁定一批图书的全部库存行
	// 单条SELECT FOR UPDATE,按(warehouse_id, book_id)升序返回,
	// 所有事务以同一顺序加锁,保证不会循环等待
	LockForBooks(ctx context.Context, bookIDs []uint) ([]*Inventory, error)

	// Deduct 扣减库存(带守卫条件的原子UPDATE)
	// 执行 UPDATE ... SET quantity = quantity - ? WHERE ... AND quantity >= ?
	// 守卫条件不满足时返回ErrInsufficientStock
	Deduct(ctx context.Context, warehouseID, bookID uint, quantity int) error

	// Restore 回补库存(取消/退货的逆操作,或补货)
	Restore(ctx context.Context, warehouseID, bookID uint, quantity int) error

	// GetQuantity 查询可用库存数量
	GetQuantity(ctx context.Context, warehouseID, bookID uint) (int, error)

	// Upsert 创建或覆盖库存记录(补货/初始化)
	Upsert(ctx context.Context, inv *Inventory) error
}

// WarehouseRepository 仓库仓储接口
type WarehouseRepository interface {
	// Create 创建仓库
	Create(ctx context.Context, w *Warehouse) error

	// FindByCode 根据仓库编码查找
	FindByCode(ctx context.Context, code string) (*Warehouse, error)
}
