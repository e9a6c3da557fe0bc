package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/bookshop/internal/domain/inventory"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// inventoryRepository 库存仓储实现(MySQL)
// 设计说明:
// 1. 防超卖的两道防线:FOR UPDATE行锁 + 带守卫条件的UPDATE
// 2. 加锁顺序固定为(warehouse_id, book_id)升序,
//    所有结账事务按同一全序加锁,不会出现循环等待
type inventoryRepository struct {
	db *gorm.DB
}

// NewInventoryRepository 创建库存仓储
func NewInventoryRepository(db *gorm.DB) inventory.Repository {
	return &inventoryRepository{db: db}
}

// LockForBooks 锁定一批图书的全部库存行
// 执行:
//
//	SELECT * FROM inventory WHERE book_id IN (?)
//	ORDER BY warehouse_id, book_id FOR UPDATE
//
// 单条语句按固定顺序扫描加锁;持有锁的事务COMMIT/ROLLBACK前,
// 其他结账事务在同一批行上阻塞等待
func (r *inventoryRepository) LockForBooks(ctx context.Context, bookIDs []uint) ([]*inventory.Inventory, error) {
	if len(bookIDs) == 0 {
		return nil, nil
	}

	var models []InventoryModel
	db := dbFromContext(ctx, r.db)
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("book_id IN ?", bookIDs).
		Order("warehouse_id, book_id").
		Find(&models).Error
	if err != nil {
		if isConflictError(err) {
			return nil, apperrors.ErrTxConflict
		}
		return nil, apperrors.Wrap(err, "锁定库存失败")
	}

	rows := make([]*inventory.Inventory, len(models))
	for i := range models {
		rows[i] = toInventoryEntity(&models[i])
	}
	return rows, nil
}

// Deduct 扣减库存(原子UPDATE)
// UPDATE inventory SET quantity = quantity - ?
// WHERE warehouse_id = ? AND book_id = ? AND quantity >= ?
// 守卫条件quantity >= ?保证即使绕过行锁也不可能扣成负数
func (r *inventoryRepository) Deduct(ctx context.Context, warehouseID, bookID uint, quantity int) error {
	if quantity <= 0 {
		return inventory.ErrInvalidQuantity
	}

	db := dbFromContext(ctx, r.db)
	result := db.Model(&InventoryModel{}).
		Where("warehouse_id = ? AND book_id = ?", warehouseID, bookID).
		Where("quantity >= ?", quantity).
		Update("quantity", gorm.Expr("quantity - ?", quantity))

	if result.Error != nil {
		if isConflictError(result.Error) {
			return apperrors.ErrTxConflict
		}
		return apperrors.Wrap(result.Error, "扣减库存失败")
	}

	if result.RowsAffected == 0 {
		// 记录不存在或库存不足,再查一次区分原因
		var model InventoryModel
		err := db.Where("warehouse_id = ? AND book_id = ?", warehouseID, bookID).
			First(&model).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return inventory.ErrInventoryNotFound
			}
			return apperrors.Wrap(err, "查询库存失败")
		}
		return inventory.ErrInsufficientStock
	}

	return nil
}

// Restore 回补库存
// 取消/退货的逆操作:按原明细数量加回来源仓库,同样参与调用方事务
func (r *inventoryRepository) Restore(ctx context.Context, warehouseID, bookID uint, quantity int) error {
	if quantity <= 0 {
		return inventory.ErrInvalidQuantity
	}

	db := dbFromContext(ctx, r.db)
	result := db.Model(&InventoryModel{}).
		Where("warehouse_id = ? AND book_id = ?", warehouseID, bookID).
		Update("quantity", gorm.Expr("quantity + ?", quantity))

	if result.Error != nil {
		if isConflictError(result.Error) {
			return apperrors.ErrTxConflict
		}
		return apperrors.Wrap(result.Error, "回补库存失败")
	}

	if result.RowsAffected == 0 {
		return inventory.ErrInventoryNotFound
	}

	return nil
}

// GetQuantity 查询可用库存数量
func (r *inventoryRepository) GetQuantity(ctx context.Context, warehouseID, bookID uint) (int, error) {
	var model InventoryModel
	db := dbFromContext(ctx, r.db)
	err := db.Where("warehouse_id = ? AND book_id = ?", warehouseID, bookID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, inventory.ErrInventoryNotFound
		}
		return 0, apperrors.Wrap(err, "查询库存失败")
	}
	return model.Quantity, nil
}

// Upsert 创建或覆盖库存记录(补货/初始化)
func (r *inventoryRepository) Upsert(ctx context.Context, inv *inventory.Inventory) error {
	if err := inv.Validate(); err != nil {
		return err
	}

	model := &InventoryModel{
		WarehouseID: inv.WarehouseID,
		BookID:      inv.BookID,
		Quantity:    inv.Quantity,
	}

	db := dbFromContext(ctx, r.db)
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "warehouse_id"}, {Name: "book_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"quantity", "updated_at"}),
	}).Create(model).Error
	if err != nil {
		return apperrors.Wrap(err, "写入库存失败")
	}

	inv.ID = model.ID
	return nil
}

// toInventoryEntity GORM模型 → 领域实体
func toInventoryEntity(model *InventoryModel) *inventory.Inventory {
	return &inventory.Inventory{
		ID:          model.ID,
		WarehouseID: model.WarehouseID,
		BookID:      model.BookID,
		Quantity:    model.Quantity,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}
