package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/bookshop/internal/domain/order"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// orderRepository 订单仓储实现(MySQL)
// 设计说明:
// 1. Order与Line/Address是聚合关系,创建时一并落库
// 2. 查询用Preload预加载,避免N+1
// 3. 写操作通过context参与调用方事务
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓储
func NewOrderRepository(db *gorm.DB) order.Repository {
	return &orderRepository{db: db}
}

// Create 创建订单(含明细与地址快照)
// 订单号撞唯一索引时返回ErrCodeDuplicateEntry,由调用方换号重试
func (r *orderRepository) Create(ctx context.Context, o *order.Order) error {
	model := toOrderModel(o)

	db := dbFromContext(ctx, r.db)
	if err := db.Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return apperrors.New(apperrors.ErrCodeDuplicateEntry, "订单号冲突")
		}
		if isConflictError(err) {
			return apperrors.ErrTxConflict
		}
		return apperrors.Wrap(err, "创建订单失败")
	}

	// 回填自增ID
	o.ID = model.ID
	for i := range o.Lines {
		o.Lines[i].ID = model.Lines[i].ID
		o.Lines[i].OrderID = model.ID
	}
	for i := range o.Addresses {
		o.Addresses[i].ID = model.Addresses[i].ID
		o.Addresses[i].OrderID = model.ID
	}

	return nil
}

// FindByID 根据ID查找订单
func (r *orderRepository) FindByID(ctx context.Context, id uint) (*order.Order, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindByOrderNo 根据订单号查找订单
func (r *orderRepository) FindByOrderNo(ctx context.Context, orderNo string) (*order.Order, error) {
	return r.findOne(ctx, "order_no = ?", orderNo)
}

func (r *orderRepository) findOne(ctx context.Context, query string, arg interface{}) (*order.Order, error) {
	var model OrderModel
	db := dbFromContext(ctx, r.db)
	err := db.Preload("Lines").Preload("Addresses").
		Where(query, arg).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.ErrOrderNotFound
		}
		return nil, apperrors.Wrap(err, "查询订单失败")
	}
	return toOrderEntity(&model), nil
}

// LockByID 悲观锁加载订单
// SELECT * FROM orders WHERE id = ? FOR UPDATE
// 状态流转前先锁单,同一订单上的并发流转被串行化
func (r *orderRepository) LockByID(ctx context.Context, id uint) (*order.Order, error) {
	var model OrderModel
	db := dbFromContext(ctx, r.db)
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.ErrOrderNotFound
		}
		if isConflictError(err) {
			return nil, apperrors.ErrTxConflict
		}
		return nil, apperrors.Wrap(err, "锁定订单失败")
	}

	// 明细与地址不在FOR UPDATE范围内,锁住聚合根即可
	if err := db.Where("order_id = ?", id).Order("id ASC").
		Find(&model.Lines).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询订单明细失败")
	}
	if err := db.Where("order_id = ?", id).
		Find(&model.Addresses).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询订单地址失败")
	}

	return toOrderEntity(&model), nil
}

// UpdateStatus 更新订单状态与锁定时间
func (r *orderRepository) UpdateStatus(ctx context.Context, o *order.Order) error {
	db := dbFromContext(ctx, r.db)
	result := db.Model(&OrderModel{}).Where("id = ?", o.ID).
		Updates(map[string]interface{}{
			"status":     int(o.Status),
			"locked_at":  o.LockedAt,
			"updated_at": o.UpdatedAt,
		})
	if result.Error != nil {
		if isConflictError(result.Error) {
			return apperrors.ErrTxConflict
		}
		return apperrors.Wrap(result.Error, "更新订单状态失败")
	}
	if result.RowsAffected == 0 {
		return order.ErrOrderNotFound
	}
	return nil
}

// ListByCustomerID 查询客户的订单列表(分页)
func (r *orderRepository) ListByCustomerID(ctx context.Context, customerID uint, page, pageSize int) ([]*order.Order, int64, error) {
	var models []OrderModel
	var total int64

	db := dbFromContext(ctx, r.db)
	query := db.Model(&OrderModel{}).Where("customer_id = ?", customerID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询订单总数失败")
	}

	offset := (page - 1) * pageSize
	err := query.Preload("Lines").Preload("Addresses").
		Order("created_at DESC").
		Limit(pageSize).Offset(offset).
		Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "查询订单列表失败")
	}

	orders := make([]*order.Order, len(models))
	for i := range models {
		orders[i] = toOrderEntity(&models[i])
	}
	return orders, total, nil
}

// =========================================
// 辅助函数:模型转换
// =========================================

// toOrderModel 领域实体 → GORM模型
func toOrderModel(o *order.Order) *OrderModel {
	lines := make([]OrderLineModel, len(o.Lines))
	for i, line := range o.Lines {
		lines[i] = OrderLineModel{
			ID:          line.ID,
			OrderID:     line.OrderID,
			BookID:      line.BookID,
			WarehouseID: line.WarehouseID,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
		}
	}

	addresses := make([]OrderAddressModel, len(o.Addresses))
	for i, addr := range o.Addresses {
		addresses[i] = OrderAddressModel{
			ID:         addr.ID,
			OrderID:    addr.OrderID,
			Type:       string(addr.Type),
			Line1:      addr.Line1,
			Line2:      addr.Line2,
			City:       addr.City,
			State:      addr.State,
			PostalCode: addr.PostalCode,
			Country:    addr.Country,
		}
	}

	return &OrderModel{
		ID:          o.ID,
		OrderNo:     o.OrderNo,
		CustomerID:  o.CustomerID,
		Status:      int(o.Status),
		TotalAmount: o.TotalAmount,
		PlacedAt:    o.PlacedAt,
		LockedAt:    o.LockedAt,
		Lines:       lines,
		Addresses:   addresses,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

// toOrderEntity GORM模型 → 领域实体
func toOrderEntity(model *OrderModel) *order.Order {
	lines := make([]order.Line, len(model.Lines))
	for i, line := range model.Lines {
		lines[i] = order.Line{
			ID:          line.ID,
			OrderID:     line.OrderID,
			BookID:      line.BookID,
			WarehouseID: line.WarehouseID,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
		}
	}

	addresses := make([]order.Address, len(model.Addresses))
	for i, addr := range model.Addresses {
		addresses[i] = order.Address{
			ID:         addr.ID,
			OrderID:    addr.OrderID,
			Type:       order.AddressType(addr.Type),
			Line1:      addr.Line1,
			Line2:      addr.Line2,
			City:       addr.City,
			State:      addr.State,
			PostalCode: addr.PostalCode,
			Country:    addr.Country,
		}
	}

	return &order.Order{
		ID:          model.ID,
		OrderNo:     model.OrderNo,
		CustomerID:  model.CustomerID,
		Status:      order.Status(model.Status),
		TotalAmount: model.TotalAmount,
		PlacedAt:    model.PlacedAt,
		LockedAt:    model.LockedAt,
		Lines:       lines,
		Addresses:   addresses,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}
