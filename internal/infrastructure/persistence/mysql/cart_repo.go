package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/bookshop/internal/domain/cart"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// cartRepository 购物车仓储实现(MySQL)
// 设计说明:
// 1. 条目按主键升序预加载,两次物化结果一致
// 2. Deactivate只翻转is_active,重复调用RowsAffected=0也视为成功(幂等)
type cartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓储
func NewCartRepository(db *gorm.DB) cart.Repository {
	return &cartRepository{db: db}
}

// FindActiveByCustomer 查找客户当前激活的购物车
func (r *cartRepository) FindActiveByCustomer(ctx context.Context, customerID uint) (*cart.Cart, error) {
	var model CartModel
	db := dbFromContext(ctx, r.db)
	err := db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		// 按插入顺序返回条目,保证物化结果可重复
		return db.Order("cart_items.id ASC")
	}).Where("customer_id = ? AND is_active = ?", customerID, true).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, cart.ErrCartNotFound
		}
		return nil, apperrors.Wrap(err, "查询购物车失败")
	}

	return toCartEntity(&model), nil
}

// FindOrCreateActive 查找激活购物车,不存在则创建
// 并发创建时靠"查-建-再查"收敛到同一条记录
func (r *cartRepository) FindOrCreateActive(ctx context.Context, customerID uint) (*cart.Cart, error) {
	c, err := r.FindActiveByCustomer(ctx, customerID)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, cart.ErrCartNotFound) {
		return nil, err
	}

	model := &CartModel{
		CustomerID: customerID,
		IsActive:   true,
	}
	db := dbFromContext(ctx, r.db)
	if err := db.Create(model).Error; err != nil {
		return nil, apperrors.Wrap(err, "创建购物车失败")
	}

	return toCartEntity(model), nil
}

// Save 保存购物车与条目
// 先全量删除旧条目再重建:购物车条目数量小,换实现简单和
// (cart_id, book_id)唯一约束下的正确性
func (r *cartRepository) Save(ctx context.Context, c *cart.Cart) error {
	db := dbFromContext(ctx, r.db)

	if err := db.Model(&CartModel{}).Where("id = ?", c.ID).
		Updates(map[string]interface{}{
			"is_active":  c.IsActive,
			"updated_at": c.UpdatedAt,
		}).Error; err != nil {
		return apperrors.Wrap(err, "更新购物车失败")
	}

	if err := db.Where("cart_id = ?", c.ID).Delete(&CartItemModel{}).Error; err != nil {
		return apperrors.Wrap(err, "清理购物车条目失败")
	}

	if len(c.Items) == 0 {
		return nil
	}

	models := make([]CartItemModel, len(c.Items))
	for i, item := range c.Items {
		models[i] = CartItemModel{
			CartID:    c.ID,
			BookID:    item.BookID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			CreatedAt: item.CreatedAt,
			UpdatedAt: item.UpdatedAt,
		}
	}
	if err := db.Create(&models).Error; err != nil {
		return apperrors.Wrap(err, "保存购物车条目失败")
	}

	for i := range c.Items {
		c.Items[i].ID = models[i].ID
		c.Items[i].CartID = c.ID
	}
	return nil
}

// Deactivate 灭活购物车(幂等)
func (r *cartRepository) Deactivate(ctx context.Context, cartID uint) error {
	db := dbFromContext(ctx, r.db)
	err := db.Model(&CartModel{}).Where("id = ?", cartID).
		Update("is_active", false).Error
	if err != nil {
		return apperrors.Wrap(err, "灭活购物车失败")
	}
	return nil
}

// toCartEntity GORM模型 → 领域实体
func toCartEntity(model *CartModel) *cart.Cart {
	items := make([]cart.Item, len(model.Items))
	for i, item := range model.Items {
		items[i] = cart.Item{
			ID:        item.ID,
			CartID:    item.CartID,
			BookID:    item.BookID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			CreatedAt: item.CreatedAt,
			UpdatedAt: item.UpdatedAt,
		}
	}

	return &cart.Cart{
		ID:         model.ID,
		CustomerID: model.CustomerID,
		IsActive:   model.IsActive,
		Items:      items,
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
	}
}
