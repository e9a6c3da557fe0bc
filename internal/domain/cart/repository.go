package cart

import "context"

// Repository 购物车仓储接口
// 设计说明:
// 1. "每客户一个激活购物车"由FindOrCreateActive保证
// 2. Deactivate在结账事务内调用,通过context参与事务
type Repository interface {
	// FindActiveByCustomer 查找客户当前激活的购物车(含条目,按插入顺序)
	FindActiveByCustomer(ctx context.Context, customerID uint) (*Cart, error)

	// FindOrCreateActive 查找激活购物车,不存在则创建
	FindOrCreateActive(ctx context.Context, customerID uint) (*Cart, error)

	// Save 保存购物车与条目(加购/移除后的整体落库)
	Save(ctx context.Context, c *Cart) error

	// Deactivate 灭活购物车(幂等,仅翻转is_active)
	Deactivate(ctx context.Context, cartID uint) error
}
