package customer

import "context"

// Repository 客户仓储接口
type Repository interface {
	// Create 创建客户(邮箱唯一性由数据库UNIQUE索引保证)
	Create(ctx context.Context, c *Customer) error

	// FindByID 根据ID查找客户
	FindByID(ctx context.Context, id uint) (*Customer, error)

	// FindByEmail 根据邮箱查找客户(登录用)
	FindByEmail(ctx context.Context, email string) (*Customer, error)
}
