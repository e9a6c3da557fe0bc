package customer

import "time"

// Customer 客户实体(聚合根)
// 设计说明:
// 1. 密码是bcrypt哈希值,不提供明文访问方法
// 2. 核心结账流程只消费Customer.ID(认证边界提供),
//    注册/登录属于支撑功能
type Customer struct {
	ID        uint
	Email     string
	Password  string // bcrypt哈希值
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// New 创建新客户(工厂方法)
// hashedPassword必须是bcrypt加密后的密码
func New(email, hashedPassword, name string) *Customer {
	now := time.Now()
	return &Customer{
		Email:     email,
		Password:  hashedPassword,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
