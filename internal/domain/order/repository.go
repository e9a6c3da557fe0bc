package order

import (
	"context"
)

// Repository 订单仓储接口(依赖倒置原则)
// 设计说明:
// 1. 由domain层定义接口,infrastructure层实现
// 2. 事务通过context传递,Create/Update必须参与调用方事务
type Repository interface {
	// Create 创建订单(同一事务内写入订单、明细与地址快照)
	// 订单号冲突时返回ErrDuplicateEntry语义的错误,由调用方重新生成
	Create(ctx context.Context, o *Order) error

	// FindByID 根据ID查找订单(包含明细与地址)
	FindByID(ctx context.Context, id uint) (*Order, error)

	// FindByOrderNo 根据订单号查找订单
	FindByOrderNo(ctx context.Context, orderNo string) (*Order, error)

	// LockByID 悲观锁加载订单(SELECT FOR UPDATE)
	// 状态流转必须先锁单,串行化同一订单上的并发操作
	LockByID(ctx context.Context, id uint) (*Order, error)

	// UpdateStatus 更新订单状态与锁定时间
	UpdateStatus(ctx context.Context, o *Order) error

	// ListByCustomerID 查询客户的订单列表(分页)
	ListByCustomerID(ctx context.Context, customerID uint, page, pageSize int) ([]*Order, int64, error)
}
