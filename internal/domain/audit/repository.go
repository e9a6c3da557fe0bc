package audit

import "context"

// Repository 审计日志仓储接口
// 设计说明:
// 1. 只有Append和查询,没有更新和删除
// 2. Append在业务事务内调用:审计写入失败必须导致整个事务回滚,
//    未留审计痕迹的状态变更比一次失败的结账更糟糕
type Repository interface {
	// Append 追加一条审计日志
	Append(ctx context.Context, e *Entry) error

	// ListByOrderID 查询指定订单的审计日志(按时间倒序)
	ListByOrderID(ctx context.Context, orderID uint) ([]*Entry, error)

	// ListRecent 查询最近的审计日志(分页,按时间倒序)
	ListRecent(ctx context.Context, page, pageSize int) ([]*Entry, int64, error)
}
