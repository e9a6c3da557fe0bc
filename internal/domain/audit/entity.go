package audit

import "time"

// Action 审计动作
type Action string

const (
	ActionCheckout   Action = "checkout"   // 结账
	ActionTransition Action = "transition" // 订单状态流转
	ActionUpdate     Action = "update"     // 订单修改
	ActionDelete     Action = "delete"     // 订单删除
)

// Entry 审计日志条目(领域模型)
// 设计说明:
// 1. 只增不改(Append-Only),写入后永不更新或删除
// 2. OrderID可为空:订单被删除后日志保留,引用置空
// 3. ActorID是操作者(客户)标识,系统动作可为空
// 4. 保留策略:无界追加,不做清理
type Entry struct {
	ID          uint
	Action      Action
	Description string
	ActorID     *uint // 操作者客户ID,可为空
	OrderID     *uint // 关联订单ID,订单删除后置空
	CreatedAt   time.Time
}

// NewEntry 创建审计条目
func NewEntry(action Action, description string, actorID, orderID *uint) *Entry {
	return &Entry{
		Action:      action,
		Description: description,
		ActorID:     actorID,
		OrderID:     orderID,
		CreatedAt:   time.Now(),
	}
}
