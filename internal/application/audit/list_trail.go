package audit

import (
	"context"

	"github.com/xiebiao/bookshop/internal/domain/audit"
)

// ListTrailUseCase 审计轨迹查询用例
type ListTrailUseCase struct {
	auditRepo audit.Repository
}

// NewListTrailUseCase 创建审计轨迹查询用例
func NewListTrailUseCase(auditRepo audit.Repository) *ListTrailUseCase {
	return &ListTrailUseCase{auditRepo: auditRepo}
}

// EntryView 审计条目DTO
type EntryView struct {
	ID          uint   `json:"id"`
	Action      string `json:"action"`
	Description string `json:"description"`
	ActorID     *uint  `json:"actor_id,omitempty"`
	OrderID     *uint  `json:"order_id,omitempty"`
	CreatedAt   string `json:"created_at"`
}

// ByOrder 查询指定订单的审计轨迹(按时间倒序)
func (uc *ListTrailUseCase) ByOrder(ctx context.Context, orderID uint) ([]*EntryView, error) {
	entries, err := uc.auditRepo.ListByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return toEntryViews(entries), nil
}

// Recent 分页查询最近的审计日志
func (uc *ListTrailUseCase) Recent(ctx context.Context, page, pageSize int) ([]*EntryView, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	entries, total, err := uc.auditRepo.ListRecent(ctx, page, pageSize)
	if err != nil {
		return nil, 0, err
	}
	return toEntryViews(entries), total, nil
}

func toEntryViews(entries []*audit.Entry) []*EntryView {
	views := make([]*EntryView, 0, len(entries))
	for _, e := range entries {
		views = append(views, &EntryView{
			ID:          e.ID,
			Action:      string(e.Action),
			Description: e.Description,
			ActorID:     e.ActorID,
			OrderID:     e.OrderID,
			CreatedAt:   e.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return views
}
