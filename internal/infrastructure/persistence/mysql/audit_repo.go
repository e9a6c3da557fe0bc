package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/xiebiao/bookshop/internal/domain/audit"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// auditRepository 审计日志仓储实现(MySQL)
// 只实现追加和查询,不提供更新/删除
type auditRepository struct {
	db *gorm.DB
}

// NewAuditRepository 创建审计日志仓储
func NewAuditRepository(db *gorm.DB) audit.Repository {
	return &auditRepository{db: db}
}

// Append 追加一条审计日志
// 在业务事务内调用;写入失败返回ErrCodeAuditWrite,
// 调用方必须让整个事务回滚——无审计痕迹的变更不允许提交
func (r *auditRepository) Append(ctx context.Context, e *audit.Entry) error {
	model := &AuditLogModel{
		Action:      string(e.Action),
		Description: e.Description,
		ActorID:     e.ActorID,
		OrderID:     e.OrderID,
		CreatedAt:   e.CreatedAt,
	}

	db := dbFromContext(ctx, r.db)
	if err := db.Create(model).Error; err != nil {
		return apperrors.WrapCode(err, apperrors.ErrCodeAuditWrite, "审计日志写入失败")
	}

	e.ID = model.ID
	return nil
}

// ListByOrderID 查询指定订单的审计日志(按时间倒序)
func (r *auditRepository) ListByOrderID(ctx context.Context, orderID uint) ([]*audit.Entry, error) {
	var models []AuditLogModel
	db := dbFromContext(ctx, r.db)
	err := db.Where("order_id = ?", orderID).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询审计日志失败")
	}
	return toAuditEntries(models), nil
}

// ListRecent 查询最近的审计日志(分页)
func (r *auditRepository) ListRecent(ctx context.Context, page, pageSize int) ([]*audit.Entry, int64, error) {
	var models []AuditLogModel
	var total int64

	db := dbFromContext(ctx, r.db)
	query := db.Model(&AuditLogModel{})

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询审计日志总数失败")
	}

	offset := (page - 1) * pageSize
	err := query.Order("created_at DESC").
		Limit(pageSize).Offset(offset).
		Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "查询审计日志失败")
	}

	return toAuditEntries(models), total, nil
}

func toAuditEntries(models []AuditLogModel) []*audit.Entry {
	entries := make([]*audit.Entry, len(models))
	for i, m := range models {
		entries[i] = &audit.Entry{
			ID:          m.ID,
			Action:      audit.Action(m.Action),
			Description: m.Description,
			ActorID:     m.ActorID,
			OrderID:     m.OrderID,
			CreatedAt:   m.CreatedAt,
		}
	}
	return entries
}
