package order

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/xiebiao/bookshop/internal/domain/audit"
	"github.com/xiebiao/bookshop/internal/domain/inventory"
	"github.com/xiebiao/bookshop/internal/domain/order"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
	"github.com/xiebiao/bookshop/pkg/metrics"
	"github.com/xiebiao/bookshop/pkg/mq"
)

// TxManager 事务边界(由mysql.TxManager实现)
type TxManager interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher 订单事件发布(可为nil)
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, event interface{}) error
}

// TransitionUseCase 订单状态流转用例
//
// 流转规则由domain层状态机表定义,这里只做编排:
// 锁单→校验→流转→(必要时)回补库存→审计,全部在同一事务内。
// ALLOCATED→CANCELLED 和 DELIVERED→RETURNED 会按订单明细
// 把数量回增到扣减来源仓库,同事务保证"改了状态必回补库存"。
type TransitionUseCase struct {
	orderRepo     order.Repository
	inventoryRepo inventory.Repository
	auditRepo     audit.Repository
	txManager     TxManager
	publisher     EventPublisher
}

// NewTransitionUseCase 创建状态流转用例
func NewTransitionUseCase(
	orderRepo order.Repository,
	inventoryRepo inventory.Repository,
	auditRepo audit.Repository,
	txManager TxManager,
	publisher EventPublisher,
) *TransitionUseCase {
	return &TransitionUseCase{
		orderRepo:     orderRepo,
		inventoryRepo: inventoryRepo,
		auditRepo:     auditRepo,
		txManager:     txManager,
		publisher:     publisher,
	}
}

// TransitionRequest 状态流转请求
// ActorID为发起人客户ID,0表示系统/后台操作
type TransitionRequest struct {
	OrderID uint
	Target  order.Status
	ActorID uint
}

// TransitionResponse 状态流转响应
type TransitionResponse struct {
	OrderID    uint   `json:"order_id"`
	OrderNo    string `json:"order_no"`
	FromStatus string `json:"from_status"`
	ToStatus   string `json:"to_status"`
}

// Execute 执行状态流转
//
// 并发语义:同一订单的并发流转在订单行锁上串行化,
// 后到的事务看到前一个流转之后的状态,重复取消会因
// CANCELLED是终态而失败,库存绝不会回补两次。
func (uc *TransitionUseCase) Execute(ctx context.Context, req TransitionRequest) (*TransitionResponse, error) {
	var (
		resp *TransitionResponse
		from order.Status
	)
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		// 锁单,串行化同一订单上的并发流转
		o, err := uc.orderRepo.LockByID(txCtx, req.OrderID)
		if err != nil {
			return err
		}
		from = o.Status

		// 回补判断必须在TransitionTo之前(依据流转前状态)
		needsReversal := o.RequiresInventoryReversal(req.Target)

		if err := o.TransitionTo(req.Target); err != nil {
			return apperrors.WrapCode(err, apperrors.ErrCodeInvalidTransition,
				fmt.Sprintf("订单%s无法从%s流转到%s", o.OrderNo, from.String(), req.Target.String()))
		}

		if needsReversal {
			if err := uc.reverseInventory(txCtx, o); err != nil {
				return err
			}
		}

		if err := uc.orderRepo.UpdateStatus(txCtx, o); err != nil {
			return err
		}

		var actorID *uint
		if req.ActorID != 0 {
			id := req.ActorID
			actorID = &id
		}
		entry := audit.NewEntry(
			audit.ActionTransition,
			fmt.Sprintf("订单%s状态 %s → %s", o.OrderNo, from.String(), req.Target.String()),
			actorID,
			&o.ID,
		)
		if err := uc.auditRepo.Append(txCtx, entry); err != nil {
			return err
		}

		resp = &TransitionResponse{
			OrderID:    o.ID,
			OrderNo:    o.OrderNo,
			FromStatus: from.String(),
			ToStatus:   req.Target.String(),
		}
		return nil
	})

	if err != nil {
		if from != 0 {
			metrics.ObserveTransition(from.String(), req.Target.String(), metrics.ResultError)
		}
		return nil, err
	}
	metrics.ObserveTransition(from.String(), req.Target.String(), metrics.ResultSuccess)

	uc.publishTransitioned(ctx, resp)
	return resp, nil
}

// reverseInventory 按明细把数量回增到扣减来源仓库
func (uc *TransitionUseCase) reverseInventory(txCtx context.Context, o *order.Order) error {
	for _, line := range o.Lines {
		if err := uc.inventoryRepo.Restore(txCtx, line.WarehouseID, line.BookID, line.Quantity); err != nil {
			return apperrors.Wrapf(err, "订单%s回补库存失败 book_id=%d", o.OrderNo, line.BookID)
		}
	}
	return nil
}

// publishTransitioned 提交后发布order.transitioned事件(best effort)
func (uc *TransitionUseCase) publishTransitioned(ctx context.Context, resp *TransitionResponse) {
	if uc.publisher == nil {
		return
	}
	event := mq.OrderEvent{
		OrderNo:    resp.OrderNo,
		Status:     resp.ToStatus,
		FromStatus: resp.FromStatus,
		OccurredAt: time.Now().Format(time.RFC3339),
	}
	if err := uc.publisher.Publish(ctx, mq.RoutingKeyOrderTransitioned, event); err != nil {
		log.Printf("发布order.transitioned事件失败 order_no=%s: %v", resp.OrderNo, err)
	}
}
