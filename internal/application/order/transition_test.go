package order

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookshop/internal/domain/audit"
	"github.com/xiebiao/bookshop/internal/domain/inventory"
	"github.com/xiebiao/bookshop/internal/domain/order"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
	"github.com/xiebiao/bookshop/pkg/mq"
)

// passthroughTx 直通事务(测试中的流转路径自身保证先校验后写)
type passthroughTx struct{ mu sync.Mutex }

func (t *passthroughTx) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return fn(ctx)
}

// fakeOrderRepo 内存订单仓储
type fakeOrderRepo struct {
	orders map[uint]*order.Order
}

func (r *fakeOrderRepo) Create(ctx context.Context, o *order.Order) error { return nil }

func (r *fakeOrderRepo) FindByID(ctx context.Context, id uint) (*order.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, order.ErrOrderNotFound
	}
	return o, nil
}

func (r *fakeOrderRepo) FindByOrderNo(ctx context.Context, orderNo string) (*order.Order, error) {
	for _, o := range r.orders {
		if o.OrderNo == orderNo {
			return o, nil
		}
	}
	return nil, order.ErrOrderNotFound
}

func (r *fakeOrderRepo) LockByID(ctx context.Context, id uint) (*order.Order, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeOrderRepo) UpdateStatus(ctx context.Context, o *order.Order) error {
	exist, ok := r.orders[o.ID]
	if !ok {
		return order.ErrOrderNotFound
	}
	exist.Status = o.Status
	exist.LockedAt = o.LockedAt
	return nil
}

func (r *fakeOrderRepo) ListByCustomerID(ctx context.Context, customerID uint, page, pageSize int) ([]*order.Order, int64, error) {
	return nil, 0, nil
}

// fakeInventoryRepo 内存库存(只需要Restore/GetQuantity)
type fakeInventoryRepo struct {
	stock map[[2]uint]int // (warehouseID, bookID) → quantity
}

func (r *fakeInventoryRepo) LockForBooks(ctx context.Context, bookIDs []uint) ([]*inventory.Inventory, error) {
	return nil, nil
}

func (r *fakeInventoryRepo) Deduct(ctx context.Context, warehouseID, bookID uint, quantity int) error {
	r.stock[[2]uint{warehouseID, bookID}] -= quantity
	return nil
}

func (r *fakeInventoryRepo) Restore(ctx context.Context, warehouseID, bookID uint, quantity int) error {
	r.stock[[2]uint{warehouseID, bookID}] += quantity
	return nil
}

func (r *fakeInventoryRepo) GetQuantity(ctx context.Context, warehouseID, bookID uint) (int, error) {
	return r.stock[[2]uint{warehouseID, bookID}], nil
}

func (r *fakeInventoryRepo) Upsert(ctx context.Context, inv *inventory.Inventory) error {
	r.stock[[2]uint{inv.WarehouseID, inv.BookID}] = inv.Quantity
	return nil
}

// fakeAuditRepo 内存审计
type fakeAuditRepo struct {
	entries []*audit.Entry
}

func (r *fakeAuditRepo) Append(ctx context.Context, e *audit.Entry) error {
	r.entries = append(r.entries, e)
	return nil
}

func (r *fakeAuditRepo) ListByOrderID(ctx context.Context, orderID uint) ([]*audit.Entry, error) {
	return r.entries, nil
}

func (r *fakeAuditRepo) ListRecent(ctx context.Context, page, pageSize int) ([]*audit.Entry, int64, error) {
	return r.entries, int64(len(r.entries)), nil
}

type fakePublisher struct {
	keys []string
}

func (p *fakePublisher) Publish(ctx context.Context, routingKey string, event interface{}) error {
	p.keys = append(p.keys, routingKey)
	return nil
}

func newFixture(status order.Status) (*TransitionUseCase, *fakeOrderRepo, *fakeInventoryRepo, *fakeAuditRepo, *fakePublisher) {
	orderRepo := &fakeOrderRepo{orders: map[uint]*order.Order{
		1: {
			ID:         1,
			OrderNo:    "ORD20260831000000123456",
			CustomerID: 7,
			Status:     status,
			Lines: []order.Line{
				{BookID: 10, WarehouseID: 1, Quantity: 2, UnitPrice: 5900},
				{BookID: 20, WarehouseID: 2, Quantity: 1, UnitPrice: 12800},
			},
		},
	}}
	invRepo := &fakeInventoryRepo{stock: map[[2]uint]int{
		{1, 10}: 0,
		{2, 20}: 3,
	}}
	auditRepo := &fakeAuditRepo{}
	publisher := &fakePublisher{}
	uc := NewTransitionUseCase(orderRepo, invRepo, auditRepo, &passthroughTx{}, publisher)
	return uc, orderRepo, invRepo, auditRepo, publisher
}

// TestTransition_Success 普通流转:改状态、落审计、发事件、不动库存
func TestTransition_Success(t *testing.T) {
	uc, orderRepo, invRepo, auditRepo, publisher := newFixture(order.StatusPending)

	resp, err := uc.Execute(context.Background(), TransitionRequest{OrderID: 1, Target: order.StatusPaid, ActorID: 7})
	require.NoError(t, err)

	assert.Equal(t, "PENDING", resp.FromStatus)
	assert.Equal(t, "PAID", resp.ToStatus)
	assert.Equal(t, order.StatusPaid, orderRepo.orders[1].Status)
	assert.NotNil(t, orderRepo.orders[1].LockedAt)

	// PENDING→PAID不回补库存
	assert.Equal(t, 0, invRepo.stock[[2]uint{1, 10}])

	require.Len(t, auditRepo.entries, 1)
	assert.Equal(t, audit.ActionTransition, auditRepo.entries[0].Action)
	require.NotNil(t, auditRepo.entries[0].ActorID)
	assert.Equal(t, uint(7), *auditRepo.entries[0].ActorID)

	assert.Equal(t, []string{mq.RoutingKeyOrderTransitioned}, publisher.keys)
}

// TestTransition_CancelAfterAllocation 已配货取消必须按来源仓库回补
func TestTransition_CancelAfterAllocation(t *testing.T) {
	uc, orderRepo, invRepo, _, _ := newFixture(order.StatusAllocated)

	_, err := uc.Execute(context.Background(), TransitionRequest{OrderID: 1, Target: order.StatusCancelled, ActorID: 7})
	require.NoError(t, err)

	assert.Equal(t, order.StatusCancelled, orderRepo.orders[1].Status)
	// 明细1: 仓库1回补2件; 明细2: 仓库2回补1件
	assert.Equal(t, 2, invRepo.stock[[2]uint{1, 10}])
	assert.Equal(t, 4, invRepo.stock[[2]uint{2, 20}])
}

// TestTransition_Return 退货同样回补库存
func TestTransition_Return(t *testing.T) {
	uc, _, invRepo, _, _ := newFixture(order.StatusDelivered)

	_, err := uc.Execute(context.Background(), TransitionRequest{OrderID: 1, Target: order.StatusReturned})
	require.NoError(t, err)

	assert.Equal(t, 2, invRepo.stock[[2]uint{1, 10}])
	assert.Equal(t, 4, invRepo.stock[[2]uint{2, 20}])
}

// TestTransition_CancelBeforeAllocation 未配货取消不回补
func TestTransition_CancelBeforeAllocation(t *testing.T) {
	uc, _, invRepo, _, _ := newFixture(order.StatusPaid)

	_, err := uc.Execute(context.Background(), TransitionRequest{OrderID: 1, Target: order.StatusCancelled})
	require.NoError(t, err)

	assert.Equal(t, 0, invRepo.stock[[2]uint{1, 10}], "未扣减过库存,取消不应回补")
	assert.Equal(t, 3, invRepo.stock[[2]uint{2, 20}])
}

// TestTransition_Illegal 非法流转拒绝且不落任何变更
func TestTransition_Illegal(t *testing.T) {
	uc, orderRepo, invRepo, auditRepo, publisher := newFixture(order.StatusShipped)

	_, err := uc.Execute(context.Background(), TransitionRequest{OrderID: 1, Target: order.StatusCancelled})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeInvalidTransition), "错误码: %v", err)

	assert.Equal(t, order.StatusShipped, orderRepo.orders[1].Status)
	assert.Equal(t, 0, invRepo.stock[[2]uint{1, 10}])
	assert.Empty(t, auditRepo.entries)
	assert.Empty(t, publisher.keys)
}

// TestTransition_DoubleCancel 重复取消第二次失败,库存不会回补两次
func TestTransition_DoubleCancel(t *testing.T) {
	uc, _, invRepo, _, _ := newFixture(order.StatusAllocated)

	_, err := uc.Execute(context.Background(), TransitionRequest{OrderID: 1, Target: order.StatusCancelled})
	require.NoError(t, err)

	_, err = uc.Execute(context.Background(), TransitionRequest{OrderID: 1, Target: order.StatusCancelled})
	require.Error(t, err, "终态订单不可再取消")
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeInvalidTransition))

	assert.Equal(t, 2, invRepo.stock[[2]uint{1, 10}], "库存只能回补一次")
}

// TestTransition_NotFound 订单不存在
func TestTransition_NotFound(t *testing.T) {
	uc, _, _, _, _ := newFixture(order.StatusPending)

	_, err := uc.Execute(context.Background(), TransitionRequest{OrderID: 99, Target: order.StatusPaid})
	assert.ErrorIs(t, err, order.ErrOrderNotFound)
}

// TestGetOrder_Ownership 只能查自己的订单
func TestGetOrder_Ownership(t *testing.T) {
	_, orderRepo, _, _, _ := newFixture(order.StatusPending)
	uc := NewGetOrderUseCase(orderRepo)

	detail, err := uc.Execute(context.Background(), 1, 7)
	require.NoError(t, err)
	assert.Equal(t, "PENDING", detail.Status)
	assert.Len(t, detail.Lines, 2)
	assert.Equal(t, int64(2*5900), detail.Lines[0].Subtotal)

	_, err = uc.Execute(context.Background(), 1, 8)
	assert.ErrorIs(t, err, apperrors.ErrForbidden, "他人订单应拒绝访问")
}
