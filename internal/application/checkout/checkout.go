package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/xiebiao/bookshop/internal/domain/audit"
	"github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/internal/domain/cart"
	"github.com/xiebiao/bookshop/internal/domain/inventory"
	"github.com/xiebiao/bookshop/internal/domain/order"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
	"github.com/xiebiao/bookshop/pkg/metrics"
	"github.com/xiebiao/bookshop/pkg/mq"
)

// TxManager 事务边界(由mysql.TxManager实现)
// fn内的所有Repository操作在同一事务中执行,
// fn返回error时回滚,返回nil时提交
type TxManager interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher 订单事件发布(由mq.Publisher实现,可为nil)
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, event interface{}) error
}

// UseCase 结账用例:购物车→订单的原子转换
//
// 这是整个系统最核心的编排,在一个事务内完成:
//  1. 读激活购物车(空则失败)
//  2. 按(warehouse_id, book_id)升序锁定相关库存行
//  3. 逐项扣减库存,第一处不足即整体回滚
//  4. 用购物车快照价构建订单明细,创建PENDING订单
//  5. 落库地址快照
//  6. 灭活购物车
//  7. 追加审计日志(写失败同样回滚)
//
// 提交前任何一步失败,对外都等价于"从未发生":
// 库存无扣减、无孤儿订单、无审计残留
type UseCase struct {
	cartRepo      cart.Repository
	bookRepo      book.Repository
	inventoryRepo inventory.Repository
	orderRepo     order.Repository
	auditRepo     audit.Repository
	txManager     TxManager
	publisher     EventPublisher
}

// NewUseCase 创建结账用例
// publisher可为nil(未启用MQ时)
func NewUseCase(
	cartRepo cart.Repository,
	bookRepo book.Repository,
	inventoryRepo inventory.Repository,
	orderRepo order.Repository,
	auditRepo audit.Repository,
	txManager TxManager,
	publisher EventPublisher,
) *UseCase {
	return &UseCase{
		cartRepo:      cartRepo,
		bookRepo:      bookRepo,
		inventoryRepo: inventoryRepo,
		orderRepo:     orderRepo,
		auditRepo:     auditRepo,
		txManager:     txManager,
		publisher:     publisher,
	}
}

// AddressInput 地址输入
type AddressInput struct {
	Line1      string
	Line2      string
	City       string
	State      string
	PostalCode string
	Country    string
}

// Request 结账请求DTO
// CustomerID由认证边界提供(JWT中提取),核心不做认证
type Request struct {
	CustomerID uint
	Shipping   AddressInput
	Billing    *AddressInput // 可选,缺省不落账单地址
}

// Response 结账响应DTO
type Response struct {
	OrderID     uint   `json:"order_id"`
	OrderNo     string `json:"order_no"`
	TotalAmount int64  `json:"total_amount"`
	TotalYuan   string `json:"total_yuan"`
	Status      string `json:"status"`
	PlacedAt    string `json:"placed_at"`
}

// orderNoAttempts 订单号唯一索引冲突时的重新生成次数
const orderNoAttempts = 3

// Execute 执行结账
//
// 并发语义:两个结账争抢同一本书的库存时,在库存行锁上串行化;
// 先拿到锁的看到扣减前数量,后拿到的看到扣减后数量,
// 只剩1件时不可能两边都成功。全部事务按同一(warehouse_id, book_id)
// 升序加锁,不存在循环等待,数据库死锁检测只是兜底。
// 失败不自动重试:锁序已排除死锁,重试语义交给调用方。
func (uc *UseCase) Execute(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()

	var result *order.Order
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		o, err := uc.checkout(txCtx, req)
		if err != nil {
			return err
		}
		result = o
		return nil
	})

	if err != nil {
		metrics.ObserveCheckout(classify(err), start)
		return nil, err
	}
	metrics.ObserveCheckout(metrics.ResultSuccess, start)

	// 事务已提交,事件发布尽力而为,失败只记日志
	uc.publishCreated(ctx, result)

	return &Response{
		OrderID:     result.ID,
		OrderNo:     result.OrderNo,
		TotalAmount: result.TotalAmount,
		TotalYuan:   formatPrice(result.TotalAmount),
		Status:      result.Status.String(),
		PlacedAt:    result.PlacedAt.Format("2006-01-02 15:04:05"),
	}, nil
}

// checkout 事务体(txCtx携带事务DB)
func (uc *UseCase) checkout(txCtx context.Context, req Request) (*order.Order, error) {
	// ========================================
	// 步骤1:读激活购物车
	// ========================================
	c, err := uc.cartRepo.FindActiveByCustomer(txCtx, req.CustomerID)
	if err != nil {
		if errors.Is(err, cart.ErrCartNotFound) {
			return nil, cart.ErrEmptyCart
		}
		return nil, err
	}
	if c.IsEmpty() {
		return nil, cart.ErrEmptyCart
	}

	// ========================================
	// 步骤2:锁定库存行(悲观锁,防止并发超卖)
	// ========================================
	// 单条SELECT FOR UPDATE按(warehouse_id, book_id)升序
	// 锁定购物车涉及的全部库存行;其他结账事务在这里排队
	bookIDs := make([]uint, len(c.Items))
	for i, item := range c.Items {
		bookIDs[i] = item.BookID
	}
	rows, err := uc.inventoryRepo.LockForBooks(txCtx, bookIDs)
	if err != nil {
		return nil, err
	}
	rowsByBook := make(map[uint][]*inventory.Inventory)
	for _, row := range rows {
		rowsByBook[row.BookID] = append(rowsByBook[row.BookID], row)
	}

	// ========================================
	// 步骤3:逐项分配并扣减
	// ========================================
	// 每个条目从仓库号最小的、能整行满足的库存行扣减;
	// 第一处不足即返回错误,整个事务回滚,之前的扣减全部撤销
	lines := make([]order.Line, 0, len(c.Items))
	for _, item := range c.Items {
		row := pickRow(rowsByBook[item.BookID], item.Quantity)
		if row == nil {
			return nil, uc.insufficientStockError(txCtx, item.BookID)
		}
		if err := uc.inventoryRepo.Deduct(txCtx, row.WarehouseID, item.BookID, item.Quantity); err != nil {
			return nil, err
		}
		lines = append(lines, order.Line{
			BookID:      item.BookID,
			WarehouseID: row.WarehouseID,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice, // 购物车快照价,不回读目录
		})
	}

	// ========================================
	// 步骤4:创建PENDING订单(总额由明细重算)
	// ========================================
	addresses := buildAddresses(req)
	o, err := uc.createOrder(txCtx, req.CustomerID, lines, addresses)
	if err != nil {
		return nil, err
	}

	// ========================================
	// 步骤5:灭活购物车(幂等)
	// ========================================
	if err := uc.cartRepo.Deactivate(txCtx, c.ID); err != nil {
		return nil, err
	}

	// ========================================
	// 步骤6:审计日志(失败则整体回滚)
	// ========================================
	actorID := req.CustomerID
	entry := audit.NewEntry(
		audit.ActionCheckout,
		fmt.Sprintf("订单%s创建,金额%d分,共%d项", o.OrderNo, o.TotalAmount, len(o.Lines)),
		&actorID,
		&o.ID,
	)
	if err := uc.auditRepo.Append(txCtx, entry); err != nil {
		return nil, err
	}

	return o, nil
}

// createOrder 创建订单,订单号唯一索引冲突时换号重试
func (uc *UseCase) createOrder(txCtx context.Context, customerID uint, lines []order.Line, addresses []order.Address) (*order.Order, error) {
	for attempt := 0; attempt < orderNoAttempts; attempt++ {
		o, err := order.New(order.GenerateOrderNo(), customerID, lines, addresses)
		if err != nil {
			return nil, err
		}
		now := time.Now()
		o.LockedAt = &now

		err = uc.orderRepo.Create(txCtx, o)
		if err == nil {
			return o, nil
		}
		if !apperrors.IsCode(err, apperrors.ErrCodeDuplicateEntry) {
			return nil, err
		}
	}
	return nil, order.ErrOrderNoGenerate
}

// pickRow 返回第一个能整行满足数量的库存行(rows已按仓库升序)
func pickRow(rows []*inventory.Inventory, quantity int) *inventory.Inventory {
	for _, row := range rows {
		if row.CanAllocate(quantity) {
			return row
		}
	}
	return nil
}

// insufficientStockError 构造指明缺货图书的错误
// 带上书名方便调用方调整购物车;查不到书名时退化为ISBN/ID
func (uc *UseCase) insufficientStockError(txCtx context.Context, bookID uint) error {
	name := fmt.Sprintf("#%d", bookID)
	if b, err := uc.bookRepo.FindByID(txCtx, bookID); err == nil {
		name = b.Title
	}
	return apperrors.Newf(apperrors.ErrCodeInsufficientStock, "图书《%s》库存不足", name)
}

func buildAddresses(req Request) []order.Address {
	addresses := []order.Address{
		toOrderAddress(order.AddressTypeShipping, req.Shipping),
	}
	if req.Billing != nil {
		addresses = append(addresses, toOrderAddress(order.AddressTypeBilling, *req.Billing))
	}
	return addresses
}

func toOrderAddress(t order.AddressType, in AddressInput) order.Address {
	return order.Address{
		Type:       t,
		Line1:      in.Line1,
		Line2:      in.Line2,
		City:       in.City,
		State:      in.State,
		PostalCode: in.PostalCode,
		Country:    in.Country,
	}
}

// publishCreated 提交后发布order.created事件(best effort)
func (uc *UseCase) publishCreated(ctx context.Context, o *order.Order) {
	if uc.publisher == nil {
		return
	}
	event := mq.OrderEvent{
		OrderNo:     o.OrderNo,
		CustomerID:  o.CustomerID,
		Status:      o.Status.String(),
		TotalAmount: o.TotalAmount,
		OccurredAt:  time.Now().Format(time.RFC3339),
	}
	if err := uc.publisher.Publish(ctx, mq.RoutingKeyOrderCreated, event); err != nil {
		log.Printf("发布order.created事件失败 order_no=%s: %v", o.OrderNo, err)
	}
}

// classify 将结账错误映射到指标标签
func classify(err error) string {
	switch {
	case apperrors.IsCode(err, apperrors.ErrCodeEmptyCart):
		return metrics.ResultEmptyCart
	case apperrors.IsCode(err, apperrors.ErrCodeInsufficientStock):
		return metrics.ResultInsufficientStock
	case apperrors.IsCode(err, apperrors.ErrCodeTxConflict):
		return metrics.ResultConflict
	default:
		return metrics.ResultError
	}
}

// formatPrice 格式化价格(分→元)
func formatPrice(fen int64) string {
	return fmt.Sprintf("%.2f", float64(fen)/100.0)
}
