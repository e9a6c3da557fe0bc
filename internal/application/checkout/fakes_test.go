package checkout

import (
	"context"
	"sync"

	"github.com/xiebiao/bookshop/internal/domain/audit"
	"github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/internal/domain/cart"
	"github.com/xiebiao/bookshop/internal/domain/inventory"
	"github.com/xiebiao/bookshop/internal/domain/order"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// invKey 库存行主键
type invKey struct {
	warehouseID uint
	bookID      uint
}

// fakeStore 内存版存储,同时实现全部仓储接口与事务管理
//
// 事务语义用快照模拟:Transaction入口拍快照,fn返回错误时整体
// 恢复,和数据库回滚等价。互斥锁串行化并发事务,相当于所有
// 结账都在同一批行锁上排队
type fakeStore struct {
	mu sync.Mutex

	books     map[uint]*book.Book
	carts     map[uint]*cart.Cart // key: customerID
	inventory map[invKey]int
	orders    []*order.Order
	entries   []*audit.Entry

	nextCartID  uint
	nextOrderID uint

	failAudit      bool // Append直接失败
	dupCreateLeft  int  // 前N次Create返回订单号冲突
	createAttempts int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		books:     make(map[uint]*book.Book),
		carts:     make(map[uint]*cart.Cart),
		inventory: make(map[invKey]int),
	}
}

// seedBook 布置图书
func (s *fakeStore) seedBook(id uint, title string, price int64) {
	s.books[id] = &book.Book{ID: id, Title: title, Price: price, Currency: "CNY"}
}

// seedInventory 布置库存行
func (s *fakeStore) seedInventory(warehouseID, bookID uint, quantity int) {
	s.inventory[invKey{warehouseID, bookID}] = quantity
}

// seedCart 布置激活购物车
func (s *fakeStore) seedCart(customerID uint, items ...cart.Item) *cart.Cart {
	s.nextCartID++
	c := &cart.Cart{ID: s.nextCartID, CustomerID: customerID, IsActive: true, Items: items}
	s.carts[customerID] = c
	return c
}

// ========================================
// TxManager
// ========================================

type snapshot struct {
	inventory map[invKey]int
	active    map[uint]bool
	orders    int
	entries   int
}

func (s *fakeStore) take() snapshot {
	snap := snapshot{
		inventory: make(map[invKey]int, len(s.inventory)),
		active:    make(map[uint]bool, len(s.carts)),
		orders:    len(s.orders),
		entries:   len(s.entries),
	}
	for k, v := range s.inventory {
		snap.inventory[k] = v
	}
	for id, c := range s.carts {
		snap.active[id] = c.IsActive
	}
	return snap
}

func (s *fakeStore) restore(snap snapshot) {
	s.inventory = snap.inventory
	for id, active := range snap.active {
		s.carts[id].IsActive = active
	}
	s.orders = s.orders[:snap.orders]
	s.entries = s.entries[:snap.entries]
}

func (s *fakeStore) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.take()
	if err := fn(ctx); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

// ========================================
// cart.Repository
// ========================================

func (s *fakeStore) FindActiveByCustomer(ctx context.Context, customerID uint) (*cart.Cart, error) {
	c, ok := s.carts[customerID]
	if !ok || !c.IsActive {
		return nil, cart.ErrCartNotFound
	}
	return c, nil
}

func (s *fakeStore) FindOrCreateActive(ctx context.Context, customerID uint) (*cart.Cart, error) {
	if c, ok := s.carts[customerID]; ok && c.IsActive {
		return c, nil
	}
	return s.seedCart(customerID), nil
}

func (s *fakeStore) Save(ctx context.Context, c *cart.Cart) error {
	s.carts[c.CustomerID] = c
	return nil
}

func (s *fakeStore) Deactivate(ctx context.Context, cartID uint) error {
	for _, c := range s.carts {
		if c.ID == cartID {
			c.Deactivate()
			return nil
		}
	}
	return nil
}

// ========================================
// inventory.Repository
// ========================================

func (s *fakeStore) LockForBooks(ctx context.Context, bookIDs []uint) ([]*inventory.Inventory, error) {
	wanted := make(map[uint]bool, len(bookIDs))
	for _, id := range bookIDs {
		wanted[id] = true
	}

	var rows []*inventory.Inventory
	for k, qty := range s.inventory {
		if wanted[k.bookID] {
			rows = append(rows, &inventory.Inventory{
				WarehouseID: k.warehouseID,
				BookID:      k.bookID,
				Quantity:    qty,
			})
		}
	}
	// (warehouse_id, book_id)升序,与SQL的ORDER BY一致
	for i := 0; i < len(rows); i++ {
		for j := i + 1; j < len(rows); j++ {
			if rows[j].WarehouseID < rows[i].WarehouseID ||
				(rows[j].WarehouseID == rows[i].WarehouseID && rows[j].BookID < rows[i].BookID) {
				rows[i], rows[j] = rows[j], rows[i]
			}
		}
	}
	return rows, nil
}

func (s *fakeStore) Deduct(ctx context.Context, warehouseID, bookID uint, quantity int) error {
	k := invKey{warehouseID, bookID}
	qty, ok := s.inventory[k]
	if !ok {
		return inventory.ErrInventoryNotFound
	}
	if qty < quantity {
		return inventory.ErrInsufficientStock
	}
	s.inventory[k] = qty - quantity
	return nil
}

func (s *fakeStore) Restore(ctx context.Context, warehouseID, bookID uint, quantity int) error {
	k := invKey{warehouseID, bookID}
	if _, ok := s.inventory[k]; !ok {
		return inventory.ErrInventoryNotFound
	}
	s.inventory[k] += quantity
	return nil
}

func (s *fakeStore) GetQuantity(ctx context.Context, warehouseID, bookID uint) (int, error) {
	qty, ok := s.inventory[invKey{warehouseID, bookID}]
	if !ok {
		return 0, inventory.ErrInventoryNotFound
	}
	return qty, nil
}

func (s *fakeStore) Upsert(ctx context.Context, inv *inventory.Inventory) error {
	s.inventory[invKey{inv.WarehouseID, inv.BookID}] = inv.Quantity
	return nil
}

// ========================================
// order.Repository
// ========================================

func (s *fakeStore) Create(ctx context.Context, o *order.Order) error {
	s.createAttempts++
	if s.dupCreateLeft > 0 {
		s.dupCreateLeft--
		return apperrors.New(apperrors.ErrCodeDuplicateEntry, "订单号冲突")
	}
	for _, exist := range s.orders {
		if exist.OrderNo == o.OrderNo {
			return apperrors.New(apperrors.ErrCodeDuplicateEntry, "订单号冲突")
		}
	}
	s.nextOrderID++
	o.ID = s.nextOrderID
	for i := range o.Lines {
		o.Lines[i].OrderID = o.ID
	}
	s.orders = append(s.orders, o)
	return nil
}

func (s *fakeStore) FindByID(ctx context.Context, id uint) (*order.Order, error) {
	for _, o := range s.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, apperrors.ErrOrderNotFound
}

func (s *fakeStore) FindByOrderNo(ctx context.Context, orderNo string) (*order.Order, error) {
	for _, o := range s.orders {
		if o.OrderNo == orderNo {
			return o, nil
		}
	}
	return nil, apperrors.ErrOrderNotFound
}

func (s *fakeStore) LockByID(ctx context.Context, id uint) (*order.Order, error) {
	return s.FindByID(ctx, id)
}

func (s *fakeStore) UpdateStatus(ctx context.Context, o *order.Order) error {
	for _, exist := range s.orders {
		if exist.ID == o.ID {
			exist.Status = o.Status
			exist.LockedAt = o.LockedAt
			return nil
		}
	}
	return apperrors.ErrOrderNotFound
}

func (s *fakeStore) ListByCustomerID(ctx context.Context, customerID uint, page, pageSize int) ([]*order.Order, int64, error) {
	var result []*order.Order
	for _, o := range s.orders {
		if o.CustomerID == customerID {
			result = append(result, o)
		}
	}
	return result, int64(len(result)), nil
}

// ========================================
// audit.Repository
// ========================================

func (s *fakeStore) Append(ctx context.Context, e *audit.Entry) error {
	if s.failAudit {
		return apperrors.New(apperrors.ErrCodeAuditWrite, "审计日志写入失败")
	}
	e.ID = uint(len(s.entries) + 1)
	s.entries = append(s.entries, e)
	return nil
}

func (s *fakeStore) ListByOrderID(ctx context.Context, orderID uint) ([]*audit.Entry, error) {
	var result []*audit.Entry
	for _, e := range s.entries {
		if e.OrderID != nil && *e.OrderID == orderID {
			result = append(result, e)
		}
	}
	return result, nil
}

func (s *fakeStore) ListRecent(ctx context.Context, page, pageSize int) ([]*audit.Entry, int64, error) {
	return s.entries, int64(len(s.entries)), nil
}

// ========================================
// book.Repository
// ========================================

type fakeBookRepo struct {
	store *fakeStore
}

func (r *fakeBookRepo) Create(ctx context.Context, b *book.Book) error {
	r.store.books[b.ID] = b
	return nil
}

func (r *fakeBookRepo) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	b, ok := r.store.books[id]
	if !ok {
		return nil, apperrors.ErrBookNotFound
	}
	return b, nil
}

func (r *fakeBookRepo) FindByISBN(ctx context.Context, isbn string) (*book.Book, error) {
	for _, b := range r.store.books {
		if b.ISBN == isbn {
			return b, nil
		}
	}
	return nil, apperrors.ErrBookNotFound
}

func (r *fakeBookRepo) Update(ctx context.Context, b *book.Book) error {
	r.store.books[b.ID] = b
	return nil
}

func (r *fakeBookRepo) List(ctx context.Context, keyword string, page, pageSize int) ([]*book.Book, int64, error) {
	var result []*book.Book
	for _, b := range r.store.books {
		result = append(result, b)
	}
	return result, int64(len(result)), nil
}

// recordingPublisher 记录发布的事件
type recordingPublisher struct {
	mu     sync.Mutex
	events []string // routing keys
}

func (p *recordingPublisher) Publish(ctx context.Context, routingKey string, event interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, routingKey)
	return nil
}

// newCheckoutUseCase 组装待测用例
func newCheckoutUseCase(store *fakeStore, publisher EventPublisher) *UseCase {
	return NewUseCase(store, &fakeBookRepo{store: store}, store, store, store, store, publisher)
}
