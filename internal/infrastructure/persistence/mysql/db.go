package mysql

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/bookshop/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 设计说明：
// 1. 使用GORM v2作为ORM框架
// 2. 配置连接池参数（MaxOpenConns、MaxIdleConns、ConnMaxLifetime）
// 3. 开发环境开启SQL日志，生产环境关闭
// 4. 自动迁移表结构（生产环境应使用版本化迁移脚本）
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := cfg.Database.DSN()

	logLevel := logger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info // 开发环境打印SQL
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	log.Println("✓ 数据库连接成功")

	if err := autoMigrate(db); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	if err := seedDefaultWarehouse(db); err != nil {
		return nil, fmt.Errorf("初始化默认仓库失败: %w", err)
	}

	return db, nil
}

// seedDefaultWarehouse 确保至少存在一个仓库
// 仓库属于基础数据,没有对外的创建接口,首次启动时补齐
func seedDefaultWarehouse(db *gorm.DB) error {
	w := WarehouseModel{Code: "WH-MAIN", Name: "主仓库"}
	return db.Where(WarehouseModel{Code: w.Code}).FirstOrCreate(&w).Error
}

// autoMigrate 自动迁移表结构
// AutoMigrate只会创建表、添加字段，不会删除或修改现有字段
func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&CustomerModel{},
		&BookModel{},
		&WarehouseModel{},
		&InventoryModel{},
		&CartModel{},
		&CartItemModel{},
		&OrderModel{},
		&OrderLineModel{},
		&OrderAddressModel{},
		&AuditLogModel{},
	)
}

// CustomerModel GORM客户模型
// 设计说明：infrastructure层的数据模型带GORM tag，
// domain层实体不依赖GORM，Repository负责两者转换
type CustomerModel struct {
	ID        uint      `gorm:"primaryKey"`
	Email     string    `gorm:"uniqueIndex;size:100;not null;comment:邮箱"`
	Password  string    `gorm:"size:255;not null;comment:密码(bcrypt)"`
	Name      string    `gorm:"size:50;not null;comment:姓名"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
	UpdatedAt time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (CustomerModel) TableName() string {
	return "customers"
}

// BookModel GORM图书模型(目录协作方)
// 价格使用int64存储"分",避免浮点精度问题
type BookModel struct {
	ID          uint      `gorm:"primaryKey"`
	ISBN        string    `gorm:"uniqueIndex;size:20;not null;comment:ISBN号"`
	Title       string    `gorm:"index;size:200;not null;comment:书名"`
	Author      string    `gorm:"size:100;comment:作者"`
	Publisher   string    `gorm:"size:100;comment:出版社"`
	Price       int64     `gorm:"not null;comment:当前售价(分)"`
	Currency    string    `gorm:"size:3;not null;default:CNY;comment:货币码"`
	Description string    `gorm:"type:text;comment:图书描述"`
	CreatedAt   time.Time `gorm:"comment:创建时间"`
	UpdatedAt   time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (BookModel) TableName() string {
	return "books"
}

// WarehouseModel GORM仓库模型
type WarehouseModel struct {
	ID        uint      `gorm:"primaryKey"`
	Code      string    `gorm:"uniqueIndex;size:32;not null;comment:仓库编码"`
	Name      string    `gorm:"size:255;comment:仓库名称"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
	UpdatedAt time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (WarehouseModel) TableName() string {
	return "warehouses"
}

// InventoryModel GORM库存模型
// 设计说明:
// 1. (warehouse_id, book_id)联合唯一
// 2. quantity带CHECK约束非负,扣减UPDATE再带守卫条件双保险
// 3. 联合唯一索引同时固定了FOR UPDATE的加锁扫描顺序
type InventoryModel struct {
	ID          uint      `gorm:"primaryKey"`
	WarehouseID uint      `gorm:"uniqueIndex:idx_warehouse_book,priority:1;not null;comment:仓库ID"`
	BookID      uint      `gorm:"uniqueIndex:idx_warehouse_book,priority:2;index;not null;comment:图书ID"`
	Quantity    int       `gorm:"not null;default:0;check:quantity >= 0;comment:可用库存"`
	CreatedAt   time.Time `gorm:"comment:创建时间"`
	UpdatedAt   time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (InventoryModel) TableName() string {
	return "inventory"
}

// CartModel GORM购物车模型
// 每客户同一时刻只有一条is_active=1的记录(仓储层保证)
type CartModel struct {
	ID         uint            `gorm:"primaryKey"`
	CustomerID uint            `gorm:"index:idx_customer_active,priority:1;not null;comment:客户ID"`
	IsActive   bool            `gorm:"index:idx_customer_active,priority:2;not null;default:1;comment:是否激活"`
	Items      []CartItemModel `gorm:"foreignKey:CartID"`
	CreatedAt  time.Time       `gorm:"comment:创建时间"`
	UpdatedAt  time.Time       `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (CartModel) TableName() string {
	return "carts"
}

// CartItemModel GORM购物车条目模型
// (cart_id, book_id)唯一;unit_price是加购时的价格快照
type CartItemModel struct {
	ID        uint      `gorm:"primaryKey"`
	CartID    uint      `gorm:"uniqueIndex:idx_cart_book,priority:1;not null;comment:购物车ID"`
	BookID    uint      `gorm:"uniqueIndex:idx_cart_book,priority:2;not null;comment:图书ID"`
	Quantity  int       `gorm:"not null;comment:数量"`
	UnitPrice int64     `gorm:"not null;comment:加购时单价快照(分)"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
	UpdatedAt time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (CartItemModel) TableName() string {
	return "cart_items"
}

// OrderModel GORM订单模型
// 设计说明:
// 1. OrderNo唯一索引(业务主键),冲突时应用层重新生成
// 2. Status使用tinyint存储
// 3. total_amount = Σ(数量×快照单价),由应用层重算后写入
type OrderModel struct {
	ID          uint                `gorm:"primaryKey"`
	OrderNo     string              `gorm:"uniqueIndex;size:32;not null;comment:订单号"`
	CustomerID  uint                `gorm:"index:idx_customer_created,priority:1;not null;comment:买家客户ID"`
	Status      int                 `gorm:"index;type:tinyint;default:1;comment:订单状态(1待支付2已支付3已配货4已发货5已送达6已取消7已退货)"`
	TotalAmount int64               `gorm:"not null;comment:订单总金额(分)"`
	PlacedAt    time.Time           `gorm:"index;comment:下单时间"`
	LockedAt    *time.Time          `gorm:"comment:状态变更锁定时间"`
	Lines       []OrderLineModel    `gorm:"foreignKey:OrderID"`
	Addresses   []OrderAddressModel `gorm:"foreignKey:OrderID"`
	CreatedAt   time.Time           `gorm:"index:idx_customer_created,priority:2;comment:创建时间"`
	UpdatedAt   time.Time           `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (OrderModel) TableName() string {
	return "orders"
}

// OrderLineModel GORM订单明细模型
// 设计说明:
// 1. (order_id, book_id)唯一
// 2. unit_price是下单时的价格快照,之后永不回读目录
// 3. warehouse_id记录扣减来源仓库,取消/退货按此回补
type OrderLineModel struct {
	ID          uint      `gorm:"primaryKey"`
	OrderID     uint      `gorm:"uniqueIndex:idx_order_book,priority:1;not null;comment:订单ID"`
	BookID      uint      `gorm:"uniqueIndex:idx_order_book,priority:2;not null;comment:图书ID"`
	WarehouseID uint      `gorm:"not null;comment:库存来源仓库ID"`
	Quantity    int       `gorm:"not null;comment:购买数量"`
	UnitPrice   int64     `gorm:"not null;comment:下单时单价快照(分)"`
	CreatedAt   time.Time `gorm:"comment:创建时间"`
}

// TableName 指定表名
func (OrderLineModel) TableName() string {
	return "order_lines"
}

// OrderAddressModel GORM订单地址快照模型
// (order_id, address_type)唯一:每单至多一个收货地址和一个账单地址
type OrderAddressModel struct {
	ID         uint      `gorm:"primaryKey"`
	OrderID    uint      `gorm:"uniqueIndex:idx_order_type,priority:1;not null;comment:订单ID"`
	Type       string    `gorm:"uniqueIndex:idx_order_type,priority:2;size:16;not null;comment:地址类型(shipping/billing)"`
	Line1      string    `gorm:"size:255;not null;comment:地址行1"`
	Line2      string    `gorm:"size:255;comment:地址行2"`
	City       string    `gorm:"size:128;comment:城市"`
	State      string    `gorm:"size:128;comment:省/州"`
	PostalCode string    `gorm:"size:32;comment:邮编"`
	Country    string    `gorm:"size:64;comment:国家"`
	CreatedAt  time.Time `gorm:"comment:创建时间"`
}

// TableName 指定表名
func (OrderAddressModel) TableName() string {
	return "order_addresses"
}

// AuditLogModel GORM审计日志模型
// 设计说明:
// 1. 只增不改,没有UpdatedAt
// 2. OrderID可空:订单删除后日志保留,引用置空(SET NULL语义)
type AuditLogModel struct {
	ID          uint      `gorm:"primaryKey"`
	Action      string    `gorm:"index;size:32;not null;comment:动作"`
	Description string    `gorm:"type:text;comment:描述"`
	ActorID     *uint     `gorm:"comment:操作者客户ID"`
	OrderID     *uint     `gorm:"index;comment:关联订单ID(订单删除后置空)"`
	CreatedAt   time.Time `gorm:"index;comment:创建时间"`
}

// TableName 指定表名
func (AuditLogModel) TableName() string {
	return "audit_logs"
}
