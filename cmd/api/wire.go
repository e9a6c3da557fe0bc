//go:build wireinject
// +build wireinject

// Wire依赖注入配置
// 运行 `wire gen ./cmd/api` 生成wire_gen.go;
// 当前main.go使用手动组装,本文件声明同一张依赖图
package main

import (
	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	goredis "github.com/redis/go-redis/v9"

	appaudit "github.com/xiebiao/bookshop/internal/application/audit"
	appbook "github.com/xiebiao/bookshop/internal/application/book"
	appcart "github.com/xiebiao/bookshop/internal/application/cart"
	appcheckout "github.com/xiebiao/bookshop/internal/application/checkout"
	appcustomer "github.com/xiebiao/bookshop/internal/application/customer"
	appinventory "github.com/xiebiao/bookshop/internal/application/inventory"
	apporder "github.com/xiebiao/bookshop/internal/application/order"
	"github.com/xiebiao/bookshop/internal/domain/customer"
	"github.com/xiebiao/bookshop/internal/infrastructure/config"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookshop/internal/interface/http/handler"
	"github.com/xiebiao/bookshop/internal/interface/http/middleware"
	"github.com/xiebiao/bookshop/pkg/jwt"
	"github.com/xiebiao/bookshop/pkg/metrics"
	"github.com/xiebiao/bookshop/pkg/mq"
)

// infrastructureSet 基础设施层依赖
var infrastructureSet = wire.NewSet(
	config.Load,
	mysql.NewDB,
	redis.NewClient,
)

// repositorySet 仓储层依赖
var repositorySet = wire.NewSet(
	mysql.NewCustomerRepository,
	mysql.NewBookRepository,
	mysql.NewCartRepository,
	mysql.NewInventoryRepository,
	mysql.NewWarehouseRepository,
	mysql.NewOrderRepository,
	mysql.NewAuditRepository,
	mysql.NewTxManager,
	wire.Bind(new(appcheckout.TxManager), new(*mysql.TxManager)),
	wire.Bind(new(apporder.TxManager), new(*mysql.TxManager)),
)

// domainSet 领域层依赖
var domainSet = wire.NewSet(
	customer.NewService,
)

// applicationSet 应用层依赖
var applicationSet = wire.NewSet(
	appcustomer.NewRegisterUseCase,
	appcustomer.NewLoginUseCase,
	appbook.NewCreateBookUseCase,
	appbook.NewQueryBooksUseCase,
	appbook.NewChangePriceUseCase,
	appcart.NewAddItemUseCase,
	appcart.NewRemoveItemUseCase,
	appcart.NewViewCartUseCase,
	appcheckout.NewUseCase,
	apporder.NewTransitionUseCase,
	apporder.NewGetOrderUseCase,
	apporder.NewListOrdersUseCase,
	appinventory.NewRestockUseCase,
	appaudit.NewListTrailUseCase,
)

// middlewareSet 中间件依赖
var middlewareSet = wire.NewSet(
	provideJWTManager,
	provideSessionStore,
	wire.Bind(new(appcustomer.SessionStore), new(*redis.SessionStore)),
	middleware.NewAuthMiddleware,
)

// handlerSet HTTP处理器依赖
var handlerSet = wire.NewSet(
	handler.NewCustomerHandler,
	handler.NewBookHandler,
	handler.NewCartHandler,
	handler.NewOrderHandler,
	handler.NewInventoryHandler,
)

// provideJWTManager 从配置提取JWT参数
func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)
}

// provideSessionStore 从Redis客户端创建会话存储
func provideSessionStore(client *goredis.Client) *redis.SessionStore {
	return redis.NewSessionStore(client)
}

// providePublisher 按配置创建MQ发布器,未启用时返回nil
func providePublisher(cfg *config.Config) (*mq.Publisher, error) {
	if !cfg.MQ.Enabled {
		return nil, nil
	}
	return mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange)
}

// provideCheckoutPublisher nil指针不能直接赋给接口,显式判空
func provideCheckoutPublisher(p *mq.Publisher) appcheckout.EventPublisher {
	if p == nil {
		return nil
	}
	return p
}

func provideTransitionPublisher(p *mq.Publisher) apporder.EventPublisher {
	if p == nil {
		return nil
	}
	return p
}

// provideGinEngine 创建Gin引擎并注册路由
func provideGinEngine(
	cfg *config.Config,
	customerHandler *handler.CustomerHandler,
	bookHandler *handler.BookHandler,
	cartHandler *handler.CartHandler,
	orderHandler *handler.OrderHandler,
	inventoryHandler *handler.InventoryHandler,
	authMiddleware *middleware.AuthMiddleware,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(metrics.GinMiddleware())

	// 路由注册与main.go共用同一个registerRoutes(含ping/metrics/swagger)
	registerRoutes(r, customerHandler, bookHandler, cartHandler, orderHandler, inventoryHandler, authMiddleware)
	return r
}

// InitializeApp 初始化整个应用
func InitializeApp() (*gin.Engine, error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		applicationSet,
		middlewareSet,
		handlerSet,
		providePublisher,
		provideCheckoutPublisher,
		provideTransitionPublisher,
		provideGinEngine,
	)
	return nil, nil
}
