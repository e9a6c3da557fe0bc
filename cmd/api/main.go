package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/xiebiao/bookshop/docs"
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
	"github.com/xiebiao/bookshop/pkg/response"
)

// @title           Bookshop API
// @version         1.0
// @description     书店结账与库存分配服务
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	db, err := mysql.NewDB(cfg)
	if err != nil {
		log.Fatalf("初始化数据库失败: %v", err)
	}

	redisClient, err := redis.NewClient(cfg)
	if err != nil {
		log.Fatalf("初始化Redis失败: %v", err)
	}

	// MQ可选:未启用时订单事件只记日志
	var publisher *mq.Publisher
	if cfg.MQ.Enabled {
		publisher, err = mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange)
		if err != nil {
			log.Fatalf("初始化MQ失败: %v", err)
		}
		defer publisher.Close()
	}

	// 依赖注入(手动组装):Repository ← Service ← UseCase ← Handler
	// 基础设施层
	customerRepo := mysql.NewCustomerRepository(db)
	bookRepo := mysql.NewBookRepository(db)
	cartRepo := mysql.NewCartRepository(db)
	inventoryRepo := mysql.NewInventoryRepository(db)
	warehouseRepo := mysql.NewWarehouseRepository(db)
	orderRepo := mysql.NewOrderRepository(db)
	auditRepo := mysql.NewAuditRepository(db)
	txManager := mysql.NewTxManager(db)
	sessionStore := redis.NewSessionStore(redisClient)
	jwtManager := jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)

	// 领域层
	customerService := customer.NewService(customerRepo)

	// 应用层
	// publisher为nil接口的坑:必须显式判空后再赋给接口变量
	var checkoutPublisher appcheckout.EventPublisher
	var transitionPublisher apporder.EventPublisher
	if publisher != nil {
		checkoutPublisher = publisher
		transitionPublisher = publisher
	}

	registerUseCase := appcustomer.NewRegisterUseCase(customerService)
	loginUseCase := appcustomer.NewLoginUseCase(customerService, jwtManager, sessionStore)
	createBookUseCase := appbook.NewCreateBookUseCase(bookRepo)
	queryBooksUseCase := appbook.NewQueryBooksUseCase(bookRepo)
	changePriceUseCase := appbook.NewChangePriceUseCase(bookRepo)
	addItemUseCase := appcart.NewAddItemUseCase(cartRepo, bookRepo)
	removeItemUseCase := appcart.NewRemoveItemUseCase(cartRepo)
	viewCartUseCase := appcart.NewViewCartUseCase(cartRepo)
	checkoutUseCase := appcheckout.NewUseCase(cartRepo, bookRepo, inventoryRepo, orderRepo, auditRepo, txManager, checkoutPublisher)
	transitionUseCase := apporder.NewTransitionUseCase(orderRepo, inventoryRepo, auditRepo, txManager, transitionPublisher)
	getOrderUseCase := apporder.NewGetOrderUseCase(orderRepo)
	listOrdersUseCase := apporder.NewListOrdersUseCase(orderRepo)
	restockUseCase := appinventory.NewRestockUseCase(inventoryRepo, warehouseRepo, bookRepo)
	listTrailUseCase := appaudit.NewListTrailUseCase(auditRepo)

	// 接口层
	customerHandler := handler.NewCustomerHandler(registerUseCase, loginUseCase)
	bookHandler := handler.NewBookHandler(createBookUseCase, queryBooksUseCase, changePriceUseCase)
	cartHandler := handler.NewCartHandler(addItemUseCase, removeItemUseCase, viewCartUseCase)
	orderHandler := handler.NewOrderHandler(checkoutUseCase, transitionUseCase, getOrderUseCase, listOrdersUseCase)
	inventoryHandler := handler.NewInventoryHandler(restockUseCase, listTrailUseCase)
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, sessionStore)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	r.Use(metrics.GinMiddleware())

	registerRoutes(r, customerHandler, bookHandler, cartHandler, orderHandler, inventoryHandler, authMiddleware)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("服务启动 addr=%s mode=%s", addr, cfg.Server.Mode)
	if err := r.Run(addr); err != nil {
		log.Fatalf("启动服务失败: %v", err)
	}
}

// registerRoutes 注册路由
func registerRoutes(
	r *gin.Engine,
	customerHandler *handler.CustomerHandler,
	bookHandler *handler.BookHandler,
	cartHandler *handler.CartHandler,
	orderHandler *handler.OrderHandler,
	inventoryHandler *handler.InventoryHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	// 健康检查与可观测
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{"message": "pong", "status": "healthy"})
	})
	r.GET("/metrics", metrics.Handler())
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	{
		// 客户模块(注册登录公开)
		customers := v1.Group("/customers")
		{
			customers.POST("/register", customerHandler.Register)
			customers.POST("/login", customerHandler.Login)
			customers.POST("/logout", authMiddleware.RequireAuth(), customerHandler.Logout)
		}

		// 图书模块(查询公开,上架与改价需要登录)
		books := v1.Group("/books")
		{
			books.GET("", bookHandler.ListBooks)
			books.GET("/:id", bookHandler.GetBook)
			books.POST("", authMiddleware.RequireAuth(), bookHandler.CreateBook)
			books.PUT("/:id/price", authMiddleware.RequireAuth(), bookHandler.ChangePrice)
		}

		// 购物车模块
		cart := v1.Group("/cart")
		cart.Use(authMiddleware.RequireAuth())
		{
			cart.GET("", cartHandler.ViewCart)
			cart.POST("/items", cartHandler.AddItem)
			cart.DELETE("/items/:book_id", cartHandler.RemoveItem)
		}

		// 结账与订单模块
		authorized := v1.Group("")
		authorized.Use(authMiddleware.RequireAuth())
		{
			authorized.POST("/checkout", orderHandler.Checkout)
			authorized.GET("/orders", orderHandler.ListOrders)
			authorized.GET("/orders/:id", orderHandler.GetOrder)
			authorized.POST("/orders/:id/transition", orderHandler.Transition)
			authorized.GET("/orders/:id/audit", inventoryHandler.OrderTrail)

			// 库存与审计
			authorized.POST("/inventory/restock", inventoryHandler.Restock)
			authorized.GET("/audit", inventoryHandler.RecentTrail)
		}
	}
}
