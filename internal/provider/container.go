package provider

import (
	"github.com/loomcart/internal/authz"
	"github.com/loomcart/internal/cache"
	"github.com/loomcart/internal/config"
	"github.com/loomcart/internal/logger"
	"github.com/loomcart/internal/models"
	"github.com/loomcart/internal/queue"
	"github.com/loomcart/internal/repository"
	"github.com/loomcart/internal/service"
)

// Container 聚合全部仓储与服务，启动时一次性装配
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	ProductRepo      repository.ProductRepository
	CartRepo         repository.CartRepository
	CheckoutRepo     repository.CheckoutRepository
	OrderRepo        repository.OrderRepository
	NotificationRepo repository.NotificationRepository

	// Services
	AuthzService        *authz.Service
	CartService         *service.CartService
	CheckoutService     *service.CheckoutService
	OrderService        *service.OrderService
	NotificationService *service.NotificationService
}

// NewContainer 装配依赖
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	// 仓储在前，服务依赖仓储
	c.initRepositories()

	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.ProductRepo = repository.NewProductRepository(db)
	c.CartRepo = repository.NewCartRepository(db)
	c.CheckoutRepo = repository.NewCheckoutRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.NotificationRepo = repository.NewNotificationRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	c.CartService = service.NewCartService(c.CartRepo, c.ProductRepo, c.Config.Cart.SaveRetries)
	c.CheckoutService = service.NewCheckoutService(models.DB, c.CheckoutRepo, c.OrderRepo, c.CartRepo, c.QueueClient)
	c.OrderService = service.NewOrderService(c.OrderRepo, c.QueueClient)
	c.NotificationService = service.NewNotificationService(c.NotificationRepo)
}
