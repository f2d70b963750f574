package queue

import (
	"fmt"
	"strings"

	"github.com/loomcart/internal/config"
	"github.com/loomcart/internal/constants"

	"github.com/hibiken/asynq"
)

// DefaultQueue 默认队列名称
const DefaultQueue = constants.QueueDefault

const (
	defaultQueueHost        = "127.0.0.1"
	defaultQueuePort        = 6379
	defaultQueueConcurrency = 10
)

// Client 队列生产端封装。队列未启用时投递是安静的空操作，
// 通知本就是尽力而为的旁路。
type Client struct {
	client       *asynq.Client
	enabled      bool
	defaultQueue string
}

// NewClient 创建队列客户端
func NewClient(cfg *config.QueueConfig) (*Client, error) {
	c := &Client{defaultQueue: DefaultQueue}
	if cfg == nil || !cfg.Enabled {
		return c, nil
	}
	c.client = asynq.NewClient(buildRedisOpt(cfg))
	c.enabled = true
	return c, nil
}

// Enabled 是否启用
func (c *Client) Enabled() bool {
	return c != nil && c.enabled && c.client != nil
}

// Close 关闭客户端
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// EnqueueOrderNotification 投递订单状态通知任务
func (c *Client) EnqueueOrderNotification(orderID uint, status string) error {
	if !c.Enabled() {
		return nil
	}
	task, err := NewOrderNotificationTask(OrderNotificationPayload{
		OrderID: orderID,
		Status:  status,
	})
	if err != nil {
		return err
	}
	_, err = c.client.Enqueue(task, asynq.Queue(c.defaultQueue))
	return err
}

// BuildServerConfig 生成消费端连接与调度配置
func BuildServerConfig(cfg *config.QueueConfig) (asynq.RedisClientOpt, asynq.Config) {
	concurrency := defaultQueueConcurrency
	if cfg != nil && cfg.Concurrency > 0 {
		concurrency = cfg.Concurrency
	}
	queues := map[string]int{DefaultQueue: 1}
	if cfg != nil && len(cfg.Queues) > 0 {
		queues = cfg.Queues
	}
	return buildRedisOpt(cfg), asynq.Config{
		Concurrency: concurrency,
		Queues:      queues,
	}
}

func buildRedisOpt(cfg *config.QueueConfig) asynq.RedisClientOpt {
	opt := asynq.RedisClientOpt{
		Addr: fmt.Sprintf("%s:%d", defaultQueueHost, defaultQueuePort),
	}
	if cfg == nil {
		return opt
	}

	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		host = defaultQueueHost
	}
	port := cfg.Port
	if port <= 0 {
		port = defaultQueuePort
	}
	opt.Addr = fmt.Sprintf("%s:%d", host, port)
	opt.Password = cfg.Password
	opt.DB = cfg.DB
	return opt
}
