package worker

import (
	"context"
	"encoding/json"

	"github.com/loomcart/internal/logger"
	"github.com/loomcart/internal/provider"
	"github.com/loomcart/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderNotification, c.handleOrderNotification)
}

// handleOrderNotification 消费订单状态通知任务并落库为用户通知。
// 订单已不存在的任务直接跳过，不进入重试。
func (c *Consumer) handleOrderNotification(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_order_notification_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.OrderNotificationPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_notification_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_order_notification_skip_invalid_payload", "order_id", payload.OrderID)
		return nil
	}
	order, err := c.OrderRepo.GetByID(payload.OrderID)
	if err != nil {
		logger.Warnw("worker_order_notification_fetch_order_failed", "order_id", payload.OrderID, "error", err)
		return err
	}
	if order == nil {
		logger.Debugw("worker_order_notification_skip_order_not_found", "order_id", payload.OrderID)
		return nil
	}
	if payload.Status != "" {
		order.Status = payload.Status
	}
	notification, err := c.NotificationService.CreateForOrderStatus(order)
	if err != nil {
		logger.Warnw("worker_order_notification_create_failed",
			"order_id", order.ID,
			"order_no", order.OrderNo,
			"status", order.Status,
			"error", err,
		)
		return err
	}
	if notification == nil {
		logger.Debugw("worker_order_notification_skip_unknown_status", "order_id", order.ID, "status", order.Status)
	}
	return nil
}
