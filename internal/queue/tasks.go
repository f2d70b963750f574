package queue

import (
	"encoding/json"

	"github.com/loomcart/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderNotification 订单状态通知任务
	TaskOrderNotification = constants.TaskOrderNotification
)

// OrderNotificationPayload 订单状态通知任务载荷
type OrderNotificationPayload struct {
	OrderID uint   `json:"order_id"`
	Status  string `json:"status"`
}

// NewOrderNotificationTask 创建订单状态通知任务
func NewOrderNotificationTask(payload OrderNotificationPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderNotification, body), nil
}
