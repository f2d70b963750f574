package service

import (
	"fmt"
	"strings"

	"github.com/loomcart/internal/constants"
	"github.com/loomcart/internal/models"
	"github.com/loomcart/internal/repository"
)

// statusNotification 订单状态到通知文案的映射条目
type statusNotification struct {
	Type    string
	Title   string
	Message string
}

// orderStatusNotifications 显式维护的状态通知表，%s 为订单短号
var orderStatusNotifications = map[string]statusNotification{
	constants.OrderStatusProcessing: {
		Type:    constants.NotificationTypeOrderProcessing,
		Title:   "Order Confirmed",
		Message: "Your order #%s has been confirmed and is being processed.",
	},
	constants.OrderStatusShipped: {
		Type:    constants.NotificationTypeOrderShipped,
		Title:   "Order Shipped",
		Message: "Your order #%s has been shipped and is on its way.",
	},
	constants.OrderStatusOutForDelivery: {
		Type:    constants.NotificationTypeOrderOutForDelivery,
		Title:   "Out for Delivery",
		Message: "Your order #%s is out for delivery and will arrive soon.",
	},
	constants.OrderStatusDelivered: {
		Type:    constants.NotificationTypeOrderDelivered,
		Title:   "Order Delivered",
		Message: "Your order #%s has been delivered. Enjoy!",
	},
	constants.OrderStatusCancelled: {
		Type:    constants.NotificationTypeOrderCancelled,
		Title:   "Order Cancelled",
		Message: "Your order #%s has been cancelled.",
	},
}

// NotificationService 通知中心服务
type NotificationService struct {
	notificationRepo repository.NotificationRepository
}

// NewNotificationService 创建通知服务
func NewNotificationService(notificationRepo repository.NotificationRepository) *NotificationService {
	return &NotificationService{notificationRepo: notificationRepo}
}

// orderReference 取订单号末 6 位大写作为用户可见短号
func orderReference(orderNo string) string {
	ref := orderNo
	if len(ref) > constants.OrderReferenceLength {
		ref = ref[len(ref)-constants.OrderReferenceLength:]
	}
	return strings.ToUpper(ref)
}

// CreateForOrderStatus 根据订单当前状态生成通知记录。
// 未知状态不生成，返回 nil 而非错误。
func (s *NotificationService) CreateForOrderStatus(order *models.Order) (*models.Notification, error) {
	tpl, ok := orderStatusNotifications[order.Status]
	if !ok {
		return nil, nil
	}
	notification := &models.Notification{
		UserID:      order.UserID,
		Type:        tpl.Type,
		Title:       tpl.Title,
		Message:     fmt.Sprintf(tpl.Message, orderReference(order.OrderNo)),
		OrderID:     order.ID,
		OrderStatus: order.Status,
		IsRead:      false,
	}
	if err := s.notificationRepo.Create(notification); err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}
	return notification, nil
}

// ListByUser 用户最近的通知，按时间倒序，数量封顶
func (s *NotificationService) ListByUser(userID uint) ([]models.Notification, error) {
	return s.notificationRepo.ListByUser(userID, constants.NotificationListLimit)
}

// UnreadCount 用户未读通知数
func (s *NotificationService) UnreadCount(userID uint) (int64, error) {
	return s.notificationRepo.UnreadCount(userID)
}

// MarkRead 标记单条通知为已读，仅限本人
func (s *NotificationService) MarkRead(notificationID uint, userID uint) error {
	ok, err := s.notificationRepo.MarkRead(notificationID, userID)
	if err != nil {
		return fmt.Errorf("mark read: %w", err)
	}
	if !ok {
		return ErrNotificationNotFound
	}
	return nil
}

// MarkAllRead 标记用户全部通知为已读
func (s *NotificationService) MarkAllRead(userID uint) error {
	return s.notificationRepo.MarkAllRead(userID)
}
