package service

import (
	"fmt"
	"time"

	"github.com/loomcart/internal/constants"
	"github.com/loomcart/internal/logger"
	"github.com/loomcart/internal/models"
	"github.com/loomcart/internal/repository"
)

// OrderService 订单服务：状态流转、查询与管理端操作
type OrderService struct {
	orderRepo repository.OrderRepository
	enqueuer  NotificationEnqueuer
}

// NewOrderService 创建订单服务
func NewOrderService(orderRepo repository.OrderRepository, enqueuer NotificationEnqueuer) *OrderService {
	return &OrderService{orderRepo: orderRepo, enqueuer: enqueuer}
}

// knownOrderStatuses 可被管理员设置的全部状态
var knownOrderStatuses = map[string]bool{
	constants.OrderStatusProcessing:     true,
	constants.OrderStatusShipped:        true,
	constants.OrderStatusOutForDelivery: true,
	constants.OrderStatusDelivered:      true,
	constants.OrderStatusCancelled:      true,
}

// UpdateStatus 管理员更新订单状态。任意已知状态均可设置，不强制单向推进。
// 状态未变化时不产生副作用；实际变更恰好触发一次通知投递。
// Delivered 额外落妥投时间，并把 COD 的 pending_cod 翻转为 paid。
func (s *OrderService) UpdateStatus(orderID uint, status string) (*models.Order, error) {
	if !knownOrderStatuses[status] {
		return nil, ErrOrderStatusInvalid
	}

	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, fmt.Errorf("load order: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.Status == status {
		return order, nil
	}

	updates := map[string]interface{}{"status": status}
	if status == constants.OrderStatusDelivered {
		now := time.Now()
		updates["is_delivered"] = true
		updates["delivered_at"] = now
		if order.PaymentStatus == constants.PaymentStatusPendingCOD {
			updates["payment_status"] = constants.PaymentStatusPaid
			updates["is_paid"] = true
			updates["paid_at"] = now
		}
	}

	if err := s.orderRepo.UpdateStatus(orderID, updates); err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}

	if s.enqueuer != nil {
		if err := s.enqueuer.EnqueueOrderNotification(orderID, status); err != nil {
			logger.Warnw("订单通知入队失败", "order_id", orderID, "status", status, "error", err)
		}
	}

	return s.orderRepo.GetByID(orderID)
}

// DeleteOrder 管理员物理删除订单，不产生通知
func (s *OrderService) DeleteOrder(orderID uint) error {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return fmt.Errorf("load order: %w", err)
	}
	if order == nil {
		return ErrOrderNotFound
	}
	if err := s.orderRepo.Delete(orderID); err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	return nil
}

// ListOrders 管理端订单列表
func (s *OrderService) ListOrders(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.ListAdmin(filter)
}

// ListUserOrders 用户自己的订单列表
func (s *OrderService) ListUserOrders(userID uint, page, pageSize int) ([]models.Order, int64, error) {
	return s.orderRepo.ListByUser(userID, page, pageSize)
}

// GetOrder 管理员获取任意订单
func (s *OrderService) GetOrder(orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, fmt.Errorf("load order: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// GetUserOrder 用户获取自己的订单
func (s *OrderService) GetUserOrder(orderID uint, userID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByIDAndUser(orderID, userID)
	if err != nil {
		return nil, fmt.Errorf("load order: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}
