package service

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/loomcart/internal/constants"
	"github.com/loomcart/internal/logger"
	"github.com/loomcart/internal/models"
	"github.com/loomcart/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// NotificationEnqueuer 订单状态通知投递接口，由队列客户端实现
type NotificationEnqueuer interface {
	EnqueueOrderNotification(orderID uint, status string) error
}

// CheckoutService 结算服务：冻结购物车快照、记录支付、终结为订单
type CheckoutService struct {
	db           *gorm.DB
	checkoutRepo repository.CheckoutRepository
	orderRepo    repository.OrderRepository
	cartRepo     repository.CartRepository
	enqueuer     NotificationEnqueuer
}

// NewCheckoutService 创建结算服务
func NewCheckoutService(
	db *gorm.DB,
	checkoutRepo repository.CheckoutRepository,
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	enqueuer NotificationEnqueuer,
) *CheckoutService {
	return &CheckoutService{
		db:           db,
		checkoutRepo: checkoutRepo,
		orderRepo:    orderRepo,
		cartRepo:     cartRepo,
		enqueuer:     enqueuer,
	}
}

// CreateCheckout 从条目快照创建结算单。快照一经创建不再受购物车变动影响。
// COD 初始支付状态为 pending_cod，其余为 pending；is_paid 一律为 false。
func (s *CheckoutService) CreateCheckout(userID uint, items []models.CheckoutItem, shippingAddr models.JSON, paymentMethod string) (*models.Checkout, error) {
	if userID == 0 {
		return nil, ErrInvalidIdentity
	}
	if len(items) == 0 {
		return nil, ErrCheckoutEmpty
	}
	if len(shippingAddr) == 0 {
		return nil, ErrShippingAddrMissing
	}
	if paymentMethod == "" {
		return nil, ErrPaymentMethodMissing
	}
	for i := range items {
		if items[i].Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
	}

	paymentStatus := constants.PaymentStatusPending
	if paymentMethod == constants.PaymentMethodCOD {
		paymentStatus = constants.PaymentStatusPendingCOD
	}

	total := decimal.Zero
	for i := range items {
		line := items[i].UnitPrice.Mul(decimal.NewFromInt(int64(items[i].Quantity)))
		total = total.Add(line)
	}

	checkout := &models.Checkout{
		UserID:        userID,
		Items:         models.CheckoutItems(items),
		ShippingAddr:  shippingAddr,
		PaymentMethod: paymentMethod,
		TotalPrice:    models.NewMoneyFromDecimal(total),
		PaymentStatus: paymentStatus,
		IsPaid:        false,
	}
	if err := s.checkoutRepo.Create(checkout); err != nil {
		return nil, fmt.Errorf("create checkout: %w", err)
	}
	return checkout, nil
}

// RecordPayment 记录支付结果。仅接受 paid 与 pending_cod，重复同值调用幂等。
func (s *CheckoutService) RecordPayment(checkoutID uint, paymentStatus string, paymentDetails models.JSON) (*models.Checkout, error) {
	checkout, err := s.checkoutRepo.GetByID(checkoutID)
	if err != nil {
		return nil, fmt.Errorf("load checkout: %w", err)
	}
	if checkout == nil {
		return nil, ErrCheckoutNotFound
	}
	if checkout.IsFinalized {
		return nil, ErrCheckoutFinalized
	}

	updates := map[string]interface{}{
		"payment_status":  paymentStatus,
		"payment_details": paymentDetails,
	}
	switch paymentStatus {
	case constants.PaymentStatusPaid:
		updates["is_paid"] = true
		updates["paid_at"] = time.Now()
	case constants.PaymentStatusPendingCOD:
		updates["is_paid"] = false
		updates["paid_at"] = nil
	default:
		return nil, ErrPaymentStatusInvalid
	}

	ok, err := s.checkoutRepo.UpdatePayment(checkoutID, updates)
	if err != nil {
		return nil, fmt.Errorf("update payment: %w", err)
	}
	if !ok {
		// 读取与更新之间结算单可能已被终结
		return nil, ErrCheckoutFinalized
	}
	return s.checkoutRepo.GetByID(checkoutID)
}

// Finalize 将结算单终结为订单，整个生命周期只能成功一次。
// 在线支付必须已支付，COD 允许未支付终结。订单创建与终结标记在同一事务内，
// 订单落库即为提交点；之后的购物车清理失败只记录。
func (s *CheckoutService) Finalize(checkoutID uint, userID uint) (*models.Order, error) {
	checkout, err := s.checkoutRepo.GetByID(checkoutID)
	if err != nil {
		return nil, fmt.Errorf("load checkout: %w", err)
	}
	if checkout == nil {
		return nil, ErrCheckoutNotFound
	}
	if userID > 0 && checkout.UserID != userID {
		return nil, ErrCheckoutForbidden
	}
	if checkout.IsFinalized {
		return nil, ErrCheckoutFinalized
	}
	if !checkout.IsPaid && checkout.PaymentMethod != constants.PaymentMethodCOD {
		return nil, ErrCheckoutNotPaid
	}

	order := buildOrderFromCheckout(checkout)
	err = s.db.Transaction(func(tx *gorm.DB) error {
		ok, err := s.checkoutRepo.WithTx(tx).MarkFinalized(checkout.ID, time.Now())
		if err != nil {
			return fmt.Errorf("mark finalized: %w", err)
		}
		if !ok {
			return ErrCheckoutFinalized
		}
		if err := s.orderRepo.WithTx(tx).Create(order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 购物车可能已被清理，删除失败不影响订单
	if err := s.cartRepo.DeleteByUserID(checkout.UserID); err != nil {
		logger.Warnw("清理已结算购物车失败", "user_id", checkout.UserID, "error", err)
	}

	if s.enqueuer != nil {
		if err := s.enqueuer.EnqueueOrderNotification(order.ID, order.Status); err != nil {
			logger.Warnw("订单通知入队失败", "order_id", order.ID, "status", order.Status, "error", err)
		}
	}

	return order, nil
}

// GetCheckout 获取结算单，仅限创建者本人
func (s *CheckoutService) GetCheckout(checkoutID uint, userID uint) (*models.Checkout, error) {
	checkout, err := s.checkoutRepo.GetByID(checkoutID)
	if err != nil {
		return nil, fmt.Errorf("load checkout: %w", err)
	}
	if checkout == nil {
		return nil, ErrCheckoutNotFound
	}
	if checkout.UserID != userID {
		return nil, ErrCheckoutForbidden
	}
	return checkout, nil
}

func buildOrderFromCheckout(checkout *models.Checkout) *models.Order {
	order := &models.Order{
		OrderNo:        generateOrderNo(),
		UserID:         checkout.UserID,
		ShippingAddr:   checkout.ShippingAddr,
		PaymentMethod:  checkout.PaymentMethod,
		TotalPrice:     checkout.TotalPrice,
		PaymentStatus:  checkout.PaymentStatus,
		PaymentDetails: checkout.PaymentDetails,
		IsPaid:         checkout.IsPaid,
		PaidAt:         checkout.PaidAt,
		IsDelivered:    false,
		Status:         constants.OrderStatusProcessing,
	}
	for i := range checkout.Items {
		item := checkout.Items[i]
		line := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		order.Items = append(order.Items, models.OrderItem{
			ProductID:  item.ProductID,
			Name:       item.Name,
			Image:      item.Image,
			UnitPrice:  item.UnitPrice,
			Size:       item.Size,
			Color:      item.Color,
			Quantity:   item.Quantity,
			TotalPrice: models.NewMoneyFromDecimal(line),
		})
	}
	return order
}

// generateOrderNo 生成订单号：LC + 纳秒时间戳 + 6 位随机数字
func generateOrderNo() string {
	return fmt.Sprintf("LC%d%s", time.Now().UnixNano(), randNumeric(6))
}

func randNumeric(n int) string {
	const digits = "0123456789"
	b := make([]byte, n)
	for i := range b {
		b[i] = digits[rand.Intn(len(digits))]
	}
	return string(b)
}
