package public

import (
	"strconv"

	"github.com/loomcart/internal/http/response"
	"github.com/loomcart/internal/models"

	"github.com/gin-gonic/gin"
)

// CheckoutItemRequest 结算条目
type CheckoutItemRequest struct {
	ProductID uint         `json:"product_id" binding:"required"`
	Name      string       `json:"name"`
	Image     string       `json:"image"`
	UnitPrice models.Money `json:"unit_price"`
	Size      string       `json:"size"`
	Color     string       `json:"color"`
	Quantity  int          `json:"quantity" binding:"required"`
}

// CreateCheckoutRequest 创建结算单请求
type CreateCheckoutRequest struct {
	Items         []CheckoutItemRequest `json:"items" binding:"required"`
	ShippingAddr  models.JSON           `json:"shipping_address" binding:"required"`
	PaymentMethod string                `json:"payment_method" binding:"required"`
}

// RecordPaymentRequest 记录支付结果请求
type RecordPaymentRequest struct {
	PaymentStatus  string      `json:"payment_status" binding:"required"`
	PaymentDetails models.JSON `json:"payment_details"`
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || raw == 0 {
		respondError(c, response.CodeBadRequest, "invalid id", nil)
		return 0, false
	}
	return uint(raw), true
}

// CreateCheckout 从条目快照创建结算单
func (h *Handler) CreateCheckout(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req CreateCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	items := make([]models.CheckoutItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, models.CheckoutItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Image:     item.Image,
			UnitPrice: item.UnitPrice,
			Size:      item.Size,
			Color:     item.Color,
			Quantity:  item.Quantity,
		})
	}

	checkout, err := h.CheckoutService.CreateCheckout(uid, items, req.ShippingAddr, req.PaymentMethod)
	if err != nil {
		respondWithMappedError(c, err, checkoutErrorRules, response.CodeInternal, "failed to create checkout")
		return
	}
	response.Success(c, checkout)
}

// RecordPayment 记录支付结果
func (h *Handler) RecordPayment(c *gin.Context) {
	if _, ok := getUserID(c); !ok {
		return
	}
	checkoutID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	checkout, err := h.CheckoutService.RecordPayment(checkoutID, req.PaymentStatus, req.PaymentDetails)
	if err != nil {
		respondWithMappedError(c, err, checkoutErrorRules, response.CodeInternal, "failed to record payment")
		return
	}
	response.Success(c, checkout)
}

// FinalizeCheckout 将结算单终结为订单
func (h *Handler) FinalizeCheckout(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	checkoutID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	order, err := h.CheckoutService.Finalize(checkoutID, uid)
	if err != nil {
		respondWithMappedError(c, err, checkoutErrorRules, response.CodeInternal, "failed to finalize checkout")
		return
	}
	response.Success(c, order)
}

// GetCheckout 获取结算单，仅限创建者
func (h *Handler) GetCheckout(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	checkoutID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	checkout, err := h.CheckoutService.GetCheckout(checkoutID, uid)
	if err != nil {
		respondWithMappedError(c, err, checkoutErrorRules, response.CodeInternal, "failed to load checkout")
		return
	}
	response.Success(c, checkout)
}
