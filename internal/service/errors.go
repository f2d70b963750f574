package service

import "errors"

// 服务层哨兵错误，由 handler 统一映射为响应码
var (
	ErrProductNotFound      = errors.New("product not found")
	ErrProductUnavailable   = errors.New("product unavailable")
	ErrCartNotFound         = errors.New("cart not found")
	ErrCartItemNotFound     = errors.New("cart item not found")
	ErrCartConflict         = errors.New("cart modified concurrently")
	ErrInvalidIdentity      = errors.New("invalid cart identity")
	ErrInvalidQuantity      = errors.New("invalid quantity")
	ErrGuestCartEmpty       = errors.New("guest cart is empty")
	ErrCheckoutEmpty        = errors.New("checkout items empty")
	ErrCheckoutNotFound     = errors.New("checkout not found")
	ErrCheckoutForbidden    = errors.New("checkout belongs to another user")
	ErrCheckoutFinalized    = errors.New("checkout already finalized")
	ErrCheckoutNotPaid      = errors.New("checkout payment incomplete")
	ErrPaymentStatusInvalid = errors.New("invalid payment status")
	ErrShippingAddrMissing  = errors.New("shipping address required")
	ErrPaymentMethodMissing = errors.New("payment method required")
	ErrOrderNotFound        = errors.New("order not found")
	ErrOrderStatusInvalid   = errors.New("invalid order status")
	ErrNotificationNotFound = errors.New("notification not found")
)
