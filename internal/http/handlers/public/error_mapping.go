package public

import (
	"errors"

	"github.com/loomcart/internal/http/response"
	"github.com/loomcart/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	msg    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackMsg string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.msg, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackMsg, err)
}

var cartErrorRules = []mappedHandlerError{
	{target: service.ErrProductNotFound, code: response.CodeNotFound, msg: "product not found"},
	{target: service.ErrProductUnavailable, code: response.CodeNotFound, msg: "product not found"},
	{target: service.ErrCartNotFound, code: response.CodeNotFound, msg: "cart not found"},
	{target: service.ErrCartItemNotFound, code: response.CodeNotFound, msg: "cart item not found"},
	{target: service.ErrInvalidQuantity, code: response.CodeBadRequest, msg: "invalid quantity"},
	{target: service.ErrCartConflict, code: response.CodeConflict, msg: "cart was modified concurrently, retry"},
	{target: service.ErrInvalidIdentity, code: response.CodeBadRequest, msg: "invalid cart identity"},
}

var cartMergeErrorRules = []mappedHandlerError{
	{target: service.ErrCartNotFound, code: response.CodeNotFound, msg: "nothing to merge"},
	{target: service.ErrGuestCartEmpty, code: response.CodeBadRequest, msg: "guest cart is empty"},
	{target: service.ErrCartConflict, code: response.CodeConflict, msg: "cart was modified concurrently, retry"},
	{target: service.ErrInvalidIdentity, code: response.CodeBadRequest, msg: "invalid cart identity"},
}

var checkoutErrorRules = []mappedHandlerError{
	{target: service.ErrCheckoutEmpty, code: response.CodeBadRequest, msg: "checkout items empty"},
	{target: service.ErrShippingAddrMissing, code: response.CodeBadRequest, msg: "shipping address required"},
	{target: service.ErrPaymentMethodMissing, code: response.CodeBadRequest, msg: "payment method required"},
	{target: service.ErrInvalidQuantity, code: response.CodeBadRequest, msg: "invalid quantity"},
	{target: service.ErrCheckoutNotFound, code: response.CodeNotFound, msg: "checkout not found"},
	{target: service.ErrCheckoutForbidden, code: response.CodeForbidden, msg: "checkout belongs to another user"},
	{target: service.ErrCheckoutFinalized, code: response.CodeConflict, msg: "checkout already finalized"},
	{target: service.ErrCheckoutNotPaid, code: response.CodePreconditionFailed, msg: "checkout payment incomplete"},
	{target: service.ErrPaymentStatusInvalid, code: response.CodeBadRequest, msg: "invalid payment status"},
	{target: service.ErrInvalidIdentity, code: response.CodeBadRequest, msg: "invalid identity"},
}

var userOrderErrorRules = []mappedHandlerError{
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, msg: "order not found"},
}

var notificationErrorRules = []mappedHandlerError{
	{target: service.ErrNotificationNotFound, code: response.CodeNotFound, msg: "notification not found"},
}
