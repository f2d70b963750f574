package public

import (
	"github.com/loomcart/internal/http/response"
	"github.com/loomcart/internal/models"

	"github.com/gin-gonic/gin"
)

// AddCartItemRequest 加入购物车请求
type AddCartItemRequest struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	GuestID   string `json:"guest_id"`
}

// UpdateCartItemRequest 修改购物车条目请求，数量为绝对值
type UpdateCartItemRequest struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Quantity  *int   `json:"quantity" binding:"required"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	GuestID   string `json:"guest_id"`
}

// RemoveCartItemRequest 移除购物车条目请求
type RemoveCartItemRequest struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	GuestID   string `json:"guest_id"`
}

// MergeCartRequest 登录后合并游客购物车请求
type MergeCartRequest struct {
	GuestID string `json:"guest_id" binding:"required"`
}

// CartItemView 购物车条目视图
type CartItemView struct {
	ProductID uint         `json:"product_id"`
	Name      string       `json:"name"`
	Image     string       `json:"image"`
	UnitPrice models.Money `json:"unit_price"`
	Size      string       `json:"size"`
	Color     string       `json:"color"`
	Quantity  int          `json:"quantity"`
}

// CartView 购物车视图
type CartView struct {
	ID         uint           `json:"id"`
	GuestID    string         `json:"guest_id,omitempty"`
	Items      []CartItemView `json:"items"`
	TotalPrice models.Money   `json:"total_price"`
}

func buildCartView(cart *models.Cart) CartView {
	view := CartView{
		ID:         cart.ID,
		Items:      make([]CartItemView, 0, len(cart.Items)),
		TotalPrice: cart.TotalPrice,
	}
	if cart.GuestID != nil {
		view.GuestID = *cart.GuestID
	}
	for _, item := range cart.Items {
		view.Items = append(view.Items, CartItemView{
			ProductID: item.ProductID,
			Name:      item.Name,
			Image:     item.Image,
			UnitPrice: item.UnitPrice,
			Size:      item.Size,
			Color:     item.Color,
			Quantity:  item.Quantity,
		})
	}
	return view
}

// mergeBodyGuestID 请求体中的游客标识优先于请求头
func mergeBodyGuestID(c *gin.Context, bodyGuestID string) {
	if bodyGuestID != "" {
		c.Request.Header.Set(guestIDHeader, bodyGuestID)
	}
}

// GetCart 查看购物车
func (h *Handler) GetCart(c *gin.Context) {
	identity := resolveCartIdentity(c)
	cart, err := h.CartService.GetCart(identity)
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "failed to load cart")
		return
	}
	response.Success(c, buildCartView(cart))
}

// AddCartItem 加入购物车。无任何归属标识时服务端发放游客标识并随响应返回。
func (h *Handler) AddCartItem(c *gin.Context) {
	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	mergeBodyGuestID(c, req.GuestID)
	identity := resolveCartIdentity(c)

	result, err := h.CartService.AddItem(identity, req.ProductID, req.Size, req.Color, req.Quantity)
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "failed to add cart item")
		return
	}
	view := buildCartView(result.Cart)
	if result.GuestID != "" {
		view.GuestID = result.GuestID
	}
	response.Success(c, view)
}

// UpdateCartItem 设置购物车条目数量，数量为 0 时移除
func (h *Handler) UpdateCartItem(c *gin.Context) {
	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Quantity == nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	mergeBodyGuestID(c, req.GuestID)
	identity := resolveCartIdentity(c)

	cart, err := h.CartService.UpdateItemQuantity(identity, req.ProductID, req.Size, req.Color, *req.Quantity)
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "failed to update cart item")
		return
	}
	response.Success(c, buildCartView(cart))
}

// RemoveCartItem 移除购物车条目
func (h *Handler) RemoveCartItem(c *gin.Context) {
	var req RemoveCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	mergeBodyGuestID(c, req.GuestID)
	identity := resolveCartIdentity(c)

	cart, err := h.CartService.RemoveItem(identity, req.ProductID, req.Size, req.Color)
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "failed to remove cart item")
		return
	}
	response.Success(c, buildCartView(cart))
}

// MergeCart 登录后将游客购物车并入当前用户购物车
func (h *Handler) MergeCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req MergeCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	cart, err := h.CartService.MergeGuestCart(uid, req.GuestID)
	if err != nil {
		respondWithMappedError(c, err, cartMergeErrorRules, response.CodeInternal, "failed to merge cart")
		return
	}
	response.Success(c, buildCartView(cart))
}
