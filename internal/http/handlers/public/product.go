package public

import (
	"strconv"

	"github.com/loomcart/internal/cache"
	handlershared "github.com/loomcart/internal/http/handlers/shared"
	"github.com/loomcart/internal/http/response"

	"github.com/gin-gonic/gin"
)

// ListProducts 商品目录列表（仅在售）
func (h *Handler) ListProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	products, total, err := h.ProductRepo.List(true, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to list products", err)
		return
	}
	response.SuccessWithPage(c, products, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	})
}

// GetProduct 商品详情，读取穿透缓存
func (h *Handler) GetProduct(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if cached, hit, err := cache.GetProduct(c.Request.Context(), productID); err == nil && hit && cached != nil {
		if cached.IsActive {
			response.Success(c, cached)
			return
		}
	}

	product, err := h.ProductRepo.GetByID(productID)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load product", err)
		return
	}
	if product == nil || !product.IsActive {
		respondError(c, response.CodeNotFound, "product not found", nil)
		return
	}
	_ = cache.SetProduct(c.Request.Context(), product)
	response.Success(c, product)
}
