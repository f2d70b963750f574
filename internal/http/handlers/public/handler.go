package public

import "github.com/loomcart/internal/provider"

// Handler 买家侧接口入口：商品浏览、购物车、结算与订单查询
type Handler struct {
	*provider.Container
}

// New 构造买家侧处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
