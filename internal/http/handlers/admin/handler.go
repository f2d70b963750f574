package admin

import "github.com/loomcart/internal/provider"

// Handler 管理端接口入口：订单管理与角色授权
type Handler struct {
	*provider.Container
}

// New 构造管理端处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
