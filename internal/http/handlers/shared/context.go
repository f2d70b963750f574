package shared

import "github.com/gin-gonic/gin"

// ContextUint 静默读取上下文中的 uint 值，缺失或类型不符返回 false，
// 不写任何响应，可用于身份可选的接口。
func ContextUint(c *gin.Context, key string) (uint, bool) {
	value, exists := c.Get(key)
	if !exists {
		return 0, false
	}
	switch v := value.(type) {
	case uint:
		return v, true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint(v), true
	case float64:
		if v < 0 {
			return 0, false
		}
		return uint(v), true
	default:
		return 0, false
	}
}
