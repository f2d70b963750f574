package public

import (
	"strings"

	handlershared "github.com/loomcart/internal/http/handlers/shared"
	"github.com/loomcart/internal/http/response"
	"github.com/loomcart/internal/service"

	"github.com/gin-gonic/gin"
)

const guestIDHeader = "X-Guest-ID"

// getUserID 获取已鉴权用户 ID，缺失时直接响应 401
func getUserID(c *gin.Context) (uint, bool) {
	uid, ok := handlershared.ContextUint(c, "user_id")
	if !ok || uid == 0 {
		response.Unauthorized(c, "unauthorized")
		return 0, false
	}
	return uid, true
}

// getOptionalUserID 获取可选的用户 ID。游客请求没有 user_id，
// 此处不能写出任何响应，只返回 0。
func getOptionalUserID(c *gin.Context) uint {
	uid, ok := handlershared.ContextUint(c, "user_id")
	if !ok {
		return 0
	}
	return uid
}

// resolveCartIdentity 解析购物车归属。用户身份优先于游客标识，
// 游客标识取请求头 X-Guest-ID，其次查询参数 guest_id。
func resolveCartIdentity(c *gin.Context) service.CartIdentity {
	identity := service.CartIdentity{UserID: getOptionalUserID(c)}
	guestID := strings.TrimSpace(c.GetHeader(guestIDHeader))
	if guestID == "" {
		guestID = strings.TrimSpace(c.Query("guest_id"))
	}
	identity.GuestID = guestID
	return identity
}
