package admin

import (
	handlershared "github.com/loomcart/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

// respondError 管理端错误响应，统一走 shared 的日志与封装
func respondError(c *gin.Context, code int, msg string, err error) {
	handlershared.RespondError(c, code, msg, err)
}
