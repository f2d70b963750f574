package public

import (
	"github.com/loomcart/internal/http/response"

	"github.com/gin-gonic/gin"
)

// ListNotifications 当前用户最近的通知
func (h *Handler) ListNotifications(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	notifications, err := h.NotificationService.ListByUser(uid)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to list notifications", err)
		return
	}
	response.Success(c, gin.H{"notifications": notifications})
}

// GetUnreadCount 未读通知数
func (h *Handler) GetUnreadCount(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	count, err := h.NotificationService.UnreadCount(uid)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to count notifications", err)
		return
	}
	response.Success(c, gin.H{"unread": count})
}

// MarkNotificationRead 标记单条通知已读
func (h *Handler) MarkNotificationRead(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	notificationID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.NotificationService.MarkRead(notificationID, uid); err != nil {
		respondWithMappedError(c, err, notificationErrorRules, response.CodeInternal, "failed to mark notification read")
		return
	}
	response.Success(c, gin.H{"updated": true})
}

// MarkAllNotificationsRead 标记全部通知已读
func (h *Handler) MarkAllNotificationsRead(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	if err := h.NotificationService.MarkAllRead(uid); err != nil {
		respondError(c, response.CodeInternal, "failed to mark notifications read", err)
		return
	}
	response.Success(c, gin.H{"updated": true})
}
