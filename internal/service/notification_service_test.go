package service

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/loomcart/internal/constants"
	"github.com/loomcart/internal/models"
	"github.com/loomcart/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupNotificationServiceTest(t *testing.T) (*NotificationService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:notification_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Notification{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return NewNotificationService(repository.NewNotificationRepository(db)), db
}

func TestCreateForOrderStatus(t *testing.T) {
	svc, _ := setupNotificationServiceTest(t)

	order := &models.Order{
		ID:      5,
		OrderNo: "LC1700000000000000000abc123",
		UserID:  31,
		Status:  constants.OrderStatusDelivered,
	}
	notification, err := svc.CreateForOrderStatus(order)
	if err != nil {
		t.Fatalf("create notification failed: %v", err)
	}
	if notification.Type != constants.NotificationTypeOrderDelivered {
		t.Fatalf("type %s, want order_delivered", notification.Type)
	}
	if notification.UserID != 31 || notification.OrderID != 5 {
		t.Fatalf("notification routing wrong: %+v", notification)
	}
	if notification.IsRead {
		t.Fatal("new notification must be unread")
	}
	// 订单短号取末 6 位并大写
	if !strings.Contains(notification.Message, "#ABC123") {
		t.Fatalf("message %q should contain #ABC123", notification.Message)
	}
}

func TestCreateForOrderStatusUnknownStatus(t *testing.T) {
	svc, db := setupNotificationServiceTest(t)

	order := &models.Order{ID: 6, OrderNo: "LC1abc", UserID: 31, Status: "archived"}
	notification, err := svc.CreateForOrderStatus(order)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if notification != nil {
		t.Fatalf("unknown status must not create notification, got %+v", notification)
	}
	var count int64
	if err := db.Model(&models.Notification{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Fatal("no rows should be written for unknown status")
	}
}

func TestNotificationReadFlow(t *testing.T) {
	svc, _ := setupNotificationServiceTest(t)

	for i, status := range []string{
		constants.OrderStatusProcessing,
		constants.OrderStatusShipped,
		constants.OrderStatusDelivered,
	} {
		order := &models.Order{ID: uint(i + 1), OrderNo: fmt.Sprintf("LC%d", i+1), UserID: 31, Status: status}
		if _, err := svc.CreateForOrderStatus(order); err != nil {
			t.Fatalf("create notification failed: %v", err)
		}
	}
	other := &models.Order{ID: 9, OrderNo: "LC9", UserID: 77, Status: constants.OrderStatusShipped}
	if _, err := svc.CreateForOrderStatus(other); err != nil {
		t.Fatalf("create notification failed: %v", err)
	}

	list, err := svc.ListByUser(31)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 notifications, got %d", len(list))
	}

	unread, err := svc.UnreadCount(31)
	if err != nil {
		t.Fatalf("unread count failed: %v", err)
	}
	if unread != 3 {
		t.Fatalf("unread %d, want 3", unread)
	}

	// 只能标记本人的通知
	if err := svc.MarkRead(list[0].ID, 77); !errors.Is(err, ErrNotificationNotFound) {
		t.Fatalf("expected ErrNotificationNotFound, got %v", err)
	}
	if err := svc.MarkRead(list[0].ID, 31); err != nil {
		t.Fatalf("mark read failed: %v", err)
	}
	unread, err = svc.UnreadCount(31)
	if err != nil {
		t.Fatalf("unread count failed: %v", err)
	}
	if unread != 2 {
		t.Fatalf("unread %d, want 2", unread)
	}

	if err := svc.MarkAllRead(31); err != nil {
		t.Fatalf("mark all read failed: %v", err)
	}
	unread, err = svc.UnreadCount(31)
	if err != nil {
		t.Fatalf("unread count failed: %v", err)
	}
	if unread != 0 {
		t.Fatalf("unread %d, want 0", unread)
	}

	// 其他用户的未读不受影响
	otherUnread, err := svc.UnreadCount(77)
	if err != nil {
		t.Fatalf("unread count failed: %v", err)
	}
	if otherUnread != 1 {
		t.Fatalf("unread %d, want 1", otherUnread)
	}
}
