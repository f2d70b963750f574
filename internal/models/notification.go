package models

import "time"

// Notification 通知表。由订单状态事件派生，只有已读标记可变。
type Notification struct {
	ID          uint      `gorm:"primarykey" json:"id"`                           // 主键
	UserID      uint      `gorm:"index;not null" json:"user_id"`                  // 接收用户ID
	Type        string    `gorm:"type:varchar(40);not null" json:"type"`          // 通知类型
	Title       string    `gorm:"type:varchar(200);not null" json:"title"`        // 标题
	Message     string    `gorm:"type:text;not null" json:"message"`              // 内容
	OrderID     uint      `gorm:"index" json:"order_id,omitempty"`                // 关联订单ID
	OrderStatus string    `gorm:"type:varchar(32)" json:"order_status,omitempty"` // 订单状态快照
	IsRead      bool      `gorm:"not null;default:false;index" json:"is_read"`    // 是否已读
	CreatedAt   time.Time `gorm:"index" json:"created_at"`                        // 创建时间
	UpdatedAt   time.Time `json:"updated_at"`                                     // 更新时间
}

// TableName 指定表名
func (Notification) TableName() string {
	return "notifications"
}
