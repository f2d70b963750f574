package models

import "time"

// Cart 购物车表。guest_id 与 user_id 二选一，各自唯一，
// 保证同一身份最多只有一个购物车。
type Cart struct {
	ID         uint      `gorm:"primarykey" json:"id"`                                     // 主键
	UserID     *uint     `gorm:"uniqueIndex" json:"user_id,omitempty"`                     // 用户ID（游客购物车为空）
	GuestID    *string   `gorm:"uniqueIndex;type:varchar(64)" json:"guest_id,omitempty"`   // 游客ID
	TotalPrice Money     `gorm:"type:decimal(20,2);not null;default:0" json:"total_price"` // 合计金额
	Version    uint      `gorm:"not null;default:0" json:"-"`                              // 乐观锁版本号
	CreatedAt  time.Time `gorm:"index" json:"created_at"`                                  // 创建时间
	UpdatedAt  time.Time `gorm:"index" json:"updated_at"`                                  // 更新时间

	Items []CartItem `gorm:"foreignKey:CartID" json:"items"` // 购物车项
}

// TableName 指定表名
func (Cart) TableName() string {
	return "carts"
}

// CartItem 购物车项。同一购物车内以 (product_id, size, color) 去重。
type CartItem struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                                                   // 主键
	CartID    uint      `gorm:"not null;uniqueIndex:idx_cart_product_variant" json:"-"`                                 // 购物车ID
	ProductID uint      `gorm:"not null;uniqueIndex:idx_cart_product_variant" json:"product_id"`                        // 商品ID
	Size      string    `gorm:"type:varchar(32);not null;default:'';uniqueIndex:idx_cart_product_variant" json:"size"`  // 尺码
	Color     string    `gorm:"type:varchar(32);not null;default:'';uniqueIndex:idx_cart_product_variant" json:"color"` // 颜色
	Name      string    `gorm:"type:varchar(200);not null" json:"name"`                                                 // 商品名称快照
	Image     string    `gorm:"type:varchar(500)" json:"image"`                                                         // 商品图片快照
	UnitPrice Money     `gorm:"type:decimal(20,2);not null;default:0" json:"unit_price"`                                // 单价快照
	Quantity  int       `gorm:"not null" json:"quantity"`                                                               // 数量
	CreatedAt time.Time `json:"created_at"`                                                                             // 创建时间
	UpdatedAt time.Time `json:"updated_at"`                                                                             // 更新时间
}

// TableName 指定表名
func (CartItem) TableName() string {
	return "cart_items"
}
