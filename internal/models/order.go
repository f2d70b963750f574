package models

import "time"

// Order 订单表。仅由结算单定稿创建，除管理员状态流转与删除外只追加不修改。
type Order struct {
	ID             uint       `gorm:"primarykey" json:"id"`                                     // 主键
	OrderNo        string     `gorm:"uniqueIndex;not null" json:"order_no"`                     // 订单编号
	UserID         uint       `gorm:"index;not null" json:"user_id"`                            // 用户ID
	ShippingAddr   JSON       `gorm:"type:json" json:"shipping_address"`                        // 收货地址
	PaymentMethod  string     `gorm:"type:varchar(32);not null" json:"payment_method"`          // 支付方式
	TotalPrice     Money      `gorm:"type:decimal(20,2);not null;default:0" json:"total_price"` // 合计金额
	PaymentStatus  string     `gorm:"type:varchar(20);not null" json:"payment_status"`          // 支付状态
	PaymentDetails JSON       `gorm:"type:json" json:"payment_details,omitempty"`               // 支付明细
	IsPaid         bool       `gorm:"not null;default:false" json:"is_paid"`                    // 是否已支付
	PaidAt         *time.Time `json:"paid_at"`                                                  // 支付时间
	IsDelivered    bool       `gorm:"not null;default:false" json:"is_delivered"`               // 是否已送达
	DeliveredAt    *time.Time `json:"delivered_at"`                                             // 送达时间
	Status         string     `gorm:"index;not null" json:"status"`                             // 履约状态
	CreatedAt      time.Time  `gorm:"index" json:"created_at"`                                  // 创建时间
	UpdatedAt      time.Time  `json:"updated_at"`                                               // 更新时间

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"order_items,omitempty"` // 订单项
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}

// OrderItem 订单项表，定稿时从结算快照复制
type OrderItem struct {
	ID         uint      `gorm:"primarykey" json:"id"`                                     // 主键
	OrderID    uint      `gorm:"index;not null" json:"order_id"`                           // 订单ID
	ProductID  uint      `gorm:"index;not null" json:"product_id"`                         // 商品ID
	Name       string    `gorm:"type:varchar(200);not null" json:"name"`                   // 商品名称快照
	Image      string    `gorm:"type:varchar(500)" json:"image"`                           // 商品图片快照
	UnitPrice  Money     `gorm:"type:decimal(20,2);not null;default:0" json:"unit_price"`  // 单价
	Size       string    `gorm:"type:varchar(32);not null;default:''" json:"size"`         // 尺码
	Color      string    `gorm:"type:varchar(32);not null;default:''" json:"color"`        // 颜色
	Quantity   int       `gorm:"not null" json:"quantity"`                                 // 数量
	TotalPrice Money     `gorm:"type:decimal(20,2);not null;default:0" json:"total_price"` // 小计
	CreatedAt  time.Time `json:"created_at"`                                               // 创建时间
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}
