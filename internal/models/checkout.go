package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// CheckoutItem 结算快照项。在结算单创建时冻结，
// 之后购物车的任何变更都不会影响既有结算单。
type CheckoutItem struct {
	ProductID uint   `json:"product_id"`
	Name      string `json:"name"`
	Image     string `json:"image"`
	UnitPrice Money  `json:"unit_price"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	Quantity  int    `json:"quantity"`
}

// CheckoutItems 结算快照项集合，整体以 JSON 落库
type CheckoutItems []CheckoutItem

// Value 实现 driver.Valuer 接口
func (items CheckoutItems) Value() (driver.Value, error) {
	if items == nil {
		return nil, nil
	}
	return json.Marshal(items)
}

// Scan 实现 sql.Scanner 接口
func (items *CheckoutItems) Scan(value interface{}) error {
	if value == nil {
		*items = CheckoutItems{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		if s, ok := value.(string); ok {
			bytes = []byte(s)
		} else {
			return nil
		}
	}
	return json.Unmarshal(bytes, items)
}

// Checkout 结算单表。is_finalized 仅允许 false→true 翻转一次，
// 定稿后除审计字段外不再变更。
type Checkout struct {
	ID             uint          `gorm:"primarykey" json:"id"`                                     // 主键
	UserID         uint          `gorm:"index;not null" json:"user_id"`                            // 用户ID
	Items          CheckoutItems `gorm:"type:json;not null" json:"checkout_items"`                 // 购物车快照
	ShippingAddr   JSON          `gorm:"type:json" json:"shipping_address"`                        // 收货地址
	PaymentMethod  string        `gorm:"type:varchar(32);not null" json:"payment_method"`          // 支付方式
	TotalPrice     Money         `gorm:"type:decimal(20,2);not null;default:0" json:"total_price"` // 合计金额
	PaymentStatus  string        `gorm:"type:varchar(20);not null" json:"payment_status"`          // 支付状态
	PaymentDetails JSON          `gorm:"type:json" json:"payment_details,omitempty"`               // 支付明细
	IsPaid         bool          `gorm:"not null;default:false" json:"is_paid"`                    // 是否已支付
	PaidAt         *time.Time    `json:"paid_at"`                                                  // 支付时间
	IsFinalized    bool          `gorm:"not null;default:false;index" json:"is_finalized"`         // 是否已定稿
	FinalizedAt    *time.Time    `json:"finalized_at"`                                             // 定稿时间
	CreatedAt      time.Time     `gorm:"index" json:"created_at"`                                  // 创建时间
	UpdatedAt      time.Time     `json:"updated_at"`                                               // 更新时间
}

// TableName 指定表名
func (Checkout) TableName() string {
	return "checkouts"
}
