package models

import (
	"time"

	"gorm.io/gorm"
)

// Product 商品表（目录查询依赖）
type Product struct {
	ID        uint           `gorm:"primarykey" json:"id"`                               // 主键
	Name      string         `gorm:"type:varchar(200);not null" json:"name"`             // 商品名称
	Image     string         `gorm:"type:varchar(500)" json:"image"`                     // 主图
	Price     Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"` // 单价
	Sizes     StringArray    `gorm:"type:json" json:"sizes"`                             // 可选尺码
	Colors    StringArray    `gorm:"type:json" json:"colors"`                            // 可选颜色
	IsActive  bool           `gorm:"not null;default:true;index" json:"is_active"`       // 是否上架
	CreatedAt time.Time      `gorm:"index" json:"created_at"`                            // 创建时间
	UpdatedAt time.Time      `json:"updated_at"`                                         // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                                     // 软删除时间
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}
