package repository

import (
	"errors"
	"time"

	"github.com/loomcart/internal/models"

	"gorm.io/gorm"
)

// CheckoutRepository 结算单数据访问接口
type CheckoutRepository interface {
	Create(checkout *models.Checkout) error
	GetByID(id uint) (*models.Checkout, error)
	UpdatePayment(id uint, updates map[string]interface{}) (bool, error)
	MarkFinalized(id uint, finalizedAt time.Time) (bool, error)
	WithTx(tx *gorm.DB) *GormCheckoutRepository
}

// GormCheckoutRepository GORM 实现
type GormCheckoutRepository struct {
	db *gorm.DB
}

// NewCheckoutRepository 创建结算单仓库
func NewCheckoutRepository(db *gorm.DB) *GormCheckoutRepository {
	return &GormCheckoutRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCheckoutRepository) WithTx(tx *gorm.DB) *GormCheckoutRepository {
	if tx == nil {
		return r
	}
	return &GormCheckoutRepository{db: tx}
}

// Create 创建结算单
func (r *GormCheckoutRepository) Create(checkout *models.Checkout) error {
	return r.db.Create(checkout).Error
}

// GetByID 根据 ID 获取结算单
func (r *GormCheckoutRepository) GetByID(id uint) (*models.Checkout, error) {
	var checkout models.Checkout
	if err := r.db.First(&checkout, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &checkout, nil
}

// UpdatePayment 更新结算单的支付字段。条件更新跳过已终结的结算单，
// 返回 false 表示结算单不存在或已终结。
func (r *GormCheckoutRepository) UpdatePayment(id uint, updates map[string]interface{}) (bool, error) {
	res := r.db.Model(&models.Checkout{}).
		Where("id = ? AND is_finalized = ?", id, false).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// MarkFinalized 将结算单置为已终结。条件更新保证只有第一次调用生效，
// 返回 false 表示结算单已被终结过。
func (r *GormCheckoutRepository) MarkFinalized(id uint, finalizedAt time.Time) (bool, error) {
	res := r.db.Model(&models.Checkout{}).
		Where("id = ? AND is_finalized = ?", id, false).
		Updates(map[string]interface{}{
			"is_finalized": true,
			"finalized_at": finalizedAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
