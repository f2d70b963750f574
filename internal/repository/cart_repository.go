package repository

import (
	"errors"

	"github.com/loomcart/internal/models"

	"gorm.io/gorm"
)

// CartRepository 购物车数据访问接口
type CartRepository interface {
	GetByUserID(userID uint) (*models.Cart, error)
	GetByGuestID(guestID string) (*models.Cart, error)
	Create(cart *models.Cart) error
	SaveWithVersion(cart *models.Cart) (bool, error)
	ReassignToUser(cartID uint, userID uint) error
	Delete(cartID uint) error
	DeleteByUserID(userID uint) error
	WithTx(tx *gorm.DB) *GormCartRepository
}

// GormCartRepository GORM 实现
type GormCartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓库
func NewCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCartRepository) WithTx(tx *gorm.DB) *GormCartRepository {
	if tx == nil {
		return r
	}
	return &GormCartRepository{db: tx}
}

// GetByUserID 获取用户购物车（含条目）
func (r *GormCartRepository) GetByUserID(userID uint) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.Preload("Items").Where("user_id = ?", userID).First(&cart).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cart, nil
}

// GetByGuestID 获取游客购物车（含条目）
func (r *GormCartRepository) GetByGuestID(guestID string) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.Preload("Items").Where("guest_id = ?", guestID).First(&cart).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cart, nil
}

// Create 创建购物车（连同条目）
func (r *GormCartRepository) Create(cart *models.Cart) error {
	return r.db.Create(cart).Error
}

// SaveWithVersion 以乐观锁方式保存购物车：仅当版本号未变时更新汇总字段并替换条目。
// 返回 false 表示版本冲突，调用方应重新加载后重试。
func (r *GormCartRepository) SaveWithVersion(cart *models.Cart) (bool, error) {
	ok := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Cart{}).
			Where("id = ? AND version = ?", cart.ID, cart.Version).
			Updates(map[string]interface{}{
				"total_price": cart.TotalPrice,
				"version":     cart.Version + 1,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		for i := range cart.Items {
			cart.Items[i].ID = 0
			cart.Items[i].CartID = cart.ID
		}
		if len(cart.Items) > 0 {
			if err := tx.Create(&cart.Items).Error; err != nil {
				return err
			}
		}
		ok = true
		return nil
	})
	if err != nil {
		return false, err
	}
	if ok {
		cart.Version++
	}
	return ok, nil
}

// ReassignToUser 将游客购物车转为用户购物车
func (r *GormCartRepository) ReassignToUser(cartID uint, userID uint) error {
	return r.db.Model(&models.Cart{}).
		Where("id = ?", cartID).
		Updates(map[string]interface{}{
			"user_id":  userID,
			"guest_id": nil,
		}).Error
}

// Delete 删除购物车及其条目
func (r *GormCartRepository) Delete(cartID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Cart{}, cartID).Error
	})
}

// DeleteByUserID 删除指定用户的购物车
func (r *GormCartRepository) DeleteByUserID(userID uint) error {
	var cart models.Cart
	err := r.db.Where("user_id = ?", userID).First(&cart).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	return r.Delete(cart.ID)
}
