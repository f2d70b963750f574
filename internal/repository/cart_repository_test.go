package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/loomcart/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupCartRepositoryTest(t *testing.T) (*GormCartRepository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:cart_repository_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Cart{}, &models.CartItem{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return NewCartRepository(db), db
}

func newTestCart(userID uint) *models.Cart {
	uid := userID
	return &models.Cart{
		UserID:     &uid,
		TotalPrice: models.NewMoneyFromDecimal(decimal.NewFromFloat(19.90)),
		Items: []models.CartItem{{
			ProductID: 1,
			Name:      "Classic Cotton Tee",
			UnitPrice: models.NewMoneyFromDecimal(decimal.NewFromFloat(19.90)),
			Size:      "M",
			Color:     "black",
			Quantity:  1,
		}},
	}
}

func TestSaveWithVersionDetectsConflict(t *testing.T) {
	repo, _ := setupCartRepositoryTest(t)

	cart := newTestCart(41)
	if err := repo.Create(cart); err != nil {
		t.Fatalf("create cart failed: %v", err)
	}

	// 两个副本基于同一版本号
	stale, err := repo.GetByUserID(41)
	if err != nil {
		t.Fatalf("load cart failed: %v", err)
	}
	fresh, err := repo.GetByUserID(41)
	if err != nil {
		t.Fatalf("load cart failed: %v", err)
	}

	fresh.Items[0].Quantity = 2
	fresh.TotalPrice = models.NewMoneyFromDecimal(decimal.NewFromFloat(39.80))
	ok, err := repo.SaveWithVersion(fresh)
	if err != nil {
		t.Fatalf("first save failed: %v", err)
	}
	if !ok {
		t.Fatal("first save should win")
	}

	stale.Items[0].Quantity = 5
	ok, err = repo.SaveWithVersion(stale)
	if err != nil {
		t.Fatalf("stale save errored: %v", err)
	}
	if ok {
		t.Fatal("stale save must be rejected")
	}

	// 落库的是先到的版本
	current, err := repo.GetByUserID(41)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if current.Items[0].Quantity != 2 {
		t.Fatalf("quantity %d, want 2", current.Items[0].Quantity)
	}
	if current.Version != fresh.Version {
		t.Fatalf("version %d, want %d", current.Version, fresh.Version)
	}
}

func TestSaveWithVersionReplacesItems(t *testing.T) {
	repo, db := setupCartRepositoryTest(t)

	cart := newTestCart(42)
	if err := repo.Create(cart); err != nil {
		t.Fatalf("create cart failed: %v", err)
	}

	loaded, err := repo.GetByUserID(42)
	if err != nil {
		t.Fatalf("load cart failed: %v", err)
	}
	loaded.Items = []models.CartItem{{
		ProductID: 2,
		Name:      "Oversized Hoodie",
		UnitPrice: models.NewMoneyFromDecimal(decimal.NewFromFloat(49.50)),
		Size:      "L",
		Color:     "white",
		Quantity:  1,
	}}
	loaded.TotalPrice = models.NewMoneyFromDecimal(decimal.NewFromFloat(49.50))

	ok, err := repo.SaveWithVersion(loaded)
	if err != nil || !ok {
		t.Fatalf("save failed: ok=%v err=%v", ok, err)
	}

	var count int64
	if err := db.Model(&models.CartItem{}).Where("cart_id = ?", loaded.ID).Count(&count).Error; err != nil {
		t.Fatalf("count items failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("item rows %d, want 1", count)
	}
	reloaded, err := repo.GetByUserID(42)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded.Items[0].ProductID != 2 {
		t.Fatalf("item product %d, want 2", reloaded.Items[0].ProductID)
	}
}

func TestReassignToUser(t *testing.T) {
	repo, _ := setupCartRepositoryTest(t)

	gid := "guest_reassign"
	cart := &models.Cart{GuestID: &gid, Items: []models.CartItem{{
		ProductID: 1,
		Name:      "Classic Cotton Tee",
		UnitPrice: models.NewMoneyFromDecimal(decimal.NewFromFloat(19.90)),
		Quantity:  1,
	}}}
	if err := repo.Create(cart); err != nil {
		t.Fatalf("create cart failed: %v", err)
	}

	if err := repo.ReassignToUser(cart.ID, 51); err != nil {
		t.Fatalf("reassign failed: %v", err)
	}

	byGuest, err := repo.GetByGuestID(gid)
	if err != nil {
		t.Fatalf("guest lookup failed: %v", err)
	}
	if byGuest != nil {
		t.Fatal("guest lookup should miss after reassign")
	}
	byUser, err := repo.GetByUserID(51)
	if err != nil {
		t.Fatalf("user lookup failed: %v", err)
	}
	if byUser == nil || byUser.ID != cart.ID {
		t.Fatalf("user should own cart %d, got %+v", cart.ID, byUser)
	}
}

func TestDeleteByUserIDWithoutCart(t *testing.T) {
	repo, _ := setupCartRepositoryTest(t)
	if err := repo.DeleteByUserID(999); err != nil {
		t.Fatalf("delete without cart should be nil, got %v", err)
	}
}
