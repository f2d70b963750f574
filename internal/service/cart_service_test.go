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
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupCartServiceTest(t *testing.T) (*CartService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:cart_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	cartRepo := repository.NewCartRepository(db)
	productRepo := repository.NewProductRepository(db)
	return NewCartService(cartRepo, productRepo, 3), db
}

func createTestProduct(t *testing.T, db *gorm.DB, name string, price string, active bool) *models.Product {
	t.Helper()
	amount, err := decimal.NewFromString(price)
	if err != nil {
		t.Fatalf("parse price failed: %v", err)
	}
	product := &models.Product{
		Name:     name,
		Image:    "https://cdn.example.com/" + name + ".jpg",
		Price:    models.NewMoneyFromDecimal(amount),
		Sizes:    models.StringArray{"S", "M", "L"},
		Colors:   models.StringArray{"black", "white"},
		IsActive: active,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func assertCartTotal(t *testing.T, cart *models.Cart) {
	t.Helper()
	want := decimal.Zero
	for i := range cart.Items {
		line := cart.Items[i].UnitPrice.Mul(decimal.NewFromInt(int64(cart.Items[i].Quantity)))
		want = want.Add(line)
	}
	if cart.TotalPrice.String() != models.NewMoneyFromDecimal(want).String() {
		t.Fatalf("cart total %s, want %s", cart.TotalPrice.String(), want.StringFixed(2))
	}
}

func TestCartServiceAddItemMintsGuestID(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	product := createTestProduct(t, db, "tee", "19.90", true)

	result, err := svc.AddItem(CartIdentity{}, product.ID, "M", "black", 2)
	if err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	if result.GuestID == "" {
		t.Fatal("expected minted guest id")
	}
	if !strings.HasPrefix(result.GuestID, constants.GuestIDPrefix) {
		t.Fatalf("guest id %q missing prefix", result.GuestID)
	}
	if len(result.Cart.Items) != 1 || result.Cart.Items[0].Quantity != 2 {
		t.Fatalf("unexpected cart items: %+v", result.Cart.Items)
	}
	if result.Cart.TotalPrice.String() != "39.80" {
		t.Fatalf("cart total %s, want 39.80", result.Cart.TotalPrice.String())
	}

	// 相同游客标识再次查询能命中同一购物车
	cart, err := svc.GetCart(CartIdentity{GuestID: result.GuestID})
	if err != nil {
		t.Fatalf("get cart failed: %v", err)
	}
	if cart.ID != result.Cart.ID {
		t.Fatalf("cart id %d, want %d", cart.ID, result.Cart.ID)
	}
}

func TestCartServiceAddItemKeepsGuestIDWhenProvided(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	product := createTestProduct(t, db, "hoodie", "49.50", true)

	result, err := svc.AddItem(CartIdentity{GuestID: "guest_existing"}, product.ID, "L", "white", 1)
	if err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	if result.GuestID != "" {
		t.Fatalf("expected no minted guest id, got %q", result.GuestID)
	}
	if result.Cart.GuestID == nil || *result.Cart.GuestID != "guest_existing" {
		t.Fatalf("unexpected cart guest id: %+v", result.Cart.GuestID)
	}
}

func TestCartServiceAddItemMergesSameVariant(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	product := createTestProduct(t, db, "tee", "19.90", true)
	identity := CartIdentity{UserID: 7}

	if _, err := svc.AddItem(identity, product.ID, "M", "black", 1); err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	result, err := svc.AddItem(identity, product.ID, "M", "black", 2)
	if err != nil {
		t.Fatalf("second add failed: %v", err)
	}
	if len(result.Cart.Items) != 1 {
		t.Fatalf("expected one line, got %d", len(result.Cart.Items))
	}
	if result.Cart.Items[0].Quantity != 3 {
		t.Fatalf("line quantity %d, want 3", result.Cart.Items[0].Quantity)
	}
	assertCartTotal(t, result.Cart)

	// 不同尺码算新条目
	result, err = svc.AddItem(identity, product.ID, "L", "black", 1)
	if err != nil {
		t.Fatalf("variant add failed: %v", err)
	}
	if len(result.Cart.Items) != 2 {
		t.Fatalf("expected two lines, got %d", len(result.Cart.Items))
	}
	assertCartTotal(t, result.Cart)
}

func TestCartServiceAddItemRefreshesPriceSnapshot(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	product := createTestProduct(t, db, "tee", "19.90", true)
	identity := CartIdentity{UserID: 3}

	if _, err := svc.AddItem(identity, product.ID, "M", "black", 1); err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	if err := db.Model(&models.Product{}).Where("id = ?", product.ID).
		Update("price", models.NewMoneyFromDecimal(decimal.NewFromFloat(25.00))).Error; err != nil {
		t.Fatalf("update price failed: %v", err)
	}

	result, err := svc.AddItem(identity, product.ID, "M", "black", 1)
	if err != nil {
		t.Fatalf("second add failed: %v", err)
	}
	if result.Cart.Items[0].UnitPrice.String() != "25.00" {
		t.Fatalf("unit price %s, want 25.00", result.Cart.Items[0].UnitPrice.String())
	}
	if result.Cart.TotalPrice.String() != "50.00" {
		t.Fatalf("total %s, want 50.00", result.Cart.TotalPrice.String())
	}
}

func TestCartServiceAddItemValidation(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	active := createTestProduct(t, db, "tee", "19.90", true)
	inactive := createTestProduct(t, db, "beanie", "12.50", false)

	if _, err := svc.AddItem(CartIdentity{UserID: 1}, active.ID, "M", "black", 0); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
	if _, err := svc.AddItem(CartIdentity{UserID: 1}, 9999, "M", "black", 1); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
	if _, err := svc.AddItem(CartIdentity{UserID: 1}, inactive.ID, "M", "black", 1); !errors.Is(err, ErrProductUnavailable) {
		t.Fatalf("expected ErrProductUnavailable, got %v", err)
	}
}

func TestCartServiceGetCartNotFound(t *testing.T) {
	svc, _ := setupCartServiceTest(t)

	if _, err := svc.GetCart(CartIdentity{UserID: 42}); !errors.Is(err, ErrCartNotFound) {
		t.Fatalf("expected ErrCartNotFound, got %v", err)
	}
	if _, err := svc.GetCart(CartIdentity{GuestID: "guest_missing"}); !errors.Is(err, ErrCartNotFound) {
		t.Fatalf("expected ErrCartNotFound, got %v", err)
	}
	if _, err := svc.GetCart(CartIdentity{}); !errors.Is(err, ErrCartNotFound) {
		t.Fatalf("expected ErrCartNotFound for empty identity, got %v", err)
	}
}

func TestCartServiceUpdateItemQuantity(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	product := createTestProduct(t, db, "tee", "19.90", true)
	identity := CartIdentity{UserID: 5}

	if _, err := svc.AddItem(identity, product.ID, "M", "black", 2); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	// 设置为绝对值而非增量
	cart, err := svc.UpdateItemQuantity(identity, product.ID, "M", "black", 5)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if cart.Items[0].Quantity != 5 {
		t.Fatalf("quantity %d, want 5", cart.Items[0].Quantity)
	}
	assertCartTotal(t, cart)

	// 数量归零等同移除
	cart, err = svc.UpdateItemQuantity(identity, product.ID, "M", "black", 0)
	if err != nil {
		t.Fatalf("update to zero failed: %v", err)
	}
	if len(cart.Items) != 0 {
		t.Fatalf("expected empty cart, got %d items", len(cart.Items))
	}
	if cart.TotalPrice.String() != "0.00" {
		t.Fatalf("total %s, want 0.00", cart.TotalPrice.String())
	}
}

func TestCartServiceUpdateMissingItem(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	product := createTestProduct(t, db, "tee", "19.90", true)
	identity := CartIdentity{UserID: 5}

	if _, err := svc.UpdateItemQuantity(identity, product.ID, "M", "black", 1); !errors.Is(err, ErrCartNotFound) {
		t.Fatalf("expected ErrCartNotFound, got %v", err)
	}

	if _, err := svc.AddItem(identity, product.ID, "M", "black", 1); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if _, err := svc.UpdateItemQuantity(identity, product.ID, "XL", "black", 1); !errors.Is(err, ErrCartItemNotFound) {
		t.Fatalf("expected ErrCartItemNotFound, got %v", err)
	}
}

func TestCartServiceRemoveItem(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	tee := createTestProduct(t, db, "tee", "19.90", true)
	hoodie := createTestProduct(t, db, "hoodie", "49.50", true)
	identity := CartIdentity{UserID: 9}

	if _, err := svc.AddItem(identity, tee.ID, "M", "black", 1); err != nil {
		t.Fatalf("add tee failed: %v", err)
	}
	if _, err := svc.AddItem(identity, hoodie.ID, "L", "white", 1); err != nil {
		t.Fatalf("add hoodie failed: %v", err)
	}

	cart, err := svc.RemoveItem(identity, tee.ID, "M", "black")
	if err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if len(cart.Items) != 1 || cart.Items[0].ProductID != hoodie.ID {
		t.Fatalf("unexpected items after remove: %+v", cart.Items)
	}
	assertCartTotal(t, cart)

	if _, err := svc.RemoveItem(identity, tee.ID, "M", "black"); !errors.Is(err, ErrCartItemNotFound) {
		t.Fatalf("expected ErrCartItemNotFound, got %v", err)
	}
}

func TestCartServiceTotalInvariantAcrossOperations(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	tee := createTestProduct(t, db, "tee", "19.90", true)
	hoodie := createTestProduct(t, db, "hoodie", "49.50", true)
	jeans := createTestProduct(t, db, "jeans", "59.00", true)
	identity := CartIdentity{UserID: 11}

	result, err := svc.AddItem(identity, tee.ID, "M", "black", 3)
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	assertCartTotal(t, result.Cart)

	result, err = svc.AddItem(identity, hoodie.ID, "L", "white", 2)
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	assertCartTotal(t, result.Cart)

	result, err = svc.AddItem(identity, jeans.ID, "32", "blue", 1)
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	assertCartTotal(t, result.Cart)

	cart, err := svc.UpdateItemQuantity(identity, hoodie.ID, "L", "white", 1)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	assertCartTotal(t, cart)

	cart, err = svc.RemoveItem(identity, tee.ID, "M", "black")
	if err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	assertCartTotal(t, cart)

	// 重新加载核对落库值
	reloaded, err := svc.GetCart(identity)
	if err != nil {
		t.Fatalf("get cart failed: %v", err)
	}
	assertCartTotal(t, reloaded)
	if reloaded.TotalPrice.String() != cart.TotalPrice.String() {
		t.Fatalf("persisted total %s, want %s", reloaded.TotalPrice.String(), cart.TotalPrice.String())
	}
}

// failingCreateCartRepo 包装真实仓库，创建恒定失败
type failingCreateCartRepo struct {
	repository.CartRepository
	createErr error
}

func (r *failingCreateCartRepo) Create(cart *models.Cart) error {
	return r.createErr
}

// duplicateOnceCartRepo 首次创建返回唯一索引冲突，模拟并发建车
type duplicateOnceCartRepo struct {
	repository.CartRepository
	tripped bool
}

func (r *duplicateOnceCartRepo) Create(cart *models.Cart) error {
	if !r.tripped {
		r.tripped = true
		return gorm.ErrDuplicatedKey
	}
	return r.CartRepository.Create(cart)
}

func TestCartServiceAddItemPropagatesCreateFailure(t *testing.T) {
	_, db := setupCartServiceTest(t)
	product := createTestProduct(t, db, "tee", "19.90", true)

	broken := NewCartService(&failingCreateCartRepo{
		CartRepository: repository.NewCartRepository(db),
		createErr:      errors.New("disk I/O error"),
	}, repository.NewProductRepository(db), 3)

	_, err := broken.AddItem(CartIdentity{GuestID: "guest_db_down"}, product.ID, "M", "black", 1)
	if err == nil {
		t.Fatal("expected create failure to surface")
	}
	if errors.Is(err, ErrCartConflict) {
		t.Fatalf("storage failure reported as conflict: %v", err)
	}
	if !strings.Contains(err.Error(), "disk I/O error") {
		t.Fatalf("original error lost: %v", err)
	}
}

func TestCartServiceAddItemRetriesDuplicateCreate(t *testing.T) {
	_, db := setupCartServiceTest(t)
	product := createTestProduct(t, db, "tee", "19.90", true)

	racy := NewCartService(&duplicateOnceCartRepo{
		CartRepository: repository.NewCartRepository(db),
	}, repository.NewProductRepository(db), 3)

	result, err := racy.AddItem(CartIdentity{GuestID: "guest_racy"}, product.ID, "M", "black", 1)
	if err != nil {
		t.Fatalf("duplicate-key create should be retried, got %v", err)
	}
	if len(result.Cart.Items) != 1 || result.Cart.Items[0].Quantity != 1 {
		t.Fatalf("cart items %+v", result.Cart.Items)
	}
}
