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

func setupProductRepositoryTest(t *testing.T) *GormProductRepository {
	t.Helper()
	dsn := fmt.Sprintf("file:product_repository_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return NewProductRepository(db)
}

func seedProduct(t *testing.T, repo *GormProductRepository, name string, active bool) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:     name,
		Price:    models.NewMoneyFromDecimal(decimal.NewFromFloat(19.90)),
		IsActive: active,
	}
	if err := repo.Create(product); err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func TestProductRepositoryListOnlyActive(t *testing.T) {
	repo := setupProductRepositoryTest(t)
	seedProduct(t, repo, "tee", true)
	seedProduct(t, repo, "hoodie", true)
	seedProduct(t, repo, "beanie", false)

	products, total, err := repo.List(true, 1, 20)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 2 || len(products) != 2 {
		t.Fatalf("active list total=%d len=%d, want 2", total, len(products))
	}

	products, total, err = repo.List(false, 1, 20)
	if err != nil {
		t.Fatalf("list all failed: %v", err)
	}
	if total != 3 || len(products) != 3 {
		t.Fatalf("full list total=%d len=%d, want 3", total, len(products))
	}

	// 分页生效
	products, total, err = repo.List(false, 2, 2)
	if err != nil {
		t.Fatalf("paged list failed: %v", err)
	}
	if total != 3 || len(products) != 1 {
		t.Fatalf("page 2 total=%d len=%d, want total 3 len 1", total, len(products))
	}
}

func TestProductRepositoryGetByIDMiss(t *testing.T) {
	repo := setupProductRepositoryTest(t)
	product, err := repo.GetByID(999)
	if err != nil {
		t.Fatalf("get missing product errored: %v", err)
	}
	if product != nil {
		t.Fatalf("expected nil for missing product, got %+v", product)
	}
}
