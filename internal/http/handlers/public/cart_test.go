package public

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/loomcart/internal/constants"
	"github.com/loomcart/internal/http/response"
	"github.com/loomcart/internal/models"
	"github.com/loomcart/internal/provider"
	"github.com/loomcart/internal/repository"
	"github.com/loomcart/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupCartHandlerTest(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dsn := fmt.Sprintf("file:cart_handler_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
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
	handler := New(&provider.Container{
		CartService: service.NewCartService(cartRepo, productRepo, 3),
	})
	r := gin.New()
	r.GET("/cart", handler.GetCart)
	r.POST("/cart", handler.AddCartItem)
	return r, db
}

func createCartHandlerProduct(t *testing.T, db *gorm.DB, name, price string) *models.Product {
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
		IsActive: true,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

// decodeCartEnvelope 整体反序列化响应体。响应若被写入了多个 JSON
// 文档（例如身份解析误写了错误信封），这里会直接失败。
func decodeCartEnvelope(t *testing.T, body []byte) (int, CartView) {
	t.Helper()
	var envelope struct {
		StatusCode int             `json:"status_code"`
		Msg        string          `json:"msg"`
		Data       json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		t.Fatalf("response is not a single JSON document: %v, body %s", err, body)
	}
	var view CartView
	if len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, &view); err != nil {
			t.Fatalf("decode cart view failed: %v, data %s", err, envelope.Data)
		}
	}
	return envelope.StatusCode, view
}

func TestResolveCartIdentityGuestWritesNoResponse(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	c.Request.Header.Set("X-Guest-ID", "guest_e2a1")

	identity := resolveCartIdentity(c)
	if identity.UserID != 0 {
		t.Fatalf("guest request resolved user id %d", identity.UserID)
	}
	if identity.GuestID != "guest_e2a1" {
		t.Fatalf("guest id %q, want guest_e2a1", identity.GuestID)
	}
	if w.Body.Len() != 0 {
		t.Fatalf("identity resolution wrote %q to the response", w.Body.String())
	}
}

func TestResolveCartIdentityUserWinsOverGuest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	c.Request.Header.Set("X-Guest-ID", "guest_e2a1")
	c.Set("user_id", uint(7))

	identity := resolveCartIdentity(c)
	if identity.UserID != 7 {
		t.Fatalf("user id %d, want 7", identity.UserID)
	}
	if w.Body.Len() != 0 {
		t.Fatalf("identity resolution wrote %q to the response", w.Body.String())
	}
}

func TestGuestCartFlowOverHTTP(t *testing.T) {
	r, db := setupCartHandlerTest(t)
	product := createCartHandlerProduct(t, db, "tee", "19.90")

	payload := fmt.Sprintf(`{"product_id":%d,"quantity":2,"size":"M","color":"black"}`, product.ID)
	req := httptest.NewRequest(http.MethodPost, "/cart", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Guest-ID", "guest_cafe01")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("add cart item status %d, body %s", w.Code, w.Body.String())
	}
	code, view := decodeCartEnvelope(t, w.Body.Bytes())
	if code != response.CodeOK {
		t.Fatalf("add cart item business code %d, body %s", code, w.Body.String())
	}
	if view.GuestID != "guest_cafe01" {
		t.Fatalf("cart guest id %q, want guest_cafe01", view.GuestID)
	}
	if len(view.Items) != 1 || view.Items[0].Quantity != 2 {
		t.Fatalf("cart items %+v", view.Items)
	}
	if view.TotalPrice.String() != "39.80" {
		t.Fatalf("cart total %s, want 39.80", view.TotalPrice.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set("X-Guest-ID", "guest_cafe01")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("get cart status %d, body %s", w.Code, w.Body.String())
	}
	code, view = decodeCartEnvelope(t, w.Body.Bytes())
	if code != response.CodeOK {
		t.Fatalf("get cart business code %d, body %s", code, w.Body.String())
	}
	if view.TotalPrice.String() != "39.80" {
		t.Fatalf("reloaded cart total %s, want 39.80", view.TotalPrice.String())
	}
}

func TestAddCartItemMintsGuestIDOverHTTP(t *testing.T) {
	r, db := setupCartHandlerTest(t)
	product := createCartHandlerProduct(t, db, "hoodie", "49.50")

	payload := fmt.Sprintf(`{"product_id":%d,"quantity":1}`, product.ID)
	req := httptest.NewRequest(http.MethodPost, "/cart", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("add cart item status %d, body %s", w.Code, w.Body.String())
	}
	code, view := decodeCartEnvelope(t, w.Body.Bytes())
	if code != response.CodeOK {
		t.Fatalf("add cart item business code %d, body %s", code, w.Body.String())
	}
	if !strings.HasPrefix(view.GuestID, constants.GuestIDPrefix) {
		t.Fatalf("minted guest id %q, want %s prefix", view.GuestID, constants.GuestIDPrefix)
	}
}
