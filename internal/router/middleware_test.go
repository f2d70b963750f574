package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/loomcart/internal/config"

	"github.com/gin-gonic/gin"
)

func TestCORSDefaultsAllowGuestIdentityHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORSMiddleware(config.CORSConfig{}))
	r.POST("/cart", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/cart", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "X-Guest-ID")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("preflight status %d, want 204", w.Code)
	}
	allowed := w.Header().Get("Access-Control-Allow-Headers")
	for _, header := range []string{"X-Guest-ID", "X-Request-ID", "Authorization"} {
		if !strings.Contains(allowed, header) {
			t.Fatalf("allow-headers %q missing %s", allowed, header)
		}
	}
}
