package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"rps_referee/internal/service"

	"github.com/gin-gonic/gin"
)

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTSetsPlayer(t *testing.T) {
	gin.SetMode(gin.TestMode)
	service.InitJWT("test-secret")
	token, err := service.GenerateJWT("p-42")
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	r := gin.New()
	r.GET("/me", JWT(), func(c *gin.Context) {
		id, _ := PlayerID(c)
		c.String(http.StatusOK, id)
	})

	cases := []struct {
		header string
		code   int
		body   string
	}{
		{"Bearer " + token, http.StatusOK, "p-42"},
		{"", http.StatusUnauthorized, ""},
		{token, http.StatusUnauthorized, ""},
		{"Bearer garbage", http.StatusUnauthorized, ""},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		w := serve(r, req)
		if w.Code != tc.code {
			t.Fatalf("header %q: status %d; want %d", tc.header, w.Code, tc.code)
		}
		if tc.body != "" && w.Body.String() != tc.body {
			t.Fatalf("body = %q; want %q", w.Body.String(), tc.body)
		}
	}
}

func TestSimpleRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/x", SimpleRateLimit(2, time.Minute), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for i := 0; i < 2; i++ {
		if w := serve(r, httptest.NewRequest(http.MethodPost, "/x", nil)); w.Code != http.StatusOK {
			t.Fatalf("request %d: %d", i+1, w.Code)
		}
	}
	if w := serve(r, httptest.NewRequest(http.MethodPost, "/x", nil)); w.Code != http.StatusTooManyRequests {
		t.Fatalf("third request: %d; want 429", w.Code)
	}

	other := httptest.NewRequest(http.MethodPost, "/x", nil)
	other.RemoteAddr = "198.51.100.7:4000"
	if w := serve(r, other); w.Code != http.StatusOK {
		t.Fatalf("other client: %d; want 200", w.Code)
	}
}

func TestLimitersFailOpenWithoutRedis(t *testing.T) {
	gin.SetMode(gin.TestMode)
	CloseRedis()
	InitRedisRateLimiter("", "", 0)

	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set(PlayerIDKey, "p1"); c.Next() })
	r.GET("/x", RedisRateLimit(1, time.Minute), GameRateLimit(1, time.Minute), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for i := 0; i < 5; i++ {
		if w := serve(r, httptest.NewRequest(http.MethodGet, "/x", nil)); w.Code != http.StatusOK {
			t.Fatalf("request %d: %d; want 200", i+1, w.Code)
		}
	}
}

func TestGameRateLimitRequiresPlayer(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", GameRateLimit(10, time.Minute), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	if w := serve(r, httptest.NewRequest(http.MethodGet, "/x", nil)); w.Code != http.StatusUnauthorized {
		t.Fatalf("status %d; want 401", w.Code)
	}
}

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS("https://play.example"))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://play.example")
	w := serve(r, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("preflight: %d; want 204", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://play.example" {
		t.Fatalf("allow origin = %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = serve(r, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("foreign origin got CORS header %q", got)
	}
}
