package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func rateLimitedRouter(rate int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	rl := NewRateLimiter(rate, time.Minute)
	r.Use(rl.Middleware())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func doRequest(r *gin.Engine, ip string) int {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = ip + ":12345"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimiterBlocksAfterBudget(t *testing.T) {
	r := rateLimitedRouter(2)

	for i := 0; i < 2; i++ {
		if code := doRequest(r, "10.0.0.1"); code != http.StatusOK {
			t.Fatalf("request %d: status %d, want 200", i+1, code)
		}
	}
	if code := doRequest(r, "10.0.0.1"); code != http.StatusTooManyRequests {
		t.Fatalf("third request: status %d, want 429", code)
	}
}

func TestRateLimiterIsolatesClients(t *testing.T) {
	r := rateLimitedRouter(1)

	if code := doRequest(r, "10.0.0.1"); code != http.StatusOK {
		t.Fatalf("first client: status %d, want 200", code)
	}
	if code := doRequest(r, "10.0.0.1"); code != http.StatusTooManyRequests {
		t.Fatalf("first client again: status %d, want 429", code)
	}
	// A different IP has its own bucket.
	if code := doRequest(r, "10.0.0.2"); code != http.StatusOK {
		t.Fatalf("second client: status %d, want 200", code)
	}
}
