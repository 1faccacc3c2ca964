package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/GarageBook/GarageBook/internal/common/auth"
	"github.com/GarageBook/GarageBook/internal/common/config"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func newAuthTestRouter(t *testing.T, cfg config.AuthConfig) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/whoami", JWTAuth(cfg, nil), func(c *gin.Context) {
		id, ok := AuthUserID(c)
		if !ok {
			t.Fatalf("missing auth user in context")
		}
		c.JSON(http.StatusOK, gin.H{"id": id})
	})
	return r
}

func TestJWTAuthAllowsValidToken(t *testing.T) {
	cfg := config.AuthConfig{
		JWTSecret: "test-secret",
		Issuer:    "garagebook",
		Audience:  "garagebook",
	}
	r := newAuthTestRouter(t, cfg)

	token, _, err := auth.GenerateAccessToken(cfg, "u-1", time.Hour)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", w.Code, w.Body.String())
	}
}

func TestJWTAuthRejectsBadTokens(t *testing.T) {
	cfg := config.AuthConfig{
		JWTSecret: "test-secret",
		Issuer:    "garagebook",
		Audience:  "garagebook",
	}
	r := newAuthTestRouter(t, cfg)

	cases := map[string]func(req *http.Request){
		"missing header": func(req *http.Request) {},
		"empty bearer":   func(req *http.Request) { req.Header.Set("Authorization", "Bearer ") },
		"garbage token":  func(req *http.Request) { req.Header.Set("Authorization", "Bearer not-a-jwt") },
		"expired token": func(req *http.Request) {
			// 手工签一个早已过期的 token（超出 30s leeway）
			claims := jwt.RegisteredClaims{
				Subject:   "u-1",
				Issuer:    cfg.Issuer,
				Audience:  jwt.ClaimStrings{cfg.Audience},
				IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			}
			token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWTSecret))
			if err != nil {
				t.Fatalf("sign expired token: %v", err)
			}
			req.Header.Set("Authorization", "Bearer "+token)
		},
	}

	for name, prepare := range cases {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		prepare(req)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", name, w.Code)
		}
	}
}
