package middleware

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"contracts-app/config"
	"contracts-app/internal/domain/contracts"
	"contracts-app/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func signed(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	config.JWT_SECRET = "test-secret"
	t.Cleanup(func() { config.JWT_SECRET = "" })

	r := gin.New()
	r.Use(AuthMiddleware(testutil.Logger(t)))
	r.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetUint("user_id")})
	})

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"not bearer", "Token abc", http.StatusUnauthorized},
		{"wrong key", "Bearer " + signed(t, "other", jwt.MapClaims{"user_id": 7}), http.StatusUnauthorized},
		{"expired", "Bearer " + signed(t, "test-secret", jwt.MapClaims{"user_id": 7, "exp": time.Now().Add(-time.Hour).Unix()}), http.StatusUnauthorized},
		{"no user", "Bearer " + signed(t, "test-secret", jwt.MapClaims{"email": "a@b.c"}), http.StatusUnauthorized},
		{"valid", "Bearer " + signed(t, "test-secret", jwt.MapClaims{"user_id": 7}), http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tc.want, rec.Body.String())
			}
			if tc.want == http.StatusOK && !strings.Contains(rec.Body.String(), `"user_id":7`) {
				t.Fatalf("body = %s", rec.Body.String())
			}
		})
	}
}

func TestRequireServiceToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequireServiceToken("s3cret"))
	r.POST("/hook", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for token, want := range map[string]int{"": http.StatusUnauthorized, "nope": http.StatusUnauthorized, "s3cret": http.StatusNoContent} {
		req := httptest.NewRequest(http.MethodPost, "/hook", nil)
		req.Header.Set(ServiceTokenHeader, token)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != want {
			t.Fatalf("token %q: status = %d, want %d", token, rec.Code, want)
		}
	}
}

func TestSanitizeKeepsLinksAndRecurses(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(SanitizeAndCleanInputMiddleware())
	var got map[string]interface{}
	r.POST("/echo", func(c *gin.Context) {
		raw, _ := io.ReadAll(c.Request.Body)
		_ = json.Unmarshal(raw, &got)
		c.Status(http.StatusOK)
	})

	body := `{
		"message": "<script>alert(1)</script>hello",
		"submission_url": "https://cdn.example.com/v.mp4?a=1&b=2",
		"items": [{"description": "<b>Reel</b>"}]
	}`
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(body)))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got["message"] != "hello" {
		t.Fatalf("message = %q", got["message"])
	}
	if got["submission_url"] != "https://cdn.example.com/v.mp4?a=1&b=2" {
		t.Fatalf("url = %q", got["submission_url"])
	}
	item := got["items"].([]interface{})[0].(map[string]interface{})
	if item["description"] != "Reel" {
		t.Fatalf("description = %q", item["description"])
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader("")))
	if rec.Code != http.StatusOK {
		t.Fatalf("empty body status = %d", rec.Code)
	}
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader("{nope")))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("malformed status = %d", rec.Code)
	}
}

func TestResolveParty(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testutil.DB(t)
	ct := &contracts.Contract{ID: "0b8f5e36-2f4f-4c8e-9a59-3f4c1f0a6d21", ProposalID: "p-1", BrandID: 1, CreatorID: 2,
		Status: contracts.StatusNegotiating, Terms: []byte(`{}`)}
	if err := db.Create(ct).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	cases := []struct {
		name   string
		userID uint
		id     string
		want   int
		role   string
	}{
		{"brand", 1, ct.ID, http.StatusOK, "brand"},
		{"creator", 2, ct.ID, http.StatusOK, "creator"},
		{"stranger", 3, ct.ID, http.StatusForbidden, ""},
		{"bad id", 1, "x", http.StatusNotFound, ""},
		{"unknown", 1, "6a4b1c2d-0000-4000-8000-000000000000", http.StatusNotFound, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			r.Use(func(c *gin.Context) { c.Set("user_id", tc.userID) })
			r.GET("/contracts/:id", ResolveParty(db, testutil.Logger(t)), func(c *gin.Context) {
				c.String(http.StatusOK, c.GetString("party_role"))
			})
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/contracts/"+tc.id, nil))
			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d", rec.Code, tc.want)
			}
			if tc.want == http.StatusOK && rec.Body.String() != tc.role {
				t.Fatalf("role = %q, want %q", rec.Body.String(), tc.role)
			}
		})
	}
}

func TestSanitizeStoresPlainTextAndKeepsSnapshots(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(SanitizeAndCleanInputMiddleware())
	var raw []byte
	r.POST("/echo", func(c *gin.Context) {
		raw, _ = io.ReadAll(c.Request.Body)
		c.Status(http.StatusOK)
	})

	body := `{"message": "Tom & Jerry say 5 < 7 <i>today</i>", "terms": {"title":"R&D <Q3> campaign","budget":9007199254740993}, "count": 9007199254740993}`
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(body)))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var got map[string]json.RawMessage
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("decode %s: %v", raw, err)
	}
	if string(got["terms"]) != `{"title":"R&D <Q3> campaign","budget":9007199254740993}` {
		t.Fatalf("terms = %s", got["terms"])
	}
	if string(got["count"]) != "9007199254740993" {
		t.Fatalf("count = %s", got["count"])
	}
	var msg string
	if err := json.Unmarshal(got["message"], &msg); err != nil {
		t.Fatalf("message: %v", err)
	}
	if msg != "Tom & Jerry say 5 < 7 today" {
		t.Fatalf("message = %q", msg)
	}
}
