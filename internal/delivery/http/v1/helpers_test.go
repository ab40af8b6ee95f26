package v1

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/xihads/snaptasker/internal/store"
)

const testSigningKey = "test-signing-key"

func newTestServer(t *testing.T) (*gin.Engine, *store.Memory) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mem := store.NewMemory()
	handler := New(
		zerolog.Nop(),
		mem.Tasks(),
		mem.Bids(),
		mem.Applications(),
		mem.Users(),
		SessionConfig{
			Issuer:     "snaptasker-test",
			SigningKey: []byte(testSigningKey),
			TTL:        24 * time.Hour,
		},
	)

	router := gin.New()
	RegisterRoutes(router, handler)
	return router, mem
}

func performRequest(t *testing.T, router *gin.Engine, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to decode response body %q: %v", rec.Body.String(), err)
	}
}

// sessionCookieFor issues a session through the /jwt endpoint and returns
// the resulting token cookie.
func sessionCookieFor(t *testing.T, router *gin.Engine, email string) *http.Cookie {
	t.Helper()

	rec := performRequest(t, router, http.MethodPost, "/jwt", map[string]any{"email": email})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from /jwt, got %d: %s", rec.Code, rec.Body.String())
	}

	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == "token" {
			return cookie
		}
	}
	t.Fatal("no token cookie in /jwt response")
	return nil
}
