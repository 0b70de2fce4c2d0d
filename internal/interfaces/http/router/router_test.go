package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookforge-api/internal/application/book"
	"bookforge-api/internal/application/dashboard"
	"bookforge-api/internal/application/generation"
	"bookforge-api/internal/application/marketplace"
	"bookforge-api/internal/application/storage"
	"bookforge-api/internal/config"
	"bookforge-api/internal/domain/service"
	"bookforge-api/internal/infrastructure/persistence/memory"
	"bookforge-api/internal/interfaces/http/handler"
	"bookforge-api/internal/interfaces/http/middleware"
	"bookforge-api/internal/workflow/chain"
	workflowprompt "bookforge-api/internal/workflow/prompt"
)

const draftJSON = `{"outline":["Intro","Middle","End"],"chapters":[` +
	`{"title":"Intro","content":"once upon a time"},` +
	`{"title":"Middle","content":"then things happened"}]}`

type stubGenerator struct{}

func (stubGenerator) GenerateText(context.Context, string, service.GenerationParams) (string, error) {
	return draftJSON, nil
}

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Name = "bookforge-api"
	cfg.App.Env = "test"
	cfg.Storage.DefaultNamespace = "default"
	cfg.Security.JWT.Secret = "test-secret"
	cfg.Security.JWT.Issuer = "bookforge-test"
	cfg.Security.JWT.AdminEmails = []string{"admin@example.com"}
	return cfg
}

func newTestRouter(t *testing.T, cfg *config.Config, limiter middleware.RateLimiter) *gin.Engine {
	t.Helper()
	store := storage.NewDocumentStore(memory.NewDocumentStore())
	prompts := workflowprompt.NewRegistry()
	books := book.NewService(
		store,
		generation.NewRunner(memory.NewInflightGate()),
		chain.NewBookContentChain(stubGenerator{}, prompts),
		chain.NewCoverDesignChain(stubGenerator{}, prompts),
		nil,
		nil,
	)
	handlers := &RouterHandlers{
		Health:      handler.NewHealthHandler("test").Require("store", store),
		Auth:        handler.NewAuthHandler(cfg.Security.JWT),
		Book:        handler.NewBookHandler(books),
		Chapter:     handler.NewChapterHandler(books),
		Design:      handler.NewDesignHandler(books),
		Marketplace: handler.NewMarketplaceHandler(marketplace.NewService(store)),
		Dashboard:   handler.NewDashboardHandler(dashboard.NewService(store, nil)),
	}
	return New(cfg, handlers, limiter, nil).Engine()
}

func do(engine *gin.Engine, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Data
}

func TestHealthAndUnknownRoute(t *testing.T) {
	engine := newTestRouter(t, testConfig(), nil)

	assert.Equal(t, http.StatusOK, do(engine, http.MethodGet, "/health", nil, nil).Code)
	assert.Equal(t, http.StatusOK, do(engine, http.MethodGet, "/ready", nil, nil).Code)
	assert.Equal(t, http.StatusNotFound, do(engine, http.MethodGet, "/v1/nope", nil, nil).Code)
}

func TestDraftIsScopedToProfile(t *testing.T) {
	engine := newTestRouter(t, testConfig(), nil)
	alice := map[string]string{middleware.ProfileIDHeader: "alice"}
	bob := map[string]string{middleware.ProfileIDHeader: "bob"}

	w := do(engine, http.MethodPost, "/v1/books/current/generate", map[string]string{"idea": "a garden book"}, alice)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(engine, http.MethodGet, "/v1/books/current", nil, alice)
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, true, data["found"])
	assert.Equal(t, "a garden book", data["idea"])

	w = do(engine, http.MethodGet, "/v1/books/current", nil, bob)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decodeData(t, w)["found"])
}

func TestLibraryIncludesCurrentDraft(t *testing.T) {
	engine := newTestRouter(t, testConfig(), nil)
	alice := map[string]string{middleware.ProfileIDHeader: "alice"}

	w := do(engine, http.MethodGet, "/v1/dashboard", nil, alice)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.EqualValues(t, 3, decodeData(t, w)["totalBooks"])

	require.Equal(t, http.StatusOK, do(engine, http.MethodPost, "/v1/books/current/generate", map[string]string{"idea": "a garden book"}, alice).Code)

	w = do(engine, http.MethodGet, "/v1/dashboard", nil, alice)
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.EqualValues(t, 4, data["totalBooks"])
	assert.EqualValues(t, 45, data["totalSales"])
	assert.EqualValues(t, 225.5, data["totalEarnings"])
	books, _ := data["books"].([]any)
	require.Len(t, books, 4)
	assert.Equal(t, true, books[0].(map[string]any)["current"])
}

func TestInvalidProfileHeaderRejected(t *testing.T) {
	engine := newTestRouter(t, testConfig(), nil)
	w := do(engine, http.MethodGet, "/v1/books/current", nil, map[string]string{middleware.ProfileIDHeader: "../etc"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCurrentAndParamRoutesCoexist(t *testing.T) {
	engine := newTestRouter(t, testConfig(), nil)

	w := do(engine, http.MethodGet, "/v1/books/current/chapters", nil, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data := decodeData(t, w)
	assert.Equal(t, false, data["found"])
	assert.NotEmpty(t, data["chapters"])

	assert.Equal(t, http.StatusNotFound, do(engine, http.MethodGet, "/v1/books/42/chapters", nil, nil).Code)
	assert.Equal(t, http.StatusOK, do(engine, http.MethodGet, "/v1/books/current/design", nil, nil).Code)
	assert.Equal(t, http.StatusOK, do(engine, http.MethodGet, "/v1/books/current/preview", nil, nil).Code)
}

func TestLoginDisabledWhenAuthOff(t *testing.T) {
	engine := newTestRouter(t, testConfig(), nil)
	w := do(engine, http.MethodPost, "/v1/auth/login", map[string]string{"email": "a@example.com", "password": "x"}, nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	cfg := testConfig()
	cfg.Security.JWT.Enabled = true
	engine := newTestRouter(t, cfg, nil)

	assert.Equal(t, http.StatusUnauthorized, do(engine, http.MethodGet, "/v1/admin/dashboard", nil, nil).Code)

	login := func(email string) string {
		w := do(engine, http.MethodPost, "/v1/auth/login", map[string]string{"email": email, "password": "pw"}, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		token, _ := decodeData(t, w)["access_token"].(string)
		require.NotEmpty(t, token)
		return "Bearer " + token
	}

	author := map[string]string{"Authorization": login("writer@example.com")}
	assert.Equal(t, http.StatusForbidden, do(engine, http.MethodGet, "/v1/admin/dashboard", nil, author).Code)
	assert.Equal(t, http.StatusOK, do(engine, http.MethodGet, "/v1/dashboard/author", nil, author).Code)

	admin := map[string]string{"Authorization": login("Admin@Example.com")}
	assert.Equal(t, http.StatusOK, do(engine, http.MethodGet, "/v1/admin/dashboard", nil, admin).Code)
}

func TestRateLimitRejectsBurst(t *testing.T) {
	cfg := testConfig()
	cfg.Security.RateLimit = config.RateLimitConfig{Enabled: true, RequestsPerSecond: 1, Burst: 1}
	engine := newTestRouter(t, cfg, middleware.NewLocalRateLimiter(1))

	assert.Equal(t, http.StatusOK, do(engine, http.MethodGet, "/v1/marketplace/categories", nil, nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, do(engine, http.MethodGet, "/v1/marketplace/categories", nil, nil).Code)
	// 不同 profile 独立计数
	other := map[string]string{middleware.ProfileIDHeader: "other"}
	assert.Equal(t, http.StatusOK, do(engine, http.MethodGet, "/v1/marketplace/categories", nil, other).Code)
}
