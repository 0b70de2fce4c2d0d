package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookforge-api/internal/application/book"
	"bookforge-api/internal/application/dashboard"
	"bookforge-api/internal/application/generation"
	"bookforge-api/internal/application/marketplace"
	"bookforge-api/internal/application/storage"
	"bookforge-api/internal/domain/service"
	"bookforge-api/internal/infrastructure/persistence/memory"
	"bookforge-api/internal/interfaces/http/dto"
	"bookforge-api/internal/interfaces/http/middleware"
	"bookforge-api/internal/workflow/chain"
	workflowprompt "bookforge-api/internal/workflow/prompt"
	apperrors "bookforge-api/pkg/errors"
)

const draftJSON = `{"outline":["Intro","Middle","End"],"chapters":[` +
	`{"title":"Intro","content":"once upon a time"},` +
	`{"title":"Middle","content":"then things happened"}]}`

type replyGenerator struct {
	reply string
}

func (g replyGenerator) GenerateText(context.Context, string, service.GenerationParams) (string, error) {
	return g.reply, nil
}

func init() {
	gin.SetMode(gin.TestMode)
}

func newBookService(reply string) *book.Service {
	prompts := workflowprompt.NewRegistry()
	gen := replyGenerator{reply: reply}
	return book.NewService(
		storage.NewDocumentStore(memory.NewDocumentStore()),
		generation.NewRunner(memory.NewInflightGate()),
		chain.NewBookContentChain(gen, prompts),
		chain.NewCoverDesignChain(gen, prompts),
		nil,
		nil,
	)
}

func request(engine *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	return resp.Error.ErrorCode
}

func TestChapterHandlerErrors(t *testing.T) {
	books := newBookService(draftJSON)
	engine := gin.New()
	bh := NewBookHandler(books)
	ch := NewChapterHandler(books)
	engine.POST("/generate", bh.Generate)
	engine.PUT("/chapters/:index", ch.Update)
	engine.PUT("/chapters/:index/status", ch.SetStatus)

	// 没有草稿时修改章节
	w := request(engine, http.MethodPut, "/chapters/0", `{"content":"x"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, string(apperrors.CodeBookNotFound), errorCode(t, w))

	require.Equal(t, http.StatusOK, request(engine, http.MethodPost, "/generate", `{"idea":"tea"}`).Code)

	assert.Equal(t, http.StatusBadRequest, request(engine, http.MethodPut, "/chapters/abc", `{}`).Code)

	w = request(engine, http.MethodPut, "/chapters/7", `{"content":"x"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, string(apperrors.CodeChapterNotFound), errorCode(t, w))

	assert.Equal(t, http.StatusBadRequest, request(engine, http.MethodPut, "/chapters/0/status", `{"status":"published"}`).Code)

	w = request(engine, http.MethodPut, "/chapters/0/status", `{"status":"completed"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.Response[dto.ChapterResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "completed", resp.Data.Status)
	assert.True(t, resp.Data.StatusExplicit)
}

func TestGenerateRejectsUnparseableReply(t *testing.T) {
	engine := gin.New()
	engine.POST("/generate", NewBookHandler(newBookService("no json here")).Generate)

	w := request(engine, http.MethodPost, "/generate", `{"idea":"tea"}`)
	assert.GreaterOrEqual(t, w.Code, http.StatusBadRequest)
	assert.NotContains(t, w.Body.String(), "no json here")
}

func TestMarketplaceListingAndPurchase(t *testing.T) {
	market := marketplace.NewService(storage.NewDocumentStore(memory.NewDocumentStore()))
	h := NewMarketplaceHandler(market)
	engine := gin.New()
	engine.POST("/listings", h.CreateListing)
	engine.GET("/books", h.Browse)
	engine.POST("/books/:bookId/purchase", func(c *gin.Context) {
		if email := c.Query("as"); email != "" {
			c.Set(middleware.ContextEmail, email)
		}
		h.Purchase(c)
	})

	w := request(engine, http.MethodPost, "/listings",
		`{"title":"Tea Time","author":"Ann","price":"12.50","category":"Lifestyle","tags":"tea, , brewing"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created dto.Response[struct {
		ID    int64    `json:"id"`
		Price float64  `json:"price"`
		Tags  []string `json:"tags"`
	}]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.InDelta(t, 12.5, created.Data.Price, 1e-9)
	assert.Equal(t, []string{"tea", "brewing"}, created.Data.Tags)

	w = request(engine, http.MethodGet, "/books?q=brewing", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list dto.Response[[]struct {
		ID int64 `json:"id"`
	}]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Data, 1)
	assert.Equal(t, created.Data.ID, list.Data[0].ID)
	assert.Equal(t, 1, list.Meta.Total)

	assert.Equal(t, http.StatusBadRequest, request(engine, http.MethodGet, "/books?sort=random", "").Code)

	id := strconv.FormatInt(created.Data.ID, 10)
	w = request(engine, http.MethodPost, "/books/"+id+"/purchase", "")
	require.Equal(t, http.StatusOK, w.Code)
	var purchase dto.Response[struct {
		ReceiptEmail string  `json:"receiptEmail"`
		Amount       float64 `json:"amount"`
	}]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &purchase))
	assert.Equal(t, marketplace.DefaultReceiptEmail, purchase.Data.ReceiptEmail)
	assert.InDelta(t, 12.5, purchase.Data.Amount, 1e-9)

	w = request(engine, http.MethodPost, "/books/"+id+"/purchase?as=ann@example.com", "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &purchase))
	assert.Equal(t, "ann@example.com", purchase.Data.ReceiptEmail)

	assert.Equal(t, http.StatusNotFound, request(engine, http.MethodPost, "/books/999/purchase", "").Code)
}

func TestRejectRequiresReason(t *testing.T) {
	engine := gin.New()
	engine.POST("/books/:bookId/reject", NewDashboardHandler(dashboard.NewService(nil, nil)).Reject)

	assert.Equal(t, http.StatusBadRequest, request(engine, http.MethodPost, "/books/1/reject", `{}`).Code)
}

type checkerFunc func(ctx context.Context) error

func (f checkerFunc) HealthCheck(ctx context.Context) error { return f(ctx) }

func TestReadyReflectsRequiredChecks(t *testing.T) {
	down := checkerFunc(func(context.Context) error { return errors.New("down") })
	up := checkerFunc(func(context.Context) error { return nil })

	engine := gin.New()
	engine.GET("/ready-degraded", NewHealthHandler("v").Require("store", up).Optional("redis", down).Ready)
	engine.GET("/ready-down", NewHealthHandler("v").Require("store", down).Ready)

	w := request(engine, http.MethodGet, "/ready-degraded", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"degraded"`)

	w = request(engine, http.MethodGet, "/ready-down", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "not_ready")
}
