package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopassist/internal/errx"
	"shopassist/internal/model"
	"shopassist/internal/service"
)

type fakeCatalogRepository struct {
	products     map[string]*model.CatalogProduct
	embedErrors  []string
	feedback     []string
	knownRequest string
}

func (f *fakeCatalogRepository) GetProductByID(_ context.Context, id string) (*model.CatalogProduct, error) {
	if id == "panic" {
		panic("corrupt row")
	}
	if id == "boom" {
		return nil, fmt.Errorf("connection reset")
	}
	return f.products[id], nil
}

func (f *fakeCatalogRepository) BatchUpdateEmbeddings(_ context.Context, items []model.EmbeddingItem) (int, []string) {
	return len(items) - len(f.embedErrors), f.embedErrors
}

func (f *fakeCatalogRepository) LogFeedback(_ context.Context, requestID, productID, action string) error {
	if requestID != f.knownRequest {
		return fmt.Errorf("chat request %s: %w", requestID, errx.ErrNotFound)
	}
	f.feedback = append(f.feedback, productID+":"+action)
	return nil
}

func setupRouter(repo *fakeCatalogRepository, dimensions int) *gin.Engine {
	variants := service.NewVariantSynthesizer()
	assistant := service.NewAssistant(
		service.NewIntentClassifier(nil, 6),
		service.NewVisualAnalyzer(nil),
		service.NewCatalogSearcher(nil, nil, service.DemoCatalog, 8),
		service.NewResponseComposer(service.NewRanker(), variants, 6),
		nil,
	)
	return newRouter(assistant, repo, dimensions)
}

func newRouter(assistant *service.Assistant, repo *fakeCatalogRepository, dimensions int) *gin.Engine {
	gin.SetMode(gin.TestMode)

	products := service.NewProductService(repo, service.NewVariantSynthesizer())

	router := gin.New()
	router.Use(gin.CustomRecovery(RecoverWithError))
	RegisterRoutes(router.Group("/api/v1"), Handlers{
		Chat:      NewChatHandler(assistant),
		Product:   NewProductHandler(products),
		Embedding: NewEmbeddingHandler(products, dimensions),
		Feedback:  NewFeedbackHandler(products),
	})
	return router
}

func perform(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestChat_ProductSearch(t *testing.T) {
	router := setupRouter(&fakeCatalogRepository{}, 3)

	w := perform(router, http.MethodPost, "/api/v1/chat", `{"message": "je cherche un canapé bleu en velours sous 500"}`)

	require.Equal(t, http.StatusOK, w.Code)
	var resp model.ChatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, model.IntentProductSearch, resp.Intent)
	assert.Equal(t, "Here are our bleu canapés in velours 👇", resp.Message)
	require.Len(t, resp.Products, 1)
	assert.NotEmpty(t, resp.Products[0].Variants)
	assert.NotEmpty(t, resp.RequestID)
	assert.Contains(t, w.Body.String(), `"photo_analysis":null`)
}

func TestChat_FAQHasEmptyProductList(t *testing.T) {
	router := setupRouter(&fakeCatalogRepository{}, 3)

	w := perform(router, http.MethodPost, "/api/v1/chat", `{"message": "Is there a warranty on your chairs?"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"products":[]`)
	assert.Contains(t, w.Body.String(), `"intent":"faq"`)
}

func TestChat_ErrorEnvelope(t *testing.T) {
	router := setupRouter(&fakeCatalogRepository{}, 3)

	for name, body := range map[string]string{
		"malformed json":  `{"message": `,
		"missing message": `{"conversation_history": []}`,
		"blank message":   `{"message": "   "}`,
	} {
		t.Run(name, func(t *testing.T) {
			w := perform(router, http.MethodPost, "/api/v1/chat", body)

			require.Equal(t, http.StatusInternalServerError, w.Code)
			var resp model.ChatErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, errx.ApologyMessage, resp.Message)
			assert.True(t, resp.Fallback)
			assert.NotEmpty(t, resp.Error)
			assert.NotNil(t, resp.Products)
			assert.Empty(t, resp.Products)
		})
	}
}

func TestRecovery_ChatRouteUsesEnvelope(t *testing.T) {
	// A nil assistant panics once the request has been validated.
	router := newRouter(nil, &fakeCatalogRepository{}, 3)

	w := perform(router, http.MethodPost, "/api/v1/chat", `{"message": "bonjour"}`)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	var resp model.ChatErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Fallback)
	assert.Equal(t, errx.ApologyMessage, resp.Message)
}

func TestRecovery_OtherRoutesUseErrorShape(t *testing.T) {
	router := setupRouter(&fakeCatalogRepository{}, 3)

	w := perform(router, http.MethodGet, "/api/v1/products/panic", "")

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, fmt.Sprintf(`{"error": %q}`, errx.SystemErrorMessage), w.Body.String())
	assert.NotContains(t, w.Body.String(), "fallback")
}

func TestGetProduct(t *testing.T) {
	sofa := service.DemoCatalog[0]
	router := setupRouter(&fakeCatalogRepository{products: map[string]*model.CatalogProduct{sofa.ID: &sofa}}, 3)

	w := perform(router, http.MethodGet, "/api/v1/products/"+sofa.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp model.ProductResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, sofa.ID, resp.ID)
	assert.Equal(t, 25, resp.DiscountPercent)
	assert.NotEmpty(t, resp.Variants)

	w = perform(router, http.MethodGet, "/api/v1/products/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error": "product not found"}`, w.Body.String())

	w = perform(router, http.MethodGet, "/api/v1/products/boom", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestEmbeddingBatchUpdate(t *testing.T) {
	body := func(vectors ...[]float32) string {
		req := model.EmbeddingBatchRequest{}
		for i, v := range vectors {
			req.Embeddings = append(req.Embeddings, model.EmbeddingItem{ProductID: fmt.Sprintf("p%d", i), Embedding: v})
		}
		raw, _ := json.Marshal(req)
		return string(raw)
	}

	router := setupRouter(&fakeCatalogRepository{}, 3)
	w := perform(router, http.MethodPost, "/api/v1/embeddings/batch", body([]float32{1, 2, 3}, []float32{4, 5, 6}))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success": 2, "failed": 0}`, w.Body.String())

	w = perform(router, http.MethodPost, "/api/v1/embeddings/batch", body([]float32{1, 2, 3}, []float32{1}))
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "index 1, expected 3")

	w = perform(router, http.MethodPost, "/api/v1/embeddings/batch", `{"embeddings": []}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	partial := setupRouter(&fakeCatalogRepository{embedErrors: []string{"product_id p1: not found"}}, 3)
	w = perform(partial, http.MethodPost, "/api/v1/embeddings/batch", body([]float32{1, 2, 3}, []float32{4, 5, 6}))
	require.Equal(t, http.StatusPartialContent, w.Code)
	assert.JSONEq(t, `{"success": 1, "failed": 1, "errors": ["product_id p1: not found"]}`, w.Body.String())
}

func TestFeedbackSubmit(t *testing.T) {
	repo := &fakeCatalogRepository{knownRequest: "req-1"}
	router := setupRouter(repo, 3)

	submit := func(requestID, action string) *httptest.ResponseRecorder {
		raw, _ := json.Marshal(model.FeedbackRequest{RequestID: requestID, ProductID: "p1", Action: action})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/feedback", bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	w := submit("req-1", "add_to_cart")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"p1:add_to_cart"}, repo.feedback)

	w = submit("req-1", "contact")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = submit("req-unknown", "click")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = perform(router, http.MethodPost, "/api/v1/feedback", `{"product_id": "p1"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
