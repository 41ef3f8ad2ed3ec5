package service

import (
	"context"
	"sync"

	"shopassist/internal/model"
)

type fakeIntentModel struct {
	result      *model.IntentResult
	err         error
	calls       int
	lastHistory []model.HistoryMessage
}

func (f *fakeIntentModel) ClassifyIntent(_ context.Context, _ string, history []model.HistoryMessage) (*model.IntentResult, error) {
	f.calls++
	f.lastHistory = history
	if f.err != nil {
		return nil, f.err
	}
	copied := *f.result
	return &copied, nil
}

type fakeVisionModel struct {
	visual   *model.VisualContext
	err      error
	calls    int
	lastMIME string
}

func (f *fakeVisionModel) AnalyzeImage(_ context.Context, _ []byte, mimeType string) (*model.VisualContext, error) {
	f.calls++
	f.lastMIME = mimeType
	return f.visual, f.err
}

type fakeStore struct {
	products  []model.CatalogProduct
	err       error
	calls     int
	lastQuery *model.CatalogQuery
}

func (f *fakeStore) SearchProducts(_ context.Context, query *model.CatalogQuery) ([]model.CatalogProduct, error) {
	f.calls++
	f.lastQuery = query
	return f.products, f.err
}

type fakeCache struct {
	entries map[string][]model.CatalogProduct
	getErr  error
	sets    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string][]model.CatalogProduct{}}
}

func cacheKey(q *model.CatalogQuery) string {
	raw, _ := q.Attributes.Value()
	return string(raw.([]byte))
}

func (f *fakeCache) Get(_ context.Context, q *model.CatalogQuery) ([]model.CatalogProduct, bool, error) {
	if f.getErr != nil {
		return nil, false, f.getErr
	}
	products, ok := f.entries[cacheKey(q)]
	return products, ok, nil
}

func (f *fakeCache) Set(_ context.Context, q *model.CatalogQuery, products []model.CatalogProduct) error {
	f.sets++
	f.entries[cacheKey(q)] = products
	return nil
}

type fakeChatLogger struct {
	mu      sync.Mutex
	entries chan *model.ChatLog
}

func newFakeChatLogger() *fakeChatLogger {
	return &fakeChatLogger{entries: make(chan *model.ChatLog, 8)}
}

func (f *fakeChatLogger) LogChat(_ context.Context, entry *model.ChatLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries <- entry
	return nil
}

func product(id, title, category string, price float64, stock int, confidence float64) model.CatalogProduct {
	return model.CatalogProduct{
		ID:              id,
		Title:           title,
		Category:        category,
		Price:           price,
		StockQty:        stock,
		ConfidenceScore: confidence,
	}
}
