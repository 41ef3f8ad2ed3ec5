package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopassist/internal/errx"
	"shopassist/internal/model"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func newTestAssistant(intent IntentModel, vision VisionModel, store ProductStore, logger ChatLogger) *Assistant {
	return NewAssistant(
		NewIntentClassifier(intent, 6),
		NewVisualAnalyzer(vision),
		NewCatalogSearcher(store, nil, DemoCatalog, 8),
		NewResponseComposer(NewRanker(), NewVariantSynthesizer(), 6),
		logger,
	)
}

func TestAssistant_FAQAndChatNeverAttachProducts(t *testing.T) {
	store := &fakeStore{products: DemoCatalog}
	assistant := newTestAssistant(nil, nil, store, nil)

	for _, message := range []string{
		"Is there a warranty on your chairs?",
		"How much is delivery for a blue sofa?",
		"Hi, do you have sofas?",
		"thanks for the blue sofa tips",
	} {
		t.Run(message, func(t *testing.T) {
			resp, err := assistant.Chat(context.Background(), &model.ChatRequest{Message: message})
			require.NoError(t, err)
			assert.Contains(t, []model.Intent{model.IntentFAQ, model.IntentChat}, resp.Intent)
			assert.NotNil(t, resp.Products)
			assert.Empty(t, resp.Products)
			assert.NotEmpty(t, resp.Message)
		})
	}
	assert.Zero(t, store.calls)
}

func TestAssistant_FAQUsesCannedAnswerOnModelPath(t *testing.T) {
	intent := &fakeIntentModel{result: &model.IntentResult{
		Intent:       model.IntentFAQ,
		ResponseText: "Delivery is always free!",
		Source:       sourceLLM,
	}}
	assistant := newTestAssistant(intent, nil, nil, nil)

	resp, err := assistant.Chat(context.Background(), &model.ChatRequest{Message: "how long is delivery?"})
	require.NoError(t, err)
	assert.Equal(t, faqAnswers[0].answer, resp.Message)
}

func TestAssistant_StoreFailureDegradesGracefully(t *testing.T) {
	store := &fakeStore{err: errors.New("connection refused")}
	assistant := newTestAssistant(nil, nil, store, nil)

	resp, err := assistant.Chat(context.Background(), &model.ChatRequest{Message: "je cherche un canapé bleu"})

	require.NoError(t, err)
	assert.Equal(t, model.IntentProductSearch, resp.Intent)
	assert.Equal(t, "Here are our bleu canapés 👇", resp.Message)
	require.Len(t, resp.Products, 1)
	assert.Equal(t, "demo-sofa-velours-bleu", resp.Products[0].ID)
	assert.Equal(t, 25, resp.Products[0].DiscountPercent)
	assert.Len(t, resp.Products[0].Variants, 3)
	assert.Contains(t, resp.Products[0].MatchedReasons, ReasonColorMatch)
	assert.NotEmpty(t, resp.RequestID)
	assert.Nil(t, resp.PhotoAnalysis)
}

func TestAssistant_NoMatchMessage(t *testing.T) {
	assistant := newTestAssistant(nil, nil, &fakeStore{}, nil)

	resp, err := assistant.Chat(context.Background(), &model.ChatRequest{Message: "do you have a red leather bed?"})

	require.NoError(t, err)
	assert.Equal(t, model.IntentProductSearch, resp.Intent)
	assert.Empty(t, resp.Products)
	assert.Equal(t, noMatchAnswer, resp.Message)
}

func TestAssistant_LitInEnglishDoesNotSearchBeds(t *testing.T) {
	lamp := product("l1", "Lampe arc", "lampe", 129, 7, 0.6)
	lamp.Room = "salon"
	bed := product("b1", "Lit Nara", "lit", 599, 4, 0.9)
	bed.Room = "chambre"

	assistant := NewAssistant(
		NewIntentClassifier(nil, 6),
		NewVisualAnalyzer(nil),
		NewCatalogSearcher(nil, nil, []model.CatalogProduct{bed, lamp}, 8),
		NewResponseComposer(NewRanker(), NewVariantSynthesizer(), 6),
		nil,
	)

	resp, err := assistant.Chat(context.Background(), &model.ChatRequest{
		Message: "I'm looking for a lamp for my dimly lit living room",
	})

	require.NoError(t, err)
	assert.Equal(t, model.IntentProductSearch, resp.Intent)
	require.Len(t, resp.Products, 1)
	assert.Equal(t, "l1", resp.Products[0].ID)
}

func TestAssistant_CapsProductsAndDropsInvalid(t *testing.T) {
	var products []model.CatalogProduct
	products = append(products, model.CatalogProduct{ID: "broken", Price: 10, StockQty: 1, ConfidenceScore: 1})
	for i := 0; i < 7; i++ {
		products = append(products, product(fmt.Sprintf("p%d", i), "Sofa", "sofa", 300, 4, 0.9-float64(i)/10))
	}
	assistant := newTestAssistant(nil, nil, &fakeStore{products: products}, nil)

	resp, err := assistant.Chat(context.Background(), &model.ChatRequest{Message: "show me sofas"})

	require.NoError(t, err)
	require.Len(t, resp.Products, 6)
	assert.Equal(t, "p0", resp.Products[0].ID)
	assert.Equal(t, "p5", resp.Products[5].ID)
	for _, p := range resp.Products {
		assert.NotEmpty(t, p.Variants)
	}
}

func TestAssistant_EmptyMessage(t *testing.T) {
	assistant := newTestAssistant(nil, nil, nil, nil)

	for _, req := range []*model.ChatRequest{nil, {Message: ""}, {Message: "   \n"}} {
		resp, err := assistant.Chat(context.Background(), req)
		assert.Nil(t, resp)
		require.Error(t, err)
		assert.Equal(t, http.StatusInternalServerError, errx.StatusOf(err))
		assert.Equal(t, errx.ApologyMessage, errx.MessageOf(err))
	}
}

func TestAssistant_PhotoTurnsOpenMessageIntoProductSearch(t *testing.T) {
	vision := &fakeVisionModel{visual: &model.VisualContext{
		StyleDetected:  model.StrPtr("scandinavian"),
		DominantColors: []string{},
	}}
	assistant := newTestAssistant(nil, vision, nil, nil)

	resp, err := assistant.Chat(context.Background(), &model.ChatRequest{
		Message:      "what do you think?",
		PhotoContext: "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngHeader),
	})

	require.NoError(t, err)
	assert.Equal(t, 1, vision.calls)
	assert.Equal(t, "image/png", vision.lastMIME)
	assert.Equal(t, model.IntentProductSearch, resp.Intent)
	assert.Equal(t, photoAnswer, resp.Message)
	require.NotNil(t, resp.PhotoAnalysis)
	assert.Equal(t, []string{"demo-table-ronde-chene", "demo-chaise-scandinave-blanche"},
		[]string{resp.Products[0].ID, resp.Products[1].ID})
}

func TestAssistant_VisionFailureIsIgnored(t *testing.T) {
	vision := &fakeVisionModel{err: errors.New("quota exceeded")}
	assistant := newTestAssistant(nil, vision, nil, nil)

	resp, err := assistant.Chat(context.Background(), &model.ChatRequest{
		Message:      "bonjour",
		PhotoContext: base64.StdEncoding.EncodeToString(pngHeader),
	})

	require.NoError(t, err)
	assert.Equal(t, model.IntentChat, resp.Intent)
	assert.Nil(t, resp.PhotoAnalysis)
}

func TestAssistant_LogsChatAsynchronously(t *testing.T) {
	logger := newFakeChatLogger()
	assistant := newTestAssistant(nil, nil, nil, logger)

	resp, err := assistant.Chat(context.Background(), &model.ChatRequest{Message: "chaise blanche"})
	require.NoError(t, err)

	select {
	case entry := <-logger.entries:
		assert.Equal(t, resp.RequestID, entry.RequestID)
		assert.Equal(t, "chaise blanche", entry.Message)
		assert.Equal(t, model.IntentProductSearch, entry.Intent)
		assert.Equal(t, []string{"demo-chaise-scandinave-blanche"}, entry.ProductIDs)
		assert.Equal(t, "keywords+demo", entry.Source)
	case <-time.After(2 * time.Second):
		t.Fatal("chat was not logged")
	}
}
