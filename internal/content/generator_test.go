package content

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campaign-recommendation/internal/campaign"
)

var testProducts = []campaign.Product{
	{ID: "p1", Name: "Trail Runner", Brand: "Acme", Category: "footwear", Price: 120, Discount: 20, Stock: 12},
	{ID: "p2", Name: "Court Racket", Brand: "Volley", Category: "tennis", Price: 89, Stock: 4},
}

// completionsServer fakes the chat completions endpoint, answering each call
// with the next canned reply.
func completionsServer(t *testing.T, replies ...string) *httptest.Server {
	t.Helper()
	call := 0
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotEmpty(t, req.Messages)

		require.Less(t, call, len(replies), "more completions calls than canned replies")
		reply := replies[call]
		call++

		resp := chatResponse{}
		resp.Choices = append(resp.Choices, struct {
			Message      chatMessage `json:"message"`
			FinishReason string      `json:"finish_reason"`
		}{Message: chatMessage{Role: "assistant", Content: reply}, FinishReason: "stop"})
		json.NewEncoder(w).Encode(resp)
	}))
}

func testGenerator(apiKey, baseURL string) *OpenAIGenerator {
	g := NewOpenAIGenerator(apiKey, "", nil)
	if baseURL != "" {
		g.baseURL = baseURL
	}
	return g
}

func TestGenerate_NoAPIKeyUsesFallback(t *testing.T) {
	g := testGenerator("", "")

	v, err := g.Generate(context.Background(), "Boost Q3 sales", testProducts, campaign.StyleParams{})
	require.NoError(t, err)
	assert.Equal(t, "product_cards", v.WidgetType)
	assert.Contains(t, v.HTML, "Trail Runner")
	assert.Contains(t, v.CSS, ".product-cards-widget")
	assert.Contains(t, v.Text, "footwear")
	assert.True(t, v.Complete())
}

func TestGenerate_FullLLMPath(t *testing.T) {
	srv := completionsServer(t,
		"Act now and save big on trail gear.",
		"<div class=\"promo\">Trail Runner</div><style>.promo{color:red}</style>",
	)
	defer srv.Close()
	g := testGenerator("test-key", srv.URL)

	v, err := g.Generate(context.Background(), "Boost Q3 sales", testProducts, campaign.StyleParams{WidgetType: "banner"})
	require.NoError(t, err)
	assert.Equal(t, "banner", v.WidgetType)
	assert.Equal(t, "<div class=\"promo\">Trail Runner</div>", v.HTML)
	assert.Equal(t, ".promo{color:red}", v.CSS)
	assert.Equal(t, "Act now and save big on trail gear.", v.Text)
}

func TestGenerate_WidgetWithoutStyleFallsBack(t *testing.T) {
	srv := completionsServer(t,
		"Persuasion copy.",
		"<div>markup with no style block</div>",
	)
	defer srv.Close()
	g := testGenerator("test-key", srv.URL)

	v, err := g.Generate(context.Background(), "Boost Q3 sales", testProducts, campaign.StyleParams{})
	require.NoError(t, err)
	// Generated text is kept, markup falls back to the local template.
	assert.Equal(t, "Persuasion copy.", v.Text)
	assert.Contains(t, v.HTML, "product-cards-widget")
	assert.Equal(t, fallbackCSS, v.CSS)
}

func TestGenerate_APIErrorFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":{"message":"rate limited","type":"rate_limit_error"}}`))
	}))
	defer srv.Close()
	g := testGenerator("test-key", srv.URL)

	v, err := g.Generate(context.Background(), "Boost Q3 sales", testProducts, campaign.StyleParams{})
	require.NoError(t, err)
	assert.True(t, v.Complete())
	assert.Contains(t, v.HTML, "product-cards-widget")
}

func TestGenerate_UnreachableServerFallsBack(t *testing.T) {
	g := testGenerator("test-key", "http://127.0.0.1:1")

	v, err := g.Generate(context.Background(), "Boost Q3 sales", testProducts, campaign.StyleParams{})
	require.NoError(t, err)
	assert.True(t, v.Complete())
}

func TestFallbackVariation(t *testing.T) {
	v := FallbackVariation("product_cards", "objective", testProducts)
	assert.Contains(t, v.HTML, "Trail Runner")
	assert.Contains(t, v.HTML, "20% OFF")
	assert.Contains(t, v.HTML, "Court Racket")
	assert.Equal(t, 1, strings.Count(v.HTML, "discount"), "only discounted products get a badge")
	assert.Equal(t, "Discover our premium footwear collection. Quality and performance guaranteed.", v.Text)
}

func TestFallbackVariation_CapsAtThreeProducts(t *testing.T) {
	many := make([]campaign.Product, 5)
	for i := range many {
		many[i] = campaign.Product{Name: "Product " + string(rune('A'+i)), Brand: "B", Price: 10}
	}
	v := FallbackVariation("product_cards", "objective", many)
	assert.Equal(t, 3, strings.Count(v.HTML, "product-card\""))
	assert.NotContains(t, v.HTML, "Product D")
}

func TestFallbackVariation_NoProducts(t *testing.T) {
	v := FallbackVariation("product_cards", "objective", nil)
	assert.True(t, v.Complete())
	assert.Contains(t, v.Text, "sports")
}
