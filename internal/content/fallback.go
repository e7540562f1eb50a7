package content

import (
	"fmt"
	"strings"

	"campaign-recommendation/internal/campaign"
)

// FallbackVariation renders the deterministic local widget used whenever the
// LLM path is unavailable. At most three products are shown.
func FallbackVariation(widgetType, objective string, products []campaign.Product) *campaign.Variation {
	return &campaign.Variation{
		WidgetType: widgetType,
		HTML:       fallbackHTML(products),
		CSS:        fallbackCSS,
		Text:       fallbackText(products),
	}
}

func fallbackHTML(products []campaign.Product) string {
	if len(products) > 3 {
		products = products[:3]
	}

	var cards strings.Builder
	for _, p := range products {
		cards.WriteString(`
    <div class="product-card">
      <h3>` + p.Name + `</h3>
      <p class="brand">` + p.Brand + `</p>
      <p class="price">` + fmt.Sprintf("$%.2f", p.Price) + `</p>`)
		if p.Discount > 0 {
			cards.WriteString(`
      <span class="discount">` + fmt.Sprintf("%.0f%% OFF", p.Discount) + `</span>`)
		}
		cards.WriteString(`
      <button class="add-to-cart">Add to Cart</button>
    </div>`)
	}

	return `<div class="product-cards-widget">
  <h2>Recommended Products</h2>
  <div class="products-grid">` + cards.String() + `
  </div>
</div>`
}

const fallbackCSS = `.product-cards-widget {
  padding: 1.5rem;
}
.products-grid {
  display: grid;
  grid-template-columns: repeat(auto-fit, minmax(250px, 1fr));
  gap: 1rem;
  margin-top: 1rem;
}
.product-card {
  border: 1px solid #ddd;
  border-radius: 8px;
  padding: 1rem;
  text-align: center;
}
.add-to-cart {
  background: #007bff;
  color: white;
  border: none;
  padding: 10px 20px;
  border-radius: 4px;
  cursor: pointer;
}`

func fallbackText(products []campaign.Product) string {
	category := "sports"
	if len(products) > 0 && products[0].Category != "" {
		category = products[0].Category
	}
	return fmt.Sprintf("Discover our premium %s collection. Quality and performance guaranteed.", category)
}
