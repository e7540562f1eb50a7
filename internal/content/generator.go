// Package content implements the creative generator behind the campaign
// service: persuasive copy plus embeddable widget HTML/CSS for a campaign
// objective and product list. The LLM is treated as an unreliable
// collaborator: every failure path lands on a deterministic local template
// so generation never blocks campaign workflows.
package content

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"campaign-recommendation/internal/campaign"
)

const defaultBaseURL = "https://api.openai.com/v1"

// OpenAIGenerator produces variations through the OpenAI chat completions
// API. With no API key configured it serves fallback templates only.
type OpenAIGenerator struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewOpenAIGenerator(apiKey, model string, logger *slog.Logger) *OpenAIGenerator {
	if model == "" {
		model = "gpt-4o-mini"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &OpenAIGenerator{
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		logger: logger,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Generate builds one creative variation. LLM errors degrade to the local
// fallback template rather than propagating: a widget is always produced.
func (g *OpenAIGenerator) Generate(ctx context.Context, objective string, products []campaign.Product, style campaign.StyleParams) (*campaign.Variation, error) {
	widgetType := style.WidgetType
	if widgetType == "" {
		widgetType = "product_cards"
	}

	if g.apiKey == "" {
		return FallbackVariation(widgetType, objective, products), nil
	}

	text, err := g.complete(ctx, persuasionPrompt(objective, products, widgetType, style.AdditionalPrompt))
	if err != nil {
		g.logger.Warn("persuasion text generation failed, using fallback", "error", err)
		return FallbackVariation(widgetType, objective, products), nil
	}

	widgetCode, err := g.complete(ctx, widgetPrompt(objective, products, widgetType, style.AdditionalPrompt))
	if err != nil {
		g.logger.Warn("widget generation failed, using fallback markup", "error", err)
		fb := FallbackVariation(widgetType, objective, products)
		fb.Text = text
		return fb, nil
	}

	html, css := SplitWidgetCode(widgetCode)
	if html == "" || css == "" {
		g.logger.Warn("generated widget missing html or css, using fallback markup")
		fb := FallbackVariation(widgetType, objective, products)
		fb.Text = text
		return fb, nil
	}

	return &campaign.Variation{
		WidgetType: widgetType,
		HTML:       html,
		CSS:        css,
		Text:       strings.TrimSpace(text),
	}, nil
}

func (g *OpenAIGenerator) complete(ctx context.Context, prompt string) (string, error) {
	reqBody := chatRequest{
		Model: g.model,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
		Temperature: 0.7,
		MaxTokens:   2000,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("call completions api: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("completions api: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("completions api returned no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

func productSummary(products []campaign.Product) string {
	var sb strings.Builder
	for _, p := range products {
		fmt.Fprintf(&sb, "%s by %s - $%.2f", p.Name, p.Brand, p.Price)
		if p.Discount > 0 {
			fmt.Fprintf(&sb, " (%.0f%% off)", p.Discount)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func persuasionPrompt(objective string, products []campaign.Product, widgetType, extra string) string {
	if extra == "" {
		extra = "None"
	}
	return fmt.Sprintf(`CAMPAIGN OBJECTIVE: %s

PRODUCTS TO PROMOTE:
%s
WIDGET TYPE: %s

ADDITIONAL REQUIREMENTS: %s

Write compelling, conversion-focused persuasion text to accompany a %s widget promoting these products. Return only the text, no formatting or explanations.`,
		objective, productSummary(products), widgetType, extra, widgetType)
}

func widgetPrompt(objective string, products []campaign.Product, widgetType, extra string) string {
	if extra == "" {
		extra = "None"
	}
	return fmt.Sprintf(`CAMPAIGN OBJECTIVE: %s

PRODUCTS:
%s
ADDITIONAL REQUIREMENTS: %s

Produce a self-contained, embeddable %s widget as HTML with its CSS inside a single <style> block. Use only the product data above. Return only the widget code.`,
		objective, productSummary(products), extra, widgetType)
}
