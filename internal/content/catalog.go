package content

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"

	"campaign-recommendation/internal/campaign"
)

// FileCatalog loads the product list from a JSON file on every read, the
// same degrade-to-empty policy as the profile catalog: a broken file means
// an empty catalog, never a failed request.
type FileCatalog struct {
	path   string
	logger *slog.Logger
}

func NewFileCatalog(path string, logger *slog.Logger) *FileCatalog {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileCatalog{path: path, logger: logger}
}

type productFile struct {
	Products []campaign.Product `json:"products"`
}

// Products implements campaign.ProductCatalog.
func (c *FileCatalog) Products(_ context.Context) ([]campaign.Product, error) {
	raw, err := os.ReadFile(c.path)
	if err != nil {
		c.logger.Error("failed to read product catalog", "path", c.path, "error", err)
		return nil, nil
	}
	var f productFile
	if err := json.Unmarshal(raw, &f); err != nil {
		c.logger.Error("failed to parse product catalog", "path", c.path, "error", err)
		return nil, nil
	}
	return f.Products, nil
}
