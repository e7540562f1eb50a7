package content

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"products": [
			{"id": "p1", "name": "Trail Runner", "brand": "Acme", "category": "footwear", "price": 120, "discount": 20, "stock": 12}
		]
	}`), 0o600))

	c := NewFileCatalog(path, nil)
	products, err := c.Products(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Trail Runner", products[0].Name)
	assert.InDelta(t, 96.0, products[0].DiscountedPrice(), 0.001)
}

func TestFileCatalog_MissingFileDegradesToEmpty(t *testing.T) {
	c := NewFileCatalog(filepath.Join(t.TempDir(), "absent.json"), nil)
	products, err := c.Products(context.Background())
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestFileCatalog_CorruptFileDegradesToEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o600))

	c := NewFileCatalog(path, nil)
	products, err := c.Products(context.Background())
	require.NoError(t, err)
	assert.Empty(t, products)
}
