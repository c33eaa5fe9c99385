package catalog_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maryaskin70/pharma-shop/internal/catalog"
	"github.com/maryaskin70/pharma-shop/internal/domain"
)

func setupTestDB(t *testing.T) *catalog.Repository {
	// Use in-memory database for tests
	repo, err := catalog.NewRepository(":memory:")
	if err != nil {
		t.Fatalf("Failed to create test repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	if err := repo.RunMigrations("./migrations"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return repo
}

func TestLoadProducts_ReturnsSeededCatalog(t *testing.T) {
	repo := setupTestDB(t)

	products, err := repo.LoadProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 5) // seed migration inserts 5 products

	// catalog order is stable
	assert.Equal(t, "p1", products[0].ID)
	assert.Equal(t, "p5", products[4].ID)
}

func TestLoadProducts_DecodesVariableProduct(t *testing.T) {
	repo := setupTestDB(t)

	products, err := repo.LoadProducts(context.Background())
	require.NoError(t, err)

	var sertraline *domain.Product
	for _, p := range products {
		if p.ID == "p4" {
			sertraline = p
		}
	}
	require.NotNil(t, sertraline)

	assert.Equal(t, domain.ProductTypeVariable, sertraline.Type)
	require.Len(t, sertraline.Attributes, 2)
	assert.Equal(t, "Dosage", sertraline.Attributes[0].Name)
	assert.True(t, sertraline.Attributes[0].UsedForVariation)
	assert.Equal(t, []string{"50mg", "100mg"}, sertraline.Attributes[0].Options)
	assert.Equal(t, "50mg", sertraline.DefaultAttributes["Dosage"])

	require.Len(t, sertraline.Variations, 4)
	first := sertraline.Variations[0]
	assert.Equal(t, "p4-v1", first.ID)
	assert.Equal(t, "p4", first.ProductID)
	assert.Equal(t, map[string]string{"Dosage": "50mg", "Pack size": "30"}, first.Attributes)
	assert.Equal(t, 9.99, first.Price)
	assert.Equal(t, 25, first.Stock)
	assert.True(t, first.InStock)
}

func TestLoadProducts_CancelledContext(t *testing.T) {
	repo := setupTestDB(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.LoadProducts(ctx)
	assert.Error(t, err)
}

func TestRunMigrations_IsIdempotent(t *testing.T) {
	repo := setupTestDB(t)

	assert.NoError(t, repo.RunMigrations("./migrations"))
}
