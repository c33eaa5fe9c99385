package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "modernc.org/sqlite"

	"github.com/maryaskin70/pharma-shop/internal/domain"
)

// Repository loads the catalog snapshot from sqlite. The database is the
// external data source of the storefront; nothing here writes to it outside
// of migrations.
type Repository struct {
	db *sql.DB
}

func NewRepository(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) RunMigrations(migrationsPath string) error {
	driver, err := sqlite.WithInstance(r.db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", migrationsPath),
		"sqlite",
		driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

// LoadProducts reads the full catalog in stable catalog order, variations
// included.
func (r *Repository) LoadProducts(ctx context.Context) ([]*domain.Product, error) {
	query := `
		SELECT id, name, category, brand, price, stock, in_stock, sku,
		       description, type, attributes, default_attributes, images
		FROM products
		ORDER BY position
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []*domain.Product
	byID := make(map[string]*domain.Product)
	for rows.Next() {
		p := &domain.Product{}
		var attrsJSON, defaultsJSON, imagesJSON string
		err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.Category,
			&p.Brand,
			&p.Price,
			&p.Stock,
			&p.InStock,
			&p.SKU,
			&p.Description,
			&p.Type,
			&attrsJSON,
			&defaultsJSON,
			&imagesJSON,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		if attrsJSON != "" {
			if err := json.Unmarshal([]byte(attrsJSON), &p.Attributes); err != nil {
				return nil, fmt.Errorf("failed to decode attributes for %s: %w", p.ID, err)
			}
		}
		if defaultsJSON != "" {
			if err := json.Unmarshal([]byte(defaultsJSON), &p.DefaultAttributes); err != nil {
				return nil, fmt.Errorf("failed to decode default attributes for %s: %w", p.ID, err)
			}
		}
		if imagesJSON != "" {
			if err := json.Unmarshal([]byte(imagesJSON), &p.Images); err != nil {
				return nil, fmt.Errorf("failed to decode images for %s: %w", p.ID, err)
			}
		}
		products = append(products, p)
		byID[p.ID] = p
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	if err := r.loadVariations(ctx, byID); err != nil {
		return nil, err
	}

	return products, nil
}

func (r *Repository) loadVariations(ctx context.Context, byID map[string]*domain.Product) error {
	query := `
		SELECT id, product_id, attributes, price, regular_price, sale_price,
		       stock, in_stock, sku, image
		FROM variations
		ORDER BY product_id, position
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to query variations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		v := domain.Variation{}
		var attrsJSON string
		err := rows.Scan(
			&v.ID,
			&v.ProductID,
			&attrsJSON,
			&v.Price,
			&v.RegularPrice,
			&v.SalePrice,
			&v.Stock,
			&v.InStock,
			&v.SKU,
			&v.Image,
		)
		if err != nil {
			return fmt.Errorf("failed to scan variation: %w", err)
		}
		if attrsJSON != "" {
			if err := json.Unmarshal([]byte(attrsJSON), &v.Attributes); err != nil {
				return fmt.Errorf("failed to decode attributes for variation %s: %w", v.ID, err)
			}
		}

		p, ok := byID[v.ProductID]
		if !ok {
			return fmt.Errorf("variation %s references unknown product %s", v.ID, v.ProductID)
		}
		p.Variations = append(p.Variations, v)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("row iteration error: %w", err)
	}

	return nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}
