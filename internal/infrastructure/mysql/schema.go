package mysql

import (
	"context"
	"database/sql"
	"fmt"
)

// schema is applied in order; items reference brands and types.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS catalog_brands (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		brand VARCHAR(100) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS catalog_types (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		type VARCHAR(100) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS catalog_items (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(50) NOT NULL,
		description TEXT NOT NULL,
		price DECIMAL(18,2) NOT NULL,
		picture_uri VARCHAR(2048) NOT NULL,
		catalog_type_id BIGINT NOT NULL,
		catalog_brand_id BIGINT NOT NULL,
		CONSTRAINT fk_catalog_items_type FOREIGN KEY (catalog_type_id) REFERENCES catalog_types (id),
		CONSTRAINT fk_catalog_items_brand FOREIGN KEY (catalog_brand_id) REFERENCES catalog_brands (id),
		CONSTRAINT chk_catalog_items_price CHECK (price >= 0)
	)`,
}

// EnsureSchema creates the catalog tables that do not exist yet.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply catalog schema: %w", err)
		}
	}
	return nil
}
