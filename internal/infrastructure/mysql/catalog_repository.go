package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rpamplona/e-shop-website-with-ilb-ase/internal/domain/entity"
	domainErrors "github.com/rpamplona/e-shop-website-with-ilb-ase/internal/domain/errors"
)

type CatalogRepository struct {
	db *sql.DB
}

func NewCatalogRepository(db *sql.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) CountBrands(ctx context.Context) (int, error) {
	return r.count(ctx, "catalog_brands")
}

func (r *CatalogRepository) CountTypes(ctx context.Context) (int, error) {
	return r.count(ctx, "catalog_types")
}

func (r *CatalogRepository) CountItems(ctx context.Context) (int, error) {
	return r.count(ctx, "catalog_items")
}

// count only ever receives one of the fixed table names above.
func (r *CatalogRepository) count(ctx context.Context, table string) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: count %s: %w", domainErrors.ErrDatabaseError, table, err)
	}
	return n, nil
}

func (r *CatalogRepository) CreateBrands(ctx context.Context, brands []*entity.CatalogBrand) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		for _, b := range brands {
			res, err := tx.ExecContext(ctx, "INSERT INTO catalog_brands (brand) VALUES (?)", b.Brand)
			if err != nil {
				return fmt.Errorf("insert brand %q: %w", b.Brand, err)
			}
			if b.ID, err = res.LastInsertId(); err != nil {
				return fmt.Errorf("brand id: %w", err)
			}
		}
		return nil
	})
}

func (r *CatalogRepository) CreateTypes(ctx context.Context, types []*entity.CatalogType) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		for _, ct := range types {
			res, err := tx.ExecContext(ctx, "INSERT INTO catalog_types (type) VALUES (?)", ct.Type)
			if err != nil {
				return fmt.Errorf("insert type %q: %w", ct.Type, err)
			}
			if ct.ID, err = res.LastInsertId(); err != nil {
				return fmt.Errorf("type id: %w", err)
			}
		}
		return nil
	})
}

func (r *CatalogRepository) CreateItems(ctx context.Context, items []*entity.CatalogItem) error {
	query := `
		INSERT INTO catalog_items (
			name, description, price, picture_uri, catalog_type_id, catalog_brand_id
		) VALUES (?, ?, ?, ?, ?, ?)
	`
	return r.inTx(ctx, func(tx *sql.Tx) error {
		for _, it := range items {
			res, err := tx.ExecContext(ctx, query,
				it.Name,
				it.Description,
				it.Price,
				it.PictureURI,
				it.CatalogTypeID,
				it.CatalogBrandID,
			)
			if err != nil {
				return fmt.Errorf("insert item %q: %w", it.Name, err)
			}
			if it.ID, err = res.LastInsertId(); err != nil {
				return fmt.Errorf("item id: %w", err)
			}
		}
		return nil
	})
}

// inTx commits when fn succeeds and rolls back otherwise.
func (r *CatalogRepository) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin transaction: %w", domainErrors.ErrDatabaseError, err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w: %w (rollback failed: %v)", domainErrors.ErrDatabaseError, err, rbErr)
		}
		return fmt.Errorf("%w: %w", domainErrors.ErrDatabaseError, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %w", domainErrors.ErrDatabaseError, err)
	}
	return nil
}

func (r *CatalogRepository) FindAllBrands(ctx context.Context) ([]*entity.CatalogBrand, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, brand FROM catalog_brands ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("%w: query brands: %w", domainErrors.ErrDatabaseError, err)
	}
	defer rows.Close()

	brands := []*entity.CatalogBrand{}
	for rows.Next() {
		var b entity.CatalogBrand
		if err := rows.Scan(&b.ID, &b.Brand); err != nil {
			return nil, fmt.Errorf("%w: scan brand: %w", domainErrors.ErrDatabaseError, err)
		}
		brands = append(brands, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate brands: %w", domainErrors.ErrDatabaseError, err)
	}
	return brands, nil
}

func (r *CatalogRepository) FindAllTypes(ctx context.Context) ([]*entity.CatalogType, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, type FROM catalog_types ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("%w: query types: %w", domainErrors.ErrDatabaseError, err)
	}
	defer rows.Close()

	types := []*entity.CatalogType{}
	for rows.Next() {
		var ct entity.CatalogType
		if err := rows.Scan(&ct.ID, &ct.Type); err != nil {
			return nil, fmt.Errorf("%w: scan type: %w", domainErrors.ErrDatabaseError, err)
		}
		types = append(types, &ct)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate types: %w", domainErrors.ErrDatabaseError, err)
	}
	return types, nil
}

const selectItems = `
	SELECT id, name, description, price, picture_uri, catalog_type_id, catalog_brand_id
	FROM catalog_items
`

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(s scanner) (*entity.CatalogItem, error) {
	var it entity.CatalogItem
	err := s.Scan(
		&it.ID,
		&it.Name,
		&it.Description,
		&it.Price,
		&it.PictureURI,
		&it.CatalogTypeID,
		&it.CatalogBrandID,
	)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *CatalogRepository) FindAllItems(ctx context.Context) ([]*entity.CatalogItem, error) {
	rows, err := r.db.QueryContext(ctx, selectItems+" ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("%w: query items: %w", domainErrors.ErrDatabaseError, err)
	}
	defer rows.Close()

	items := []*entity.CatalogItem{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan item: %w", domainErrors.ErrDatabaseError, err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate items: %w", domainErrors.ErrDatabaseError, err)
	}
	return items, nil
}

func (r *CatalogRepository) FindItemByID(ctx context.Context, id int64) (*entity.CatalogItem, error) {
	it, err := scanItem(r.db.QueryRowContext(ctx, selectItems+" WHERE id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domainErrors.ErrItemNotFound
		}
		return nil, fmt.Errorf("%w: find item %d: %w", domainErrors.ErrDatabaseError, id, err)
	}
	return it, nil
}
