package entity

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
)

type CatalogBrand struct {
	ID    int64  `json:"id"`
	Brand string `json:"brand"`
}

type CatalogType struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
}

// CatalogItem is a product row. CatalogTypeID and CatalogBrandID are foreign
// keys into catalog_types and catalog_brands.
type CatalogItem struct {
	ID             int64           `json:"id"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Price          decimal.Decimal `json:"price"`
	PictureURI     string          `json:"picture_uri"`
	CatalogTypeID  int64           `json:"catalog_type_id"`
	CatalogBrandID int64           `json:"catalog_brand_id"`
}

func NewCatalogBrand(name string) (*CatalogBrand, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errors.New("brand cannot be empty")
	}
	return &CatalogBrand{Brand: name}, nil
}

func NewCatalogType(name string) (*CatalogType, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errors.New("type cannot be empty")
	}
	return &CatalogType{Type: name}, nil
}

// NewCatalogItem validates the fields and returns an item without an ID.
func NewCatalogItem(name, description string, price decimal.Decimal, pictureURI string, typeID, brandID int64) (*CatalogItem, error) {
	var errs []string

	if strings.TrimSpace(name) == "" {
		errs = append(errs, "name is required")
	} else if len(name) > 50 {
		errs = append(errs, "name must be 50 characters or less")
	}
	if price.IsNegative() {
		errs = append(errs, "price must be 0 or greater")
	}
	if pictureURI != "" {
		if _, err := url.ParseRequestURI(pictureURI); err != nil {
			errs = append(errs, "picture_uri must be a valid URI")
		}
	}
	if typeID <= 0 {
		errs = append(errs, "catalog_type_id must be positive")
	}
	if brandID <= 0 {
		errs = append(errs, "catalog_brand_id must be positive")
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("%s", strings.Join(errs, ", "))
	}

	return &CatalogItem{
		Name:           name,
		Description:    description,
		Price:          price,
		PictureURI:     pictureURI,
		CatalogTypeID:  typeID,
		CatalogBrandID: brandID,
	}, nil
}
