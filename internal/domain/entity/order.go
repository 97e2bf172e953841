package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is read from the remote order service; this application never writes it.
type Order struct {
	ID            int64       `json:"Id"`
	BuyerID       string      `json:"BuyerId"`
	OrderDate     time.Time   `json:"OrderDate"`
	ShipToAddress Address     `json:"ShipToAddress"`
	OrderItems    []OrderItem `json:"OrderItems"`
}

type Address struct {
	Street  string `json:"Street"`
	City    string `json:"City"`
	State   string `json:"State"`
	Country string `json:"Country"`
	ZipCode string `json:"ZipCode"`
}

// CatalogItemOrdered is a snapshot of the catalog item at the time of ordering.
type CatalogItemOrdered struct {
	CatalogItemID int64  `json:"CatalogItemId"`
	ProductName   string `json:"ProductName"`
	PictureURI    string `json:"PictureUri"`
}

type OrderItem struct {
	ID          int64              `json:"Id"`
	ItemOrdered CatalogItemOrdered `json:"ItemOrdered"`
	UnitPrice   decimal.Decimal    `json:"UnitPrice"`
	Units       int                `json:"Units"`
}

func (i OrderItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Units)))
}

// Total sums UnitPrice * Units over every line.
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.OrderItems {
		total = total.Add(item.Subtotal())
	}
	return total
}
