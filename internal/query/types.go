package query

import "github.com/arxi-lab/salescope/internal/store"

// CategoryTopProduct is one row of the most-sold-by-category report.
type CategoryTopProduct struct {
	CategoryID    store.ID `json:"category_id"`
	CategoryName  string   `json:"category_name"`
	TopProduct    string   `json:"top_product"`
	TotalQuantity float64  `json:"total_quantity"`
	CategoryTotal float64  `json:"category_total"`
}

// CountryTopProduct is one row of the most-sold-by-country report.
type CountryTopProduct struct {
	Country       string   `json:"country"`
	ProductID     store.ID `json:"product_id"`
	ProductName   string   `json:"product_name"`
	TotalQuantity float64  `json:"total_quantity"`
	CountryCode   string   `json:"country_code"`
}

// TopClient is the contact that purchased the most distinct products.
type TopClient struct {
	ClientID       store.ID `json:"client_id"`
	ClientName     string   `json:"client_name"`
	UniqueProducts int      `json:"unique_products"`
}
