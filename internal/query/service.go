// Package query derives the ranked analytical views from a completed
// aggregation store. Projections are pure reads: given the same store they
// always produce the same result, which is what makes the HTTP layer's
// response caching safe.
package query

import (
	"errors"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/arxi-lab/salescope/internal/store"
)

// ErrNoClientData signals an empty client→products aggregate. It is a
// "no data" answer, not a failure; the HTTP layer maps it to 404.
var ErrNoClientData = errors.New("no client data available")

const (
	unknownCategoryName = "Unknown Category"
	unknownProductName  = "Unknown Product"

	// The country and client reports use a lowercase fallback. Historical
	// API shape, kept as-is for existing consumers.
	unknownName = "unknown"

	// unresolvedCountryCode stands in when no code was ever registered for
	// a country name.
	unresolvedCountryCode = "XX"
)

// TopProductsByCategory returns, for every category with at least one
// aggregated product, the product with the highest accumulated quantity.
// Ties keep the product aggregated first. Rows are sorted by category total,
// descending; equal totals keep aggregation order.
func TopProductsByCategory(st *store.Store) []CategoryTopProduct {
	results := make([]CategoryTopProduct, 0)
	for _, catID := range st.AggregatedCategories() {
		products, ok := st.CategoryProducts(catID)
		if !ok || products.Len() == 0 {
			continue
		}
		topID, qty, _ := products.Max()

		categoryName := unknownCategoryName
		if cat, found := st.Category(catID); found && cat.Name != "" {
			categoryName = cat.Name
		}
		productName := unknownProductName
		if p, found := st.Product(topID); found && p.Name != "" {
			productName = p.Name
		}

		results = append(results, CategoryTopProduct{
			CategoryID:    catID,
			CategoryName:  categoryName,
			TopProduct:    productName,
			TotalQuantity: round2(qty),
			CategoryTotal: round2(st.CategoryTotal(catID)),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].CategoryTotal > results[j].CategoryTotal
	})
	return results
}

// TopProductsByCountry returns the best-selling product per country. Rows
// come out in first-aggregated order; callers must not assume any ordering.
func TopProductsByCountry(st *store.Store) []CountryTopProduct {
	results := make([]CountryTopProduct, 0)
	for _, country := range st.AggregatedCountries() {
		products, ok := st.CountryProducts(country)
		if !ok || products.Len() == 0 {
			continue
		}
		topID, qty, _ := products.Max()

		productName := unknownName
		if p, found := st.Product(topID); found && p.Name != "" {
			productName = p.Name
		}
		code, found := st.CountryCode(country)
		if !found {
			code = unresolvedCountryCode
		}

		results = append(results, CountryTopProduct{
			Country:       country,
			ProductID:     topID,
			ProductName:   productName,
			TotalQuantity: round2(qty),
			CountryCode:   code,
		})
	}
	return results
}

// TopClientByProducts returns the contact with the largest distinct-product
// set. Ties keep the client that purchased first. Returns ErrNoClientData
// when no sale line ever carried a customer reference.
func TopClientByProducts(st *store.Store) (TopClient, error) {
	if !st.HasClientData() {
		return TopClient{}, ErrNoClientData
	}

	var (
		topID    store.ID
		topCount int
	)
	for i, clientID := range st.Clients() {
		count := st.ClientProductCount(clientID)
		if i == 0 || count > topCount {
			topID, topCount = clientID, count
		}
	}

	clientName := unknownName
	if c, found := st.Contact(topID); found && c.Name != "" {
		clientName = c.Name
	}

	return TopClient{
		ClientID:       topID,
		ClientName:     clientName,
		UniqueProducts: topCount,
	}, nil
}

// round2 renders a quantity for the API with half-to-even rounding, the
// same convention the exports' upstream system uses.
func round2(d decimal.Decimal) float64 {
	f, _ := d.RoundBank(2).Float64()
	return f
}
