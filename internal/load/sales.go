package load

import (
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/arxi-lab/salescope/internal/store"
	"github.com/arxi-lab/salescope/internal/stream"
)

// salesPeriodPrefix is the fixed reporting period. Sale lines created
// outside it are ignored entirely.
const salesPeriodPrefix = "2024"

// unknownCountry buckets sales whose customer country cannot be resolved.
const unknownCountry = "Unknown"

// salesLoader is the join stage. It must run last: it resolves products to
// categories and customers to countries through the indexes the earlier
// stages populate. Running it first would silently degrade every join.
type salesLoader struct{}

func (salesLoader) stage() Stage     { return StageSales }
func (salesLoader) filename() string { return "sale_order_lines.json" }

func (salesLoader) load(st *store.Store, path string) error {
	processed := 0
	if err := stream.EachRecord(path, func(rec stream.Record) error {
		if processSale(rec, st) {
			processed++
		}
		return nil
	}); err != nil {
		return err
	}
	slog.Info("Processed sales", "count", processed)
	return nil
}

// processSale folds one sale line into the aggregates. It reports whether
// the line passed the period filter and resolved to a product.
func processSale(rec stream.Record, st *store.Store) bool {
	created, _ := rec["create_date"].(string)
	if !strings.HasPrefix(created, salesPeriodPrefix) {
		return false
	}

	productID, ok := ExtractID(rec["product_id"])
	if !ok {
		// No product, nothing to aggregate against.
		return false
	}
	customerID, hasCustomer := ExtractID(rec["order_partner_id"])

	qty := decimal.Zero
	if raw, present := rec["product_uom_qty"]; present {
		qty = NumericOrDefault(raw, decimal.Zero)
	}

	country := unknownCountry
	if ref, resolved := st.ContactCountry(customerID); resolved {
		country = ref.Name
	}

	if ref, resolved := st.ProductCategory(productID); resolved && ref.ID != 0 {
		st.AddCategorySale(ref.ID, productID, qty)
	}

	// Country totals update even when the category never resolves.
	st.AddCountrySale(country, productID, qty)

	if hasCustomer {
		st.AddClientProduct(customerID, productID)
	}

	return true
}
