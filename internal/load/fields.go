package load

import (
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/arxi-lab/salescope/internal/store"
)

// ExtractID pulls the record id out of a foreign-key field. Upstream systems
// emit references either as a bare scalar or as an [id, display_name] pair;
// only the pair form carries a usable id here. Any other shape (missing,
// scalar, empty list, object) is reported as absent rather than an error:
// a malformed reference must never abort an otherwise valid record.
//
// An id of zero is also absent. The export uses zero for "not set".
func ExtractID(field any) (store.ID, bool) {
	pair, ok := field.([]any)
	if !ok || len(pair) == 0 {
		return 0, false
	}
	id, ok := asID(pair[0])
	if !ok || id == 0 {
		return 0, false
	}
	return id, true
}

func asID(v any) (store.ID, bool) {
	switch n := v.(type) {
	case float64:
		return store.ID(n), true
	case int64:
		return n, true
	case int:
		return store.ID(n), true
	}
	return 0, false
}

// NumericOrDefault coerces a raw quantity to a non-negative decimal.
// Negative values are a data-entry error, not a signed adjustment, and are
// clamped to zero. Non-numeric input is logged and replaced by def. Never
// fails: quantity noise is absorbed, not escalated.
func NumericOrDefault(value any, def decimal.Decimal) decimal.Decimal {
	var d decimal.Decimal
	switch n := value.(type) {
	case float64:
		d = decimal.NewFromFloat(n)
	case float32:
		d = decimal.NewFromFloat(float64(n))
	case int:
		d = decimal.NewFromInt(int64(n))
	case int64:
		d = decimal.NewFromInt(n)
	case string:
		parsed, err := decimal.NewFromString(n)
		if err != nil {
			slog.Warn("Invalid numeric value encountered", "value", value)
			return def
		}
		d = parsed
	default:
		slog.Warn("Invalid numeric value encountered", "value", value)
		return def
	}
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
