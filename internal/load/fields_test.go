package load

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/arxi-lab/salescope/internal/store"
)

func TestExtractID(t *testing.T) {
	tests := []struct {
		name   string
		field  any
		wantID store.ID
		wantOK bool
	}{
		{name: "pair", field: []any{float64(10), "Cola"}, wantID: 10, wantOK: true},
		{name: "single element list", field: []any{float64(7)}, wantID: 7, wantOK: true},
		{name: "missing", field: nil, wantOK: false},
		{name: "bare scalar", field: float64(10), wantOK: false},
		{name: "string scalar", field: "10", wantOK: false},
		{name: "empty list", field: []any{}, wantOK: false},
		{name: "object", field: map[string]any{"id": float64(10)}, wantOK: false},
		{name: "bool", field: false, wantOK: false},
		{name: "zero id is absent", field: []any{float64(0), "x"}, wantOK: false},
		{name: "non-numeric first element", field: []any{"ten", "Cola"}, wantOK: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			id, ok := ExtractID(tc.field)
			require.Equal(t, tc.wantOK, ok)
			require.Equal(t, tc.wantID, id)
		})
	}
}

func TestNumericOrDefault(t *testing.T) {
	def := decimal.NewFromFloat(9.9)

	tests := []struct {
		name  string
		value any
		want  decimal.Decimal
	}{
		{name: "float", value: float64(3.5), want: decimal.NewFromFloat(3.5)},
		{name: "numeric string", value: "3", want: decimal.NewFromInt(3)},
		{name: "negative clamps to zero", value: float64(-7), want: decimal.Zero},
		{name: "negative string clamps to zero", value: "-7", want: decimal.Zero},
		{name: "zero stays zero", value: float64(0), want: decimal.Zero},
		{name: "garbage string returns default", value: "abc", want: def},
		{name: "nil returns default", value: nil, want: def},
		{name: "list returns default", value: []any{1}, want: def},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := NumericOrDefault(tc.value, def)
			require.True(t, tc.want.Equal(got), "want %s, got %s", tc.want, got)
		})
	}
}

func TestNumericOrDefault_DefaultNotClamped(t *testing.T) {
	// The clamp applies to coerced values only; a caller-supplied default
	// passes through untouched.
	def := decimal.NewFromInt(-1)
	got := NumericOrDefault("junk", def)
	require.True(t, def.Equal(got))
}
