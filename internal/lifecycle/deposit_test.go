package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDepositAmount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		finalPrice    float64
		wantDeposit   string
		wantRemaining string
	}{
		{name: "floor_wins", finalPrice: 500, wantDeposit: "100.00", wantRemaining: "400.00"},
		{name: "ten_percent_wins", finalPrice: 2000, wantDeposit: "200.00", wantRemaining: "1800.00"},
		{name: "break_even", finalPrice: 1000, wantDeposit: "100.00", wantRemaining: "900.00"},
		{name: "fractional", finalPrice: 1234.56, wantDeposit: "123.46", wantRemaining: "1111.10"},
		{name: "price_below_floor", finalPrice: 60, wantDeposit: "100.00", wantRemaining: "0.00"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tc.wantDeposit, FormatAmount(DepositAmount(tc.finalPrice)))
			require.Equal(t, tc.wantRemaining, FormatAmount(RemainingAmount(tc.finalPrice)))
		})
	}
}

func TestDepositAmount_NotRoundedWhenStored(t *testing.T) {
	t.Parallel()

	d := DepositAmount(1234.56)
	require.Equal(t, "123.456", d.String())
}
