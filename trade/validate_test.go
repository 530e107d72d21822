package trade

import (
	"math"
	"testing"

	"github.com/rustyeddy/odyssey/strategy"
	"github.com/stretchr/testify/assert"
)

func validTrade() Trade {
	return Trade{
		Ticker:     "SPY",
		Strategy:   strategy.ShortPutSpread,
		Open:       NewDate(2024, 5, 1),
		Close:      NewDate(2024, 5, 20),
		Expiration: NewDate(2024, 5, 31),
		Strikes:    []float64{500, 495},
		Quantity:   2,
		EntryPrice: 1.1,
		ExitPrice:  0.3,
		MaxRisk:    780,
		Commission: FlatRate(0.65),
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Trade)
		errMsg string
	}{
		{"valid", func(*Trade) {}, ""},
		{"open_position", func(tr *Trade) { tr.Close = Date{} }, ""},
		{"no_strikes", func(tr *Trade) { tr.Strikes = nil }, ""},
		{"missing_ticker", func(tr *Trade) { tr.Ticker = "" }, "ticker is required"},
		{"unknown_strategy", func(tr *Trade) { tr.Strategy = strategy.Unknown }, "unknown strategy"},
		{"missing_open", func(tr *Trade) { tr.Open = Date{} }, "open date is required"},
		{"close_before_open", func(tr *Trade) { tr.Close = NewDate(2024, 4, 1) }, "before open"},
		{"zero_quantity", func(tr *Trade) { tr.Quantity = 0 }, "quantity must be positive"},
		{"nan_entry", func(tr *Trade) { tr.EntryPrice = math.NaN() }, "entry_price"},
		{"negative_exit", func(tr *Trade) { tr.ExitPrice = -1 }, "exit_price"},
		{"second_leg_on_plain", func(tr *Trade) { tr.Quantity2 = 1 }, "only allowed on ratio"},
		{"no_commission", func(tr *Trade) { tr.Commission = Commission{} }, "commission rate is required"},
		{"negative_commission", func(tr *Trade) { tr.Commission = OpenClose(0.5, -1) }, "commission must be"},
		{"negative_risk", func(tr *Trade) { tr.MaxRisk = -5 }, "max_risk"},
		{"strike_count", func(tr *Trade) { tr.Strikes = []float64{500} }, "takes 2 strikes"},
		{"bad_strike", func(tr *Trade) { tr.Strikes = []float64{500, 0} }, "strike must be"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tr := validTrade()
			tt.mutate(&tr)
			err := Validate(tr)
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidTrade)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestValidateRatio(t *testing.T) {
	t.Parallel()

	tr := validTrade()
	tr.Strategy = strategy.LongRatioSpread
	err := Validate(tr)
	assert.ErrorIs(t, err, ErrInvalidTrade)
	assert.Contains(t, err.Error(), "quantity_2 must be positive")

	tr.Quantity2 = 4
	tr.EntryPrice2 = 0.4
	tr.ExitPrice2 = 0
	assert.NoError(t, Validate(tr))
}

func TestValidateReportsAllProblems(t *testing.T) {
	t.Parallel()

	err := Validate(Trade{})
	assert.ErrorIs(t, err, ErrInvalidTrade)
	assert.ErrorIs(t, err, strategy.ErrUnknownStrategy)
	for _, want := range []string{"ticker", "open date", "quantity", "commission"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestDateText(t *testing.T) {
	t.Parallel()

	d, err := ParseDate("2024-02-29")
	assert.NoError(t, err)
	assert.Equal(t, "2024-02-29", d.String())

	z, err := ParseDate("")
	assert.NoError(t, err)
	assert.True(t, z.IsZero())
	b, _ := z.MarshalText()
	assert.Equal(t, "", string(b))

	_, err = ParseDate("02/29/2024")
	assert.Error(t, err)
}
