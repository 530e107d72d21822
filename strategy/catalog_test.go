package strategy

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	t.Parallel()

	for _, k := range All() {
		got, err := Lookup(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}

	_, err := Lookup("Jade Lizard")
	assert.ErrorIs(t, err, ErrUnknownStrategy)

	_, err = Lookup("long call")
	assert.ErrorIs(t, err, ErrUnknownStrategy, "names are case sensitive")
}

func TestAllCoversCatalog(t *testing.T) {
	t.Parallel()

	all := All()
	assert.Len(t, all, 19)
	assert.False(t, Unknown.Valid())
	for _, k := range all {
		assert.True(t, k.Valid(), k.String())
	}
}

// The debit set must stay exactly the strategies tagged with debit risk.
func TestDirectionMatchesRisk(t *testing.T) {
	t.Parallel()

	debit := map[string]bool{
		"Long Call":        true,
		"Long Put":         true,
		"Long Call Spread": true,
		"Long Put Spread":  true,
		"Long Straddle":    true,
		"Long Strangle":    true,
		"Long Butterfly":   true,
		"Calendar Spread":  true,
	}

	for _, k := range All() {
		s := k.Spec()
		if s.Ratio {
			assert.Equal(t, RiskCustom, s.Risk, s.Name)
			continue
		}
		assert.Equal(t, s.Risk == RiskDebit, s.Direction == Debit, s.Name)
		assert.Equal(t, debit[s.Name], s.Direction == Debit, s.Name)
	}
}

func TestRatioKinds(t *testing.T) {
	t.Parallel()

	assert.True(t, LongRatioSpread.IsRatio())
	assert.True(t, ShortRatioSpread.IsRatio())
	assert.False(t, LongCall.IsRatio())

	assert.Equal(t, Debit, LongRatioSpread.Direction())
	assert.Equal(t, Credit, ShortRatioSpread.Direction())
	assert.Equal(t, Credit, LongRatioSpread.Direction().Mirror())
}

func TestLegs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind Kind
		want int
	}{
		{LongCall, 1},
		{ShortPutSpread, 2},
		{LongButterfly, 3},
		{ShortIronCondor, 4},
		{ShortIronButterfly, 3},
		{Unknown, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.kind.Legs(), tt.kind.String())
	}
	assert.Equal(t, 2, CalendarSpread.Spec().Expirations)
}

func TestKindJSON(t *testing.T) {
	t.Parallel()

	b, err := json.Marshal(ShortIronCondor)
	require.NoError(t, err)
	assert.Equal(t, `"Short Iron Condor"`, string(b))

	var k Kind
	require.NoError(t, json.Unmarshal([]byte(`"Long Ratio Spread"`), &k))
	assert.Equal(t, LongRatioSpread, k)

	err = json.Unmarshal([]byte(`"Covered Call"`), &k)
	assert.ErrorIs(t, err, ErrUnknownStrategy)

	_, err = json.Marshal(Unknown)
	assert.Error(t, err)
}
