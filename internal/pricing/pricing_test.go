package pricing

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

var tiers = []Tier{{MinBundles: 10, PercentOff: 10}, {MinBundles: 20, PercentOff: 15}}

func TestQuote_WithVolumeDiscount(t *testing.T) {
	b := Quote(12, 5.00, tiers, 0)

	require.Equal(t, 12, b.Bundles)
	require.Equal(t, 60.00, b.Subtotal)
	require.Equal(t, 10.0, b.DiscountPercent)
	require.Equal(t, 6.00, b.DiscountAmount)
	require.Equal(t, 54.00, b.Total)
}

func TestQuote_BelowFirstTier(t *testing.T) {
	b := Quote(9, 5.00, tiers, 0)

	require.Equal(t, 0.0, b.DiscountPercent)
	require.Equal(t, 0.0, b.DiscountAmount)
	require.Equal(t, 45.00, b.Total)
}

func TestQuote_HighestApplicableTierWins(t *testing.T) {
	require.Equal(t, 10.0, Quote(10, 5.00, tiers, 0).DiscountPercent)
	require.Equal(t, 10.0, Quote(19, 5.00, tiers, 0).DiscountPercent)
	require.Equal(t, 15.0, Quote(20, 5.00, tiers, 0).DiscountPercent)
	require.Equal(t, 15.0, Quote(100, 5.00, tiers, 0).DiscountPercent)
}

func TestQuote_NoTiers(t *testing.T) {
	b := Quote(50, 5.00, nil, 0)

	require.Equal(t, 0.0, b.DiscountPercent)
	require.Equal(t, 250.00, b.Total)
}

func TestQuote_DeliveryFeeAddedAfterDiscount(t *testing.T) {
	b := Quote(12, 5.00, tiers, 2.50)

	require.Equal(t, 2.50, b.DeliveryFee)
	require.Equal(t, 56.50, b.Total)
}

func TestQuote_RoundsToTwoDecimals(t *testing.T) {
	b := Quote(3, 3.33, []Tier{{MinBundles: 2, PercentOff: 7.5}}, 0)

	// 9.99 - 0.74925 = 9.24075, rounded once at the end.
	require.Equal(t, 9.99, b.Subtotal)
	require.Equal(t, 0.75, b.DiscountAmount)
	require.Equal(t, 9.24, b.Total)
}

func TestQuote_TotalNeverExceedsUndiscountedPrice(t *testing.T) {
	for n := 1; n <= 30; n++ {
		b := Quote(n, 5.00, tiers, 0)
		require.LessOrEqual(t, b.Total, b.Subtotal, fmt.Sprintf("bundles=%d", n))
		require.Positive(t, b.Total, fmt.Sprintf("bundles=%d", n))
	}
}

func TestDiscountFor_PercentNeverDecreasesWithQuantity(t *testing.T) {
	prev := 0.0
	for n := 1; n <= 30; n++ {
		pct := DiscountFor(n, tiers)
		require.GreaterOrEqual(t, pct, prev, fmt.Sprintf("bundles=%d", n))
		prev = pct
	}
}

func TestDiscountFor_EmptyAndBoundaries(t *testing.T) {
	require.Equal(t, 0.0, DiscountFor(100, nil))
	require.Equal(t, 0.0, DiscountFor(9, tiers))
	require.Equal(t, 10.0, DiscountFor(10, tiers))
	require.Equal(t, 15.0, DiscountFor(25, tiers))
}

func TestSortTiers(t *testing.T) {
	ts := []Tier{{MinBundles: 20, PercentOff: 15}, {MinBundles: 5, PercentOff: 5}, {MinBundles: 10, PercentOff: 10}}
	SortTiers(ts)
	require.Equal(t, []Tier{{MinBundles: 5, PercentOff: 5}, {MinBundles: 10, PercentOff: 10}, {MinBundles: 20, PercentOff: 15}}, ts)
}

func TestSummary_IncludesDiscountLineOnlyWhenApplied(t *testing.T) {
	with := Quote(12, 5.00, tiers, 0).Summary("£")
	require.Contains(t, with, "12 bundles x £5.00 = £60.00")
	require.Contains(t, with, "Volume discount (10% off): -£6.00")
	require.Contains(t, with, "*TOTAL: £54.00*")

	without := Quote(2, 5.00, tiers, 0).Summary("£")
	require.NotContains(t, without, "Volume discount")
	require.Contains(t, without, "*TOTAL: £10.00*")
}

func TestTierInfo(t *testing.T) {
	require.Empty(t, TierInfo(nil))

	info := TierInfo(tiers)
	require.Contains(t, info, "10+ bundles: 10% off")
	require.Contains(t, info, "20+ bundles: 15% off")
}
