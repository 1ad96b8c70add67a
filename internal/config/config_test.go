package config

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/foodstream/veggiebot/internal/pricing"
)

func TestParseDiscountTiers(t *testing.T) {
	tiers, err := ParseDiscountTiers("10:10,20:15")
	require.NoError(t, err)
	require.Equal(t, []pricing.Tier{{MinBundles: 10, PercentOff: 10}, {MinBundles: 20, PercentOff: 15}}, tiers)
}

func TestParseDiscountTiers_SortsByThreshold(t *testing.T) {
	tiers, err := ParseDiscountTiers("20:15, 5:5, 10:10")
	require.NoError(t, err)
	require.Equal(t, []pricing.Tier{{MinBundles: 5, PercentOff: 5}, {MinBundles: 10, PercentOff: 10}, {MinBundles: 20, PercentOff: 15}}, tiers)
}

func TestParseDiscountTiers_Empty(t *testing.T) {
	tiers, err := ParseDiscountTiers("")
	require.NoError(t, err)
	require.Nil(t, tiers)
}

func TestParseDiscountTiers_Errors(t *testing.T) {
	for _, raw := range []string{"10", "ten:10", "10:lots", "10:10,10:15"} {
		_, err := ParseDiscountTiers(raw)
		require.Error(t, err, raw)
	}
}

func TestValidate(t *testing.T) {
	cfg := Config{UnitPrice: 5, MaxBundles: 100}
	require.NoError(t, cfg.Validate())

	cfg.UnitPrice = 0
	require.ErrorContains(t, cfg.Validate(), "PRICE_PER_BUNDLE")

	cfg.UnitPrice = 5
	cfg.MaxBundles = 0
	require.ErrorContains(t, cfg.Validate(), "MAX_BUNDLES")
}

func TestValidate_AdminNotificationsNeedCredentials(t *testing.T) {
	cfg := Config{UnitPrice: 5, MaxBundles: 100, AdminNotificationsEnabled: true}
	require.ErrorContains(t, cfg.Validate(), "TWILIO_ACCOUNT_SID")

	cfg.TwilioAccountSID = "AC123"
	cfg.TwilioAuthToken = "token"
	require.ErrorContains(t, cfg.Validate(), "ADMIN_PHONE")

	cfg.AdminPhone = "whatsapp:+447700900000"
	require.NoError(t, cfg.Validate())
}

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	require.Equal(t, ":8080", cfg.HTTPAddr)
	require.Equal(t, 5.00, cfg.UnitPrice)
	require.Equal(t, "£", cfg.CurrencySymbol)
	require.Equal(t, 100, cfg.MaxBundles)
	require.Equal(t, 10, cfg.RateLimitMessages)
	require.Len(t, cfg.DeliverySlots, 4)
	require.Equal(t, []pricing.Tier{{MinBundles: 10, PercentOff: 10}, {MinBundles: 20, PercentOff: 15}}, cfg.DiscountTiers)
}
