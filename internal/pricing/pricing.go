package pricing

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Tier grants PercentOff to orders of at least MinBundles bundles.
type Tier struct {
	MinBundles int
	PercentOff float64
}

// Breakdown is the priced view of an order quantity. All amounts are rounded
// to two decimals once, after the full calculation.
type Breakdown struct {
	Bundles         int
	UnitPrice       float64
	Subtotal        float64
	DiscountPercent float64
	DiscountAmount  float64
	DeliveryFee     float64
	Total           float64
}

// SortTiers orders tiers by ascending threshold. Quote assumes this order.
func SortTiers(tiers []Tier) {
	sort.Slice(tiers, func(i, j int) bool { return tiers[i].MinBundles < tiers[j].MinBundles })
}

// DiscountFor returns the percent off for the given quantity: the tier with
// the largest threshold not exceeding bundles. No tiers means no discount.
func DiscountFor(bundles int, tiers []Tier) float64 {
	pct := 0.0
	for _, t := range tiers {
		if bundles >= t.MinBundles {
			pct = t.PercentOff
		}
	}
	return pct
}

// Quote prices an order. Pure: same inputs always produce the same breakdown.
// Callers re-quote at confirmation time so a config change mid-conversation
// never confirms a stale price.
func Quote(bundles int, unitPrice float64, tiers []Tier, deliveryFee float64) Breakdown {
	subtotal := float64(bundles) * unitPrice
	pct := DiscountFor(bundles, tiers)
	discount := subtotal * pct / 100
	total := subtotal - discount + deliveryFee

	return Breakdown{
		Bundles:         bundles,
		UnitPrice:       round2(unitPrice),
		Subtotal:        round2(subtotal),
		DiscountPercent: pct,
		DiscountAmount:  round2(discount),
		DeliveryFee:     round2(deliveryFee),
		Total:           round2(total),
	}
}

// Summary renders the customer-facing price lines.
func (b Breakdown) Summary(currency string) string {
	lines := []string{
		"*Pricing Breakdown*",
		fmt.Sprintf("%d bundles x %s = %s", b.Bundles, money(currency, b.UnitPrice), money(currency, b.Subtotal)),
	}
	if b.DiscountPercent > 0 {
		lines = append(lines,
			fmt.Sprintf("Volume discount (%.0f%% off): -%s", b.DiscountPercent, money(currency, b.DiscountAmount)),
			fmt.Sprintf("Subtotal: %s", money(currency, b.Subtotal-b.DiscountAmount)),
		)
	}
	if b.DeliveryFee > 0 {
		lines = append(lines, fmt.Sprintf("Delivery fee: %s", money(currency, b.DeliveryFee)))
	}
	lines = append(lines, fmt.Sprintf("*TOTAL: %s*", money(currency, b.Total)))
	return strings.Join(lines, "\n")
}

// TierInfo lists the configured discounts, or "" when there are none.
func TierInfo(tiers []Tier) string {
	if len(tiers) == 0 {
		return ""
	}
	lines := []string{"*Volume Discounts Available:*"}
	for _, t := range tiers {
		lines = append(lines, fmt.Sprintf("%d+ bundles: %.0f%% off", t.MinBundles, t.PercentOff))
	}
	return strings.Join(lines, "\n")
}

func money(currency string, amount float64) string {
	return fmt.Sprintf("%s%.2f", currency, amount)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
