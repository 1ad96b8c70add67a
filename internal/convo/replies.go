package convo

import (
	"fmt"
	"strings"
	"time"

	"github.com/foodstream/veggiebot/internal/pricing"
)

const botName = "FoodStream Veggies"

func greetingFor(now time.Time) string {
	switch hour := now.Hour(); {
	case hour >= 5 && hour < 12:
		return "Good morning"
	case hour >= 12 && hour < 17:
		return "Good afternoon"
	case hour >= 17 && hour < 22:
		return "Good evening"
	default:
		return "Hello"
	}
}

func (e *Engine) welcomeReply(now time.Time) string {
	return fmt.Sprintf("%s! Welcome to %s!\n\nPlease tell me your *name* to start your order.",
		greetingFor(now), botName)
}

func (e *Engine) helpReply() string {
	var b strings.Builder
	fmt.Fprintf(&b, "*%s - Help*\n\n", botName)
	b.WriteString("*Available Commands:*\n")
	b.WriteString("- *HI* - Start a new order\n")
	b.WriteString("- *VIEW* - See your last order\n")
	b.WriteString("- *CANCEL* - Cancel your order\n")
	b.WriteString("- *HELP* - Show this help message\n\n")
	fmt.Fprintf(&b, "*Pricing:*\n%s%.2f per bundle", e.opts.Currency, e.opts.UnitPrice)
	if info := pricing.TierInfo(e.opts.Tiers); info != "" {
		b.WriteString("\n")
		b.WriteString(info)
	}
	b.WriteString("\n\nType *HI* to start ordering!")
	return b.String()
}

func (e *Engine) slowDownReply(retryAfter time.Duration) string {
	secs := int(retryAfter.Seconds())
	if secs < 1 {
		secs = 1
	}
	return fmt.Sprintf("Too many messages! Please wait %d seconds before trying again.", secs)
}

func (e *Engine) slotMenu() string {
	lines := make([]string, 0, len(e.opts.Slots))
	for i, s := range e.opts.Slots {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, s))
	}
	return strings.Join(lines, "\n")
}

const modifyMenu = "What would you like to modify?\n\n" +
	"Reply:\n" +
	"- *1* - Change name\n" +
	"- *2* - Change quantity\n" +
	"- *3* - Change address\n" +
	"- *4* - Change postcode\n" +
	"- *5* - Change delivery slot\n" +
	"- *CANCEL* - Keep current order"

func (e *Engine) slotName(d DraftOrder) string {
	if d.HasSlot && d.SlotIndex >= 0 && d.SlotIndex < len(e.opts.Slots) {
		return e.opts.Slots[d.SlotIndex]
	}
	return "This weekend"
}

func (e *Engine) confirmationReply(d DraftOrder) string {
	quote := pricing.Quote(d.Bundles, e.opts.UnitPrice, e.opts.Tiers, e.opts.DeliveryFee)
	return fmt.Sprintf(
		"*Please Confirm Your Order*\n\n"+
			"Name: %s\n"+
			"Bundles: %d\n"+
			"Address: %s, %s\n"+
			"Delivery: %s\n\n"+
			"%s\n\n"+
			"Reply *YES* to confirm or *MODIFY* to make changes.",
		d.Name, d.Bundles, d.Address, d.Postcode, e.slotName(d),
		quote.Summary(e.opts.Currency),
	)
}

func (e *Engine) confirmedReply(o Order) string {
	return fmt.Sprintf(
		"*Order Confirmed!*\n\n"+
			"Order ID: *%s*\n"+
			"Name: %s\n"+
			"Bundles: %d\n"+
			"Total: %s%.2f\n"+
			"Address: %s, %s\n"+
			"Delivery: %s\n\n"+
			"Type *VIEW* to see your order, *CANCEL* to cancel, or *HI* for a new order.\n\n"+
			"Thank you for supporting %s!",
		o.OrderID, o.Name, o.Bundles, e.opts.Currency, o.TotalPrice,
		o.Address, o.Postcode, o.DeliverySlot, botName,
	)
}

func (e *Engine) lastOrderReply(o *Order) string {
	if o == nil {
		return "You don't have any recent orders. Type *HI* to place a new order!"
	}
	return fmt.Sprintf(
		"*Your Last Order*\n\n"+
			"Order ID: %s\n"+
			"Name: %s\n"+
			"Bundles: %d\n"+
			"Total: %s%.2f\n"+
			"Address: %s, %s\n"+
			"Delivery: %s\n"+
			"Status: %s\n\n"+
			"Reply *CANCEL* to cancel this order or *HI* to place a new one.",
		o.OrderID, o.Name, o.Bundles, e.opts.Currency, o.TotalPrice,
		o.Address, o.Postcode, o.DeliverySlot, o.Status,
	)
}

func (e *Engine) cancelledReply(orderID string) string {
	return fmt.Sprintf(
		"Order %s has been cancelled.\n\n"+
			"Note: if you need to cancel within 24 hours of delivery, please contact us directly.\n\n"+
			"Type *HI* to place a new order!",
		orderID,
	)
}

func reprompt(reason error, ask string) string {
	return fmt.Sprintf("%s\n%s", capitalize(reason.Error()), ask)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
