// Package convo drives the ordering conversation: one inbound message in, the
// next state plus reply out. The engine owns every stage transition; the
// store owns the persisted bytes; the ledger owns finalized orders.
package convo

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/foodstream/veggiebot/internal/pricing"
	"github.com/foodstream/veggiebot/internal/validate"
)

// Options is the immutable pricing and ordering configuration snapshot the
// engine works from. The engine never mutates it.
type Options struct {
	UnitPrice   float64
	DeliveryFee float64
	Currency    string
	Tiers       []pricing.Tier
	MaxBundles  int
	Slots       []string
}

type Engine struct {
	store    Store
	ledger   Ledger
	notifier Notifier
	gate     Gate
	opts     Options

	// Messages from one sender must never interleave: the read-advance-write
	// sequence against the store is not atomic, so each sender key gets a
	// mutex and turns are serialized behind it.
	mu          sync.Mutex
	senderLocks map[string]*sync.Mutex
}

func New(store Store, ledger Ledger, notifier Notifier, gate Gate, opts Options) (*Engine, error) {
	if store == nil {
		return nil, errors.New("convo: store must not be nil")
	}
	if ledger == nil {
		return nil, errors.New("convo: ledger must not be nil")
	}
	if notifier == nil {
		return nil, errors.New("convo: notifier must not be nil")
	}
	if gate == nil {
		return nil, errors.New("convo: gate must not be nil")
	}
	if len(opts.Slots) == 0 {
		opts.Slots = []string{"This weekend"}
	}
	return &Engine{
		store:       store,
		ledger:      ledger,
		notifier:    notifier,
		gate:        gate,
		opts:        opts,
		senderLocks: make(map[string]*sync.Mutex),
	}, nil
}

var startWords = map[string]bool{
	"hi": true, "hello": true, "start": true, "restart": true, "reset": true, "new": true,
}

var viewWords = map[string]bool{
	"view": true, "status": true, "my order": true, "order status": true,
}

// HandleMessage processes one inbound message for a sender and returns the
// replies to send back. User input errors come back as re-prompt replies;
// only store and ledger failures surface as errors, and a turn that errors
// has persisted nothing.
func (e *Engine) HandleMessage(ctx context.Context, senderKey, text string, now time.Time) ([]string, error) {
	lock := e.lockFor(senderKey)
	lock.Lock()
	defer lock.Unlock()

	if ok, retryAfter := e.gate.Allow(senderKey, now); !ok {
		return []string{e.slowDownReply(retryAfter)}, nil
	}

	msg := validate.Sanitize(text)
	lower := strings.ToLower(msg)

	// Global commands win over whatever stage the conversation is in.
	switch {
	case startWords[lower]:
		return e.startConversation(ctx, senderKey, now)
	case viewWords[lower]:
		o, err := e.store.GetLastOrder(ctx, senderKey)
		if err != nil {
			return nil, newError(ErrorStoreUnavailable, err)
		}
		return []string{e.lastOrderReply(o)}, nil
	case lower == "help":
		return []string{e.helpReply()}, nil
	}

	st, err := e.store.Get(ctx, senderKey)
	if err != nil {
		return nil, newError(ErrorStoreUnavailable, err)
	}

	// CANCEL is global too, except at the modify menu where it means "keep
	// the current order" and belongs to the stage handler.
	if lower == "cancel" && (st == nil || st.Stage != StageModify) {
		return e.cancelOrder(ctx, senderKey, now)
	}

	if st == nil {
		return e.startConversation(ctx, senderKey, now)
	}

	replies, err := e.advance(ctx, senderKey, st, msg, now)
	if err != nil {
		return nil, err
	}

	st.UpdatedAt = now
	if err := e.store.Set(ctx, senderKey, st); err != nil {
		return nil, newError(ErrorStoreUnavailable, err)
	}
	return replies, nil
}

func (e *Engine) lockFor(senderKey string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	l, ok := e.senderLocks[senderKey]
	if !ok {
		l = &sync.Mutex{}
		e.senderLocks[senderKey] = l
	}
	return l
}

func (e *Engine) startConversation(ctx context.Context, senderKey string, now time.Time) ([]string, error) {
	st := newState(StageAskName, now)
	if err := e.store.Set(ctx, senderKey, st); err != nil {
		return nil, newError(ErrorStoreUnavailable, err)
	}
	return []string{e.welcomeReply(now)}, nil
}

func (e *Engine) cancelOrder(ctx context.Context, senderKey string, now time.Time) ([]string, error) {
	o, err := e.store.GetLastOrder(ctx, senderKey)
	if err != nil {
		return nil, newError(ErrorStoreUnavailable, err)
	}
	if o == nil || o.Status == StatusCancelled {
		return []string{"No recent order found to cancel."}, nil
	}

	if err := e.ledger.UpdateStatus(ctx, o.OrderID, StatusCancelled); err != nil {
		return nil, newError(ErrorLedgerUnavailable, err)
	}

	cancelled := *o
	cancelled.Status = StatusCancelled
	cancelled.UpdatedAt = now.UTC()
	if err := e.store.SetLastOrder(ctx, senderKey, &cancelled); err != nil {
		return nil, newError(ErrorStoreUnavailable, err)
	}

	if err := e.notifier.OrderCancelled(ctx, o.OrderID, o.Name); err != nil {
		log.Printf("convo: order %s cancelled but admin notification failed: %v", o.OrderID, err)
	}

	if err := e.store.Delete(ctx, senderKey); err != nil {
		return nil, newError(ErrorStoreUnavailable, err)
	}
	return []string{e.cancelledReply(o.OrderID)}, nil
}

// advance runs the stage-specific transition. Handlers mutate st in place;
// the caller persists it once afterwards. A non-nil error means nothing may
// be persisted for this turn.
func (e *Engine) advance(ctx context.Context, senderKey string, st *ConversationState, msg string, now time.Time) ([]string, error) {
	switch st.Stage {
	case StageInit:
		*st = *newState(StageAskName, now)
		return []string{e.welcomeReply(now)}, nil
	case StageAskName:
		return e.handleAskName(st, msg), nil
	case StageAskBundles:
		return e.handleAskBundles(st, msg), nil
	case StageAskAddress:
		return e.handleAskAddress(st, msg), nil
	case StageAskPostcode:
		return e.handleAskPostcode(st, msg), nil
	case StageAskSlot:
		return e.handleAskSlot(st, msg), nil
	case StageConfirm:
		return e.handleConfirm(ctx, senderKey, st, msg, now)
	case StageModify:
		return e.handleModify(st, msg), nil
	default:
		// Unknown stage in stored state (e.g. after a schema change):
		// restart rather than strand the customer.
		*st = *newState(StageAskName, now)
		return []string{"Something went wrong. Let's start fresh!\n\n" + e.welcomeReply(now)}, nil
	}
}

func (e *Engine) handleAskName(st *ConversationState, msg string) []string {
	name, err := validate.Name(msg)
	if err != nil {
		return []string{reprompt(err, "Please tell me your name:")}
	}
	st.Draft.Name = name
	if st.Modifying {
		return e.backToConfirm(st)
	}
	st.Stage = StageAskBundles
	return []string{fmt.Sprintf("Nice to meet you, %s!\n\nHow many *bundles* would you like to order?", name)}
}

func (e *Engine) handleAskBundles(st *ConversationState, msg string) []string {
	count, err := validate.BundleCount(msg, e.opts.MaxBundles)
	if err != nil {
		return []string{reprompt(err, "Please enter how many bundles you'd like:")}
	}
	st.Draft.Bundles = count
	if st.Modifying {
		return e.backToConfirm(st)
	}
	st.Stage = StageAskAddress
	quote := pricing.Quote(count, e.opts.UnitPrice, e.opts.Tiers, e.opts.DeliveryFee)
	return []string{fmt.Sprintf("Got it!\n\n%s\n\nPlease provide your *delivery address*:", quote.Summary(e.opts.Currency))}
}

func (e *Engine) handleAskAddress(st *ConversationState, msg string) []string {
	addr, err := validate.Address(msg)
	if err != nil {
		return []string{reprompt(err, "Please provide your delivery address:")}
	}
	st.Draft.Address = addr
	if st.Modifying {
		return e.backToConfirm(st)
	}
	st.Stage = StageAskPostcode
	return []string{"Thank you!\n\nNow please provide your *postcode*:"}
}

func (e *Engine) handleAskPostcode(st *ConversationState, msg string) []string {
	pc, err := validate.Postcode(msg)
	if err != nil {
		return []string{reprompt(err, "Please provide your postcode:")}
	}
	st.Draft.Postcode = pc
	if st.Modifying {
		return e.backToConfirm(st)
	}
	if len(e.opts.Slots) > 1 {
		st.Stage = StageAskSlot
		return []string{fmt.Sprintf("Perfect!\n\n*Choose your delivery slot:*\n%s\n\nReply with the number of your preferred slot.", e.slotMenu())}
	}
	// Single slot configured: nothing to choose.
	st.Draft.SlotIndex = 0
	st.Draft.HasSlot = true
	st.Stage = StageConfirm
	return []string{e.confirmationReply(st.Draft)}
}

func (e *Engine) handleAskSlot(st *ConversationState, msg string) []string {
	idx, err := validate.SlotChoice(msg, e.opts.Slots)
	if err != nil {
		return []string{fmt.Sprintf("%s\n\n%s\n\nPlease choose a number:", capitalize(err.Error()), e.slotMenu())}
	}
	st.Draft.SlotIndex = idx
	st.Draft.HasSlot = true
	return e.backToConfirm(st)
}

func (e *Engine) backToConfirm(st *ConversationState) []string {
	st.Modifying = false
	st.Stage = StageConfirm
	return []string{e.confirmationReply(st.Draft)}
}

func (e *Engine) handleConfirm(ctx context.Context, senderKey string, st *ConversationState, msg string, now time.Time) ([]string, error) {
	switch strings.ToLower(msg) {
	case "yes", "confirm":
		return e.finalize(ctx, senderKey, st, now)
	case "modify", "change", "edit":
		st.Stage = StageModify
		return []string{modifyMenu}, nil
	default:
		return []string{"Reply *YES* to confirm or *MODIFY* to make changes."}, nil
	}
}

// finalize turns the draft into an Order. Pricing is recomputed here so a
// config change between quantity entry and confirmation cannot confirm a
// stale price. Ledger failure keeps the conversation at StageConfirm.
func (e *Engine) finalize(ctx context.Context, senderKey string, st *ConversationState, now time.Time) ([]string, error) {
	quote := pricing.Quote(st.Draft.Bundles, e.opts.UnitPrice, e.opts.Tiers, e.opts.DeliveryFee)
	o := Order{
		OrderID:         newOrderID(),
		Name:            st.Draft.Name,
		Bundles:         st.Draft.Bundles,
		UnitPrice:       quote.UnitPrice,
		TotalPrice:      quote.Total,
		DiscountPercent: quote.DiscountPercent,
		Address:         st.Draft.Address,
		Postcode:        st.Draft.Postcode,
		DeliverySlot:    e.slotName(st.Draft),
		Phone:           strings.TrimPrefix(senderKey, "whatsapp:"),
		Status:          StatusConfirmed,
		CreatedAt:       now.UTC(),
		UpdatedAt:       now.UTC(),
	}

	if err := e.ledger.Append(ctx, o); err != nil {
		return nil, newError(ErrorLedgerUnavailable, err)
	}
	if err := e.store.SetLastOrder(ctx, senderKey, &o); err != nil {
		// The order is already durable; failing the turn here would only
		// provoke a duplicate append on retry. VIEW/CANCEL lose this
		// snapshot until the next order.
		log.Printf("convo: order %s confirmed but snapshot write failed: %v", o.OrderID, err)
	}
	if err := e.notifier.OrderConfirmed(ctx, o); err != nil {
		log.Printf("convo: order %s confirmed but admin notification failed: %v", o.OrderID, err)
	}

	// Ready for the next order.
	*st = *newState(StageInit, now)
	return []string{e.confirmedReply(o)}, nil
}

func (e *Engine) handleModify(st *ConversationState, msg string) []string {
	switch strings.ToLower(msg) {
	case "cancel":
		return e.backToConfirm(st)
	case "1":
		st.Stage = StageAskName
		st.Modifying = true
		return []string{"What's your name?"}
	case "2":
		st.Stage = StageAskBundles
		st.Modifying = true
		return []string{"How many bundles would you like?"}
	case "3":
		st.Stage = StageAskAddress
		st.Modifying = true
		return []string{"What's your delivery address?"}
	case "4":
		st.Stage = StageAskPostcode
		st.Modifying = true
		return []string{"What's your postcode?"}
	case "5":
		st.Stage = StageAskSlot
		st.Modifying = true
		return []string{fmt.Sprintf("Choose your delivery slot:\n%s", e.slotMenu())}
	default:
		return []string{modifyMenu}
	}
}

// newOrderID returns a 6-character uppercase hex token. Swappable in tests.
var newOrderID = func() string {
	b := make([]byte, 3)
	_, _ = rand.Read(b)
	return strings.ToUpper(hex.EncodeToString(b))
}
