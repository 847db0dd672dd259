package checkout

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tastybites/storefront-core/internal/auth"
	"github.com/tastybites/storefront-core/internal/cart"
	"github.com/tastybites/storefront-core/pkg/config"
	"github.com/tastybites/storefront-core/pkg/enums"
	pkgerrors "github.com/tastybites/storefront-core/pkg/errors"
	"github.com/tastybites/storefront-core/pkg/logger"
	"github.com/tastybites/storefront-core/pkg/notify"
	"github.com/tastybites/storefront-core/pkg/watch"
)

// Totals breaks down the order price at the current delivery option.
// All amounts are exact; rounding belongs to display.
type Totals struct {
	Subtotal    decimal.Decimal
	DeliveryFee decimal.Decimal
	Tax         decimal.Decimal
	Total       decimal.Decimal
}

// Confirmation is the evidence of a settled order. It snapshots the
// purchased lines and totals before the live cart is cleared.
type Confirmation struct {
	OrderNumber       string
	Lines             []cart.Line
	Totals            Totals
	DeliveryOption    enums.DeliveryOption
	EstimatedDelivery string
	PlacedAt          time.Time
}

// Workflow drives a single checkout attempt through shipping, payment
// and confirmation. It is valid for one attempt only; abandoning it
// leaves the cart and session stores untouched.
type Workflow struct {
	mu           sync.Mutex
	id           uuid.UUID
	step         enums.CheckoutStep
	address      AddressForm
	payment      PaymentForm
	delivery     enums.DeliveryOption
	processing   bool
	confirmation *Confirmation

	cart     *cart.Store
	pricing  config.PricingConfig
	sim      config.SimulationConfig
	notifier notify.Notifier
	logg     *logger.Logger
	watchers watch.Broadcaster
}

// Params bundles the dependencies for one checkout attempt.
type Params struct {
	Cart       *cart.Store
	Session    *auth.Store
	Pricing    config.PricingConfig
	Simulation config.SimulationConfig
	Notifier   notify.Notifier
	Logger     *logger.Logger
}

// Begin opens a checkout attempt. It requires a non-empty cart and an
// authenticated session; otherwise the caller routes the shopper to the
// cart or login view instead.
func Begin(params Params) (*Workflow, error) {
	if params.Cart == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if params.Session == nil {
		return nil, fmt.Errorf("session store required")
	}
	if params.Cart.IsEmpty() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "your cart is empty")
	}
	user := params.Session.Current()
	if user == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "please log in to check out")
	}
	notifier := params.Notifier
	if notifier == nil {
		notifier = notify.Nop
	}

	w := &Workflow{
		id:       uuid.New(),
		step:     enums.StepShipping,
		delivery: enums.DeliveryStandard,
		cart:     params.Cart,
		pricing:  params.Pricing,
		sim:      params.Simulation,
		notifier: notifier,
		logg:     params.Logger,
	}
	// Prefill from the session identity, as the storefront forms do.
	w.address.FullName = user.Name
	w.payment.CardholderName = user.Name
	return w, nil
}

// ID identifies this checkout attempt.
func (w *Workflow) ID() uuid.UUID {
	return w.id
}

// Subscribe registers a change watcher and returns its cancel function.
func (w *Workflow) Subscribe(handler func()) func() {
	return w.watchers.Subscribe(handler)
}

// Step returns the current workflow position.
func (w *Workflow) Step() enums.CheckoutStep {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

// Processing reports whether settlement is in flight.
func (w *Workflow) Processing() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.processing
}

// Address returns the submitted (or prefilled) shipping form.
func (w *Workflow) Address() AddressForm {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.address
}

// DeliveryOption returns the currently selected delivery speed.
func (w *Workflow) DeliveryOption() enums.DeliveryOption {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.delivery
}

// Confirmation returns the settled-order snapshot, or nil before
// settlement.
func (w *Workflow) Confirmation() *Confirmation {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.confirmation
}

// Totals prices the live cart under the selected delivery option:
// total = subtotal + deliveryFee + taxRate*subtotal.
func (w *Workflow) Totals() Totals {
	w.mu.Lock()
	delivery := w.delivery
	w.mu.Unlock()
	return w.priceCart(w.cart.Subtotal(), delivery)
}

// SetDeliveryOption selects the delivery speed. Only the shipping step
// offers the choice.
func (w *Workflow) SetDeliveryOption(option enums.DeliveryOption) error {
	if !option.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid delivery option")
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step != enums.StepShipping {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "delivery option is fixed after the shipping step")
	}
	w.delivery = option
	return nil
}

// SubmitAddress validates the shipping form and advances to payment.
func (w *Workflow) SubmitAddress(form AddressForm) error {
	w.mu.Lock()
	if w.step != enums.StepShipping {
		w.mu.Unlock()
		return pkgerrors.New(pkgerrors.CodeStateConflict, "address is submitted during the shipping step")
	}
	if err := checkForm(form, "please fill in all address fields"); err != nil {
		w.mu.Unlock()
		notify.Error(w.notifier, "Please fill in all address fields")
		return err
	}

	w.address = form
	w.step = enums.StepPayment
	w.mu.Unlock()

	w.watchers.Notify()
	return nil
}

// SubmitPayment validates the payment form, simulates settlement and
// confirms the order. The confirmation snapshot is taken before the
// cart clears; the clear itself happens after the configured delay.
// Cancellation during settlement resets the workflow to the payment
// step with no state change.
func (w *Workflow) SubmitPayment(ctx context.Context, form PaymentForm) (*Confirmation, error) {
	if err := w.beginSettlement(form); err != nil {
		return nil, err
	}

	if err := w.wait(ctx, w.sim.SettlementLatency); err != nil {
		w.mu.Lock()
		w.processing = false
		w.mu.Unlock()
		w.watchers.Notify()
		return nil, err
	}

	lines, subtotal := w.cart.Snapshot()

	w.mu.Lock()
	w.payment = form
	confirmation := &Confirmation{
		OrderNumber:       newOrderNumber(),
		Lines:             lines,
		Totals:            w.priceCart(subtotal, w.delivery),
		DeliveryOption:    w.delivery,
		EstimatedDelivery: w.estimatedDelivery(w.delivery),
		PlacedAt:          time.Now().UTC(),
	}
	w.confirmation = confirmation
	w.step = enums.StepConfirmed
	w.processing = false
	w.mu.Unlock()

	notify.Success(w.notifier, "Order confirmed!")
	w.watchers.Notify()
	if w.logg != nil {
		ctx := w.logg.WithCheckoutID(context.Background(), w.id.String())
		w.logg.Info(ctx, "order settled")
	}

	// The confirmation view shows its own snapshot; the live cart is
	// cleared shortly after, even if the caller has moved on.
	_ = w.wait(ctx, w.sim.CartClearDelay)
	w.cart.Clear()

	return confirmation, nil
}

// GoToStep navigates back to an already-completed step. Forward jumps
// are rejected, and a confirmed attempt is terminal.
func (w *Workflow) GoToStep(step enums.CheckoutStep) error {
	if !step.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown checkout step")
	}
	w.mu.Lock()
	if w.processing {
		w.mu.Unlock()
		return pkgerrors.New(pkgerrors.CodeStateConflict, "settlement is in progress")
	}
	if w.step == enums.StepConfirmed {
		w.mu.Unlock()
		return pkgerrors.New(pkgerrors.CodeStateConflict, "the order is already confirmed")
	}
	if !step.Before(w.step) {
		w.mu.Unlock()
		return pkgerrors.New(pkgerrors.CodeStateConflict, "only completed steps can be revisited")
	}

	w.step = step
	w.mu.Unlock()

	w.watchers.Notify()
	return nil
}

func (w *Workflow) beginSettlement(form PaymentForm) error {
	w.mu.Lock()
	if w.step != enums.StepPayment {
		w.mu.Unlock()
		return pkgerrors.New(pkgerrors.CodeStateConflict, "payment is submitted during the payment step")
	}
	if w.processing {
		w.mu.Unlock()
		return pkgerrors.New(pkgerrors.CodeStateConflict, "settlement is already in progress")
	}
	if err := checkForm(form, "please fill in all payment fields"); err != nil {
		w.mu.Unlock()
		notify.Error(w.notifier, "Please fill in all payment fields")
		return err
	}

	w.processing = true
	w.mu.Unlock()

	w.watchers.Notify()
	return nil
}

func (w *Workflow) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		if err := ctx.Err(); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeCanceled, err, "settlement abandoned")
		}
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return pkgerrors.Wrap(pkgerrors.CodeCanceled, ctx.Err(), "settlement abandoned")
	}
}

func (w *Workflow) priceCart(subtotal decimal.Decimal, delivery enums.DeliveryOption) Totals {
	fee := w.pricing.StandardFeeDecimal()
	if delivery == enums.DeliveryExpress {
		fee = w.pricing.ExpressFeeDecimal()
	}
	tax := subtotal.Mul(w.pricing.TaxRateDecimal())
	return Totals{
		Subtotal:    subtotal,
		DeliveryFee: fee,
		Tax:         tax,
		Total:       subtotal.Add(fee).Add(tax),
	}
}

func (w *Workflow) estimatedDelivery(delivery enums.DeliveryOption) string {
	if delivery == enums.DeliveryExpress {
		return w.pricing.ExpressETAMinutes
	}
	return w.pricing.StandardETAMinutes
}

func newOrderNumber() string {
	return fmt.Sprintf("#ORD-%06d", 100000+rand.Intn(900000))
}
