package checkout

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/tastybites/storefront-core/internal/auth"
	"github.com/tastybites/storefront-core/internal/cart"
	"github.com/tastybites/storefront-core/internal/catalog"
	"github.com/tastybites/storefront-core/pkg/config"
	"github.com/tastybites/storefront-core/pkg/enums"
	pkgerrors "github.com/tastybites/storefront-core/pkg/errors"
	"github.com/tastybites/storefront-core/pkg/money"
	"github.com/tastybites/storefront-core/pkg/notify"
)

type memorySlot struct {
	values map[string]string
}

func newMemorySlot() *memorySlot {
	return &memorySlot{values: map[string]string{}}
}

func (m *memorySlot) Get(_ context.Context, key string) (string, bool, error) {
	value, ok := m.values[key]
	return value, ok, nil
}

func (m *memorySlot) Put(_ context.Context, key, value string) error {
	m.values[key] = value
	return nil
}

func (m *memorySlot) Delete(_ context.Context, key string) error {
	delete(m.values, key)
	return nil
}

func testPricing() config.PricingConfig {
	return config.PricingConfig{
		TaxRate:            "0.08",
		StandardFee:        "3.99",
		ExpressFee:         "6.99",
		StandardETAMinutes: "30-45 minutes",
		ExpressETAMinutes:  "15-25 minutes",
	}
}

func loggedInSession(t *testing.T) *auth.Store {
	t.Helper()
	registry, err := auth.NewRegistry(config.PasswordConfig{
		ArgonMemoryKB:    256,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	})
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	session, err := auth.NewStore(auth.StoreParams{
		Registry: registry,
		Slot:     newMemorySlot(),
	})
	if err != nil {
		t.Fatalf("session store: %v", err)
	}
	if _, err := session.Login(context.Background(), auth.DemoEmail, auth.DemoPassword); err != nil {
		t.Fatalf("login: %v", err)
	}
	return session
}

func seededCart(t *testing.T, itemID string, quantity int) *cart.Store {
	t.Helper()
	store := cart.NewStore(nil)
	item, err := catalog.NewService(catalog.Menu()).Get(itemID)
	if err != nil {
		t.Fatalf("seed item %s: %v", itemID, err)
	}
	if err := store.AddItem(item, quantity); err != nil {
		t.Fatalf("seed cart: %v", err)
	}
	return store
}

func testWorkflow(t *testing.T) *Workflow {
	t.Helper()
	w, err := Begin(Params{
		Cart:    seededCart(t, "1", 2),
		Session: loggedInSession(t),
		Pricing: testPricing(),
	})
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	return w
}

func completedAddress() AddressForm {
	return AddressForm{
		FullName:      "Demo User",
		Phone:         "555-0100",
		StreetAddress: "1 Main St",
		City:          "Springfield",
		State:         "IL",
		ZipCode:       "62701",
	}
}

func completedPayment() PaymentForm {
	return PaymentForm{
		CardholderName: "Demo User",
		CardNumber:     "4242 4242 4242 4242",
		ExpiryDate:     "12/28",
		CVV:            "123",
	}
}

func TestBeginRequiresCartAndSession(t *testing.T) {
	t.Parallel()

	session := loggedInSession(t)
	_, err := Begin(Params{Cart: cart.NewStore(nil), Session: session, Pricing: testPricing()})
	if got := pkgerrors.As(err); got == nil || got.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("empty cart: expected state conflict, got %v", err)
	}

	anonymous, err := auth.NewStore(auth.StoreParams{Registry: mustRegistry(t), Slot: newMemorySlot()})
	if err != nil {
		t.Fatalf("session store: %v", err)
	}
	_, err = Begin(Params{Cart: seededCart(t, "1", 1), Session: anonymous, Pricing: testPricing()})
	if got := pkgerrors.As(err); got == nil || got.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("anonymous: expected unauthorized, got %v", err)
	}
}

func mustRegistry(t *testing.T) *auth.Registry {
	t.Helper()
	registry, err := auth.NewRegistry(config.PasswordConfig{
		ArgonMemoryKB:    256,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	})
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	return registry
}

func TestBeginPrefillsNamesFromSession(t *testing.T) {
	t.Parallel()

	w := testWorkflow(t)
	if w.Address().FullName != "Demo User" {
		t.Fatalf("expected prefilled full name, got %q", w.Address().FullName)
	}
	if w.Step() != enums.StepShipping {
		t.Fatalf("expected shipping step, got %s", w.Step())
	}
}

func TestSubmitAddressRequiresAllFields(t *testing.T) {
	t.Parallel()

	w := testWorkflow(t)
	form := completedAddress()
	form.City = ""
	form.ZipCode = ""

	err := w.SubmitAddress(form)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	details, ok := appErr.Details().(map[string]string)
	if !ok {
		t.Fatalf("expected field details, got %T", appErr.Details())
	}
	for _, field := range []string{"city", "zip_code"} {
		if details[field] != "is required" {
			t.Fatalf("expected %q flagged, details %v", field, details)
		}
	}
	if w.Step() != enums.StepShipping {
		t.Fatalf("rejected submit must not advance, step %s", w.Step())
	}
}

func TestSubmitAddressAdvancesToPayment(t *testing.T) {
	t.Parallel()

	w := testWorkflow(t)
	if err := w.SubmitAddress(completedAddress()); err != nil {
		t.Fatalf("submit address: %v", err)
	}
	if w.Step() != enums.StepPayment {
		t.Fatalf("expected payment step, got %s", w.Step())
	}
	if err := w.SubmitAddress(completedAddress()); err == nil {
		t.Fatal("expected re-submit on payment step to be rejected")
	}
}

func TestDeliveryOptionLockedAfterShipping(t *testing.T) {
	t.Parallel()

	w := testWorkflow(t)
	if err := w.SetDeliveryOption(enums.DeliveryExpress); err != nil {
		t.Fatalf("set delivery: %v", err)
	}
	if w.DeliveryOption() != enums.DeliveryExpress {
		t.Fatalf("expected express, got %s", w.DeliveryOption())
	}

	if err := w.SubmitAddress(completedAddress()); err != nil {
		t.Fatalf("submit address: %v", err)
	}
	err := w.SetDeliveryOption(enums.DeliveryStandard)
	if got := pkgerrors.As(err); got == nil || got.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
	if w.DeliveryOption() != enums.DeliveryExpress {
		t.Fatalf("rejected change must not apply, got %s", w.DeliveryOption())
	}
}

func TestTotalsStandardDelivery(t *testing.T) {
	t.Parallel()

	// One line of 12.99 x 2 with standard delivery and 8% tax.
	w := testWorkflow(t)
	totals := w.Totals()

	if !totals.Subtotal.Equal(money.MustParse("25.98")) {
		t.Fatalf("subtotal %s", totals.Subtotal)
	}
	if !totals.DeliveryFee.Equal(money.MustParse("3.99")) {
		t.Fatalf("delivery fee %s", totals.DeliveryFee)
	}
	if !totals.Tax.Equal(money.MustParse("2.0784")) {
		t.Fatalf("tax %s", totals.Tax)
	}
	if !totals.Total.Equal(money.MustParse("32.0484")) {
		t.Fatalf("total %s", totals.Total)
	}
	if got := money.Display(totals.Total); got != "$32.05" {
		t.Fatalf("displayed total %s", got)
	}
}

func TestTotalsExpressDelivery(t *testing.T) {
	t.Parallel()

	w := testWorkflow(t)
	if err := w.SetDeliveryOption(enums.DeliveryExpress); err != nil {
		t.Fatalf("set delivery: %v", err)
	}
	totals := w.Totals()
	if !totals.DeliveryFee.Equal(money.MustParse("6.99")) {
		t.Fatalf("delivery fee %s", totals.DeliveryFee)
	}
	if !totals.Total.Equal(money.MustParse("35.0484")) {
		t.Fatalf("total %s", totals.Total)
	}
}

func TestSubmitPaymentConfirmsAndClearsCart(t *testing.T) {
	t.Parallel()

	events := []notify.Event{}
	store := seededCart(t, "1", 2)
	w, err := Begin(Params{
		Cart:     store,
		Session:  loggedInSession(t),
		Pricing:  testPricing(),
		Notifier: notify.Func(func(e notify.Event) { events = append(events, e) }),
	})
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if err := w.SubmitAddress(completedAddress()); err != nil {
		t.Fatalf("submit address: %v", err)
	}

	confirmation, err := w.SubmitPayment(context.Background(), completedPayment())
	if err != nil {
		t.Fatalf("submit payment: %v", err)
	}

	if w.Step() != enums.StepConfirmed {
		t.Fatalf("expected confirmed step, got %s", w.Step())
	}
	if w.Processing() {
		t.Fatal("processing flag must reset after settlement")
	}
	if !strings.HasPrefix(confirmation.OrderNumber, "#ORD-") || len(confirmation.OrderNumber) != len("#ORD-123456") {
		t.Fatalf("order number %q", confirmation.OrderNumber)
	}
	if confirmation.EstimatedDelivery != "30-45 minutes" {
		t.Fatalf("eta %q", confirmation.EstimatedDelivery)
	}

	// The confirmation keeps the purchased lines even though the live
	// cart was cleared afterwards.
	if !store.IsEmpty() {
		t.Fatal("cart must clear after confirmation")
	}
	if len(confirmation.Lines) != 1 || confirmation.Lines[0].Quantity != 2 {
		t.Fatalf("confirmation lines %+v", confirmation.Lines)
	}
	if !confirmation.Totals.Subtotal.Equal(money.MustParse("25.98")) {
		t.Fatalf("confirmation subtotal %s", confirmation.Totals.Subtotal)
	}
	if got := w.Confirmation(); got == nil || got.OrderNumber != confirmation.OrderNumber {
		t.Fatalf("stored confirmation %+v", got)
	}

	confirmed := false
	for _, event := range events {
		if event.Level == enums.LevelSuccess && event.Text == "Order confirmed!" {
			confirmed = true
		}
	}
	if !confirmed {
		t.Fatalf("expected confirmation notification, got %v", events)
	}
}

func TestSubmitPaymentRequiresCompletedForm(t *testing.T) {
	t.Parallel()

	w := testWorkflow(t)
	if err := w.SubmitAddress(completedAddress()); err != nil {
		t.Fatalf("submit address: %v", err)
	}

	form := completedPayment()
	form.CVV = ""
	_, err := w.SubmitPayment(context.Background(), form)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if w.Step() != enums.StepPayment {
		t.Fatalf("rejected payment must not advance, step %s", w.Step())
	}
	if w.Processing() {
		t.Fatal("rejected payment must not leave processing set")
	}
}

func TestSubmitPaymentBeforeAddressRejected(t *testing.T) {
	t.Parallel()

	w := testWorkflow(t)
	_, err := w.SubmitPayment(context.Background(), completedPayment())
	if got := pkgerrors.As(err); got == nil || got.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestSubmitPaymentCanceledMidSettlement(t *testing.T) {
	t.Parallel()

	store := seededCart(t, "1", 2)
	w, err := Begin(Params{
		Cart:       store,
		Session:    loggedInSession(t),
		Pricing:    testPricing(),
		Simulation: config.SimulationConfig{SettlementLatency: 0},
	})
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if err := w.SubmitAddress(completedAddress()); err != nil {
		t.Fatalf("submit address: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = w.SubmitPayment(ctx, completedPayment())
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeCanceled {
		t.Fatalf("expected canceled error, got %v", err)
	}
	if w.Step() != enums.StepPayment {
		t.Fatalf("abandoned settlement must stay on payment, step %s", w.Step())
	}
	if w.Processing() {
		t.Fatal("abandoned settlement must reset processing")
	}
	if store.IsEmpty() {
		t.Fatal("abandoned settlement must not clear the cart")
	}
	if w.Confirmation() != nil {
		t.Fatal("abandoned settlement must not confirm")
	}

	// The attempt is still live; a clean retry settles.
	if _, err := w.SubmitPayment(context.Background(), completedPayment()); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if w.Step() != enums.StepConfirmed {
		t.Fatalf("expected confirmed after retry, got %s", w.Step())
	}
}

func TestGoToStepBackwardOnly(t *testing.T) {
	t.Parallel()

	w := testWorkflow(t)

	err := w.GoToStep(enums.StepPayment)
	if got := pkgerrors.As(err); got == nil || got.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("forward jump: expected state conflict, got %v", err)
	}

	if err := w.SubmitAddress(completedAddress()); err != nil {
		t.Fatalf("submit address: %v", err)
	}
	if err := w.GoToStep(enums.StepShipping); err != nil {
		t.Fatalf("go back: %v", err)
	}
	if w.Step() != enums.StepShipping {
		t.Fatalf("expected shipping step, got %s", w.Step())
	}

	// Going back does not forget the submitted address.
	if w.Address() != completedAddress() {
		t.Fatalf("address lost on back navigation: %+v", w.Address())
	}
}

func TestGoToStepTerminalAfterConfirmation(t *testing.T) {
	t.Parallel()

	w := testWorkflow(t)
	if err := w.SubmitAddress(completedAddress()); err != nil {
		t.Fatalf("submit address: %v", err)
	}
	if _, err := w.SubmitPayment(context.Background(), completedPayment()); err != nil {
		t.Fatalf("submit payment: %v", err)
	}

	err := w.GoToStep(enums.StepShipping)
	if got := pkgerrors.As(err); got == nil || got.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected terminal state conflict, got %v", err)
	}
}

func TestWorkflowNotifiesWatchers(t *testing.T) {
	t.Parallel()

	w := testWorkflow(t)
	pings := 0
	cancel := w.Subscribe(func() { pings++ })
	defer cancel()

	if err := w.SubmitAddress(completedAddress()); err != nil {
		t.Fatalf("submit address: %v", err)
	}
	if pings == 0 {
		t.Fatal("expected watcher ping on step change")
	}
}

// Watchers re-read workflow state from inside the ping, the way a view
// re-renders. Every mutation must therefore notify with the mutex
// released.
func TestWatcherRereadsStateInsidePing(t *testing.T) {
	t.Parallel()

	w := testWorkflow(t)
	var seenSteps []enums.CheckoutStep
	var sawProcessing bool
	cancel := w.Subscribe(func() {
		seenSteps = append(seenSteps, w.Step())
		if w.Processing() {
			sawProcessing = true
		}
	})
	defer cancel()

	done := make(chan error, 1)
	go func() {
		if err := w.SubmitAddress(completedAddress()); err != nil {
			done <- err
			return
		}
		if err := w.GoToStep(enums.StepShipping); err != nil {
			done <- err
			return
		}
		if err := w.SubmitAddress(completedAddress()); err != nil {
			done <- err
			return
		}
		_, err := w.SubmitPayment(context.Background(), completedPayment())
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("workflow mutation: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("workflow mutation deadlocked with a state-reading watcher subscribed")
	}

	if len(seenSteps) == 0 {
		t.Fatal("expected pings with readable state")
	}
	if seenSteps[len(seenSteps)-1] != enums.StepConfirmed {
		t.Fatalf("last observed step %s, want confirmed", seenSteps[len(seenSteps)-1])
	}
	if !sawProcessing {
		t.Fatal("expected the settlement-in-flight ping to observe Processing")
	}
}
