package enums

import "fmt"

// CheckoutStep tracks the position inside the checkout workflow.
// Steps are ordered; comparison by number drives back-navigation.
type CheckoutStep int

const (
	StepShipping CheckoutStep = iota + 1
	StepPayment
	StepConfirmed
)

var checkoutStepNames = map[CheckoutStep]string{
	StepShipping:  "shipping",
	StepPayment:   "payment",
	StepConfirmed: "confirmed",
}

// String implements fmt.Stringer.
func (s CheckoutStep) String() string {
	if name, ok := checkoutStepNames[s]; ok {
		return name
	}
	return fmt.Sprintf("step(%d)", int(s))
}

// IsValid reports whether the value is a known CheckoutStep.
func (s CheckoutStep) IsValid() bool {
	_, ok := checkoutStepNames[s]
	return ok
}

// Before reports whether s comes earlier in the workflow than other.
func (s CheckoutStep) Before(other CheckoutStep) bool {
	return s < other
}
