package domain

type CheckoutStatus string

const (
	CheckoutStatusStarted    CheckoutStatus = "STARTED"
	CheckoutStatusValidating CheckoutStatus = "VALIDATING"
	CheckoutStatusPersisting CheckoutStatus = "PERSISTING"
	CheckoutStatusCompleted  CheckoutStatus = "COMPLETED"
	CheckoutStatusAborted    CheckoutStatus = "ABORTED"
)

var checkoutTransitions = map[CheckoutStatus][]CheckoutStatus{
	CheckoutStatusStarted:    {CheckoutStatusValidating, CheckoutStatusAborted},
	CheckoutStatusValidating: {CheckoutStatusPersisting, CheckoutStatusAborted},
	CheckoutStatusPersisting: {CheckoutStatusCompleted, CheckoutStatusAborted},
}

func (s CheckoutStatus) IsTerminal() bool {
	return s == CheckoutStatusCompleted || s == CheckoutStatusAborted
}

// String representation (for logging)
func (s CheckoutStatus) String() string {
	return string(s)
}

func CanTransitionTo(from, to CheckoutStatus) bool {
	for _, next := range checkoutTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
