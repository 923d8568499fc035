package domain

// OrderStatus represents the status of a placed order
type OrderStatus string

const (
	// OrderStatusConfirmed is the only status this service assigns; orders are never updated afterwards.
	OrderStatusConfirmed OrderStatus = "confirmed"
)

// IsValid checks if the order status is valid
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusConfirmed:
		return true
	default:
		return false
	}
}

// SubmitState is the state of a single order submission attempt
type SubmitState string

const (
	SubmitStateIdle       SubmitState = "IDLE"
	SubmitStateValidating SubmitState = "VALIDATING"
	SubmitStateSubmitting SubmitState = "SUBMITTING"
	SubmitStateSucceeded  SubmitState = "SUCCEEDED"
	SubmitStateFailed     SubmitState = "FAILED"
)

// IsValid checks if the submit state is valid
func (s SubmitState) IsValid() bool {
	switch s {
	case SubmitStateIdle,
		SubmitStateValidating,
		SubmitStateSubmitting,
		SubmitStateSucceeded,
		SubmitStateFailed:
		return true
	default:
		return false
	}
}

// InFlight reports whether a submission holds the guard in this state
func (s SubmitState) InFlight() bool {
	return s == SubmitStateValidating || s == SubmitStateSubmitting
}

// CanTransitionTo checks if a state transition is valid
func (s SubmitState) CanTransitionTo(next SubmitState) bool {
	switch s {
	case SubmitStateIdle:
		return next == SubmitStateValidating
	case SubmitStateValidating:
		return next == SubmitStateSubmitting ||
			next == SubmitStateFailed
	case SubmitStateSubmitting:
		return next == SubmitStateSucceeded ||
			next == SubmitStateFailed
	case SubmitStateSucceeded, SubmitStateFailed:
		return next == SubmitStateIdle // Outcome reported, back to idle
	default:
		return false
	}
}

func (s SubmitState) String() string {
	return string(s)
}
