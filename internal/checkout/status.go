package checkout

// State tracks where an owner's checkout attempt sits in its lifecycle.
type State string

const (
	// StateIdle means no checkout is in flight for the owner.
	StateIdle State = "idle"
	// StateAwaitingAuth means the owner tried to check out without signing in.
	StateAwaitingAuth State = "awaiting_auth"
	// StateProcessing means an order submission is in flight.
	StateProcessing State = "processing"
	// StateCompleted means the order was accepted and the cart cleared.
	StateCompleted State = "completed"
	// StateFailed means the submission was rejected; the cart is untouched.
	StateFailed State = "failed"
)

// Valid reports whether the state is one of the known lifecycle values.
func (s State) Valid() bool {
	switch s {
	case StateIdle, StateAwaitingAuth, StateProcessing, StateCompleted, StateFailed:
		return true
	}
	return false
}
