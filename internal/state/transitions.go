package state

// validTransitions contains the permitted forward transitions in the FSM.
// The registration form is strictly linear; AwaitBroadcast is reachable only
// from idle because the admin panel is a top-level menu.
var validTransitions = map[State][]State{
	StateIdle: {
		StateAwaitName,
		StateAwaitBroadcast,
	},
	StateAwaitName: {
		StateAwaitAge,
	},
	StateAwaitAge: {
		StateAwaitWeight,
	},
	StateAwaitWeight: {
		StateAwaitHeight,
	},
	StateAwaitHeight: {
		StateAwaitIssue,
	},
	StateAwaitIssue: {
		StateAwaitProduct,
	},
	StateAwaitProduct: {
		StateIdle,
	},
	StateAwaitBroadcast: {
		StateIdle,
	},
}

// IsTransitionAllowed reports whether moving from one state to another is valid.
// Returning to idle is always allowed so any flow can be abandoned.
func IsTransitionAllowed(from, to State) bool {
	if to == StateIdle {
		return true
	}

	allowed, ok := validTransitions[from]
	if !ok {
		return false
	}

	for _, next := range allowed {
		if next == to {
			return true
		}
	}

	return false
}
