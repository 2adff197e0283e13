package state

import "testing"

func TestIsTransitionAllowed(t *testing.T) {
	testCases := []struct {
		name     string
		from     State
		to       State
		expected bool
	}{
		{name: "idle to await name", from: StateIdle, to: StateAwaitName, expected: true},
		{name: "await name to await age", from: StateAwaitName, to: StateAwaitAge, expected: true},
		{name: "await age to await weight", from: StateAwaitAge, to: StateAwaitWeight, expected: true},
		{name: "await weight to await height", from: StateAwaitWeight, to: StateAwaitHeight, expected: true},
		{name: "await height to await issue", from: StateAwaitHeight, to: StateAwaitIssue, expected: true},
		{name: "await issue to await product", from: StateAwaitIssue, to: StateAwaitProduct, expected: true},
		{name: "await product back to idle", from: StateAwaitProduct, to: StateIdle, expected: true},
		{name: "idle to await broadcast", from: StateIdle, to: StateAwaitBroadcast, expected: true},
		{name: "await broadcast back to idle", from: StateAwaitBroadcast, to: StateIdle, expected: true},
		{name: "skipping a form step invalid", from: StateAwaitName, to: StateAwaitWeight, expected: false},
		{name: "form cannot jump to broadcast", from: StateAwaitAge, to: StateAwaitBroadcast, expected: false},
		{name: "idle cannot jump mid-form", from: StateIdle, to: StateAwaitIssue, expected: false},
		{name: "unknown state to form invalid", from: State("unknown"), to: StateAwaitName, expected: false},
		{name: "any state back to idle", from: State("whatever"), to: StateIdle, expected: true},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if actual := IsTransitionAllowed(tc.from, tc.to); actual != tc.expected {
				t.Errorf("IsTransitionAllowed(%s -> %s) = %t, expected %t", tc.from, tc.to, actual, tc.expected)
			}
		})
	}
}
