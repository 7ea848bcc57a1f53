// Package domain models the e-signing redirect saga as an explicit state
// machine. Handlers derive the current state from cookies and request
// parameters, then apply transitions; the machine itself holds no state.
package domain

import (
	"fmt"

	apperrors "github.com/slovensko-digital/podanie-demo/internal/errors"
)

// State names one stage of the citizen's journey.
type State string

const (
	StateUnauthenticated State = "unauthenticated"
	StateAuthenticated   State = "authenticated"
	StateConsented       State = "consented"
	StateBucketCreated   State = "bucket_created"
	StateSigned          State = "signed"
	StateSubmitted       State = "submitted"
	StateFailed          State = "failed"
)

// Trigger names an event that moves the journey forward.
type Trigger string

const (
	TriggerLogin        Trigger = "login"
	TriggerGrantConsent Trigger = "grant_consent"
	TriggerCreateBucket Trigger = "create_bucket"
	TriggerSignSuccess  Trigger = "sign_success"
	TriggerSignFailure  Trigger = "sign_failure"
	TriggerSubmit       Trigger = "submit"
	TriggerSubmitFailed Trigger = "submit_failed"
	TriggerLogout       Trigger = "logout"
)

var transitions = map[State]map[Trigger]State{
	StateUnauthenticated: {
		TriggerLogin: StateAuthenticated,
	},
	StateAuthenticated: {
		TriggerGrantConsent: StateConsented,
	},
	StateConsented: {
		TriggerCreateBucket: StateBucketCreated,
	},
	StateBucketCreated: {
		TriggerSignSuccess: StateSigned,
		TriggerSignFailure: StateFailed,
	},
	StateSigned: {
		TriggerSubmit:       StateSubmitted,
		TriggerSubmitFailed: StateFailed,
	},
}

// Transition applies trigger to state. Logout is an escape hatch allowed
// from every state. Any other undeclared combination is invalid input.
func Transition(state State, trigger Trigger) (State, error) {
	if trigger == TriggerLogout {
		return StateUnauthenticated, nil
	}

	next, ok := transitions[state][trigger]
	if !ok {
		return state, apperrors.Wrap(apperrors.ErrInvalidInput,
			fmt.Sprintf("trigger %q is not valid in state %q", trigger, state))
	}

	return next, nil
}

// Terminal reports whether the journey can move no further.
func Terminal(state State) bool {
	return state == StateSubmitted || state == StateFailed
}
