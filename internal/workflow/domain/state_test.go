package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/slovensko-digital/podanie-demo/internal/errors"
)

func TestTransition(t *testing.T) {
	t.Run("Success_HappyPath", func(t *testing.T) {
		steps := []struct {
			trigger Trigger
			want    State
		}{
			{TriggerLogin, StateAuthenticated},
			{TriggerGrantConsent, StateConsented},
			{TriggerCreateBucket, StateBucketCreated},
			{TriggerSignSuccess, StateSigned},
			{TriggerSubmit, StateSubmitted},
		}

		state := StateUnauthenticated
		for _, step := range steps {
			next, err := Transition(state, step.trigger)
			assert.NoError(t, err)
			assert.Equal(t, step.want, next)
			state = next
		}
		assert.True(t, Terminal(state))
	})

	t.Run("Success_SigningRejectionFails", func(t *testing.T) {
		next, err := Transition(StateBucketCreated, TriggerSignFailure)

		assert.NoError(t, err)
		assert.Equal(t, StateFailed, next)
		assert.True(t, Terminal(next))
	})

	t.Run("Success_SubmissionFailureFails", func(t *testing.T) {
		next, err := Transition(StateSigned, TriggerSubmitFailed)

		assert.NoError(t, err)
		assert.Equal(t, StateFailed, next)
	})

	t.Run("Success_LogoutFromAnyState", func(t *testing.T) {
		for _, state := range []State{
			StateUnauthenticated,
			StateAuthenticated,
			StateConsented,
			StateBucketCreated,
			StateSigned,
			StateSubmitted,
			StateFailed,
		} {
			next, err := Transition(state, TriggerLogout)
			assert.NoError(t, err)
			assert.Equal(t, StateUnauthenticated, next)
		}
	})

	t.Run("Error_SkippingConsent", func(t *testing.T) {
		next, err := Transition(StateAuthenticated, TriggerCreateBucket)

		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		assert.Equal(t, StateAuthenticated, next)
	})

	t.Run("Error_TerminalStateIsStuck", func(t *testing.T) {
		_, err := Transition(StateSubmitted, TriggerSubmit)

		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})
}
