package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionTo_LinearSequence(t *testing.T) {
	sequence := []CheckoutStatus{
		CheckoutStatusInitiated,
		CheckoutStatusStockValidated,
		CheckoutStatusStockCommitted,
		CheckoutStatusOrderCreated,
		CheckoutStatusDiscountSettled,
		CheckoutStatusCartCleared,
		CheckoutStatusCompleted,
	}

	for i := 0; i < len(sequence)-1; i++ {
		assert.True(t, CanTransitionTo(sequence[i], sequence[i+1]),
			"%s -> %s should be allowed", sequence[i], sequence[i+1])
	}
}

func TestCanTransitionTo_NoSkipsOrBackwardSteps(t *testing.T) {
	assert.False(t, CanTransitionTo(CheckoutStatusInitiated, CheckoutStatusStockCommitted))
	assert.False(t, CanTransitionTo(CheckoutStatusInitiated, CheckoutStatusCompleted))
	assert.False(t, CanTransitionTo(CheckoutStatusOrderCreated, CheckoutStatusStockValidated))
	assert.False(t, CanTransitionTo(CheckoutStatusCompleted, CheckoutStatusInitiated))
}

func TestCanTransitionTo_Failed(t *testing.T) {
	assert.True(t, CanTransitionTo(CheckoutStatusInitiated, CheckoutStatusFailed))
	assert.True(t, CanTransitionTo(CheckoutStatusStockCommitted, CheckoutStatusFailed))
	assert.True(t, CanTransitionTo(CheckoutStatusCartCleared, CheckoutStatusFailed))

	// Terminal statuses never fail afterwards.
	assert.False(t, CanTransitionTo(CheckoutStatusCompleted, CheckoutStatusFailed))
	assert.False(t, CanTransitionTo(CheckoutStatusFailed, CheckoutStatusFailed))
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, CheckoutStatusCompleted.IsTerminal())
	assert.True(t, CheckoutStatusFailed.IsTerminal())
	assert.False(t, CheckoutStatusInitiated.IsTerminal())
	assert.False(t, CheckoutStatusCartCleared.IsTerminal())
}
