package paymentprovider

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulated_AlwaysSucceeds(t *testing.T) {
	gw := NewSimulated(10 * time.Millisecond)

	start := time.Now()
	res, err := gw.Charge(context.Background(), Charge{PaymentID: "p1", ProfileID: "juan", Tier: 2, Amount: 4.99})
	require.NoError(t, err)

	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
	assert.Equal(t, "p1", res.PaymentID)
	assert.Equal(t, StatusSucceeded, res.Status)
	assert.False(t, res.ProcessedAt.IsZero())
}

func TestSimulated_ZeroLatency(t *testing.T) {
	res, err := NewSimulated(0).Charge(context.Background(), Charge{PaymentID: "p1"})
	require.NoError(t, err)
	assert.Equal(t, StatusSucceeded, res.Status)
}

func TestSimulated_Cancelled(t *testing.T) {
	gw := NewSimulated(time.Hour)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := gw.Charge(ctx, Charge{PaymentID: "p1"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	cancelled, cancelNow := context.WithCancel(context.Background())
	cancelNow()
	_, err = NewSimulated(0).Charge(cancelled, Charge{PaymentID: "p2"})
	assert.ErrorIs(t, err, context.Canceled)
}
