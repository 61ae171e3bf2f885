package reembed

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPolicy(maxAttempts int) Policy {
	return Policy{
		MaxAttempts: maxAttempts,
		BaseDelay:   time.Millisecond,
		Multiplier:  2,
	}
}

func TestPolicyDo_SucceedsFirstAttempt(t *testing.T) {
	calls := 0
	err := testPolicy(3).Do(context.Background(), func() error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestPolicyDo_SucceedsAfterFailures(t *testing.T) {
	calls := 0
	err := testPolicy(5).Do(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestPolicyDo_ExhaustsAttempts(t *testing.T) {
	wanted := errors.New("persistent failure")
	calls := 0
	err := testPolicy(3).Do(context.Background(), func() error {
		calls++
		return wanted
	})

	assert.ErrorIs(t, err, wanted)
	assert.Equal(t, 3, calls)
}

func TestPolicyDo_NonRetryableStopsImmediately(t *testing.T) {
	fatal := errors.New("bad request")
	policy := testPolicy(5)
	policy.Retryable = func(err error) bool {
		return !errors.Is(err, fatal)
	}

	calls := 0
	err := policy.Do(context.Background(), func() error {
		calls++
		return fatal
	})

	assert.ErrorIs(t, err, fatal)
	assert.Equal(t, 1, calls)
}

func TestPolicyDo_InvalidMaxAttempts(t *testing.T) {
	err := testPolicy(0).Do(context.Background(), func() error { return nil })
	assert.ErrorIs(t, err, ErrInvalidMaxAttempts)
}

func TestPolicyDo_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	policy := testPolicy(5)
	policy.BaseDelay = time.Hour

	calls := 0
	err := policy.Do(ctx, func() error {
		calls++
		cancel() // Cancel during the first backoff sleep
		return errors.New("transient")
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}
