package internal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestamp(t *testing.T) {
	t.Run("formats UTC with seconds precision and literal Z", func(t *testing.T) {
		ts := Timestamp(time.Date(2026, 3, 7, 9, 5, 3, 123456789, time.UTC))
		assert.Equal(t, "2026-03-07T09:05:03Z", ts)
	})

	t.Run("converts zoned times to UTC", func(t *testing.T) {
		zone := time.FixedZone("CET", 3600)
		ts := Timestamp(time.Date(2026, 3, 7, 10, 5, 3, 0, zone))
		assert.Equal(t, "2026-03-07T09:05:03Z", ts)
	})
}

func TestIsFresh(t *testing.T) {
	reference := time.Date(2026, 3, 7, 12, 0, 0, 0, time.UTC)

	t.Run("accepts the current timestamp", func(t *testing.T) {
		assert.True(t, IsFresh(Timestamp(reference), reference))
	})

	t.Run("accepts within the backwards window", func(t *testing.T) {
		assert.True(t, IsFresh(Timestamp(reference.Add(-4*time.Minute)), reference))
		assert.True(t, IsFresh(Timestamp(reference.Add(-5*time.Minute)), reference))
	})

	t.Run("accepts modest forward skew", func(t *testing.T) {
		assert.True(t, IsFresh(Timestamp(reference.Add(time.Minute)), reference))
	})

	t.Run("rejects ten minutes in the past", func(t *testing.T) {
		assert.False(t, IsFresh(Timestamp(reference.Add(-10*time.Minute)), reference))
	})

	t.Run("rejects five minutes in the future", func(t *testing.T) {
		assert.False(t, IsFresh(Timestamp(reference.Add(5*time.Minute)), reference))
	})

	t.Run("rejects malformed timestamps before range comparison", func(t *testing.T) {
		malformed := []string{
			"",
			"2026-03-07 12:00:00",
			"2026-03-07T12:00:00",
			"2026-03-07T12:00:00+00:00",
			"2026-03-07T12:00:00.000Z",
			"26-03-07T12:00:00Z",
			"not-a-timestamp",
		}
		for _, ts := range malformed {
			assert.False(t, IsFresh(ts, reference), "expected %q to be rejected", ts)
		}
	})
}

func TestNewTransactionUuid(t *testing.T) {
	t.Run("generates 32 hex characters", func(t *testing.T) {
		id, err := NewTransactionUuid()
		require.NoError(t, err)
		assert.Len(t, id, 32)
		assert.Regexp(t, "^[0-9a-f]{32}$", id)
	})

	t.Run("generates distinct values", func(t *testing.T) {
		first, err := NewTransactionUuid()
		require.NoError(t, err)
		second, err := NewTransactionUuid()
		require.NoError(t, err)
		assert.NotEqual(t, first, second)
	})
}
