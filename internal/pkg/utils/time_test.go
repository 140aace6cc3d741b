package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTruncateToDay(t *testing.T) {
	t.Run("drops the time of day", func(t *testing.T) {
		input := time.Date(2026, 1, 15, 17, 42, 31, 999, time.UTC)
		assert.Equal(t, time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC), TruncateToDay(input))
	})

	t.Run("normalizes to UTC before truncating", func(t *testing.T) {
		jakarta := time.FixedZone("WIB", 7*3600)
		input := time.Date(2026, 1, 16, 2, 0, 0, 0, jakarta)
		assert.Equal(t, time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC), TruncateToDay(input))
	})

	t.Run("is idempotent", func(t *testing.T) {
		day := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
		assert.Equal(t, day, TruncateToDay(day))
	})
}

func TestParseDateOnly(t *testing.T) {
	expected := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

	t.Run("accepts a plain calendar day", func(t *testing.T) {
		day, err := ParseDateOnly("2026-01-15")
		assert.NoError(t, err)
		assert.Equal(t, expected, day)
	})

	t.Run("accepts an RFC3339 timestamp", func(t *testing.T) {
		day, err := ParseDateOnly("2026-01-15T09:30:00Z")
		assert.NoError(t, err)
		assert.Equal(t, expected, day)
	})

	t.Run("both formats land on the same day", func(t *testing.T) {
		a, err := ParseDateOnly("2026-01-15")
		assert.NoError(t, err)
		b, err := ParseDateOnly("2026-01-15T23:59:59Z")
		assert.NoError(t, err)
		assert.Equal(t, a, b)
	})

	t.Run("rejects other formats", func(t *testing.T) {
		_, err := ParseDateOnly("15-01-2026")
		assert.Error(t, err)
	})
}

func TestParseSlotTime(t *testing.T) {
	t.Run("accepts a 24h label", func(t *testing.T) {
		label, err := ParseSlotTime("10:00")
		assert.NoError(t, err)
		assert.Equal(t, "10:00", label)
	})

	t.Run("rejects a malformed label", func(t *testing.T) {
		_, err := ParseSlotTime("10am")
		assert.Error(t, err)
	})
}
