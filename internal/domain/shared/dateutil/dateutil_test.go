package dateutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDisplayIn(t *testing.T) {
	t.Run("parses zero padded dates", func(t *testing.T) {
		got, err := ParseDisplayIn("05/03/2025", time.UTC)

		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, time.March, 5, 0, 0, 0, 0, time.UTC), got)
	})

	t.Run("parses unpadded dates", func(t *testing.T) {
		got, err := ParseDisplayIn("5/3/2025", time.UTC)

		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, time.March, 5, 0, 0, 0, 0, time.UTC), got)
	})

	t.Run("rejects malformed input", func(t *testing.T) {
		for _, in := range []string{"", "2025-03-05", "aa/bb/cccc", "05/13/2025", "00/01/2025"} {
			_, err := ParseDisplayIn(in, time.UTC)
			assert.ErrorIs(t, err, ErrInvalidDate, in)
		}
	})
}

func TestParse(t *testing.T) {
	t.Run("accepts ISO dates", func(t *testing.T) {
		got, err := Parse("2025-12-24")

		require.NoError(t, err)
		assert.Equal(t, "24/12/2025", FormatDisplay(got))
	})

	t.Run("accepts RFC 3339 timestamps", func(t *testing.T) {
		got, err := Parse("2025-12-24T10:00:00Z")

		require.NoError(t, err)
		assert.Equal(t, 2025, got.Year())
	})

	t.Run("rejects empty", func(t *testing.T) {
		_, err := Parse("  ")
		assert.ErrorIs(t, err, ErrInvalidDate)
	})
}

func TestToStorageAndDisplay(t *testing.T) {
	iso, err := ToStorage("24/12/2025")
	require.NoError(t, err)
	assert.Equal(t, "2025-12-24", iso)

	display, err := ToDisplay(iso)
	require.NoError(t, err)
	assert.Equal(t, "24/12/2025", display)
}

func TestIsExpired(t *testing.T) {
	now := time.Date(2025, time.June, 10, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		name      string
		expiresAt string
		want      bool
	}{
		{"yesterday", "09/06/2025", true},
		{"today after midnight", "10/06/2025", true},
		{"tomorrow", "11/06/2025", false},
		{"iso tomorrow", "2025-06-11T00:00:00Z", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := IsExpired(tt.expiresAt, now)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("reports unparseable dates", func(t *testing.T) {
		_, err := IsExpired("soon", now)
		assert.Error(t, err)
	})
}

func TestExpiryAfter(t *testing.T) {
	now := time.Date(2025, time.January, 31, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "02/03/2025", ExpiryAfter(now, 30))
}
