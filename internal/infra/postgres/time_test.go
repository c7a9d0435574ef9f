package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bangkok(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Bangkok")
	require.NoError(t, err)
	return loc
}

func TestToCivilKeepsWallClockReading(t *testing.T) {
	loc := bangkok(t)

	// 10:30 UTC is 17:30 in Bangkok; the stored value must read 17:30.
	aware := time.Date(2025, 10, 1, 10, 30, 0, 0, time.UTC)
	civil := toCivil(aware, loc)

	assert.Equal(t, 17, civil.Hour())
	assert.Equal(t, 30, civil.Minute())
	assert.Equal(t, time.UTC, civil.Location())
}

func TestFromCivilReattachesZone(t *testing.T) {
	loc := bangkok(t)

	scanned := time.Date(2025, 10, 1, 17, 30, 0, 0, time.UTC)
	aware := fromCivil(scanned, loc)

	assert.Equal(t, 17, aware.Hour())
	assert.Equal(t, loc, aware.Location())
}

func TestCivilRoundTripIsLossless(t *testing.T) {
	loc := bangkok(t)

	aware := time.Date(2025, 10, 1, 17, 45, 12, 0, loc)
	back := fromCivil(toCivil(aware, loc), loc)

	assert.True(t, aware.Equal(back), "round trip changed the instant: %v -> %v", aware, back)
}

func TestCivilPtrHelpersPassNilThrough(t *testing.T) {
	loc := bangkok(t)

	assert.Nil(t, toCivilPtr(nil, loc))
	assert.Nil(t, fromCivilPtr(nil, loc))

	aware := time.Date(2025, 10, 1, 9, 0, 0, 0, loc)
	civil := toCivilPtr(&aware, loc)
	require.NotNil(t, civil)
	assert.Equal(t, 9, civil.Hour())
}
