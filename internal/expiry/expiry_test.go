package expiry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestIsExpiredNilDeadline(t *testing.T) {
	require.False(t, IsExpired(nil, time.Now().UTC()))
}

func TestIsExpiredBoundary(t *testing.T) {
	deadline := date(2025, time.March, 15)

	before := time.Date(2025, time.March, 16, 3, 59, 59, 0, time.UTC)
	require.False(t, IsExpired(&deadline, before))

	exact := time.Date(2025, time.March, 16, 4, 0, 0, 0, time.UTC)
	require.True(t, IsExpired(&deadline, exact))
}

func TestIsExpiredDiscardsTimeOfDay(t *testing.T) {
	// A deadline at 23:30 UTC expires at the same instant as one at
	// midnight of the same date.
	late := time.Date(2025, time.March, 15, 23, 30, 0, 0, time.UTC)
	require.Equal(t, Instant(date(2025, time.March, 15)), Instant(late))
}

func TestIsExpiredWellBeforeAndAfter(t *testing.T) {
	deadline := date(2025, time.March, 15)

	require.False(t, IsExpired(&deadline, time.Date(2025, time.March, 16, 3, 0, 0, 0, time.UTC)))
	require.True(t, IsExpired(&deadline, time.Date(2025, time.March, 16, 4, 0, 0, 0, time.UTC)))
	require.False(t, IsExpired(&deadline, date(2025, time.March, 10)))
	require.True(t, IsExpired(&deadline, date(2025, time.April, 1)))
}

func TestInstantRollsOverMonths(t *testing.T) {
	deadline := date(2025, time.January, 31)
	require.Equal(t, time.Date(2025, time.February, 1, 4, 0, 0, 0, time.UTC), Instant(deadline))
}

func TestParseDeadline(t *testing.T) {
	parsed, err := ParseDeadline("2025-03-15")
	require.NoError(t, err)
	require.Equal(t, date(2025, time.March, 15), parsed.UTC())

	parsed, err = ParseDeadline("2025-03-15T18:30:00Z")
	require.NoError(t, err)
	require.Equal(t, 18, parsed.UTC().Hour())

	parsed, err = ParseDeadline("")
	require.NoError(t, err)
	require.Nil(t, parsed)

	_, err = ParseDeadline("15/03/2025")
	require.Error(t, err)
}
