package initiation_test

import (
	"testing"
	"time"

	"github.com/fiberdirekt/bankid-auth/bankid/initiation"
	"github.com/stretchr/testify/require"
)

const testPersonalNumber = "198001011234"

func newTrackerAt(start time.Time) (*initiation.Tracker, *time.Time) {
	now := start
	tracker := initiation.New(initiation.WithNowTime(func() time.Time { return now }))
	return tracker, &now
}

func TestBeginRejectsDuplicateWithinStalenessWindow(t *testing.T) {
	tracker, now := newTrackerAt(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))

	require.NoError(t, tracker.Begin(testPersonalNumber))

	*now = now.Add(10 * time.Second)
	require.ErrorIs(t, tracker.Begin(testPersonalNumber), initiation.ErrAlreadyInProgress)

	// Past the staleness threshold the old record counts as abandoned
	*now = now.Add(25 * time.Second)
	require.NoError(t, tracker.Begin(testPersonalNumber))
}

func TestBeginDifferentIdentitiesDoNotConflict(t *testing.T) {
	tracker, _ := newTrackerAt(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))

	require.NoError(t, tracker.Begin("198001011234"))
	require.NoError(t, tracker.Begin("199012312345"))
}

func TestHasOngoingDeletesStaleRecord(t *testing.T) {
	tracker, now := newTrackerAt(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))

	require.NoError(t, tracker.Begin(testPersonalNumber))
	require.True(t, tracker.HasOngoing(testPersonalNumber))

	*now = now.Add(31 * time.Second)
	require.False(t, tracker.HasOngoing(testPersonalNumber))
	require.Equal(t, 0, tracker.Len())
}

func TestClearIsIdempotent(t *testing.T) {
	tracker, _ := newTrackerAt(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))

	require.NoError(t, tracker.Begin(testPersonalNumber))
	tracker.Clear(testPersonalNumber)
	require.False(t, tracker.HasOngoing(testPersonalNumber))

	tracker.Clear(testPersonalNumber) // absent record, no-op
	require.NoError(t, tracker.Begin(testPersonalNumber))
}

func TestSweepStaleRemovesOnlyOldRecords(t *testing.T) {
	tracker, now := newTrackerAt(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))

	require.NoError(t, tracker.Begin("old-1"))
	require.NoError(t, tracker.Begin("old-2"))

	*now = now.Add(6 * time.Minute)
	require.NoError(t, tracker.Begin("fresh"))

	tracker.SweepStale()

	require.Equal(t, 1, tracker.Len())
	require.True(t, tracker.HasOngoing("fresh"))
}

func TestBeginRequiresPersonalNumber(t *testing.T) {
	tracker, _ := newTrackerAt(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	require.Error(t, tracker.Begin(""))
}
