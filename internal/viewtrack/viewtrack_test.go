package viewtrack

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShouldCountFirstView(t *testing.T) {
	now := time.Now()

	counts, updated := ShouldCount(nil, 42, now)

	assert.True(t, counts)
	require.Len(t, updated, 1)
	assert.Equal(t, int64(42), updated[0].PostID)
}

func TestShouldCountOncePerWindow(t *testing.T) {
	now := time.Now()

	counts, records := ShouldCount(nil, 42, now)
	assert.True(t, counts)

	// Second view inside the window does not count.
	counts, records = ShouldCount(records, 42, now.Add(time.Hour))
	assert.False(t, counts)
	assert.Len(t, records, 1)

	// After the entry expires the view counts again.
	counts, records = ShouldCount(records, 42, now.Add(25*time.Hour))
	assert.True(t, counts)
	assert.Len(t, records, 1)
}

func TestShouldCountPrunesExpiredEntries(t *testing.T) {
	now := time.Now()
	records := []ViewRecord{
		{PostID: 1, ViewedAt: now.Add(-30 * time.Hour)},
		{PostID: 2, ViewedAt: now.Add(-1 * time.Hour)},
		{PostID: 3, ViewedAt: now.Add(-25 * time.Hour)},
		{PostID: 4, ViewedAt: now.Add(-23 * time.Hour)},
	}

	counts, pruned := ShouldCount(records, 2, now)

	assert.False(t, counts)
	require.Len(t, pruned, 2)
	assert.Equal(t, int64(2), pruned[0].PostID)
	assert.Equal(t, int64(4), pruned[1].PostID)

	// Pruning is idempotent: re-running on the pruned list is a no-op.
	counts, again := ShouldCount(pruned, 2, now)
	assert.False(t, counts)
	assert.Equal(t, pruned, again)
}

func TestShouldCountCapsEntries(t *testing.T) {
	now := time.Now()
	records := make([]ViewRecord, MaxEntries)
	for i := range records {
		records[i] = ViewRecord{PostID: int64(i + 1), ViewedAt: now.Add(-time.Minute)}
	}

	counts, updated := ShouldCount(records, 999, now)

	assert.True(t, counts)
	require.Len(t, updated, MaxEntries)
	// Oldest entry drops, newest survives.
	assert.Equal(t, int64(2), updated[0].PostID)
	assert.Equal(t, int64(999), updated[MaxEntries-1].PostID)
}

func TestDecodeCorruptCookie(t *testing.T) {
	assert.Nil(t, Decode(""))
	assert.Nil(t, Decode("not json at all"))
	assert.Nil(t, Decode("%ZZ"))
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	records := []ViewRecord{
		{PostID: 7, ViewedAt: now},
		{PostID: 9, ViewedAt: now.Add(-time.Hour)},
	}

	decoded := Decode(Encode(records))

	require.Len(t, decoded, 2)
	assert.Equal(t, int64(7), decoded[0].PostID)
	assert.True(t, decoded[0].ViewedAt.Equal(now))
}
