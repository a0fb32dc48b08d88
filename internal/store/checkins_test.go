package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/Custard69/BurnoutZero/internal/types"
)

func newStampStore() *Store {
	return &Store{lastStamp: make(map[string]time.Time)}
}

func TestStampIsStrictlyIncreasingPerUser(t *testing.T) {
	s := newStampStore()

	prev := s.stamp("u1")
	for i := 0; i < 100; i++ {
		next := s.stamp("u1")
		require.True(t, next.After(prev), "stamp %d not after previous: %v vs %v", i, next, prev)
		prev = next
	}
}

func TestStampHasMillisecondPrecision(t *testing.T) {
	s := newStampStore()

	got := s.stamp("u1")
	assert.Equal(t, got, got.Truncate(time.Millisecond))
	assert.Equal(t, time.UTC, got.Location())
}

func TestStampIsolatesUsers(t *testing.T) {
	s := newStampStore()

	// One user's clock running ahead must not drag another user's stamps
	// forward with it.
	ahead := time.Now().UTC().Add(time.Hour).Truncate(time.Millisecond)
	s.lastStamp["a"] = ahead

	b := s.stamp("b")
	assert.True(t, b.Before(ahead))

	a := s.stamp("a")
	assert.Equal(t, ahead.Add(time.Millisecond), a)
}

func TestStampedTimestampsSurviveBSONRoundTrip(t *testing.T) {
	// Back-to-back writes land in the same wall-clock millisecond; the
	// ordering must still hold after the millisecond truncation a BSON
	// datetime applies on the way to disk.
	s := newStampStore()

	records := []types.CheckinRecord{
		{ID: "r1", UserID: "u1", Timestamp: s.stamp("u1")},
		{ID: "r2", UserID: "u1", Timestamp: s.stamp("u1")},
		{ID: "r3", UserID: "u1", Timestamp: s.stamp("u1")},
	}

	back := make([]types.CheckinRecord, len(records))
	for i, rec := range records {
		data, err := bson.Marshal(rec)
		require.NoError(t, err)
		require.NoError(t, bson.Unmarshal(data, &back[i]))
	}

	for i := 1; i < len(back); i++ {
		assert.True(t, back[i].Timestamp.After(back[i-1].Timestamp),
			"record %d read back at %v, not after %v", i, back[i].Timestamp, back[i-1].Timestamp)
	}
}
