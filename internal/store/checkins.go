package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	apperrors "github.com/Custard69/BurnoutZero/internal/errors"
	"github.com/Custard69/BurnoutZero/internal/types"
)

// stamp assigns a write timestamp for the user's next record. BSON datetimes
// carry millisecond precision, so the clock reading is truncated to the
// millisecond up front; when a fast writer lands twice inside the same
// millisecond the stamp is bumped one past the user's previous write, keeping
// read-back order strict.
func (s *Store) stamp(userID string) time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC().Truncate(time.Millisecond)
	if last, ok := s.lastStamp[userID]; ok && !now.After(last) {
		now = last.Add(time.Millisecond)
	}
	s.lastStamp[userID] = now
	return now
}

// InsertCheckin appends one scored check-in record. The timestamp is assigned
// here, at write time, never taken from the client; for a single writer this
// keeps a user's records strictly ordered. The insert is a single document
// write, so a failed request never leaves a partial record behind.
func (s *Store) InsertCheckin(ctx context.Context, rec *types.CheckinRecord) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rec.ID = uuid.NewString()
	rec.Timestamp = s.stamp(rec.UserID)

	if _, err := s.collection(checkinsCollection).InsertOne(ctx, rec); err != nil {
		return apperrors.NewPersistenceError("failed to store check-in", err)
	}
	return nil
}

// RecentCheckins returns a user's check-ins ordered newest first, bounded to
// the most recent limit records. limit <= 0 means no bound.
func (s *Store) RecentCheckins(ctx context.Context, userID string, limit int64) ([]types.CheckinRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(limit)
	}

	cursor, err := s.collection(checkinsCollection).Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, apperrors.NewPersistenceError("failed to read check-in history", err)
	}
	defer cursor.Close(ctx)

	var out []types.CheckinRecord
	if err := cursor.All(ctx, &out); err != nil {
		return nil, apperrors.NewPersistenceError("failed to decode check-in history", err)
	}
	return out, nil
}
