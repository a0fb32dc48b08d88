package store

import (
	"context"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	apperrors "github.com/Custard69/BurnoutZero/internal/errors"
	"github.com/Custard69/BurnoutZero/internal/types"
)

// MirrorCalendarEvents upserts fetched calendar events into the per-user
// event log, keyed by the upstream event ID so repeated fetches stay
// idempotent.
func (s *Store) MirrorCalendarEvents(ctx context.Context, userID string, events []types.CalendarEvent) error {
	if len(events) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	models := make([]mongo.WriteModel, 0, len(events))
	for _, ev := range events {
		if ev.ID == "" {
			ev.ID = uuid.NewString()
		}
		filter := bson.M{"user_id": userID, "event_id": ev.EventID}
		update := bson.M{"$set": bson.M{
			"user_id":  userID,
			"event_id": ev.EventID,
			"summary":  ev.Summary,
			"start":    ev.Start,
			"end":      ev.End,
		}, "$setOnInsert": bson.M{"_id": ev.ID}}
		models = append(models,
			mongo.NewUpdateOneModel().SetFilter(filter).SetUpdate(update).SetUpsert(true))
	}

	if _, err := s.collection(eventsCollection).BulkWrite(ctx, models); err != nil {
		return apperrors.NewPersistenceError("failed to mirror calendar events", err)
	}
	return nil
}

// CalendarEvents returns a user's mirrored calendar events, newest first.
func (s *Store) CalendarEvents(ctx context.Context, userID string) ([]types.CalendarEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "start", Value: -1}})
	cursor, err := s.collection(eventsCollection).Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, apperrors.NewPersistenceError("failed to read calendar events", err)
	}
	defer cursor.Close(ctx)

	var out []types.CalendarEvent
	if err := cursor.All(ctx, &out); err != nil {
		return nil, apperrors.NewPersistenceError("failed to decode calendar events", err)
	}
	return out, nil
}
