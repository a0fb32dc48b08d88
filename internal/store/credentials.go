package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	apperrors "github.com/Custard69/BurnoutZero/internal/errors"
	"github.com/Custard69/BurnoutZero/internal/tokens"
)

// GetCredential returns the stored credential for a user and provider, or nil
// when no account is linked.
func (s *Store) GetCredential(ctx context.Context, userID, provider string) (*tokens.Credential, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var cred tokens.Credential
	err := s.collection(credentialsCollection).
		FindOne(ctx, bson.M{"user_id": userID, "provider": provider}).
		Decode(&cred)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewPersistenceError("failed to read credential", err)
	}
	return &cred, nil
}

// SaveCredential upserts a credential for a user and provider.
func (s *Store) SaveCredential(ctx context.Context, cred *tokens.Credential) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	filter := bson.M{"user_id": cred.UserID, "provider": cred.Provider}
	update := bson.M{"$set": cred}
	opts := options.Update().SetUpsert(true)

	if _, err := s.collection(credentialsCollection).UpdateOne(ctx, filter, update, opts); err != nil {
		return apperrors.NewPersistenceError("failed to save credential", err)
	}
	return nil
}
