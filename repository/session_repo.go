package repository

import (
	"context"
	"errors"

	"github.com/tieubaoca/line-assistant-be/types"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"
)

type SessionRepo interface {
	// FindByUserID returns (nil, nil) when no session record exists.
	FindByUserID(ctx context.Context, lineUserID string) (*types.ChatSession, error)
	Upsert(ctx context.Context, session *types.ChatSession) error
	// ListByMode returns sessions in the given mode, most recently active first.
	ListByMode(ctx context.Context, mode types.Mode) ([]*types.ChatSession, error)
}

type sessionRepo struct {
	collection *mongo.Collection
}

func NewSessionRepo(db *mongo.Database) SessionRepo {
	collection := db.Collection("chat_sessions")

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "line_user_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "mode", Value: 1},
				{Key: "last_active", Value: -1},
			},
		},
	}
	if _, err := collection.Indexes().CreateMany(context.Background(), indexes); err != nil {
		zap.L().Warn("failed to ensure chat_sessions indexes", zap.Error(err))
	}

	return &sessionRepo{
		collection: collection,
	}
}

func (r *sessionRepo) FindByUserID(ctx context.Context, lineUserID string) (*types.ChatSession, error) {
	var session types.ChatSession
	err := r.collection.FindOne(ctx, bson.M{"line_user_id": lineUserID}).Decode(&session)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepo) Upsert(ctx context.Context, session *types.ChatSession) error {
	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"line_user_id": session.LineUserID},
		bson.M{"$set": bson.M{
			"mode":        session.Mode,
			"last_active": session.LastActive,
		}},
		options.UpdateOne().SetUpsert(true),
	)
	return err
}

func (r *sessionRepo) ListByMode(ctx context.Context, mode types.Mode) ([]*types.ChatSession, error) {
	cursor, err := r.collection.Find(
		ctx,
		bson.M{"mode": mode},
		options.Find().SetSort(bson.D{{Key: "last_active", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var sessions []*types.ChatSession
	for cursor.Next(ctx) {
		var session types.ChatSession
		if err := cursor.Decode(&session); err != nil {
			return nil, err
		}
		sessions = append(sessions, &session)
	}
	return sessions, cursor.Err()
}
