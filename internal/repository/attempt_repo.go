package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"walkrisk/internal/model"
)

// AttemptRepo persists attempts keyed by (playerId, puzzleId). One attempt
// exists per pair; attempts are never deleted by the engine.
type AttemptRepo interface {
	Get(ctx context.Context, playerID, puzzleID string) (*model.Attempt, error)
	Save(ctx context.Context, attempt *model.Attempt) error
}

type attemptRepo struct {
	collection *mongo.Collection
}

func NewAttemptRepo(db *mongo.Database) AttemptRepo {
	return &attemptRepo{
		collection: db.Collection("attempts"),
	}
}

func (r *attemptRepo) Get(ctx context.Context, playerID, puzzleID string) (*model.Attempt, error) {
	var attempt model.Attempt
	err := r.collection.FindOne(ctx, bson.M{"playerId": playerID, "puzzleId": puzzleID}).Decode(&attempt)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &attempt, nil
}

func (r *attemptRepo) Save(ctx context.Context, attempt *model.Attempt) error {
	if attempt.ID == "" {
		attempt.ID = primitive.NewObjectID().Hex()
	}

	filter := bson.M{"playerId": attempt.PlayerID, "puzzleId": attempt.PuzzleID}
	update := bson.M{"$set": attempt}
	opts := options.Update().SetUpsert(true)

	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	return err
}
