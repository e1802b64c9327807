package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"walkrisk/internal/model"
)

type PuzzleRepo interface {
	Create(ctx context.Context, puzzle *model.Puzzle) error
	GetByID(ctx context.Context, id string) (*model.Puzzle, error)
	List(ctx context.Context, filter model.PuzzleFilter) ([]*model.Puzzle, int64, error)
}

type puzzleRepo struct {
	collection *mongo.Collection
}

func NewPuzzleRepo(db *mongo.Database) PuzzleRepo {
	return &puzzleRepo{
		collection: db.Collection("puzzles"),
	}
}

func (r *puzzleRepo) Create(ctx context.Context, puzzle *model.Puzzle) error {
	if puzzle.ID == "" {
		puzzle.ID = primitive.NewObjectID().Hex()
	}
	if puzzle.CreatedAt.IsZero() {
		puzzle.CreatedAt = time.Now()
	}

	_, err := r.collection.InsertOne(ctx, puzzle)
	return err
}

func (r *puzzleRepo) GetByID(ctx context.Context, id string) (*model.Puzzle, error) {
	var puzzle model.Puzzle
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&puzzle)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &puzzle, nil
}

func (r *puzzleRepo) List(ctx context.Context, filter model.PuzzleFilter) ([]*model.Puzzle, int64, error) {
	query := bson.M{}
	if filter.Difficulty != "" {
		query["difficulty"] = filter.Difficulty
	}
	if filter.Type != "" {
		query["type"] = filter.Type
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.M{"createdAt": -1}).
		SetSkip(int64(filter.Offset)).
		SetLimit(int64(filter.Limit))

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var puzzles []*model.Puzzle
	if err = cursor.All(ctx, &puzzles); err != nil {
		return nil, 0, err
	}

	return puzzles, total, nil
}
