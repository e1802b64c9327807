package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"walkrisk/internal/model"
)

type StatsRepo interface {
	Get(ctx context.Context, playerID string) (*model.PlayerStats, error)
	Save(ctx context.Context, stats *model.PlayerStats) error
}

type statsRepo struct {
	collection *mongo.Collection
}

func NewStatsRepo(db *mongo.Database) StatsRepo {
	return &statsRepo{
		collection: db.Collection("player_stats"),
	}
}

func (r *statsRepo) Get(ctx context.Context, playerID string) (*model.PlayerStats, error) {
	var stats model.PlayerStats
	err := r.collection.FindOne(ctx, bson.M{"_id": playerID}).Decode(&stats)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &stats, nil
}

func (r *statsRepo) Save(ctx context.Context, stats *model.PlayerStats) error {
	filter := bson.M{"_id": stats.PlayerID}
	update := bson.M{"$set": stats}
	opts := options.Update().SetUpsert(true)

	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	return err
}
