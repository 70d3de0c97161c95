package config

import (
	"context"
	"time"

	mongorepo "github.com/yoockh/hirescreen/internal/repositories/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	transcripts := db.Collection(mongorepo.TranscriptCollection)
	_, err := transcripts.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "interview_id", Value: 1}},
			Options: options.Index().SetName("by_interview"),
		},
		{
			Keys:    bson.D{{Key: "application_id", Value: 1}, {Key: "archived_at", Value: -1}},
			Options: options.Index().SetName("by_application_archived"),
		},
	})
	return err
}
