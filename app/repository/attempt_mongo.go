package repository

import (
	"context"
	"time"

	"github.com/vibast-solutions/ms-go-contacts/app/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type mongoAttemptDocument struct {
	Payload   string    `bson:"payload"`
	Timestamp time.Time `bson:"timestamp"`
}

type MongoAttemptRepository struct {
	attempts *mongo.Collection
}

func NewMongoAttemptRepository(db *mongo.Database) *MongoAttemptRepository {
	return &MongoAttemptRepository{attempts: db.Collection(attemptsCollection)}
}

func (r *MongoAttemptRepository) Create(ctx context.Context, attempt *entity.Attempt) error {
	_, err := r.attempts.InsertOne(ctx, mongoAttemptDocument{
		Payload:   attempt.Payload,
		Timestamp: attempt.CreatedAt,
	})
	return err
}

func (r *MongoAttemptRepository) Count(ctx context.Context) (int64, error) {
	return r.attempts.CountDocuments(ctx, bson.D{})
}

func (r *MongoAttemptRepository) DeleteAll(ctx context.Context) (int64, error) {
	result, err := r.attempts.DeleteMany(ctx, bson.D{})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}
