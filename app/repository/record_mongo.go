package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vibast-solutions/ms-go-contacts/app/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

const (
	recordsCollection  = "entries"
	attemptsCollection = "attempts"
	countersCollection = "counters"

	recordsSequence = "entries"

	normalizedEmailIndex = "uq_normalized_email"
	normalizedPhoneIndex = "uq_normalized_phone"
)

type mongoRecordData struct {
	Name    string `bson:"name"`
	Email   string `bson:"email"`
	Phone   string `bson:"phone"`
	Address string `bson:"address"`
	Company string `bson:"company"`
}

// Normalized keys are omitted when empty so the sparse unique indexes skip them.
type mongoRecordDocument struct {
	EntryID         int64           `bson:"entry_id"`
	Data            mongoRecordData `bson:"data"`
	NormalizedEmail string          `bson:"normalized_email,omitempty"`
	NormalizedPhone string          `bson:"normalized_phone,omitempty"`
	Timestamp       time.Time       `bson:"timestamp"`
	Verified        bool            `bson:"verified"`
}

type mongoCounter struct {
	Seq int64 `bson:"seq"`
}

type MongoRecordRepository struct {
	client   *mongo.Client
	records  *mongo.Collection
	counters *mongo.Collection
}

// ConsistentCollectionOptions pins reads to the primary with majority concerns so an
// acknowledged insert is visible to the next duplicate check.
func ConsistentCollectionOptions() *options.CollectionOptions {
	return options.Collection().
		SetReadPreference(readpref.Primary()).
		SetReadConcern(readconcern.Majority()).
		SetWriteConcern(writeconcern.Majority())
}

func NewMongoRecordRepository(db *mongo.Database) *MongoRecordRepository {
	return &MongoRecordRepository{
		client:   db.Client(),
		records:  db.Collection(recordsCollection, ConsistentCollectionOptions()),
		counters: db.Collection(countersCollection, ConsistentCollectionOptions()),
	}
}

// EnsureIndexes declares the durable uniqueness constraints on the normalized keys.
func (r *MongoRecordRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.records.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "normalized_email", Value: 1}},
			Options: options.Index().SetName(normalizedEmailIndex).SetUnique(true).SetSparse(true),
		},
		{
			Keys:    bson.D{{Key: "normalized_phone", Value: 1}},
			Options: options.Index().SetName(normalizedPhoneIndex).SetUnique(true).SetSparse(true),
		},
		{
			Keys:    bson.D{{Key: "entry_id", Value: 1}},
			Options: options.Index().SetName("uq_entry_id").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("idx_timestamp"),
		},
	})
	return err
}

func (r *MongoRecordRepository) Create(ctx context.Context, record *entity.Record) error {
	id, err := r.nextID(ctx)
	if err != nil {
		return err
	}

	doc := mongoRecordDocument{
		EntryID: id,
		Data: mongoRecordData{
			Name:    record.Name,
			Email:   record.Email,
			Phone:   record.Phone,
			Address: record.Address,
			Company: record.Company,
		},
		NormalizedEmail: record.NormalizedEmail.String,
		NormalizedPhone: record.NormalizedPhone.String,
		Timestamp:       record.CreatedAt,
		Verified:        record.Verified,
	}
	if _, err = r.records.InsertOne(ctx, doc); err != nil {
		if isNormalizedKeyConflict(err) {
			return fmt.Errorf("%w: %v", ErrDuplicateKey, err)
		}
		return err
	}

	record.ID = uint64(id)
	return nil
}

// isNormalizedKeyConflict only accepts violations of the normalized key indexes. A clash on
// entry_id means the counter is behind the collection, which is not a duplicate contact.
func isNormalizedKeyConflict(err error) bool {
	var writeErr mongo.WriteException
	if !errors.As(err, &writeErr) {
		return false
	}
	for _, we := range writeErr.WriteErrors {
		if we.Code != mongoErrDuplicateKey {
			continue
		}
		if strings.Contains(we.Message, normalizedEmailIndex) || strings.Contains(we.Message, normalizedPhoneIndex) {
			return true
		}
	}
	return false
}

func (r *MongoRecordRepository) nextID(ctx context.Context) (int64, error) {
	var counter mongoCounter
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": recordsSequence},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, err
	}
	return counter.Seq, nil
}

func (r *MongoRecordRepository) FindByNormalized(ctx context.Context, normalizedEmail, normalizedPhone string) (*entity.Record, error) {
	var clauses bson.A
	if normalizedEmail != "" {
		clauses = append(clauses, bson.M{"normalized_email": normalizedEmail})
	}
	if normalizedPhone != "" {
		clauses = append(clauses, bson.M{"normalized_phone": normalizedPhone})
	}
	if len(clauses) == 0 {
		return nil, nil
	}

	var doc mongoRecordDocument
	err := r.records.FindOne(ctx,
		bson.M{"$or": clauses},
		options.FindOne().SetSort(bson.D{{Key: "entry_id", Value: 1}}),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return doc.toEntity(), nil
}

func (r *MongoRecordRepository) ListRecent(ctx context.Context, limit int) ([]*entity.Record, error) {
	cursor, err := r.records.Find(ctx,
		bson.M{"verified": true},
		options.Find().
			SetSort(bson.D{{Key: "timestamp", Value: -1}, {Key: "entry_id", Value: -1}}).
			SetLimit(int64(limit)),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []mongoRecordDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	records := make([]*entity.Record, 0, len(docs))
	for i := range docs {
		records = append(records, docs[i].toEntity())
	}
	return records, nil
}

func (r *MongoRecordRepository) Count(ctx context.Context, filter entity.RecordFilter) (int64, error) {
	query := bson.M{}
	if filter.VerifiedOnly {
		query["verified"] = true
	}
	return r.records.CountDocuments(ctx, query)
}

func (r *MongoRecordRepository) DeleteAll(ctx context.Context) (int64, error) {
	result, err := r.records.DeleteMany(ctx, bson.D{})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

func (r *MongoRecordRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx, readpref.Primary())
}

func (d *mongoRecordDocument) toEntity() *entity.Record {
	return &entity.Record{
		ID:              uint64(d.EntryID),
		Name:            d.Data.Name,
		Email:           d.Data.Email,
		Phone:           d.Data.Phone,
		Address:         d.Data.Address,
		Company:         d.Data.Company,
		NormalizedEmail: sql.NullString{String: d.NormalizedEmail, Valid: d.NormalizedEmail != ""},
		NormalizedPhone: sql.NullString{String: d.NormalizedPhone, Valid: d.NormalizedPhone != ""},
		Verified:        d.Verified,
		CreatedAt:       d.Timestamp,
	}
}
