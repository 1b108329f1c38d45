package repository

import (
	"context"

	"github.com/vibast-solutions/ms-go-contacts/app/entity"
)

type RecordStore interface {
	Create(ctx context.Context, record *entity.Record) error
	FindByNormalized(ctx context.Context, normalizedEmail, normalizedPhone string) (*entity.Record, error)
	ListRecent(ctx context.Context, limit int) ([]*entity.Record, error)
	Count(ctx context.Context, filter entity.RecordFilter) (int64, error)
	DeleteAll(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error
}

type AttemptStore interface {
	Create(ctx context.Context, attempt *entity.Attempt) error
	Count(ctx context.Context) (int64, error)
	DeleteAll(ctx context.Context) (int64, error)
}

var (
	_ RecordStore = (*RecordRepository)(nil)
	_ RecordStore = (*MongoRecordRepository)(nil)
	_ RecordStore = (*DisconnectedStore)(nil)

	_ AttemptStore = (*AttemptRepository)(nil)
	_ AttemptStore = (*MongoAttemptRepository)(nil)
	_ AttemptStore = (*RedisAttemptRepository)(nil)
	_ AttemptStore = DisconnectedAttemptStore{}
)
