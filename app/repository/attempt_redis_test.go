package repository_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/vibast-solutions/ms-go-contacts/app/entity"
	"github.com/vibast-solutions/ms-go-contacts/app/repository"

	"github.com/go-redis/redismock/v9"
)

const (
	redisPrefix   = "contacts:attempts"
	redisTotalKey = redisPrefix + ":total"
	redisLogKey   = redisPrefix + ":log"
)

func TestRedisAttemptRepository_Create(t *testing.T) {
	client, mock := redismock.NewClientMock()
	repo := repository.NewRedisAttemptRepository(client, redisPrefix, 50)

	attempt := &entity.Attempt{Payload: `{"name":"Ada"}`, CreatedAt: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	entry, err := json.Marshal(struct {
		Payload   string    `json:"payload"`
		Timestamp time.Time `json:"timestamp"`
	}{attempt.Payload, attempt.CreatedAt})
	if err != nil {
		t.Fatalf("failed to encode entry: %v", err)
	}

	mock.ExpectTxPipeline()
	mock.ExpectIncr(redisTotalKey).SetVal(6)
	mock.ExpectLPush(redisLogKey, string(entry)).SetVal(1)
	mock.ExpectLTrim(redisLogKey, 0, 49).SetVal("OK")
	mock.ExpectTxPipelineExec()

	if err := repo.Create(context.Background(), attempt); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if attempt.ID != 6 {
		t.Fatalf("expected ID 6, got %d", attempt.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRedisAttemptRepository_CountMissingKey(t *testing.T) {
	client, mock := redismock.NewClientMock()
	repo := repository.NewRedisAttemptRepository(client, redisPrefix, 0)

	mock.ExpectGet(redisTotalKey).RedisNil()

	count, err := repo.Count(context.Background())
	if err != nil || count != 0 {
		t.Fatalf("expected 0 attempts, got %d %v", count, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRedisAttemptRepository_CountError(t *testing.T) {
	client, mock := redismock.NewClientMock()
	repo := repository.NewRedisAttemptRepository(client, redisPrefix, 0)

	mock.ExpectGet(redisTotalKey).SetErr(errors.New("connection reset"))

	if _, err := repo.Count(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
}

func TestRedisAttemptRepository_DeleteAll(t *testing.T) {
	client, mock := redismock.NewClientMock()
	repo := repository.NewRedisAttemptRepository(client, redisPrefix, 0)

	mock.ExpectGet(redisTotalKey).SetVal("3")
	mock.ExpectDel(redisTotalKey, redisLogKey).SetVal(2)

	removed, err := repo.DeleteAll(context.Background())
	if err != nil || removed != 3 {
		t.Fatalf("expected 3 removed, got %d %v", removed, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
