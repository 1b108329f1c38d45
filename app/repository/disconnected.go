package repository

import (
	"context"
	"fmt"

	"github.com/vibast-solutions/ms-go-contacts/app/entity"
)

// DisconnectedStore stands in for the record and attempt stores when the database could
// not be reached at startup. Every call fails with ErrNotConnected; Ping also reports the
// startup failure.
type DisconnectedStore struct {
	cause error
}

func NewDisconnectedStore(cause error) *DisconnectedStore {
	return &DisconnectedStore{cause: cause}
}

func (s *DisconnectedStore) Create(context.Context, *entity.Record) error {
	return ErrNotConnected
}

func (s *DisconnectedStore) FindByNormalized(context.Context, string, string) (*entity.Record, error) {
	return nil, ErrNotConnected
}

func (s *DisconnectedStore) ListRecent(context.Context, int) ([]*entity.Record, error) {
	return nil, ErrNotConnected
}

func (s *DisconnectedStore) Count(context.Context, entity.RecordFilter) (int64, error) {
	return 0, ErrNotConnected
}

func (s *DisconnectedStore) DeleteAll(context.Context) (int64, error) {
	return 0, ErrNotConnected
}

func (s *DisconnectedStore) Ping(context.Context) error {
	if s.cause == nil {
		return ErrNotConnected
	}
	return fmt.Errorf("%w: %v", ErrNotConnected, s.cause)
}

type DisconnectedAttemptStore struct{}

func (DisconnectedAttemptStore) Create(context.Context, *entity.Attempt) error {
	return ErrNotConnected
}

func (DisconnectedAttemptStore) Count(context.Context) (int64, error) {
	return 0, ErrNotConnected
}

func (DisconnectedAttemptStore) DeleteAll(context.Context) (int64, error) {
	return 0, ErrNotConnected
}
