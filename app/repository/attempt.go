package repository

import (
	"context"
	"database/sql"

	"github.com/vibast-solutions/ms-go-contacts/app/entity"
)

type AttemptRepository struct {
	db *sql.DB
}

func NewAttemptRepository(db *sql.DB) *AttemptRepository {
	return &AttemptRepository{db: db}
}

func (r *AttemptRepository) Create(ctx context.Context, attempt *entity.Attempt) error {
	query := `INSERT INTO attempts (payload, created_at) VALUES (?, ?)`
	result, err := r.db.ExecContext(ctx, query, attempt.Payload, attempt.CreatedAt)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	attempt.ID = uint64(id)
	return nil
}

func (r *AttemptRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM attempts`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *AttemptRepository) DeleteAll(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM attempts`)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
