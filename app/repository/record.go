package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/vibast-solutions/ms-go-contacts/app/entity"
)

const recordColumns = `id, name, email, phone, address, company, normalized_email, normalized_phone, verified, created_at`

type RecordRepository struct {
	db *sql.DB
}

func NewRecordRepository(db *sql.DB) *RecordRepository {
	return &RecordRepository{db: db}
}

func (r *RecordRepository) Create(ctx context.Context, record *entity.Record) error {
	query := `
		INSERT INTO records (name, email, phone, address, company, normalized_email, normalized_phone, verified, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	result, err := r.db.ExecContext(ctx, query,
		record.Name,
		record.Email,
		record.Phone,
		record.Address,
		record.Company,
		record.NormalizedEmail,
		record.NormalizedPhone,
		record.Verified,
		record.CreatedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("%w: %v", ErrDuplicateKey, err)
		}
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	record.ID = uint64(id)
	return nil
}

// FindByNormalized returns the record whose normalized email or normalized phone matches.
// Empty keys are left out of the predicate; with no keys at all the store is not queried.
func (r *RecordRepository) FindByNormalized(ctx context.Context, normalizedEmail, normalizedPhone string) (*entity.Record, error) {
	var (
		predicates []string
		args       []any
	)
	if normalizedEmail != "" {
		predicates = append(predicates, "normalized_email = ?")
		args = append(args, normalizedEmail)
	}
	if normalizedPhone != "" {
		predicates = append(predicates, "normalized_phone = ?")
		args = append(args, normalizedPhone)
	}
	if len(predicates) == 0 {
		return nil, nil
	}

	query := `
		SELECT ` + recordColumns + `
		FROM records WHERE ` + strings.Join(predicates, " OR ") + `
		ORDER BY id ASC
		LIMIT 1
	`
	record, err := scanRecord(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *RecordRepository) ListRecent(ctx context.Context, limit int) ([]*entity.Record, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM records WHERE verified = 1
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]*entity.Record, 0, limit)
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *RecordRepository) Count(ctx context.Context, filter entity.RecordFilter) (int64, error) {
	query := `SELECT COUNT(*) FROM records`
	if filter.VerifiedOnly {
		query += ` WHERE verified = 1`
	}

	var count int64
	if err := r.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *RecordRepository) DeleteAll(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM records`)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *RecordRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*entity.Record, error) {
	record := &entity.Record{}
	err := row.Scan(
		&record.ID,
		&record.Name,
		&record.Email,
		&record.Phone,
		&record.Address,
		&record.Company,
		&record.NormalizedEmail,
		&record.NormalizedPhone,
		&record.Verified,
		&record.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return record, nil
}
