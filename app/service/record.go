package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vibast-solutions/ms-go-contacts/app/dto"
	"github.com/vibast-solutions/ms-go-contacts/app/entity"
	"github.com/vibast-solutions/ms-go-contacts/app/metrics"
	"github.com/vibast-solutions/ms-go-contacts/app/repository"
	"github.com/vibast-solutions/ms-go-contacts/app/types"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var (
	ErrDuplicateRecord    = errors.New("record already exists")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

const defaultStoreTimeout = 5 * time.Second

// ValidationError carries every problem found in a submission.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Errors, "; ")
}

// DuplicateError reports the record a submission collided with. ByConstraint is set when
// the unique index caught the collision rather than the pre-check.
type DuplicateError struct {
	Existing     *entity.Record
	ByConstraint bool
}

func (e *DuplicateError) Error() string {
	return ErrDuplicateRecord.Error()
}

func (e *DuplicateError) Is(target error) bool {
	return target == ErrDuplicateRecord
}

type recordRepository interface {
	Create(ctx context.Context, record *entity.Record) error
	FindByNormalized(ctx context.Context, normalizedEmail, normalizedPhone string) (*entity.Record, error)
	ListRecent(ctx context.Context, limit int) ([]*entity.Record, error)
	Count(ctx context.Context, filter entity.RecordFilter) (int64, error)
	DeleteAll(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error
}

type attemptRepository interface {
	Create(ctx context.Context, attempt *entity.Attempt) error
	Count(ctx context.Context) (int64, error)
	DeleteAll(ctx context.Context) (int64, error)
}

type RecordService interface {
	Add(ctx context.Context, req *types.AddRecordRequest) (*entity.Record, error)
	Check(ctx context.Context, req *types.AddRecordRequest) error
	FindDuplicate(ctx context.Context, normalizedEmail, normalizedPhone string) (*entity.Record, error)
	ListRecent(ctx context.Context, limit int) ([]*entity.Record, error)
	Stats(ctx context.Context) (*dto.StatsResult, error)
	Clear(ctx context.Context) (*dto.ClearResult, error)
	Health(ctx context.Context) error
}

type AsyncRunner func(task func())

type RecordServiceOption func(*recordService)

type recordService struct {
	recordRepo  recordRepository
	attemptRepo attemptRepository
	timeout     time.Duration
	asyncRunner AsyncRunner
	metrics     *metrics.Metrics
	now         func() time.Time
}

func NewRecordService(recordRepo recordRepository, attemptRepo attemptRepository, opts ...RecordServiceOption) RecordService {
	svc := &recordService{
		recordRepo:  recordRepo,
		attemptRepo: attemptRepo,
		timeout:     defaultStoreTimeout,
		asyncRunner: func(task func()) {
			go task()
		},
		now: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

func WithAsyncRunner(runner AsyncRunner) RecordServiceOption {
	return func(s *recordService) {
		if runner != nil {
			s.asyncRunner = runner
		}
	}
}

func WithStoreTimeout(timeout time.Duration) RecordServiceOption {
	return func(s *recordService) {
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}

func WithMetrics(m *metrics.Metrics) RecordServiceOption {
	return func(s *recordService) {
		s.metrics = m
	}
}

func WithClock(now func() time.Time) RecordServiceOption {
	return func(s *recordService) {
		if now != nil {
			s.now = now
		}
	}
}

func (s *recordService) Add(ctx context.Context, req *types.AddRecordRequest) (*entity.Record, error) {
	s.trackAttempt(req)

	record, err := s.add(ctx, req)
	s.metrics.IncrementAddRequests(addOutcome(err))
	return record, err
}

func (s *recordService) add(ctx context.Context, req *types.AddRecordRequest) (*entity.Record, error) {
	req.Sanitize()

	normalizedEmail, normalizedPhone, err := s.normalizeAndValidate(req)
	if err != nil {
		return nil, err
	}

	existing, err := s.FindDuplicate(ctx, normalizedEmail, normalizedPhone)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &DuplicateError{Existing: existing}
	}

	record := &entity.Record{
		Name:            NormalizeName(req.Name),
		Email:           req.Email,
		Phone:           req.Phone,
		Address:         req.Address,
		Company:         req.Company,
		NormalizedEmail: nullString(normalizedEmail),
		NormalizedPhone: nullString(normalizedPhone),
		Verified:        true,
		CreatedAt:       s.now(),
	}

	storeCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err = s.recordRepo.Create(storeCtx, record); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			// A concurrent request won the race past the pre-check.
			existing, findErr := s.FindDuplicate(ctx, normalizedEmail, normalizedPhone)
			if findErr != nil {
				logrus.WithError(findErr).Warn("Failed to load record after duplicate key")
				return nil, findErr
			}
			if existing == nil {
				return nil, fmt.Errorf("unique constraint rejected the record but no conflicting record exists: %w", err)
			}
			return nil, &DuplicateError{Existing: existing, ByConstraint: true}
		}
		return nil, s.storageError(err)
	}

	return record, nil
}

func (s *recordService) Check(ctx context.Context, req *types.AddRecordRequest) error {
	req.Sanitize()

	normalizedEmail, normalizedPhone, err := s.normalizeAndValidate(req)
	if err != nil {
		return err
	}

	existing, err := s.FindDuplicate(ctx, normalizedEmail, normalizedPhone)
	if err != nil {
		return err
	}
	if existing != nil {
		return &DuplicateError{Existing: existing}
	}
	return nil
}

// FindDuplicate looks up a record by normalized email OR normalized phone in one query.
func (s *recordService) FindDuplicate(ctx context.Context, normalizedEmail, normalizedPhone string) (*entity.Record, error) {
	if normalizedEmail == "" && normalizedPhone == "" {
		return nil, nil
	}

	storeCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	existing, err := s.recordRepo.FindByNormalized(storeCtx, normalizedEmail, normalizedPhone)
	if err != nil {
		return nil, s.storageError(err)
	}
	return existing, nil
}

func (s *recordService) ListRecent(ctx context.Context, limit int) ([]*entity.Record, error) {
	storeCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	records, err := s.recordRepo.ListRecent(storeCtx, limit)
	if err != nil {
		return nil, s.storageError(err)
	}
	return records, nil
}

func (s *recordService) Stats(ctx context.Context) (*dto.StatsResult, error) {
	storeCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var attempts, unique int64
	g, gctx := errgroup.WithContext(storeCtx)
	g.Go(func() error {
		var err error
		attempts, err = s.attemptRepo.Count(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		unique, err = s.recordRepo.Count(gctx, entity.RecordFilter{VerifiedOnly: true})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, s.storageError(err)
	}

	prevented := attempts - unique
	if prevented < 0 {
		prevented = 0
	}

	return &dto.StatsResult{
		TotalAttempts:       attempts,
		UniqueEntries:       unique,
		DuplicatesPrevented: prevented,
		Efficiency:          FormatEfficiency(unique, attempts),
	}, nil
}

// Clear removes every record and attempt. Callers are responsible for gating it.
func (s *recordService) Clear(ctx context.Context) (*dto.ClearResult, error) {
	storeCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	records, err := s.recordRepo.DeleteAll(storeCtx)
	if err != nil {
		return nil, s.storageError(err)
	}
	s.metrics.AddRecordsCleared(records)

	attempts, err := s.attemptRepo.DeleteAll(storeCtx)
	if err != nil {
		logrus.WithError(err).Warn("Failed to clear attempts")
	}

	return &dto.ClearResult{RecordsRemoved: records, AttemptsRemoved: attempts}, nil
}

func (s *recordService) Health(ctx context.Context) error {
	storeCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.recordRepo.Ping(storeCtx); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return nil
}

// FormatEfficiency renders unique/attempts as a percentage with one decimal.
func FormatEfficiency(unique, attempts int64) string {
	if attempts < 1 {
		attempts = 1
	}
	return fmt.Sprintf("%.1f%%", float64(unique)/float64(attempts)*100)
}

func (s *recordService) normalizeAndValidate(req *types.AddRecordRequest) (string, string, error) {
	if errs := ValidateSubmission(req.Name, req.Email, req.Phone); len(errs) > 0 {
		return "", "", &ValidationError{Errors: errs}
	}
	return NormalizeEmail(req.Email), NormalizePhone(req.Phone), nil
}

func (s *recordService) trackAttempt(req *types.AddRecordRequest) {
	payload, err := json.Marshal(req)
	if err != nil {
		logrus.WithError(err).Warn("Failed to encode attempt payload")
		return
	}
	attempt := &entity.Attempt{Payload: string(payload), CreatedAt: s.now()}

	s.asyncRunner(func() {
		trackCtx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		if trackErr := s.attemptRepo.Create(trackCtx, attempt); trackErr != nil {
			s.metrics.IncrementAttemptTrackingFailures()
			logrus.WithError(trackErr).Warn("Failed to record attempt")
		}
	})
}

func (s *recordService) storageError(err error) error {
	if repository.IsUnavailable(err) {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return err
}

func addOutcome(err error) string {
	var validationErr *ValidationError
	switch {
	case err == nil:
		return types.StatusCreated
	case errors.As(err, &validationErr):
		return types.StatusInvalid
	case errors.Is(err, ErrDuplicateRecord):
		return types.StatusDuplicate
	default:
		return types.StatusError
	}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
