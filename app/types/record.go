package types

import (
	"strings"
	"time"

	"github.com/vibast-solutions/ms-go-contacts/app/entity"

	"github.com/labstack/echo/v4"
)

const (
	StatusCreated   = "created"
	StatusDuplicate = "duplicate"
	StatusInvalid   = "invalid"
	StatusError     = "error"
	StatusUnique    = "unique"
)

type AddRecordRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address,omitempty"`
	Company string `json:"company,omitempty"`
}

func NewAddRecordRequestFromContext(ctx echo.Context) (*AddRecordRequest, error) {
	var body AddRecordRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}

	return &body, nil
}

// Sanitize trims every string field in place.
func (r *AddRecordRequest) Sanitize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Address = strings.TrimSpace(r.Address)
	r.Company = strings.TrimSpace(r.Company)
}

type RecordResponse struct {
	ID        uint64 `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	Company   string `json:"company"`
	Timestamp string `json:"timestamp"`
	Verified  bool   `json:"verified"`
}

func NewRecordResponse(record *entity.Record) *RecordResponse {
	if record == nil {
		return nil
	}
	return &RecordResponse{
		ID:        record.ID,
		Name:      record.Name,
		Email:     record.Email,
		Phone:     record.Phone,
		Address:   record.Address,
		Company:   record.Company,
		Timestamp: record.CreatedAt.UTC().Format(time.RFC3339Nano),
		Verified:  record.Verified,
	}
}

type AddRecordResponse struct {
	Status  string          `json:"status"`
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Record  *RecordResponse `json:"record,omitempty"`
	Errors  []string        `json:"errors,omitempty"`
}

type ValidateRecordResponse struct {
	Status          string          `json:"status"`
	Valid           bool            `json:"valid"`
	Message         string          `json:"message,omitempty"`
	DuplicateRecord *RecordResponse `json:"duplicate_record,omitempty"`
	Errors          []string        `json:"errors,omitempty"`
}

type DataResponse struct {
	Count int               `json:"count"`
	Data  []*RecordResponse `json:"data"`
	Error string            `json:"error,omitempty"`
}

type StatsResponse struct {
	TotalAttempts       int64  `json:"total_attempts"`
	UniqueEntries       int64  `json:"unique_entries"`
	DuplicatesPrevented int64  `json:"duplicates_prevented"`
	Efficiency          string `json:"efficiency"`
	Error               string `json:"error,omitempty"`
}

type ClearResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}
