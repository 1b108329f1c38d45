package entity

import (
	"database/sql"
	"time"
)

type Record struct {
	ID              uint64
	Name            string
	Email           string
	Phone           string
	Address         string
	Company         string
	NormalizedEmail sql.NullString
	NormalizedPhone sql.NullString
	Verified        bool
	CreatedAt       time.Time
}

type RecordFilter struct {
	VerifiedOnly bool
}
