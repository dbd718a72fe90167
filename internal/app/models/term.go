package models

import (
	"time"
)

// Term is a canonical academic term row. Rows are produced by the SIS import
// normalizer; the heterogeneous upstream record is kept in Raw for auditing.
type Term struct {
	ID        int64      `json:"id" db:"id"`
	SISTermID string     `json:"sisTermId" db:"sis_term_id"`
	Name      string     `json:"name" db:"name"`
	StartDate *time.Time `json:"startDate,omitempty" db:"start_date"`
	IsActive  bool       `json:"isActive" db:"is_active"`
	Raw       []byte     `json:"-" db:"raw"`
}
