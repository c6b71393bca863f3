package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransportRecord tracks one freight/transport expense for incoming stock.
// Records are append-only — corrections are new entries with a note.
type TransportRecord struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Date          time.Time       `gorm:"index;not null"`
	Supplier      string          `gorm:"not null"`
	VehicleNumber *string         `gorm:"type:varchar(30)"`
	Cost          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Notes         *string
	CreatedAt     time.Time
}

func (TransportRecord) TableName() string { return "transport_records" }
