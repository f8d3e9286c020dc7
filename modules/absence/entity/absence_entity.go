package entity

import (
	"time"

	"bandmate-api/core/entity"

	"github.com/google/uuid"
)

// Absence marks a date range in which a member is unavailable for
// band activities. Dates are inclusive on both ends.
type Absence struct {
	BandID   uuid.UUID `db:"band_id" json:"band_id"`
	UserID   uuid.UUID `db:"user_id" json:"user_id"`
	FromDate time.Time `db:"from_date" json:"from_date"`
	ToDate   time.Time `db:"to_date" json:"to_date"`
	Reason   *string   `db:"reason" json:"reason"`
	entity.BaseEntity
}
