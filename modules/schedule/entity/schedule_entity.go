package entity

import (
	"time"

	"bandmate-api/core/entity"

	"github.com/google/uuid"
)

// ItemKind distinguishes rehearsals (three-valued votes) from events
// (two-valued votes).
type ItemKind string

const (
	KindRehearsal ItemKind = "rehearsal"
	KindEvent     ItemKind = "event"
)

func (k ItemKind) Valid() bool {
	return k == KindRehearsal || k == KindEvent
}

// ItemStatus is the scheduling lifecycle state of an item.
type ItemStatus string

const (
	StatusPending   ItemStatus = "pending"
	StatusConfirmed ItemStatus = "confirmed"
)

// Item is a schedulable rehearsal or event with candidate date slots.
// While pending it carries one or more slots members vote on; once
// confirmed the chosen slot's times are copied into ConfirmedStart and
// ConfirmedEnd so the concrete date survives later slot edits.
type Item struct {
	BandID          uuid.UUID  `db:"band_id" json:"band_id"`
	Kind            ItemKind   `db:"kind" json:"kind"`
	Title           string     `db:"title" json:"title"`
	Description     *string    `db:"description" json:"description"`
	LocationID      *uuid.UUID `db:"location_id" json:"location_id"`
	Status          ItemStatus `db:"status" json:"status"`
	ConfirmedSlotID *uuid.UUID `db:"confirmed_slot_id" json:"confirmed_slot_id"`
	ConfirmedStart  *time.Time `db:"confirmed_start" json:"confirmed_start"`
	ConfirmedEnd    *time.Time `db:"confirmed_end" json:"confirmed_end"`
	CreatedBy       uuid.UUID  `db:"created_by" json:"created_by"`
	entity.BaseEntity
}

// Slot is one candidate time range for an item. Position preserves the
// proposal order and breaks ranking ties; the ID, not the position, is
// what votes reference.
type Slot struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	ItemID    uuid.UUID  `db:"item_id" json:"item_id"`
	Position  int        `db:"position" json:"position"`
	StartTime time.Time  `db:"start_time" json:"start_time"`
	EndTime   *time.Time `db:"end_time" json:"end_time"`
}

// VoteAnswer is a member's stated availability for one slot.
type VoteAnswer string

const (
	AnswerYes   VoteAnswer = "yes"
	AnswerMaybe VoteAnswer = "maybe"
	AnswerNo    VoteAnswer = "no"
)

// ValidFor reports whether the answer is allowed for the given item kind.
// Events take yes/no only; rehearsals additionally take maybe.
func (a VoteAnswer) ValidFor(kind ItemKind) bool {
	switch a {
	case AnswerYes, AnswerNo:
		return true
	case AnswerMaybe:
		return kind == KindRehearsal
	default:
		return false
	}
}

// Vote records one member's availability for one slot. At most one vote
// exists per (slot, user); re-voting overwrites.
type Vote struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	SlotID    uuid.UUID  `db:"slot_id" json:"slot_id"`
	UserID    uuid.UUID  `db:"user_id" json:"user_id"`
	Answer    VoteAnswer `db:"answer" json:"answer"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}

// TimeSuggestion is a free-text alternate time a member attaches to a
// slot. Append-only; never affects scoring.
type TimeSuggestion struct {
	ID        uuid.UUID `db:"id" json:"id"`
	SlotID    uuid.UUID `db:"slot_id" json:"slot_id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	Text      string    `db:"text" json:"text"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// SlotTally is one row of a consensus ranking.
type SlotTally struct {
	SlotID     uuid.UUID `json:"slot_id"`
	Position   int       `json:"position"`
	YesCount   int       `json:"yes_count"`
	MaybeCount int       `json:"maybe_count"`
	NoCount    int       `json:"no_count"`
	Score      float64   `json:"score"`
}
