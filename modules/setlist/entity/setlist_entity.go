package entity

import (
	"bandmate-api/core/entity"

	"github.com/google/uuid"
)

// Setlist is an ordered collection of songs a band performs or rehearses.
type Setlist struct {
	BandID      uuid.UUID `db:"band_id" json:"band_id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description"`
	CreatedBy   uuid.UUID `db:"created_by" json:"created_by"`
	entity.BaseEntity
}

// SetlistSong is one song in a setlist. AttachmentKey points at an
// uploaded chart or lyric sheet in object storage.
type SetlistSong struct {
	ID              uuid.UUID `db:"id" json:"id"`
	SetlistID       uuid.UUID `db:"setlist_id" json:"setlist_id"`
	Position        int       `db:"position" json:"position"`
	Title           string    `db:"title" json:"title"`
	Artist          *string   `db:"artist" json:"artist"`
	SongKey         *string   `db:"song_key" json:"song_key"`
	DurationSeconds *int      `db:"duration_seconds" json:"duration_seconds"`
	AttachmentKey   *string   `db:"attachment_key" json:"attachment_key"`
}
