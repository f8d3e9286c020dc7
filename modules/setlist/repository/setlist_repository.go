package repository

import (
	"context"
	"database/sql"

	"bandmate-api/core/database"
	"bandmate-api/core/logger"
	"bandmate-api/modules/setlist/entity"

	"github.com/google/uuid"
)

// SetlistRepository handles setlist and song persistence
type SetlistRepository struct {
	DB database.Database
}

func NewSetlistRepository(db database.Database) *SetlistRepository {
	return &SetlistRepository{DB: db}
}

// SetlistRepositoryInterface defines the repository contract
type SetlistRepositoryInterface interface {
	Create(ctx context.Context, setlist *entity.Setlist) (*entity.Setlist, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Setlist, error)
	GetByBandID(ctx context.Context, bandID uuid.UUID) ([]entity.Setlist, error)
	Update(ctx context.Context, setlist *entity.Setlist) error
	Delete(ctx context.Context, id uuid.UUID) error

	AddSong(ctx context.Context, song *entity.SetlistSong) (*entity.SetlistSong, error)
	GetSongByID(ctx context.Context, id uuid.UUID) (*entity.SetlistSong, error)
	GetSongsBySetlistID(ctx context.Context, setlistID uuid.UUID) ([]entity.SetlistSong, error)
	UpdateSongPosition(ctx context.Context, songID uuid.UUID, position int) error
	SetSongAttachment(ctx context.Context, songID uuid.UUID, key *string) error
	DeleteSong(ctx context.Context, id uuid.UUID) error
	CountSongs(ctx context.Context, setlistID uuid.UUID) (int, error)
}

// ===================== Setlists =====================

func (r *SetlistRepository) Create(ctx context.Context, setlist *entity.Setlist) (*entity.Setlist, error) {
	query := `
		INSERT INTO setlists (band_id, name, description, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, band_id, name, description, created_by, created_at, updated_at
	`

	var created entity.Setlist
	err := r.DB.GetContext(ctx, &created, query,
		setlist.BandID, setlist.Name, setlist.Description, setlist.CreatedBy)
	if err != nil {
		logger.Error("SetlistRepository:Create", err)
		return nil, err
	}

	return &created, nil
}

func (r *SetlistRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Setlist, error) {
	query := `
		SELECT id, band_id, name, description, created_by, created_at, updated_at
		FROM setlists WHERE id = $1
	`

	var setlist entity.Setlist
	err := r.DB.GetContext(ctx, &setlist, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("SetlistRepository:GetByID", err)
		return nil, err
	}

	return &setlist, nil
}

func (r *SetlistRepository) GetByBandID(ctx context.Context, bandID uuid.UUID) ([]entity.Setlist, error) {
	query := `
		SELECT id, band_id, name, description, created_by, created_at, updated_at
		FROM setlists WHERE band_id = $1
		ORDER BY created_at DESC
	`

	var setlists []entity.Setlist
	err := r.DB.SelectContext(ctx, &setlists, query, bandID)
	if err != nil {
		logger.Error("SetlistRepository:GetByBandID", err)
		return nil, err
	}

	return setlists, nil
}

func (r *SetlistRepository) Update(ctx context.Context, setlist *entity.Setlist) error {
	query := `
		UPDATE setlists SET name = $2, description = $3, updated_at = NOW()
		WHERE id = $1
	`

	err := r.DB.ExecContext(ctx, query, setlist.ID, setlist.Name, setlist.Description)
	if err != nil {
		logger.Error("SetlistRepository:Update", err)
		return err
	}

	return nil
}

func (r *SetlistRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.DB.ExecContext(ctx, `DELETE FROM setlists WHERE id = $1`, id)
	if err != nil {
		logger.Error("SetlistRepository:Delete", err)
		return err
	}

	return nil
}

// ===================== Songs =====================

func (r *SetlistRepository) AddSong(ctx context.Context, song *entity.SetlistSong) (*entity.SetlistSong, error) {
	query := `
		INSERT INTO setlist_songs (setlist_id, position, title, artist, song_key, duration_seconds, attachment_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, setlist_id, position, title, artist, song_key, duration_seconds, attachment_key
	`

	var created entity.SetlistSong
	err := r.DB.GetContext(ctx, &created, query,
		song.SetlistID, song.Position, song.Title, song.Artist, song.SongKey, song.DurationSeconds, song.AttachmentKey)
	if err != nil {
		logger.Error("SetlistRepository:AddSong", err)
		return nil, err
	}

	return &created, nil
}

func (r *SetlistRepository) GetSongByID(ctx context.Context, id uuid.UUID) (*entity.SetlistSong, error) {
	query := `
		SELECT id, setlist_id, position, title, artist, song_key, duration_seconds, attachment_key
		FROM setlist_songs WHERE id = $1
	`

	var song entity.SetlistSong
	err := r.DB.GetContext(ctx, &song, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("SetlistRepository:GetSongByID", err)
		return nil, err
	}

	return &song, nil
}

func (r *SetlistRepository) GetSongsBySetlistID(ctx context.Context, setlistID uuid.UUID) ([]entity.SetlistSong, error) {
	query := `
		SELECT id, setlist_id, position, title, artist, song_key, duration_seconds, attachment_key
		FROM setlist_songs WHERE setlist_id = $1
		ORDER BY position ASC
	`

	var songs []entity.SetlistSong
	err := r.DB.SelectContext(ctx, &songs, query, setlistID)
	if err != nil {
		logger.Error("SetlistRepository:GetSongsBySetlistID", err)
		return nil, err
	}

	return songs, nil
}

func (r *SetlistRepository) UpdateSongPosition(ctx context.Context, songID uuid.UUID, position int) error {
	err := r.DB.ExecContext(ctx, `UPDATE setlist_songs SET position = $2 WHERE id = $1`, songID, position)
	if err != nil {
		logger.Error("SetlistRepository:UpdateSongPosition", err)
		return err
	}

	return nil
}

func (r *SetlistRepository) SetSongAttachment(ctx context.Context, songID uuid.UUID, key *string) error {
	err := r.DB.ExecContext(ctx, `UPDATE setlist_songs SET attachment_key = $2 WHERE id = $1`, songID, key)
	if err != nil {
		logger.Error("SetlistRepository:SetSongAttachment", err)
		return err
	}

	return nil
}

func (r *SetlistRepository) DeleteSong(ctx context.Context, id uuid.UUID) error {
	err := r.DB.ExecContext(ctx, `DELETE FROM setlist_songs WHERE id = $1`, id)
	if err != nil {
		logger.Error("SetlistRepository:DeleteSong", err)
		return err
	}

	return nil
}

func (r *SetlistRepository) CountSongs(ctx context.Context, setlistID uuid.UUID) (int, error) {
	var count int
	err := r.DB.GetContext(ctx, &count, `SELECT COUNT(*) FROM setlist_songs WHERE setlist_id = $1`, setlistID)
	if err != nil {
		logger.Error("SetlistRepository:CountSongs", err)
		return 0, err
	}

	return count, nil
}
