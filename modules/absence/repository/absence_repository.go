package repository

import (
	"context"
	"database/sql"
	"time"

	"bandmate-api/core/database"
	"bandmate-api/core/logger"
	"bandmate-api/modules/absence/entity"

	"github.com/google/uuid"
)

// AbsenceRepository handles absence persistence
type AbsenceRepository struct {
	DB database.Database
}

func NewAbsenceRepository(db database.Database) *AbsenceRepository {
	return &AbsenceRepository{DB: db}
}

// AbsenceRepositoryInterface defines the repository contract
type AbsenceRepositoryInterface interface {
	Create(ctx context.Context, absence *entity.Absence) (*entity.Absence, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Absence, error)
	GetByBandID(ctx context.Context, bandID uuid.UUID, from time.Time, to time.Time) ([]entity.Absence, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

func (r *AbsenceRepository) Create(ctx context.Context, absence *entity.Absence) (*entity.Absence, error) {
	query := `
		INSERT INTO absences (band_id, user_id, from_date, to_date, reason)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, band_id, user_id, from_date, to_date, reason, created_at, updated_at
	`

	var created entity.Absence
	err := r.DB.GetContext(ctx, &created, query,
		absence.BandID, absence.UserID, absence.FromDate, absence.ToDate, absence.Reason)
	if err != nil {
		logger.Error("AbsenceRepository:Create", err)
		return nil, err
	}

	return &created, nil
}

func (r *AbsenceRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Absence, error) {
	query := `
		SELECT id, band_id, user_id, from_date, to_date, reason, created_at, updated_at
		FROM absences WHERE id = $1
	`

	var absence entity.Absence
	err := r.DB.GetContext(ctx, &absence, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("AbsenceRepository:GetByID", err)
		return nil, err
	}

	return &absence, nil
}

// GetByBandID returns absences overlapping the [from, to] window.
func (r *AbsenceRepository) GetByBandID(ctx context.Context, bandID uuid.UUID, from time.Time, to time.Time) ([]entity.Absence, error) {
	query := `
		SELECT id, band_id, user_id, from_date, to_date, reason, created_at, updated_at
		FROM absences
		WHERE band_id = $1 AND from_date <= $3 AND to_date >= $2
		ORDER BY from_date ASC
	`

	var absences []entity.Absence
	err := r.DB.SelectContext(ctx, &absences, query, bandID, from, to)
	if err != nil {
		logger.Error("AbsenceRepository:GetByBandID", err)
		return nil, err
	}

	return absences, nil
}

func (r *AbsenceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.DB.ExecContext(ctx, `DELETE FROM absences WHERE id = $1`, id)
	if err != nil {
		logger.Error("AbsenceRepository:Delete", err)
		return err
	}

	return nil
}
