package repository

import (
	"context"
	"database/sql"

	"bandmate-api/core/database"
	"bandmate-api/core/logger"
	"bandmate-api/modules/band/entity"

	"github.com/google/uuid"
)

// BandRepository handles band and membership persistence
type BandRepository struct {
	DB database.Database
}

func NewBandRepository(db database.Database) *BandRepository {
	return &BandRepository{DB: db}
}

// BandRepositoryInterface defines the repository contract
type BandRepositoryInterface interface {
	CreateBand(ctx context.Context, band *entity.Band) (*entity.Band, error)
	GetBandByID(ctx context.Context, id uuid.UUID) (*entity.Band, error)
	GetBandBySlug(ctx context.Context, slug string) (*entity.Band, error)
	GetBandByInviteCode(ctx context.Context, code string) (*entity.Band, error)
	GetBandsByUserID(ctx context.Context, userID uuid.UUID) ([]entity.Band, error)
	UpdateBand(ctx context.Context, band *entity.Band) error
	DeleteBand(ctx context.Context, id uuid.UUID) error

	AddMember(ctx context.Context, member *entity.BandMember) error
	GetMember(ctx context.Context, bandID uuid.UUID, userID uuid.UUID) (*entity.BandMember, error)
	GetMembersByBandID(ctx context.Context, bandID uuid.UUID) ([]entity.BandMember, error)
	UpdateMemberRole(ctx context.Context, bandID uuid.UUID, userID uuid.UUID, role entity.Role) error
	RemoveMember(ctx context.Context, bandID uuid.UUID, userID uuid.UUID) error
	CountMembersWithRole(ctx context.Context, bandID uuid.UUID, role entity.Role) (int, error)

	CreateLocation(ctx context.Context, location *entity.Location) (*entity.Location, error)
	GetLocationByID(ctx context.Context, id uuid.UUID) (*entity.Location, error)
	GetLocationsByBandID(ctx context.Context, bandID uuid.UUID) ([]entity.Location, error)
	DeleteLocation(ctx context.Context, id uuid.UUID) error
}

// ===================== Bands =====================

func (r *BandRepository) CreateBand(ctx context.Context, band *entity.Band) (*entity.Band, error) {
	query := `
		INSERT INTO bands (name, slug, description, invite_code, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, name, slug, description, invite_code, created_by, created_at, updated_at
	`

	var created entity.Band
	err := r.DB.GetContext(ctx, &created, query,
		band.Name, band.Slug, band.Description, band.InviteCode, band.CreatedBy)
	if err != nil {
		logger.Error("BandRepository:CreateBand", err)
		return nil, err
	}

	return &created, nil
}

func (r *BandRepository) GetBandByID(ctx context.Context, id uuid.UUID) (*entity.Band, error) {
	query := `
		SELECT id, name, slug, description, invite_code, created_by, created_at, updated_at
		FROM bands WHERE id = $1
	`

	var band entity.Band
	err := r.DB.GetContext(ctx, &band, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("BandRepository:GetBandByID", err)
		return nil, err
	}

	return &band, nil
}

func (r *BandRepository) GetBandBySlug(ctx context.Context, slug string) (*entity.Band, error) {
	query := `
		SELECT id, name, slug, description, invite_code, created_by, created_at, updated_at
		FROM bands WHERE slug = $1
	`

	var band entity.Band
	err := r.DB.GetContext(ctx, &band, query, slug)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("BandRepository:GetBandBySlug", err)
		return nil, err
	}

	return &band, nil
}

func (r *BandRepository) GetBandByInviteCode(ctx context.Context, code string) (*entity.Band, error) {
	query := `
		SELECT id, name, slug, description, invite_code, created_by, created_at, updated_at
		FROM bands WHERE invite_code = $1
	`

	var band entity.Band
	err := r.DB.GetContext(ctx, &band, query, code)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("BandRepository:GetBandByInviteCode", err)
		return nil, err
	}

	return &band, nil
}

func (r *BandRepository) GetBandsByUserID(ctx context.Context, userID uuid.UUID) ([]entity.Band, error) {
	query := `
		SELECT b.id, b.name, b.slug, b.description, b.invite_code, b.created_by, b.created_at, b.updated_at
		FROM bands b
		JOIN band_members m ON m.band_id = b.id
		WHERE m.user_id = $1
		ORDER BY b.created_at DESC
	`

	var bands []entity.Band
	err := r.DB.SelectContext(ctx, &bands, query, userID)
	if err != nil {
		logger.Error("BandRepository:GetBandsByUserID", err)
		return nil, err
	}

	return bands, nil
}

func (r *BandRepository) UpdateBand(ctx context.Context, band *entity.Band) error {
	query := `
		UPDATE bands
		SET name = $2, description = $3, updated_at = now()
		WHERE id = $1
	`
	err := r.DB.ExecContext(ctx, query, band.ID, band.Name, band.Description)
	if err != nil {
		logger.Error("BandRepository:UpdateBand", err)
		return err
	}
	return nil
}

func (r *BandRepository) DeleteBand(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM bands WHERE id = $1`
	err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		logger.Error("BandRepository:DeleteBand", err)
		return err
	}
	return nil
}

// ===================== Members =====================

func (r *BandRepository) AddMember(ctx context.Context, member *entity.BandMember) error {
	query := `
		INSERT INTO band_members (band_id, user_id, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (band_id, user_id) DO NOTHING
	`
	err := r.DB.ExecContext(ctx, query, member.BandID, member.UserID, member.Role)
	if err != nil {
		logger.Error("BandRepository:AddMember", err)
		return err
	}
	return nil
}

func (r *BandRepository) GetMember(ctx context.Context, bandID uuid.UUID, userID uuid.UUID) (*entity.BandMember, error) {
	query := `
		SELECT band_id, user_id, role, created_at
		FROM band_members WHERE band_id = $1 AND user_id = $2
	`

	var member entity.BandMember
	err := r.DB.GetContext(ctx, &member, query, bandID, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("BandRepository:GetMember", err)
		return nil, err
	}

	return &member, nil
}

func (r *BandRepository) GetMembersByBandID(ctx context.Context, bandID uuid.UUID) ([]entity.BandMember, error) {
	query := `
		SELECT band_id, user_id, role, created_at
		FROM band_members WHERE band_id = $1
		ORDER BY created_at
	`

	var members []entity.BandMember
	err := r.DB.SelectContext(ctx, &members, query, bandID)
	if err != nil {
		logger.Error("BandRepository:GetMembersByBandID", err)
		return nil, err
	}

	return members, nil
}

func (r *BandRepository) UpdateMemberRole(ctx context.Context, bandID uuid.UUID, userID uuid.UUID, role entity.Role) error {
	query := `UPDATE band_members SET role = $3 WHERE band_id = $1 AND user_id = $2`
	err := r.DB.ExecContext(ctx, query, bandID, userID, role)
	if err != nil {
		logger.Error("BandRepository:UpdateMemberRole", err)
		return err
	}
	return nil
}

func (r *BandRepository) RemoveMember(ctx context.Context, bandID uuid.UUID, userID uuid.UUID) error {
	query := `DELETE FROM band_members WHERE band_id = $1 AND user_id = $2`
	err := r.DB.ExecContext(ctx, query, bandID, userID)
	if err != nil {
		logger.Error("BandRepository:RemoveMember", err)
		return err
	}
	return nil
}

func (r *BandRepository) CountMembersWithRole(ctx context.Context, bandID uuid.UUID, role entity.Role) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM band_members WHERE band_id = $1 AND role = $2`
	err := r.DB.GetContext(ctx, &count, query, bandID, role)
	if err != nil {
		logger.Error("BandRepository:CountMembersWithRole", err)
		return 0, err
	}
	return count, nil
}

// ===================== Locations =====================

func (r *BandRepository) CreateLocation(ctx context.Context, location *entity.Location) (*entity.Location, error) {
	query := `
		INSERT INTO locations (band_id, name, address)
		VALUES ($1, $2, $3)
		RETURNING id, band_id, name, address, created_at, updated_at
	`

	var created entity.Location
	err := r.DB.GetContext(ctx, &created, query, location.BandID, location.Name, location.Address)
	if err != nil {
		logger.Error("BandRepository:CreateLocation", err)
		return nil, err
	}

	return &created, nil
}

func (r *BandRepository) GetLocationByID(ctx context.Context, id uuid.UUID) (*entity.Location, error) {
	query := `
		SELECT id, band_id, name, address, created_at, updated_at
		FROM locations WHERE id = $1
	`

	var location entity.Location
	err := r.DB.GetContext(ctx, &location, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("BandRepository:GetLocationByID", err)
		return nil, err
	}

	return &location, nil
}

func (r *BandRepository) GetLocationsByBandID(ctx context.Context, bandID uuid.UUID) ([]entity.Location, error) {
	query := `
		SELECT id, band_id, name, address, created_at, updated_at
		FROM locations WHERE band_id = $1
		ORDER BY name
	`

	var locations []entity.Location
	err := r.DB.SelectContext(ctx, &locations, query, bandID)
	if err != nil {
		logger.Error("BandRepository:GetLocationsByBandID", err)
		return nil, err
	}

	return locations, nil
}

func (r *BandRepository) DeleteLocation(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM locations WHERE id = $1`
	err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		logger.Error("BandRepository:DeleteLocation", err)
		return err
	}
	return nil
}
