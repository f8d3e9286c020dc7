package repository

import (
	"context"
	"database/sql"

	"bandmate-api/core/database"
	"bandmate-api/core/logger"
	"bandmate-api/modules/auth/entity"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// UserRepository handles user persistence
type UserRepository struct {
	DB database.Database
}

func NewUserRepository(db database.Database) *UserRepository {
	return &UserRepository{DB: db}
}

// UserRepositoryInterface defines the repository contract
type UserRepositoryInterface interface {
	Create(ctx context.Context, user *entity.User) (*entity.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByGoogleID(ctx context.Context, googleID string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	GetContactsByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.UserContact, error)
}

func (r *UserRepository) Create(ctx context.Context, user *entity.User) (*entity.User, error) {
	query := `
		INSERT INTO users (name, email, password_hash, avatar_url, google_id, is_admin)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, name, email, password_hash, avatar_url, google_id, is_admin, created_at, updated_at
	`

	var created entity.User
	err := r.DB.GetContext(ctx, &created, query,
		user.Name, user.Email, user.PasswordHash, user.AvatarURL, user.GoogleID, user.IsAdmin)
	if err != nil {
		logger.Error("UserRepository:Create", err)
		return nil, err
	}

	return &created, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	query := `
		SELECT id, name, email, password_hash, avatar_url, google_id, is_admin, created_at, updated_at
		FROM users WHERE id = $1
	`

	var user entity.User
	err := r.DB.GetContext(ctx, &user, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("UserRepository:GetByID", err)
		return nil, err
	}

	return &user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	query := `
		SELECT id, name, email, password_hash, avatar_url, google_id, is_admin, created_at, updated_at
		FROM users WHERE lower(email) = lower($1)
	`

	var user entity.User
	err := r.DB.GetContext(ctx, &user, query, email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("UserRepository:GetByEmail", err)
		return nil, err
	}

	return &user, nil
}

func (r *UserRepository) GetByGoogleID(ctx context.Context, googleID string) (*entity.User, error) {
	query := `
		SELECT id, name, email, password_hash, avatar_url, google_id, is_admin, created_at, updated_at
		FROM users WHERE google_id = $1
	`

	var user entity.User
	err := r.DB.GetContext(ctx, &user, query, googleID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("UserRepository:GetByGoogleID", err)
		return nil, err
	}

	return &user, nil
}

func (r *UserRepository) Update(ctx context.Context, user *entity.User) error {
	query := `
		UPDATE users
		SET name = $2, avatar_url = $3, google_id = $4, updated_at = now()
		WHERE id = $1
	`
	err := r.DB.ExecContext(ctx, query, user.ID, user.Name, user.AvatarURL, user.GoogleID)
	if err != nil {
		logger.Error("UserRepository:Update", err)
		return err
	}
	return nil
}

func (r *UserRepository) GetContactsByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.UserContact, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`SELECT id, name, email FROM users WHERE id IN (?)`, ids)
	if err != nil {
		return nil, err
	}
	query = r.DB.SQLx().Rebind(query)

	var contacts []entity.UserContact
	err = r.DB.SelectContext(ctx, &contacts, query, args...)
	if err != nil {
		logger.Error("UserRepository:GetContactsByIDs", err)
		return nil, err
	}

	return contacts, nil
}
