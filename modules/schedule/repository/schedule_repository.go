package repository

import (
	"context"
	"database/sql"

	"bandmate-api/core/database"
	"bandmate-api/core/logger"
	"bandmate-api/modules/schedule/entity"

	"github.com/google/uuid"
)

// ScheduleRepository handles item, slot, vote and suggestion persistence
type ScheduleRepository struct {
	DB database.Database
}

func NewScheduleRepository(db database.Database) *ScheduleRepository {
	return &ScheduleRepository{DB: db}
}

// ScheduleRepositoryInterface defines the repository contract
type ScheduleRepositoryInterface interface {
	CreateItem(ctx context.Context, item *entity.Item) (*entity.Item, error)
	GetItemByID(ctx context.Context, id uuid.UUID) (*entity.Item, error)
	GetItemsByBandID(ctx context.Context, bandID uuid.UUID) ([]entity.Item, error)
	UpdateItem(ctx context.Context, item *entity.Item) error
	DeleteItem(ctx context.Context, id uuid.UUID) error

	InsertSlots(ctx context.Context, itemID uuid.UUID, slots []entity.Slot) ([]entity.Slot, error)
	GetSlotsByItemID(ctx context.Context, itemID uuid.UUID) ([]entity.Slot, error)
	GetSlotByID(ctx context.Context, id uuid.UUID) (*entity.Slot, error)
	DeleteSlotsByItemID(ctx context.Context, itemID uuid.UUID) error

	UpsertVote(ctx context.Context, vote *entity.Vote) error
	GetVotesByItemID(ctx context.Context, itemID uuid.UUID) ([]entity.Vote, error)

	CreateSuggestion(ctx context.Context, suggestion *entity.TimeSuggestion) error
	GetSuggestionsByItemID(ctx context.Context, itemID uuid.UUID) ([]entity.TimeSuggestion, error)
}

// ===================== Items =====================

func (r *ScheduleRepository) CreateItem(ctx context.Context, item *entity.Item) (*entity.Item, error) {
	query := `
		INSERT INTO schedule_items (band_id, kind, title, description, location_id, status, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, band_id, kind, title, description, location_id, status,
		          confirmed_slot_id, confirmed_start, confirmed_end, created_by, created_at, updated_at
	`

	var created entity.Item
	err := r.DB.GetContext(ctx, &created, query,
		item.BandID, item.Kind, item.Title, item.Description, item.LocationID, item.Status, item.CreatedBy)
	if err != nil {
		logger.Error("ScheduleRepository:CreateItem", err)
		return nil, err
	}

	return &created, nil
}

func (r *ScheduleRepository) GetItemByID(ctx context.Context, id uuid.UUID) (*entity.Item, error) {
	query := `
		SELECT id, band_id, kind, title, description, location_id, status,
		       confirmed_slot_id, confirmed_start, confirmed_end, created_by, created_at, updated_at
		FROM schedule_items WHERE id = $1
	`

	var item entity.Item
	err := r.DB.GetContext(ctx, &item, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("ScheduleRepository:GetItemByID", err)
		return nil, err
	}

	return &item, nil
}

func (r *ScheduleRepository) GetItemsByBandID(ctx context.Context, bandID uuid.UUID) ([]entity.Item, error) {
	query := `
		SELECT id, band_id, kind, title, description, location_id, status,
		       confirmed_slot_id, confirmed_start, confirmed_end, created_by, created_at, updated_at
		FROM schedule_items WHERE band_id = $1
		ORDER BY created_at DESC
	`

	var items []entity.Item
	err := r.DB.SelectContext(ctx, &items, query, bandID)
	if err != nil {
		logger.Error("ScheduleRepository:GetItemsByBandID", err)
		return nil, err
	}

	return items, nil
}

func (r *ScheduleRepository) UpdateItem(ctx context.Context, item *entity.Item) error {
	query := `
		UPDATE schedule_items
		SET title = $2, description = $3, location_id = $4, status = $5,
		    confirmed_slot_id = $6, confirmed_start = $7, confirmed_end = $8, updated_at = NOW()
		WHERE id = $1
	`

	err := r.DB.ExecContext(ctx, query,
		item.ID, item.Title, item.Description, item.LocationID, item.Status,
		item.ConfirmedSlotID, item.ConfirmedStart, item.ConfirmedEnd)
	if err != nil {
		logger.Error("ScheduleRepository:UpdateItem", err)
		return err
	}

	return nil
}

func (r *ScheduleRepository) DeleteItem(ctx context.Context, id uuid.UUID) error {
	// Slots, votes and suggestions cascade at the schema level
	err := r.DB.ExecContext(ctx, `DELETE FROM schedule_items WHERE id = $1`, id)
	if err != nil {
		logger.Error("ScheduleRepository:DeleteItem", err)
		return err
	}

	return nil
}

// ===================== Slots =====================

func (r *ScheduleRepository) InsertSlots(ctx context.Context, itemID uuid.UUID, slots []entity.Slot) ([]entity.Slot, error) {
	query := `
		INSERT INTO schedule_slots (item_id, position, start_time, end_time)
		VALUES ($1, $2, $3, $4)
		RETURNING id, item_id, position, start_time, end_time
	`

	created := make([]entity.Slot, 0, len(slots))
	for _, slot := range slots {
		var row entity.Slot
		err := r.DB.GetContext(ctx, &row, query, itemID, slot.Position, slot.StartTime, slot.EndTime)
		if err != nil {
			logger.Error("ScheduleRepository:InsertSlots", err)
			return nil, err
		}
		created = append(created, row)
	}

	return created, nil
}

func (r *ScheduleRepository) GetSlotsByItemID(ctx context.Context, itemID uuid.UUID) ([]entity.Slot, error) {
	query := `
		SELECT id, item_id, position, start_time, end_time
		FROM schedule_slots WHERE item_id = $1
		ORDER BY position ASC
	`

	var slots []entity.Slot
	err := r.DB.SelectContext(ctx, &slots, query, itemID)
	if err != nil {
		logger.Error("ScheduleRepository:GetSlotsByItemID", err)
		return nil, err
	}

	return slots, nil
}

func (r *ScheduleRepository) GetSlotByID(ctx context.Context, id uuid.UUID) (*entity.Slot, error) {
	query := `
		SELECT id, item_id, position, start_time, end_time
		FROM schedule_slots WHERE id = $1
	`

	var slot entity.Slot
	err := r.DB.GetContext(ctx, &slot, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("ScheduleRepository:GetSlotByID", err)
		return nil, err
	}

	return &slot, nil
}

func (r *ScheduleRepository) DeleteSlotsByItemID(ctx context.Context, itemID uuid.UUID) error {
	err := r.DB.ExecContext(ctx, `DELETE FROM schedule_slots WHERE item_id = $1`, itemID)
	if err != nil {
		logger.Error("ScheduleRepository:DeleteSlotsByItemID", err)
		return err
	}

	return nil
}

// ===================== Votes =====================

// UpsertVote records a vote, overwriting any earlier vote by the same
// user on the same slot. The unique constraint makes the last writer
// win without read-modify-write races.
func (r *ScheduleRepository) UpsertVote(ctx context.Context, vote *entity.Vote) error {
	query := `
		INSERT INTO schedule_votes (slot_id, user_id, answer)
		VALUES ($1, $2, $3)
		ON CONFLICT (slot_id, user_id)
		DO UPDATE SET answer = EXCLUDED.answer, updated_at = NOW()
	`

	err := r.DB.ExecContext(ctx, query, vote.SlotID, vote.UserID, vote.Answer)
	if err != nil {
		logger.Error("ScheduleRepository:UpsertVote", err)
		return err
	}

	return nil
}

func (r *ScheduleRepository) GetVotesByItemID(ctx context.Context, itemID uuid.UUID) ([]entity.Vote, error) {
	query := `
		SELECT v.id, v.slot_id, v.user_id, v.answer, v.updated_at
		FROM schedule_votes v
		JOIN schedule_slots s ON s.id = v.slot_id
		WHERE s.item_id = $1
	`

	var votes []entity.Vote
	err := r.DB.SelectContext(ctx, &votes, query, itemID)
	if err != nil {
		logger.Error("ScheduleRepository:GetVotesByItemID", err)
		return nil, err
	}

	return votes, nil
}

// ===================== Suggestions =====================

func (r *ScheduleRepository) CreateSuggestion(ctx context.Context, suggestion *entity.TimeSuggestion) error {
	query := `
		INSERT INTO schedule_suggestions (slot_id, user_id, text)
		VALUES ($1, $2, $3)
	`

	err := r.DB.ExecContext(ctx, query, suggestion.SlotID, suggestion.UserID, suggestion.Text)
	if err != nil {
		logger.Error("ScheduleRepository:CreateSuggestion", err)
		return err
	}

	return nil
}

func (r *ScheduleRepository) GetSuggestionsByItemID(ctx context.Context, itemID uuid.UUID) ([]entity.TimeSuggestion, error) {
	query := `
		SELECT sg.id, sg.slot_id, sg.user_id, sg.text, sg.created_at
		FROM schedule_suggestions sg
		JOIN schedule_slots s ON s.id = sg.slot_id
		WHERE s.item_id = $1
		ORDER BY sg.created_at ASC
	`

	var suggestions []entity.TimeSuggestion
	err := r.DB.SelectContext(ctx, &suggestions, query, itemID)
	if err != nil {
		logger.Error("ScheduleRepository:GetSuggestionsByItemID", err)
		return nil, err
	}

	return suggestions, nil
}
