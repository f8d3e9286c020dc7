package service

import (
	"context"
	"time"

	"bandmate-api/core/errors"
	"bandmate-api/modules/absence/dto"
	"bandmate-api/modules/absence/entity"
	"bandmate-api/modules/absence/repository"
	bandentity "bandmate-api/modules/band/entity"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// Membership resolves a user's role within a band.
type Membership interface {
	RoleOf(ctx context.Context, bandID uuid.UUID, userID uuid.UUID) (bandentity.Role, error)
}

// Actor identifies who is performing an operation
type Actor struct {
	ID      uuid.UUID
	IsAdmin bool
}

// AbsenceService handles absence business logic
type AbsenceService struct {
	repo       repository.AbsenceRepositoryInterface
	membership Membership
}

// AbsenceServiceInterface defines the service contract
type AbsenceServiceInterface interface {
	Create(ctx context.Context, actor Actor, bandID uuid.UUID, req *dto.CreateAbsenceRequest) (*dto.AbsenceResponse, *errors.AppError)
	ListByBand(ctx context.Context, actor Actor, bandID uuid.UUID, from string, to string) ([]dto.AbsenceResponse, *errors.AppError)
	Delete(ctx context.Context, actor Actor, absenceID uuid.UUID) *errors.AppError
}

func NewAbsenceService(repo repository.AbsenceRepositoryInterface, membership Membership) AbsenceServiceInterface {
	return &AbsenceService{repo: repo, membership: membership}
}

func (s *AbsenceService) Create(ctx context.Context, actor Actor, bandID uuid.UUID, req *dto.CreateAbsenceRequest) (*dto.AbsenceResponse, *errors.AppError) {
	from, err := time.Parse(dateLayout, req.From)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "invalid from date", err)
	}
	to, err := time.Parse(dateLayout, req.To)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "invalid to date", err)
	}
	if to.Before(from) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "to date is before from date", nil)
	}

	if appErr := s.requireMember(ctx, actor, bandID); appErr != nil {
		return nil, appErr
	}

	absence := &entity.Absence{
		BandID:   bandID,
		UserID:   actor.ID,
		FromDate: from,
		ToDate:   to,
	}
	if req.Reason != "" {
		absence.Reason = &req.Reason
	}

	created, err := s.repo.Create(ctx, absence)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCreateFailed, "failed to create absence", err)
	}

	return dto.ToAbsenceResponse(created), nil
}

// ListByBand returns absences overlapping the requested window. With no
// window given it defaults to the 90 days from today.
func (s *AbsenceService) ListByBand(ctx context.Context, actor Actor, bandID uuid.UUID, from string, to string) ([]dto.AbsenceResponse, *errors.AppError) {
	if appErr := s.requireMember(ctx, actor, bandID); appErr != nil {
		return nil, appErr
	}

	fromDate := time.Now().Truncate(24 * time.Hour)
	toDate := fromDate.AddDate(0, 0, 90)
	if from != "" {
		parsed, err := time.Parse(dateLayout, from)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "invalid from date", err)
		}
		fromDate = parsed
	}
	if to != "" {
		parsed, err := time.Parse(dateLayout, to)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "invalid to date", err)
		}
		toDate = parsed
	}

	absences, err := s.repo.GetByBandID(ctx, bandID, fromDate, toDate)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "failed to get absences", err)
	}

	result := make([]dto.AbsenceResponse, 0, len(absences))
	for i := range absences {
		result = append(result, *dto.ToAbsenceResponse(&absences[i]))
	}
	return result, nil
}

func (s *AbsenceService) Delete(ctx context.Context, actor Actor, absenceID uuid.UUID) *errors.AppError {
	absence, err := s.repo.GetByID(ctx, absenceID)
	if err != nil {
		return errors.NewAppError(errors.ErrGetFailed, "failed to get absence", err)
	}
	if absence == nil {
		return errors.NewAppError(errors.ErrNotFound, "absence not found", nil)
	}

	// Own absences are always deletable; others need manage rights
	if absence.UserID != actor.ID {
		role, err := s.membership.RoleOf(ctx, absence.BandID, actor.ID)
		if err != nil {
			return errors.NewAppError(errors.ErrInternalServer, "failed to check membership", err)
		}
		if !bandentity.RoleCapabilities(role, actor.IsAdmin).CanManage {
			return errors.NewAppError(errors.ErrForbidden, "not allowed to delete this absence", nil)
		}
	}

	if err := s.repo.Delete(ctx, absenceID); err != nil {
		return errors.NewAppError(errors.ErrDeleteFailed, "failed to delete absence", err)
	}
	return nil
}

func (s *AbsenceService) requireMember(ctx context.Context, actor Actor, bandID uuid.UUID) *errors.AppError {
	role, err := s.membership.RoleOf(ctx, bandID, actor.ID)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to check membership", err)
	}
	if role == bandentity.RoleNone && !actor.IsAdmin {
		return errors.NewAppError(errors.ErrForbidden, "not a member of this band", nil)
	}
	return nil
}
