package service

import (
	"context"
	"fmt"

	"bandmate-api/core/errors"
	"bandmate-api/core/logger"
	"bandmate-api/core/utils"
	"bandmate-api/modules/band/dto"
	"bandmate-api/modules/band/entity"
	"bandmate-api/modules/band/repository"
	notifdto "bandmate-api/modules/notification/dto"
	notifentity "bandmate-api/modules/notification/entity"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// Notifier is the slice of the notification service the band module uses
type Notifier interface {
	Create(ctx context.Context, req *notifdto.CreateNotificationRequest) error
}

// Actor identifies who is performing an operation
type Actor struct {
	ID      uuid.UUID
	IsAdmin bool
}

// BandService handles band and membership business logic
type BandService struct {
	repo     repository.BandRepositoryInterface
	notifier Notifier
}

// BandServiceInterface defines the service contract
type BandServiceInterface interface {
	CreateBand(ctx context.Context, actor Actor, req *dto.CreateBandRequest) (*dto.BandResponse, *errors.AppError)
	GetMyBands(ctx context.Context, actor Actor) ([]dto.BandResponse, *errors.AppError)
	GetBand(ctx context.Context, actor Actor, bandID uuid.UUID) (*dto.BandResponse, *errors.AppError)
	UpdateBand(ctx context.Context, actor Actor, bandID uuid.UUID, req *dto.UpdateBandRequest) (*dto.BandResponse, *errors.AppError)
	DeleteBand(ctx context.Context, actor Actor, bandID uuid.UUID) *errors.AppError
	JoinByInviteCode(ctx context.Context, actor Actor, code string) (*dto.BandResponse, *errors.AppError)
	ChangeMemberRole(ctx context.Context, actor Actor, bandID uuid.UUID, userID uuid.UUID, role string) *errors.AppError
	RemoveMember(ctx context.Context, actor Actor, bandID uuid.UUID, userID uuid.UUID) *errors.AppError

	CreateLocation(ctx context.Context, actor Actor, bandID uuid.UUID, req *dto.CreateLocationRequest) (*dto.LocationResponse, *errors.AppError)
	GetLocations(ctx context.Context, actor Actor, bandID uuid.UUID) ([]dto.LocationResponse, *errors.AppError)

	// RoleOf is consumed read-only by the schedule, absence and setlist
	// modules to gate their operations.
	RoleOf(ctx context.Context, bandID uuid.UUID, userID uuid.UUID) (entity.Role, error)
	MemberIDs(ctx context.Context, bandID uuid.UUID) ([]uuid.UUID, error)
}

func NewBandService(repo repository.BandRepositoryInterface, notifier Notifier) BandServiceInterface {
	return &BandService{repo: repo, notifier: notifier}
}

func (s *BandService) CreateBand(ctx context.Context, actor Actor, req *dto.CreateBandRequest) (*dto.BandResponse, *errors.AppError) {
	if req.Name == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "band name is required", nil)
	}

	bandSlug := slug.Make(req.Name)
	if existing, err := s.repo.GetBandBySlug(ctx, bandSlug); err == nil && existing != nil {
		bandSlug = fmt.Sprintf("%s-%s", bandSlug, utils.GenerateID())
	}

	band := &entity.Band{
		Name:       req.Name,
		Slug:       bandSlug,
		InviteCode: utils.GenerateID(),
		CreatedBy:  actor.ID,
	}
	if req.Description != "" {
		band.Description = &req.Description
	}

	created, err := s.repo.CreateBand(ctx, band)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCreateFailed, "failed to create band", err)
	}

	// The creator leads the band
	member := &entity.BandMember{
		BandID: created.ID,
		UserID: actor.ID,
		Role:   entity.RoleLeader,
	}
	if err := s.repo.AddMember(ctx, member); err != nil {
		return nil, errors.NewAppError(errors.ErrCreateFailed, "failed to add creator as leader", err)
	}

	return dto.ToBandResponse(created, []entity.BandMember{*member}, true), nil
}

func (s *BandService) GetMyBands(ctx context.Context, actor Actor) ([]dto.BandResponse, *errors.AppError) {
	bands, err := s.repo.GetBandsByUserID(ctx, actor.ID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "failed to get bands", err)
	}

	result := make([]dto.BandResponse, 0, len(bands))
	for _, b := range bands {
		role, _ := s.RoleOf(ctx, b.ID, actor.ID)
		caps := entity.RoleCapabilities(role, actor.IsAdmin)
		result = append(result, *dto.ToBandResponse(&b, nil, caps.CanManage))
	}

	return result, nil
}

func (s *BandService) GetBand(ctx context.Context, actor Actor, bandID uuid.UUID) (*dto.BandResponse, *errors.AppError) {
	band, err := s.repo.GetBandByID(ctx, bandID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "failed to get band", err)
	}
	if band == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "band not found", nil)
	}

	role, err := s.RoleOf(ctx, bandID, actor.ID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to check membership", err)
	}
	caps := entity.RoleCapabilities(role, actor.IsAdmin)
	if role == entity.RoleNone && !actor.IsAdmin {
		return nil, errors.NewAppError(errors.ErrForbidden, "not a member of this band", nil)
	}

	members, _ := s.repo.GetMembersByBandID(ctx, bandID)
	return dto.ToBandResponse(band, members, caps.CanManage), nil
}

func (s *BandService) UpdateBand(ctx context.Context, actor Actor, bandID uuid.UUID, req *dto.UpdateBandRequest) (*dto.BandResponse, *errors.AppError) {
	band, appErr := s.requireManage(ctx, actor, bandID)
	if appErr != nil {
		return nil, appErr
	}

	if req.Name != "" {
		band.Name = req.Name
	}
	if req.Description != "" {
		band.Description = &req.Description
	}

	if err := s.repo.UpdateBand(ctx, band); err != nil {
		return nil, errors.NewAppError(errors.ErrUpdateFailed, "failed to update band", err)
	}

	return s.GetBand(ctx, actor, bandID)
}

func (s *BandService) DeleteBand(ctx context.Context, actor Actor, bandID uuid.UUID) *errors.AppError {
	if _, appErr := s.requireManage(ctx, actor, bandID); appErr != nil {
		return appErr
	}

	if err := s.repo.DeleteBand(ctx, bandID); err != nil {
		return errors.NewAppError(errors.ErrDeleteFailed, "failed to delete band", err)
	}
	return nil
}

func (s *BandService) JoinByInviteCode(ctx context.Context, actor Actor, code string) (*dto.BandResponse, *errors.AppError) {
	if code == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "invite code is required", nil)
	}

	band, err := s.repo.GetBandByInviteCode(ctx, code)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "failed to look up invite code", err)
	}
	if band == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "invalid invite code", nil)
	}

	existing, err := s.repo.GetMember(ctx, band.ID, actor.ID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to check membership", err)
	}
	if existing != nil {
		return nil, errors.NewAppError(errors.ErrAlreadyExists, "already a member of this band", nil)
	}

	member := &entity.BandMember{
		BandID: band.ID,
		UserID: actor.ID,
		Role:   entity.RoleMember,
	}
	if err := s.repo.AddMember(ctx, member); err != nil {
		return nil, errors.NewAppError(errors.ErrCreateFailed, "failed to join band", err)
	}

	s.notifyLeaders(ctx, band, actor.ID)

	return s.GetBand(ctx, Actor{ID: actor.ID}, band.ID)
}

func (s *BandService) ChangeMemberRole(ctx context.Context, actor Actor, bandID uuid.UUID, userID uuid.UUID, role string) *errors.AppError {
	newRole := entity.Role(role)
	if newRole != entity.RoleLeader && newRole != entity.RoleCoLeader && newRole != entity.RoleMember {
		return errors.NewAppError(errors.ErrInvalidInput, "invalid role", nil)
	}

	if _, appErr := s.requireManage(ctx, actor, bandID); appErr != nil {
		return appErr
	}

	target, err := s.repo.GetMember(ctx, bandID, userID)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to get member", err)
	}
	if target == nil {
		return errors.NewAppError(errors.ErrNotFound, "member not found", nil)
	}

	// A band must keep at least one leader
	if target.Role == entity.RoleLeader && newRole != entity.RoleLeader {
		leaders, err := s.repo.CountMembersWithRole(ctx, bandID, entity.RoleLeader)
		if err != nil {
			return errors.NewAppError(errors.ErrInternalServer, "failed to count leaders", err)
		}
		if leaders <= 1 {
			return errors.NewAppError(errors.ErrInvalidInput, "cannot demote the last leader", nil)
		}
	}

	if err := s.repo.UpdateMemberRole(ctx, bandID, userID, newRole); err != nil {
		return errors.NewAppError(errors.ErrUpdateFailed, "failed to change role", err)
	}
	return nil
}

func (s *BandService) RemoveMember(ctx context.Context, actor Actor, bandID uuid.UUID, userID uuid.UUID) *errors.AppError {
	// Members may remove themselves; removing others needs manage rights
	if actor.ID != userID {
		if _, appErr := s.requireManage(ctx, actor, bandID); appErr != nil {
			return appErr
		}
	}

	target, err := s.repo.GetMember(ctx, bandID, userID)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to get member", err)
	}
	if target == nil {
		return errors.NewAppError(errors.ErrNotFound, "member not found", nil)
	}

	if target.Role == entity.RoleLeader {
		leaders, err := s.repo.CountMembersWithRole(ctx, bandID, entity.RoleLeader)
		if err != nil {
			return errors.NewAppError(errors.ErrInternalServer, "failed to count leaders", err)
		}
		if leaders <= 1 {
			return errors.NewAppError(errors.ErrInvalidInput, "cannot remove the last leader", nil)
		}
	}

	if err := s.repo.RemoveMember(ctx, bandID, userID); err != nil {
		return errors.NewAppError(errors.ErrDeleteFailed, "failed to remove member", err)
	}
	return nil
}

// ===================== Locations =====================

func (s *BandService) CreateLocation(ctx context.Context, actor Actor, bandID uuid.UUID, req *dto.CreateLocationRequest) (*dto.LocationResponse, *errors.AppError) {
	if req.Name == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "location name is required", nil)
	}

	if _, appErr := s.requireManage(ctx, actor, bandID); appErr != nil {
		return nil, appErr
	}

	location := &entity.Location{
		BandID: bandID,
		Name:   req.Name,
	}
	if req.Address != "" {
		location.Address = &req.Address
	}

	created, err := s.repo.CreateLocation(ctx, location)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCreateFailed, "failed to create location", err)
	}

	return dto.ToLocationResponse(created), nil
}

func (s *BandService) GetLocations(ctx context.Context, actor Actor, bandID uuid.UUID) ([]dto.LocationResponse, *errors.AppError) {
	role, err := s.RoleOf(ctx, bandID, actor.ID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to check membership", err)
	}
	if role == entity.RoleNone && !actor.IsAdmin {
		return nil, errors.NewAppError(errors.ErrForbidden, "not a member of this band", nil)
	}

	locations, err := s.repo.GetLocationsByBandID(ctx, bandID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "failed to get locations", err)
	}

	result := make([]dto.LocationResponse, 0, len(locations))
	for _, l := range locations {
		result = append(result, *dto.ToLocationResponse(&l))
	}
	return result, nil
}

// ===================== Read-only collaborators =====================

func (s *BandService) RoleOf(ctx context.Context, bandID uuid.UUID, userID uuid.UUID) (entity.Role, error) {
	member, err := s.repo.GetMember(ctx, bandID, userID)
	if err != nil {
		return entity.RoleNone, err
	}
	if member == nil {
		return entity.RoleNone, nil
	}
	return member.Role, nil
}

func (s *BandService) MemberIDs(ctx context.Context, bandID uuid.UUID) ([]uuid.UUID, error) {
	members, err := s.repo.GetMembersByBandID(ctx, bandID)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.UserID)
	}
	return ids, nil
}

// ===================== Helpers =====================

func (s *BandService) requireManage(ctx context.Context, actor Actor, bandID uuid.UUID) (*entity.Band, *errors.AppError) {
	band, err := s.repo.GetBandByID(ctx, bandID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "failed to get band", err)
	}
	if band == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "band not found", nil)
	}

	role, err := s.RoleOf(ctx, bandID, actor.ID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to check membership", err)
	}
	if !entity.RoleCapabilities(role, actor.IsAdmin).CanManage {
		return nil, errors.NewAppError(errors.ErrForbidden, "not allowed to manage this band", nil)
	}

	return band, nil
}

func (s *BandService) notifyLeaders(ctx context.Context, band *entity.Band, joinedUserID uuid.UUID) {
	if s.notifier == nil {
		return
	}

	members, err := s.repo.GetMembersByBandID(ctx, band.ID)
	if err != nil {
		logger.Error("BandService:notifyLeaders", err)
		return
	}

	for _, m := range members {
		if m.Role != entity.RoleLeader && m.Role != entity.RoleCoLeader {
			continue
		}
		notif := &notifdto.CreateNotificationRequest{
			UserID:  m.UserID,
			Title:   "New band member",
			Message: fmt.Sprintf("Someone joined %s with an invite code", band.Name),
			Type:    notifentity.TypeMemberJoined,
			Data: map[string]interface{}{
				"band_id": band.ID.String(),
				"user_id": joinedUserID.String(),
			},
		}
		if err := s.notifier.Create(ctx, notif); err != nil {
			logger.Error("BandService:notifyLeaders:Create", err)
		}
	}
}
