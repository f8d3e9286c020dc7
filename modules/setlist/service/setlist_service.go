package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"bandmate-api/core/errors"
	"bandmate-api/core/logger"
	"bandmate-api/core/storage"
	bandentity "bandmate-api/modules/band/entity"
	"bandmate-api/modules/setlist/dto"
	"bandmate-api/modules/setlist/entity"
	"bandmate-api/modules/setlist/repository"

	"github.com/google/uuid"
)

const attachmentURLExpiry = 15 * time.Minute

// Membership resolves a user's role within a band.
type Membership interface {
	RoleOf(ctx context.Context, bandID uuid.UUID, userID uuid.UUID) (bandentity.Role, error)
}

// Actor identifies who is performing an operation
type Actor struct {
	ID      uuid.UUID
	IsAdmin bool
}

// SetlistService handles setlist business logic
type SetlistService struct {
	repo       repository.SetlistRepositoryInterface
	membership Membership
	storage    storage.StorageInterface
}

// SetlistServiceInterface defines the service contract
type SetlistServiceInterface interface {
	Create(ctx context.Context, actor Actor, bandID uuid.UUID, req *dto.CreateSetlistRequest) (*dto.SetlistResponse, *errors.AppError)
	Get(ctx context.Context, actor Actor, setlistID uuid.UUID) (*dto.SetlistResponse, *errors.AppError)
	ListByBand(ctx context.Context, actor Actor, bandID uuid.UUID) ([]dto.SetlistResponse, *errors.AppError)
	Update(ctx context.Context, actor Actor, setlistID uuid.UUID, req *dto.UpdateSetlistRequest) (*dto.SetlistResponse, *errors.AppError)
	Delete(ctx context.Context, actor Actor, setlistID uuid.UUID) *errors.AppError

	AddSong(ctx context.Context, actor Actor, setlistID uuid.UUID, req *dto.AddSongRequest) (*dto.SetlistResponse, *errors.AppError)
	ReorderSongs(ctx context.Context, actor Actor, setlistID uuid.UUID, req *dto.ReorderSongsRequest) (*dto.SetlistResponse, *errors.AppError)
	DeleteSong(ctx context.Context, actor Actor, setlistID uuid.UUID, songID uuid.UUID) *errors.AppError
	UploadAttachment(ctx context.Context, actor Actor, setlistID uuid.UUID, songID uuid.UUID, filename string, contentType string, body io.Reader) (*dto.SetlistResponse, *errors.AppError)
}

func NewSetlistService(repo repository.SetlistRepositoryInterface, membership Membership, store storage.StorageInterface) SetlistServiceInterface {
	return &SetlistService{repo: repo, membership: membership, storage: store}
}

func (s *SetlistService) Create(ctx context.Context, actor Actor, bandID uuid.UUID, req *dto.CreateSetlistRequest) (*dto.SetlistResponse, *errors.AppError) {
	if req.Name == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "setlist name is required", nil)
	}

	if appErr := s.requireManage(ctx, actor, bandID); appErr != nil {
		return nil, appErr
	}

	setlist := &entity.Setlist{
		BandID:    bandID,
		Name:      req.Name,
		CreatedBy: actor.ID,
	}
	if req.Description != "" {
		setlist.Description = &req.Description
	}

	created, err := s.repo.Create(ctx, setlist)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCreateFailed, "failed to create setlist", err)
	}

	return dto.ToSetlistResponse(created, nil), nil
}

func (s *SetlistService) Get(ctx context.Context, actor Actor, setlistID uuid.UUID) (*dto.SetlistResponse, *errors.AppError) {
	setlist, appErr := s.loadForMember(ctx, actor, setlistID)
	if appErr != nil {
		return nil, appErr
	}
	return s.assemble(ctx, setlist)
}

func (s *SetlistService) ListByBand(ctx context.Context, actor Actor, bandID uuid.UUID) ([]dto.SetlistResponse, *errors.AppError) {
	if appErr := s.requireMember(ctx, actor, bandID); appErr != nil {
		return nil, appErr
	}

	setlists, err := s.repo.GetByBandID(ctx, bandID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "failed to get setlists", err)
	}

	result := make([]dto.SetlistResponse, 0, len(setlists))
	for i := range setlists {
		resp, appErr := s.assemble(ctx, &setlists[i])
		if appErr != nil {
			return nil, appErr
		}
		result = append(result, *resp)
	}
	return result, nil
}

func (s *SetlistService) Update(ctx context.Context, actor Actor, setlistID uuid.UUID, req *dto.UpdateSetlistRequest) (*dto.SetlistResponse, *errors.AppError) {
	setlist, appErr := s.loadForManage(ctx, actor, setlistID)
	if appErr != nil {
		return nil, appErr
	}

	if req.Name != "" {
		setlist.Name = req.Name
	}
	if req.Description != "" {
		setlist.Description = &req.Description
	}

	if err := s.repo.Update(ctx, setlist); err != nil {
		return nil, errors.NewAppError(errors.ErrUpdateFailed, "failed to update setlist", err)
	}

	return s.assemble(ctx, setlist)
}

func (s *SetlistService) Delete(ctx context.Context, actor Actor, setlistID uuid.UUID) *errors.AppError {
	if _, appErr := s.loadForManage(ctx, actor, setlistID); appErr != nil {
		return appErr
	}

	if err := s.repo.Delete(ctx, setlistID); err != nil {
		return errors.NewAppError(errors.ErrDeleteFailed, "failed to delete setlist", err)
	}
	return nil
}

// ===================== Songs =====================

func (s *SetlistService) AddSong(ctx context.Context, actor Actor, setlistID uuid.UUID, req *dto.AddSongRequest) (*dto.SetlistResponse, *errors.AppError) {
	if req.Title == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "song title is required", nil)
	}

	setlist, appErr := s.loadForManage(ctx, actor, setlistID)
	if appErr != nil {
		return nil, appErr
	}

	count, err := s.repo.CountSongs(ctx, setlistID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "failed to count songs", err)
	}

	song := &entity.SetlistSong{
		SetlistID: setlistID,
		Position:  count,
		Title:     req.Title,
	}
	if req.Artist != "" {
		song.Artist = &req.Artist
	}
	if req.SongKey != "" {
		song.SongKey = &req.SongKey
	}
	if req.DurationSeconds > 0 {
		song.DurationSeconds = &req.DurationSeconds
	}

	if _, err := s.repo.AddSong(ctx, song); err != nil {
		return nil, errors.NewAppError(errors.ErrCreateFailed, "failed to add song", err)
	}

	return s.assemble(ctx, setlist)
}

// ReorderSongs rewrites positions so they match the given ID order.
// Every song in the setlist must appear exactly once.
func (s *SetlistService) ReorderSongs(ctx context.Context, actor Actor, setlistID uuid.UUID, req *dto.ReorderSongsRequest) (*dto.SetlistResponse, *errors.AppError) {
	setlist, appErr := s.loadForManage(ctx, actor, setlistID)
	if appErr != nil {
		return nil, appErr
	}

	songs, err := s.repo.GetSongsBySetlistID(ctx, setlistID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "failed to get songs", err)
	}
	if len(req.SongIDs) != len(songs) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "song list does not match setlist", nil)
	}

	known := make(map[uuid.UUID]bool, len(songs))
	for _, song := range songs {
		known[song.ID] = true
	}

	ordered := make([]uuid.UUID, 0, len(req.SongIDs))
	for _, raw := range req.SongIDs {
		id, err := uuid.Parse(raw)
		if err != nil || !known[id] {
			return nil, errors.NewAppError(errors.ErrInvalidInput, fmt.Sprintf("unknown song %q", raw), nil)
		}
		delete(known, id)
		ordered = append(ordered, id)
	}

	for position, id := range ordered {
		if err := s.repo.UpdateSongPosition(ctx, id, position); err != nil {
			return nil, errors.NewAppError(errors.ErrUpdateFailed, "failed to reorder songs", err)
		}
	}

	return s.assemble(ctx, setlist)
}

func (s *SetlistService) DeleteSong(ctx context.Context, actor Actor, setlistID uuid.UUID, songID uuid.UUID) *errors.AppError {
	if _, appErr := s.loadForManage(ctx, actor, setlistID); appErr != nil {
		return appErr
	}

	song, err := s.repo.GetSongByID(ctx, songID)
	if err != nil {
		return errors.NewAppError(errors.ErrGetFailed, "failed to get song", err)
	}
	if song == nil || song.SetlistID != setlistID {
		return errors.NewAppError(errors.ErrNotFound, "song not found in this setlist", nil)
	}

	if song.AttachmentKey != nil && s.storage != nil {
		if err := s.storage.Delete(ctx, *song.AttachmentKey); err != nil {
			logger.Error("SetlistService:DeleteSong:storage", err)
		}
	}

	if err := s.repo.DeleteSong(ctx, songID); err != nil {
		return errors.NewAppError(errors.ErrDeleteFailed, "failed to delete song", err)
	}
	return nil
}

func (s *SetlistService) UploadAttachment(ctx context.Context, actor Actor, setlistID uuid.UUID, songID uuid.UUID, filename string, contentType string, body io.Reader) (*dto.SetlistResponse, *errors.AppError) {
	if s.storage == nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "attachment storage is not configured", nil)
	}

	setlist, appErr := s.loadForManage(ctx, actor, setlistID)
	if appErr != nil {
		return nil, appErr
	}

	song, err := s.repo.GetSongByID(ctx, songID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "failed to get song", err)
	}
	if song == nil || song.SetlistID != setlistID {
		return nil, errors.NewAppError(errors.ErrNotFound, "song not found in this setlist", nil)
	}

	key := fmt.Sprintf("setlists/%s/songs/%s/%s", setlistID, songID, filename)
	if err := s.storage.Upload(ctx, key, contentType, body); err != nil {
		return nil, errors.NewAppError(errors.ErrCreateFailed, "failed to upload attachment", err)
	}

	if err := s.repo.SetSongAttachment(ctx, songID, &key); err != nil {
		return nil, errors.NewAppError(errors.ErrUpdateFailed, "failed to record attachment", err)
	}

	return s.assemble(ctx, setlist)
}

// ===================== Helpers =====================

func (s *SetlistService) assemble(ctx context.Context, setlist *entity.Setlist) (*dto.SetlistResponse, *errors.AppError) {
	songs, err := s.repo.GetSongsBySetlistID(ctx, setlist.ID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "failed to get songs", err)
	}

	responses := make([]dto.SongResponse, 0, len(songs))
	for i := range songs {
		url := ""
		if songs[i].AttachmentKey != nil && s.storage != nil {
			presigned, err := s.storage.PresignedURL(ctx, *songs[i].AttachmentKey, attachmentURLExpiry)
			if err != nil {
				logger.Error("SetlistService:assemble:PresignedURL", err)
			} else {
				url = presigned
			}
		}
		responses = append(responses, dto.ToSongResponse(&songs[i], url))
	}

	return dto.ToSetlistResponse(setlist, responses), nil
}

func (s *SetlistService) requireMember(ctx context.Context, actor Actor, bandID uuid.UUID) *errors.AppError {
	role, err := s.membership.RoleOf(ctx, bandID, actor.ID)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to check membership", err)
	}
	if role == bandentity.RoleNone && !actor.IsAdmin {
		return errors.NewAppError(errors.ErrForbidden, "not a member of this band", nil)
	}
	return nil
}

func (s *SetlistService) requireManage(ctx context.Context, actor Actor, bandID uuid.UUID) *errors.AppError {
	role, err := s.membership.RoleOf(ctx, bandID, actor.ID)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to check membership", err)
	}
	if !bandentity.RoleCapabilities(role, actor.IsAdmin).CanManage {
		return errors.NewAppError(errors.ErrForbidden, "not allowed to manage setlists for this band", nil)
	}
	return nil
}

func (s *SetlistService) loadForMember(ctx context.Context, actor Actor, setlistID uuid.UUID) (*entity.Setlist, *errors.AppError) {
	setlist, err := s.repo.GetByID(ctx, setlistID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "failed to get setlist", err)
	}
	if setlist == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "setlist not found", nil)
	}
	if appErr := s.requireMember(ctx, actor, setlist.BandID); appErr != nil {
		return nil, appErr
	}
	return setlist, nil
}

func (s *SetlistService) loadForManage(ctx context.Context, actor Actor, setlistID uuid.UUID) (*entity.Setlist, *errors.AppError) {
	setlist, err := s.repo.GetByID(ctx, setlistID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "failed to get setlist", err)
	}
	if setlist == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "setlist not found", nil)
	}
	if appErr := s.requireManage(ctx, actor, setlist.BandID); appErr != nil {
		return nil, appErr
	}
	return setlist, nil
}
