package service

import (
	"context"
	"fmt"
	"time"

	"bandmate-api/core/errors"
	"bandmate-api/core/logger"
	"bandmate-api/core/mailer"
	authentity "bandmate-api/modules/auth/entity"
	bandentity "bandmate-api/modules/band/entity"
	notifdto "bandmate-api/modules/notification/dto"
	notifentity "bandmate-api/modules/notification/entity"
	"bandmate-api/modules/schedule/dto"
	"bandmate-api/modules/schedule/entity"
	"bandmate-api/modules/schedule/repository"

	"github.com/google/uuid"
)

// Membership resolves a user's role within a band. Consumed read-only;
// this module never mutates membership.
type Membership interface {
	RoleOf(ctx context.Context, bandID uuid.UUID, userID uuid.UUID) (bandentity.Role, error)
}

// Notifier pushes in-app notifications.
type Notifier interface {
	Create(ctx context.Context, req *notifdto.CreateNotificationRequest) error
}

// Mailer enqueues notification emails.
type Mailer interface {
	Enqueue(ctx context.Context, payload mailer.EmailTaskPayload) error
}

// UserDirectory resolves user IDs to names and email addresses.
type UserDirectory interface {
	GetContactsByIDs(ctx context.Context, ids []uuid.UUID) ([]authentity.UserContact, error)
}

// Actor identifies who is performing an operation
type Actor struct {
	ID      uuid.UUID
	IsAdmin bool
}

// ScheduleService handles proposal, voting and confirmation business logic
type ScheduleService struct {
	repo       repository.ScheduleRepositoryInterface
	membership Membership
	notifier   Notifier
	mailer     Mailer
	users      UserDirectory
}

// ScheduleServiceInterface defines the service contract
type ScheduleServiceInterface interface {
	Propose(ctx context.Context, actor Actor, bandID uuid.UUID, req *dto.ProposeItemRequest) (*dto.ItemResponse, *errors.AppError)
	EditProposal(ctx context.Context, actor Actor, itemID uuid.UUID, req *dto.EditItemRequest) (*dto.ItemResponse, *errors.AppError)
	DeleteProposal(ctx context.Context, actor Actor, itemID uuid.UUID) *errors.AppError
	GetItem(ctx context.Context, actor Actor, itemID uuid.UUID) (*dto.ItemResponse, *errors.AppError)
	ListItems(ctx context.Context, actor Actor, bandID uuid.UUID) ([]dto.ItemResponse, *errors.AppError)
	GetRanking(ctx context.Context, actor Actor, itemID uuid.UUID) (*dto.RankingResponse, *errors.AppError)
	CastVote(ctx context.Context, actor Actor, itemID uuid.UUID, slotID uuid.UUID, req *dto.CastVoteRequest) (*dto.ItemResponse, *errors.AppError)
	SuggestTime(ctx context.Context, actor Actor, itemID uuid.UUID, slotID uuid.UUID, req *dto.SuggestTimeRequest) *errors.AppError
	Confirm(ctx context.Context, actor Actor, itemID uuid.UUID, req *dto.ConfirmItemRequest) (*dto.ConfirmResponse, *errors.AppError)
	Reopen(ctx context.Context, actor Actor, itemID uuid.UUID) (*dto.ItemResponse, *errors.AppError)
}

func NewScheduleService(repo repository.ScheduleRepositoryInterface, membership Membership, notifier Notifier, mail Mailer, users UserDirectory) ScheduleServiceInterface {
	return &ScheduleService{
		repo:       repo,
		membership: membership,
		notifier:   notifier,
		mailer:     mail,
		users:      users,
	}
}

// ===================== Proposals =====================

func (s *ScheduleService) Propose(ctx context.Context, actor Actor, bandID uuid.UUID, req *dto.ProposeItemRequest) (*dto.ItemResponse, *errors.AppError) {
	kind := entity.ItemKind(req.Kind)
	if !kind.Valid() {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "kind must be rehearsal or event", nil)
	}
	if req.Title == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "title is required", nil)
	}
	if len(req.Slots) == 0 {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "at least one slot is required", nil)
	}

	slots, appErr := parseSlots(req.Slots)
	if appErr != nil {
		return nil, appErr
	}

	caps, appErr := s.capabilitiesOf(ctx, actor, bandID)
	if appErr != nil {
		return nil, appErr
	}
	if !caps.CanPropose {
		return nil, errors.NewAppError(errors.ErrForbidden, "not allowed to propose for this band", nil)
	}

	item := &entity.Item{
		BandID:    bandID,
		Kind:      kind,
		Title:     req.Title,
		Status:    entity.StatusPending,
		CreatedBy: actor.ID,
	}
	if req.Description != "" {
		item.Description = &req.Description
	}
	if req.LocationID != "" {
		locationID, err := uuid.Parse(req.LocationID)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "invalid location ID", nil)
		}
		item.LocationID = &locationID
	}

	created, err := s.repo.CreateItem(ctx, item)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCreateFailed, "failed to create item", err)
	}

	inserted, err := s.repo.InsertSlots(ctx, created.ID, slots)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCreateFailed, "failed to create slots", err)
	}

	// The proposer is assumed available for every slot they proposed
	for _, slot := range inserted {
		vote := &entity.Vote{SlotID: slot.ID, UserID: actor.ID, Answer: entity.AnswerYes}
		if err := s.repo.UpsertVote(ctx, vote); err != nil {
			return nil, errors.NewAppError(errors.ErrCreateFailed, "failed to record proposer votes", err)
		}
	}

	return s.assembleItem(ctx, created, actor.ID)
}

func (s *ScheduleService) EditProposal(ctx context.Context, actor Actor, itemID uuid.UUID, req *dto.EditItemRequest) (*dto.ItemResponse, *errors.AppError) {
	item, caps, appErr := s.loadItemWithCaps(ctx, actor, itemID)
	if appErr != nil {
		return nil, appErr
	}
	if !caps.CanPropose {
		return nil, errors.NewAppError(errors.ErrForbidden, "not allowed to edit this item", nil)
	}
	if item.Status == entity.StatusConfirmed {
		return nil, errors.NewAppError(errors.ErrAlreadyExists, "item is confirmed; reopen it before editing", nil)
	}

	if req.Title != "" {
		item.Title = req.Title
	}
	if req.Description != "" {
		item.Description = &req.Description
	}
	if req.LocationID != "" {
		locationID, err := uuid.Parse(req.LocationID)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "invalid location ID", nil)
		}
		item.LocationID = &locationID
	}

	if req.Slots != nil {
		if len(req.Slots) == 0 {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "slot list cannot be emptied while pending", nil)
		}
		slots, appErr := parseSlots(req.Slots)
		if appErr != nil {
			return nil, appErr
		}

		// Replacing the slot list drops every vote and suggestion
		// attached to the old slots, on purpose: a vote has no meaning
		// against a date it was not cast for.
		if err := s.repo.DeleteSlotsByItemID(ctx, itemID); err != nil {
			return nil, errors.NewAppError(errors.ErrUpdateFailed, "failed to replace slots", err)
		}
		if _, err := s.repo.InsertSlots(ctx, itemID, slots); err != nil {
			return nil, errors.NewAppError(errors.ErrUpdateFailed, "failed to replace slots", err)
		}
	}

	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return nil, errors.NewAppError(errors.ErrUpdateFailed, "failed to update item", err)
	}

	return s.assembleItem(ctx, item, actor.ID)
}

func (s *ScheduleService) DeleteProposal(ctx context.Context, actor Actor, itemID uuid.UUID) *errors.AppError {
	_, caps, appErr := s.loadItemWithCaps(ctx, actor, itemID)
	if appErr != nil {
		return appErr
	}
	if !caps.CanManage {
		return errors.NewAppError(errors.ErrForbidden, "not allowed to delete this item", nil)
	}

	if err := s.repo.DeleteItem(ctx, itemID); err != nil {
		return errors.NewAppError(errors.ErrDeleteFailed, "failed to delete item", err)
	}
	return nil
}

// ===================== Reads =====================

func (s *ScheduleService) GetItem(ctx context.Context, actor Actor, itemID uuid.UUID) (*dto.ItemResponse, *errors.AppError) {
	item, _, appErr := s.loadItemWithCaps(ctx, actor, itemID)
	if appErr != nil {
		return nil, appErr
	}
	return s.assembleItem(ctx, item, actor.ID)
}

func (s *ScheduleService) ListItems(ctx context.Context, actor Actor, bandID uuid.UUID) ([]dto.ItemResponse, *errors.AppError) {
	if _, appErr := s.capabilitiesOf(ctx, actor, bandID); appErr != nil {
		return nil, appErr
	}

	items, err := s.repo.GetItemsByBandID(ctx, bandID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "failed to get items", err)
	}

	result := make([]dto.ItemResponse, 0, len(items))
	for i := range items {
		resp, appErr := s.assembleItem(ctx, &items[i], actor.ID)
		if appErr != nil {
			return nil, appErr
		}
		result = append(result, *resp)
	}
	return result, nil
}

// GetRanking recomputes the consensus ranking from a fresh read of the
// item's slots and votes.
func (s *ScheduleService) GetRanking(ctx context.Context, actor Actor, itemID uuid.UUID) (*dto.RankingResponse, *errors.AppError) {
	item, _, appErr := s.loadItemWithCaps(ctx, actor, itemID)
	if appErr != nil {
		return nil, appErr
	}

	slots, err := s.repo.GetSlotsByItemID(ctx, itemID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "failed to get slots", err)
	}
	votes, err := s.repo.GetVotesByItemID(ctx, itemID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "failed to get votes", err)
	}

	return &dto.RankingResponse{
		ItemID:  item.ID.String(),
		Kind:    string(item.Kind),
		Ranking: RankSlots(item.Kind, slots, votes),
	}, nil
}

// ===================== Voting =====================

func (s *ScheduleService) CastVote(ctx context.Context, actor Actor, itemID uuid.UUID, slotID uuid.UUID, req *dto.CastVoteRequest) (*dto.ItemResponse, *errors.AppError) {
	item, caps, appErr := s.loadItemWithCaps(ctx, actor, itemID)
	if appErr != nil {
		return nil, appErr
	}
	if !caps.CanVote {
		return nil, errors.NewAppError(errors.ErrForbidden, "not allowed to vote on this item", nil)
	}
	if item.Status == entity.StatusConfirmed {
		return nil, errors.NewAppError(errors.ErrAlreadyExists, "voting is closed; item is confirmed", nil)
	}

	answer := entity.VoteAnswer(req.Answer)
	if !answer.ValidFor(item.Kind) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, fmt.Sprintf("invalid answer %q for %s", req.Answer, item.Kind), nil)
	}

	slot, err := s.repo.GetSlotByID(ctx, slotID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "failed to get slot", err)
	}
	if slot == nil || slot.ItemID != itemID {
		return nil, errors.NewAppError(errors.ErrNotFound, "slot not found on this item", nil)
	}

	vote := &entity.Vote{SlotID: slotID, UserID: actor.ID, Answer: answer}
	if err := s.repo.UpsertVote(ctx, vote); err != nil {
		return nil, errors.NewAppError(errors.ErrUpdateFailed, "failed to record vote", err)
	}

	return s.assembleItem(ctx, item, actor.ID)
}

func (s *ScheduleService) SuggestTime(ctx context.Context, actor Actor, itemID uuid.UUID, slotID uuid.UUID, req *dto.SuggestTimeRequest) *errors.AppError {
	if req.Text == "" {
		return errors.NewAppError(errors.ErrInvalidInput, "suggestion text is required", nil)
	}

	item, caps, appErr := s.loadItemWithCaps(ctx, actor, itemID)
	if appErr != nil {
		return appErr
	}
	if !caps.CanVote {
		return errors.NewAppError(errors.ErrForbidden, "not allowed to suggest on this item", nil)
	}
	if item.Status == entity.StatusConfirmed {
		return errors.NewAppError(errors.ErrAlreadyExists, "item is confirmed; suggestions are closed", nil)
	}

	slot, err := s.repo.GetSlotByID(ctx, slotID)
	if err != nil {
		return errors.NewAppError(errors.ErrGetFailed, "failed to get slot", err)
	}
	if slot == nil || slot.ItemID != item.ID {
		return errors.NewAppError(errors.ErrNotFound, "slot not found on this item", nil)
	}

	suggestion := &entity.TimeSuggestion{SlotID: slotID, UserID: actor.ID, Text: req.Text}
	if err := s.repo.CreateSuggestion(ctx, suggestion); err != nil {
		return errors.NewAppError(errors.ErrCreateFailed, "failed to record suggestion", err)
	}
	return nil
}

// ===================== Confirmation =====================

// Confirm finalizes the item on one slot, then notifies the requested
// recipients. The confirmation is durable before any notification is
// attempted; failed recipients are reported back and never roll it back.
func (s *ScheduleService) Confirm(ctx context.Context, actor Actor, itemID uuid.UUID, req *dto.ConfirmItemRequest) (*dto.ConfirmResponse, *errors.AppError) {
	item, caps, appErr := s.loadItemWithCaps(ctx, actor, itemID)
	if appErr != nil {
		return nil, appErr
	}
	if !caps.CanConfirm {
		return nil, errors.NewAppError(errors.ErrForbidden, "not allowed to confirm this item", nil)
	}
	if item.Status == entity.StatusConfirmed {
		return nil, errors.NewAppError(errors.ErrAlreadyExists, "item is already confirmed", nil)
	}

	slotID, err := uuid.Parse(req.SlotID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "invalid slot ID", nil)
	}
	slot, err := s.repo.GetSlotByID(ctx, slotID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "failed to get slot", err)
	}
	if slot == nil || slot.ItemID != itemID {
		return nil, errors.NewAppError(errors.ErrNotFound, "slot not found on this item", nil)
	}

	if req.LocationID != "" {
		locationID, err := uuid.Parse(req.LocationID)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "invalid location ID", nil)
		}
		item.LocationID = &locationID
	}

	// Copy the chosen times onto the item so the concrete date survives
	// any later slot edits.
	start := slot.StartTime
	item.Status = entity.StatusConfirmed
	item.ConfirmedSlotID = &slot.ID
	item.ConfirmedStart = &start
	item.ConfirmedEnd = slot.EndTime

	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return nil, errors.NewAppError(errors.ErrUpdateFailed, "failed to confirm item", err)
	}

	notified, failed := s.notifyConfirmed(ctx, item, req.NotifyUserIDs)

	itemResp, appErr := s.assembleItem(ctx, item, actor.ID)
	if appErr != nil {
		return nil, appErr
	}

	return &dto.ConfirmResponse{
		Item:     itemResp,
		Notified: notified,
		Failed:   failed,
	}, nil
}

// Reopen reverts a confirmed item to pending so its slots can be voted
// on again. The confirmed date copy is cleared; the slots were retained
// at confirmation so the pending invariant still holds.
func (s *ScheduleService) Reopen(ctx context.Context, actor Actor, itemID uuid.UUID) (*dto.ItemResponse, *errors.AppError) {
	item, caps, appErr := s.loadItemWithCaps(ctx, actor, itemID)
	if appErr != nil {
		return nil, appErr
	}
	if !caps.CanConfirm {
		return nil, errors.NewAppError(errors.ErrForbidden, "not allowed to reopen this item", nil)
	}
	if item.Status != entity.StatusConfirmed {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "item is not confirmed", nil)
	}

	item.Status = entity.StatusPending
	item.ConfirmedSlotID = nil
	item.ConfirmedStart = nil
	item.ConfirmedEnd = nil

	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return nil, errors.NewAppError(errors.ErrUpdateFailed, "failed to reopen item", err)
	}

	return s.assembleItem(ctx, item, actor.ID)
}

// ===================== Helpers =====================

func parseSlots(inputs []dto.SlotInput) ([]entity.Slot, *errors.AppError) {
	slots := make([]entity.Slot, 0, len(inputs))
	for i, in := range inputs {
		start, err := time.Parse(time.RFC3339, in.Start)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInvalidInput, fmt.Sprintf("slot %d: invalid start time", i), err)
		}
		slot := entity.Slot{Position: i, StartTime: start}
		if in.End != "" {
			end, err := time.Parse(time.RFC3339, in.End)
			if err != nil {
				return nil, errors.NewAppError(errors.ErrInvalidInput, fmt.Sprintf("slot %d: invalid end time", i), err)
			}
			slot.EndTime = &end
		}
		slots = append(slots, slot)
	}
	return slots, nil
}

func (s *ScheduleService) capabilitiesOf(ctx context.Context, actor Actor, bandID uuid.UUID) (bandentity.Capabilities, *errors.AppError) {
	role, err := s.membership.RoleOf(ctx, bandID, actor.ID)
	if err != nil {
		return bandentity.Capabilities{}, errors.NewAppError(errors.ErrInternalServer, "failed to check membership", err)
	}
	if role == bandentity.RoleNone && !actor.IsAdmin {
		return bandentity.Capabilities{}, errors.NewAppError(errors.ErrForbidden, "not a member of this band", nil)
	}
	return bandentity.RoleCapabilities(role, actor.IsAdmin), nil
}

func (s *ScheduleService) loadItemWithCaps(ctx context.Context, actor Actor, itemID uuid.UUID) (*entity.Item, bandentity.Capabilities, *errors.AppError) {
	item, err := s.repo.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, bandentity.Capabilities{}, errors.NewAppError(errors.ErrGetFailed, "failed to get item", err)
	}
	if item == nil {
		return nil, bandentity.Capabilities{}, errors.NewAppError(errors.ErrNotFound, "item not found", nil)
	}

	caps, appErr := s.capabilitiesOf(ctx, actor, item.BandID)
	if appErr != nil {
		return nil, bandentity.Capabilities{}, appErr
	}
	return item, caps, nil
}

func (s *ScheduleService) assembleItem(ctx context.Context, item *entity.Item, viewerID uuid.UUID) (*dto.ItemResponse, *errors.AppError) {
	slots, err := s.repo.GetSlotsByItemID(ctx, item.ID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "failed to get slots", err)
	}
	votes, err := s.repo.GetVotesByItemID(ctx, item.ID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "failed to get votes", err)
	}
	suggestions, err := s.repo.GetSuggestionsByItemID(ctx, item.ID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "failed to get suggestions", err)
	}

	return dto.ToItemResponse(item, slots, votes, suggestions, viewerID), nil
}

// notifyConfirmed fans out in-app notifications and emails to the
// requested recipients. Best-effort only.
func (s *ScheduleService) notifyConfirmed(ctx context.Context, item *entity.Item, notifyUserIDs []string) (notified []string, failed []string) {
	notified = []string{}
	failed = []string{}
	if len(notifyUserIDs) == 0 {
		return notified, failed
	}

	ids := make([]uuid.UUID, 0, len(notifyUserIDs))
	for _, raw := range notifyUserIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			failed = append(failed, raw)
			continue
		}
		ids = append(ids, id)
	}

	contacts := map[uuid.UUID]authentity.UserContact{}
	if s.users != nil {
		list, err := s.users.GetContactsByIDs(ctx, ids)
		if err != nil {
			logger.Error("ScheduleService:notifyConfirmed:GetContactsByIDs", err)
		}
		for _, c := range list {
			contacts[c.ID] = c
		}
	}

	when := ""
	if item.ConfirmedStart != nil {
		when = item.ConfirmedStart.Format("Mon, 02 Jan 2006 15:04")
	}
	subject := fmt.Sprintf("%s confirmed: %s", item.Kind, item.Title)
	body := fmt.Sprintf("%q has been confirmed for %s.", item.Title, when)

	for _, id := range ids {
		ok := true

		if s.notifier != nil {
			notif := &notifdto.CreateNotificationRequest{
				UserID:  id,
				Title:   subject,
				Message: body,
				Type:    notifentity.TypeItemConfirmed,
				Data: map[string]interface{}{
					"item_id": item.ID.String(),
					"band_id": item.BandID.String(),
				},
			}
			if err := s.notifier.Create(ctx, notif); err != nil {
				logger.Error("ScheduleService:notifyConfirmed:Create", err)
				ok = false
			}
		}

		if s.mailer != nil {
			contact, found := contacts[id]
			if !found {
				ok = false
			} else if err := s.mailer.Enqueue(ctx, mailer.EmailTaskPayload{
				To:      contact.Email,
				Subject: subject,
				Body:    body,
			}); err != nil {
				logger.Error("ScheduleService:notifyConfirmed:Enqueue", err)
				ok = false
			}
		}

		if ok {
			notified = append(notified, id.String())
		} else {
			failed = append(failed, id.String())
		}
	}

	return notified, failed
}
