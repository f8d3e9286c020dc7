package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	apperrors "bandmate-api/core/errors"
	"bandmate-api/core/mailer"
	authentity "bandmate-api/modules/auth/entity"
	bandentity "bandmate-api/modules/band/entity"
	notifdto "bandmate-api/modules/notification/dto"
	"bandmate-api/modules/schedule/dto"
	"bandmate-api/modules/schedule/entity"

	"github.com/google/uuid"
)

// ===================== In-memory fakes =====================

type fakeRepo struct {
	items       map[uuid.UUID]entity.Item
	slots       map[uuid.UUID]entity.Slot
	votes       map[string]entity.Vote
	suggestions []entity.TimeSuggestion
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		items: map[uuid.UUID]entity.Item{},
		slots: map[uuid.UUID]entity.Slot{},
		votes: map[string]entity.Vote{},
	}
}

func voteKey(slotID uuid.UUID, userID uuid.UUID) string {
	return slotID.String() + "/" + userID.String()
}

func (r *fakeRepo) CreateItem(ctx context.Context, item *entity.Item) (*entity.Item, error) {
	created := *item
	created.ID = uuid.New()
	created.CreatedAt = time.Now()
	r.items[created.ID] = created
	return &created, nil
}

func (r *fakeRepo) GetItemByID(ctx context.Context, id uuid.UUID) (*entity.Item, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

func (r *fakeRepo) GetItemsByBandID(ctx context.Context, bandID uuid.UUID) ([]entity.Item, error) {
	var items []entity.Item
	for _, item := range r.items {
		if item.BandID == bandID {
			items = append(items, item)
		}
	}
	return items, nil
}

func (r *fakeRepo) UpdateItem(ctx context.Context, item *entity.Item) error {
	if _, ok := r.items[item.ID]; !ok {
		return errors.New("item not found")
	}
	r.items[item.ID] = *item
	return nil
}

func (r *fakeRepo) DeleteItem(ctx context.Context, id uuid.UUID) error {
	delete(r.items, id)
	for slotID, slot := range r.slots {
		if slot.ItemID == id {
			delete(r.slots, slotID)
		}
	}
	return nil
}

func (r *fakeRepo) InsertSlots(ctx context.Context, itemID uuid.UUID, slots []entity.Slot) ([]entity.Slot, error) {
	created := make([]entity.Slot, 0, len(slots))
	for _, slot := range slots {
		slot.ID = uuid.New()
		slot.ItemID = itemID
		r.slots[slot.ID] = slot
		created = append(created, slot)
	}
	return created, nil
}

func (r *fakeRepo) GetSlotsByItemID(ctx context.Context, itemID uuid.UUID) ([]entity.Slot, error) {
	var slots []entity.Slot
	for _, slot := range r.slots {
		if slot.ItemID == itemID {
			slots = append(slots, slot)
		}
	}
	for i := range slots {
		for j := i + 1; j < len(slots); j++ {
			if slots[j].Position < slots[i].Position {
				slots[i], slots[j] = slots[j], slots[i]
			}
		}
	}
	return slots, nil
}

func (r *fakeRepo) GetSlotByID(ctx context.Context, id uuid.UUID) (*entity.Slot, error) {
	slot, ok := r.slots[id]
	if !ok {
		return nil, nil
	}
	return &slot, nil
}

func (r *fakeRepo) DeleteSlotsByItemID(ctx context.Context, itemID uuid.UUID) error {
	for slotID, slot := range r.slots {
		if slot.ItemID == itemID {
			delete(r.slots, slotID)
			for key, vote := range r.votes {
				if vote.SlotID == slotID {
					delete(r.votes, key)
				}
			}
		}
	}
	return nil
}

func (r *fakeRepo) UpsertVote(ctx context.Context, vote *entity.Vote) error {
	key := voteKey(vote.SlotID, vote.UserID)
	stored := *vote
	if existing, ok := r.votes[key]; ok {
		stored.ID = existing.ID
	} else {
		stored.ID = uuid.New()
	}
	stored.UpdatedAt = time.Now()
	r.votes[key] = stored
	return nil
}

func (r *fakeRepo) GetVotesByItemID(ctx context.Context, itemID uuid.UUID) ([]entity.Vote, error) {
	var votes []entity.Vote
	for _, vote := range r.votes {
		slot, ok := r.slots[vote.SlotID]
		if ok && slot.ItemID == itemID {
			votes = append(votes, vote)
		}
	}
	return votes, nil
}

func (r *fakeRepo) CreateSuggestion(ctx context.Context, suggestion *entity.TimeSuggestion) error {
	stored := *suggestion
	stored.ID = uuid.New()
	stored.CreatedAt = time.Now()
	r.suggestions = append(r.suggestions, stored)
	return nil
}

func (r *fakeRepo) GetSuggestionsByItemID(ctx context.Context, itemID uuid.UUID) ([]entity.TimeSuggestion, error) {
	var result []entity.TimeSuggestion
	for _, s := range r.suggestions {
		slot, ok := r.slots[s.SlotID]
		if ok && slot.ItemID == itemID {
			result = append(result, s)
		}
	}
	return result, nil
}

type fakeMembership struct {
	roles map[uuid.UUID]bandentity.Role
}

func (m *fakeMembership) RoleOf(ctx context.Context, bandID uuid.UUID, userID uuid.UUID) (bandentity.Role, error) {
	return m.roles[userID], nil
}

type fakeNotifier struct {
	created []notifdto.CreateNotificationRequest
	fail    bool
}

func (n *fakeNotifier) Create(ctx context.Context, req *notifdto.CreateNotificationRequest) error {
	if n.fail {
		return errors.New("notifier down")
	}
	n.created = append(n.created, *req)
	return nil
}

type fakeMailer struct {
	sent []mailer.EmailTaskPayload
	fail bool
}

func (m *fakeMailer) Enqueue(ctx context.Context, payload mailer.EmailTaskPayload) error {
	if m.fail {
		return errors.New("queue down")
	}
	m.sent = append(m.sent, payload)
	return nil
}

type fakeUsers struct {
	contacts map[uuid.UUID]authentity.UserContact
}

func (u *fakeUsers) GetContactsByIDs(ctx context.Context, ids []uuid.UUID) ([]authentity.UserContact, error) {
	var result []authentity.UserContact
	for _, id := range ids {
		if c, ok := u.contacts[id]; ok {
			result = append(result, c)
		}
	}
	return result, nil
}

// ===================== Fixture =====================

type fixture struct {
	repo     *fakeRepo
	notifier *fakeNotifier
	mailer   *fakeMailer
	users    *fakeUsers
	svc      ScheduleServiceInterface
	bandID   uuid.UUID
	leader   Actor
	member   Actor
	outsider Actor
}

func newFixture() *fixture {
	f := &fixture{
		repo:     newFakeRepo(),
		notifier: &fakeNotifier{},
		mailer:   &fakeMailer{},
		users:    &fakeUsers{contacts: map[uuid.UUID]authentity.UserContact{}},
		bandID:   uuid.New(),
		leader:   Actor{ID: uuid.New()},
		member:   Actor{ID: uuid.New()},
		outsider: Actor{ID: uuid.New()},
	}
	membership := &fakeMembership{roles: map[uuid.UUID]bandentity.Role{
		f.leader.ID: bandentity.RoleLeader,
		f.member.ID: bandentity.RoleMember,
	}}
	f.svc = NewScheduleService(f.repo, membership, f.notifier, f.mailer, f.users)
	return f
}

func proposal(kind string, slotCount int) *dto.ProposeItemRequest {
	req := &dto.ProposeItemRequest{
		Kind:  kind,
		Title: "Friday practice",
	}
	base := time.Date(2026, 9, 11, 19, 0, 0, 0, time.UTC)
	for i := 0; i < slotCount; i++ {
		req.Slots = append(req.Slots, dto.SlotInput{
			Start: base.AddDate(0, 0, i).Format(time.RFC3339),
		})
	}
	return req
}

func (f *fixture) propose(t *testing.T, kind string, slotCount int) *dto.ItemResponse {
	t.Helper()
	item, appErr := f.svc.Propose(context.Background(), f.leader, f.bandID, proposal(kind, slotCount))
	if appErr != nil {
		t.Fatalf("propose failed: %v", appErr)
	}
	return item
}

func wantCode(t *testing.T, appErr *apperrors.AppError, code apperrors.ErrorCode) {
	t.Helper()
	if appErr == nil {
		t.Fatalf("expected error %s, got nil", code)
	}
	if appErr.Code != code {
		t.Fatalf("expected error %s, got %s (%s)", code, appErr.Code, appErr.Message)
	}
}

// ===================== Proposals =====================

func TestProposeWithEmptySlotsFails(t *testing.T) {
	f := newFixture()

	req := proposal("rehearsal", 0)
	_, appErr := f.svc.Propose(context.Background(), f.leader, f.bandID, req)

	wantCode(t, appErr, apperrors.ErrInvalidInput)
	if len(f.repo.items) != 0 {
		t.Errorf("expected no item created, got %d", len(f.repo.items))
	}
}

func TestProposeWithBadStartTimeFails(t *testing.T) {
	f := newFixture()

	req := proposal("rehearsal", 1)
	req.Slots[0].Start = "next friday evening"
	_, appErr := f.svc.Propose(context.Background(), f.leader, f.bandID, req)

	wantCode(t, appErr, apperrors.ErrInvalidInput)
	if len(f.repo.items) != 0 {
		t.Errorf("expected no item created, got %d", len(f.repo.items))
	}
}

func TestProposeRequiresLeaderRole(t *testing.T) {
	f := newFixture()

	_, appErr := f.svc.Propose(context.Background(), f.member, f.bandID, proposal("rehearsal", 2))
	wantCode(t, appErr, apperrors.ErrForbidden)

	_, appErr = f.svc.Propose(context.Background(), f.outsider, f.bandID, proposal("rehearsal", 2))
	wantCode(t, appErr, apperrors.ErrForbidden)
}

func TestProposeAdminBypassesMembership(t *testing.T) {
	f := newFixture()
	admin := Actor{ID: uuid.New(), IsAdmin: true}

	item, appErr := f.svc.Propose(context.Background(), admin, f.bandID, proposal("event", 1))
	if appErr != nil {
		t.Fatalf("admin propose failed: %v", appErr)
	}
	if item.Status != string(entity.StatusPending) {
		t.Errorf("expected pending status, got %s", item.Status)
	}
}

func TestProposeAutoVotesYesForProposer(t *testing.T) {
	f := newFixture()

	item := f.propose(t, "rehearsal", 2)

	if len(item.Slots) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(item.Slots))
	}
	if len(f.repo.votes) != 2 {
		t.Fatalf("expected 2 auto votes, got %d", len(f.repo.votes))
	}
	for _, slot := range item.Slots {
		if slot.MyAnswer != string(entity.AnswerYes) {
			t.Errorf("expected proposer yes vote on slot %d, got %q", slot.Position, slot.MyAnswer)
		}
	}
}

func TestEditProposalReplacingSlotsDropsVotes(t *testing.T) {
	f := newFixture()
	item := f.propose(t, "rehearsal", 2)
	itemID := uuid.MustParse(item.ID)

	// A member votes on an original slot
	slotID := uuid.MustParse(item.Slots[0].ID)
	if _, appErr := f.svc.CastVote(context.Background(), f.member, itemID, slotID, &dto.CastVoteRequest{Answer: "maybe"}); appErr != nil {
		t.Fatalf("cast vote failed: %v", appErr)
	}

	newStart := time.Date(2026, 10, 1, 20, 0, 0, 0, time.UTC)
	updated, appErr := f.svc.EditProposal(context.Background(), f.leader, itemID, &dto.EditItemRequest{
		Slots: []dto.SlotInput{{Start: newStart.Format(time.RFC3339)}},
	})
	if appErr != nil {
		t.Fatalf("edit failed: %v", appErr)
	}

	if len(updated.Slots) != 1 {
		t.Fatalf("expected 1 slot after replacement, got %d", len(updated.Slots))
	}
	if len(updated.Slots[0].Votes) != 0 {
		t.Errorf("expected votes dropped with replaced slots, got %d", len(updated.Slots[0].Votes))
	}
}

func TestEditProposalCannotEmptySlots(t *testing.T) {
	f := newFixture()
	item := f.propose(t, "rehearsal", 2)

	_, appErr := f.svc.EditProposal(context.Background(), f.leader, uuid.MustParse(item.ID), &dto.EditItemRequest{
		Slots: []dto.SlotInput{},
	})
	wantCode(t, appErr, apperrors.ErrInvalidInput)
}

// ===================== Voting =====================

func TestCastVoteUpsertKeepsLatestAnswer(t *testing.T) {
	f := newFixture()
	item := f.propose(t, "rehearsal", 1)
	itemID := uuid.MustParse(item.ID)
	slotID := uuid.MustParse(item.Slots[0].ID)

	for _, answer := range []string{"maybe", "no"} {
		if _, appErr := f.svc.CastVote(context.Background(), f.member, itemID, slotID, &dto.CastVoteRequest{Answer: answer}); appErr != nil {
			t.Fatalf("cast vote %q failed: %v", answer, appErr)
		}
	}

	stored, ok := f.repo.votes[voteKey(slotID, f.member.ID)]
	if !ok {
		t.Fatal("expected a vote for the member")
	}
	if stored.Answer != entity.AnswerNo {
		t.Errorf("expected latest answer no, got %s", stored.Answer)
	}

	// Proposer's auto vote plus one member vote, not three
	if len(f.repo.votes) != 2 {
		t.Errorf("expected 2 votes total, got %d", len(f.repo.votes))
	}
}

func TestCastVoteMaybeRejectedForEvents(t *testing.T) {
	f := newFixture()
	item := f.propose(t, "event", 1)

	_, appErr := f.svc.CastVote(context.Background(), f.member,
		uuid.MustParse(item.ID), uuid.MustParse(item.Slots[0].ID),
		&dto.CastVoteRequest{Answer: "maybe"})
	wantCode(t, appErr, apperrors.ErrInvalidInput)
}

func TestCastVoteOnForeignSlotFails(t *testing.T) {
	f := newFixture()
	first := f.propose(t, "rehearsal", 1)
	second := f.propose(t, "rehearsal", 1)

	// Slot belongs to the second item, not the first
	_, appErr := f.svc.CastVote(context.Background(), f.member,
		uuid.MustParse(first.ID), uuid.MustParse(second.Slots[0].ID),
		&dto.CastVoteRequest{Answer: "yes"})
	wantCode(t, appErr, apperrors.ErrNotFound)
}

func TestCastVoteByOutsiderFails(t *testing.T) {
	f := newFixture()
	item := f.propose(t, "rehearsal", 1)

	_, appErr := f.svc.CastVote(context.Background(), f.outsider,
		uuid.MustParse(item.ID), uuid.MustParse(item.Slots[0].ID),
		&dto.CastVoteRequest{Answer: "yes"})
	wantCode(t, appErr, apperrors.ErrForbidden)
}

// ===================== Confirmation =====================

func TestConfirmCopiesSlotTimes(t *testing.T) {
	f := newFixture()
	item := f.propose(t, "rehearsal", 3)
	itemID := uuid.MustParse(item.ID)
	chosen := item.Slots[1]

	result, appErr := f.svc.Confirm(context.Background(), f.leader, itemID, &dto.ConfirmItemRequest{
		SlotID: chosen.ID,
	})
	if appErr != nil {
		t.Fatalf("confirm failed: %v", appErr)
	}

	if result.Item.Status != string(entity.StatusConfirmed) {
		t.Errorf("expected confirmed status, got %s", result.Item.Status)
	}
	if result.Item.ConfirmedStart == nil || !result.Item.ConfirmedStart.Equal(chosen.Start) {
		t.Errorf("expected confirmed start %v, got %v", chosen.Start, result.Item.ConfirmedStart)
	}

	// Slots are retained after confirmation for the record
	if len(result.Item.Slots) != 3 {
		t.Errorf("expected slots retained, got %d", len(result.Item.Slots))
	}
}

func TestConfirmTwiceFailsWithConflict(t *testing.T) {
	f := newFixture()
	item := f.propose(t, "rehearsal", 2)
	itemID := uuid.MustParse(item.ID)
	req := &dto.ConfirmItemRequest{SlotID: item.Slots[0].ID}

	if _, appErr := f.svc.Confirm(context.Background(), f.leader, itemID, req); appErr != nil {
		t.Fatalf("first confirm failed: %v", appErr)
	}

	_, appErr := f.svc.Confirm(context.Background(), f.leader, itemID, req)
	wantCode(t, appErr, apperrors.ErrAlreadyExists)
}

func TestConfirmRequiresLeaderRole(t *testing.T) {
	f := newFixture()
	item := f.propose(t, "rehearsal", 1)

	_, appErr := f.svc.Confirm(context.Background(), f.member, uuid.MustParse(item.ID),
		&dto.ConfirmItemRequest{SlotID: item.Slots[0].ID})
	wantCode(t, appErr, apperrors.ErrForbidden)
}

func TestVoteAfterConfirmFailsWithConflict(t *testing.T) {
	f := newFixture()
	item := f.propose(t, "rehearsal", 3)
	itemID := uuid.MustParse(item.ID)

	if _, appErr := f.svc.Confirm(context.Background(), f.leader, itemID,
		&dto.ConfirmItemRequest{SlotID: item.Slots[1].ID}); appErr != nil {
		t.Fatalf("confirm failed: %v", appErr)
	}

	_, appErr := f.svc.CastVote(context.Background(), f.member, itemID,
		uuid.MustParse(item.Slots[0].ID), &dto.CastVoteRequest{Answer: "yes"})
	wantCode(t, appErr, apperrors.ErrAlreadyExists)
}

func TestConfirmNotifiesRecipients(t *testing.T) {
	f := newFixture()
	f.users.contacts[f.member.ID] = authentity.UserContact{
		ID: f.member.ID, Name: "Sam", Email: "sam@example.com",
	}
	item := f.propose(t, "rehearsal", 1)

	result, appErr := f.svc.Confirm(context.Background(), f.leader, uuid.MustParse(item.ID),
		&dto.ConfirmItemRequest{
			SlotID:        item.Slots[0].ID,
			NotifyUserIDs: []string{f.member.ID.String()},
		})
	if appErr != nil {
		t.Fatalf("confirm failed: %v", appErr)
	}

	if len(result.Notified) != 1 || result.Notified[0] != f.member.ID.String() {
		t.Errorf("expected member notified, got %v", result.Notified)
	}
	if len(result.Failed) != 0 {
		t.Errorf("expected no failures, got %v", result.Failed)
	}
	if len(f.notifier.created) != 1 {
		t.Errorf("expected 1 in-app notification, got %d", len(f.notifier.created))
	}
	if len(f.mailer.sent) != 1 || f.mailer.sent[0].To != "sam@example.com" {
		t.Errorf("expected 1 email to sam, got %v", f.mailer.sent)
	}
}

func TestConfirmSurvivesNotificationFailure(t *testing.T) {
	f := newFixture()
	f.notifier.fail = true
	f.mailer.fail = true
	item := f.propose(t, "rehearsal", 1)
	itemID := uuid.MustParse(item.ID)

	result, appErr := f.svc.Confirm(context.Background(), f.leader, itemID,
		&dto.ConfirmItemRequest{
			SlotID:        item.Slots[0].ID,
			NotifyUserIDs: []string{f.member.ID.String()},
		})
	if appErr != nil {
		t.Fatalf("confirm must not fail on notification errors: %v", appErr)
	}

	if len(result.Failed) != 1 {
		t.Errorf("expected 1 failed recipient, got %v", result.Failed)
	}

	stored := f.repo.items[itemID]
	if stored.Status != entity.StatusConfirmed {
		t.Errorf("confirmation must stay durable, got status %s", stored.Status)
	}
}

// ===================== Reopen =====================

func TestReopenRestoresVoting(t *testing.T) {
	f := newFixture()
	item := f.propose(t, "rehearsal", 2)
	itemID := uuid.MustParse(item.ID)

	if _, appErr := f.svc.Confirm(context.Background(), f.leader, itemID,
		&dto.ConfirmItemRequest{SlotID: item.Slots[0].ID}); appErr != nil {
		t.Fatalf("confirm failed: %v", appErr)
	}

	reopened, appErr := f.svc.Reopen(context.Background(), f.leader, itemID)
	if appErr != nil {
		t.Fatalf("reopen failed: %v", appErr)
	}
	if reopened.Status != string(entity.StatusPending) {
		t.Errorf("expected pending after reopen, got %s", reopened.Status)
	}
	if reopened.ConfirmedStart != nil {
		t.Errorf("expected confirmed date cleared, got %v", reopened.ConfirmedStart)
	}

	if _, appErr := f.svc.CastVote(context.Background(), f.member, itemID,
		uuid.MustParse(item.Slots[1].ID), &dto.CastVoteRequest{Answer: "yes"}); appErr != nil {
		t.Errorf("voting should work after reopen: %v", appErr)
	}
}

func TestReopenPendingItemFails(t *testing.T) {
	f := newFixture()
	item := f.propose(t, "rehearsal", 1)

	_, appErr := f.svc.Reopen(context.Background(), f.leader, uuid.MustParse(item.ID))
	wantCode(t, appErr, apperrors.ErrInvalidInput)
}

// ===================== Ranking through the service =====================

func TestGetRankingReflectsFreshVotes(t *testing.T) {
	f := newFixture()
	item := f.propose(t, "rehearsal", 2)
	itemID := uuid.MustParse(item.ID)

	before, appErr := f.svc.GetRanking(context.Background(), f.member, itemID)
	if appErr != nil {
		t.Fatalf("ranking failed: %v", appErr)
	}

	// Proposer auto-voted yes everywhere, so both slots tie at 1 and
	// proposal order decides.
	if before.Ranking[0].SlotID.String() != item.Slots[0].ID {
		t.Errorf("expected slot 0 first on tie")
	}

	if _, appErr := f.svc.CastVote(context.Background(), f.member, itemID,
		uuid.MustParse(item.Slots[1].ID), &dto.CastVoteRequest{Answer: "yes"}); appErr != nil {
		t.Fatalf("cast vote failed: %v", appErr)
	}

	after, appErr := f.svc.GetRanking(context.Background(), f.member, itemID)
	if appErr != nil {
		t.Fatalf("ranking failed: %v", appErr)
	}
	if after.Ranking[0].SlotID.String() != item.Slots[1].ID {
		t.Errorf("expected slot 1 first after new vote, got %+v", after.Ranking)
	}
	if after.Ranking[0].Score != 2 {
		t.Errorf("expected score 2, got %v", after.Ranking[0].Score)
	}
}

// ===================== Suggestions =====================

func TestSuggestTimeAppends(t *testing.T) {
	f := newFixture()
	item := f.propose(t, "rehearsal", 1)
	itemID := uuid.MustParse(item.ID)
	slotID := uuid.MustParse(item.Slots[0].ID)

	for i := 0; i < 2; i++ {
		text := fmt.Sprintf("could we start at %d pm instead?", 7+i)
		if appErr := f.svc.SuggestTime(context.Background(), f.member, itemID, slotID,
			&dto.SuggestTimeRequest{Text: text}); appErr != nil {
			t.Fatalf("suggest failed: %v", appErr)
		}
	}

	if len(f.repo.suggestions) != 2 {
		t.Errorf("expected 2 suggestions appended, got %d", len(f.repo.suggestions))
	}
}

func TestSuggestTimeAfterConfirmFails(t *testing.T) {
	f := newFixture()
	item := f.propose(t, "rehearsal", 1)
	itemID := uuid.MustParse(item.ID)
	slotID := item.Slots[0].ID

	if _, appErr := f.svc.Confirm(context.Background(), f.leader, itemID,
		&dto.ConfirmItemRequest{SlotID: slotID}); appErr != nil {
		t.Fatalf("confirm failed: %v", appErr)
	}

	appErr := f.svc.SuggestTime(context.Background(), f.member, itemID,
		uuid.MustParse(slotID), &dto.SuggestTimeRequest{Text: "what about 9 pm?"})
	wantCode(t, appErr, apperrors.ErrAlreadyExists)
}

func TestSuggestTimeEmptyTextFails(t *testing.T) {
	f := newFixture()
	item := f.propose(t, "rehearsal", 1)

	appErr := f.svc.SuggestTime(context.Background(), f.member,
		uuid.MustParse(item.ID), uuid.MustParse(item.Slots[0].ID),
		&dto.SuggestTimeRequest{Text: ""})
	wantCode(t, appErr, apperrors.ErrInvalidInput)
}
