package service

import (
	"context"
	"testing"

	apperrors "bandmate-api/core/errors"
	"bandmate-api/modules/band/dto"
	"bandmate-api/modules/band/entity"
	notifdto "bandmate-api/modules/notification/dto"

	"github.com/google/uuid"
)

// ===================== In-memory fakes =====================

type fakeBandRepo struct {
	bands     map[uuid.UUID]entity.Band
	members   map[uuid.UUID]map[uuid.UUID]entity.BandMember
	locations map[uuid.UUID]entity.Location
}

func newFakeBandRepo() *fakeBandRepo {
	return &fakeBandRepo{
		bands:     map[uuid.UUID]entity.Band{},
		members:   map[uuid.UUID]map[uuid.UUID]entity.BandMember{},
		locations: map[uuid.UUID]entity.Location{},
	}
}

func (r *fakeBandRepo) CreateBand(ctx context.Context, band *entity.Band) (*entity.Band, error) {
	created := *band
	created.ID = uuid.New()
	r.bands[created.ID] = created
	return &created, nil
}

func (r *fakeBandRepo) GetBandByID(ctx context.Context, id uuid.UUID) (*entity.Band, error) {
	band, ok := r.bands[id]
	if !ok {
		return nil, nil
	}
	return &band, nil
}

func (r *fakeBandRepo) GetBandBySlug(ctx context.Context, slug string) (*entity.Band, error) {
	for _, band := range r.bands {
		if band.Slug == slug {
			b := band
			return &b, nil
		}
	}
	return nil, nil
}

func (r *fakeBandRepo) GetBandByInviteCode(ctx context.Context, code string) (*entity.Band, error) {
	for _, band := range r.bands {
		if band.InviteCode == code {
			b := band
			return &b, nil
		}
	}
	return nil, nil
}

func (r *fakeBandRepo) GetBandsByUserID(ctx context.Context, userID uuid.UUID) ([]entity.Band, error) {
	var result []entity.Band
	for bandID, members := range r.members {
		if _, ok := members[userID]; ok {
			result = append(result, r.bands[bandID])
		}
	}
	return result, nil
}

func (r *fakeBandRepo) UpdateBand(ctx context.Context, band *entity.Band) error {
	r.bands[band.ID] = *band
	return nil
}

func (r *fakeBandRepo) DeleteBand(ctx context.Context, id uuid.UUID) error {
	delete(r.bands, id)
	delete(r.members, id)
	return nil
}

func (r *fakeBandRepo) AddMember(ctx context.Context, member *entity.BandMember) error {
	if r.members[member.BandID] == nil {
		r.members[member.BandID] = map[uuid.UUID]entity.BandMember{}
	}
	if _, exists := r.members[member.BandID][member.UserID]; exists {
		return nil
	}
	r.members[member.BandID][member.UserID] = *member
	return nil
}

func (r *fakeBandRepo) GetMember(ctx context.Context, bandID uuid.UUID, userID uuid.UUID) (*entity.BandMember, error) {
	member, ok := r.members[bandID][userID]
	if !ok {
		return nil, nil
	}
	return &member, nil
}

func (r *fakeBandRepo) GetMembersByBandID(ctx context.Context, bandID uuid.UUID) ([]entity.BandMember, error) {
	var result []entity.BandMember
	for _, member := range r.members[bandID] {
		result = append(result, member)
	}
	return result, nil
}

func (r *fakeBandRepo) UpdateMemberRole(ctx context.Context, bandID uuid.UUID, userID uuid.UUID, role entity.Role) error {
	member := r.members[bandID][userID]
	member.Role = role
	r.members[bandID][userID] = member
	return nil
}

func (r *fakeBandRepo) RemoveMember(ctx context.Context, bandID uuid.UUID, userID uuid.UUID) error {
	delete(r.members[bandID], userID)
	return nil
}

func (r *fakeBandRepo) CountMembersWithRole(ctx context.Context, bandID uuid.UUID, role entity.Role) (int, error) {
	count := 0
	for _, member := range r.members[bandID] {
		if member.Role == role {
			count++
		}
	}
	return count, nil
}

func (r *fakeBandRepo) CreateLocation(ctx context.Context, location *entity.Location) (*entity.Location, error) {
	created := *location
	created.ID = uuid.New()
	r.locations[created.ID] = created
	return &created, nil
}

func (r *fakeBandRepo) GetLocationByID(ctx context.Context, id uuid.UUID) (*entity.Location, error) {
	location, ok := r.locations[id]
	if !ok {
		return nil, nil
	}
	return &location, nil
}

func (r *fakeBandRepo) GetLocationsByBandID(ctx context.Context, bandID uuid.UUID) ([]entity.Location, error) {
	var result []entity.Location
	for _, location := range r.locations {
		if location.BandID == bandID {
			result = append(result, location)
		}
	}
	return result, nil
}

func (r *fakeBandRepo) DeleteLocation(ctx context.Context, id uuid.UUID) error {
	delete(r.locations, id)
	return nil
}

type recordingNotifier struct {
	created []notifdto.CreateNotificationRequest
}

func (n *recordingNotifier) Create(ctx context.Context, req *notifdto.CreateNotificationRequest) error {
	n.created = append(n.created, *req)
	return nil
}

// ===================== Tests =====================

func wantCode(t *testing.T, appErr *apperrors.AppError, code apperrors.ErrorCode) {
	t.Helper()
	if appErr == nil {
		t.Fatalf("expected error %s, got nil", code)
	}
	if appErr.Code != code {
		t.Fatalf("expected error %s, got %s (%s)", code, appErr.Code, appErr.Message)
	}
}

func TestCreateBandMakesCreatorLeader(t *testing.T) {
	repo := newFakeBandRepo()
	svc := NewBandService(repo, &recordingNotifier{})
	creator := Actor{ID: uuid.New()}

	band, appErr := svc.CreateBand(context.Background(), creator, &dto.CreateBandRequest{Name: "The Cover Band"})
	if appErr != nil {
		t.Fatalf("create failed: %v", appErr)
	}

	if band.Slug != "the-cover-band" {
		t.Errorf("expected slug the-cover-band, got %s", band.Slug)
	}
	if band.InviteCode == "" {
		t.Error("expected an invite code for the creator")
	}

	role, err := svc.RoleOf(context.Background(), uuid.MustParse(band.ID), creator.ID)
	if err != nil {
		t.Fatalf("RoleOf failed: %v", err)
	}
	if role != entity.RoleLeader {
		t.Errorf("expected creator to be leader, got %s", role)
	}
}

func TestCreateBandSlugCollisionGetsSuffix(t *testing.T) {
	repo := newFakeBandRepo()
	svc := NewBandService(repo, &recordingNotifier{})

	first, appErr := svc.CreateBand(context.Background(), Actor{ID: uuid.New()}, &dto.CreateBandRequest{Name: "Loud Neighbours"})
	if appErr != nil {
		t.Fatalf("create failed: %v", appErr)
	}
	second, appErr := svc.CreateBand(context.Background(), Actor{ID: uuid.New()}, &dto.CreateBandRequest{Name: "Loud Neighbours"})
	if appErr != nil {
		t.Fatalf("create failed: %v", appErr)
	}

	if first.Slug == second.Slug {
		t.Errorf("expected distinct slugs, both are %s", first.Slug)
	}
}

func TestJoinByInviteCodeNotifiesLeaders(t *testing.T) {
	repo := newFakeBandRepo()
	notifier := &recordingNotifier{}
	svc := NewBandService(repo, notifier)
	leader := Actor{ID: uuid.New()}

	band, appErr := svc.CreateBand(context.Background(), leader, &dto.CreateBandRequest{Name: "Garage Days"})
	if appErr != nil {
		t.Fatalf("create failed: %v", appErr)
	}

	joiner := Actor{ID: uuid.New()}
	joined, appErr := svc.JoinByInviteCode(context.Background(), joiner, band.InviteCode)
	if appErr != nil {
		t.Fatalf("join failed: %v", appErr)
	}
	if joined.ID != band.ID {
		t.Errorf("joined wrong band")
	}

	role, _ := svc.RoleOf(context.Background(), uuid.MustParse(band.ID), joiner.ID)
	if role != entity.RoleMember {
		t.Errorf("expected member role, got %s", role)
	}

	if len(notifier.created) != 1 || notifier.created[0].UserID != leader.ID {
		t.Errorf("expected one notification to the leader, got %+v", notifier.created)
	}
}

func TestJoinTwiceFails(t *testing.T) {
	repo := newFakeBandRepo()
	svc := NewBandService(repo, &recordingNotifier{})
	leader := Actor{ID: uuid.New()}

	band, _ := svc.CreateBand(context.Background(), leader, &dto.CreateBandRequest{Name: "Encore"})
	joiner := Actor{ID: uuid.New()}

	if _, appErr := svc.JoinByInviteCode(context.Background(), joiner, band.InviteCode); appErr != nil {
		t.Fatalf("first join failed: %v", appErr)
	}
	_, appErr := svc.JoinByInviteCode(context.Background(), joiner, band.InviteCode)
	wantCode(t, appErr, apperrors.ErrAlreadyExists)
}

func TestJoinWithUnknownCodeFails(t *testing.T) {
	svc := NewBandService(newFakeBandRepo(), &recordingNotifier{})

	_, appErr := svc.JoinByInviteCode(context.Background(), Actor{ID: uuid.New()}, "does-not-exist")
	wantCode(t, appErr, apperrors.ErrNotFound)
}

func TestCannotDemoteLastLeader(t *testing.T) {
	repo := newFakeBandRepo()
	svc := NewBandService(repo, &recordingNotifier{})
	leader := Actor{ID: uuid.New()}

	band, _ := svc.CreateBand(context.Background(), leader, &dto.CreateBandRequest{Name: "Solo Act"})
	bandID := uuid.MustParse(band.ID)

	appErr := svc.ChangeMemberRole(context.Background(), leader, bandID, leader.ID, "member")
	wantCode(t, appErr, apperrors.ErrInvalidInput)

	appErr = svc.RemoveMember(context.Background(), leader, bandID, leader.ID)
	wantCode(t, appErr, apperrors.ErrInvalidInput)
}

func TestDemoteLeaderWithCoLeaderPromotedFirst(t *testing.T) {
	repo := newFakeBandRepo()
	svc := NewBandService(repo, &recordingNotifier{})
	leader := Actor{ID: uuid.New()}

	band, _ := svc.CreateBand(context.Background(), leader, &dto.CreateBandRequest{Name: "Two Front"})
	bandID := uuid.MustParse(band.ID)

	other := Actor{ID: uuid.New()}
	if _, appErr := svc.JoinByInviteCode(context.Background(), other, band.InviteCode); appErr != nil {
		t.Fatalf("join failed: %v", appErr)
	}
	if appErr := svc.ChangeMemberRole(context.Background(), leader, bandID, other.ID, "leader"); appErr != nil {
		t.Fatalf("promote failed: %v", appErr)
	}

	// With two leaders the original one can step down
	if appErr := svc.ChangeMemberRole(context.Background(), leader, bandID, leader.ID, "member"); appErr != nil {
		t.Fatalf("demote failed: %v", appErr)
	}

	role, _ := svc.RoleOf(context.Background(), bandID, leader.ID)
	if role != entity.RoleMember {
		t.Errorf("expected member after demotion, got %s", role)
	}
}

func TestMemberCannotManageBand(t *testing.T) {
	repo := newFakeBandRepo()
	svc := NewBandService(repo, &recordingNotifier{})
	leader := Actor{ID: uuid.New()}

	band, _ := svc.CreateBand(context.Background(), leader, &dto.CreateBandRequest{Name: "Locked Down"})
	bandID := uuid.MustParse(band.ID)

	member := Actor{ID: uuid.New()}
	if _, appErr := svc.JoinByInviteCode(context.Background(), member, band.InviteCode); appErr != nil {
		t.Fatalf("join failed: %v", appErr)
	}

	_, appErr := svc.UpdateBand(context.Background(), member, bandID, &dto.UpdateBandRequest{Name: "Hijacked"})
	wantCode(t, appErr, apperrors.ErrForbidden)

	appErr = svc.DeleteBand(context.Background(), member, bandID)
	wantCode(t, appErr, apperrors.ErrForbidden)
}

func TestMemberCanLeaveOnTheirOwn(t *testing.T) {
	repo := newFakeBandRepo()
	svc := NewBandService(repo, &recordingNotifier{})
	leader := Actor{ID: uuid.New()}

	band, _ := svc.CreateBand(context.Background(), leader, &dto.CreateBandRequest{Name: "Exit Stage"})
	bandID := uuid.MustParse(band.ID)

	member := Actor{ID: uuid.New()}
	if _, appErr := svc.JoinByInviteCode(context.Background(), member, band.InviteCode); appErr != nil {
		t.Fatalf("join failed: %v", appErr)
	}

	if appErr := svc.RemoveMember(context.Background(), member, bandID, member.ID); appErr != nil {
		t.Fatalf("leave failed: %v", appErr)
	}

	role, _ := svc.RoleOf(context.Background(), bandID, member.ID)
	if role != entity.RoleNone {
		t.Errorf("expected no role after leaving, got %s", role)
	}
}

func TestGetBandHidesInviteCodeFromMembers(t *testing.T) {
	repo := newFakeBandRepo()
	svc := NewBandService(repo, &recordingNotifier{})
	leader := Actor{ID: uuid.New()}

	band, _ := svc.CreateBand(context.Background(), leader, &dto.CreateBandRequest{Name: "Secret Code"})
	bandID := uuid.MustParse(band.ID)

	member := Actor{ID: uuid.New()}
	if _, appErr := svc.JoinByInviteCode(context.Background(), member, band.InviteCode); appErr != nil {
		t.Fatalf("join failed: %v", appErr)
	}

	asLeader, appErr := svc.GetBand(context.Background(), leader, bandID)
	if appErr != nil {
		t.Fatalf("get failed: %v", appErr)
	}
	if asLeader.InviteCode == "" {
		t.Error("leader should see the invite code")
	}

	asMember, appErr := svc.GetBand(context.Background(), member, bandID)
	if appErr != nil {
		t.Fatalf("get failed: %v", appErr)
	}
	if asMember.InviteCode != "" {
		t.Error("member should not see the invite code")
	}
}
