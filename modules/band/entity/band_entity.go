package entity

import (
	"time"

	"bandmate-api/core/entity"

	"github.com/google/uuid"
)

// Role is a member's role inside a band
type Role string

const (
	RoleLeader   Role = "leader"
	RoleCoLeader Role = "co_leader"
	RoleMember   Role = "member"
	RoleNone     Role = "" // not a member
)

// Band is a group of musicians
type Band struct {
	Name        string    `db:"name" json:"name"`
	Slug        string    `db:"slug" json:"slug"`
	Description *string   `db:"description" json:"description,omitempty"`
	InviteCode  string    `db:"invite_code" json:"-"`
	CreatedBy   uuid.UUID `db:"created_by" json:"created_by"`
	entity.BaseEntity
}

// BandMember links a user to a band with a role
type BandMember struct {
	BandID    uuid.UUID `db:"band_id" json:"band_id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	Role      Role      `db:"role" json:"role"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Location is a rehearsal or gig venue belonging to a band
type Location struct {
	BandID  uuid.UUID `db:"band_id" json:"band_id"`
	Name    string    `db:"name" json:"name"`
	Address *string   `db:"address" json:"address,omitempty"`
	entity.BaseEntity
}

// Capabilities describes what an actor may do inside a band. Every permission
// decision in the API goes through RoleCapabilities; there are no inline role
// comparisons at call sites.
type Capabilities struct {
	CanPropose bool
	CanVote    bool
	CanConfirm bool
	CanManage  bool
}

// RoleCapabilities maps a band role (plus the cross-cutting admin flag) to
// concrete capabilities. Admins get every capability regardless of membership.
func RoleCapabilities(role Role, isAdmin bool) Capabilities {
	if isAdmin {
		return Capabilities{CanPropose: true, CanVote: true, CanConfirm: true, CanManage: true}
	}

	switch role {
	case RoleLeader, RoleCoLeader:
		return Capabilities{CanPropose: true, CanVote: true, CanConfirm: true, CanManage: true}
	case RoleMember:
		return Capabilities{CanVote: true}
	default:
		return Capabilities{}
	}
}

type PaginatedBandEntity = entity.Pagination[Band]
