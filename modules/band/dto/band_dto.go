package dto

import (
	"time"

	"bandmate-api/modules/band/entity"
)

// ===================== Request DTOs =====================

type CreateBandRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

type UpdateBandRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type JoinBandRequest struct {
	InviteCode string `json:"invite_code" validate:"required"`
}

type ChangeRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

type CreateLocationRequest struct {
	Name    string `json:"name" validate:"required"`
	Address string `json:"address"`
}

// ===================== Response DTOs =====================

type BandResponse struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Slug        string           `json:"slug"`
	Description string           `json:"description,omitempty"`
	InviteCode  string           `json:"invite_code,omitempty"`
	CreatedBy   string           `json:"created_by"`
	CreatedAt   time.Time        `json:"created_at"`
	Members     []MemberResponse `json:"members,omitempty"`
}

type MemberResponse struct {
	UserID   string    `json:"user_id"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

type LocationResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
}

// ===================== Mapper Functions =====================

// ToBandResponse maps entity to DTO. The invite code is only included for
// members who can manage the band.
func ToBandResponse(b *entity.Band, members []entity.BandMember, includeInvite bool) *BandResponse {
	resp := &BandResponse{
		ID:        b.ID.String(),
		Name:      b.Name,
		Slug:      b.Slug,
		CreatedBy: b.CreatedBy.String(),
		CreatedAt: b.CreatedAt,
	}
	if b.Description != nil {
		resp.Description = *b.Description
	}
	if includeInvite {
		resp.InviteCode = b.InviteCode
	}

	for _, m := range members {
		resp.Members = append(resp.Members, MemberResponse{
			UserID:   m.UserID.String(),
			Role:     string(m.Role),
			JoinedAt: m.CreatedAt,
		})
	}

	return resp
}

func ToLocationResponse(l *entity.Location) *LocationResponse {
	resp := &LocationResponse{
		ID:   l.ID.String(),
		Name: l.Name,
	}
	if l.Address != nil {
		resp.Address = *l.Address
	}
	return resp
}
