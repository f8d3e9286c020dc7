package dto

import (
	"time"

	"bandmate-api/modules/absence/entity"
)

// ===================== Request DTOs =====================

// CreateAbsenceRequest declares an unavailability range. Dates are
// "2006-01-02" and inclusive.
type CreateAbsenceRequest struct {
	From   string `json:"from" validate:"required"`
	To     string `json:"to" validate:"required"`
	Reason string `json:"reason"`
}

// ===================== Response DTOs =====================

type AbsenceResponse struct {
	ID     string    `json:"id"`
	UserID string    `json:"user_id"`
	From   time.Time `json:"from"`
	To     time.Time `json:"to"`
	Reason string    `json:"reason,omitempty"`
}

// ===================== Mapper Functions =====================

func ToAbsenceResponse(a *entity.Absence) *AbsenceResponse {
	resp := &AbsenceResponse{
		ID:     a.ID.String(),
		UserID: a.UserID.String(),
		From:   a.FromDate,
		To:     a.ToDate,
	}
	if a.Reason != nil {
		resp.Reason = *a.Reason
	}
	return resp
}
