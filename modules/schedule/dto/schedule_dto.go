package dto

import (
	"time"

	"bandmate-api/modules/schedule/entity"

	"github.com/google/uuid"
)

// ===================== Request DTOs =====================

// SlotInput is one candidate time range in a proposal. Start is required
// and must be RFC 3339; End is optional.
type SlotInput struct {
	Start string `json:"start" validate:"required"`
	End   string `json:"end"`
}

type ProposeItemRequest struct {
	Kind        string      `json:"kind" validate:"required"`
	Title       string      `json:"title" validate:"required"`
	Description string      `json:"description"`
	LocationID  string      `json:"location_id"`
	Slots       []SlotInput `json:"slots" validate:"required"`
}

// EditItemRequest patches a pending item. A nil Slots leaves the slot
// list untouched; a non-nil Slots replaces it wholesale, which drops
// all votes and suggestions attached to the old slots.
type EditItemRequest struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	LocationID  string      `json:"location_id"`
	Slots       []SlotInput `json:"slots"`
}

type CastVoteRequest struct {
	Answer string `json:"answer" validate:"required"`
}

type SuggestTimeRequest struct {
	Text string `json:"text" validate:"required"`
}

type ConfirmItemRequest struct {
	SlotID        string   `json:"slot_id" validate:"required"`
	LocationID    string   `json:"location_id"`
	NotifyUserIDs []string `json:"notify_user_ids"`
}

// ===================== Response DTOs =====================

type VoteResponse struct {
	UserID string `json:"user_id"`
	Answer string `json:"answer"`
}

type SuggestionResponse struct {
	UserID    string    `json:"user_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

type SlotResponse struct {
	ID          string               `json:"id"`
	Position    int                  `json:"position"`
	Start       time.Time            `json:"start"`
	End         *time.Time           `json:"end,omitempty"`
	Votes       []VoteResponse       `json:"votes"`
	Suggestions []SuggestionResponse `json:"suggestions,omitempty"`
	MyAnswer    string               `json:"my_answer,omitempty"`
}

type ItemResponse struct {
	ID             string         `json:"id"`
	BandID         string         `json:"band_id"`
	Kind           string         `json:"kind"`
	Title          string         `json:"title"`
	Description    string         `json:"description,omitempty"`
	LocationID     string         `json:"location_id,omitempty"`
	Status         string         `json:"status"`
	ConfirmedStart *time.Time     `json:"confirmed_start,omitempty"`
	ConfirmedEnd   *time.Time     `json:"confirmed_end,omitempty"`
	CreatedBy      string         `json:"created_by"`
	CreatedAt      time.Time      `json:"created_at"`
	Slots          []SlotResponse `json:"slots"`
}

type RankingResponse struct {
	ItemID  string             `json:"item_id"`
	Kind    string             `json:"kind"`
	Ranking []entity.SlotTally `json:"ranking"`
}

// ConfirmResponse reports the confirmed item plus the per-recipient
// notification outcome. Failed recipients do not undo the confirmation.
type ConfirmResponse struct {
	Item     *ItemResponse `json:"item"`
	Notified []string      `json:"notified"`
	Failed   []string      `json:"failed"`
}

// ===================== Mapper Functions =====================

// ToItemResponse assembles an item with its slots, votes and suggestions.
// viewerID marks the caller's own vote on each slot.
func ToItemResponse(item *entity.Item, slots []entity.Slot, votes []entity.Vote, suggestions []entity.TimeSuggestion, viewerID uuid.UUID) *ItemResponse {
	resp := &ItemResponse{
		ID:             item.ID.String(),
		BandID:         item.BandID.String(),
		Kind:           string(item.Kind),
		Title:          item.Title,
		Status:         string(item.Status),
		ConfirmedStart: item.ConfirmedStart,
		ConfirmedEnd:   item.ConfirmedEnd,
		CreatedBy:      item.CreatedBy.String(),
		CreatedAt:      item.CreatedAt,
		Slots:          make([]SlotResponse, 0, len(slots)),
	}
	if item.Description != nil {
		resp.Description = *item.Description
	}
	if item.LocationID != nil {
		resp.LocationID = item.LocationID.String()
	}

	votesBySlot := make(map[uuid.UUID][]entity.Vote)
	for _, v := range votes {
		votesBySlot[v.SlotID] = append(votesBySlot[v.SlotID], v)
	}
	suggestionsBySlot := make(map[uuid.UUID][]entity.TimeSuggestion)
	for _, s := range suggestions {
		suggestionsBySlot[s.SlotID] = append(suggestionsBySlot[s.SlotID], s)
	}

	for _, slot := range slots {
		sr := SlotResponse{
			ID:       slot.ID.String(),
			Position: slot.Position,
			Start:    slot.StartTime,
			End:      slot.EndTime,
			Votes:    make([]VoteResponse, 0, len(votesBySlot[slot.ID])),
		}
		for _, v := range votesBySlot[slot.ID] {
			sr.Votes = append(sr.Votes, VoteResponse{UserID: v.UserID.String(), Answer: string(v.Answer)})
			if v.UserID == viewerID {
				sr.MyAnswer = string(v.Answer)
			}
		}
		for _, s := range suggestionsBySlot[slot.ID] {
			sr.Suggestions = append(sr.Suggestions, SuggestionResponse{
				UserID:    s.UserID.String(),
				Text:      s.Text,
				CreatedAt: s.CreatedAt,
			})
		}
		resp.Slots = append(resp.Slots, sr)
	}

	return resp
}
