package service

import (
	"testing"
	"time"

	"bandmate-api/modules/schedule/entity"

	"github.com/google/uuid"
)

func makeSlots(n int) []entity.Slot {
	slots := make([]entity.Slot, 0, n)
	base := time.Date(2026, 9, 5, 19, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		slots = append(slots, entity.Slot{
			ID:        uuid.New(),
			Position:  i,
			StartTime: base.AddDate(0, 0, i),
		})
	}
	return slots
}

func vote(slotID uuid.UUID, answer entity.VoteAnswer) entity.Vote {
	return entity.Vote{ID: uuid.New(), SlotID: slotID, UserID: uuid.New(), Answer: answer}
}

func TestRankSlotsRehearsalWeighting(t *testing.T) {
	slots := makeSlots(2)
	votes := []entity.Vote{
		vote(slots[0].ID, entity.AnswerYes),
		vote(slots[0].ID, entity.AnswerMaybe),
		vote(slots[1].ID, entity.AnswerNo),
	}

	ranking := RankSlots(entity.KindRehearsal, slots, votes)

	if len(ranking) != 2 {
		t.Fatalf("expected 2 tallies, got %d", len(ranking))
	}
	if ranking[0].SlotID != slots[0].ID {
		t.Errorf("expected slot 0 ranked first")
	}
	if ranking[0].Score != 1.5 {
		t.Errorf("expected score 1.5, got %v", ranking[0].Score)
	}
	if ranking[0].YesCount != 1 || ranking[0].MaybeCount != 1 || ranking[0].NoCount != 0 {
		t.Errorf("unexpected tally for slot 0: %+v", ranking[0])
	}
	if ranking[1].Score != 0 {
		t.Errorf("expected score 0 for slot 1, got %v", ranking[1].Score)
	}
	if ranking[1].NoCount != 1 {
		t.Errorf("expected 1 no vote on slot 1, got %d", ranking[1].NoCount)
	}
}

func TestRankSlotsEventIgnoresMaybeWeight(t *testing.T) {
	slots := makeSlots(2)
	votes := []entity.Vote{
		vote(slots[0].ID, entity.AnswerYes),
		vote(slots[1].ID, entity.AnswerYes),
		vote(slots[1].ID, entity.AnswerYes),
	}

	ranking := RankSlots(entity.KindEvent, slots, votes)

	if ranking[0].SlotID != slots[1].ID {
		t.Errorf("expected slot 1 ranked first")
	}
	if ranking[0].Score != 2 {
		t.Errorf("expected score 2, got %v", ranking[0].Score)
	}
	if ranking[1].Score != 1 {
		t.Errorf("expected score 1, got %v", ranking[1].Score)
	}
}

func TestRankSlotsNoVotesKeepsProposalOrder(t *testing.T) {
	slots := makeSlots(3)

	ranking := RankSlots(entity.KindEvent, slots, nil)

	if len(ranking) != 3 {
		t.Fatalf("expected 3 tallies, got %d", len(ranking))
	}
	for i, tally := range ranking {
		if tally.SlotID != slots[i].ID {
			t.Errorf("position %d: expected slot %d, got position %d", i, i, tally.Position)
		}
		if tally.Score != 0 {
			t.Errorf("expected score 0, got %v", tally.Score)
		}
	}
}

func TestRankSlotsTieBreaksByProposalOrder(t *testing.T) {
	slots := makeSlots(3)
	votes := []entity.Vote{
		vote(slots[1].ID, entity.AnswerYes),
		vote(slots[2].ID, entity.AnswerYes),
	}

	ranking := RankSlots(entity.KindRehearsal, slots, votes)

	// Slots 1 and 2 tie at 1.0; the earlier-proposed slot wins the tie
	// and slot 0 trails at 0.
	if ranking[0].SlotID != slots[1].ID || ranking[1].SlotID != slots[2].ID || ranking[2].SlotID != slots[0].ID {
		t.Errorf("unexpected tie-break order: %+v", ranking)
	}
}

func TestRankSlotsDeterministic(t *testing.T) {
	slots := makeSlots(4)
	votes := []entity.Vote{
		vote(slots[0].ID, entity.AnswerMaybe),
		vote(slots[1].ID, entity.AnswerYes),
		vote(slots[2].ID, entity.AnswerMaybe),
		vote(slots[2].ID, entity.AnswerMaybe),
		vote(slots[3].ID, entity.AnswerNo),
	}

	first := RankSlots(entity.KindRehearsal, slots, votes)
	second := RankSlots(entity.KindRehearsal, slots, votes)

	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("ranking not deterministic at %d: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestRankSlotsSkipsVotesForRemovedSlots(t *testing.T) {
	slots := makeSlots(2)
	votes := []entity.Vote{
		vote(uuid.New(), entity.AnswerYes), // slot no longer exists
		vote(slots[0].ID, entity.AnswerYes),
	}

	ranking := RankSlots(entity.KindRehearsal, slots, votes)

	if ranking[0].Score != 1 {
		t.Errorf("expected score 1, got %v", ranking[0].Score)
	}
	if ranking[1].Score != 0 {
		t.Errorf("expected orphan vote ignored, got %v", ranking[1].Score)
	}
}
