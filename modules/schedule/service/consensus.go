package service

import (
	"sort"

	"bandmate-api/modules/schedule/entity"

	"github.com/google/uuid"
)

// RankSlots tallies the given votes per slot and returns the slots
// ordered best-first. It is a pure function of its inputs and is
// recomputed on every call; votes change between calls and nothing
// invalidates a cached ranking.
//
// Rehearsals score yes + 0.5*maybe; events score yes only. Ties keep
// proposal order, so with no votes at all the ranking equals the
// proposal order.
func RankSlots(kind entity.ItemKind, slots []entity.Slot, votes []entity.Vote) []entity.SlotTally {
	tallies := make([]entity.SlotTally, 0, len(slots))
	index := make(map[uuid.UUID]int, len(slots))

	for _, slot := range slots {
		index[slot.ID] = len(tallies)
		tallies = append(tallies, entity.SlotTally{
			SlotID:   slot.ID,
			Position: slot.Position,
		})
	}

	for _, vote := range votes {
		i, ok := index[vote.SlotID]
		if !ok {
			// Vote against a slot that no longer exists; skip
			continue
		}
		switch vote.Answer {
		case entity.AnswerYes:
			tallies[i].YesCount++
		case entity.AnswerMaybe:
			tallies[i].MaybeCount++
		case entity.AnswerNo:
			tallies[i].NoCount++
		}
	}

	for i := range tallies {
		tallies[i].Score = float64(tallies[i].YesCount)
		if kind == entity.KindRehearsal {
			tallies[i].Score += 0.5 * float64(tallies[i].MaybeCount)
		}
	}

	sort.SliceStable(tallies, func(a, b int) bool {
		if tallies[a].Score != tallies[b].Score {
			return tallies[a].Score > tallies[b].Score
		}
		return tallies[a].Position < tallies[b].Position
	})

	return tallies
}
