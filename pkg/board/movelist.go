package board

import (
	"container/heap"
	"fmt"
	"math"
	"sort"
)

// MovePriority is the move ordering priority: higher searches first.
type MovePriority int32

// MovePriorityFn assigns a priority to a move.
type MovePriorityFn func(mi MoveInfo) MovePriority

// StaticPriority implements the generator's static move order: promotions first,
// castles next, captures by a coarse MVV/LVA value, remaining quiet moves by
// attacker piece index (smaller, cheaper pieces first).
func StaticPriority(mi MoveInfo) MovePriority {
	switch {
	case mi.Move.Kind == MovePromotion:
		return 9999
	case mi.Move.Kind == MoveCastle:
		return 99
	case mi.Capture != NoPiece:
		return MovePriority(100 + (int(mi.Capture)+10) - int(mi.Piece))
	default:
		return MovePriority(-int(mi.Piece))
	}
}

// First puts the given move first, falling back to fn for all others. Used by the
// search to seed each iterative-deepening pass with the previous iteration's best move.
func First(first Move, fn MovePriorityFn) MovePriorityFn {
	return func(mi MoveInfo) MovePriority {
		if mi.Move.Equals(first) {
			return math.MaxInt32
		}
		return fn(mi)
	}
}

// SortByPriority sorts moves descending by priority, stable for ties so that search
// behavior is deterministic across otherwise-equal moves.
func SortByPriority(moves []MoveInfo, fn MovePriorityFn) {
	sort.SliceStable(moves, func(i, j int) bool {
		return fn(moves[i]) > fn(moves[j])
	})
}

// MoveList is a move priority queue, pulled from highest to lowest priority.
type MoveList struct {
	h moveHeap
}

func NewMoveList(moves []MoveInfo, fn MovePriorityFn) *MoveList {
	h := make(moveHeap, len(moves))
	for i, mi := range moves {
		h[i] = elm{mi: mi, val: fn(mi)}
	}
	heap.Init(&h)
	return &MoveList{h: h}
}

func (ml *MoveList) Next() (MoveInfo, bool) {
	if ml.Size() == 0 {
		return MoveInfo{}, false
	}
	ret := heap.Pop(&ml.h).(elm)
	return ret.mi, true
}

func (ml *MoveList) Size() int {
	return ml.h.Len()
}

func (ml *MoveList) String() string {
	if ml.Size() == 0 {
		return "[size=0]"
	}
	return fmt.Sprintf("[top=%v, size=%v]", ml.h[0].mi, ml.Size())
}

type elm struct {
	mi  MoveInfo
	val MovePriority
}

type moveHeap []elm

func (h moveHeap) Len() int            { return len(h) }
func (h moveHeap) Less(i, j int) bool  { return h[i].val > h[j].val }
func (h moveHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *moveHeap) Push(x interface{}) { *h = append(*h, x.(elm)) }
func (h *moveHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
