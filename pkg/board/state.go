package board

// BoardState is the non-piece part of a position: castling rights, the en-passant
// target square, and the two no-progress counters. It forms an immutable linked stack;
// make pushes a new head derived from the current one, unmake pops by pointer restore.
type BoardState struct {
	Castling                    Castling
	EnPassant                   Square // NoSquare if the previous move was not a double pawn push.
	SinceLastCapture            int
	SinceLastCaptureOrPawnMove  int
	Prev                        *BoardState
}

// NewBoardState builds a root state with no history, such as one decoded from a FEN.
func NewBoardState(castling Castling, ep Square, sinceCapture, sinceCaptureOrPawn int) *BoardState {
	return &BoardState{
		Castling:                   castling,
		EnPassant:                  ep,
		SinceLastCapture:           sinceCapture,
		SinceLastCaptureOrPawnMove: sinceCaptureOrPawn,
	}
}

// push clones the receiver into a new head with the given edits applied, linking back
// to the receiver. Used by Position.Make.
func (s *BoardState) push(castling Castling, ep Square, capture, pawnMove bool) *BoardState {
	next := &BoardState{
		Castling:  castling,
		EnPassant: ep,
		Prev:      s,
	}
	if capture {
		next.SinceLastCapture = 0
	} else {
		next.SinceLastCapture = s.SinceLastCapture + 1
	}
	if capture || pawnMove {
		next.SinceLastCaptureOrPawnMove = 0
	} else {
		next.SinceLastCaptureOrPawnMove = s.SinceLastCaptureOrPawnMove + 1
	}
	return next
}
