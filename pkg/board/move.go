package board

import (
	"fmt"
	"strings"
)

// MoveKind distinguishes the four shapes a Move can take. The zero value, MoveNormal,
// covers quiet moves and ordinary captures alike; captures are told apart by whether
// MoveInfo.Capture is NoPiece.
type MoveKind uint8

const (
	MoveNormal MoveKind = iota
	MovePromotion
	MoveEnPassant
	MoveCastle
)

// Move is a tagged variant over the four ways a chess move can be played. Castle moves
// do not carry squares directly; the two squares are looked up from the CastleRight via
// castleTable.
type Move struct {
	Kind      MoveKind
	From, To  Square      // meaningful for Normal, Promotion, EnPassant.
	Promotion Piece       // meaningful for Promotion.
	Castle    CastleRight // meaningful for Castle.
}

func NormalMove(from, to Square) Move {
	return Move{Kind: MoveNormal, From: from, To: to}
}

func PromotionMove(from, to Square, promo Piece) Move {
	return Move{Kind: MovePromotion, From: from, To: to, Promotion: promo}
}

func EnPassantMove(from, to Square) Move {
	return Move{Kind: MoveEnPassant, From: from, To: to}
}

func CastleMove(right CastleRight) Move {
	return Move{Kind: MoveCastle, Castle: right}
}

// FromSquare and ToSquare resolve the effective origin/destination of the move,
// including the fixed king squares for a Castle move.
func (m Move) FromSquare() Square {
	if m.Kind == MoveCastle {
		return castleTable[m.Castle].kingFrom
	}
	return m.From
}

func (m Move) ToSquare() Square {
	if m.Kind == MoveCastle {
		return castleTable[m.Castle].kingTo
	}
	return m.To
}

func (m Move) Equals(o Move) bool {
	return m == o
}

// String renders the move in long algebraic notation: <from><to>[promo]. Castle moves
// render as the king's two-square move, per the UCI convention.
func (m Move) String() string {
	if m.Kind == MovePromotion {
		return fmt.Sprintf("%v%v%c", m.From, m.To, m.Promotion.PromotionRune())
	}
	return fmt.Sprintf("%v%v", m.FromSquare(), m.ToSquare())
}

// MoveInfo pairs a Move with the moving and (optionally) captured piece, resolved once
// at generation time so make/unmake never need to rescan bitboards.
type MoveInfo struct {
	Move    Move
	Piece   Piece // the piece making the move (PAWN for en passant, the king for castle).
	Capture Piece // NoPiece if the move does not capture.
}

func (mi MoveInfo) String() string {
	return mi.Move.String()
}

// ParseLongAlgebraic parses "<from><to>[promo]" without contextual information; the
// caller (typically via FindMove) is responsible for reclassifying it as
// Castle/EnPassant/Promotion given the live board.
func ParseLongAlgebraic(str string) (from, to Square, promo Piece, err error) {
	runes := []rune(str)
	if len(runes) < 4 || len(runes) > 5 {
		return 0, 0, NoPiece, fmt.Errorf("board: invalid move %q", str)
	}
	from, err = ParseSquare(runes[0], runes[1])
	if err != nil {
		return 0, 0, NoPiece, fmt.Errorf("board: invalid move %q: %w", str, err)
	}
	to, err = ParseSquare(runes[2], runes[3])
	if err != nil {
		return 0, 0, NoPiece, fmt.Errorf("board: invalid move %q: %w", str, err)
	}
	promo = NoPiece
	if len(runes) == 5 {
		p, ok := ParsePromotionRune(runes[4])
		if !ok {
			return 0, 0, NoPiece, fmt.Errorf("board: invalid promotion in %q", str)
		}
		promo = p
	}
	return from, to, promo, nil
}

// FormatMoves renders a slice of moves as a space-separated long-algebraic string, for
// UCI "pv" lines. Rendering stops at the first zero-value move (the start of an
// unfilled PV buffer tail).
func FormatMoves(moves []Move) string {
	var parts []string
	for _, m := range moves {
		if m.Kind == MoveNormal && m.From == m.To {
			break
		}
		parts = append(parts, m.String())
	}
	return strings.Join(parts, " ")
}
