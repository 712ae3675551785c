// Package fen decodes and encodes chess positions in Forsyth-Edwards Notation.
package fen

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/rookery-chess/pinion/pkg/board"
)

// Initial is the standard starting position.
const Initial = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// Decode parses a standard six-field FEN record into a root Position. The halfmove
// clock maps to both no-progress counters (since_last_capture and
// since_last_capture_or_pawn share the same FEN field); the fullmove number combines
// with the active color into the absolute halfmove counter the engine uses internally.
func Decode(zt *board.ZobristTable, record string) (*board.Position, error) {
	parts := strings.Fields(strings.TrimSpace(record))
	if len(parts) != 6 {
		return nil, fmt.Errorf("fen: invalid number of fields in %q", record)
	}

	placements, err := parsePlacement(parts[0])
	if err != nil {
		return nil, fmt.Errorf("fen: %w (%q)", err, record)
	}

	side, ok := parseColor(parts[1])
	if !ok {
		return nil, fmt.Errorf("fen: invalid active color in %q", record)
	}

	castling, ok := parseCastling(parts[2])
	if !ok {
		return nil, fmt.Errorf("fen: invalid castling rights in %q", record)
	}

	ep := board.NoSquare
	if parts[3] != "-" {
		sq, err := board.ParseSquareStr(parts[3])
		if err != nil {
			return nil, fmt.Errorf("fen: invalid en passant square in %q: %w", record, err)
		}
		ep = sq
	}

	clock, err := strconv.Atoi(parts[4])
	if err != nil || clock < 0 {
		return nil, fmt.Errorf("fen: invalid halfmove clock in %q", record)
	}

	fullmove, err := strconv.Atoi(parts[5])
	if err != nil || fullmove < 1 {
		return nil, fmt.Errorf("fen: invalid fullmove number in %q", record)
	}

	halfmove := 2 * (fullmove - 1)
	if side == board.Black {
		halfmove++
	}

	return board.NewPosition(zt, placements, side, castling, ep, clock, clock, halfmove), nil
}

// Encode renders pos back into a six-field FEN record.
func Encode(pos *board.Position) string {
	var sb strings.Builder
	for r := int(board.Rank8); r >= int(board.Rank1); r-- {
		blanks := 0
		for f := board.ZeroFile; f < board.NumFiles; f++ {
			sq := board.NewSquare(f, board.Rank(r))
			c, p, ok := pos.PP.PieceAt(sq)
			if !ok {
				blanks++
				continue
			}
			if blanks > 0 {
				sb.WriteString(strconv.Itoa(blanks))
				blanks = 0
			}
			sb.WriteRune(printPiece(c, p))
		}
		if blanks > 0 {
			sb.WriteString(strconv.Itoa(blanks))
		}
		if r != int(board.Rank1) {
			sb.WriteRune('/')
		}
	}

	ep := "-"
	if pos.State.EnPassant != board.NoSquare {
		ep = pos.State.EnPassant.String()
	}

	fullmove := pos.Halfmove/2 + 1

	return fmt.Sprintf("%s %s %s %s %d %d",
		sb.String(), pos.Side, pos.State.Castling, ep, pos.State.SinceLastCaptureOrPawnMove, fullmove)
}

func parsePlacement(field string) ([]board.Placement, error) {
	var placements []board.Placement

	rank, file := 7, 0
	for _, r := range field {
		switch {
		case r == '/':
			if file != 8 {
				return nil, fmt.Errorf("incomplete rank before '/'")
			}
			rank--
			file = 0
		case unicode.IsDigit(r):
			file += int(r - '0')
		case unicode.IsLetter(r):
			if file > 7 || rank < 0 {
				return nil, fmt.Errorf("rank overflow at %q", r)
			}
			c, p, ok := parsePiece(r)
			if !ok {
				return nil, fmt.Errorf("invalid piece %q", r)
			}
			placements = append(placements, board.Placement{Square: board.NewSquare(board.File(file), board.Rank(rank)), Color: c, Piece: p})
			file++
		default:
			return nil, fmt.Errorf("invalid character %q", r)
		}
	}
	if rank != 0 || file != 8 {
		return nil, fmt.Errorf("incomplete piece placement field")
	}
	return placements, nil
}

func parseColor(s string) (board.Color, bool) {
	switch s {
	case "w":
		return board.White, true
	case "b":
		return board.Black, true
	default:
		return 0, false
	}
}

func parseCastling(s string) (board.Castling, bool) {
	var c board.Castling
	if s == "-" {
		return c, true
	}
	for _, r := range s {
		switch r {
		case 'K':
			c |= board.WhiteKingSide
		case 'Q':
			c |= board.WhiteQueenSide
		case 'k':
			c |= board.BlackKingSide
		case 'q':
			c |= board.BlackQueenSide
		default:
			return 0, false
		}
	}
	return c, true
}

func parsePiece(r rune) (board.Color, board.Piece, bool) {
	c := board.White
	if unicode.IsLower(r) {
		c = board.Black
	}
	p, ok := board.ParsePiece(r)
	return c, p, ok
}

func printPiece(c board.Color, p board.Piece) rune {
	s := p.String()
	r := []rune(s)[0]
	if c == board.White {
		return unicode.ToUpper(r)
	}
	return r
}
