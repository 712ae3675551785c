package board

// Piece identifies a chess piece kind, independent of color. The numeric
// assignment is load-bearing: move ordering biases small attackers over
// large ones by comparing piece indices directly, so this order must not
// be reshuffled casually.
type Piece uint8

const (
	Pawn Piece = iota
	Bishop
	Knight
	Rook
	Queen
	King
)

const (
	ZeroPiece Piece = 0
	NumPieces Piece = 6
)

// NoPiece is the sentinel for "no piece present", used for MoveInfo.Capture.
const NoPiece Piece = NumPieces

func ParsePiece(r rune) (Piece, bool) {
	switch r {
	case 'p', 'P':
		return Pawn, true
	case 'b', 'B':
		return Bishop, true
	case 'n', 'N':
		return Knight, true
	case 'r', 'R':
		return Rook, true
	case 'q', 'Q':
		return Queen, true
	case 'k', 'K':
		return King, true
	default:
		return NoPiece, false
	}
}

func (p Piece) IsValid() bool {
	return p < NumPieces
}

func (p Piece) String() string {
	switch p {
	case Pawn:
		return "p"
	case Bishop:
		return "b"
	case Knight:
		return "n"
	case Rook:
		return "r"
	case Queen:
		return "q"
	case King:
		return "k"
	default:
		return " "
	}
}

// PromotionRune renders the piece using the UCI promotion-letter convention, where
// 'k' denotes Knight (since 'n' is not used by the external move notation in this
// engine's protocol surface).
func (p Piece) PromotionRune() rune {
	switch p {
	case Queen:
		return 'q'
	case Rook:
		return 'r'
	case Bishop:
		return 'b'
	case Knight:
		return 'k'
	default:
		return '?'
	}
}

// ParsePromotionRune parses the UCI promotion-letter convention, where 'k' is Knight.
func ParsePromotionRune(r rune) (Piece, bool) {
	switch r {
	case 'q', 'Q':
		return Queen, true
	case 'r', 'R':
		return Rook, true
	case 'b', 'B':
		return Bishop, true
	case 'k', 'K':
		return Knight, true
	default:
		return NoPiece, false
	}
}
