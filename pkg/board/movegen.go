package board

// GenKind selects which subset of moves a generation pass returns.
type GenKind uint8

const (
	All GenKind = iota
	OnlyCaptures
	OnlySilent
	OnlyKingCaptures // restricted to moves that capture the opposite king; used to test "is the king threatened".
)

// IsSquareAttacked reports whether sq is attacked by any piece of bySide on the current
// occupancy. Implemented by placing a virtual attacker of each kind on sq and testing
// for overlap with bySide's real pieces of the matching kind — the standard
// "attacked-by" trick that reuses the same attack tables as move generation.
func IsSquareAttacked(pos *Position, sq Square, bySide Color) bool {
	occ := pos.PP.AllOccupancy()

	if PawnCaptureboard(bySide, pos.PP.Pieces(bySide, Pawn)).IsSet(sq) {
		return true
	}
	if KnightAttackboard(sq)&pos.PP.Pieces(bySide, Knight) != 0 {
		return true
	}
	if KingAttackboard(sq)&pos.PP.Pieces(bySide, King) != 0 {
		return true
	}
	diag := pos.PP.Pieces(bySide, Bishop) | pos.PP.Pieces(bySide, Queen)
	if BishopAttackboard(occ, sq)&diag != 0 {
		return true
	}
	orth := pos.PP.Pieces(bySide, Rook) | pos.PP.Pieces(bySide, Queen)
	if RookAttackboard(occ, sq)&orth != 0 {
		return true
	}
	return false
}

// InCheck reports whether the side to move's king is attacked.
func InCheck(pos *Position) bool {
	return IsSquareAttacked(pos, pos.PP.KingSquare(pos.Side), pos.Side.Opponent())
}

// IsDraw reports the rule-based short-circuit the generator applies before producing
// any moves: fifty-move rule, or threefold repetition detected by walking the Zobrist
// chain back through the no-progress window. The window requires at least 8 plies
// before repetition can be structurally possible (a capture or pawn move resets it).
func (pos *Position) IsDraw() bool {
	n := pos.State.SinceLastCaptureOrPawnMove
	if n > 50 {
		return true
	}
	if n < 8 {
		return false
	}
	target := pos.Zobrist.Hash
	count := 0
	node := pos.Zobrist
	for i := 0; i <= n && node != nil; i++ {
		if node.Hash == target {
			count++
		}
		node = node.Prev
	}
	return count >= 3
}

// PseudoLegal returns moves that respect piece motion rules but may leave the mover's
// king in check.
func PseudoLegal(pos *Position, kind GenKind) []MoveInfo {
	moves := make([]MoveInfo, 0, 48)

	side := pos.Side
	opp := side.Opponent()
	own := pos.PP.Occupancy(side)
	enemy := pos.PP.Occupancy(opp)
	all := own | enemy
	empty := ^all

	genPawnMoves(pos, kind, side, opp, empty, enemy, &moves)

	for _, p := range [2]Piece{Knight, King} {
		genLeaperMoves(pos, kind, p, side, opp, own, enemy, empty, &moves)
	}
	if kind == All || kind == OnlySilent {
		genCastles(pos, side, all, &moves)
	}

	for _, p := range [3]Piece{Bishop, Rook, Queen} {
		genSliderMoves(pos, kind, p, side, opp, own, enemy, empty, all, &moves)
	}

	return moves
}

// Legal filters PseudoLegal by replaying each candidate move and rejecting any that
// leaves the mover's own king attacked. Castling is additionally rejected if the
// king's origin, pass-through, or destination square is attacked.
func Legal(pos *Position, kind GenKind) []MoveInfo {
	if pos.IsDraw() {
		return nil
	}

	pseudo := PseudoLegal(pos, kind)
	legal := make([]MoveInfo, 0, len(pseudo))
	mover := pos.Side

	for _, mi := range pseudo {
		if mi.Move.Kind == MoveCastle && !castlePathSafe(pos, mi.Move.Castle) {
			continue
		}
		pos.Make(mi)
		safe := !IsSquareAttacked(pos, pos.PP.KingSquare(mover), pos.Side)
		pos.Unmake(mi)
		if safe {
			legal = append(legal, mi)
		}
	}
	return legal
}

// Ordered returns the legal moves for kind sorted descending by the static priority
// used for move ordering: promotions first, then castles, then captures by a coarse
// MVV/LVA value, then remaining quiet moves by attacker piece index.
func Ordered(pos *Position, kind GenKind) []MoveInfo {
	moves := Legal(pos, kind)
	SortByPriority(moves, StaticPriority)
	return moves
}

// FindMove resolves a bare (from, to, promotion) triple — the shape a long-algebraic
// string parses into — against the position's legal moves, reclassifying it as a
// Normal/Promotion/EnPassant/Castle move as appropriate. Returns false if no legal
// move matches.
func FindMove(pos *Position, from, to Square, promo Piece) (MoveInfo, bool) {
	for _, mi := range Legal(pos, All) {
		if mi.Move.FromSquare() != from || mi.Move.ToSquare() != to {
			continue
		}
		if mi.Move.Kind == MovePromotion && mi.Move.Promotion != promo {
			continue
		}
		return mi, true
	}
	return MoveInfo{}, false
}

func castlePathSafe(pos *Position, right CastleRight) bool {
	cs := castleTable[right]
	mid := Square((int(cs.kingFrom) + int(cs.kingTo)) / 2)
	opp := pos.Side.Opponent()
	return !IsSquareAttacked(pos, cs.kingFrom, opp) &&
		!IsSquareAttacked(pos, mid, opp) &&
		!IsSquareAttacked(pos, cs.kingTo, opp)
}

func genCastles(pos *Position, side Color, occ Bitboard, moves *[]MoveInfo) {
	rights := pos.State.Castling
	add := func(right CastleRight) {
		cs := castleTable[right]
		if !rights.IsAllowed(cs.right) {
			return
		}
		for sq := minSquare(cs.kingFrom, cs.rookFrom) + 1; sq < maxSquare(cs.kingFrom, cs.rookFrom); sq++ {
			if occ.IsSet(sq) {
				return
			}
		}
		*moves = append(*moves, MoveInfo{Move: CastleMove(right), Piece: King})
	}
	if side == White {
		add(WhiteKingSideCastle)
		add(WhiteQueenSideCastle)
	} else {
		add(BlackKingSideCastle)
		add(BlackQueenSideCastle)
	}
}

func minSquare(a, b Square) Square {
	if a < b {
		return a
	}
	return b
}

func maxSquare(a, b Square) Square {
	if a > b {
		return a
	}
	return b
}

func targetsForKind(kind GenKind, attack, own, enemy, empty, enemyKing Bitboard) Bitboard {
	switch kind {
	case OnlyCaptures:
		return attack & enemy
	case OnlySilent:
		return attack & empty
	case OnlyKingCaptures:
		return attack & enemyKing
	default:
		return attack &^ own
	}
}

func genLeaperMoves(pos *Position, kind GenKind, p Piece, side, opp Color, own, enemy, empty Bitboard, moves *[]MoveInfo) {
	enemyKing := pos.PP.Pieces(opp, King)
	bb := pos.PP.Pieces(side, p)
	for bb != 0 {
		var from Square
		from, bb = bb.PopLSB()

		var attack Bitboard
		if p == Knight {
			attack = KnightAttackboard(from)
		} else {
			attack = KingAttackboard(from)
		}
		targets := targetsForKind(kind, attack, own, enemy, empty, enemyKing)

		for targets != 0 {
			var to Square
			to, targets = targets.PopLSB()
			capture := NoPiece
			if enemy.IsSet(to) {
				_, capture, _ = pos.PP.PieceAt(to)
			}
			*moves = append(*moves, MoveInfo{Move: NormalMove(from, to), Piece: p, Capture: capture})
		}
	}
}

func genSliderMoves(pos *Position, kind GenKind, p Piece, side, opp Color, own, enemy, empty, all Bitboard, moves *[]MoveInfo) {
	enemyKing := pos.PP.Pieces(opp, King)
	bb := pos.PP.Pieces(side, p)
	for bb != 0 {
		var from Square
		from, bb = bb.PopLSB()

		var attack Bitboard
		switch p {
		case Bishop:
			attack = BishopAttackboard(all, from)
		case Rook:
			attack = RookAttackboard(all, from)
		case Queen:
			attack = QueenAttackboard(all, from)
		}
		targets := targetsForKind(kind, attack, own, enemy, empty, enemyKing)

		for targets != 0 {
			var to Square
			to, targets = targets.PopLSB()
			capture := NoPiece
			if enemy.IsSet(to) {
				_, capture, _ = pos.PP.PieceAt(to)
			}
			*moves = append(*moves, MoveInfo{Move: NormalMove(from, to), Piece: p, Capture: capture})
		}
	}
}

func pawnPushOrigin(side Color, to Square) Square {
	if side == White {
		return to - 8
	}
	return to + 8
}

// pawnCaptureOrigins returns the (up to two) squares a pawn of side could capture from
// to land on `to`, without checking whether a pawn is actually there.
func pawnCaptureOrigins(side Color, to Square) []Square {
	f, r := int(to.File()), int(to.Rank())
	originRank := r - 1
	if side == Black {
		originRank = r + 1
	}
	if originRank < 0 || originRank > 7 {
		return nil
	}
	var out []Square
	for _, nf := range [2]int{f - 1, f + 1} {
		if nf >= 0 && nf <= 7 {
			out = append(out, NewSquare(File(nf), Rank(originRank)))
		}
	}
	return out
}

func addPawnMoveOrPromotions(moves *[]MoveInfo, from, to Square, capture Piece, promoRank Bitboard) {
	if promoRank.IsSet(to) {
		for _, promo := range [4]Piece{Queen, Rook, Knight, Bishop} {
			*moves = append(*moves, MoveInfo{Move: PromotionMove(from, to, promo), Piece: Pawn, Capture: capture})
		}
		return
	}
	*moves = append(*moves, MoveInfo{Move: NormalMove(from, to), Piece: Pawn, Capture: capture})
}

func genPawnMoves(pos *Position, kind GenKind, side, opp Color, empty, enemy Bitboard, moves *[]MoveInfo) {
	pawns := pos.PP.Pieces(side, Pawn)
	promoRank := PawnPromotionRank(side)

	if kind != OnlyCaptures && kind != OnlyKingCaptures {
		single := PawnPushboard(empty, side, pawns)
		tmp := single
		for tmp != 0 {
			var to Square
			to, tmp = tmp.PopLSB()
			addPawnMoveOrPromotions(moves, pawnPushOrigin(side, to), to, NoPiece, promoRank)
		}

		startPawns := pawns & PawnStartRank(side)
		intermediate := PawnPushboard(empty, side, startPawns)
		double := PawnPushboard(empty, side, intermediate)
		tmp = double
		for tmp != 0 {
			var to Square
			to, tmp = tmp.PopLSB()
			from := pawnPushOrigin(side, pawnPushOrigin(side, to))
			*moves = append(*moves, MoveInfo{Move: NormalMove(from, to), Piece: Pawn, Capture: NoPiece})
		}
	}

	if kind == OnlySilent {
		return
	}

	capTargets := PawnCaptureboard(side, pawns) & enemy
	enemyKing := pos.PP.Pieces(opp, King)
	if kind == OnlyKingCaptures {
		capTargets &= enemyKing
	}
	tmp := capTargets
	for tmp != 0 {
		var to Square
		to, tmp = tmp.PopLSB()
		for _, from := range pawnCaptureOrigins(side, to) {
			if pawns.IsSet(from) {
				_, capture, _ := pos.PP.PieceAt(to)
				addPawnMoveOrPromotions(moves, from, to, capture, promoRank)
			}
		}
	}

	if kind == OnlyKingCaptures {
		return
	}
	if ep := pos.State.EnPassant; ep != NoSquare {
		for _, from := range pawnCaptureOrigins(side, ep) {
			if pawns.IsSet(from) {
				*moves = append(*moves, MoveInfo{Move: EnPassantMove(from, ep), Piece: Pawn, Capture: Pawn})
			}
		}
	}
}
