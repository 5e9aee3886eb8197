package model

type movement int

const (
	sliding movement = iota
	leaping
	pawnPush
	chebyshevLeap
)

type step struct {
	df, dr int
}

// movementRule describes how one piece type moves. distance is only used by
// chebyshevLeap pieces.
type movementRule struct {
	kind     movement
	steps    []step
	distance int
}

var (
	orthogonalSteps = []step{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	diagonalSteps   = []step{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}
	unitSteps       = []step{{-1, -1}, {-1, 0}, {-1, 1}, {0, -1}, {0, 1}, {1, -1}, {1, 0}, {1, 1}}
	knightSteps     = []step{{-2, -1}, {-2, 1}, {-1, -2}, {-1, 2}, {1, -2}, {1, 2}, {2, -1}, {2, 1}}
)

// movementRules is read-only after package initialisation.
var movementRules = map[PieceType]movementRule{
	Queen:     {kind: sliding, steps: unitSteps},
	Rook:      {kind: sliding, steps: orthogonalSteps},
	Bishop:    {kind: sliding, steps: diagonalSteps},
	King:      {kind: leaping, steps: unitSteps},
	Heir:      {kind: leaping, steps: unitSteps},
	Knight:    {kind: leaping, steps: knightSteps},
	Pawn:      {kind: pawnPush},
	Trebuchet: {kind: chebyshevLeap, distance: 3},
}

// Rules holds the configurable variant rules.
type Rules struct {
	// HomeRankDoubleStep limits the pawn two-square advance to the pawn's
	// starting rank. Metric Chess allows it from any rank by default.
	HomeRankDoubleStep bool
}

// pseudoLegalMoves ignores whether the move leaves the mover's king attacked.
func (b *Board) pseudoLegalMoves(from Square, rules Rules) []Move {
	piece := b.At(from)
	if piece.IsEmpty() {
		return nil
	}
	rule, ok := movementRules[piece.Type]
	if !ok {
		return nil
	}
	switch rule.kind {
	case sliding:
		return b.slidingMoves(from, piece, rule.steps)
	case leaping:
		return b.leapingMoves(from, piece, rule.steps)
	case pawnPush:
		return b.pawnMoves(from, piece, rules)
	case chebyshevLeap:
		return b.chebyshevMoves(from, piece, rule.distance)
	}
	return nil
}

func (b *Board) slidingMoves(from Square, piece Piece, steps []step) []Move {
	var moves []Move
	for _, s := range steps {
		to := from.offset(s.df, s.dr)
		for to.Valid() {
			target := b.At(to)
			if target.IsEmpty() {
				moves = append(moves, Move{From: from, To: to})
				to = to.offset(s.df, s.dr)
				continue
			}
			if target.Color != piece.Color {
				moves = append(moves, Move{From: from, To: to, Capture: true})
			}
			break
		}
	}
	return moves
}

func (b *Board) leapingMoves(from Square, piece Piece, steps []step) []Move {
	var moves []Move
	for _, s := range steps {
		if m, ok := b.landing(from, from.offset(s.df, s.dr), piece); ok {
			moves = append(moves, m)
		}
	}
	return moves
}

// landing builds the move onto to unless it is off the board or holds a
// piece of the mover's color.
func (b *Board) landing(from, to Square, piece Piece) (Move, bool) {
	if !to.Valid() {
		return Move{}, false
	}
	target := b.At(to)
	if target.IsEmpty() {
		return Move{From: from, To: to}, true
	}
	if target.Color == piece.Color {
		return Move{}, false
	}
	return Move{From: from, To: to, Capture: true}, true
}

func (b *Board) pawnMoves(from Square, piece Piece, rules Rules) []Move {
	var moves []Move
	dir := pawnDirection(piece.Color)

	one := from.offset(0, dir)
	if one.Valid() && b.At(one).IsEmpty() {
		moves = append(moves, Move{From: from, To: one})

		two := from.offset(0, 2*dir)
		if two.Valid() && b.At(two).IsEmpty() && (!rules.HomeRankDoubleStep || from.Rank == pawnHomeRank(piece.Color)) {
			moves = append(moves, Move{From: from, To: two})
		}
	}

	for _, df := range []int{-1, 1} {
		to := from.offset(df, dir)
		if !to.Valid() {
			continue
		}
		if target := b.At(to); !target.IsEmpty() && target.Color != piece.Color {
			moves = append(moves, Move{From: from, To: to, Capture: true})
		}
	}
	return moves
}

func (b *Board) chebyshevMoves(from Square, piece Piece, distance int) []Move {
	var moves []Move
	for dr := -distance; dr <= distance; dr++ {
		for df := -distance; df <= distance; df++ {
			if max(abs(df), abs(dr)) != distance {
				continue
			}
			if m, ok := b.landing(from, from.offset(df, dr), piece); ok {
				moves = append(moves, m)
			}
		}
	}
	return moves
}

func pawnDirection(c Color) int {
	if c == White {
		return 1
	}
	return -1
}

func pawnHomeRank(c Color) int {
	if c == White {
		return 1
	}
	return BoardSize - 2
}

func promotionRank(c Color) int {
	if c == White {
		return BoardSize - 1
	}
	return 0
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
