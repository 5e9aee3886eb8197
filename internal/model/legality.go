package model

// isAttacked reports whether any piece of color by has a pseudo-legal move
// onto target.
func (b *Board) isAttacked(target Square, by Color, rules Rules) bool {
	for _, from := range b.squares(by) {
		for _, m := range b.pseudoLegalMoves(from, rules) {
			if m.To == target {
				return true
			}
		}
	}
	return false
}

// inCheck reports whether the king of color c is attacked. Only the king is
// royal; a board without a king of that color is never in check.
func (b *Board) inCheck(c Color, rules Rules) bool {
	kingSq, ok := b.find(King, c)
	if !ok {
		return false
	}
	return b.isAttacked(kingSq, c.Other(), rules)
}

// legalMoves simulates every pseudo-legal move on a scratch copy of the
// board and keeps the ones that leave the mover's king safe.
func (b *Board) legalMoves(from Square, rules Rules) []Move {
	piece := b.At(from)
	pseudo := b.pseudoLegalMoves(from, rules)
	legal := make([]Move, 0, len(pseudo))
	for _, m := range pseudo {
		scratch := *b
		scratch.Set(m.To, piece)
		scratch.Clear(m.From)
		if !scratch.inCheck(piece.Color, rules) {
			legal = append(legal, m)
		}
	}
	return legal
}

// hasLegalMove stops at the first legal move found for color c.
func (b *Board) hasLegalMove(c Color, rules Rules) bool {
	for _, from := range b.squares(c) {
		if len(b.legalMoves(from, rules)) > 0 {
			return true
		}
	}
	return false
}
