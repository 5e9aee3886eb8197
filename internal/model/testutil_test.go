package model

import "testing"

func mustGame(t *testing.T, fen string, opts ...Option) *Game {
	t.Helper()
	g, err := NewGameFromFEN(fen, opts...)
	if err != nil {
		t.Fatalf("NewGameFromFEN(%q): %v", fen, err)
	}
	return g
}

func hasMove(moves []Move, to Square) (Move, bool) {
	for _, m := range moves {
		if m.To == to {
			return m, true
		}
	}
	return Move{}, false
}

var allPieceTypes = []PieceType{King, Heir, Queen, Rook, Bishop, Knight, Pawn, Trebuchet}
