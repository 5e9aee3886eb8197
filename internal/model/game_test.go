package model

import (
	"math/rand"
	"testing"
)

func TestPawnTwoSquareAdvanceFromStart(t *testing.T) {
	g := NewGame()
	if !g.MovePiece(Sq(0, 1), Sq(0, 3)) {
		t.Fatal("a2-a4 should be legal")
	}
	board := g.Board()
	if p := board[3][0]; p.Type != Pawn || p.Color != White {
		t.Errorf("board[3][0] = %+v, want white pawn", p)
	}
	if p := board[1][0]; !p.IsEmpty() {
		t.Errorf("board[1][0] = %+v, want empty", p)
	}
	if g.SideToMove() != Black {
		t.Errorf("SideToMove() = %s, want black", g.SideToMove())
	}
	if g.MoveCount() != 1 {
		t.Errorf("MoveCount() = %d, want 1", g.MoveCount())
	}
	notation := g.Notation()
	if len(notation) != 1 || notation[0].Notation != "Pa2-a4" || notation[0].MoveNumber != 1 || notation[0].Player != White {
		t.Errorf("notation = %+v", notation)
	}
}

func TestMovePieceRejects(t *testing.T) {
	tests := []struct {
		name     string
		from, to Square
	}{
		{"empty square", Sq(4, 4), Sq(4, 5)},
		{"opponent piece", Sq(0, 8), Sq(0, 7)},
		{"off board", Sq(0, 1), Sq(0, 10)},
		{"not a legal destination", Sq(0, 1), Sq(1, 2)},
		{"own piece", Sq(1, 0), Sq(1, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGame()
			before := g.GenerateFEN()
			if g.MovePiece(tt.from, tt.to) {
				t.Fatalf("MovePiece(%s, %s) succeeded", tt.from, tt.to)
			}
			if g.GenerateFEN() != before || g.MoveCount() != 0 || g.CanUndo() {
				t.Error("rejected move changed the game")
			}
		})
	}
}

func TestCaptureBookkeeping(t *testing.T) {
	g := mustGame(t, "k9/10/10/10/10/3p6/4P5/10/10/K9 w - - 0 1")
	if !g.MovePiece(Sq(4, 3), Sq(3, 4)) {
		t.Fatal("exd5 should be legal")
	}
	captured := g.Captured()
	if len(captured.White) != 1 || captured.White[0] != (Piece{Type: Pawn, Color: Black}) {
		t.Errorf("white captures = %+v", captured.White)
	}
	last, ok := g.LastMove()
	if !ok || last.Captured == nil || last.Notation != "Pe4xd5" {
		t.Errorf("last move = %+v", last)
	}

	g.UndoMove()
	if captured := g.Captured(); len(captured.White) != 0 {
		t.Errorf("undo should return the capture, got %+v", captured.White)
	}
	g.RedoMove()
	if captured := g.Captured(); len(captured.White) != 1 {
		t.Errorf("redo should repeat the capture, got %+v", captured.White)
	}
}

func TestUndoRedoRoundTrip(t *testing.T) {
	const plies = 30
	g := NewGame()
	rng := rand.New(rand.NewSource(42))

	fens := []string{g.GenerateFEN()}
	for i := 0; i < plies; i++ {
		m, ok := g.RandomLegalMove(rng)
		if !ok {
			break
		}
		if !g.MovePiece(m.From, m.To) {
			t.Fatalf("ply %d: %s-%s rejected", i, m.From, m.To)
		}
		fens = append(fens, g.GenerateFEN())
	}
	n := len(fens) - 1
	final := g.Board()
	finalNotation := g.Notation()

	for i := n; i > 0; i-- {
		if !g.UndoMove() {
			t.Fatalf("undo %d failed", n-i+1)
		}
		if got := g.GenerateFEN(); got != fens[i-1] {
			t.Fatalf("after undo to ply %d got %s, want %s", i-1, got, fens[i-1])
		}
	}
	if g.UndoMove() {
		t.Error("undo past the start should fail")
	}
	if g.GenerateFEN() != StartingFEN {
		t.Errorf("fully undone game = %s", g.GenerateFEN())
	}

	for i := 1; i <= n; i++ {
		if !g.RedoMove() {
			t.Fatalf("redo %d failed", i)
		}
		if got := g.GenerateFEN(); got != fens[i] {
			t.Fatalf("after redo to ply %d got %s, want %s", i, got, fens[i])
		}
	}
	if g.RedoMove() {
		t.Error("redo past the end should fail")
	}
	if g.Board() != final {
		t.Error("board differs after full redo")
	}
	if got := g.Notation(); len(got) != len(finalNotation) {
		t.Errorf("notation has %d entries, want %d", len(got), len(finalNotation))
	}
}

func TestNewMoveClearsRedo(t *testing.T) {
	g := NewGame()
	g.MovePiece(Sq(0, 1), Sq(0, 3))
	g.UndoMove()
	if !g.CanRedo() {
		t.Fatal("expected a redo entry")
	}
	g.MovePiece(Sq(1, 1), Sq(1, 2))
	if g.CanRedo() {
		t.Error("a fresh move must clear the redo stack")
	}
}

func TestReset(t *testing.T) {
	g := NewGame()
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 10; i++ {
		m, _ := g.RandomLegalMove(rng)
		g.MovePiece(m.From, m.To)
	}
	g.Reset()

	if got := g.GenerateFEN(); got != StartingFEN {
		t.Errorf("GenerateFEN() = %s, want %s", got, StartingFEN)
	}
	if g.CanUndo() || g.CanRedo() || g.MoveCount() != 0 || len(g.Notation()) != 0 {
		t.Error("reset should clear history, redo, counters and notation")
	}
	if c := g.Captured(); len(c.White)+len(c.Black) != 0 {
		t.Error("reset should clear captured pieces")
	}
}

func TestPromotion(t *testing.T) {
	const fen = "9k/P9/10/10/10/10/10/10/10/9K w - - 0 1"

	t.Run("defaults to queen", func(t *testing.T) {
		g := mustGame(t, fen)
		if !g.MovePiece(Sq(0, 8), Sq(0, 9)) {
			t.Fatal("a9-a10 should be legal")
		}
		if p := g.PieceAt(Sq(0, 9)); p.Type != Queen || p.Color != White {
			t.Errorf("promoted piece = %+v", p)
		}
		last, _ := g.LastMove()
		if last.Notation != "Pa9-a10=Q" {
			t.Errorf("notation = %q", last.Notation)
		}
	})

	t.Run("explicit trebuchet", func(t *testing.T) {
		g := mustGame(t, fen)
		if !g.MovePiece(Sq(0, 8), Sq(0, 9), Trebuchet) {
			t.Fatal("promotion to trebuchet should be legal")
		}
		if p := g.PieceAt(Sq(0, 9)); p.Type != Trebuchet {
			t.Errorf("promoted piece = %+v", p)
		}
		g.UndoMove()
		if p := g.PieceAt(Sq(0, 8)); p.Type != Pawn {
			t.Errorf("undo should restore the pawn, got %+v", p)
		}
	})

	t.Run("king is not a promotion target", func(t *testing.T) {
		g := mustGame(t, fen)
		if g.MovePiece(Sq(0, 8), Sq(0, 9), King) {
			t.Fatal("promotion to king must be rejected")
		}
	})
}

func TestAvailableMovesOnlyForSideToMove(t *testing.T) {
	g := NewGame()
	if moves := g.AvailableMoves(Sq(0, 8)); len(moves) != 0 {
		t.Errorf("black pawn moves offered on white's turn: %v", moves)
	}
	if moves := g.LegalMoves(Sq(0, 8)); len(moves) == 0 {
		t.Error("LegalMoves should still answer for black pieces")
	}
	if moves := g.AvailableMoves(Sq(0, 1)); len(moves) != 2 {
		t.Errorf("a2 pawn should have 2 moves, got %v", moves)
	}
}

func TestNewGameFromFENMoveNumbers(t *testing.T) {
	g := mustGame(t, "9k/10/10/10/10/10/10/10/4P5/9K b - - 0 5")
	if g.MoveCount() != 9 {
		t.Errorf("MoveCount() = %d, want 9", g.MoveCount())
	}
	if g.SideToMove() != Black {
		t.Errorf("SideToMove() = %s", g.SideToMove())
	}
	if !g.MovePiece(Sq(9, 9), Sq(8, 9)) {
		t.Fatal("Kj10-i10 should be legal")
	}
	if n := g.Notation(); n[0].MoveNumber != 5 || n[0].Player != Black {
		t.Errorf("notation = %+v", n)
	}
	if got := g.GenerateFEN(); got != "8k1/10/10/10/10/10/10/10/4P5/9K w - - 0 6" {
		t.Errorf("GenerateFEN() = %s", got)
	}
	g.UndoMove()
	if g.MoveCount() != 9 || g.CanUndo() {
		t.Error("undo should return to the loaded position")
	}
}
