package model

import (
	"math/rand"
)

type Status string

const (
	StatusOngoing   Status = "ongoing"
	StatusCheckmate Status = "checkmate"
	StatusStalemate Status = "stalemate"
)

type Option func(*Rules)

// WithHomeRankDoubleStep restricts the pawn two-square advance to the home rank.
func WithHomeRankDoubleStep() Option {
	return func(r *Rules) {
		r.HomeRankDoubleStep = true
	}
}

// Game is the Metric Chess state machine. It is not safe for concurrent use;
// Session serialises access to it.
type Game struct {
	board      Board
	sideToMove Color
	moveCount  int
	startPly   int
	history    []HistoryEntry
	redo       []HistoryEntry
	captured   CapturedPieces
	notation   []NotationEntry
	rules      Rules
}

func NewGame(opts ...Option) *Game {
	g := &Game{}
	for _, opt := range opts {
		opt(&g.rules)
	}
	g.Reset()
	return g
}

// NewGameFromFEN starts a game from an arbitrary position. The fullmove
// number seeds the move counter so that notation numbering continues.
func NewGameFromFEN(fen string, opts ...Option) (*Game, error) {
	board, side, fullmove, err := decodeFEN(fen)
	if err != nil {
		return nil, err
	}
	g := NewGame(opts...)
	g.board = board
	g.sideToMove = side
	g.startPly = (fullmove - 1) * 2
	if side == Black {
		g.startPly++
	}
	g.moveCount = g.startPly
	return g, nil
}

// Reset restores the starting layout and clears all bookkeeping.
func (g *Game) Reset() {
	g.board = newBoard()
	g.sideToMove = White
	g.moveCount = 0
	g.startPly = 0
	g.history = nil
	g.redo = nil
	g.captured = newCapturedPieces()
	g.notation = make([]NotationEntry, 0)
}

func (g *Game) Rules() Rules {
	return g.rules
}

// Board returns a copy of the current board.
func (g *Game) Board() Board {
	return g.board
}

func (g *Game) PieceAt(sq Square) Piece {
	if !sq.Valid() {
		return Piece{}
	}
	return g.board.At(sq)
}

func (g *Game) SideToMove() Color {
	return g.sideToMove
}

func (g *Game) MoveCount() int {
	return g.moveCount
}

func (g *Game) CanUndo() bool {
	return len(g.history) > 0
}

func (g *Game) CanRedo() bool {
	return len(g.redo) > 0
}

func (g *Game) History() []HistoryEntry {
	return append([]HistoryEntry(nil), g.history...)
}

func (g *Game) Notation() []NotationEntry {
	return append(make([]NotationEntry, 0, len(g.notation)), g.notation...)
}

func (g *Game) Captured() CapturedPieces {
	return g.captured.clone()
}

// LastMove returns the most recently applied move, if any.
func (g *Game) LastMove() (MoveRecord, bool) {
	if len(g.history) == 0 {
		return MoveRecord{}, false
	}
	return g.history[len(g.history)-1].Move, true
}

// PseudoLegalMoves returns the moves of the piece on sq without the
// self-check filter.
func (g *Game) PseudoLegalMoves(sq Square) []Move {
	if !sq.Valid() {
		return nil
	}
	return g.board.pseudoLegalMoves(sq, g.rules)
}

// LegalMoves returns the moves of the piece on sq that do not leave its own
// king in check, whichever side the piece belongs to.
func (g *Game) LegalMoves(sq Square) []Move {
	if !sq.Valid() || g.board.At(sq).IsEmpty() {
		return nil
	}
	return g.board.legalMoves(sq, g.rules)
}

// AvailableMoves is LegalMoves restricted to pieces of the side to move.
func (g *Game) AvailableMoves(sq Square) []Move {
	if !sq.Valid() || g.board.At(sq).Color != g.sideToMove {
		return nil
	}
	return g.board.legalMoves(sq, g.rules)
}

// AllLegalMoves lists every legal move of the side to move.
func (g *Game) AllLegalMoves() []Move {
	var moves []Move
	for _, from := range g.board.squares(g.sideToMove) {
		moves = append(moves, g.board.legalMoves(from, g.rules)...)
	}
	return moves
}

// RandomLegalMove picks uniformly among the legal moves of the side to move.
func (g *Game) RandomLegalMove(rng *rand.Rand) (Move, bool) {
	moves := g.AllLegalMoves()
	if len(moves) == 0 {
		return Move{}, false
	}
	return moves[rng.Intn(len(moves))], true
}

// MovePiece applies a move for the side to move. It returns false and leaves
// the game untouched when the move is not legal. A pawn reaching the far rank
// becomes a queen unless a promotion type is supplied.
func (g *Game) MovePiece(from, to Square, promotion ...PieceType) bool {
	if !from.Valid() || !to.Valid() {
		return false
	}
	piece := g.board.At(from)
	if piece.IsEmpty() || piece.Color != g.sideToMove {
		return false
	}

	var legal *Move
	for _, m := range g.board.legalMoves(from, g.rules) {
		if m.To == to {
			legal = &m
			break
		}
	}
	if legal == nil {
		return false
	}

	var promo PieceType
	if piece.Type == Pawn && to.Rank == promotionRank(piece.Color) {
		promo = Queen
		if len(promotion) > 0 && promotion[0] != "" {
			if !isPromotionTarget(promotion[0]) {
				return false
			}
			promo = promotion[0]
		}
	}

	rec := MoveRecord{
		From:      from,
		To:        to,
		Piece:     piece,
		Promotion: promo,
		Notation:  moveNotation(piece, from, to, legal.Capture, promo),
	}
	if target := g.board.At(to); !target.IsEmpty() {
		rec.Captured = &target
	}

	entry := HistoryEntry{Move: rec, Before: g.board}
	g.apply(rec)
	g.history = append(g.history, entry)
	g.redo = nil
	return true
}

// UndoMove restores the position from before the last applied move.
func (g *Game) UndoMove() bool {
	if len(g.history) == 0 {
		return false
	}
	entry := g.history[len(g.history)-1]
	g.history = g.history[:len(g.history)-1]

	g.board = entry.Before
	if entry.Move.Captured != nil {
		g.captured.pop(entry.Move.Piece.Color)
	}
	if n := len(g.notation); n > 0 {
		g.notation = g.notation[:n-1]
	}
	g.sideToMove = entry.Move.Piece.Color
	g.moveCount--

	g.redo = append(g.redo, entry)
	return true
}

// RedoMove re-applies the most recently undone move.
func (g *Game) RedoMove() bool {
	if len(g.redo) == 0 {
		return false
	}
	entry := g.redo[len(g.redo)-1]
	if g.board != entry.Before || g.sideToMove != entry.Move.Piece.Color {
		return false
	}
	g.redo = g.redo[:len(g.redo)-1]

	g.apply(entry.Move)
	g.history = append(g.history, entry)
	return true
}

// apply mutates the board and bookkeeping for a validated move.
func (g *Game) apply(rec MoveRecord) {
	moved := rec.Piece
	if rec.Promotion != "" {
		moved.Type = rec.Promotion
	}
	g.board.Set(rec.To, moved)
	g.board.Clear(rec.From)

	if rec.Captured != nil {
		g.captured.add(rec.Piece.Color, *rec.Captured)
	}
	g.notation = append(g.notation, NotationEntry{
		MoveNumber: g.moveCount/2 + 1,
		Player:     g.sideToMove,
		Notation:   rec.Notation,
	})
	g.sideToMove = g.sideToMove.Other()
	g.moveCount++
}

// IsInCheck reports whether the king of color c is attacked.
func (g *Game) IsInCheck(c Color) bool {
	return g.board.inCheck(c, g.rules)
}

// IsCheck reports whether the side to move is in check.
func (g *Game) IsCheck() bool {
	return g.IsInCheck(g.sideToMove)
}

func (g *Game) IsCheckmate() bool {
	return g.IsCheck() && !g.board.hasLegalMove(g.sideToMove, g.rules)
}

func (g *Game) IsStalemate() bool {
	return !g.IsCheck() && !g.board.hasLegalMove(g.sideToMove, g.rules)
}

func (g *Game) Status() Status {
	if g.board.hasLegalMove(g.sideToMove, g.rules) {
		return StatusOngoing
	}
	if g.IsCheck() {
		return StatusCheckmate
	}
	return StatusStalemate
}

// GenerateFEN serialises the current position.
func (g *Game) GenerateFEN() string {
	return encodeFEN(&g.board, g.sideToMove, g.moveCount)
}

func isPromotionTarget(pt PieceType) bool {
	switch pt {
	case Queen, Rook, Bishop, Knight, Trebuchet, Heir:
		return true
	}
	return false
}
