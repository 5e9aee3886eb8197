package model

import (
	"encoding/json"
	"fmt"
)

// BoardSize is the number of files and ranks on a Metric Chess board.
const BoardSize = 10

type PieceType string

const (
	King      PieceType = "king"
	Heir      PieceType = "heir"
	Queen     PieceType = "queen"
	Rook      PieceType = "rook"
	Bishop    PieceType = "bishop"
	Knight    PieceType = "knight"
	Pawn      PieceType = "pawn"
	Trebuchet PieceType = "trebuchet"
)

// Valid reports whether p names one of the eight Metric Chess piece types.
func (p PieceType) Valid() bool {
	_, ok := movementRules[p]
	return ok
}

type Color string

const (
	White Color = "white"
	Black Color = "black"
)

// Other returns the opposing color.
func (c Color) Other() Color {
	if c == White {
		return Black
	}
	return White
}

func (c Color) Valid() bool {
	return c == White || c == Black
}

// Piece is a value type; the zero Piece is an empty square.
type Piece struct {
	Type  PieceType `json:"type"`
	Color Color     `json:"color"`
}

func (p Piece) IsEmpty() bool {
	return p.Type == ""
}

func (p Piece) String() string {
	if p.IsEmpty() {
		return "."
	}
	return string(pieceLetter(p))
}

// Square addresses the board in the canonical white-at-bottom orientation.
type Square struct {
	File int `json:"file"`
	Rank int `json:"rank"`
}

func Sq(file, rank int) Square {
	return Square{File: file, Rank: rank}
}

func (s Square) Valid() bool {
	return s.File >= 0 && s.File < BoardSize && s.Rank >= 0 && s.Rank < BoardSize
}

// String returns the algebraic name of the square, files a-j and ranks 1-10.
func (s Square) String() string {
	if !s.Valid() {
		return "-"
	}
	return fmt.Sprintf("%c%d", 'a'+s.File, s.Rank+1)
}

func (s Square) offset(df, dr int) Square {
	return Square{File: s.File + df, Rank: s.Rank + dr}
}

// UnmarshalJSON accepts either {"file":4,"rank":1} or the algebraic "e2".
func (s *Square) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		sq, err := ParseSquare(name)
		if err != nil {
			return err
		}
		*s = sq
		return nil
	}
	type square Square
	var raw square
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("invalid square: %s", data)
	}
	*s = Square(raw)
	return nil
}

// ParseSquare parses an algebraic square name such as "a1" or "j10".
func ParseSquare(s string) (Square, error) {
	if len(s) < 2 || len(s) > 3 {
		return Square{}, fmt.Errorf("invalid square: %q", s)
	}
	file := int(s[0] - 'a')
	rank := 0
	for _, ch := range s[1:] {
		if ch < '0' || ch > '9' {
			return Square{}, fmt.Errorf("invalid square: %q", s)
		}
		rank = rank*10 + int(ch-'0')
	}
	sq := Square{File: file, Rank: rank - 1}
	if !sq.Valid() {
		return Square{}, fmt.Errorf("invalid square: %q", s)
	}
	return sq, nil
}

// Board is indexed [rank][file]. Assigning a Board copies every square.
type Board [BoardSize][BoardSize]Piece

func (b *Board) At(sq Square) Piece {
	return b[sq.Rank][sq.File]
}

func (b *Board) Set(sq Square, p Piece) {
	b[sq.Rank][sq.File] = p
}

func (b *Board) Clear(sq Square) {
	b[sq.Rank][sq.File] = Piece{}
}

// find returns the first square holding a piece of the given type and color.
func (b *Board) find(pt PieceType, c Color) (Square, bool) {
	for rank := 0; rank < BoardSize; rank++ {
		for file := 0; file < BoardSize; file++ {
			p := b[rank][file]
			if p.Type == pt && p.Color == c {
				return Sq(file, rank), true
			}
		}
	}
	return Square{}, false
}

// squares returns every occupied square of color c, rank 0 first.
func (b *Board) squares(c Color) []Square {
	var out []Square
	for rank := 0; rank < BoardSize; rank++ {
		for file := 0; file < BoardSize; file++ {
			if p := b[rank][file]; !p.IsEmpty() && p.Color == c {
				out = append(out, Sq(file, rank))
			}
		}
	}
	return out
}

// MarshalJSON encodes the board as rank-0-first rows with null for empty squares.
func (b Board) MarshalJSON() ([]byte, error) {
	rows := make([][]*Piece, BoardSize)
	for rank := 0; rank < BoardSize; rank++ {
		rows[rank] = make([]*Piece, BoardSize)
		for file := 0; file < BoardSize; file++ {
			if p := b[rank][file]; !p.IsEmpty() {
				rows[rank][file] = &p
			}
		}
	}
	return json.Marshal(rows)
}

var backRank = [BoardSize]PieceType{Trebuchet, Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook, Trebuchet}

func newBoard() Board {
	var b Board
	for file := 0; file < BoardSize; file++ {
		b[0][file] = Piece{Type: backRank[file], Color: White}
		b[1][file] = Piece{Type: Pawn, Color: White}
		b[BoardSize-2][file] = Piece{Type: Pawn, Color: Black}
		b[BoardSize-1][file] = Piece{Type: backRank[file], Color: Black}
	}
	return b
}
