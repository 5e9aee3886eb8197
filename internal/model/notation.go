package model

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var pieceLetters = map[PieceType]byte{
	King:      'K',
	Heir:      'H',
	Queen:     'Q',
	Rook:      'R',
	Bishop:    'B',
	Knight:    'N',
	Pawn:      'P',
	Trebuchet: 'T',
}

var letterPieces = map[byte]PieceType{
	'k': King,
	'h': Heir,
	'q': Queen,
	'r': Rook,
	'b': Bishop,
	'n': Knight,
	'p': Pawn,
	't': Trebuchet,
}

// pieceLetter returns the FEN letter for p: uppercase for white.
func pieceLetter(p Piece) byte {
	letter := pieceLetters[p.Type]
	if p.Color == Black {
		return letter + ('a' - 'A')
	}
	return letter
}

func pieceFromLetter(ch byte) (Piece, bool) {
	color := Black
	if ch >= 'A' && ch <= 'Z' {
		color = White
		ch += 'a' - 'A'
	}
	pt, ok := letterPieces[ch]
	if !ok {
		return Piece{}, false
	}
	return Piece{Type: pt, Color: color}, true
}

// moveNotation renders a move as e.g. "Pa2-a4", "Tb1xe4" or "Pc9-c10=Q".
func moveNotation(piece Piece, from, to Square, capture bool, promotion PieceType) string {
	var sb strings.Builder
	sb.WriteByte(pieceLetters[piece.Type])
	sb.WriteString(from.String())
	if capture {
		sb.WriteByte('x')
	} else {
		sb.WriteByte('-')
	}
	sb.WriteString(to.String())
	if promotion != "" {
		sb.WriteByte('=')
		sb.WriteByte(pieceLetters[promotion])
	}
	return sb.String()
}

var ErrInvalidUCIMove = errors.New("invalid UCI move")

var uciMovePattern = regexp.MustCompile(`^([a-j])(10|[1-9])([a-j])(10|[1-9])([qrbnth])?$`)

// ParseUCIMove parses an engine move such as "e2e4", "a9a10q" or "j10h8".
// Ranks are written 1-10 and map to board ranks 0-9.
func ParseUCIMove(s string) (from, to Square, promotion PieceType, err error) {
	m := uciMovePattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return Square{}, Square{}, "", fmt.Errorf("%w: %q", ErrInvalidUCIMove, s)
	}
	if from, err = ParseSquare(m[1] + m[2]); err != nil {
		return Square{}, Square{}, "", fmt.Errorf("%w: %q", ErrInvalidUCIMove, s)
	}
	if to, err = ParseSquare(m[3] + m[4]); err != nil {
		return Square{}, Square{}, "", fmt.Errorf("%w: %q", ErrInvalidUCIMove, s)
	}
	if m[5] != "" {
		promotion = letterPieces[m[5][0]]
	}
	return from, to, promotion, nil
}

// FormatUCIMove is the inverse of ParseUCIMove.
func FormatUCIMove(from, to Square, promotion PieceType) string {
	s := from.String() + to.String()
	if promotion != "" {
		s += string(pieceLetters[promotion] + ('a' - 'A'))
	}
	return s
}
