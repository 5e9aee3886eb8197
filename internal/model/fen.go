package model

import (
	"errors"
	"strconv"
	"strings"
)

// StartingFEN is the Metric Chess initial position.
const StartingFEN = "trnbqkbnrt/pppppppppp/10/10/10/10/10/10/PPPPPPPPPP/TRNBQKBNRT w - - 0 1"

var ErrInvalidFEN = errors.New("invalid FEN")

// MaxFullmove bounds the fullmove field so the ply counter cannot overflow.
const MaxFullmove = 1 << 20

// encodeFEN writes ranks 9 to 0 with run-length encoded empty squares.
// Castling and en passant are not part of Metric Chess and are always "-".
func encodeFEN(b *Board, side Color, moveCount int) string {
	var sb strings.Builder
	for rank := BoardSize - 1; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < BoardSize; file++ {
			p := b[rank][file]
			if p.IsEmpty() {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteByte(pieceLetter(p))
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}
	sb.WriteByte(' ')
	if side == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}
	sb.WriteString(" - - 0 ")
	sb.WriteString(strconv.Itoa(moveCount/2 + 1))
	return sb.String()
}

// decodeFEN parses a position. Only the placement field is required; the side
// to move defaults to white and the fullmove number to 1.
func decodeFEN(fen string) (Board, Color, int, error) {
	var b Board
	fields := strings.Fields(fen)
	if len(fields) == 0 {
		return b, "", 0, ErrInvalidFEN
	}
	rows := strings.Split(fields[0], "/")
	if len(rows) != BoardSize {
		return b, "", 0, ErrInvalidFEN
	}
	for i, row := range rows {
		rank := BoardSize - 1 - i
		file := 0
		run := 0
		for j := 0; j < len(row); j++ {
			ch := row[j]
			if ch >= '0' && ch <= '9' {
				run = run*10 + int(ch-'0')
				if file+run > BoardSize {
					return b, "", 0, ErrInvalidFEN
				}
				continue
			}
			file += run
			run = 0
			p, ok := pieceFromLetter(ch)
			if !ok || file >= BoardSize {
				return b, "", 0, ErrInvalidFEN
			}
			b[rank][file] = p
			file++
		}
		file += run
		if file != BoardSize {
			return b, "", 0, ErrInvalidFEN
		}
	}

	side := White
	if len(fields) > 1 {
		switch fields[1] {
		case "w":
		case "b":
			side = Black
		default:
			return b, "", 0, ErrInvalidFEN
		}
	}

	fullmove := 1
	if len(fields) > 5 {
		n, err := strconv.Atoi(fields[5])
		if err != nil || n < 1 || n > MaxFullmove {
			return b, "", 0, ErrInvalidFEN
		}
		fullmove = n
	}
	return b, side, fullmove, nil
}
