package model

import (
	"errors"
	"testing"
)

func TestParseUCIMove(t *testing.T) {
	tests := []struct {
		in       string
		from, to Square
		promo    PieceType
	}{
		{"e2e4", Sq(4, 1), Sq(4, 3), ""},
		{"a9a10q", Sq(0, 8), Sq(0, 9), Queen},
		{"j10h8", Sq(9, 9), Sq(7, 7), ""},
		{"b2b1t", Sq(1, 1), Sq(1, 0), Trebuchet},
		{" c10c9h\n", Sq(2, 9), Sq(2, 8), Heir},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			from, to, promo, err := ParseUCIMove(tt.in)
			if err != nil {
				t.Fatalf("ParseUCIMove(%q): %v", tt.in, err)
			}
			if from != tt.from || to != tt.to || promo != tt.promo {
				t.Errorf("got %s %s %q, want %s %s %q", from, to, promo, tt.from, tt.to, tt.promo)
			}
		})
	}
}

func TestParseUCIMoveRejects(t *testing.T) {
	for _, in := range []string{"", "e2", "k1a1", "a0a1", "a11a1", "e2e4x", "e2e4k", "E2E4", "(none)"} {
		if _, _, _, err := ParseUCIMove(in); !errors.Is(err, ErrInvalidUCIMove) {
			t.Errorf("ParseUCIMove(%q) error = %v, want ErrInvalidUCIMove", in, err)
		}
	}
}

func TestFormatUCIMove(t *testing.T) {
	if got := FormatUCIMove(Sq(0, 8), Sq(0, 9), Queen); got != "a9a10q" {
		t.Errorf("got %q", got)
	}
	from, to, promo, err := ParseUCIMove(FormatUCIMove(Sq(9, 9), Sq(6, 6), Knight))
	if err != nil || from != Sq(9, 9) || to != Sq(6, 6) || promo != Knight {
		t.Errorf("round trip gave %s %s %q %v", from, to, promo, err)
	}
}

func TestMoveNotation(t *testing.T) {
	tests := []struct {
		piece   Piece
		from    Square
		to      Square
		capture bool
		promo   PieceType
		want    string
	}{
		{Piece{Pawn, White}, Sq(0, 1), Sq(0, 3), false, "", "Pa2-a4"},
		{Piece{Trebuchet, White}, Sq(1, 0), Sq(4, 3), true, "", "Tb1xe4"},
		{Piece{Knight, Black}, Sq(2, 9), Sq(3, 7), false, "", "Nc10-d8"},
		{Piece{King, Black}, Sq(5, 9), Sq(5, 8), false, "", "Kf10-f9"},
		{Piece{Pawn, White}, Sq(2, 8), Sq(3, 9), true, Heir, "Pc9xd10=H"},
	}
	for _, tt := range tests {
		if got := moveNotation(tt.piece, tt.from, tt.to, tt.capture, tt.promo); got != tt.want {
			t.Errorf("moveNotation = %q, want %q", got, tt.want)
		}
	}
}

func TestSquareJSON(t *testing.T) {
	var req MoveRequest
	if err := req.From.UnmarshalJSON([]byte(`"j10"`)); err != nil || req.From != Sq(9, 9) {
		t.Errorf("algebraic square: %v %+v", err, req.From)
	}
	if err := req.To.UnmarshalJSON([]byte(`{"file":4,"rank":1}`)); err != nil || req.To != Sq(4, 1) {
		t.Errorf("object square: %v %+v", err, req.To)
	}
	if err := req.To.UnmarshalJSON([]byte(`"k1"`)); err == nil {
		t.Error("expected an error for k1")
	}
}
