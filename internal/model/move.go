package model

// Move is a candidate destination produced by the move generator.
type Move struct {
	From    Square `json:"from"`
	To      Square `json:"to"`
	Capture bool   `json:"capture"`
}

// MoveRequest is a move as submitted by a client.
type MoveRequest struct {
	From      Square    `json:"from"`
	To        Square    `json:"to"`
	Promotion PieceType `json:"promotion,omitempty"`
}

// MoveRecord is an applied move. Piece is the mover before any promotion.
type MoveRecord struct {
	From      Square    `json:"from"`
	To        Square    `json:"to"`
	Piece     Piece     `json:"piece"`
	Captured  *Piece    `json:"capturedPiece"`
	Promotion PieceType `json:"promotion,omitempty"`
	Notation  string    `json:"notation"`
}

// HistoryEntry pairs an applied move with the board as it stood before it.
type HistoryEntry struct {
	Move   MoveRecord `json:"move"`
	Before Board      `json:"-"`
}

type NotationEntry struct {
	MoveNumber int    `json:"moveNumber"`
	Player     Color  `json:"player"`
	Notation   string `json:"notation"`
}

// CapturedPieces lists the pieces taken by each color, in capture order.
type CapturedPieces struct {
	White []Piece `json:"white"`
	Black []Piece `json:"black"`
}

func newCapturedPieces() CapturedPieces {
	return CapturedPieces{
		White: make([]Piece, 0),
		Black: make([]Piece, 0),
	}
}

func (cp *CapturedPieces) add(by Color, p Piece) {
	if by == White {
		cp.White = append(cp.White, p)
	} else {
		cp.Black = append(cp.Black, p)
	}
}

func (cp *CapturedPieces) pop(by Color) {
	if by == White {
		if n := len(cp.White); n > 0 {
			cp.White = cp.White[:n-1]
		}
		return
	}
	if n := len(cp.Black); n > 0 {
		cp.Black = cp.Black[:n-1]
	}
}

func (cp CapturedPieces) clone() CapturedPieces {
	return CapturedPieces{
		White: append(make([]Piece, 0, len(cp.White)), cp.White...),
		Black: append(make([]Piece, 0, len(cp.Black)), cp.Black...),
	}
}
