package model

import "fmt"

type GameStatus uint8

const (
	Ongoing GameStatus = iota
	Checkmate
	Stalemate
)

func (s GameStatus) String() string {
	switch s {
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	}
	return "ongoing"
}

func (s GameStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *GameStatus) UnmarshalText(text []byte) error {
	for _, status := range [...]GameStatus{Ongoing, Checkmate, Stalemate} {
		if status.String() == string(text) {
			*s = status
			return nil
		}
	}
	return fmt.Errorf("unknown game status %q", text)
}

// Status reports whether side c, if it were to move, is mated, stalemated or
// still has a legal move.
func (p *Position) Status(c Color) GameStatus {
	if p.hasLegalMove(c) {
		return Ongoing
	}
	if p.InCheck(c) {
		return Checkmate
	}
	return Stalemate
}

var pieceValues = [...]float64{
	King:   0,
	Queen:  9,
	Rook:   5,
	Bishop: 3.25,
	Knight: 3.25,
	Pawn:   1,
}

// MaterialScore is white's material minus black's.
func (p *Position) MaterialScore() float64 {
	return p.material(White) - p.material(Black)
}

func (p *Position) material(c Color) float64 {
	var score float64
	r := &p.pieces[c]
	for i := 0; i < r.n; i++ {
		sq := r.squares[i]
		score += pieceValues[p.grid[sq.Row][sq.Col].Type]
	}
	return score
}
