package model

import (
	"sort"
	"strings"
	"testing"
)

func sq(t *testing.T, name string) Square {
	t.Helper()
	s, err := ParseSquare(name)
	if err != nil {
		t.Fatalf("bad square %q: %v", name, err)
	}
	return s
}

func pc(t *testing.T, kind PieceType, c Color, square string) Piece {
	t.Helper()
	return Piece{Type: kind, Color: c, Square: sq(t, square), HasMoved: true}
}

// fresh marks a piece as never moved.
func fresh(p Piece) Piece {
	p.HasMoved = false
	return p
}

func build(t *testing.T, toMove Color, pieces ...Piece) Position {
	t.Helper()
	pos := Empty()
	for _, p := range pieces {
		if err := pos.Place(p); err != nil {
			t.Fatalf("place %+v: %v", p, err)
		}
	}
	pos.SetSideToMove(toMove)
	return pos
}

// load builds a position from the piece placement field of a FEN record.
// Pawns on their home rank count as unmoved; kings and corner rooks are
// unmoved only where castling grants it.
func load(t *testing.T, placement string, toMove Color, castling string) Position {
	t.Helper()
	kinds := map[byte]PieceType{'k': King, 'q': Queen, 'r': Rook, 'b': Bishop, 'n': Knight, 'p': Pawn}
	pos := Empty()
	for row, line := range strings.Split(placement, "/") {
		col := 0
		for i := 0; i < len(line); i++ {
			ch := line[i]
			if ch >= '1' && ch <= '8' {
				col += int(ch - '0')
				continue
			}
			c := Black
			if ch >= 'A' && ch <= 'Z' {
				c = White
				ch += 'a' - 'A'
			}
			p := Piece{Type: kinds[ch], Color: c, Square: Square{Row: row, Col: col}, HasMoved: true}
			switch p.Type {
			case Pawn:
				p.HasMoved = row != c.backRank()+c.forward()
			case King:
				p.HasMoved = !(col == 4 && row == c.backRank() && strings.ContainsAny(castling, castleLetters(c)))
			case Rook:
				if row == c.backRank() && col == 7 {
					p.HasMoved = !strings.Contains(castling, castleLetter(c, "K"))
				} else if row == c.backRank() && col == 0 {
					p.HasMoved = !strings.Contains(castling, castleLetter(c, "Q"))
				}
			}
			if err := pos.Place(p); err != nil {
				t.Fatalf("place %+v: %v", p, err)
			}
			col++
		}
	}
	pos.SetSideToMove(toMove)
	return pos
}

func castleLetter(c Color, letter string) string {
	if c == Black {
		return strings.ToLower(letter)
	}
	return letter
}

func castleLetters(c Color) string {
	return castleLetter(c, "KQ")
}

// play resolves and plays coordinate moves such as "e2e4" or "e7e8n".
func play(t *testing.T, pos Position, moves ...string) Position {
	t.Helper()
	promos := map[byte]PieceType{'q': Queen, 'r': Rook, 'b': Bishop, 'n': Knight}
	for _, text := range moves {
		promotion := NoPiece
		if len(text) == 5 {
			promotion = promos[text[4]]
		}
		m, err := pos.ResolveMove(sq(t, text[0:2]), sq(t, text[2:4]), promotion)
		if err != nil {
			t.Fatalf("resolve %s in %s: %v", text, pos.FEN(), err)
		}
		next, err := pos.Play(m)
		if err != nil {
			t.Fatalf("play %s in %s: %v", text, pos.FEN(), err)
		}
		pos = next
	}
	return pos
}

func moveStrings(moves []Move) []string {
	out := make([]string, 0, len(moves))
	for _, m := range moves {
		out = append(out, m.String())
	}
	sort.Strings(out)
	return out
}

func hasTag(moves []Move, tag MoveTag) bool {
	for _, m := range moves {
		if m.Tag == tag {
			return true
		}
	}
	return false
}
