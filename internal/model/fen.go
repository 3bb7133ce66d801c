package model

import (
	"strconv"
	"strings"
)

// FEN renders the position in Forsyth-Edwards Notation. Castling rights are
// derived from the unmoved flags of kings and corner rooks, the en passant
// square from a pawn that may be captured en passant. Move counters are not
// tracked and are always written as "0 1".
func (p *Position) FEN() string {
	var sb strings.Builder
	for row := 0; row < 8; row++ {
		empty := 0
		for col := 0; col < 8; col++ {
			piece := p.grid[row][col]
			if piece.IsEmpty() {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			letter := piece.Type.getPieceNotation()
			if piece.Color == Black {
				letter = strings.ToLower(letter)
			}
			sb.WriteString(letter)
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if row < 7 {
			sb.WriteByte('/')
		}
	}

	if p.toMove == White {
		sb.WriteString(" w ")
	} else {
		sb.WriteString(" b ")
	}

	rights := p.castlingRights()
	if rights == "" {
		rights = "-"
	}
	sb.WriteString(rights)

	sb.WriteByte(' ')
	if target, ok := p.enPassantTarget(); ok {
		sb.WriteString(target.String())
	} else {
		sb.WriteByte('-')
	}
	sb.WriteString(" 0 1")
	return sb.String()
}

func (p *Position) castlingRights() string {
	var rights strings.Builder
	for _, c := range [2]Color{White, Black} {
		row := c.backRank()
		king := p.grid[row][4]
		if king.Type != King || king.Color != c || king.HasMoved {
			continue
		}
		for _, side := range []struct {
			col    int
			letter string
		}{{7, "K"}, {0, "Q"}} {
			rook := p.grid[row][side.col]
			if rook.Type != Rook || rook.Color != c || rook.HasMoved {
				continue
			}
			if c == Black {
				rights.WriteString(strings.ToLower(side.letter))
			} else {
				rights.WriteString(side.letter)
			}
		}
	}
	return rights.String()
}

// enPassantTarget is the square a pawn of the side to move would land on when
// capturing en passant.
func (p *Position) enPassantTarget() (Square, bool) {
	opponent := p.toMove.Opponent()
	r := &p.pieces[opponent]
	for i := 0; i < r.n; i++ {
		sq := r.squares[i]
		if piece := p.grid[sq.Row][sq.Col]; piece.Type == Pawn && piece.EnPassant {
			return sq.offset(-opponent.forward(), 0), true
		}
	}
	return Square{}, false
}
