package model

import (
	"fmt"

	"golang.org/x/exp/slices"
)

// Apply returns the position after m. The receiver is not modified. Apply
// does not validate m: it must come from the legal moves of the piece on
// m.From. Use Play for untrusted input.
func (p *Position) Apply(m Move) Position {
	next := *p
	mover := next.At(m.From)

	next.displace(m)
	moved := &next.grid[m.To.Row][m.To.Col]
	moved.HasMoved = true
	switch m.Tag {
	case KingsideCastle, QueensideCastle:
		_, rookTo := castleRookSquares(m)
		next.grid[rookTo.Row][rookTo.Col].HasMoved = true
	case DoubleStep:
		moved.EnPassant = true
	case PromoteQueen, PromoteRook, PromoteBishop, PromoteKnight:
		*moved = Piece{Type: m.Tag.Promotion(), Color: mover.Color, Square: m.To}
	}

	// Pieces of the side about to move lose their en passant exposure, which
	// limits it to the single reply after a double step.
	opponent := mover.Color.Opponent()
	r := &next.pieces[opponent]
	for i := 0; i < r.n; i++ {
		sq := r.squares[i]
		next.grid[sq.Row][sq.Col].EnPassant = false
	}
	next.toMove = opponent
	return next
}

// Play validates m against the side to move and the legal moves of the piece
// on m.From before applying it.
func (p *Position) Play(m Move) (Position, error) {
	piece := p.At(m.From)
	if piece.IsEmpty() {
		return Position{}, fmt.Errorf("play %s: %w", m, ErrNoPiece)
	}
	if piece.Color != p.toMove {
		return Position{}, fmt.Errorf("play %s: %w", m, ErrWrongSide)
	}
	if !slices.Contains(p.LegalMovesFrom(m.From), m) {
		return Position{}, fmt.Errorf("play %s: %w", m, ErrIllegalMove)
	}
	return p.Apply(m), nil
}

// ResolveMove finds the legal move from one square to another. Tags that are
// implied by the squares (castling, double steps, en passant) are filled in;
// promotions must name the piece, otherwise a queen is chosen.
func (p *Position) ResolveMove(from, to Square, promotion PieceType) (Move, error) {
	moves := p.LegalMovesFrom(from)
	i := slices.IndexFunc(moves, func(m Move) bool {
		if m.To != to {
			return false
		}
		if promo := m.Tag.Promotion(); promo != NoPiece {
			if promotion == NoPiece {
				return promo == Queen
			}
			return promo == promotion
		}
		return true
	})
	if i < 0 {
		return Move{}, fmt.Errorf("resolve %s%s: %w", from, to, ErrIllegalMove)
	}
	return moves[i], nil
}
