package model

// attacked reports whether any piece of side by threatens target.
func (p *Position) attacked(target Square, by Color) bool {
	var buf [27]Square
	r := &p.pieces[by]
	for i := 0; i < r.n; i++ {
		piece := p.At(r.squares[i])
		for _, sq := range rulesFor(piece.Type).attackSquares(p, piece, buf[:0]) {
			if sq == target {
				return true
			}
		}
	}
	return false
}

// InCheck reports whether c's king is attacked. It panics with an
// *InvariantError if c has no king.
func (p *Position) InCheck(c Color) bool {
	return p.attacked(p.mustKing(c), c.Opponent())
}

// displace performs the board surgery of a move: captured pieces leave the
// grid and their registry, the mover (and a castling rook) relocate. Flags
// and the side to move are left alone.
func (p *Position) displace(m Move) {
	switch m.Tag {
	case EnPassantCapture:
		p.capture(Square{Row: m.From.Row, Col: m.To.Col})
	case KingsideCastle, QueensideCastle:
		rookFrom, rookTo := castleRookSquares(m)
		p.relocate(rookFrom, rookTo)
	}
	p.capture(m.To)
	p.relocate(m.From, m.To)
}

// isLegal plays m on a scratch copy and checks the mover's king.
func (p *Position) isLegal(piece Piece, m Move) bool {
	scratch := *p
	scratch.displace(m)
	return !scratch.InCheck(piece.Color)
}

func (p *Position) legalMovesOf(piece Piece, out []Move) []Move {
	var buf [32]Move
	for _, m := range rulesFor(piece.Type).pseudoMoves(p, piece, buf[:0]) {
		if p.isLegal(piece, m) {
			out = append(out, m)
		}
	}
	return out
}

// LegalMovesFrom returns the legal moves of the piece standing on sq, or nil
// if the square is empty.
func (p *Position) LegalMovesFrom(sq Square) []Move {
	piece := p.At(sq)
	if piece.IsEmpty() {
		return nil
	}
	return p.legalMovesOf(piece, nil)
}

// LegalMoves returns every legal move of every piece of side c.
func (p *Position) LegalMoves(c Color) []Move {
	var moves []Move
	r := &p.pieces[c]
	for i := 0; i < r.n; i++ {
		moves = p.legalMovesOf(p.At(r.squares[i]), moves)
	}
	return moves
}

// hasLegalMove stops at the first legal move of side c.
func (p *Position) hasLegalMove(c Color) bool {
	var buf [32]Move
	r := &p.pieces[c]
	for i := 0; i < r.n; i++ {
		piece := p.At(r.squares[i])
		for _, m := range rulesFor(piece.Type).pseudoMoves(p, piece, buf[:0]) {
			if p.isLegal(piece, m) {
				return true
			}
		}
	}
	return false
}
