package model

// pieceRules is implemented once per piece type. attackSquares lists the
// squares a piece threatens whether or not moving there would be legal; it
// must never consult the legality filter. pseudoMoves lists candidate moves
// before legality filtering. Both append to out and return it.
type pieceRules interface {
	attackSquares(p *Position, piece Piece, out []Square) []Square
	pseudoMoves(p *Position, piece Piece, out []Move) []Move
}

var rules = [...]pieceRules{
	King:   kingRules{},
	Queen:  queenRules{},
	Rook:   rookRules{},
	Bishop: bishopRules{},
	Knight: knightRules{},
	Pawn:   pawnRules{},
}

func rulesFor(t PieceType) pieceRules {
	if t == NoPiece || int(t) >= len(rules) {
		panic(&InvariantError{Err: ErrNoPiece, Detail: "no movement rules for " + t.String()})
	}
	return rules[t]
}

var (
	diagonalDirs   = [4]Square{{Row: 1, Col: 1}, {Row: 1, Col: -1}, {Row: -1, Col: 1}, {Row: -1, Col: -1}}
	orthogonalDirs = [4]Square{{Row: 1, Col: 0}, {Row: -1, Col: 0}, {Row: 0, Col: 1}, {Row: 0, Col: -1}}
	kingOffsets    = [8]Square{{Row: 1, Col: 0}, {Row: -1, Col: 0}, {Row: 0, Col: 1}, {Row: 0, Col: -1}, {Row: 1, Col: 1}, {Row: 1, Col: -1}, {Row: -1, Col: 1}, {Row: -1, Col: -1}}
	knightOffsets  = [8]Square{{Row: 2, Col: 1}, {Row: 2, Col: -1}, {Row: -2, Col: 1}, {Row: -2, Col: -1}, {Row: 1, Col: 2}, {Row: 1, Col: -2}, {Row: -1, Col: 2}, {Row: -1, Col: -2}}
)

// castRays walks each direction from the piece until the edge of the board,
// a friendly piece (excluded) or an enemy piece (included).
func (p *Position) castRays(piece Piece, dirs []Square, out []Square) []Square {
	for _, dir := range dirs {
		target := piece.Square.offset(dir.Row, dir.Col)
		for target.OnBoard() {
			occupant := p.At(target)
			if occupant.IsEmpty() {
				out = append(out, target)
			} else {
				if occupant.Color != piece.Color {
					out = append(out, target)
				}
				break
			}
			target = target.offset(dir.Row, dir.Col)
		}
	}
	return out
}

func (p *Position) diagonals(piece Piece, out []Square) []Square {
	return p.castRays(piece, diagonalDirs[:], out)
}

func (p *Position) orthogonals(piece Piece, out []Square) []Square {
	return p.castRays(piece, orthogonalDirs[:], out)
}

func appendTargets(out []Move, from Square, targets []Square) []Move {
	for _, to := range targets {
		out = append(out, Move{From: from, To: to})
	}
	return out
}

type kingRules struct{}

func (kingRules) attackSquares(_ *Position, king Piece, out []Square) []Square {
	for _, off := range kingOffsets {
		if target := king.Square.offset(off.Row, off.Col); target.OnBoard() {
			out = append(out, target)
		}
	}
	return out
}

func (r kingRules) pseudoMoves(p *Position, king Piece, out []Move) []Move {
	var buf [8]Square
	opponent := king.Color.Opponent()
	for _, target := range r.attackSquares(p, king, buf[:0]) {
		if occupant := p.At(target); !occupant.IsEmpty() && occupant.Color == king.Color {
			continue
		}
		if p.attacked(target, opponent) {
			continue
		}
		out = append(out, Move{From: king.Square, To: target})
	}
	return p.castlingMoves(king, out)
}

// castlingMoves appends the castling moves available to an unmoved king on
// its home square. Safety is checked with attack squares directly.
func (p *Position) castlingMoves(king Piece, out []Move) []Move {
	if king.HasMoved || king.Square.Col != 4 || king.Square.Row != king.Color.backRank() {
		return out
	}
	opponent := king.Color.Opponent()
	if p.attacked(king.Square, opponent) {
		return out
	}
	if p.canCastle(king, 7, []int{5, 6}, []int{5, 6}) {
		out = append(out, Move{From: king.Square, To: Square{Row: king.Square.Row, Col: 6}, Tag: KingsideCastle})
	}
	if p.canCastle(king, 0, []int{1, 2, 3}, []int{3, 2}) {
		out = append(out, Move{From: king.Square, To: Square{Row: king.Square.Row, Col: 2}, Tag: QueensideCastle})
	}
	return out
}

func (p *Position) canCastle(king Piece, rookCol int, between, transit []int) bool {
	row := king.Square.Row
	rook := p.At(Square{Row: row, Col: rookCol})
	if rook.Type != Rook || rook.Color != king.Color || rook.HasMoved {
		return false
	}
	for _, col := range between {
		if !p.At(Square{Row: row, Col: col}).IsEmpty() {
			return false
		}
	}
	opponent := king.Color.Opponent()
	for _, col := range transit {
		if p.attacked(Square{Row: row, Col: col}, opponent) {
			return false
		}
	}
	return true
}

// castleRookSquares returns where the rook starts and lands for a castling move.
func castleRookSquares(m Move) (from, to Square) {
	row := m.From.Row
	if m.Tag == KingsideCastle {
		return Square{Row: row, Col: 7}, Square{Row: row, Col: 5}
	}
	return Square{Row: row, Col: 0}, Square{Row: row, Col: 3}
}

type queenRules struct{}

func (queenRules) attackSquares(p *Position, queen Piece, out []Square) []Square {
	return p.orthogonals(queen, p.diagonals(queen, out))
}

func (r queenRules) pseudoMoves(p *Position, queen Piece, out []Move) []Move {
	var buf [27]Square
	return appendTargets(out, queen.Square, r.attackSquares(p, queen, buf[:0]))
}

type rookRules struct{}

func (rookRules) attackSquares(p *Position, rook Piece, out []Square) []Square {
	return p.orthogonals(rook, out)
}

func (r rookRules) pseudoMoves(p *Position, rook Piece, out []Move) []Move {
	var buf [14]Square
	return appendTargets(out, rook.Square, r.attackSquares(p, rook, buf[:0]))
}

type bishopRules struct{}

func (bishopRules) attackSquares(p *Position, bishop Piece, out []Square) []Square {
	return p.diagonals(bishop, out)
}

func (r bishopRules) pseudoMoves(p *Position, bishop Piece, out []Move) []Move {
	var buf [13]Square
	return appendTargets(out, bishop.Square, r.attackSquares(p, bishop, buf[:0]))
}

type knightRules struct{}

func (knightRules) attackSquares(_ *Position, knight Piece, out []Square) []Square {
	for _, off := range knightOffsets {
		if target := knight.Square.offset(off.Row, off.Col); target.OnBoard() {
			out = append(out, target)
		}
	}
	return out
}

func (r knightRules) pseudoMoves(p *Position, knight Piece, out []Move) []Move {
	var buf [8]Square
	for _, target := range r.attackSquares(p, knight, buf[:0]) {
		if occupant := p.At(target); occupant.IsEmpty() || occupant.Color != knight.Color {
			out = append(out, Move{From: knight.Square, To: target})
		}
	}
	return out
}

type pawnRules struct{}

func (pawnRules) attackSquares(_ *Position, pawn Piece, out []Square) []Square {
	dir := pawn.Color.forward()
	for _, dCol := range [2]int{-1, 1} {
		if target := pawn.Square.offset(dir, dCol); target.OnBoard() {
			out = append(out, target)
		}
	}
	return out
}

func (pawnRules) pseudoMoves(p *Position, pawn Piece, out []Move) []Move {
	dir := pawn.Color.forward()
	from := pawn.Square
	lastRow := pawn.Color.Opponent().backRank()

	one := from.offset(dir, 0)
	if one.OnBoard() && p.At(one).IsEmpty() {
		out = appendPawnMove(out, from, one, lastRow)
		two := from.offset(2*dir, 0)
		if !pawn.HasMoved && two.OnBoard() && p.At(two).IsEmpty() {
			out = append(out, Move{From: from, To: two, Tag: DoubleStep})
		}
	}
	for _, dCol := range [2]int{-1, 1} {
		diagonal := from.offset(dir, dCol)
		if !diagonal.OnBoard() {
			continue
		}
		if target := p.At(diagonal); !target.IsEmpty() && target.Color != pawn.Color {
			out = appendPawnMove(out, from, diagonal, lastRow)
		}
		victim := p.At(from.offset(0, dCol))
		if victim.Type == Pawn && victim.EnPassant && victim.Color != pawn.Color && p.At(diagonal).IsEmpty() {
			out = append(out, Move{From: from, To: diagonal, Tag: EnPassantCapture})
		}
	}
	return out
}

func appendPawnMove(out []Move, from, to Square, lastRow int) []Move {
	if to.Row != lastRow {
		return append(out, Move{From: from, To: to})
	}
	for _, tag := range promotionTags {
		out = append(out, Move{From: from, To: to, Tag: tag})
	}
	return out
}
