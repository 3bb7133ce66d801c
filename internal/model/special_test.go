package model

import (
	"testing"

	"github.com/benbeisheim/chessminimax/internal/testutil"
)

func TestEnPassantLifetime(t *testing.T) {
	pos := play(t, StartingPosition(), "e2e4", "a7a6", "e4e5", "d7d5")

	ep := Move{From: sq(t, "e5"), To: sq(t, "d6"), Tag: EnPassantCapture}
	testutil.AssertTrue(t, hasTag(pos.LegalMovesFrom(sq(t, "e5")), EnPassantCapture))
	testutil.AssertEqual(t, pos.FEN(), "rnbqkbnr/1pp1pppp/p7/3pP3/8/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 1")

	captured := pos.Apply(ep)
	testutil.AssertTrue(t, captured.At(sq(t, "d5")).IsEmpty(), "victim must leave d5")
	testutil.AssertEqual(t, captured.At(sq(t, "d6")).Type, Pawn)
	testutil.AssertEqual(t, captured.PieceCount(), 31)
	testutil.AssertNoError(t, captured.Consistent())

	// Declining for one ply ends the option.
	declined := play(t, pos, "a2a3")
	testutil.AssertFalse(t, hasTag(declined.LegalMovesFrom(sq(t, "e5")), EnPassantCapture))
	declined = play(t, declined, "a6a5")
	testutil.AssertFalse(t, hasTag(declined.LegalMovesFrom(sq(t, "e5")), EnPassantCapture))
}

func TestEnPassantOnEitherSide(t *testing.T) {
	tests := []struct {
		name   string
		double string
		want   string
	}{
		{"left neighbour", "d7d5", "e5d6"},
		{"right neighbour", "f7f5", "e5f6"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos := build(t, Black,
				pc(t, King, White, "e1"), pc(t, King, Black, "e8"),
				pc(t, Pawn, White, "e5"),
				fresh(pc(t, Pawn, Black, "d7")), fresh(pc(t, Pawn, Black, "f7")))
			pos = play(t, pos, tt.double)

			var got []string
			for _, m := range pos.LegalMovesFrom(sq(t, "e5")) {
				if m.Tag == EnPassantCapture {
					got = append(got, m.String())
				}
			}
			testutil.AssertEqual(t, got, []string{tt.want})
		})
	}
}

func TestEnPassantCannotExposeKing(t *testing.T) {
	pos := build(t, Black,
		pc(t, King, White, "a5"), pc(t, Pawn, White, "b5"),
		pc(t, King, Black, "h8"), pc(t, Rook, Black, "h5"), fresh(pc(t, Pawn, Black, "c7")))
	pos = play(t, pos, "c7c5")

	// Both pawns would leave the fifth rank, opening it for the rook.
	testutil.AssertFalse(t, hasTag(pos.LegalMovesFrom(sq(t, "b5")), EnPassantCapture))
	testutil.AssertEqual(t, moveStrings(pos.LegalMovesFrom(sq(t, "b5"))), []string{"b5b6"})
}

func TestPromotion(t *testing.T) {
	pos := build(t, White,
		pc(t, King, White, "e1"), pc(t, King, Black, "h6"),
		pc(t, Pawn, White, "a7"), pc(t, Rook, Black, "b8"))

	moves := pos.LegalMovesFrom(sq(t, "a7"))
	testutil.AssertEqual(t, moveStrings(moves),
		[]string{"a7a8b", "a7a8n", "a7a8q", "a7a8r", "a7b8b", "a7b8n", "a7b8q", "a7b8r"})

	next := pos.Apply(Move{From: sq(t, "a7"), To: sq(t, "a8"), Tag: PromoteQueen})
	queen := next.At(sq(t, "a8"))
	testutil.AssertEqual(t, queen.Type, Queen)
	testutil.AssertEqual(t, queen.Color, White)
	testutil.AssertTrue(t, next.At(sq(t, "a7")).IsEmpty())
	for _, p := range next.Pieces(White) {
		testutil.AssertTrue(t, p.Type != Pawn, "pawn still registered at %s", p.Square)
	}
	testutil.AssertEqual(t, len(next.Pieces(White)), 2)
	testutil.AssertNoError(t, next.Consistent())
	testutil.AssertEqual(t, next.MaterialScore(), 4.0)

	capture := pos.Apply(Move{From: sq(t, "a7"), To: sq(t, "b8"), Tag: PromoteKnight})
	testutil.AssertEqual(t, capture.At(sq(t, "b8")).Type, Knight)
	testutil.AssertEqual(t, len(capture.Pieces(Black)), 1)
	testutil.AssertNoError(t, capture.Consistent())
}

func TestBlackPromotion(t *testing.T) {
	pos := build(t, Black, pc(t, King, White, "h8"), pc(t, King, Black, "a8"), pc(t, Pawn, Black, "d2"))
	next := play(t, pos, "d2d1r")

	testutil.AssertEqual(t, next.At(sq(t, "d1")), Piece{Type: Rook, Color: Black, Square: sq(t, "d1")})
	testutil.AssertNoError(t, next.Consistent())
}

func castlingBase(t *testing.T, extra ...Piece) Position {
	t.Helper()
	pieces := append([]Piece{
		fresh(pc(t, King, White, "e1")), fresh(pc(t, Rook, White, "a1")), fresh(pc(t, Rook, White, "h1")),
		fresh(pc(t, King, Black, "e8")),
	}, extra...)
	return build(t, White, pieces...)
}

func castles(pos Position) []MoveTag {
	var tags []MoveTag
	for _, m := range pos.LegalMovesFrom(Square{Row: 7, Col: 4}) {
		if m.Tag == KingsideCastle || m.Tag == QueensideCastle {
			tags = append(tags, m.Tag)
		}
	}
	return tags
}

func TestCastlingEligibility(t *testing.T) {
	tests := []struct {
		name string
		pos  func(t *testing.T) Position
		want []MoveTag
	}{
		{"both sides free", func(t *testing.T) Position { return castlingBase(t) }, []MoveTag{KingsideCastle, QueensideCastle}},
		{"king has moved", func(t *testing.T) Position {
			pos := castlingBase(t)
			pos.grid[7][4].HasMoved = true
			return pos
		}, nil},
		{"kingside rook has moved", func(t *testing.T) Position {
			pos := castlingBase(t)
			pos.grid[7][7].HasMoved = true
			return pos
		}, []MoveTag{QueensideCastle}},
		{"piece between king and rook", func(t *testing.T) Position {
			return castlingBase(t, pc(t, Bishop, White, "f1"))
		}, []MoveTag{QueensideCastle}},
		{"queenside b-file square occupied", func(t *testing.T) Position {
			return castlingBase(t, pc(t, Knight, White, "b1"))
		}, []MoveTag{KingsideCastle}},
		{"transit square attacked", func(t *testing.T) Position {
			return castlingBase(t, pc(t, Rook, Black, "f8"))
		}, []MoveTag{QueensideCastle}},
		{"landing square attacked", func(t *testing.T) Position {
			return castlingBase(t, pc(t, Knight, Black, "h3"))
		}, []MoveTag{QueensideCastle}},
		{"queenside transit attacked", func(t *testing.T) Position {
			return castlingBase(t, pc(t, Bishop, Black, "g4"))
		}, []MoveTag{KingsideCastle}},
		{"b-file attack does not stop queenside", func(t *testing.T) Position {
			return castlingBase(t, pc(t, Rook, Black, "b8"))
		}, []MoveTag{KingsideCastle, QueensideCastle}},
		{"king in check", func(t *testing.T) Position {
			return castlingBase(t, pc(t, Knight, Black, "d3"))
		}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.AssertEqual(t, castles(tt.pos(t)), tt.want)
		})
	}
}

func TestCastlingOnlyFromHomeSquare(t *testing.T) {
	tags := func(pos Position, from string) []MoveTag {
		var out []MoveTag
		for _, m := range pos.LegalMovesFrom(sq(t, from)) {
			if m.Tag == KingsideCastle || m.Tag == QueensideCastle {
				out = append(out, m.Tag)
			}
		}
		return out
	}

	// Unmoved pieces on the e-file away from their back rank.
	midBoard := build(t, White,
		fresh(pc(t, King, White, "e4")), fresh(pc(t, Rook, White, "a4")), fresh(pc(t, Rook, White, "h4")),
		pc(t, King, Black, "e8"),
	)
	testutil.AssertEqual(t, tags(midBoard, "e4"), []MoveTag(nil))

	wrongRank := build(t, Black,
		fresh(pc(t, King, Black, "e1")), fresh(pc(t, Rook, Black, "a1")), fresh(pc(t, Rook, Black, "h1")),
		pc(t, King, White, "e8"),
	)
	testutil.AssertEqual(t, tags(wrongRank, "e1"), []MoveTag(nil))
}

func TestCastlingRelocatesRook(t *testing.T) {
	pos := castlingBase(t)

	short := pos.Apply(Move{From: sq(t, "e1"), To: sq(t, "g1"), Tag: KingsideCastle})
	testutil.AssertEqual(t, short.At(sq(t, "g1")).Type, King)
	testutil.AssertEqual(t, short.At(sq(t, "f1")), Piece{Type: Rook, Color: White, Square: sq(t, "f1"), HasMoved: true})
	testutil.AssertTrue(t, short.At(sq(t, "h1")).IsEmpty())
	testutil.AssertNoError(t, short.Consistent())
	testutil.AssertEqual(t, short.FEN(), "4k3/8/8/8/8/8/8/R4RK1 b - - 0 1")

	long := pos.Apply(Move{From: sq(t, "e1"), To: sq(t, "c1"), Tag: QueensideCastle})
	testutil.AssertEqual(t, long.At(sq(t, "c1")).Type, King)
	testutil.AssertEqual(t, long.At(sq(t, "d1")).Type, Rook)
	testutil.AssertTrue(t, long.At(sq(t, "d1")).HasMoved)
	testutil.AssertTrue(t, long.At(sq(t, "a1")).IsEmpty())
	testutil.AssertNoError(t, long.Consistent())
}

func TestCastlingLostAfterRookReturns(t *testing.T) {
	pos := castlingBase(t)
	pos = play(t, pos, "h1h2", "e8d8", "h2h1", "d8e8")

	testutil.AssertEqual(t, castles(pos), []MoveTag{QueensideCastle})
}

func TestCheckmateAndStalemate(t *testing.T) {
	tests := []struct {
		name    string
		pos     func(t *testing.T) Position
		status  GameStatus
		inCheck bool
	}{
		{"fool's mate", func(t *testing.T) Position {
			return play(t, StartingPosition(), "f2f3", "e7e5", "g2g4", "d8h4")
		}, Checkmate, true},
		{"back rank mate", func(t *testing.T) Position {
			return build(t, Black,
				pc(t, King, Black, "h8"), pc(t, Pawn, Black, "g7"), pc(t, Pawn, Black, "h7"),
				pc(t, Rook, White, "d8"), pc(t, King, White, "a1"))
		}, Checkmate, true},
		{"queen stalemate", func(t *testing.T) Position {
			return build(t, Black,
				pc(t, King, Black, "a8"), pc(t, Queen, White, "c7"), pc(t, King, White, "b6"))
		}, Stalemate, false},
		{"check with an escape", func(t *testing.T) Position {
			return build(t, Black,
				pc(t, King, Black, "h8"), pc(t, Pawn, Black, "h7"),
				pc(t, Rook, White, "d8"), pc(t, King, White, "a1"))
		}, Ongoing, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos := tt.pos(t)
			toMove := pos.SideToMove()
			testutil.AssertEqual(t, pos.Status(toMove), tt.status)
			testutil.AssertEqual(t, pos.InCheck(toMove), tt.inCheck)
			if tt.status != Ongoing {
				testutil.AssertEqual(t, len(pos.LegalMoves(toMove)), 0)
			}
		})
	}
}

func TestMaterialScore(t *testing.T) {
	tests := []struct {
		name string
		pos  Position
		want float64
	}{
		{"start", StartingPosition(), 0},
		{"kings only", NewPosition(), 0},
		{"queen against rook and pawn", build(t, White,
			pc(t, King, White, "e1"), pc(t, Queen, White, "d1"),
			pc(t, King, Black, "e8"), pc(t, Rook, Black, "a8"), pc(t, Pawn, Black, "a7")), 3},
		{"minor pieces", build(t, White,
			pc(t, King, White, "e1"), pc(t, Bishop, White, "c1"), pc(t, Knight, White, "b1"),
			pc(t, King, Black, "e8"), pc(t, Pawn, Black, "a7")), 5.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.AssertEqual(t, tt.pos.MaterialScore(), tt.want)
		})
	}
}
