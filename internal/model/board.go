package model

import (
	"fmt"
	"strings"
)

type PieceType uint8

const (
	NoPiece PieceType = iota
	King
	Queen
	Rook
	Bishop
	Knight
	Pawn
)

var pieceTypeNames = [...]string{
	NoPiece: "",
	King:    "king",
	Queen:   "queen",
	Rook:    "rook",
	Bishop:  "bishop",
	Knight:  "knight",
	Pawn:    "pawn",
}

func (t PieceType) String() string {
	if int(t) < len(pieceTypeNames) {
		return pieceTypeNames[t]
	}
	return fmt.Sprintf("PieceType(%d)", uint8(t))
}

func (t PieceType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *PieceType) UnmarshalText(text []byte) error {
	for i, name := range pieceTypeNames {
		if name == string(text) {
			*t = PieceType(i)
			return nil
		}
	}
	return fmt.Errorf("unknown piece type %q", text)
}

// getPieceNotation returns the letter used for the piece in FEN, uppercase.
func (t PieceType) getPieceNotation() string {
	switch t {
	case King:
		return "K"
	case Queen:
		return "Q"
	case Rook:
		return "R"
	case Bishop:
		return "B"
	case Knight:
		return "N"
	case Pawn:
		return "P"
	}
	return ""
}

type Color uint8

const (
	White Color = iota
	Black
)

func (c Color) Opponent() Color {
	return c ^ 1
}

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Color) UnmarshalText(text []byte) error {
	switch string(text) {
	case "white":
		*c = White
	case "black":
		*c = Black
	default:
		return fmt.Errorf("unknown color %q", text)
	}
	return nil
}

// forward is the row delta of a pawn push for the color.
func (c Color) forward() int {
	if c == White {
		return -1
	}
	return 1
}

// backRank is the row of the color's first rank.
func (c Color) backRank() int {
	if c == White {
		return 7
	}
	return 0
}

// Square addresses a cell of the grid. Row 0 is rank 8, column 0 is the a-file.
type Square struct {
	Row int
	Col int
}

func (s Square) OnBoard() bool {
	return s.Row >= 0 && s.Row < 8 && s.Col >= 0 && s.Col < 8
}

func (s Square) offset(dRow, dCol int) Square {
	return Square{Row: s.Row + dRow, Col: s.Col + dCol}
}

// String renders the square in algebraic form, e.g. "e4".
func (s Square) String() string {
	if !s.OnBoard() {
		return fmt.Sprintf("(%d,%d)", s.Row, s.Col)
	}
	return fmt.Sprintf("%c%d", 'a'+s.Col, 8-s.Row)
}

// ParseSquare decodes an algebraic square such as "e4".
func ParseSquare(name string) (Square, error) {
	name = strings.TrimSpace(strings.ToLower(name))
	if len(name) != 2 {
		return Square{}, fmt.Errorf("square %q: %w", name, ErrOutOfBounds)
	}
	sq := Square{Row: 8 - int(name[1]-'0'), Col: int(name[0] - 'a')}
	if !sq.OnBoard() {
		return Square{}, fmt.Errorf("square %q: %w", name, ErrOutOfBounds)
	}
	return sq, nil
}

func (s Square) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Square) UnmarshalText(text []byte) error {
	sq, err := ParseSquare(string(text))
	if err != nil {
		return err
	}
	*s = sq
	return nil
}

type Piece struct {
	Type      PieceType `json:"type"`
	Color     Color     `json:"color"`
	Square    Square    `json:"square"`
	HasMoved  bool      `json:"hasMoved"`
	EnPassant bool      `json:"enPassant"`
}

func (p Piece) IsEmpty() bool {
	return p.Type == NoPiece
}

// maxRegistry bounds each side's registry; promotion replaces a pawn so a
// side never holds more than its sixteen starting pieces.
const maxRegistry = 16

type registry struct {
	squares [maxRegistry]Square
	n       int
}

func (r *registry) add(sq Square) bool {
	if r.n == maxRegistry {
		return false
	}
	r.squares[r.n] = sq
	r.n++
	return true
}

func (r *registry) remove(sq Square) {
	for i := 0; i < r.n; i++ {
		if r.squares[i] == sq {
			r.n--
			r.squares[i] = r.squares[r.n]
			r.squares[r.n] = Square{}
			return
		}
	}
}

func (r *registry) relocate(from, to Square) {
	for i := 0; i < r.n; i++ {
		if r.squares[i] == from {
			r.squares[i] = to
			return
		}
	}
}

// Position is a complete, self-contained game state. It is a value type: a
// plain assignment yields an independent copy.
type Position struct {
	grid   [8][8]Piece
	pieces [2]registry
	toMove Color
}

// Empty returns a position with no pieces and white to move.
func Empty() Position {
	return Position{}
}

// NewPosition returns a board holding only the two kings on their home
// squares, white to move.
func NewPosition() Position {
	p := Empty()
	p.mustPlace(Piece{Type: King, Color: White, Square: Square{Row: 7, Col: 4}})
	p.mustPlace(Piece{Type: King, Color: Black, Square: Square{Row: 0, Col: 4}})
	return p
}

// StartingPosition returns the standard initial arrangement.
func StartingPosition() Position {
	p := NewPosition()
	p.Setup()
	return p
}

// Setup adds the thirty non-king pieces of the standard arrangement. The
// kings are expected to be in place already.
func (p *Position) Setup() {
	backRank := [8]PieceType{Rook, Knight, Bishop, Queen, NoPiece, Bishop, Knight, Rook}
	for col := 0; col < 8; col++ {
		p.mustPlace(Piece{Type: Pawn, Color: Black, Square: Square{Row: 1, Col: col}})
		p.mustPlace(Piece{Type: Pawn, Color: White, Square: Square{Row: 6, Col: col}})
		if backRank[col] == NoPiece {
			continue
		}
		p.mustPlace(Piece{Type: backRank[col], Color: Black, Square: Square{Row: 0, Col: col}})
		p.mustPlace(Piece{Type: backRank[col], Color: White, Square: Square{Row: 7, Col: col}})
	}
}

// Place puts a piece on its square and registers it with its side.
func (p *Position) Place(piece Piece) error {
	if piece.Type == NoPiece || piece.Type > Pawn || piece.Color > Black {
		return fmt.Errorf("place %v %v: invalid piece", piece.Color, piece.Type)
	}
	if !piece.Square.OnBoard() {
		return fmt.Errorf("place %s at %v: %w", piece.Type, piece.Square, ErrOutOfBounds)
	}
	if !p.At(piece.Square).IsEmpty() {
		return fmt.Errorf("place %s at %s: %w", piece.Type, piece.Square, ErrOccupied)
	}
	if !p.pieces[piece.Color].add(piece.Square) {
		return fmt.Errorf("place %s %s: %w", piece.Color, piece.Type, ErrRegistryFull)
	}
	p.grid[piece.Square.Row][piece.Square.Col] = piece
	return nil
}

func (p *Position) mustPlace(piece Piece) {
	if err := p.Place(piece); err != nil {
		panic(err)
	}
}

// SetSideToMove overrides whose turn it is; used when building positions.
func (p *Position) SetSideToMove(c Color) {
	p.toMove = c
}

func (p *Position) SideToMove() Color {
	return p.toMove
}

// At returns the piece on sq, or the zero Piece if the square is empty or
// off the board.
func (p *Position) At(sq Square) Piece {
	if !sq.OnBoard() {
		return Piece{}
	}
	return p.grid[sq.Row][sq.Col]
}

// Pieces returns a copy of the live pieces of one side.
func (p *Position) Pieces(c Color) []Piece {
	r := &p.pieces[c]
	out := make([]Piece, 0, r.n)
	for i := 0; i < r.n; i++ {
		out = append(out, p.At(r.squares[i]))
	}
	return out
}

func (p *Position) PieceCount() int {
	return p.pieces[White].n + p.pieces[Black].n
}

// King returns the square of c's king.
func (p *Position) King(c Color) (Square, bool) {
	r := &p.pieces[c]
	for i := 0; i < r.n; i++ {
		if sq := r.squares[i]; p.grid[sq.Row][sq.Col].Type == King {
			return sq, true
		}
	}
	return Square{}, false
}

func (p *Position) mustKing(c Color) Square {
	sq, ok := p.King(c)
	if !ok {
		panic(&InvariantError{Err: ErrNoKing, Detail: c.String() + " king missing from registry"})
	}
	return sq
}

func (p *Position) clear(sq Square) {
	p.grid[sq.Row][sq.Col] = Piece{}
}

// capture removes whatever stands on sq from the grid and its registry.
func (p *Position) capture(sq Square) {
	victim := p.At(sq)
	if victim.IsEmpty() {
		return
	}
	p.pieces[victim.Color].remove(sq)
	p.clear(sq)
}

// relocate moves the piece on from to the empty square to, keeping the grid,
// the piece's own coordinates and its registry entry in step.
func (p *Position) relocate(from, to Square) {
	piece := p.At(from)
	piece.Square = to
	p.clear(from)
	p.grid[to.Row][to.Col] = piece
	p.pieces[piece.Color].relocate(from, to)
}

// Consistent reports whether grid occupancy and registries agree.
func (p *Position) Consistent() error {
	seen := 0
	for c := White; c <= Black; c++ {
		r := &p.pieces[c]
		for i := 0; i < r.n; i++ {
			sq := r.squares[i]
			piece := p.At(sq)
			if piece.IsEmpty() || piece.Color != c || piece.Square != sq {
				return fmt.Errorf("registry %s lists %s but grid holds %+v", c, sq, piece)
			}
			for j := i + 1; j < r.n; j++ {
				if r.squares[j] == sq {
					return fmt.Errorf("registry %s lists %s twice", c, sq)
				}
			}
		}
		seen += r.n
	}
	occupied := 0
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			if !p.grid[row][col].IsEmpty() {
				occupied++
			}
		}
	}
	if occupied != seen {
		return fmt.Errorf("grid holds %d pieces, registries %d", occupied, seen)
	}
	return nil
}

// Grid returns the board as rows of pieces, nil for empty squares; row 0 is
// rank 8.
func (p *Position) Grid() [][]*Piece {
	board := make([][]*Piece, 0, 8)
	for row := 0; row < 8; row++ {
		line := make([]*Piece, 8)
		for col := 0; col < 8; col++ {
			if piece := p.grid[row][col]; !piece.IsEmpty() {
				line[col] = &piece
			}
		}
		board = append(board, line)
	}
	return board
}
