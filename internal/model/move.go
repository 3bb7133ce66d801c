package model

import "fmt"

// MoveTag distinguishes moves whose side effects go beyond relocating the
// moving piece and removing whatever stood on the destination.
type MoveTag uint8

const (
	Normal MoveTag = iota
	KingsideCastle
	QueensideCastle
	DoubleStep
	EnPassantCapture
	PromoteQueen
	PromoteRook
	PromoteBishop
	PromoteKnight
)

var moveTagNames = [...]string{
	Normal:           "",
	KingsideCastle:   "kingside",
	QueensideCastle:  "queenside",
	DoubleStep:       "double",
	EnPassantCapture: "enpassant",
	PromoteQueen:     "queen",
	PromoteRook:      "rook",
	PromoteBishop:    "bishop",
	PromoteKnight:    "knight",
}

var promotionTags = [...]MoveTag{PromoteQueen, PromoteRook, PromoteBishop, PromoteKnight}

func (t MoveTag) String() string {
	if int(t) < len(moveTagNames) {
		return moveTagNames[t]
	}
	return fmt.Sprintf("MoveTag(%d)", uint8(t))
}

func (t MoveTag) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *MoveTag) UnmarshalText(text []byte) error {
	for i, name := range moveTagNames {
		if name == string(text) {
			*t = MoveTag(i)
			return nil
		}
	}
	return fmt.Errorf("unknown move tag %q", text)
}

// Promotion returns the piece type a promotion tag creates, or NoPiece.
func (t MoveTag) Promotion() PieceType {
	switch t {
	case PromoteQueen:
		return Queen
	case PromoteRook:
		return Rook
	case PromoteBishop:
		return Bishop
	case PromoteKnight:
		return Knight
	}
	return NoPiece
}

// Move is a move descriptor. From names the moving piece.
type Move struct {
	From Square  `json:"from"`
	To   Square  `json:"to"`
	Tag  MoveTag `json:"tag,omitempty"`
}

// String renders the move in coordinate form, e.g. "e2e4" or "e7e8q".
func (m Move) String() string {
	s := m.From.String() + m.To.String()
	if promo := m.Tag.Promotion(); promo != NoPiece {
		s += string(promo.getPieceNotation()[0] + 'a' - 'A')
	}
	return s
}

type CastleRookMove struct {
	From Square `json:"from"`
	To   Square `json:"to"`
}

// Ply records one played move and what it changed, for game history.
type Ply struct {
	Piece          Piece           `json:"piece"`
	Move           Move            `json:"move"`
	CapturedPiece  *Piece          `json:"capturedPiece"`
	CastleRookMove *CastleRookMove `json:"castleRookMove"`
	Promotion      PieceType       `json:"promotion,omitempty"`
}
