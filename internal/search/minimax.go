// Package search evaluates positions with a full-width minimax search.
//
// Scores are always from white's point of view: positive favours white.
// There is no pruning and no move ordering, so the work grows as the
// branching factor raised to the depth; keep depths small.
package search

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/benbeisheim/chessminimax/internal/model"
)

// MateScore is the magnitude reported for a checkmate.
const MateScore = 10000.0

var (
	ErrAborted = errors.New("search aborted")
	ErrDepth   = errors.New("invalid search depth")
)

// Minimax returns the minimax value of pos searched depth plies. maximizing
// selects whether the side to move picks the highest (white's favour) or
// lowest score. Depth should be even so both sides get the same number of
// plies.
func Minimax(pos *model.Position, depth int, maximizing bool) float64 {
	var s searcher
	score, _ := s.minimax(context.Background(), pos, depth, maximizing)
	return score
}

type searcher struct {
	nodes atomic.Int64
}

// terminal scores the position if the search must stop here.
func terminal(pos *model.Position, depth int) (float64, bool) {
	toMove := pos.SideToMove()
	switch pos.Status(toMove) {
	case model.Checkmate:
		if toMove == model.White {
			return -MateScore, true
		}
		return MateScore, true
	case model.Stalemate:
		return 0, true
	}
	if depth <= 0 {
		return pos.MaterialScore(), true
	}
	return 0, false
}

func (s *searcher) minimax(ctx context.Context, pos *model.Position, depth int, maximizing bool) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrAborted, err)
	}
	s.nodes.Add(1)
	if score, done := terminal(pos, depth); done {
		return score, nil
	}

	var best float64
	for i, move := range pos.LegalMoves(pos.SideToMove()) {
		next := pos.Apply(move)
		score, err := s.minimax(ctx, &next, depth-1, !maximizing)
		if err != nil {
			return 0, err
		}
		if i == 0 || better(score, best, maximizing) {
			best = score
		}
	}
	return best, nil
}

func better(score, best float64, maximizing bool) bool {
	if maximizing {
		return score > best
	}
	return score < best
}
