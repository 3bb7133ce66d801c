package search

import (
	"context"
	"fmt"
	"runtime"

	"github.com/benbeisheim/chessminimax/internal/model"
	"golang.org/x/sync/errgroup"
)

type ScoredMove struct {
	Move  model.Move `json:"move"`
	Score float64    `json:"score"`
}

type Result struct {
	Score float64      `json:"score"`
	Depth int          `json:"depth"`
	Best  *ScoredMove  `json:"best"`
	Moves []ScoredMove `json:"moves"`
	Nodes int64        `json:"nodes"`
}

type options struct {
	workers    int
	onRootMove func(ScoredMove)
}

type Option func(*options)

// WithWorkers bounds how many root subtrees are searched at once.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n >= 1 {
			o.workers = n
		}
	}
}

// WithRootMoveHandler registers fn to receive each root move's score as soon
// as its subtree is done. fn may be called from several goroutines at once.
func WithRootMoveHandler(fn func(ScoredMove)) Option {
	return func(o *options) {
		o.onRootMove = fn
	}
}

// Search computes the same value as Minimax, searching each root move's
// subtree on its own goroutine. ctx is checked on entry to every node; when
// it is done the search stops and an error wrapping ErrAborted is returned
// instead of a score.
func Search(ctx context.Context, pos model.Position, depth int, maximizing bool, opts ...Option) (Result, error) {
	if depth < 0 {
		return Result{}, fmt.Errorf("depth %d: %w", depth, ErrDepth)
	}
	o := options{workers: runtime.GOMAXPROCS(0)}
	for _, opt := range opts {
		opt(&o)
	}

	var s searcher
	if err := ctx.Err(); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrAborted, err)
	}
	s.nodes.Add(1)
	if score, done := terminal(&pos, depth); done {
		return Result{Score: score, Depth: depth, Moves: []ScoredMove{}, Nodes: s.nodes.Load()}, nil
	}

	moves := pos.LegalMoves(pos.SideToMove())
	scored := make([]ScoredMove, len(moves))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)
	for i, move := range moves {
		g.Go(func() error {
			next := pos.Apply(move)
			score, err := s.minimax(gctx, &next, depth-1, !maximizing)
			if err != nil {
				return err
			}
			scored[i] = ScoredMove{Move: move, Score: score}
			if o.onRootMove != nil {
				o.onRootMove(scored[i])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	res := Result{Depth: depth, Moves: scored, Nodes: s.nodes.Load()}
	for i := range scored {
		if i == 0 || better(scored[i].Score, res.Score, maximizing) {
			res.Score = scored[i].Score
			res.Best = &scored[i]
		}
	}
	return res, nil
}
