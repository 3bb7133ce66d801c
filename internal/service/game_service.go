package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/benbeisheim/chessminimax/internal/config"
	"github.com/benbeisheim/chessminimax/internal/model"
	"github.com/benbeisheim/chessminimax/internal/search"
	"github.com/benbeisheim/chessminimax/internal/ws"
	"github.com/google/uuid"
)

type GameService struct {
	gameManager *GameManager
	cfg         config.Config
}

func NewGameService(gameManager *GameManager, cfg config.Config) *GameService {
	return &GameService{
		gameManager: gameManager,
		cfg:         cfg,
	}
}

func (gs *GameService) CreateGame() (string, error) {
	gameID := uuid.New().String()

	if err := gs.gameManager.CreateGame(gameID); err != nil {
		return "", fmt.Errorf("failed to create game: %w", err)
	}
	log.Printf("created game %s", gameID)
	return gameID, nil
}

func (gs *GameService) DeleteGame(gameID string) error {
	return gs.gameManager.DeleteGame(gameID)
}

// GameExists reports whether gameID names a live session.
func (gs *GameService) GameExists(gameID string) bool {
	_, err := gs.gameManager.GetGame(gameID)
	return err == nil
}

func (gs *GameService) GetGameState(gameID string) (model.GameState, error) {
	return gs.gameManager.GetGameState(gameID)
}

// LegalMoves lists the legal moves of the side to move, or only those of the
// piece on square when square is not empty.
func (gs *GameService) LegalMoves(gameID string, square string) ([]model.Move, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	pos := game.Position()
	var moves []model.Move
	if square == "" {
		moves = pos.LegalMoves(pos.SideToMove())
	} else {
		sq, err := model.ParseSquare(square)
		if err != nil {
			return nil, err
		}
		moves = pos.LegalMovesFrom(sq)
	}
	if moves == nil {
		moves = []model.Move{}
	}
	return moves, nil
}

func (gs *GameService) HandleMove(gameID string, move MoveRequest) (model.GameState, error) {
	return gs.gameManager.MakeMove(gameID, move.From, move.To, move.Promotion)
}

// MoveRequest is what clients send to play a move.
type MoveRequest struct {
	From      model.Square    `json:"from"`
	To        model.Square    `json:"to"`
	Promotion model.PieceType `json:"promotion"`
}

// AnalyzeRequest asks for a search of the current position. A nil Depth
// means the configured default.
type AnalyzeRequest struct {
	Depth *int `json:"depth"`
}

// Analyze searches the game's current position for the side to move. Each
// finished root move is broadcast to the game's observers while the search
// runs. The search is bounded by the configured depth limit and timeout.
func (gs *GameService) Analyze(ctx context.Context, gameID string, req AnalyzeRequest) (search.Result, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return search.Result{}, err
	}
	depth := gs.cfg.DefaultDepth
	if req.Depth != nil {
		depth = *req.Depth
	}
	if depth < 0 || depth > gs.cfg.MaxDepth {
		return search.Result{}, fmt.Errorf("depth %d outside 0..%d: %w", depth, gs.cfg.MaxDepth, search.ErrDepth)
	}

	ctx, cancel := context.WithTimeout(ctx, gs.cfg.SearchTimeout)
	defer cancel()

	pos := game.Position()
	started := time.Now()
	res, err := search.Search(ctx, pos, depth, pos.SideToMove() == model.White,
		search.WithWorkers(gs.cfg.Workers),
		search.WithRootMoveHandler(func(sm search.ScoredMove) {
			if msg, err := ws.NewMessage(ws.MessageTypeRootMove, sm); err == nil {
				game.Broadcast(msg)
			}
		}),
	)
	if err != nil {
		if errors.Is(err, search.ErrAborted) {
			log.Printf("game %s: search at depth %d aborted after %s", gameID, depth, time.Since(started))
		}
		return search.Result{}, err
	}
	log.Printf("game %s: depth %d score %.2f nodes %d in %s", gameID, depth, res.Score, res.Nodes, time.Since(started))

	if msg, err := ws.NewMessage(ws.MessageTypeAnalysis, res); err == nil {
		game.Broadcast(msg)
	}
	return res, nil
}

// SendTo delivers msg to one observer of a game.
func (gs *GameService) SendTo(gameID string, clientID string, msg ws.Message) error {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.SendTo(clientID, msg)
}

func (gs *GameService) RegisterConnection(gameID string, clientID string, conn model.Observer) error {
	return gs.gameManager.RegisterConnection(gameID, clientID, conn)
}

func (gs *GameService) UnregisterConnection(gameID string, clientID string) {
	gs.gameManager.UnregisterConnection(gameID, clientID)
}
