package service

import (
	"errors"
	"fmt"
	"sync"

	"github.com/benbeisheim/chessminimax/internal/model"
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrGameExists   = errors.New("game already exists")
)

// GameManager owns the live analysis sessions.
type GameManager struct {
	games map[string]*model.Game
	mu    sync.RWMutex
}

func NewGameManager() *GameManager {
	return &GameManager{
		games: make(map[string]*model.Game),
	}
}

func (gm *GameManager) CreateGame(gameID string) error {
	return gm.AddGame(model.NewGame(gameID))
}

// AddGame registers a session built elsewhere, e.g. from a custom position.
func (gm *GameManager) AddGame(game *model.Game) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if _, exists := gm.games[game.ID]; exists {
		return fmt.Errorf("%s: %w", game.ID, ErrGameExists)
	}
	gm.games[game.ID] = game
	return nil
}

func (gm *GameManager) GetGame(gameID string) (*model.Game, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	game, exists := gm.games[gameID]
	if !exists {
		return nil, fmt.Errorf("%s: %w", gameID, ErrGameNotFound)
	}
	return game, nil
}

// DeleteGame removes a session and disconnects its observers.
func (gm *GameManager) DeleteGame(gameID string) error {
	gm.mu.Lock()
	game, exists := gm.games[gameID]
	if !exists {
		gm.mu.Unlock()
		return fmt.Errorf("%s: %w", gameID, ErrGameNotFound)
	}
	delete(gm.games, gameID)
	gm.mu.Unlock()

	game.Close("game deleted")
	return nil
}

func (gm *GameManager) GetGameState(gameID string) (model.GameState, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return model.GameState{}, err
	}
	return game.GetState(), nil
}

func (gm *GameManager) MakeMove(gameID string, from, to model.Square, promotion model.PieceType) (model.GameState, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return model.GameState{}, err
	}
	return game.MakeMove(from, to, promotion)
}

func (gm *GameManager) RegisterConnection(gameID string, clientID string, conn model.Observer) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.RegisterConnection(clientID, conn)
}

func (gm *GameManager) UnregisterConnection(gameID string, clientID string) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return
	}
	game.UnregisterConnection(clientID)
}
