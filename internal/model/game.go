package model

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/benbeisheim/chessminimax/internal/ws"
)

// Observer receives broadcasts for a game. *websocket.Conn satisfies it.
type Observer interface {
	WriteJSON(v interface{}) error
	Close() error
}

var (
	ErrDuplicateObserver = errors.New("observer already connected")
	ErrUnknownObserver   = errors.New("observer not connected")
)

// The connections for a specific game
type GameConnections struct {
	connections map[string]Observer // clientID -> connection
	mu          sync.RWMutex
	sendMu      sync.Mutex // held for each write, in game order
}

// Game is one analysis session: a position, how it was reached, and who is
// watching it.
type Game struct {
	ID          string
	mu          sync.Mutex
	position    Position
	history     []Ply
	connections *GameConnections
}

type GameState struct {
	FEN         string     `json:"fen"`
	Board       [][]*Piece `json:"board"`
	ToMove      Color      `json:"toMove"`
	Status      GameStatus `json:"status"`
	IsCheck     bool       `json:"isCheck"`
	Material    float64    `json:"material"`
	LegalMoves  []Move     `json:"legalMoves"`
	MoveHistory []Ply      `json:"moveHistory"`
	LastMove    *Move      `json:"lastMove"`
}

func NewGame(id string) *Game {
	return NewGameFrom(id, StartingPosition())
}

// NewGameFrom starts a session from an arbitrary position.
func NewGameFrom(id string, position Position) *Game {
	return &Game{
		ID:          id,
		position:    position,
		history:     make([]Ply, 0),
		connections: NewGameConnections(),
	}
}

func NewGameConnections() *GameConnections {
	return &GameConnections{
		connections: make(map[string]Observer),
	}
}

// Position returns a copy of the current position.
func (g *Game) Position() Position {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.position
}

func (g *Game) GetState() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.state()
}

func (g *Game) state() GameState {
	toMove := g.position.SideToMove()
	state := GameState{
		FEN:         g.position.FEN(),
		Board:       g.position.Grid(),
		ToMove:      toMove,
		Status:      g.position.Status(toMove),
		IsCheck:     g.position.InCheck(toMove),
		Material:    g.position.MaterialScore(),
		LegalMoves:  g.position.LegalMoves(toMove),
		MoveHistory: append([]Ply(nil), g.history...),
	}
	if state.LegalMoves == nil {
		state.LegalMoves = []Move{}
	}
	if n := len(g.history); n > 0 {
		last := g.history[n-1].Move
		state.LastMove = &last
	}
	return state
}

// MakeMove plays the move from one square to another for the side to move
// and sends the new state to observers. States reach observers in the order
// the moves were made.
func (g *Game) MakeMove(from, to Square, promotion PieceType) (GameState, error) {
	g.mu.Lock()
	state, err := g.play(from, to, promotion)
	if err != nil {
		g.mu.Unlock()
		return GameState{}, err
	}
	// Take the send lock before the next move can be made.
	g.connections.sendMu.Lock()
	g.mu.Unlock()
	defer g.connections.sendMu.Unlock()

	g.sendState(state)
	return state, nil
}

// play validates and applies a move. g.mu must be held.
func (g *Game) play(from, to Square, promotion PieceType) (GameState, error) {
	piece := g.position.At(from)
	if piece.IsEmpty() {
		return GameState{}, fmt.Errorf("move %s%s: %w", from, to, ErrNoPiece)
	}
	if piece.Color != g.position.SideToMove() {
		return GameState{}, fmt.Errorf("move %s%s: %w", from, to, ErrWrongSide)
	}
	move, err := g.position.ResolveMove(from, to, promotion)
	if err != nil {
		return GameState{}, err
	}
	next, err := g.position.Play(move)
	if err != nil {
		return GameState{}, err
	}

	g.history = append(g.history, g.makePly(piece, move))
	g.position = next
	log.Printf("game %s: %s played %s", g.ID, piece.Color, move)
	return g.state(), nil
}

func (g *Game) makePly(piece Piece, move Move) Ply {
	ply := Ply{
		Piece:     piece,
		Move:      move,
		Promotion: move.Tag.Promotion(),
	}
	captured := g.position.At(move.To)
	if move.Tag == EnPassantCapture {
		captured = g.position.At(Square{Row: move.From.Row, Col: move.To.Col})
	}
	if !captured.IsEmpty() {
		ply.CapturedPiece = &captured
	}
	if move.Tag == KingsideCastle || move.Tag == QueensideCastle {
		rookFrom, rookTo := castleRookSquares(move)
		ply.CastleRookMove = &CastleRookMove{From: rookFrom, To: rookTo}
	}
	return ply
}

func (g *Game) RegisterConnection(clientID string, conn Observer) error {
	g.connections.mu.Lock()
	if _, exists := g.connections.connections[clientID]; exists {
		// If we already have a healthy connection, keep it and reject the new one
		g.connections.mu.Unlock()
		conn.Close()
		return fmt.Errorf("client %s: %w", clientID, ErrDuplicateObserver)
	}
	g.connections.connections[clientID] = conn
	g.connections.mu.Unlock()
	log.Printf("game %s: registered connection for client %s", g.ID, clientID)

	g.mu.Lock()
	state := g.state()
	g.connections.sendMu.Lock()
	g.mu.Unlock()
	defer g.connections.sendMu.Unlock()

	g.sendState(state)
	return nil
}

func (g *Game) UnregisterConnection(clientID string) {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	if _, exists := g.connections.connections[clientID]; exists {
		log.Printf("game %s: unregistering connection for client %s", g.ID, clientID)
		delete(g.connections.connections, clientID)
	}
}

// ObserverCount reports how many clients are connected.
func (g *Game) ObserverCount() int {
	g.connections.mu.RLock()
	defer g.connections.mu.RUnlock()

	return len(g.connections.connections)
}

// sendState delivers state to every observer. sendMu must be held.
func (g *Game) sendState(state GameState) {
	msg, err := ws.NewMessage(ws.MessageTypeGameState, state)
	if err != nil {
		log.Printf("game %s: failed to marshal state: %v", g.ID, err)
		return
	}
	g.deliver(msg)
}

// Broadcast sends msg to every observer, dropping those that fail.
func (g *Game) Broadcast(msg ws.Message) {
	g.connections.sendMu.Lock()
	defer g.connections.sendMu.Unlock()

	g.deliver(msg)
}

// deliver writes msg to a snapshot of the observers. sendMu must be held.
func (g *Game) deliver(msg ws.Message) {
	g.connections.mu.RLock()
	activeConnections := make(map[string]Observer, len(g.connections.connections))
	for clientID, conn := range g.connections.connections {
		activeConnections[clientID] = conn
	}
	g.connections.mu.RUnlock()

	var failed []string
	for clientID, conn := range activeConnections {
		if err := conn.WriteJSON(msg); err != nil {
			log.Printf("game %s: failed to send %s to client %s: %v", g.ID, msg.Type, clientID, err)
			failed = append(failed, clientID)
		}
	}
	for _, clientID := range failed {
		g.UnregisterConnection(clientID)
	}
}

// SendTo delivers msg to a single observer.
func (g *Game) SendTo(clientID string, msg ws.Message) error {
	g.connections.mu.RLock()
	conn, exists := g.connections.connections[clientID]
	g.connections.mu.RUnlock()
	if !exists {
		return fmt.Errorf("client %s: %w", clientID, ErrUnknownObserver)
	}

	g.connections.sendMu.Lock()
	defer g.connections.sendMu.Unlock()
	return conn.WriteJSON(msg)
}

// Close tells every observer the game has ended with reason and closes their
// connections. The game keeps no observers afterwards.
func (g *Game) Close(reason string) {
	g.connections.mu.Lock()
	observers := g.connections.connections
	g.connections.connections = make(map[string]Observer)
	g.connections.mu.Unlock()

	msg := ws.ErrorMessage(reason)
	g.connections.sendMu.Lock()
	defer g.connections.sendMu.Unlock()
	for clientID, conn := range observers {
		if err := conn.WriteJSON(msg); err != nil {
			log.Printf("game %s: failed to notify client %s: %v", g.ID, clientID, err)
		}
		conn.Close()
	}
	log.Printf("game %s: closed %d connections (%s)", g.ID, len(observers), reason)
}
