package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/benbeisheim/chessminimax/internal/service"
	"github.com/benbeisheim/chessminimax/internal/ws"
	"github.com/gofiber/websocket/v2"
)

type WebSocketController struct {
	gameService *service.GameService
}

func NewWebSocketController(gameService *service.GameService) *WebSocketController {
	return &WebSocketController{
		gameService: gameService,
	}
}

// HandleConnection is called when a new WebSocket connection is established
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	gameID := c.Params("gameId")
	clientID, _ := c.Locals("clientID").(string)

	if err := wsc.gameService.RegisterConnection(gameID, clientID, c); err != nil {
		log.Printf("failed to register connection: %v", err)
		c.Close()
		return
	}
	defer wsc.gameService.UnregisterConnection(gameID, clientID)

	// Analyses run for as long as the connection does.
	ctx, cancel := context.WithCancel(context.Background())
	var analyses sync.WaitGroup
	defer func() {
		cancel()
		analyses.Wait()
	}()

	reply := func(err error) {
		if ctx.Err() != nil {
			log.Printf("client %s left during analysis: %v", clientID, err)
			return
		}
		log.Printf("handle error: %v", err)
		wsc.sendError(c, gameID, clientID, err.Error())
	}

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			log.Printf("read error: %v", err)
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg ws.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Printf("parse error: %v", err)
			wsc.sendError(c, gameID, clientID, "malformed message")
			continue
		}
		if err := wsc.handleMessage(ctx, &analyses, gameID, msg, reply); err != nil {
			reply(err)
		}
	}
}

// handleMessage dispatches one inbound message. Results reach the client
// through the game's broadcasts, so only failures are answered directly.
// Analyses run in the background under ctx and report failures to reply.
func (wsc *WebSocketController) handleMessage(ctx context.Context, analyses *sync.WaitGroup, gameID string, msg ws.Message, reply func(error)) error {
	switch msg.Type {
	case ws.MessageTypeMove:
		var move service.MoveRequest
		if err := json.Unmarshal(msg.Payload, &move); err != nil {
			return err
		}
		_, err := wsc.gameService.HandleMove(gameID, move)
		return err

	case ws.MessageTypeAnalyze:
		var req service.AnalyzeRequest
		if len(msg.Payload) > 0 {
			if err := json.Unmarshal(msg.Payload, &req); err != nil {
				return err
			}
		}
		analyses.Add(1)
		go func() {
			defer analyses.Done()
			if _, err := wsc.gameService.Analyze(ctx, gameID, req); err != nil {
				reply(err)
			}
		}()
		return nil

	default:
		return fmt.Errorf("unknown message type: %s", msg.Type)
	}
}

// Helper method to send error messages. Writes go through the game so they
// never interleave with its broadcasts.
func (wsc *WebSocketController) sendError(c *websocket.Conn, gameID, clientID, errorMsg string) {
	msg := ws.ErrorMessage(errorMsg)
	err := wsc.gameService.SendTo(gameID, clientID, msg)
	if errors.Is(err, service.ErrGameNotFound) {
		err = c.WriteJSON(msg)
	}
	if err != nil {
		log.Printf("failed to send error: %v", err)
	}
}
