package controller

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/benbeisheim/metricchess-backend/internal/model"
	"github.com/benbeisheim/metricchess-backend/internal/service"
	"github.com/benbeisheim/metricchess-backend/internal/ws"
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
	playerID, _ := c.Locals("playerID").(string)

	session, err := wsc.gameService.GetSession(gameID)
	if err != nil {
		log.Warn("websocket for unknown game", "game", gameID, "player", playerID)
		closeWith(c, err.Error())
		return
	}
	if err := wsc.gameService.RegisterConnection(gameID, playerID, c); err != nil {
		log.Warn("failed to register connection", "game", gameID, "player", playerID, "err", err)
		closeWith(c, err.Error())
		return
	}
	defer wsc.gameService.UnregisterConnection(gameID, playerID, c)

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			log.Debug("websocket closed", "game", gameID, "player", playerID, "err", err)
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg ws.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			wsc.sendError(session, c, fmt.Errorf("malformed message: %w", err))
			continue
		}
		if err := wsc.handleMessage(session, c, gameID, playerID, msg); err != nil {
			log.Debug("message rejected", "game", gameID, "player", playerID, "type", msg.Type, "err", err)
			wsc.sendError(session, c, err)
		}
	}
}

func (wsc *WebSocketController) handleMessage(session *model.Session, c model.Observer, gameID, playerID string, msg ws.Message) error {
	switch msg.Type {
	case ws.MessageTypeMove:
		var move model.MoveRequest
		if err := json.Unmarshal(msg.Payload, &move); err != nil {
			return fmt.Errorf("%w: %v", service.ErrInvalidSquare, err)
		}
		return wsc.gameService.HandleMove(gameID, playerID, move)

	case ws.MessageTypeUndo:
		return wsc.gameService.Undo(gameID, playerID)

	case ws.MessageTypeRedo:
		return wsc.gameService.Redo(gameID, playerID)

	case ws.MessageTypeReset:
		return wsc.gameService.Reset(gameID, playerID)

	case ws.MessageTypeEngineMove:
		var payload ws.EngineMovePayload
		if len(msg.Payload) > 0 {
			if err := json.Unmarshal(msg.Payload, &payload); err != nil {
				return fmt.Errorf("%w: %v", service.ErrInvalidRequest, err)
			}
		}
		return wsc.gameService.RequestEngineMove(gameID, playerID, payload.BudgetMs)

	case ws.MessageTypeCancelEngine:
		_, err := wsc.gameService.CancelEngineMove(gameID, playerID)
		return err

	case ws.MessageTypeOrientation:
		var payload ws.OrientationPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return fmt.Errorf("%w: %v", service.ErrInvalidRequest, err)
		}
		_, err := wsc.gameService.SetOrientation(gameID, playerID, payload.Orientation)
		return err

	case ws.MessageTypeLegalMoves:
		var payload ws.SquarePayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return fmt.Errorf("%w: %v", service.ErrInvalidSquare, err)
		}
		moves, err := wsc.gameService.LegalMoves(gameID, payload.Square)
		if err != nil {
			return err
		}
		return session.Send(c, ws.MessageTypeLegalMoves, map[string]interface{}{
			"square": payload.Square,
			"moves":  moves,
		})

	default:
		return fmt.Errorf("%w: unknown message type %q", service.ErrInvalidRequest, msg.Type)
	}
}

func (wsc *WebSocketController) sendError(session *model.Session, c model.Observer, err error) {
	if sendErr := session.Send(c, ws.MessageTypeError, ws.ErrorPayload{Error: err.Error()}); sendErr != nil {
		log.Warn("failed to send error", "err", sendErr)
	}
}

// HandleMatchmaking queues the player and waits for the match-found event.
// Closing the socket leaves the queue.
func (wsc *WebSocketController) HandleMatchmaking(c *websocket.Conn) {
	playerID, _ := c.Locals("playerID").(string)

	ch := make(chan string, 1)
	if err := wsc.gameService.RegisterMatchmakingChannel(playerID, ch); err != nil {
		closeWith(c, err.Error())
		return
	}
	if err := wsc.gameService.JoinMatchmaking(playerID); err != nil && !errors.Is(err, model.ErrAlreadyQueued) {
		wsc.gameService.UnregisterMatchmakingChannel(playerID)
		closeWith(c, err.Error())
		return
	}

	disconnected := make(chan struct{})
	go func() {
		defer close(disconnected)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	select {
	case event, ok := <-ch:
		if !ok {
			// A newer connection for the same player took over.
			closeWith(c, "replaced by another connection")
			return
		}
		if err := c.WriteJSON(ws.Message{Type: ws.MessageTypeMatchFound, Payload: json.RawMessage(event)}); err != nil {
			log.Warn("failed to send match event", "player", playerID, "err", err)
		}
		closeWith(c, "match found")
	case <-disconnected:
		wsc.gameService.UnregisterMatchmakingChannel(playerID)
		wsc.gameService.LeaveMatchmaking(playerID)
		log.Info("player left matchmaking", "player", playerID)
	}
}

func closeWith(c *websocket.Conn, reason string) {
	c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason))
	c.Close()
}
