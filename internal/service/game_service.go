package service

import (
	"fmt"
	"time"

	"github.com/benbeisheim/metricchess-backend/internal/model"
	"github.com/google/uuid"
)

type GameService struct {
	gameManager *GameManager
}

func NewGameService(gameManager *GameManager) *GameService {
	return &GameService{
		gameManager: gameManager,
	}
}

type CreateGameRequest struct {
	FEN         string      `json:"fen"`
	VsEngine    bool        `json:"vsEngine"`
	EngineColor model.Color `json:"engineColor"`
	// Hotseat seats the creator on both sides.
	Hotseat bool `json:"hotseat"`
}

type CreateGameResponse struct {
	GameID string      `json:"gameId"`
	Color  model.Color `json:"color,omitempty"`
}

// CreateGame starts a game and seats the creator. Against the engine the
// creator takes the other color, and the engine opens if it plays white.
func (gs *GameService) CreateGame(playerID string, req CreateGameRequest) (CreateGameResponse, error) {
	if req.VsEngine {
		if !gs.gameManager.HasEngine() {
			return CreateGameResponse{}, ErrEngineUnavailable
		}
		if req.EngineColor == "" {
			req.EngineColor = model.Black
		}
		if !req.EngineColor.Valid() {
			return CreateGameResponse{}, fmt.Errorf("%w: engine color %q", ErrInvalidRequest, req.EngineColor)
		}
	}

	game, err := gs.gameManager.NewGame(req.FEN)
	if err != nil {
		return CreateGameResponse{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	gameID := uuid.NewString()
	resp := CreateGameResponse{GameID: gameID}
	session, err := gs.gameManager.CreateGame(gameID, game, func(session *model.Session) error {
		var err error
		switch {
		case req.VsEngine:
			if err = session.AddEnginePlayer("engine-"+uuid.NewString(), req.EngineColor); err != nil {
				return err
			}
			resp.Color, err = session.AddPlayer(playerID)
		case req.Hotseat:
			err = session.AddHotseatPlayer(playerID)
			resp.Color = game.SideToMove()
		default:
			resp.Color, err = session.AddPlayer(playerID)
		}
		return err
	})
	if err != nil {
		return CreateGameResponse{}, fmt.Errorf("failed to create game: %w", err)
	}
	if req.VsEngine {
		gs.gameManager.engineReply(session)
	}
	log.Info("game created", "game", gameID, "player", playerID, "vsEngine", req.VsEngine, "hotseat", req.Hotseat)
	return resp, nil
}

func (gs *GameService) JoinGame(gameID string, playerID string) (model.Color, error) {
	return gs.gameManager.AddPlayerToGame(gameID, playerID)
}

func (gs *GameService) JoinMatchmaking(playerID string) error {
	return gs.gameManager.JoinMatchmaking(playerID)
}

func (gs *GameService) LeaveMatchmaking(playerID string) {
	gs.gameManager.LeaveMatchmaking(playerID)
}

func (gs *GameService) GetGameState(gameID string) (model.GameState, error) {
	session, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return model.GameState{}, err
	}
	return session.GetState(), nil
}

// LegalMoves lists the legal moves from an algebraic square such as "e2".
func (gs *GameService) LegalMoves(gameID string, square string) ([]model.Move, error) {
	session, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	sq, err := model.ParseSquare(square)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSquare, square)
	}
	moves := session.LegalMoves(sq)
	if moves == nil {
		moves = []model.Move{}
	}
	return moves, nil
}

func (gs *GameService) HandleMove(gameID string, playerID string, move model.MoveRequest) error {
	session, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return err
	}
	if !move.From.Valid() || !move.To.Valid() {
		return fmt.Errorf("%w: %s-%s", ErrInvalidSquare, move.From, move.To)
	}
	if err := session.MakeMove(playerID, move); err != nil {
		return err
	}
	gs.gameManager.engineReply(session)
	return nil
}

// seated returns the session if playerID has a seat in it.
func (gs *GameService) seated(gameID, playerID string) (*model.Session, error) {
	session, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	if !session.IsPlayerInGame(playerID) {
		return nil, ErrNotInGame
	}
	return session, nil
}

func (gs *GameService) Undo(gameID, playerID string) error {
	session, err := gs.seated(gameID, playerID)
	if err != nil {
		return err
	}
	return session.Undo()
}

func (gs *GameService) Redo(gameID, playerID string) error {
	session, err := gs.seated(gameID, playerID)
	if err != nil {
		return err
	}
	return session.Redo()
}

func (gs *GameService) Reset(gameID, playerID string) error {
	session, err := gs.seated(gameID, playerID)
	if err != nil {
		return err
	}
	session.Reset()
	gs.gameManager.engineReply(session)
	return nil
}

// RequestEngineMove has the engine play the side to move. Only the player
// holding that side may ask, unless the engine holds it. budgetMs of zero
// uses the configured default.
func (gs *GameService) RequestEngineMove(gameID, playerID string, budgetMs int) error {
	session, err := gs.seated(gameID, playerID)
	if err != nil {
		return err
	}
	if budgetMs < 0 {
		return fmt.Errorf("%w: negative budget", ErrInvalidRequest)
	}
	_, err = gs.gameManager.RequestEngineMoveFor(session, playerID, time.Duration(budgetMs)*time.Millisecond)
	return err
}

// CancelEngineMove reports whether a pending search was abandoned.
func (gs *GameService) CancelEngineMove(gameID, playerID string) (bool, error) {
	session, err := gs.seated(gameID, playerID)
	if err != nil {
		return false, err
	}
	return session.CancelEngineMove(), nil
}

// Grid returns the labelled board. An empty orientation uses the session's.
func (gs *GameService) Grid(gameID string, orientation string) ([][]string, model.Orientation, error) {
	session, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return nil, "", err
	}
	if orientation == "" {
		return session.Grid(), session.Orientation(), nil
	}
	o, err := model.ParseOrientation(orientation)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return model.DisplayGridFor(session.GetState().Board, o), o, nil
}

func (gs *GameService) SetOrientation(gameID, playerID, orientation string) (model.Orientation, error) {
	session, err := gs.seated(gameID, playerID)
	if err != nil {
		return "", err
	}
	o, err := model.ParseOrientation(orientation)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	session.SetOrientation(o)
	return o, nil
}

func (gs *GameService) RegisterConnection(gameID string, playerID string, conn model.Observer) error {
	session, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return err
	}
	return session.RegisterConnection(playerID, conn)
}

func (gs *GameService) UnregisterConnection(gameID string, playerID string, conn model.Observer) {
	session, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return
	}
	session.UnregisterConnection(playerID, conn)
}

func (gs *GameService) GetSession(gameID string) (*model.Session, error) {
	return gs.gameManager.GetGame(gameID)
}

func (gs *GameService) RegisterMatchmakingChannel(playerID string, ch chan string) error {
	return gs.gameManager.RegisterMatchmakingChannel(playerID, ch)
}

func (gs *GameService) UnregisterMatchmakingChannel(playerID string) {
	gs.gameManager.UnregisterMatchmakingChannel(playerID)
}
