package model

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/benbeisheim/metricchess-backend/internal/engine"
	"github.com/benbeisheim/metricchess-backend/internal/ws"
)

var log = slog.Default().With("package", "model")

// Observer receives pushed messages. *websocket.Conn satisfies it.
type Observer interface {
	WriteJSON(v interface{}) error
}

// The connections for a specific session
type GameConnections struct {
	connections map[string]Observer // playerID -> connection
	mu          sync.RWMutex
	// writeMu serialises writes; a websocket allows one writer at a time.
	writeMu sync.Mutex
}

func NewGameConnections() *GameConnections {
	return &GameConnections{
		connections: make(map[string]Observer),
	}
}

type Players struct {
	White ClientPlayer `json:"white"`
	Black ClientPlayer `json:"black"`
}

// GameState is the snapshot sent to clients. It shares no memory with the session.
type GameState struct {
	ID             string          `json:"id"`
	Board          Board           `json:"boardState"`
	FEN            string          `json:"fen"`
	ToMove         Color           `json:"toMove"`
	MoveCount      int             `json:"moveCount"`
	Notation       []NotationEntry `json:"notation"`
	CapturedPieces CapturedPieces  `json:"capturedPieces"`
	IsCheck        bool            `json:"isCheck"`
	Status         Status          `json:"status"`
	LastMove       *MoveRecord     `json:"lastMove"`
	Players        Players         `json:"players"`
	Orientation    Orientation     `json:"orientation"`
	CanUndo        bool            `json:"canUndo"`
	CanRedo        bool            `json:"canRedo"`
	EngineThinking bool            `json:"engineThinking"`
}

// Session is one live game: the rules engine plus the people and processes
// attached to it. All access to the Game goes through the session lock.
type Session struct {
	ID          string
	mu          sync.Mutex
	game        *Game
	players     Players
	whiteClock  *Clock
	blackClock  *Clock
	orientation Orientation
	pending     *engine.Task
	rng         *rand.Rand
	connections *GameConnections
}

// NewSession wraps game. A zero clock budget leaves the game untimed.
func NewSession(id string, game *Game, clock time.Duration) *Session {
	return &Session{
		ID:          id,
		game:        game,
		players:     Players{White: ClientPlayer{Color: White}, Black: ClientPlayer{Color: Black}},
		whiteClock:  NewClock(clock),
		blackClock:  NewClock(clock),
		orientation: OrientationBottom,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
		connections: NewGameConnections(),
	}
}

func (s *Session) seat(c Color) *ClientPlayer {
	if c == White {
		return &s.players.White
	}
	return &s.players.Black
}

func (s *Session) clock(c Color) *Clock {
	if c == White {
		return s.whiteClock
	}
	return s.blackClock
}

// AddPlayer seats a human in the first free seat, white first. A player
// already seated gets their existing color back.
func (s *Session) AddPlayer(playerID string) (Color, error) {
	if playerID == "" {
		return "", ErrInvalidPlayer
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.colorOf(playerID); ok {
		return c, nil
	}
	for _, c := range []Color{White, Black} {
		if seat := s.seat(c); !seat.seated() {
			seat.ID = playerID
			seat.Kind = PlayerHuman
			log.Info("player seated", "game", s.ID, "player", playerID, "color", c)
			return c, nil
		}
	}
	return "", ErrGameFull
}

// AddHotseatPlayer seats one human on both sides for local play.
func (s *Session) AddHotseatPlayer(playerID string) error {
	if playerID == "" {
		return ErrInvalidPlayer
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.players.White.seated() || s.players.Black.seated() {
		return ErrGameFull
	}
	for _, c := range []Color{White, Black} {
		seat := s.seat(c)
		seat.ID = playerID
		seat.Kind = PlayerHuman
	}
	return nil
}

// AddEnginePlayer gives seat c to the engine.
func (s *Session) AddEnginePlayer(id string, c Color) error {
	if !c.Valid() {
		return fmt.Errorf("invalid color %q", c)
	}
	if id == "" {
		return ErrInvalidPlayer
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	seat := s.seat(c)
	if seat.seated() {
		return ErrGameFull
	}
	seat.ID = id
	seat.Kind = PlayerEngine
	return nil
}

// colorOf returns the seat a player occupies. A hot-seat player reports the
// side to move.
func (s *Session) colorOf(playerID string) (Color, bool) {
	if playerID == "" {
		return "", false
	}
	white := s.players.White.ID == playerID
	black := s.players.Black.ID == playerID
	switch {
	case white && black:
		return s.game.SideToMove(), true
	case white:
		return White, true
	case black:
		return Black, true
	}
	return "", false
}

func (s *Session) IsPlayerInGame(playerID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.colorOf(playerID)
	return ok
}

// EngineToMove reports whether the side to move is played by the engine and
// the game is still running.
func (s *Session) EngineToMove() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seat(s.game.SideToMove()).Kind == PlayerEngine && s.game.Status() == StatusOngoing
}

// MakeMove plays a human move for playerID.
func (s *Session) MakeMove(playerID string, req MoveRequest) error {
	s.mu.Lock()
	if err := s.turnLocked(playerID, false); err != nil {
		s.mu.Unlock()
		return err
	}
	if err := s.applyLocked(req); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	s.broadcastState()
	return nil
}

// turnLocked checks that playerID holds the side to move. With engineSeat set
// any seated player may also act for an engine-held side.
func (s *Session) turnLocked(playerID string, engineSeat bool) error {
	if _, ok := s.colorOf(playerID); !ok {
		return ErrNotInGame
	}
	seat := s.seat(s.game.SideToMove())
	switch {
	case seat.Kind == PlayerHuman && seat.ID == playerID:
		return nil
	case engineSeat && seat.Kind == PlayerEngine:
		return nil
	}
	return ErrNotYourTurn
}

func (s *Session) applyLocked(req MoveRequest) error {
	if s.game.Status() != StatusOngoing {
		return ErrGameOver
	}
	mover := s.game.SideToMove()
	if !s.game.MovePiece(req.From, req.To, req.Promotion) {
		return fmt.Errorf("%w: %s-%s", ErrIllegalMove, req.From, req.To)
	}
	s.cancelPendingLocked()
	s.clock(mover).Stop()
	s.startClockLocked()
	return nil
}

// startClockLocked runs the clock of the side to move while the game is live.
func (s *Session) startClockLocked() {
	s.whiteClock.Stop()
	s.blackClock.Stop()
	if s.game.MoveCount() > 0 && s.game.Status() == StatusOngoing {
		s.clock(s.game.SideToMove()).Start()
	}
}

func (s *Session) Undo() error {
	s.mu.Lock()
	s.cancelPendingLocked()
	if !s.game.UndoMove() {
		s.mu.Unlock()
		return ErrNothingToUndo
	}
	s.startClockLocked()
	s.mu.Unlock()

	s.broadcastState()
	return nil
}

func (s *Session) Redo() error {
	s.mu.Lock()
	s.cancelPendingLocked()
	if !s.game.RedoMove() {
		s.mu.Unlock()
		return ErrNothingToRedo
	}
	s.startClockLocked()
	s.mu.Unlock()

	s.broadcastState()
	return nil
}

// Reset returns to the starting position. Seats and orientation are kept.
func (s *Session) Reset() {
	s.mu.Lock()
	s.cancelPendingLocked()
	s.game.Reset()
	s.whiteClock.Reset()
	s.blackClock.Reset()
	s.mu.Unlock()

	s.broadcastState()
}

// LegalMoves lists the moves of the side to move's piece on sq.
func (s *Session) LegalMoves(sq Square) []Move {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.AvailableMoves(sq)
}

func (s *Session) SetOrientation(o Orientation) {
	s.mu.Lock()
	s.orientation = o
	s.mu.Unlock()

	s.broadcastState()
}

func (s *Session) Orientation() Orientation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orientation
}

// Grid returns the labelled board rotated for the session orientation.
func (s *Session) Grid() [][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return DisplayGridFor(s.game.Board(), s.orientation)
}

func (s *Session) GetState() GameState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Session) stateLocked() GameState {
	state := GameState{
		ID:             s.ID,
		Board:          s.game.Board(),
		FEN:            s.game.GenerateFEN(),
		ToMove:         s.game.SideToMove(),
		MoveCount:      s.game.MoveCount(),
		Notation:       s.game.Notation(),
		CapturedPieces: s.game.Captured(),
		IsCheck:        s.game.IsCheck(),
		Status:         s.game.Status(),
		Players:        s.players,
		Orientation:    s.orientation,
		CanUndo:        s.game.CanUndo(),
		CanRedo:        s.game.CanRedo(),
		EngineThinking: s.pending != nil,
	}
	if last, ok := s.game.LastMove(); ok {
		if last.Captured != nil {
			captured := *last.Captured
			last.Captured = &captured
		}
		state.LastMove = &last
	}
	state.Players.White.TimeLeft = s.whiteClock.Tenths()
	state.Players.Black.TimeLeft = s.blackClock.Tenths()
	return state
}

// RequestEngineMove asks eng for a move for the side to move, replacing any
// pending request. The returned channel is closed once the answer has been
// applied or discarded. Only the FEN leaves the session; the engine runs
// without the session lock held.
func (s *Session) RequestEngineMove(ctx context.Context, eng engine.Engine, budget time.Duration) (<-chan struct{}, error) {
	return s.requestEngineMove(ctx, "", eng, budget)
}

// RequestEngineMoveFor is RequestEngineMove on behalf of playerID, who must
// hold the side to move or share the game with an engine that does.
func (s *Session) RequestEngineMoveFor(ctx context.Context, playerID string, eng engine.Engine, budget time.Duration) (<-chan struct{}, error) {
	if playerID == "" {
		return nil, ErrNotInGame
	}
	return s.requestEngineMove(ctx, playerID, eng, budget)
}

func (s *Session) requestEngineMove(ctx context.Context, playerID string, eng engine.Engine, budget time.Duration) (<-chan struct{}, error) {
	s.mu.Lock()
	if playerID != "" {
		if err := s.turnLocked(playerID, true); err != nil {
			s.mu.Unlock()
			return nil, err
		}
	}
	if s.game.Status() != StatusOngoing {
		s.mu.Unlock()
		return nil, ErrGameOver
	}
	s.cancelPendingLocked()
	fen := s.game.GenerateFEN()
	ply := s.game.MoveCount()
	task := engine.Consult(ctx, eng, fen, budget)
	s.pending = task
	s.mu.Unlock()

	log.Debug("engine consulted", "game", s.ID, "fen", fen, "budget", budget)
	s.broadcastState()

	finished := make(chan struct{})
	go func() {
		defer close(finished)
		<-task.Done()
		if s.resolveEngineMove(task, ply) {
			s.broadcastState()
		}
	}()
	return finished, nil
}

// resolveEngineMove applies a finished task's answer. It reports whether the
// session changed.
func (s *Session) resolveEngineMove(task *engine.Task, ply int) bool {
	res := task.Result()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending != task || s.game.MoveCount() != ply {
		log.Debug("discarding stale engine result", "game", s.ID, "move", res.Move)
		return false
	}
	s.pending = nil
	if errors.Is(res.Err, engine.ErrCanceled) {
		return true
	}

	if res.Err == nil {
		from, to, promo, err := ParseUCIMove(res.Move)
		if err == nil {
			err = s.applyLocked(MoveRequest{From: from, To: to, Promotion: promo})
		}
		if err == nil {
			return true
		}
		log.Warn("engine move rejected", "game", s.ID, "move", res.Move, "err", err)
	} else {
		log.Warn("engine failed", "game", s.ID, "err", res.Err)
	}

	move, ok := s.game.RandomLegalMove(s.rng)
	if !ok {
		return true
	}
	if err := s.applyLocked(MoveRequest{From: move.From, To: move.To}); err != nil {
		log.Error("fallback move failed", "game", s.ID, "err", err)
	}
	return true
}

// CancelEngineMove abandons the pending engine request, if any. The board is
// never touched.
func (s *Session) CancelEngineMove() bool {
	s.mu.Lock()
	canceled := s.cancelPendingLocked()
	s.mu.Unlock()

	if canceled {
		s.broadcastState()
	}
	return canceled
}

func (s *Session) cancelPendingLocked() bool {
	if s.pending == nil {
		return false
	}
	s.pending.Cancel()
	s.pending = nil
	return true
}

// RegisterConnection attaches an observer. Seated players and spectators are
// both allowed; a second connection for the same id is rejected.
func (s *Session) RegisterConnection(playerID string, conn Observer) error {
	s.connections.mu.Lock()
	if _, exists := s.connections.connections[playerID]; exists {
		s.connections.mu.Unlock()
		return ErrDuplicateConn
	}
	s.connections.connections[playerID] = conn
	s.connections.mu.Unlock()
	log.Info("connection registered", "game", s.ID, "player", playerID)

	s.sendState(playerID, conn)
	return nil
}

// UnregisterConnection detaches conn if it is still the player's current one.
func (s *Session) UnregisterConnection(playerID string, conn Observer) {
	s.connections.mu.Lock()
	defer s.connections.mu.Unlock()

	if current, exists := s.connections.connections[playerID]; exists && current == conn {
		delete(s.connections.connections, playerID)
		log.Info("connection unregistered", "game", s.ID, "player", playerID)
	}
}

// Send writes one message to a single observer.
func (s *Session) Send(conn Observer, msgType ws.MessageType, payload interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", msgType, err)
	}
	s.connections.writeMu.Lock()
	defer s.connections.writeMu.Unlock()
	return conn.WriteJSON(ws.Message{Type: msgType, Payload: raw})
}

func (s *Session) sendState(playerID string, conn Observer) {
	if err := s.Send(conn, ws.MessageTypeGameState, s.GetState()); err != nil {
		log.Warn("failed to send state", "game", s.ID, "player", playerID, "err", err)
	}
}

func (s *Session) broadcastState() {
	s.connections.mu.RLock()
	activeConnections := make(map[string]Observer, len(s.connections.connections))
	for playerID, conn := range s.connections.connections {
		activeConnections[playerID] = conn
	}
	s.connections.mu.RUnlock()

	if len(activeConnections) == 0 {
		return
	}
	state := s.GetState()
	for playerID, conn := range activeConnections {
		if err := s.Send(conn, ws.MessageTypeGameState, state); err != nil {
			log.Warn("failed to send state", "game", s.ID, "player", playerID, "err", err)
		}
	}
}
