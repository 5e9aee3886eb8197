// service/game_manager.go
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/benbeisheim/metricchess-backend/internal/engine"
	"github.com/benbeisheim/metricchess-backend/internal/model"
	"github.com/google/uuid"
)

var log = slog.Default().With("package", "service")

type Options struct {
	// Engine may be nil, in which case engine features report ErrEngineUnavailable.
	Engine        engine.Engine
	EngineBudget  time.Duration
	Clock         time.Duration
	MatchInterval time.Duration
	GameOptions   []model.Option
}

type GameManager struct {
	games            map[string]*model.Session
	queue            *model.Queue
	matchingChannels map[string]chan string
	mu               sync.RWMutex

	opts   Options
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

func NewGameManager(opts Options) *GameManager {
	if opts.MatchInterval <= 0 {
		opts.MatchInterval = time.Second
	}
	if opts.EngineBudget <= 0 {
		opts.EngineBudget = time.Second
	}
	ctx, cancel := context.WithCancel(context.Background())
	gm := &GameManager{
		games:            make(map[string]*model.Session),
		queue:            model.NewQueue(),
		matchingChannels: make(map[string]chan string),
		opts:             opts,
		ctx:              ctx,
		cancel:           cancel,
		done:             make(chan struct{}),
	}

	go gm.processMatchmaking()

	return gm
}

// Close stops matchmaking and cancels every pending engine search.
func (gm *GameManager) Close() {
	gm.cancel()
	<-gm.done
}

func (gm *GameManager) RegisterMatchmakingChannel(playerID string, ch chan string) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	log.Debug("registering matchmaking channel", "player", playerID)

	if existingCh, exists := gm.matchingChannels[playerID]; exists {
		delete(gm.matchingChannels, playerID)
		close(existingCh)
	}

	gm.matchingChannels[playerID] = ch
	return nil
}

func (gm *GameManager) UnregisterMatchmakingChannel(playerID string) {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	log.Debug("unregistering matchmaking channel", "player", playerID)

	// The channel's creator closes it.
	delete(gm.matchingChannels, playerID)
}

func (gm *GameManager) processMatchmaking() {
	defer close(gm.done)
	ticker := time.NewTicker(gm.opts.MatchInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			for gm.matchOnce() {
			}
		case <-gm.ctx.Done():
			return
		}
	}
}

// matchOnce pairs the two longest-waiting players into a new game and tells
// both. It reports whether a pair was made.
func (gm *GameManager) matchOnce() bool {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	player1, player2, ok := gm.queue.GetNextPair()
	if !ok {
		return false
	}

	gameID := uuid.NewString()
	session := model.NewSession(gameID, model.NewGame(gm.opts.GameOptions...), gm.opts.Clock)
	p1Color, err := session.AddPlayer(player1.ID)
	if err != nil {
		log.Error("failed to seat matched player", "player", player1.ID, "err", err)
		return true
	}
	p2Color, err := session.AddPlayer(player2.ID)
	if err != nil {
		log.Error("failed to seat matched player", "player", player2.ID, "err", err)
		return true
	}
	gm.games[gameID] = session
	log.Info("match found", "game", gameID, "white", player1.ID, "black", player2.ID)

	sendEventAndCleanup := func(playerID string, event model.MatchFoundEvent) bool {
		ch, ok := gm.matchingChannels[playerID]
		if !ok {
			return false
		}
		payload, err := json.Marshal(event)
		if err != nil {
			log.Error("failed to marshal match event", "err", err)
			return false
		}
		select {
		case ch <- string(payload):
			delete(gm.matchingChannels, playerID)
			close(ch)
			return true
		default:
			return false
		}
	}

	sent1 := sendEventAndCleanup(player1.ID, model.MatchFoundEvent{GameID: gameID, Color: p1Color})
	sent2 := sendEventAndCleanup(player2.ID, model.MatchFoundEvent{GameID: gameID, Color: p2Color})
	if !sent1 || !sent2 {
		log.Warn("failed to notify all players of match", "game", gameID)
	}
	return true
}

func (gm *GameManager) JoinMatchmaking(playerID string) error {
	if err := gm.queue.AddPlayer(model.Player{ID: playerID, Kind: model.PlayerHuman}); err != nil {
		return fmt.Errorf("failed to join matchmaking: %w", err)
	}
	log.Info("player queued", "player", playerID, "queued", gm.queue.Size())
	return nil
}

func (gm *GameManager) LeaveMatchmaking(playerID string) {
	gm.queue.Remove(playerID)
}

// CreateGame builds a session around game, lets seat fill it and only then
// registers it. A failed seat leaves nothing behind.
func (gm *GameManager) CreateGame(gameID string, game *model.Game, seat func(*model.Session) error) (*model.Session, error) {
	session := model.NewSession(gameID, game, gm.opts.Clock)
	if seat != nil {
		if err := seat(session); err != nil {
			return nil, err
		}
	}

	gm.mu.Lock()
	defer gm.mu.Unlock()
	if _, exists := gm.games[gameID]; exists {
		return nil, ErrGameExists
	}
	gm.games[gameID] = session
	return session, nil
}

func (gm *GameManager) NewGame(fen string) (*model.Game, error) {
	if fen == "" {
		return model.NewGame(gm.opts.GameOptions...), nil
	}
	return model.NewGameFromFEN(fen, gm.opts.GameOptions...)
}

func (gm *GameManager) GetGame(gameID string) (*model.Session, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	session, exists := gm.games[gameID]
	if !exists {
		return nil, ErrGameNotFound
	}
	return session, nil
}

func (gm *GameManager) AddPlayerToGame(gameID string, playerID string) (model.Color, error) {
	session, err := gm.GetGame(gameID)
	if err != nil {
		return "", err
	}
	return session.AddPlayer(playerID)
}

// RequestEngineMove consults the configured engine for the side to move.
// A non-positive budget uses the configured default.
func (gm *GameManager) RequestEngineMove(session *model.Session, budget time.Duration) (<-chan struct{}, error) {
	if gm.opts.Engine == nil {
		return nil, ErrEngineUnavailable
	}
	if budget <= 0 {
		budget = gm.opts.EngineBudget
	}
	return session.RequestEngineMove(gm.ctx, gm.opts.Engine, budget)
}

// RequestEngineMoveFor is RequestEngineMove on behalf of a seated player.
func (gm *GameManager) RequestEngineMoveFor(session *model.Session, playerID string, budget time.Duration) (<-chan struct{}, error) {
	if gm.opts.Engine == nil {
		return nil, ErrEngineUnavailable
	}
	if budget <= 0 {
		budget = gm.opts.EngineBudget
	}
	return session.RequestEngineMoveFor(gm.ctx, playerID, gm.opts.Engine, budget)
}

// engineReply starts an engine search when the engine holds the move.
func (gm *GameManager) engineReply(session *model.Session) {
	if gm.opts.Engine == nil || !session.EngineToMove() {
		return
	}
	if _, err := gm.RequestEngineMove(session, 0); err != nil {
		log.Warn("engine reply not started", "game", session.ID, "err", err)
	}
}

func (gm *GameManager) HasEngine() bool {
	return gm.opts.Engine != nil
}

func (gm *GameManager) GameCount() int {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	return len(gm.games)
}
