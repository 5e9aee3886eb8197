package service

import (
	"errors"

	"github.com/benbeisheim/metricchess-backend/internal/model"
)

var (
	ErrGameNotFound      = errors.New("game not found")
	ErrGameExists        = errors.New("game already exists")
	ErrInvalidSquare     = errors.New("invalid square")
	ErrInvalidRequest    = errors.New("invalid request")
	ErrEngineUnavailable = errors.New("engine unavailable")

	// Re-exported so callers only need this package to classify failures.
	ErrGameFull      = model.ErrGameFull
	ErrNotInGame     = model.ErrNotInGame
	ErrNotYourTurn   = model.ErrNotYourTurn
	ErrIllegalMove   = model.ErrIllegalMove
	ErrNothingToUndo = model.ErrNothingToUndo
	ErrNothingToRedo = model.ErrNothingToRedo
	ErrGameOver      = model.ErrGameOver
	ErrInvalidPlayer = model.ErrInvalidPlayer
)
