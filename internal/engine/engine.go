// Package engine talks to an external move-search engine. It only ever sees
// FEN strings and returns moves as UCI strings; validating them against the
// rules is the caller's job.
package engine

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

var log = slog.Default().With("package", "engine")

var (
	ErrTimeout      = errors.New("engine: search timed out")
	ErrCanceled     = errors.New("engine: search canceled")
	ErrNoMove       = errors.New("engine: no move returned")
	ErrEngineClosed = errors.New("engine: closed")
)

// Engine searches a position and returns its preferred move, e.g. "e2e4" or
// "a9a10q". Ranks are written 1-10.
type Engine interface {
	BestMove(ctx context.Context, fen string, budget time.Duration) (string, error)
	Close() error
}
