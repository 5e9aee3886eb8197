package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultGrace is added to the search budget to form a task's deadline.
const DefaultGrace = 2 * time.Second

type Result struct {
	Move string
	Err  error
}

// Task is a single pending engine consultation.
type Task struct {
	cancel     context.CancelFunc
	cancelOnce sync.Once
	canceled   atomic.Bool
	done       chan struct{}
	result     Result
}

// Consult starts a search in the background. The task finishes with
// ErrTimeout if the engine has not answered within budget plus DefaultGrace.
func Consult(ctx context.Context, eng Engine, fen string, budget time.Duration) *Task {
	return consult(ctx, eng, fen, budget, DefaultGrace)
}

func consult(ctx context.Context, eng Engine, fen string, budget, grace time.Duration) *Task {
	ctx, cancel := context.WithTimeout(ctx, budget+grace)
	t := &Task{
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go func() {
		defer close(t.done)
		defer cancel()

		answers := make(chan Result, 1)
		go func() {
			move, err := eng.BestMove(ctx, fen, budget)
			answers <- Result{Move: move, Err: err}
		}()

		var res Result
		select {
		case res = <-answers:
		case <-ctx.Done():
			res = Result{Err: ctx.Err()}
		}
		t.result = t.classify(ctx, res)
		log.Debug("engine task finished", "fen", fen, "move", t.result.Move, "err", t.result.Err)
	}()

	return t
}

func (t *Task) classify(ctx context.Context, res Result) Result {
	switch {
	case t.canceled.Load():
		return Result{Err: ErrCanceled}
	case res.Err == nil && res.Move == "":
		return Result{Err: ErrNoMove}
	case res.Err == nil:
		return res
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return Result{Err: ErrTimeout}
	case errors.Is(res.Err, context.Canceled):
		return Result{Err: ErrCanceled}
	case errors.Is(res.Err, ErrNoMove), errors.Is(res.Err, ErrEngineClosed):
		return Result{Err: res.Err}
	default:
		return Result{Err: fmt.Errorf("engine search failed: %w", res.Err)}
	}
}

// Done is closed once the result is available.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Result blocks until the task has finished.
func (t *Task) Result() Result {
	<-t.done
	return t.result
}

// Cancel abandons the search. A task canceled before it finishes reports
// ErrCanceled. Calling it again, or after completion, is a no-op.
func (t *Task) Cancel() {
	t.cancelOnce.Do(func() {
		t.canceled.Store(true)
		t.cancel()
	})
}
