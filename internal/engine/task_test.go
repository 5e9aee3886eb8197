package engine

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type fakeEngine struct {
	move  string
	err   error
	delay time.Duration
	// ignoreCtx makes the fake sleep through cancellation.
	ignoreCtx bool
	calls     atomic.Int32
	lastFEN   atomic.Value
}

func (f *fakeEngine) BestMove(ctx context.Context, fen string, budget time.Duration) (string, error) {
	f.calls.Add(1)
	f.lastFEN.Store(fen)
	if f.ignoreCtx {
		time.Sleep(f.delay)
		return f.move, f.err
	}
	select {
	case <-time.After(f.delay):
		return f.move, f.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (f *fakeEngine) Close() error { return nil }

func waitTask(t *testing.T, task *Task) Result {
	t.Helper()
	select {
	case <-task.Done():
		return task.Result()
	case <-time.After(5 * time.Second):
		t.Fatal("task did not finish")
		return Result{}
	}
}

func TestConsult(t *testing.T) {
	t.Run("returns the engine move", func(t *testing.T) {
		eng := &fakeEngine{move: "e2e4"}
		res := waitTask(t, Consult(context.Background(), eng, "fen", 10*time.Millisecond))
		if res.Err != nil || res.Move != "e2e4" {
			t.Fatalf("got %+v, want e2e4", res)
		}
		if got := eng.lastFEN.Load(); got != "fen" {
			t.Errorf("engine saw fen %v", got)
		}
	})

	t.Run("empty answer is ErrNoMove", func(t *testing.T) {
		res := waitTask(t, Consult(context.Background(), &fakeEngine{}, "fen", time.Millisecond))
		if !errors.Is(res.Err, ErrNoMove) {
			t.Fatalf("got %v, want ErrNoMove", res.Err)
		}
	})

	t.Run("engine failure is wrapped", func(t *testing.T) {
		boom := errors.New("boom")
		res := waitTask(t, Consult(context.Background(), &fakeEngine{err: boom}, "fen", time.Millisecond))
		if !errors.Is(res.Err, boom) {
			t.Fatalf("got %v, want wrapped boom", res.Err)
		}
	})

	t.Run("times out after budget plus grace", func(t *testing.T) {
		eng := &fakeEngine{move: "e2e4", delay: time.Second}
		start := time.Now()
		res := waitTask(t, consult(context.Background(), eng, "fen", 10*time.Millisecond, 20*time.Millisecond))
		if !errors.Is(res.Err, ErrTimeout) {
			t.Fatalf("got %v, want ErrTimeout", res.Err)
		}
		if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
			t.Errorf("timeout took %v", elapsed)
		}
	})

	t.Run("times out even when the engine ignores the context", func(t *testing.T) {
		eng := &fakeEngine{move: "e2e4", delay: time.Second, ignoreCtx: true}
		res := waitTask(t, consult(context.Background(), eng, "fen", 10*time.Millisecond, 20*time.Millisecond))
		if !errors.Is(res.Err, ErrTimeout) {
			t.Fatalf("got %v, want ErrTimeout", res.Err)
		}
	})
}

func TestTaskCancel(t *testing.T) {
	eng := &fakeEngine{move: "e2e4", delay: time.Second}
	task := Consult(context.Background(), eng, "fen", time.Second)
	task.Cancel()
	task.Cancel()

	res := waitTask(t, task)
	if !errors.Is(res.Err, ErrCanceled) {
		t.Fatalf("got %v, want ErrCanceled", res.Err)
	}
	task.Cancel()
	if res2 := task.Result(); !errors.Is(res2.Err, ErrCanceled) {
		t.Errorf("result changed after cancel: %v", res2.Err)
	}
}

func TestTaskParentContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	task := Consult(ctx, &fakeEngine{move: "e2e4", delay: time.Second}, "fen", time.Second)
	cancel()

	res := waitTask(t, task)
	if !errors.Is(res.Err, ErrCanceled) {
		t.Fatalf("got %v, want ErrCanceled", res.Err)
	}
}
