package engine

import (
	"bufio"
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"
)

//go:embed metricchess.ini
var variantConfig []byte

// VariantName is the section name in the embedded variant file.
const VariantName = "metricchess"

// drainTimeout bounds how long a canceled search may take to acknowledge stop.
const drainTimeout = 2 * time.Second

// UCIEngine drives a Fairy-Stockfish compatible process over stdin/stdout.
// It runs one search at a time.
type UCIEngine struct {
	cmd         *exec.Cmd
	stdin       io.WriteCloser
	responses   chan string
	variantPath string

	writeMu  sync.Mutex
	searchMu sync.Mutex

	closeOnce sync.Once
	closed    chan struct{}
	closeErr  error
}

type options struct {
	homeRankDoubleStep bool
}

// Option configures a UCIEngine.
type Option func(*options)

// WithHomeRankDoubleStep tells the engine that pawns may only advance two
// squares from their home rank. Without it any rank allows the double step.
func WithHomeRankDoubleStep(enabled bool) Option {
	return func(o *options) {
		o.homeRankDoubleStep = enabled
	}
}

// variantFor renders the variant file, adding the double-step regions.
func variantFor(o options) []byte {
	white, black := "*2", "*9"
	if !o.homeRankDoubleStep {
		white = "*1 *2 *3 *4 *5 *6 *7 *8"
		black = "*3 *4 *5 *6 *7 *8 *9 *10"
	}
	var sb strings.Builder
	sb.Write(variantConfig)
	if len(variantConfig) > 0 && variantConfig[len(variantConfig)-1] != '\n' {
		sb.WriteByte('\n')
	}
	fmt.Fprintf(&sb, "doubleStepRegionWhite = %s\ndoubleStepRegionBlack = %s\n", white, black)
	return []byte(sb.String())
}

// NewUCIEngine starts the engine binary at path and selects the Metric Chess
// variant. ctx bounds the handshake only.
func NewUCIEngine(ctx context.Context, path string, opts ...Option) (*UCIEngine, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	variantFile, err := os.CreateTemp("", "metricchess-*.ini")
	if err != nil {
		return nil, fmt.Errorf("failed to create variant file: %w", err)
	}
	if _, err := variantFile.Write(variantFor(o)); err != nil {
		variantFile.Close()
		os.Remove(variantFile.Name())
		return nil, fmt.Errorf("failed to write variant file: %w", err)
	}
	variantFile.Close()

	cmd := exec.Command(path)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		os.Remove(variantFile.Name())
		return nil, fmt.Errorf("failed to create stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		os.Remove(variantFile.Name())
		return nil, fmt.Errorf("failed to create stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		os.Remove(variantFile.Name())
		return nil, fmt.Errorf("failed to start engine %q: %w", path, err)
	}

	e := newUCIEngine(stdin, stdout, variantFile.Name())
	e.cmd = cmd
	if err := e.initialize(ctx); err != nil {
		e.Close()
		return nil, err
	}
	log.Info("engine ready", "path", path, "variant", VariantName)
	return e, nil
}

func newUCIEngine(stdin io.WriteCloser, stdout io.Reader, variantPath string) *UCIEngine {
	e := &UCIEngine{
		stdin:       stdin,
		responses:   make(chan string, 100),
		variantPath: variantPath,
		closed:      make(chan struct{}),
	}
	go e.readOutput(bufio.NewScanner(stdout))
	return e
}

func (e *UCIEngine) initialize(ctx context.Context) error {
	if err := e.sendCommand("uci"); err != nil {
		return err
	}
	if err := e.await(ctx, "uciok"); err != nil {
		return fmt.Errorf("engine handshake failed: %w", err)
	}
	for _, cmd := range []string{
		"setoption name VariantPath value " + e.variantPath,
		"setoption name UCI_Variant value " + VariantName,
		"isready",
	} {
		if err := e.sendCommand(cmd); err != nil {
			return err
		}
	}
	if err := e.await(ctx, "readyok"); err != nil {
		return fmt.Errorf("engine initialization failed: %w", err)
	}
	return nil
}

// await consumes output until a line starting with prefix arrives.
func (e *UCIEngine) await(ctx context.Context, prefix string) error {
	for {
		select {
		case response, ok := <-e.responses:
			if !ok {
				return ErrEngineClosed
			}
			if strings.HasPrefix(response, prefix) {
				return nil
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (e *UCIEngine) sendCommand(cmd string) error {
	log.Debug("sending command", "command", cmd)
	e.writeMu.Lock()
	defer e.writeMu.Unlock()
	select {
	case <-e.closed:
		return ErrEngineClosed
	default:
	}
	if _, err := fmt.Fprintln(e.stdin, cmd); err != nil {
		return fmt.Errorf("failed to write to engine: %w", err)
	}
	return nil
}

func (e *UCIEngine) readOutput(scanner *bufio.Scanner) {
	for scanner.Scan() {
		response := scanner.Text()
		log.Debug("received response", "response", response)
		e.responses <- response
	}
	close(e.responses)
}

// BestMove searches fen for budget. If ctx ends first the engine is told to
// stop and its answer is discarded.
func (e *UCIEngine) BestMove(ctx context.Context, fen string, budget time.Duration) (string, error) {
	e.searchMu.Lock()
	defer e.searchMu.Unlock()

	e.discardPending()
	if err := e.sendCommand("position fen " + fen); err != nil {
		return "", err
	}
	if err := e.sendCommand(fmt.Sprintf("go movetime %d", budget.Milliseconds())); err != nil {
		return "", err
	}

	for {
		select {
		case response, ok := <-e.responses:
			if !ok {
				return "", ErrEngineClosed
			}
			if !strings.HasPrefix(response, "bestmove") {
				continue
			}
			fields := strings.Fields(response)
			if len(fields) < 2 || fields[1] == "(none)" || fields[1] == "0000" {
				return "", ErrNoMove
			}
			return fields[1], nil
		case <-ctx.Done():
			e.stopSearch()
			return "", ctx.Err()
		}
	}
}

// stopSearch interrupts a running search and drains output up to its
// bestmove line so that the next search starts clean.
func (e *UCIEngine) stopSearch() {
	if err := e.sendCommand("stop"); err != nil {
		return
	}
	timer := time.NewTimer(drainTimeout)
	defer timer.Stop()
	for {
		select {
		case response, ok := <-e.responses:
			if !ok || strings.HasPrefix(response, "bestmove") {
				return
			}
		case <-timer.C:
			log.Warn("engine did not acknowledge stop")
			return
		}
	}
}

// discardPending drops output left over from earlier commands.
func (e *UCIEngine) discardPending() {
	for {
		select {
		case _, ok := <-e.responses:
			if !ok {
				return
			}
		default:
			return
		}
	}
}

// Close shuts the engine down. It is safe to call more than once.
func (e *UCIEngine) Close() error {
	e.closeOnce.Do(func() {
		e.sendCommand("quit")
		e.writeMu.Lock()
		close(e.closed)
		e.stdin.Close()
		e.writeMu.Unlock()
		if e.cmd != nil {
			e.closeErr = e.cmd.Wait()
		}
		if e.variantPath != "" {
			os.Remove(e.variantPath)
		}
	})
	return e.closeErr
}
