// Package console runs a hot-seat game on a terminal: both players share one keyboard.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/keymap"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/tictactoe"
)

const quitKey = "q"

type Console struct {
	logger     *slog.Logger
	controller *tictactoe.GameController

	in  io.Reader
	out io.Writer

	resultDelay time.Duration
}

func New(logger *slog.Logger, in io.Reader, out io.Writer, resultDelay time.Duration) *Console {
	return &Console{
		logger:     logger.With("component", "console"),
		controller: tictactoe.NewGameController(),

		in:  in,
		out: out,

		resultDelay: resultDelay,
	}
}

// Run - plays until q, end of input or ctx is done. Each input line is one key press.
func (that *Console) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines, readErr := readLines(ctx, that.in)

	if err := that.render(); err != nil {
		return err
	}

	var (
		result       *time.Timer
		resultFire   <-chan time.Time
		resultOnView bool
	)

	stopResult := func() {
		if result != nil {
			result.Stop()
		}
		result, resultFire = nil, nil
	}
	defer stopResult()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-readErr:
			if err != nil || resultFire == nil {
				return err
			}

			// input ended right after the final move: still show the result
			select {
			case <-ctx.Done():
				return nil
			case <-resultFire:
				return RenderResult(that.out, that.controller.State())
			}
		case <-resultFire:
			result, resultFire = nil, nil
			resultOnView = true

			if err := RenderResult(that.out, that.controller.State()); err != nil {
				return err
			}
		case line := <-lines:
			key := normalizeKey(line)
			if key == quitKey {
				return nil
			}

			command := keymap.Translate(key)
			that.logger.Debug("key pressed", "key", key, "command", command.Kind.String())

			switch command.Kind {
			case keymap.Move:
				moveResult, err := that.controller.AttemptMove(command.Cell)
				if apperror.IsRejection(err) {
					that.logger.Debug("move ignored", "cell", command.Cell, "reason", apperror.Reason(err))
					continue
				}

				if err != nil {
					return fmt.Errorf("failed to make turn: %w", err)
				}

				if err = that.render(); err != nil {
					return err
				}

				if moveResult.IsTerminal() {
					result = time.NewTimer(that.resultDelay)
					resultFire = result.C
				}
			case keymap.Reset:
				stopResult()
				resultOnView = false
				that.controller.Reset()

				if err := that.render(); err != nil {
					return err
				}
			case keymap.Dismiss:
				stopResult()

				if resultOnView {
					resultOnView = false

					if err := that.render(); err != nil {
						return err
					}
				}
			case keymap.Ignore:
			}
		}
	}
}

func (that *Console) render() error {
	state, scores := that.controller.Snapshot()

	return Render(that.out, state, scores)
}

// normalizeKey maps what a line-based terminal can send onto key names.
func normalizeKey(line string) string {
	key := strings.TrimSpace(line)

	switch strings.ToLower(key) {
	case "esc", "escape", "\x1b":
		return "Escape"
	}

	return key
}

// readLines - the returned error channel yields nil on end of input.
func readLines(ctx context.Context, in io.Reader) (<-chan string, <-chan error) {
	lines := make(chan string)
	errCh := make(chan error, 1)

	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}

		if err := scanner.Err(); err != nil {
			errCh <- fmt.Errorf("failed to read input: %w", err)
			return
		}

		errCh <- nil
	}()

	return lines, errCh
}
