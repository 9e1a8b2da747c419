package tictactoe

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/entity"
)

var ErrCorruptState = errors.New("stored game state is inconsistent")

// GameController runs one game session: rounds on a single board plus the running tally.
// Every exported method is one exclusive section, so a controller may be shared between
// goroutines.
type GameController struct {
	mu sync.Mutex

	board   entity.Board
	tracker entity.Tracker
	verdict entity.Verdict
}

// NewGameController - creates a session with an empty board, X to move and zero scores.
func NewGameController() *GameController {
	return &GameController{
		tracker: entity.NewTracker(),
		verdict: entity.Verdict{Status: entity.StatusInProgress},
	}
}

// Restore - rebuilds a controller from a stored snapshot. The status is recomputed from the
// board and must agree with the stored one.
func Restore(state entity.GameState, scores entity.Scores) (*GameController, error) {
	board, err := entity.BoardFromCells(state.Board)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptState, err)
	}

	verdict := entity.Evaluate(board)
	if verdict.Status != state.Status {
		return nil, fmt.Errorf("%w: status %q, board says %q", ErrCorruptState, state.Status, verdict.Status)
	}

	if state.IsActive() {
		if expected := playerToMove(board); expected == entity.EmptyCell || state.Turn != expected {
			return nil, fmt.Errorf("%w: %q to move, marks say %q", ErrCorruptState, state.Turn, expected)
		}
	}

	return &GameController{
		board:   board,
		tracker: entity.RestoreTracker(state.Turn, scores),
		verdict: verdict,
	}, nil
}

// playerToMove - X moves when both players have the same number of marks, O when X is one
// ahead. Any other count has no player to move.
func playerToMove(board entity.Board) entity.Mark {
	var x, o int
	for cell := range entity.BoardSize {
		switch board.At(cell) {
		case entity.PlayerX:
			x++
		case entity.PlayerO:
			o++
		}
	}

	switch x - o {
	case 0:
		return entity.PlayerX
	case 1:
		return entity.PlayerO
	default:
		return entity.EmptyCell
	}
}

// AttemptMove - plays the current player's mark into cell. A rejected move returns one of
// apperror.ErrGameNotActive, apperror.ErrInvalidCell or apperror.ErrCellOccupied and leaves
// the controller exactly as it was.
func (that *GameController) AttemptMove(cell int) (entity.MoveResult, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.verdict.IsTerminal() {
		return entity.MoveResult{}, apperror.ErrGameNotActive
	}

	player := that.tracker.CurrentPlayer()
	if err := that.board.Place(cell, player); err != nil {
		return entity.MoveResult{}, err
	}

	result := entity.MoveResult{Cell: cell, Player: player}

	that.verdict = entity.Evaluate(that.board)

	switch that.verdict.Status {
	case entity.StatusWon:
		that.tracker.RecordWin(that.verdict.Winner)

		line := that.verdict.Line
		result.Outcome = entity.OutcomeWin
		result.Winner = that.verdict.Winner
		result.WinningLine = &line
	case entity.StatusTied:
		that.tracker.RecordTie()

		result.Outcome = entity.OutcomeTie
	default:
		that.tracker.AdvanceTurn()

		result.Outcome = entity.OutcomeContinue
		result.NextPlayer = that.tracker.CurrentPlayer()
	}

	return result, nil
}

// Reset - starts a new round. Scores are kept.
func (that *GameController) Reset() entity.GameState {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.board.Reset()
	that.tracker.ResetTurn()
	that.verdict = entity.Verdict{Status: entity.StatusInProgress}

	return that.stateLocked()
}

func (that *GameController) State() entity.GameState {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.stateLocked()
}

func (that *GameController) Scores() entity.Scores {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.tracker.Scores()
}

// Snapshot returns state and scores taken under the same lock.
func (that *GameController) Snapshot() (entity.GameState, entity.Scores) {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.stateLocked(), that.tracker.Scores()
}

func (that *GameController) stateLocked() entity.GameState {
	state := entity.GameState{
		Board:  that.board.Cells(),
		Status: that.verdict.Status,
	}

	switch that.verdict.Status {
	case entity.StatusWon:
		line := that.verdict.Line
		state.Winner = that.verdict.Winner
		state.WinningLine = &line
	case entity.StatusInProgress:
		state.Turn = that.tracker.CurrentPlayer()
	}

	return state
}
