package tictactoe

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/entity"
)

// tieMoves fill the board as X O X / X O O / O X X without a line; X plays last at cell 8.
var tieMoves = []int{0, 1, 2, 4, 3, 5, 7, 6, 8}

func playMoves(t *testing.T, controller *GameController, cells ...int) entity.MoveResult {
	t.Helper()

	var result entity.MoveResult
	for i, cell := range cells {
		var err error
		result, err = controller.AttemptMove(cell)
		require.NoError(t, err, "move %d (cell %d)", i, cell)
	}

	return result
}

func TestNewGameController(t *testing.T) {
	// Given: a new controller
	controller := NewGameController()

	// Then: the board is empty, X moves and the round is active
	assert.Equal(t, entity.InitialState(), controller.State())
	assert.Equal(t, entity.Scores{}, controller.Scores())
}

func TestGameController_AttemptMove(t *testing.T) {
	t.Run("Continue hands the turn to the other player", func(t *testing.T) {
		// Given: a new controller
		controller := NewGameController()

		// When: X plays cell 4
		result, err := controller.AttemptMove(4)

		// Then: the move is accepted and O is next
		require.NoError(t, err)
		assert.Equal(t, entity.MoveResult{
			Outcome:    entity.OutcomeContinue,
			Cell:       4,
			Player:     entity.PlayerX,
			NextPlayer: entity.PlayerO,
		}, result)

		expected := entity.InitialState()
		expected.Board[4] = entity.PlayerX
		expected.Turn = entity.PlayerO
		assert.Equal(t, expected, controller.State())
	})

	t.Run("X completes the top row", func(t *testing.T) {
		// Given: a new controller
		controller := NewGameController()

		// When: X 0, O 4, X 1, O 7, X 2
		result := playMoves(t, controller, 0, 4, 1, 7, 2)

		// Then: X wins on [0,1,2] and scores one point
		require.NotNil(t, result.WinningLine)
		assert.Equal(t, entity.OutcomeWin, result.Outcome)
		assert.Equal(t, entity.PlayerX, result.Winner)
		assert.Equal(t, entity.Line{0, 1, 2}, *result.WinningLine)
		assert.Equal(t, entity.Scores{X: 1}, controller.Scores())

		state := controller.State()
		assert.Equal(t, entity.StatusWon, state.Status)
		assert.Equal(t, entity.PlayerX, state.Winner)
		assert.Equal(t, entity.EmptyCell, state.Turn)
		assert.Equal(t, &entity.Line{0, 1, 2}, state.WinningLine)
	})

	t.Run("Ninth move without a line is a tie", func(t *testing.T) {
		// Given: a controller one move away from a full board
		controller := NewGameController()
		playMoves(t, controller, tieMoves[:8]...)

		// When: X plays the last free cell
		result, err := controller.AttemptMove(tieMoves[8])

		// Then: the round ends in a tie and the tie counter moves
		require.NoError(t, err)
		assert.Equal(t, entity.OutcomeTie, result.Outcome)
		assert.Equal(t, entity.Scores{Ties: 1}, controller.Scores())
		assert.Equal(t, [entity.BoardSize]entity.Mark{
			entity.PlayerX, entity.PlayerO, entity.PlayerX,
			entity.PlayerX, entity.PlayerO, entity.PlayerO,
			entity.PlayerO, entity.PlayerX, entity.PlayerX,
		}, controller.State().Board)
	})

	t.Run("Invalid cell leaves everything unchanged", func(t *testing.T) {
		for _, cell := range []int{-1, 9, 100} {
			// Given: a controller with one move played
			controller := NewGameController()
			playMoves(t, controller, 4)
			stateBefore, scoresBefore := controller.Snapshot()

			// When: a move outside the board is attempted
			_, err := controller.AttemptMove(cell)

			// Then: ErrInvalidCell is returned and the snapshot is identical
			require.ErrorIs(t, err, apperror.ErrInvalidCell)
			stateAfter, scoresAfter := controller.Snapshot()
			assert.Equal(t, stateBefore, stateAfter)
			assert.Equal(t, scoresBefore, scoresAfter)
		}
	})

	t.Run("Occupied cell leaves everything unchanged", func(t *testing.T) {
		// Given: X holds cell 0 and O is to move
		controller := NewGameController()
		playMoves(t, controller, 0)
		before := controller.State()

		// When: O tries cell 0
		_, err := controller.AttemptMove(0)

		// Then: ErrCellOccupied is returned and O is still to move
		require.ErrorIs(t, err, apperror.ErrCellOccupied)
		assert.Equal(t, before, controller.State())
		assert.Equal(t, entity.PlayerO, controller.State().Turn)
	})

	t.Run("Finished round rejects every index", func(t *testing.T) {
		// Given: a round X has won
		controller := NewGameController()
		playMoves(t, controller, 0, 4, 1, 7, 2)
		stateBefore, scoresBefore := controller.Snapshot()

		for _, cell := range []int{-1, 0, 3, 8, 9} {
			// When: any move is attempted
			_, err := controller.AttemptMove(cell)

			// Then: ErrGameNotActive is returned
			require.ErrorIs(t, err, apperror.ErrGameNotActive, "cell %d", cell)
		}

		// And: nothing changed
		stateAfter, scoresAfter := controller.Snapshot()
		assert.Equal(t, stateBefore, stateAfter)
		assert.Equal(t, scoresBefore, scoresAfter)
	})

	t.Run("Each accepted move fills exactly one cell", func(t *testing.T) {
		controller := NewGameController()

		for _, cell := range tieMoves {
			before := controller.State().Board

			_, err := controller.AttemptMove(cell)
			require.NoError(t, err)

			after := controller.State().Board
			for i := range after {
				if i == cell {
					assert.Equal(t, entity.EmptyCell, before[i])
					assert.NotEqual(t, entity.EmptyCell, after[i])
					continue
				}
				assert.Equal(t, before[i], after[i], "cell %d changed while playing %d", i, cell)
			}
		}
	})

	t.Run("Turn alternates with every continue", func(t *testing.T) {
		controller := NewGameController()

		for n, cell := range tieMoves[:8] {
			result := playMoves(t, controller, cell)
			require.Equal(t, entity.OutcomeContinue, result.Outcome)

			expected := entity.PlayerX
			if (n+1)%2 == 1 {
				expected = entity.PlayerO
			}
			assert.Equal(t, expected, controller.State().Turn)
		}
	})
}

func TestGameController_Reset(t *testing.T) {
	t.Run("Reset after a win keeps the scores", func(t *testing.T) {
		// Given: X has won a round
		controller := NewGameController()
		playMoves(t, controller, 0, 4, 1, 7, 2)

		// When: the round is reset
		state := controller.Reset()

		// Then: board is empty, X moves, round is active, X keeps the point
		assert.Equal(t, entity.InitialState(), state)
		assert.Equal(t, entity.InitialState(), controller.State())
		assert.Equal(t, entity.Scores{X: 1}, controller.Scores())

		// And: moves are accepted again
		result, err := controller.AttemptMove(0)
		require.NoError(t, err)
		assert.Equal(t, entity.OutcomeContinue, result.Outcome)
	})

	t.Run("Scores accumulate across rounds", func(t *testing.T) {
		controller := NewGameController()

		playMoves(t, controller, 0, 4, 1, 7, 2) // X wins
		controller.Reset()
		playMoves(t, controller, 0, 3, 1, 4, 8, 5) // O wins on the middle row
		controller.Reset()
		playMoves(t, controller, tieMoves...)
		controller.Reset()

		assert.Equal(t, entity.Scores{X: 1, O: 1, Ties: 1}, controller.Scores())
	})

	t.Run("Reset in the middle of a round", func(t *testing.T) {
		controller := NewGameController()
		playMoves(t, controller, 4)

		state := controller.Reset()

		assert.Equal(t, entity.InitialState(), state)
		assert.Equal(t, entity.Scores{}, controller.Scores())
	})
}

func TestRestore(t *testing.T) {
	t.Run("Continues a stored round", func(t *testing.T) {
		// Given: a snapshot exported from a live controller
		original := NewGameController()
		playMoves(t, original, 0, 4)
		state, scores := original.Snapshot()

		// When: it is restored
		restored, err := Restore(state, scores)
		require.NoError(t, err)

		// Then: the restored controller behaves like the original
		result, err := restored.AttemptMove(1)
		require.NoError(t, err)
		assert.Equal(t, entity.PlayerX, result.Player)
		assert.Equal(t, entity.PlayerO, result.NextPlayer)
	})

	t.Run("Restored finished round still rejects moves", func(t *testing.T) {
		original := NewGameController()
		playMoves(t, original, 0, 4, 1, 7, 2)
		state, scores := original.Snapshot()

		restored, err := Restore(state, scores)
		require.NoError(t, err)

		_, err = restored.AttemptMove(3)
		require.ErrorIs(t, err, apperror.ErrGameNotActive)
		assert.Equal(t, entity.Scores{X: 1}, restored.Scores())
	})

	t.Run("Status that disagrees with the board is rejected", func(t *testing.T) {
		state := entity.InitialState()
		state.Board = [entity.BoardSize]entity.Mark{entity.PlayerX, entity.PlayerX, entity.PlayerX}

		_, err := Restore(state, entity.Scores{})

		require.ErrorIs(t, err, ErrCorruptState)
	})

	t.Run("Turn must follow from the mark counts", func(t *testing.T) {
		cases := []struct {
			name  string
			cells map[int]entity.Mark
			turn  entity.Mark
		}{
			{name: "X to move again after X", cells: map[int]entity.Mark{0: entity.PlayerX}, turn: entity.PlayerX},
			{name: "O to move on an even board", cells: map[int]entity.Mark{0: entity.PlayerX, 4: entity.PlayerO}, turn: entity.PlayerO},
			{name: "O ahead of X", cells: map[int]entity.Mark{4: entity.PlayerO}, turn: entity.PlayerX},
			{name: "X two marks ahead", cells: map[int]entity.Mark{0: entity.PlayerX, 4: entity.PlayerX}, turn: entity.PlayerO},
			{name: "Nobody to move", cells: map[int]entity.Mark{0: entity.PlayerX, 1: entity.PlayerX}, turn: entity.EmptyCell},
			{name: "No turn on an empty board", cells: nil, turn: entity.EmptyCell},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				// Given: an in-progress record whose turn disagrees with the board
				state := entity.InitialState()
				for cell, mark := range tc.cells {
					state.Board[cell] = mark
				}
				state.Turn = tc.turn

				// When: it is restored
				_, err := Restore(state, entity.Scores{})

				// Then: the record is refused
				require.ErrorIs(t, err, ErrCorruptState)
			})
		}
	})

	t.Run("Turn that matches the mark counts is accepted", func(t *testing.T) {
		state := entity.InitialState()
		state.Board[0] = entity.PlayerX
		state.Turn = entity.PlayerO

		restored, err := Restore(state, entity.Scores{})
		require.NoError(t, err)

		result, err := restored.AttemptMove(4)
		require.NoError(t, err)
		assert.Equal(t, entity.PlayerO, result.Player)
	})

	t.Run("Unknown marks are rejected", func(t *testing.T) {
		state := entity.InitialState()
		state.Board[0] = "Q"

		_, err := Restore(state, entity.Scores{})

		require.ErrorIs(t, err, ErrCorruptState)
	})
}

func TestGameController_ConcurrentMoves(t *testing.T) {
	// Given: one controller shared by many goroutines
	controller := NewGameController()

	var wg sync.WaitGroup
	accepted := make(chan struct{}, 64)

	// When: every goroutine tries every cell
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for cell := range entity.BoardSize {
				if _, err := controller.AttemptMove(cell); err == nil {
					accepted <- struct{}{}
				}
			}
		}()
	}
	wg.Wait()
	close(accepted)

	// Then: each cell was taken at most once and the round reached a consistent end
	count := 0
	for range accepted {
		count++
	}

	state := controller.State()
	filled := 0
	for _, mark := range state.Board {
		if mark != entity.EmptyCell {
			filled++
		}
	}
	assert.Equal(t, filled, count)
	assert.True(t, state.IsFinished())
}
