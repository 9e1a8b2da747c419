package entity

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/apperror"
)

// BoardSize is the number of cells on the 3x3 grid, indexed row*3+col.
const BoardSize = 9

// Mark is the content of a cell. A non-empty mark also identifies a player.
type Mark string

const (
	EmptyCell Mark = ""
	PlayerX   Mark = "X"
	PlayerO   Mark = "O"
)

var ErrInvalidMark = errors.New("invalid mark")

// IsPlayer reports whether the mark belongs to one of the two players.
func (that Mark) IsPlayer() bool {
	return that == PlayerX || that == PlayerO
}

// Opponent - returns the other player's mark.
func (that Mark) Opponent() Mark {
	if that == PlayerX {
		return PlayerO
	}
	return PlayerX
}

// Board holds the marks placed by completed moves. The only way to fill a cell is Place,
// and the only way to clear one is Reset.
type Board struct {
	cells [BoardSize]Mark
}

// BoardFromCells - rebuilds a board from stored cells.
func BoardFromCells(cells [BoardSize]Mark) (Board, error) {
	for i, mark := range cells {
		if mark != EmptyCell && !mark.IsPlayer() {
			return Board{}, fmt.Errorf("%w %q in cell %d", ErrInvalidMark, mark, i)
		}
	}

	return Board{cells: cells}, nil
}

// Place - puts the mark into an empty cell.
func (that *Board) Place(cell int, mark Mark) error {
	if !mark.IsPlayer() {
		return fmt.Errorf("%w: %q", ErrInvalidMark, mark)
	}

	if cell < 0 || cell >= BoardSize {
		return fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell)
	}

	if that.cells[cell] != EmptyCell {
		return fmt.Errorf("%w: cell %d", apperror.ErrCellOccupied, cell)
	}

	that.cells[cell] = mark

	return nil
}

func (that *Board) IsFull() bool {
	for _, cell := range that.cells {
		if cell == EmptyCell {
			return false
		}
	}

	return true
}

func (that *Board) Reset() {
	that.cells = [BoardSize]Mark{}
}

// At returns the mark in a cell, EmptyCell for indices outside the board.
func (that *Board) At(cell int) Mark {
	if cell < 0 || cell >= BoardSize {
		return EmptyCell
	}
	return that.cells[cell]
}

// Cells returns a copy of the grid.
func (that *Board) Cells() [BoardSize]Mark {
	return that.cells
}
