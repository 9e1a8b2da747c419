package console

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/entity"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/view"
)

const rowSeparator = "---+---+---"

// Render - draws the board, the status line and the score line. Free cells show the key
// that plays them; cells of the winning line are wrapped in parentheses.
func Render(w io.Writer, state entity.GameState, scores entity.Scores) error {
	winning := make(map[int]bool, 3)
	if state.WinningLine != nil {
		for _, cell := range state.WinningLine {
			winning[cell] = true
		}
	}

	var b strings.Builder
	b.WriteString("\n")

	for row := 0; row < 3; row++ {
		cells := make([]string, 3)
		for col := 0; col < 3; col++ {
			cell := row*3 + col
			cells[col] = renderCell(cell, state.Board[cell], winning[cell])
		}

		b.WriteString(strings.Join(cells, "|"))
		b.WriteString("\n")

		if row < 2 {
			b.WriteString(rowSeparator)
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(view.StatusLine(state))
	b.WriteString("\n")
	b.WriteString(view.ScoreLine(scores))
	b.WriteString("\n")

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("failed to render board: %w", err)
	}

	return nil
}

func renderCell(cell int, mark entity.Mark, winning bool) string {
	switch {
	case mark == entity.EmptyCell:
		return " " + strconv.Itoa(cell+1) + " "
	case winning:
		return "(" + string(mark) + ")"
	default:
		return " " + string(mark) + " "
	}
}

// RenderResult - the result dialog.
func RenderResult(w io.Writer, state entity.GameState) error {
	message := view.ResultMessage(state)
	border := strings.Repeat("*", len(message)+4)

	_, err := fmt.Fprintf(w, "\n%s\n* %s *\n%s\nr: new round, esc: close, q: quit\n", border, message, border)
	if err != nil {
		return fmt.Errorf("failed to render result: %w", err)
	}

	return nil
}
