// Package view holds the texts shown to players.
package view

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/entity"
)

// StatusLine - "Player X's turn", "Player X wins!" or "It's a tie!".
func StatusLine(state entity.GameState) string {
	switch state.Status {
	case entity.StatusWon:
		return fmt.Sprintf("Player %s wins!", state.Winner)
	case entity.StatusTied:
		return "It's a tie!"
	default:
		return fmt.Sprintf("Player %s's turn", state.Turn)
	}
}

// ResultMessage - the result dialog text. Empty while the round is in progress.
func ResultMessage(state entity.GameState) string {
	switch state.Status {
	case entity.StatusWon:
		return fmt.Sprintf("Player %s Wins!", state.Winner)
	case entity.StatusTied:
		return "It's a Tie!"
	default:
		return ""
	}
}

func ScoreLine(scores entity.Scores) string {
	return fmt.Sprintf("X: %d  O: %d  Ties: %d", scores.Wins(entity.PlayerX), scores.Wins(entity.PlayerO), scores.Ties)
}
