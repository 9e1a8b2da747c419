// Package keymap translates keyboard input into game commands.
package keymap

type Kind int

const (
	Ignore Kind = iota
	Move
	Reset
	Dismiss
)

func (that Kind) String() string {
	switch that {
	case Move:
		return "move"
	case Reset:
		return "reset"
	case Dismiss:
		return "dismiss"
	default:
		return "ignore"
	}
}

// Command is what a key asks for. Cell is set only for Move.
type Command struct {
	Kind Kind
	Cell int
}

// Translate - "1".."9" play cells 0..8 in reading order, "r" or "R" resets the round,
// "Escape" dismisses the result dialog. Any other key is ignored.
func Translate(key string) Command {
	switch key {
	case "r", "R":
		return Command{Kind: Reset}
	case "Escape":
		return Command{Kind: Dismiss}
	}

	if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
		return Command{Kind: Move, Cell: int(key[0] - '1')}
	}

	return Command{Kind: Ignore}
}
