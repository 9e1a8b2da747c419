package entity

// Line is a triple of cell indices that wins when filled by one player.
type Line [3]int

// WinLines are checked in this order: rows top to bottom, columns left to right,
// then the two diagonals. The first complete line decides the winner.
var WinLines = [8]Line{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusWon        Status = "won"
	StatusTied       Status = "tied"
)

// Verdict is the evaluation of a board. Winner and Line are set only for StatusWon.
type Verdict struct {
	Status Status
	Winner Mark
	Line   Line
}

func (that Verdict) IsTerminal() bool {
	return that.Status == StatusWon || that.Status == StatusTied
}

// Evaluate - decides whether the board is won, tied or still in progress.
func Evaluate(board Board) Verdict {
	for _, line := range WinLines {
		a, b, c := board.At(line[0]), board.At(line[1]), board.At(line[2])
		if a != EmptyCell && a == b && b == c {
			return Verdict{Status: StatusWon, Winner: a, Line: line}
		}
	}

	if board.IsFull() {
		return Verdict{Status: StatusTied}
	}

	return Verdict{Status: StatusInProgress}
}
