package entity

// Scores are the session totals. They survive round resets.
type Scores struct {
	X    int `json:"x"`
	O    int `json:"o"`
	Ties int `json:"ties"`
}

// Wins returns the win counter of a player.
func (that Scores) Wins(player Mark) int {
	switch player {
	case PlayerX:
		return that.X
	case PlayerO:
		return that.O
	default:
		return 0
	}
}

// Tracker keeps whose turn it is and the score tally. It does not know whether the
// round is over; the controller decides when each method may be called.
type Tracker struct {
	current Mark
	scores  Scores
}

func NewTracker() Tracker {
	return Tracker{current: PlayerX}
}

// RestoreTracker - rebuilds a tracker from a stored turn and tally.
func RestoreTracker(current Mark, scores Scores) Tracker {
	if !current.IsPlayer() {
		current = PlayerX
	}
	return Tracker{current: current, scores: scores}
}

func (that *Tracker) CurrentPlayer() Mark {
	return that.current
}

func (that *Tracker) AdvanceTurn() {
	that.current = that.current.Opponent()
}

// ResetTurn gives the first move back to X.
func (that *Tracker) ResetTurn() {
	that.current = PlayerX
}

func (that *Tracker) RecordWin(player Mark) {
	switch player {
	case PlayerX:
		that.scores.X++
	case PlayerO:
		that.scores.O++
	}
}

func (that *Tracker) RecordTie() {
	that.scores.Ties++
}

func (that *Tracker) Scores() Scores {
	return that.scores
}
