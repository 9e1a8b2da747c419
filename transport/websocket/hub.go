package websocket

import (
	"sync"
	"time"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/entity"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/view"
)

type client struct {
	sessionID string
	room      *room

	mu     sync.Mutex
	send   chan []byte
	closed bool
}

func newClient(sessionID string) *client {
	return &client{sessionID: sessionID, send: make(chan []byte, sendBufferSize)}
}

// trySend never blocks: a client that cannot keep up misses the message.
func (that *client) trySend(data []byte) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed {
		return
	}

	select {
	case that.send <- data:
	default:
	}
}

func (that *client) close() {
	that.mu.Lock()
	defer that.mu.Unlock()

	if !that.closed {
		that.closed = true
		close(that.send)
	}
}

// room groups the connections of one session. mu guards clients and the pending result
// timer; op serializes the actions its clients send so broadcasts follow the order of moves.
type room struct {
	op sync.Mutex

	mu      sync.Mutex
	clients map[*client]struct{}
	result  *time.Timer
}

type hub struct {
	mu    sync.Mutex
	rooms map[string]*room

	resultDelay time.Duration
}

func newHub(resultDelay time.Duration) *hub {
	return &hub{
		rooms:       make(map[string]*room),
		resultDelay: resultDelay,
	}
}

// lookup returns nil when no client of the session is connected.
func (that *hub) lookup(sessionID string) *room {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.rooms[sessionID]
}

func (that *hub) register(c *client) {
	that.mu.Lock()
	defer that.mu.Unlock()

	r, ok := that.rooms[c.sessionID]
	if !ok {
		r = &room{clients: make(map[*client]struct{})}
		that.rooms[c.sessionID] = r
	}

	c.room = r

	r.mu.Lock()
	r.clients[c] = struct{}{}
	r.mu.Unlock()
}

func (that *hub) unregister(c *client) {
	that.mu.Lock()
	defer that.mu.Unlock()

	r, ok := that.rooms[c.sessionID]
	if !ok {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok = r.clients[c]; ok {
		delete(r.clients, c)
		c.close()
	}

	if len(r.clients) == 0 {
		r.cancelResultLocked()
		delete(that.rooms, c.sessionID)
	}
}

// close - tells every client of the session it is over and drops them.
func (that *hub) close(sessionID string) {
	that.mu.Lock()
	r, ok := that.rooms[sessionID]
	delete(that.rooms, sessionID)
	that.mu.Unlock()

	if !ok {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.cancelResultLocked()
	r.broadcastLocked(newMessage(actionSessionEnd, map[string]string{"session_id": sessionID}))

	for c := range r.clients {
		delete(r.clients, c)
		c.close()
	}
}

func (that *hub) broadcastTurn(session *entity.Session, result entity.MoveResult) {
	r := that.lookup(session.ID)
	if r == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.broadcastLocked(newMessage(actionTurn, statePayload(session, &result)))

	if session.State.IsFinished() {
		that.scheduleResultLocked(r, session.State)
	}
}

func (that *hub) broadcastReset(session *entity.Session) {
	r := that.lookup(session.ID)
	if r == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.cancelResultLocked()
	r.broadcastLocked(newMessage(actionReset, statePayload(session, nil)))
}

func (that *hub) broadcastDismiss(sessionID string) {
	r := that.lookup(sessionID)
	if r == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.broadcastLocked(newMessage(actionDismiss, nil))
}

// scheduleResultLocked - the result dialog is announced resultDelay after the final move,
// unless a reset comes first.
func (that *hub) scheduleResultLocked(r *room, state entity.GameState) {
	r.cancelResultLocked()

	payload := ResultPayload{
		Message:     view.ResultMessage(state),
		Winner:      state.Winner,
		WinningLine: state.WinningLine,
	}

	var timer *time.Timer
	timer = time.AfterFunc(that.resultDelay, func() {
		r.mu.Lock()
		defer r.mu.Unlock()

		if r.result != timer {
			return
		}

		r.result = nil
		r.broadcastLocked(newMessage(actionResult, payload))
	})
	r.result = timer
}

func (that *room) cancelResultLocked() {
	if that.result != nil {
		that.result.Stop()
		that.result = nil
	}
}

func (that *room) broadcastLocked(data []byte) {
	for c := range that.clients {
		c.trySend(data)
	}
}

func statePayload(session *entity.Session, result *entity.MoveResult) StatePayload {
	return StatePayload{
		SessionID: session.ID,
		State:     session.State,
		Scores:    session.Scores,
		Result:    result,
		Status:    view.StatusLine(session.State),
		ScoreLine: view.ScoreLine(session.Scores),
	}
}
