// Package transport carries the FICS text session over telnet or a
// WebSocket bridge and hands prompt-delimited chunks to a callback.
package transport

import (
	"context"
	"errors"
	"sync"
	"time"
)

type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateReconnecting
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateReconnecting:
		return "reconnecting"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

var ErrNotConnected = errors.New("transport: not connected")

type ChunkCallback func(text string)

type StateCallback func(state State)

// Conn is a line-oriented FICS session.
type Conn interface {
	Connect(ctx context.Context) error
	// Send writes one command line; the newline is added.
	Send(ctx context.Context, line string) error
	OnChunk(cb ChunkCallback) int
	OnStateChange(cb StateCallback) int
	State() State
	Close(ctx context.Context) error
}

type chunkEntry struct {
	id       int
	callback ChunkCallback
}

type stateEntry struct {
	id       int
	callback StateCallback
}

// hub holds the callbacks and state shared by both transports.
type hub struct {
	state  State
	stateM sync.RWMutex

	chunkCbs []chunkEntry
	stateCbs []stateEntry
	nextID   int
	cbM      sync.RWMutex

	splitter Splitter
}

func (h *hub) OnChunk(cb ChunkCallback) int {
	h.cbM.Lock()
	defer h.cbM.Unlock()
	h.nextID++
	h.chunkCbs = append(h.chunkCbs, chunkEntry{id: h.nextID, callback: cb})
	return h.nextID
}

func (h *hub) OnStateChange(cb StateCallback) int {
	h.cbM.Lock()
	defer h.cbM.Unlock()
	h.nextID++
	h.stateCbs = append(h.stateCbs, stateEntry{id: h.nextID, callback: cb})
	return h.nextID
}

func (h *hub) State() State {
	h.stateM.RLock()
	defer h.stateM.RUnlock()
	return h.state
}

func (h *hub) setState(state State) {
	h.stateM.Lock()
	h.state = state
	h.stateM.Unlock()

	h.cbM.RLock()
	callbacks := make([]stateEntry, len(h.stateCbs))
	copy(callbacks, h.stateCbs)
	h.cbM.RUnlock()
	for _, entry := range callbacks {
		if entry.callback != nil {
			entry.callback(state)
		}
	}
}

// feed runs on the single reader goroutine, so the splitter needs no lock.
func (h *hub) feed(p []byte) {
	chunks := h.splitter.Write(p)
	if len(chunks) == 0 {
		return
	}
	h.cbM.RLock()
	callbacks := make([]chunkEntry, len(h.chunkCbs))
	copy(callbacks, h.chunkCbs)
	h.cbM.RUnlock()
	for _, chunk := range chunks {
		for _, entry := range callbacks {
			if entry.callback != nil {
				entry.callback(chunk)
			}
		}
	}
}

func backoffDuration(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	if attempt > 6 {
		attempt = 6
	}
	base := 500 * time.Millisecond
	return time.Duration(1<<uint(attempt-1)) * base
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

var (
	_ Conn = (*Telnet)(nil)
	_ Conn = (*WebSocket)(nil)
)
