package mqtt

import (
	"strings"
	"sync"
	"time"
)

// TerminalState is a voice terminal's last known presence.
type TerminalState struct {
	TerminalID string
	SessionID  string
	Online     bool
	LastSeen   time.Time
}

// Presence tracks which terminals are online. Entries expire when a terminal
// stops heartbeating.
type Presence struct {
	mu   sync.RWMutex
	data map[string]TerminalState
	ttl  time.Duration
}

func NewPresence(ttl time.Duration) *Presence {
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	return &Presence{
		data: make(map[string]TerminalState),
		ttl:  ttl,
	}
}

func (p *Presence) SetOnline(terminalID string, online bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	state := p.data[terminalID]
	state.TerminalID = terminalID
	state.Online = online
	state.LastSeen = time.Now()
	p.data[terminalID] = state
}

func (p *Presence) SetSession(terminalID, sessionID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	state := p.data[terminalID]
	state.TerminalID = terminalID
	state.SessionID = sessionID
	state.LastSeen = time.Now()
	p.data[terminalID] = state
}

func (p *Presence) GetState(terminalID string) (TerminalState, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	state, ok := p.data[terminalID]
	if !ok || p.isExpired(state) {
		return TerminalState{}, false
	}
	return state, true
}

func (p *Presence) ListOnline() []TerminalState {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]TerminalState, 0, len(p.data))
	for _, state := range p.data {
		if strings.TrimSpace(state.TerminalID) == "" {
			continue
		}
		if !state.Online || p.isExpired(state) {
			continue
		}
		out = append(out, state)
	}
	return out
}

func (p *Presence) isExpired(state TerminalState) bool {
	if p.ttl <= 0 {
		return false
	}
	return time.Since(state.LastSeen) > p.ttl
}
