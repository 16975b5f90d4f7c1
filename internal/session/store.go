// Package session owns the per-customer conversation sessions and their
// inactivity timers. Sessions are memory-resident only; a process restart
// starts every conversation over.
package session

import (
	"log"
	"sync"
	"time"
)

// State is the conversation engine's position in the menu tree.
type State string

const (
	StateInit                 State = "INIT"
	StateAwaitingUnit         State = "AWAITING_UNIT"
	StateAwaitingOption       State = "AWAITING_OPTION"
	StateAwaitingPedidoMethod State = "AWAITING_PEDIDO_METHOD"
	StateAwaitingOutros       State = "AWAITING_OUTROS"
	StateAwaitingConfirmIssue State = "AWAITING_CONFIRM_ISSUE"
	StateAwaitingModify       State = "AWAITING_MODIFY"
	StateAwaitingCancel       State = "AWAITING_CANCEL"
	StateAwaitingNameCPF      State = "AWAITING_NAME_CPF"

	// StateAwaitingOptionAfterConsult follows a completed consultation. It has
	// no transitions of its own; any further text takes the universal fallback.
	StateAwaitingOptionAfterConsult State = "AWAITING_OPTION_AFTER_CONSULT"

	// StateAwaitingHuman means the conversation was handed to an attendant and
	// the bot stays quiet.
	StateAwaitingHuman State = "AWAITING_HUMAN"
)

// Session tracks one customer's progress through the menu tree.
// Field writes happen from the engine's dispatch with no per-session lock;
// concurrent messages from the same phone are last-writer-wins.
type Session struct {
	Phone           string
	State           State
	Unit            string
	LastIssue       string
	LastInteraction time.Time

	// timer is the pending inactivity callback. timerGen lets an expired
	// timer detect that a reset replaced it while it was waiting on the lock.
	timer    *time.Timer
	timerGen uint64
}

// TimeoutFunc is invoked after a session idles out, with the state the
// session was in before being forced to StateAwaitingHuman.
type TimeoutFunc func(phone string, last State)

// Store maps phone numbers to sessions and schedules their inactivity timers.
type Store struct {
	mu         sync.Mutex
	sessions   map[string]*Session
	inactivity time.Duration
	onTimeout  TimeoutFunc
}

func NewStore(inactivity time.Duration) *Store {
	return &Store{
		sessions:   make(map[string]*Session),
		inactivity: inactivity,
	}
}

// SetTimeoutFunc installs the escalation callback. Call once during wiring,
// before the store sees traffic.
func (st *Store) SetTimeoutFunc(fn TimeoutFunc) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.onTimeout = fn
}

// GetOrCreate returns the session for phone, creating it in StateInit with a
// fresh inactivity timer on first contact. Creation is idempotent.
func (st *Store) GetOrCreate(phone string) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()

	if s, ok := st.sessions[phone]; ok {
		return s
	}

	s := &Session{
		Phone:           phone,
		State:           StateInit,
		LastInteraction: time.Now(),
	}
	st.sessions[phone] = s
	st.scheduleLocked(s)
	log.Printf("session: created for %s", phone)
	return s
}

// Get returns the session for phone if one exists.
func (st *Store) Get(phone string) (*Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[phone]
	return s, ok
}

// ResetTimer cancels any pending inactivity timer for phone and schedules a
// new one, updating LastInteraction. Called on every inbound message; rapid
// repeated calls leave exactly one live timer.
func (st *Store) ResetTimer(phone string) {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, ok := st.sessions[phone]
	if !ok {
		return
	}
	s.LastInteraction = time.Now()
	st.scheduleLocked(s)
}

// Len reports the number of live sessions.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// scheduleLocked replaces the session's timer. Cancellation precedes
// scheduling so a burst of resets never leaks a firing. Callers hold st.mu.
func (st *Store) scheduleLocked(s *Session) {
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timerGen++
	gen := s.timerGen
	phone := s.Phone
	s.timer = time.AfterFunc(st.inactivity, func() {
		st.expire(phone, gen)
	})
}

// expire runs when an inactivity timer fires. It forces the session to
// StateAwaitingHuman and invokes the timeout callback once. The timer is not
// rescheduled; the next inbound message does that.
func (st *Store) expire(phone string, gen uint64) {
	st.mu.Lock()
	s, ok := st.sessions[phone]
	if !ok || s.timerGen != gen {
		// A reset replaced this timer while it was firing.
		st.mu.Unlock()
		return
	}
	last := s.State
	s.State = StateAwaitingHuman
	s.timer = nil
	fn := st.onTimeout
	st.mu.Unlock()

	log.Printf("session: %s idle in state %s, forwarding to attendant", phone, last)
	if fn != nil {
		fn(phone, last)
	}
}
