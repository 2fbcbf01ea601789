package auth

import "sync"

// Event records an identity change on a browsing session: UserID is the
// signed-in account, or empty after a logout.
type Event struct {
	SessionID string
	UserID    string
}

// Sessions fans auth events out to subscribers. The cart service listens
// on one of these channels to reconcile local and remote carts.
type Sessions struct {
	mu   sync.Mutex
	subs []chan Event
}

func NewSessions() *Sessions {
	return &Sessions{}
}

// Subscribe returns a channel that receives every subsequent auth event.
func (s *Sessions) Subscribe() <-chan Event {
	ch := make(chan Event, 16)
	s.mu.Lock()
	s.subs = append(s.subs, ch)
	s.mu.Unlock()
	return ch
}

// Publish delivers an event to every subscriber. Slow subscribers drop
// events rather than block the login path.
func (s *Sessions) Publish(sessionID, userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- Event{SessionID: sessionID, UserID: userID}:
		default:
		}
	}
}

// Close closes all subscriber channels.
func (s *Sessions) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subs {
		close(ch)
	}
	s.subs = nil
}
