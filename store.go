package htmlelements

import "sync"

// Store holds the current State of one display session.
type Store struct {
	mu    sync.RWMutex
	state State
}

// NewStore creates a store seeded with initial.
func NewStore(initial State) *Store {
	return &Store{state: initial}
}

// Snapshot returns the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Dispatch applies ev and stores the result. On error the stored state is
// left as it was and the unchanged state is returned.
func (s *Store) Dispatch(ev Event) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := Apply(s.state, ev)
	if err != nil {
		return s.state, err
	}
	s.state = next
	return next, nil
}

// HandleAction decodes a raw browser event and dispatches it.
func (s *Store) HandleAction(action string, data map[string]interface{}) (State, error) {
	ev, err := DecodeEvent(action, data)
	if err != nil {
		return s.Snapshot(), err
	}
	return s.Dispatch(ev)
}
