package authstate

import (
	"sync"

	"github.com/dd0wney/cluso-portal/pkg/logging"
)

// Store holds the single auth state instance. All transitions go through
// Dispatch, which serializes them in dispatch order; no component mutates
// the state directly. Reads via State take a one-shot snapshot.
type Store struct {
	mu          sync.Mutex
	state       State
	queue       []Action
	dispatching bool
	nextID      int
	stateSubs   map[int]func(State)
	actionSubs  map[int]func(Action, State)
	logger      logging.Logger
}

// Subscription is a handle for a long-lived store subscription. Unsubscribe
// releases it and is safe to call more than once.
type Subscription struct {
	once    sync.Once
	release func()
}

// Unsubscribe removes the subscription from the store.
func (s *Subscription) Unsubscribe() {
	s.once.Do(s.release)
}

// NewStore creates a store at the initial logged-out state.
func NewStore(logger logging.Logger) *Store {
	if logger == nil {
		logger = logging.DefaultLogger()
	}
	return &Store{
		state:      InitialState(),
		stateSubs:  make(map[int]func(State)),
		actionSubs: make(map[int]func(Action, State)),
		logger:     logger.With(logging.Component("authstate")),
	}
}

// State returns a snapshot of the current state. The snapshot observes every
// transition dispatched-and-processed before the call.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch applies the action through the reducer and notifies subscribers.
// Actions dispatched while a dispatch is in progress (including reentrant
// dispatches from subscribers) are queued and applied in order; each
// transition runs to completion before the next begins.
func (s *Store) Dispatch(action Action) {
	s.mu.Lock()
	s.queue = append(s.queue, action)
	if s.dispatching {
		s.mu.Unlock()
		return
	}
	s.dispatching = true

	for len(s.queue) > 0 {
		next := s.queue[0]
		s.queue = s.queue[1:]

		s.state = Reduce(s.state, next)
		state := s.state

		stateSubs := make([]func(State), 0, len(s.stateSubs))
		for _, fn := range s.stateSubs {
			stateSubs = append(stateSubs, fn)
		}
		actionSubs := make([]func(Action, State), 0, len(s.actionSubs))
		for _, fn := range s.actionSubs {
			actionSubs = append(actionSubs, fn)
		}
		s.mu.Unlock()

		s.logger.Debug("action dispatched",
			logging.ActionKind(next.Kind()),
			logging.Bool("authenticated", state.IsAuthenticated))

		for _, fn := range stateSubs {
			fn(state)
		}
		for _, fn := range actionSubs {
			fn(next, state)
		}

		s.mu.Lock()
	}

	s.dispatching = false
	s.mu.Unlock()
}

// Subscribe registers a long-lived observer of state transitions. The
// returned handle must be released when the observer is torn down.
func (s *Store) Subscribe(fn func(State)) *Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.stateSubs[id] = fn
	return &Subscription{release: func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.stateSubs, id)
	}}
}

// OnAction registers an observer of dispatched actions, invoked after the
// reducer has applied each action. Effects hang off this hook.
func (s *Store) OnAction(fn func(Action, State)) *Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.actionSubs[id] = fn
	return &Subscription{release: func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.actionSubs, id)
	}}
}
