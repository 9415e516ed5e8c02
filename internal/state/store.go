package state

import (
	"sync"

	"github.com/atl3/trendpanel/internal/model"
	"go.uber.org/zap"
)

// Persister is the durable storage the store writes through after each
// mutating action. Save is best effort; a failed save must not affect
// the in-memory state.
type Persister interface {
	Save(s *model.State) error
	Load() *model.State
}

// Store owns the application state. It is the single writer: all
// mutations go through Dispatch, readers get copies via Snapshot.
type Store struct {
	mu     sync.Mutex
	state  model.State
	keep   Persister
	logger *zap.SugaredLogger
}

// NewStore seeds the demo state and then overwrites it wholesale if the
// persister holds a usable prior blob.
func NewStore(keep Persister, logger *zap.SugaredLogger) *Store {
	st := &Store{keep: keep, logger: logger, state: DefaultState()}
	if loaded := keep.Load(); loaded != nil {
		st.state, _ = Reduce(st.state, LoadState{State: *loaded})
	}
	return st
}

// Dispatch runs the reducer and persists the result. Every recognized
// action is persisted except LoadState, which is itself the product of
// a prior load. Save failures are logged and otherwise swallowed.
func (st *Store) Dispatch(a Action) model.State {
	st.mu.Lock()
	defer st.mu.Unlock()

	next, handled := Reduce(st.state, a)
	st.state = next
	if handled {
		if _, isLoad := a.(LoadState); !isLoad {
			if err := st.keep.Save(&next); err != nil {
				st.logger.Debugf("persist state: %v", err)
			}
		}
	}
	return cloneState(next)
}

// Snapshot returns a deep copy of the current state for read-only use.
func (st *Store) Snapshot() model.State {
	st.mu.Lock()
	defer st.mu.Unlock()
	return cloneState(st.state)
}

func cloneState(s model.State) model.State {
	out := s
	if s.Orders != nil {
		out.Orders = make([]model.Order, len(s.Orders))
		copy(out.Orders, s.Orders)
	}
	if s.Tickets != nil {
		out.Tickets = make([]model.Ticket, len(s.Tickets))
		copy(out.Tickets, s.Tickets)
		for i, t := range out.Tickets {
			if t.Messages != nil {
				msgs := make([]model.Message, len(t.Messages))
				copy(msgs, t.Messages)
				out.Tickets[i].Messages = msgs
			}
		}
	}
	if s.Services != nil {
		out.Services = make([]model.Service, len(s.Services))
		copy(out.Services, s.Services)
	}
	if s.AllUsers != nil {
		out.AllUsers = make([]model.Account, len(s.AllUsers))
		copy(out.AllUsers, s.AllUsers)
		for i, u := range out.AllUsers {
			if u.Orders != nil {
				orders := make([]model.Order, len(u.Orders))
				copy(orders, u.Orders)
				out.AllUsers[i].Orders = orders
			}
		}
	}
	return out
}
