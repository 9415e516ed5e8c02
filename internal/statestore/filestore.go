package statestore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/atl3/trendpanel/internal/model"
)

// FileStore keeps the whole application state as one JSON document at a
// fixed path, the server-side stand-in for the client's durable
// key-value slot. There is no schema versioning; concurrent writers are
// last-writer-wins.
type FileStore struct {
	path string
}

func New(path string) *FileStore {
	return &FileStore{path: path}
}

func (fs *FileStore) Save(s *model.State) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	if dir := filepath.Dir(fs.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create state dir: %w", err)
		}
	}
	if err := os.WriteFile(fs.path, data, 0o644); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	return nil
}

// Load returns nil whenever no usable prior state exists: missing file,
// unreadable file, or a blob that does not parse. Callers must treat
// nil as "no prior state" and keep their seeded defaults.
func (fs *FileStore) Load() *model.State {
	data, err := os.ReadFile(fs.path)
	if err != nil {
		return nil
	}
	var s model.State
	if err := json.Unmarshal(data, &s); err != nil {
		return nil
	}
	normalize(&s)
	return &s
}

// normalize repairs what a structurally valid but sloppy blob can break
// without re-deriving anything: nil collections become empty and
// id-duplicate orders/tickets are dropped, first occurrence wins. The
// rest of the blob is trusted as stored.
func normalize(s *model.State) {
	if s.Orders == nil {
		s.Orders = []model.Order{}
	}
	if s.Tickets == nil {
		s.Tickets = []model.Ticket{}
	}
	if s.Services == nil {
		s.Services = []model.Service{}
	}
	if s.AllUsers == nil {
		s.AllUsers = []model.Account{}
	}

	seenOrders := make(map[string]bool, len(s.Orders))
	orders := s.Orders[:0]
	for _, o := range s.Orders {
		if seenOrders[o.ID] {
			continue
		}
		seenOrders[o.ID] = true
		orders = append(orders, o)
	}
	s.Orders = orders

	seenTickets := make(map[string]bool, len(s.Tickets))
	tickets := s.Tickets[:0]
	for _, t := range s.Tickets {
		if seenTickets[t.ID] {
			continue
		}
		seenTickets[t.ID] = true
		if t.Messages == nil {
			t.Messages = []model.Message{}
		}
		tickets = append(tickets, t)
	}
	s.Tickets = tickets
}
