package state

import (
	"github.com/atl3/trendpanel/internal/model"
	"github.com/shopspring/decimal"
)

// Action is the closed vocabulary of state transitions. Every mutation
// of the application state goes through one of these; there is no other
// way to alter balances, orders or tickets.
type Action interface{ action() }

// AddOrder prepends an order to the order list.
type AddOrder struct{ Order model.Order }

// DeductBalance decreases the balance and increases spend-to-date by
// the same amount in one transition.
type DeductBalance struct{ Amount decimal.Decimal }

// AddFunds increases the balance.
type AddFunds struct{ Amount decimal.Decimal }

// AddTicket prepends a ticket to the ticket list.
type AddTicket struct{ Ticket model.Ticket }

// ReplyTicket appends a message to a ticket's thread and moves the
// ticket to Answered (admin sender) or Open (user sender).
type ReplyTicket struct {
	TicketID string
	Text     string
	Sender   model.Sender
}

// SetServices overwrites the service catalog.
type SetServices struct{ Services []model.Service }

// AddService appends one catalog entry.
type AddService struct{ Service model.Service }

// LoadState replaces the entire state wholesale with a previously
// persisted blob.
type LoadState struct{ State model.State }

// SetOrderStatus sets an order's status. Any status may follow any
// other; no transition is checked.
type SetOrderStatus struct {
	OrderID string
	Status  model.OrderStatus
}

// CreditUserBalance increases a directory account's balance.
type CreditUserBalance struct {
	UserID string
	Amount decimal.Decimal
}

func (AddOrder) action()          {}
func (DeductBalance) action()     {}
func (AddFunds) action()          {}
func (AddTicket) action()         {}
func (ReplyTicket) action()       {}
func (SetServices) action()       {}
func (AddService) action()        {}
func (LoadState) action()         {}
func (SetOrderStatus) action()    {}
func (CreditUserBalance) action() {}
