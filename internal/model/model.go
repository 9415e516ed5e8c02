package model

import "github.com/shopspring/decimal"

type OrderStatus string

const (
	OrderPending    OrderStatus = "Pending"
	OrderProcessing OrderStatus = "Processing"
	OrderCompleted  OrderStatus = "Completed"
)

type TicketStatus string

const (
	TicketOpen     TicketStatus = "Open"
	TicketAnswered TicketStatus = "Answered"
	TicketClosed   TicketStatus = "Closed"
)

type Sender string

const (
	SenderUser  Sender = "user"
	SenderAdmin Sender = "admin"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type Order struct {
	ID          string          `json:"id"`
	ServiceID   string          `json:"serviceId,omitempty"`
	ServiceName string          `json:"serviceName"`
	Link        string          `json:"link,omitempty"`
	Quantity    int             `json:"quantity,omitempty"`
	Charge      decimal.Decimal `json:"charge"`
	Status      OrderStatus     `json:"status"`
	Date        string          `json:"date"`
}

type Message struct {
	Sender Sender `json:"sender"`
	Text   string `json:"text"`
	Date   string `json:"date"`
}

// Ticket threads are append-only: messages are never edited or removed
// once added.
type Ticket struct {
	ID          string       `json:"id"`
	Subject     string       `json:"subject"`
	Status      TicketStatus `json:"status"`
	LastUpdated string       `json:"lastUpdated"`
	Messages    []Message    `json:"messages"`
}

// Service is one catalog entry. Rate is the price per 1000 units.
type Service struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Type     string          `json:"type,omitempty"`
	Rate     decimal.Decimal `json:"rate"`
	Min      int             `json:"min"`
	Max      int             `json:"max"`
	Category string          `json:"category,omitempty"`
}

// Account is a directory entry inside the application state. The
// directory duplicates the active session's balance/spent fields; the
// two are not kept atomically consistent by every transition.
type Account struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Email   string          `json:"email"`
	Role    Role            `json:"role"`
	Balance decimal.Decimal `json:"balance"`
	Spent   decimal.Decimal `json:"spent"`
	Orders  []Order         `json:"orders"`
}

// State is the root aggregate owned by the state container. It is the
// exact shape serialized to the persistent store.
type State struct {
	Name     string          `json:"name"`
	Balance  decimal.Decimal `json:"balance"`
	Spent    decimal.Decimal `json:"spent"`
	Orders   []Order         `json:"orders"`
	Tickets  []Ticket        `json:"tickets"`
	Services []Service       `json:"services"`
	AllUsers []Account       `json:"allUsers"`
}

// User is the authenticated identity backed by the users table. It is
// separate from the persisted application state.
type User struct {
	ID    int
	Name  string
	Email string
	Role  Role
}
