package state

import (
	"github.com/atl3/trendpanel/internal/model"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultState is the demo state a fresh client starts from before any
// persisted blob is loaded.
func DefaultState() model.State {
	return model.State{
		Name:    "John Doe",
		Balance: decimal.NewFromFloat(5.00),
		Spent:   decimal.NewFromFloat(125.50),
		Orders: []model.Order{
			{
				ID:          "ord-8821",
				ServiceID:   "201",
				ServiceName: "Instagram Followers",
				Link:        "https://inst...",
				Quantity:    1000,
				Charge:      decimal.NewFromFloat(2.50),
				Status:      model.OrderCompleted,
				Date:        "10/24/2023",
			},
			{
				ID:          "ord-8822",
				ServiceID:   "101",
				ServiceName: "TikTok Views",
				Link:        "https://tik...",
				Quantity:    500,
				Charge:      decimal.NewFromFloat(2.00),
				Status:      model.OrderProcessing,
				Date:        "10/25/2023",
			},
		},
		Tickets: []model.Ticket{
			{
				ID:          "tkt-001",
				Subject:     "Order Stuck",
				Status:      model.TicketAnswered,
				LastUpdated: "10/26/2023",
				Messages: []model.Message{
					{Sender: model.SenderUser, Text: "My order #8822 is still processing.", Date: "10/26/2023, 10:00 AM"},
					{Sender: model.SenderAdmin, Text: "Hi, we are looking into it.", Date: "10/26/2023, 10:15 AM"},
				},
			},
		},
		Services: []model.Service{},
		AllUsers: []model.Account{
			{
				ID:      "u1",
				Name:    "Demo User",
				Email:   "user@example.com",
				Role:    model.RoleUser,
				Balance: decimal.NewFromFloat(5.00),
				Spent:   decimal.NewFromFloat(125.50),
				Orders:  []model.Order{},
			},
			{
				ID:      "u2",
				Name:    "Admin",
				Email:   "admin@atl3.com",
				Role:    model.RoleAdmin,
				Balance: decimal.NewFromFloat(9999.00),
				Spent:   decimal.Zero,
				Orders:  []model.Order{},
			},
		},
	}
}

// NewOrderID mints an order id in the panel's ord- format.
func NewOrderID() string { return "ord-" + shortID() }

// NewTicketID mints a ticket id in the panel's tkt- format.
func NewTicketID() string { return "tkt-" + shortID() }

func shortID() string {
	return uuid.NewString()[:8]
}
