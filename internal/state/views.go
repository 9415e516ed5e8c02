package state

import (
	"sort"

	"github.com/atl3/trendpanel/internal/model"
	"github.com/shopspring/decimal"
)

// ServiceCount is one row of the per-service order leaderboard.
type ServiceCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// OrderCounts holds the status breakdown shown on the dashboard.
// Active counts every order that is not yet Completed.
type OrderCounts struct {
	Total      int `json:"total"`
	Active     int `json:"active"`
	Pending    int `json:"pending"`
	Processing int `json:"processing"`
	Completed  int `json:"completed"`
}

// TotalRevenue sums the charge over all orders. A zero-value charge
// contributes nothing.
func TotalRevenue(orders []model.Order) decimal.Decimal {
	total := decimal.Zero
	for _, o := range orders {
		total = total.Add(o.Charge)
	}
	return total
}

// TopServices groups orders by service name and returns the n most
// ordered, ties broken by which service was seen first in the list.
func TopServices(orders []model.Order, n int) []ServiceCount {
	counts := make(map[string]int)
	var seen []string
	for _, o := range orders {
		if o.ServiceName == "" {
			continue
		}
		if _, ok := counts[o.ServiceName]; !ok {
			seen = append(seen, o.ServiceName)
		}
		counts[o.ServiceName]++
	}

	out := make([]ServiceCount, 0, len(seen))
	for _, name := range seen {
		out = append(out, ServiceCount{Name: name, Count: counts[name]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })

	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// OpenTicketCount counts tickets that are not Closed.
func OpenTicketCount(tickets []model.Ticket) int {
	count := 0
	for _, t := range tickets {
		if t.Status != model.TicketClosed {
			count++
		}
	}
	return count
}

func CountOrders(orders []model.Order) OrderCounts {
	var c OrderCounts
	c.Total = len(orders)
	for _, o := range orders {
		switch o.Status {
		case model.OrderPending:
			c.Pending++
		case model.OrderProcessing:
			c.Processing++
		case model.OrderCompleted:
			c.Completed++
		}
		if o.Status != model.OrderCompleted {
			c.Active++
		}
	}
	return c
}
