package state

import (
	"time"

	"github.com/atl3/trendpanel/internal/model"
)

const (
	dateLayout    = "01/02/2006"
	messageLayout = "01/02/2006, 3:04 PM"
)

// now is swapped in tests to pin message timestamps.
var now = time.Now

// Reduce computes the next state for one action. It never mutates its
// input: any collection a transition touches is copied first. The
// second return reports whether the action was recognized; an
// unrecognized or nil action returns the input unchanged.
//
// Lookup misses (unknown ticket or order id) are silent no-ops: the
// state comes back with the collection unchanged.
func Reduce(s model.State, a Action) (model.State, bool) {
	switch a := a.(type) {
	case AddOrder:
		orders := make([]model.Order, 0, len(s.Orders)+1)
		orders = append(orders, a.Order)
		s.Orders = append(orders, s.Orders...)
		return s, true

	case DeductBalance:
		s.Balance = s.Balance.Sub(a.Amount)
		s.Spent = s.Spent.Add(a.Amount)
		return s, true

	case AddFunds:
		s.Balance = s.Balance.Add(a.Amount)
		return s, true

	case AddTicket:
		tickets := make([]model.Ticket, 0, len(s.Tickets)+1)
		tickets = append(tickets, a.Ticket)
		s.Tickets = append(tickets, s.Tickets...)
		return s, true

	case ReplyTicket:
		tickets := make([]model.Ticket, len(s.Tickets))
		copy(tickets, s.Tickets)
		for i, t := range tickets {
			if t.ID != a.TicketID {
				continue
			}
			ts := now()
			msgs := make([]model.Message, len(t.Messages), len(t.Messages)+1)
			copy(msgs, t.Messages)
			t.Messages = append(msgs, model.Message{
				Sender: a.Sender,
				Text:   a.Text,
				Date:   ts.Format(messageLayout),
			})
			if a.Sender == model.SenderAdmin {
				t.Status = model.TicketAnswered
			} else {
				t.Status = model.TicketOpen
			}
			t.LastUpdated = ts.Format(dateLayout)
			tickets[i] = t
		}
		s.Tickets = tickets
		return s, true

	case SetServices:
		s.Services = a.Services
		return s, true

	case AddService:
		services := make([]model.Service, len(s.Services), len(s.Services)+1)
		copy(services, s.Services)
		s.Services = append(services, a.Service)
		return s, true

	case LoadState:
		return a.State, true

	case SetOrderStatus:
		orders := make([]model.Order, len(s.Orders))
		copy(orders, s.Orders)
		for i := range orders {
			if orders[i].ID == a.OrderID {
				orders[i].Status = a.Status
			}
		}
		s.Orders = orders
		return s, true

	case CreditUserBalance:
		users := make([]model.Account, len(s.AllUsers))
		copy(users, s.AllUsers)
		var creditedName string
		for i := range users {
			if users[i].ID == a.UserID {
				users[i].Balance = users[i].Balance.Add(a.Amount)
				creditedName = users[i].Name
			}
		}
		s.AllUsers = users
		// The root balance mirrors the directory change only when the
		// active session's name matches the credited account's name,
		// and the session is not "Admin". Names are not unique, so the
		// match is brittle; kept as the storefront defined it.
		if s.Name != "Admin" && creditedName != "" && creditedName == s.Name {
			s.Balance = s.Balance.Add(a.Amount)
		}
		return s, true

	default:
		return s, false
	}
}
