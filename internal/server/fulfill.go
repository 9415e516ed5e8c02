package server

import (
	"context"
	"time"

	"github.com/atl3/trendpanel/internal/model"
	"github.com/atl3/trendpanel/internal/state"
)

const fulfillInterval = 15 * time.Second

// OrdersFulfillControl runs the mock fulfillment loop: a collector
// feeds unfinished order ids to a small worker pool that advances each
// one step along Pending -> Processing -> Completed.
func (srv *Server) OrdersFulfillControl(ctx context.Context) {
	workerCount := 3

	ch := make(chan model.Order, 10*workerCount)
	go srv.collectOrders(ctx, ch)

	for i := 0; i < workerCount; i++ {
		go srv.advanceOrders(ctx, ch)
	}
}

func (srv *Server) collectOrders(ctx context.Context, ch chan model.Order) {
	ticker := time.NewTicker(fulfillInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			snap := srv.store.Snapshot()
			skipped := 0
			for _, order := range snap.Orders {
				if order.Status == model.OrderCompleted {
					continue
				}
				select {
				case ch <- order:
				default:
					skipped++
					if skipped%10 == 0 {
						srv.deps.Logger.Warnf("fulfill channel full, skipped %d orders", skipped)
					}
				}
			}
		}
	}
}

func (srv *Server) advanceOrders(ctx context.Context, ch chan model.Order) {
	for {
		select {
		case <-ctx.Done():
			return
		case order := <-ch:
			next, ok := nextStatus(order.Status)
			if !ok {
				continue
			}
			srv.store.Dispatch(state.SetOrderStatus{OrderID: order.ID, Status: next})
		}
	}
}

func nextStatus(s model.OrderStatus) (model.OrderStatus, bool) {
	switch s {
	case model.OrderPending:
		return model.OrderProcessing, true
	case model.OrderProcessing:
		return model.OrderCompleted, true
	default:
		return s, false
	}
}
