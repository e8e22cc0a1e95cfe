package ticketingclient

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Summary fetches event, deals and tickets concurrently and aggregates the sales
func (c *Client) Summary(ctx context.Context, ref string) (*Summary, error) {
	var (
		event   *Event
		deals   []Deal
		tickets []Ticket
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		event, err = c.GetEvent(gctx, ref)
		return err
	})
	g.Go(func() error {
		var err error
		deals, err = c.ListDeals(gctx, ref)
		return err
	})
	g.Go(func() error {
		var err error
		tickets, err = c.ListTickets(gctx, ref)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to fetch ticketing data for %s: %w", ref, err)
	}

	return Aggregate(event, deals, tickets), nil
}

// Aggregate builds a Summary. Deals keep their listed order; tickets for unlisted deals
// are grouped under their deal id.
func Aggregate(event *Event, deals []Deal, tickets []Ticket) *Summary {
	summary := &Summary{Deals: []DealSummary{}}
	if event != nil {
		summary.EventName = event.Name
		summary.Capacity = event.Capacity
	}

	index := make(map[string]int, len(deals))
	prices := make(map[string]float64, len(deals))
	for _, deal := range deals {
		index[deal.ID] = len(summary.Deals)
		prices[deal.ID] = deal.Price
		summary.Deals = append(summary.Deals, DealSummary{DealID: deal.ID, Name: deal.Name})
	}

	for _, ticket := range tickets {
		if ticket.IsCancelled() {
			continue
		}

		price := ticket.Price
		if price == 0 {
			price = prices[ticket.DealID]
		}

		summary.Sold++
		summary.Revenue += price
		if ticket.Scanned {
			summary.Scanned++
		}

		i, ok := index[ticket.DealID]
		if !ok {
			i = len(summary.Deals)
			index[ticket.DealID] = i
			summary.Deals = append(summary.Deals, DealSummary{DealID: ticket.DealID, Name: ticket.DealID})
		}
		summary.Deals[i].Sold++
		summary.Deals[i].Revenue += price
	}

	return summary
}
