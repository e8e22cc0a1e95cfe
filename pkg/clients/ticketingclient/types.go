package ticketingclient

// Event is the ticketing platform's view of an event
type Event struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	StartTime string `json:"start_time"`
	URL       string `json:"url"`
	Capacity  int    `json:"capacity"`
}

// Deal is a ticket type with its price
type Deal struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// Ticket is a single issued ticket
type Ticket struct {
	ID      string  `json:"id"`
	DealID  string  `json:"deal_id"`
	Status  string  `json:"status"`
	Price   float64 `json:"price"`
	Scanned bool    `json:"scanned"`
}

// IsCancelled reports whether the ticket no longer counts as sold
func (t Ticket) IsCancelled() bool {
	switch t.Status {
	case "canceled", "cancelled", "refunded":
		return true
	}
	return false
}

// DealSummary aggregates the tickets sold for one deal
type DealSummary struct {
	DealID  string  `json:"dealId"`
	Name    string  `json:"name"`
	Sold    int     `json:"sold"`
	Revenue float64 `json:"revenue"`
}

// Summary aggregates an event's sales
type Summary struct {
	EventName string        `json:"eventName"`
	Capacity  int           `json:"capacity"`
	Sold      int           `json:"sold"`
	Scanned   int           `json:"scanned"`
	Revenue   float64       `json:"revenue"`
	Deals     []DealSummary `json:"deals"`
}
