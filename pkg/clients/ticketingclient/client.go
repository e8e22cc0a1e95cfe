package ticketingclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"

	"github.com/jakechorley/event-planner/pkg/clients/integration"
)

const serviceName = "ticketing"

// Client wraps the ticketing HTTP API. It is read-only.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a ticketing client authenticated with a bearer token.
// Returns integration.ErrNotConfigured when the base URL or token is empty.
func NewClient(ctx context.Context, baseURL string, token string) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" || strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("ticketing base URL and token are required: %w", integration.ErrNotConfigured)
	}

	tokenSource := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: oauth2.NewClient(ctx, tokenSource),
	}, nil
}

// GetEvent fetches the ticketing event's metadata
func (c *Client) GetEvent(ctx context.Context, ref string) (*Event, error) {
	var event Event
	if err := c.get(ctx, eventPath(ref), &event); err != nil {
		return nil, fmt.Errorf("failed to get ticketing event: %w", err)
	}
	return &event, nil
}

// ListDeals fetches the ticket types on sale for an event
func (c *Client) ListDeals(ctx context.Context, ref string) ([]Deal, error) {
	var deals []Deal
	if err := c.get(ctx, eventPath(ref)+"/deals", &deals); err != nil {
		return nil, fmt.Errorf("failed to list deals: %w", err)
	}
	return deals, nil
}

// ListTickets fetches the tickets issued for an event
func (c *Client) ListTickets(ctx context.Context, ref string) ([]Ticket, error) {
	var tickets []Ticket
	if err := c.get(ctx, eventPath(ref)+"/tickets", &tickets); err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	return tickets, nil
}

func eventPath(ref string) string {
	return "/events/" + url.PathEscape(ref)
}

// get issues a GET and decodes the body into out, unwrapping a {"data": ...} envelope if present
func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return integration.WrapTransportError(serviceName, err)
	}
	defer resp.Body.Close()

	if err := integration.CheckResponse(serviceName, resp); err != nil {
		return err
	}

	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return decodePayload(raw, out)
}

func decodePayload(raw json.RawMessage, out interface{}) error {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil
	}

	if strings.HasPrefix(trimmed, "{") {
		var envelope struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(raw, &envelope); err == nil && len(envelope.Data) > 0 {
			raw = envelope.Data
		}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode payload: %w", err)
	}
	return nil
}
