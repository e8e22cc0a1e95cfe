package socialclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/oauth2"

	"github.com/jakechorley/event-planner/pkg/clients/integration"
)

const (
	serviceName = "social"
	mediaFields = "id,caption,media_type,media_url,permalink,timestamp,like_count,comments_count"

	// Graph error code for an expired or revoked access token
	invalidTokenCode = 190
)

// Client wraps a Graph-style social media API for one business account
type Client struct {
	baseURL    string
	accountID  string
	httpClient *http.Client
}

// Media is a published item with its engagement counts
type Media struct {
	ID            string `json:"id"`
	Caption       string `json:"caption"`
	MediaType     string `json:"media_type"`
	MediaURL      string `json:"media_url"`
	Permalink     string `json:"permalink"`
	Timestamp     string `json:"timestamp"`
	LikeCount     int    `json:"like_count"`
	CommentsCount int    `json:"comments_count"`
}

// NewClient creates a social client. Returns integration.ErrNotConfigured when any setting is empty.
func NewClient(ctx context.Context, baseURL string, accountID string, token string) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" || strings.TrimSpace(accountID) == "" || strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("social base URL, account and token are required: %w", integration.ErrNotConfigured)
	}

	tokenSource := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		accountID:  accountID,
		httpClient: oauth2.NewClient(ctx, tokenSource),
	}, nil
}

// Publish posts an image with a caption in two steps: create a media container, then publish it.
// Returns the published post's id.
func (c *Client) Publish(ctx context.Context, imageURL string, caption string) (string, error) {
	if strings.TrimSpace(imageURL) == "" {
		return "", errors.New("an image URL is required to publish")
	}

	var container struct {
		ID string `json:"id"`
	}
	form := url.Values{"image_url": {imageURL}, "caption": {caption}}
	if err := c.post(ctx, c.accountPath("/media"), form, &container); err != nil {
		return "", fmt.Errorf("failed to create media container: %w", err)
	}
	if container.ID == "" {
		return "", errors.New("failed to create media container: empty container id")
	}

	var published struct {
		ID string `json:"id"`
	}
	if err := c.post(ctx, c.accountPath("/media_publish"), url.Values{"creation_id": {container.ID}}, &published); err != nil {
		return "", fmt.Errorf("failed to publish media container %s: %w", container.ID, err)
	}
	if published.ID == "" {
		return "", fmt.Errorf("failed to publish media container %s: empty post id", container.ID)
	}

	return published.ID, nil
}

// RecentMedia lists the account's most recent media, newest first
func (c *Client) RecentMedia(ctx context.Context, limit int) ([]Media, error) {
	query := url.Values{"fields": {mediaFields}}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.accountPath("/media")+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	var page struct {
		Data []Media `json:"data"`
	}
	if err := c.do(req, &page); err != nil {
		return nil, fmt.Errorf("failed to list recent media: %w", err)
	}
	if page.Data == nil {
		page.Data = []Media{}
	}

	return page.Data, nil
}

func (c *Client) accountPath(suffix string) string {
	return c.baseURL + "/" + url.PathEscape(c.accountID) + suffix
}

func (c *Client) post(ctx context.Context, endpoint string, form url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return integration.WrapTransportError(serviceName, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return integration.WrapTransportError(serviceName, err)
	}

	if resp.StatusCode >= 400 && isInvalidToken(body) {
		return fmt.Errorf("%s: %w (access token expired or revoked)", serviceName, integration.ErrUnauthorized)
	}

	resp.Body = io.NopCloser(bytes.NewReader(body))
	if err := integration.CheckResponse(serviceName, resp); err != nil {
		return err
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// isInvalidToken detects Graph's OAuthException, which arrives as a 400 rather than a 401
func isInvalidToken(body []byte) bool {
	var graphErr struct {
		Error struct {
			Code int    `json:"code"`
			Type string `json:"type"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &graphErr); err != nil {
		return false
	}
	return graphErr.Error.Code == invalidTokenCode
}
