// Package trello reads the knowledge board from the Trello REST API
package trello

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"helpbot/internal/domain"
	"helpbot/internal/ports"
)

const defaultBaseURL = "https://api.trello.com/1"

// maxBodyBytes bounds how much of a response is read
const maxBodyBytes = 8 << 20

// ClientOptions configures a Client
type ClientOptions struct {
	BaseURL    string
	Key        string
	Token      string
	HTTPClient *http.Client
	UserAgent  string
}

// Client implements ports.RemoteSource over HTTP
type Client struct {
	baseURL    string
	key        string
	token      string
	httpClient *http.Client
	userAgent  string
}

// Ensure Client implements RemoteSource
var _ ports.RemoteSource = (*Client)(nil)

// NewClient creates a client authenticated with an API key and token
func NewClient(opts ClientOptions) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 20 * time.Second}
	}
	return &Client{
		baseURL:    baseURL,
		key:        opts.Key,
		token:      opts.Token,
		httpClient: httpClient,
		userAgent:  strings.TrimSpace(opts.UserAgent),
	}
}

type apiLabel struct {
	Color string `json:"color"`
	Name  string `json:"name"`
}

type apiList struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	IDBoard string `json:"idBoard"`
}

type apiCard struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Desc      string     `json:"desc"`
	URL       string     `json:"url"`
	ShortURL  string     `json:"shortUrl"`
	ShortLink string     `json:"shortLink"`
	Labels    []apiLabel `json:"labels"`
}

func (c apiCard) toDomain() domain.RemoteCard {
	labels := make([]domain.Label, len(c.Labels))
	for i, l := range c.Labels {
		labels[i] = domain.Label{Color: l.Color, Name: l.Name}
	}
	return domain.RemoteCard{
		ID:        c.ID,
		Name:      c.Name,
		Desc:      c.Desc,
		URL:       c.URL,
		ShortURL:  c.ShortURL,
		ShortLink: c.ShortLink,
		Labels:    labels,
	}
}

// ListBoardLists returns the open lists of a board in board order
func (c *Client) ListBoardLists(ctx context.Context, boardID string) ([]domain.RemoteList, error) {
	if strings.TrimSpace(boardID) == "" {
		return nil, fmt.Errorf("%w: invalid board ID", domain.ErrRemoteMalformed)
	}
	var lists []apiList
	if err := c.get(ctx, "list board lists", "/boards/"+url.PathEscape(boardID)+"/lists", &lists); err != nil {
		return nil, err
	}
	out := make([]domain.RemoteList, len(lists))
	for i, l := range lists {
		out[i] = domain.RemoteList{ID: l.ID, Name: l.Name, BoardID: l.IDBoard}
	}
	return out, nil
}

// ListCards returns the open cards of a list
func (c *Client) ListCards(ctx context.Context, listID string) ([]domain.RemoteCard, error) {
	if strings.TrimSpace(listID) == "" {
		return nil, fmt.Errorf("%w: invalid list ID", domain.ErrRemoteMalformed)
	}
	var cards []apiCard
	if err := c.get(ctx, "list cards", "/lists/"+url.PathEscape(listID)+"/cards", &cards); err != nil {
		return nil, err
	}
	out := make([]domain.RemoteCard, len(cards))
	for i, card := range cards {
		out[i] = card.toDomain()
	}
	return out, nil
}

// GetCard fetches a single card
func (c *Client) GetCard(ctx context.Context, cardID string) (domain.RemoteCard, error) {
	if strings.TrimSpace(cardID) == "" {
		return domain.RemoteCard{}, fmt.Errorf("%w: invalid card ID", domain.ErrRemoteMalformed)
	}
	var card apiCard
	if err := c.get(ctx, "get card", "/cards/"+url.PathEscape(cardID), &card); err != nil {
		return domain.RemoteCard{}, err
	}
	return card.toDomain(), nil
}

// Webhook is a registered board webhook
type Webhook struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	CallbackURL string `json:"callbackURL"`
	IDModel     string `json:"idModel"`
	Active      bool   `json:"active"`
}

// RegisterWebhook asks Trello to POST board actions to callbackURL.
// Trello probes the callback with a HEAD request before accepting it.
func (c *Client) RegisterWebhook(ctx context.Context, boardID, callbackURL, description string) (Webhook, error) {
	if strings.TrimSpace(boardID) == "" {
		return Webhook{}, fmt.Errorf("%w: invalid board ID", domain.ErrRemoteMalformed)
	}
	payload, err := json.Marshal(Webhook{
		Description: description,
		CallbackURL: callbackURL,
		IDModel:     boardID,
		Active:      true,
	})
	if err != nil {
		return Webhook{}, err
	}
	var hook Webhook
	if err := c.do(ctx, http.MethodPost, "register webhook", "/webhooks", bytes.NewReader(payload), &hook); err != nil {
		return Webhook{}, err
	}
	return hook, nil
}

func (c *Client) get(ctx context.Context, op, path string, out any) error {
	return c.do(ctx, http.MethodGet, op, path, nil, out)
}

func (c *Client) do(ctx context.Context, method, op, path string, body io.Reader, out any) error {
	endpoint, err := url.Parse(c.baseURL + path)
	if err != nil {
		return &domain.RemoteError{Op: op, Kind: domain.ErrRemoteMalformed, Err: err}
	}
	q := endpoint.Query()
	q.Set("key", c.key)
	q.Set("token", c.token)
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), body)
	if err != nil {
		return &domain.RemoteError{Op: op, Kind: domain.ErrRemoteUnreachable, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &domain.RemoteError{Op: op, Kind: domain.ErrRemoteUnreachable, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return &domain.RemoteError{Op: op, Kind: domain.ErrRemoteUnreachable, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &domain.RemoteError{
			Op:     op,
			Status: resp.StatusCode,
			Kind:   domain.ErrRemoteUnreachable,
			Err:    fmt.Errorf("%s", strings.TrimSpace(string(respBody))),
		}
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return &domain.RemoteError{Op: op, Kind: domain.ErrRemoteMalformed, Err: err}
	}
	return nil
}
