// Package peppol is the REST client for the access-point provider. It moves
// raw document bytes and message descriptors; it never interprets invoice
// content.
package peppol

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

	"github.com/rs/zerolog"

	"github.com/openbilling/peppolbooks/internal/model"
)

// DefaultEndpoint is the provider's test environment.
const DefaultEndpoint = "https://api.test.peppyrus.be/"

// Message is one inbox message descriptor.
type Message struct {
	ID     string `json:"id"`
	Sender string `json:"sender,omitempty"`
	Date   string `json:"date,omitempty"`
}

// MessageDetail carries the payload of one message. Document is the
// base64-encoded invoice XML.
type MessageDetail struct {
	Document string `json:"document"`
}

// Client talks to the access point over HTTPS with API-key authentication.
type Client struct {
	endpoint string
	apiKey   string
	http     *http.Client
	log      zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithEndpoint overrides the API base URL.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) { c.endpoint = strings.TrimRight(endpoint, "/") + "/" }
}

// WithLogger sets the client logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// NewClient creates a client for the given API key.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		endpoint: DefaultEndpoint,
		apiKey:   apiKey,
		http:     &http.Client{Timeout: 30 * time.Second},
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Send posts generated invoice bytes to the access point verbatim and
// returns the provider's status code and response body.
func (c *Client) Send(ctx context.Context, xmlBytes []byte) (int, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"v1/message/send", bytes.NewReader(xmlBytes))
	if err != nil {
		return 0, "", err
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Content-Type", "application/xml")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, "", fmt.Errorf("send invoice: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, "", fmt.Errorf("read send response: %w", err)
	}

	c.log.Info().Int("status", resp.StatusCode).Int("bytes", len(xmlBytes)).Msg("invoice sent")
	return resp.StatusCode, string(body), nil
}

// ListMessages returns the inbox message descriptors. A 404 means an empty
// inbox, not an error.
func (c *Client) ListMessages(ctx context.Context) ([]Message, error) {
	listURL := c.endpoint + "v1/message/list?" + url.Values{"folder": {"INBOX"}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, listURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read list response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, model.NewTransportError("list", resp.StatusCode, string(body))
	}

	var messages []Message
	if err := json.Unmarshal(body, &messages); err != nil {
		return nil, fmt.Errorf("decode message list: %w", err)
	}

	c.log.Debug().Int("count", len(messages)).Msg("inbox listed")
	return messages, nil
}

// GetMessage fetches the detail (including the base64 document payload) for
// one message id.
func (c *Client) GetMessage(ctx context.Context, id string) (*MessageDetail, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"v1/message/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get message %s: %w", id, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read message %s: %w", id, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, model.NewTransportError("detail", resp.StatusCode, string(body))
	}

	var detail MessageDetail
	if err := json.Unmarshal(body, &detail); err != nil {
		return nil, fmt.Errorf("decode message %s: %w", id, err)
	}
	return &detail, nil
}
