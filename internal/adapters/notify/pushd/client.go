package pushd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"pet-lost-found/internal/platform/httpclient"
)

var (
	ErrNotConfigured = errors.New("pushd client not configured")
	ErrUpstream      = errors.New("pushd upstream error")
)

// Config del servicio de push.
// BaseURL y APIKey normalmente vienen de env (PUSHD_BASE_URL, PUSHD_API_KEY).
type Config struct {
	BaseURL string
	APIKey  string

	// Opcional: header de la API key. Default "X-Api-Key".
	APIKeyHeader string

	Timeout time.Duration
}

// Client habla con el servicio de entrega de push. El registro de
// devices vive del lado del servicio: acá solo mandamos user_id y el
// servicio resuelve (o responde 404 si el user no tiene device).
type Client struct {
	http         *httpclient.Client
	apiKey       string
	apiKeyHeader string
}

func NewClient(cfg Config) (*Client, error) {
	h := strings.TrimSpace(cfg.APIKeyHeader)
	if h == "" {
		h = "X-Api-Key"
	}

	hc, err := httpclient.NewWithBaseURL(strings.TrimSpace(cfg.BaseURL), cfg.Timeout)
	if err != nil {
		return nil, fmt.Errorf("pushd: %w", err)
	}

	return &Client{
		http:         hc,
		apiKey:       strings.TrimSpace(cfg.APIKey),
		apiKeyHeader: h,
	}, nil
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.http != nil && c.http.BaseURL != "" && c.apiKey != ""
}

type sendRequest struct {
	UserID    string `json:"user_id"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	ContextID string `json:"context_id,omitempty"`
}

type sendResponse struct {
	DeliveryID string `json:"delivery_id"`
}
