package compenda

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mijnfegon/mijnfegon-backend/pkg/config"
	pkgerrors "github.com/mijnfegon/mijnfegon-backend/pkg/errors"
)

const errorBodyReadLimit int64 = 4096

var (
	errBaseURLRequired = errors.New("compenda base url is required")
	errAPIKeyRequired  = errors.New("compenda api key is required")
)

// Client wraps the Compenda warranty/CRM gateway. Approving a registration pushes
// it to Compenda, flips the server-side status, and computes the point award.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// ApproveResult is the gateway response for a successful registration sync.
type ApproveResult struct {
	Success             bool   `json:"success"`
	CompendaID          string `json:"compendaId"`
	Points              int    `json:"points"`
	IsFirstRegistration bool   `json:"isFirstRegistration"`
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient builds the Compenda client from configuration.
func NewClient(cfg config.CompendaConfig, opts ...Option) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errBaseURLRequired
	}
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errAPIKeyRequired
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	client := &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

type approveRequest struct {
	RegistrationID string `json:"registrationId"`
}

type gatewayError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// ApproveRegistration submits the registration to Compenda. The gateway validates
// the record, creates the warranty counterpart, marks the registration approved on
// its side, and returns the computed award.
func (c *Client) ApproveRegistration(ctx context.Context, registrationID uuid.UUID) (*ApproveResult, error) {
	if registrationID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "registration id is required")
	}

	body, err := json.Marshal(approveRequest{RegistrationID: registrationID.String()})
	if err != nil {
		return nil, fmt.Errorf("encoding approve request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/registrations/approve", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building approve request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "compenda unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.decodeError(resp)
	}

	var result ApproveResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decoding compenda response")
	}
	if !result.Success {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "compenda rejected the registration")
	}
	return &result, nil
}

// decodeError surfaces the gateway's human-readable message verbatim so operators
// see what the CRM complained about.
func (c *Client) decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))

	var payload gatewayError
	if err := json.Unmarshal(raw, &payload); err == nil {
		if msg := strings.TrimSpace(payload.Message); msg != "" {
			return pkgerrors.New(pkgerrors.CodeDependency, msg)
		}
		if msg := strings.TrimSpace(payload.Error); msg != "" {
			return pkgerrors.New(pkgerrors.CodeDependency, msg)
		}
	}
	return pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("compenda returned status %d", resp.StatusCode))
}
