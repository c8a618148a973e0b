package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/clubstake/backend/internal/logging"
)

// NotifierClient delivers notifications to an external sink over HTTP.
// The contract is one-way: the sink acknowledges receipt and nothing more.
type NotifierClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewNotifierClient(baseURL string) *NotifierClient {
	return &NotifierClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

type notifyPayload struct {
	AccountID string `json:"account_id"`
	Message   string `json:"message"`
}

func (c *NotifierClient) Notify(ctx context.Context, accountID uuid.UUID, message string) error {
	log := logging.FromContext(ctx)

	body, err := json.Marshal(notifyPayload{
		AccountID: accountID.String(),
		Message:   message,
	})
	if err != nil {
		return fmt.Errorf("Notify: marshal: %w", err)
	}

	url := c.baseURL + "/notify"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("Notify: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("Notify: send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted && resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("Notify: sink returned %d: %s", resp.StatusCode, respBody)
	}

	log.Debug("notification delivered", "account_id", accountID)
	return nil
}

// NoopNotifier discards every message. Used when no sink is configured.
type NoopNotifier struct{}

func (NoopNotifier) Notify(ctx context.Context, accountID uuid.UUID, message string) error {
	return nil
}
