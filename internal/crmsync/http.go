package crmsync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"example.com/salesvault/internal/domain"
	"example.com/salesvault/internal/events"
)

// HTTPNotifier posts activity.logged payloads to a CRM webhook.
type HTTPNotifier struct {
	client *http.Client
	url    string
	token  string
}

// NewHTTPNotifier constructs an HTTPNotifier.
func NewHTTPNotifier(endpoint, token string, timeout time.Duration) *HTTPNotifier {
	return &HTTPNotifier{
		client: &http.Client{Timeout: timeout},
		url:    strings.TrimRight(endpoint, "/"),
		token:  token,
	}
}

// Notify sends the entry as JSON. Any non-2xx response is a delivery failure.
func (h *HTTPNotifier) Notify(ctx context.Context, evt domain.SyncRequested) error {
	return report(BackendHTTP, evt, h.post(ctx, evt))
}

func (h *HTTPNotifier) post(ctx context.Context, evt domain.SyncRequested) error {
	body, err := json.Marshal(events.FromEntry(evt.Entry))
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Event-Type", events.ActivityLoggedType)
	req.Header.Set("Idempotency-Key", evt.Entry.ID)
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return &WebhookError{Status: resp.StatusCode}
	}
	return nil
}

// WebhookError represents a non-successful webhook response.
type WebhookError struct {
	Status int
}

func (e *WebhookError) Error() string {
	return fmt.Sprintf("crm webhook responded with status %d %s", e.Status, http.StatusText(e.Status))
}
