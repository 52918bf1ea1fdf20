package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// PushGateway delivers push notifications through the external gateway
// service. Delivery mechanics (APNs/FCM fan-out, token invalidation) live
// behind the gateway; this client only posts the message.
type PushGateway struct {
	endpoint string
	client   *http.Client
}

// NewPushGateway creates a gateway client with the given endpoint and timeout.
func NewPushGateway(endpoint string, timeout time.Duration) *PushGateway {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &PushGateway{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

type pushRequest struct {
	Tokens  []string          `json:"tokens"`
	Title   string            `json:"title"`
	Body    string            `json:"body"`
	Data    map[string]string `json:"data,omitempty"`
	UserIDs []string          `json:"user_ids"`
	GroupID string            `json:"group_id,omitempty"`
}

// SendPush posts a push message to the gateway. A non-2xx response is an
// error; the caller decides whether to treat it as fatal (it never should,
// push delivery is best-effort).
func (g *PushGateway) SendPush(ctx context.Context, tokens []string, title, body string, data map[string]string, userIDs []string, groupID string) error {
	payload, err := json.Marshal(pushRequest{
		Tokens:  tokens,
		Title:   title,
		Body:    body,
		Data:    data,
		UserIDs: userIDs,
		GroupID: groupID,
	})
	if err != nil {
		return fmt.Errorf("failed to encode push request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("push gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("push gateway returned status %d", resp.StatusCode)
	}
	return nil
}
