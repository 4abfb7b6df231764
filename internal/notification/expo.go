package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// expoMessage is the push payload the Expo collaborator accepts.
type expoMessage struct {
	To    string `json:"to"`
	Title string `json:"title"`
	Body  string `json:"body"`
	Sound string `json:"sound"`
}

// ExpoSender delivers push messages through Expo's HTTP push endpoint.
type ExpoSender struct {
	url    string
	client *http.Client
}

// NewExpoSender creates a sender for the given push endpoint.
func NewExpoSender(url string, timeout time.Duration) *ExpoSender {
	return &ExpoSender{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// Send posts a single push message. Delivery is fire-and-forget from the
// caller's perspective; an error here is only ever logged.
func (s *ExpoSender) Send(ctx context.Context, destinationToken, title, body string) error {
	payload, err := json.Marshal(expoMessage{
		To:    destinationToken,
		Title: title,
		Body:  body,
		Sound: "default",
	})
	if err != nil {
		return fmt.Errorf("marshal push payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send push: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("push endpoint returned status %d", resp.StatusCode)
	}
	return nil
}
