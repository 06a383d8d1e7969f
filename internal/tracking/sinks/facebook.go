// Package sinks delivers tracking payloads to the ad platforms. Each sink is
// independent; one platform failing never blocks the others.
package sinks

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"webexpress_backend/internal/tracking"
	"webexpress_backend/platform/config"
	"webexpress_backend/platform/logger"
)

const facebookAPIVersion = "v18.0"

// Facebook ships events to the Meta Conversions API. A sink without
// credentials is disabled and silently drops payloads.
type Facebook struct {
	pixelID       string
	accessToken   string
	testEventCode string
	http          *http.Client
	log           *logger.Logger
}

type capiEvent struct {
	EventName  string         `json:"event_name"`
	EventTime  int64          `json:"event_time"`
	EventID    string         `json:"event_id"`
	Action     string         `json:"action_source"`
	UserData   map[string]any `json:"user_data"`
	CustomData map[string]any `json:"custom_data,omitempty"`
}

type capiRequest struct {
	Data          []capiEvent `json:"data"`
	TestEventCode string      `json:"test_event_code,omitempty"`
}

// NewFacebook creates the Conversions API sink.
func NewFacebook(cfg config.TrackingConfig, log *logger.Logger) *Facebook {
	sink := &Facebook{
		pixelID:       cfg.GetFacebookPixelID(),
		accessToken:   cfg.GetFacebookAccessToken(),
		testEventCode: cfg.GetFacebookTestEventCode(),
		http:          &http.Client{Timeout: 10 * time.Second},
		log:           log,
	}
	if !sink.enabled() {
		log.Warn("facebook capi sink disabled, missing pixel id or access token")
	}
	return sink
}

// Name returns the sink identifier.
func (f *Facebook) Name() string { return "facebook" }

func (f *Facebook) enabled() bool {
	return f.pixelID != "" && f.accessToken != ""
}

// Deliver posts one event to the Conversions API.
func (f *Facebook) Deliver(ctx context.Context, p tracking.Payload) error {
	if !f.enabled() {
		return nil
	}

	event := capiEvent{
		EventName: capiEventName(p.EventName),
		EventTime: p.OccurredAt.Unix(),
		// Session id doubles as dedup key against the browser pixel.
		EventID: p.SessionID + ":" + p.EventName,
		Action:  "website",
		UserData: map[string]any{
			"external_id": hashSHA256(p.SessionID),
		},
	}
	if p.Value > 0 {
		event.CustomData = map[string]any{
			"currency": currencyOrDefault(p.Currency),
			"value":    p.Value,
		}
	}

	body, err := json.Marshal(capiRequest{
		Data:          []capiEvent{event},
		TestEventCode: f.testEventCode,
	})
	if err != nil {
		return fmt.Errorf("marshal capi request: %w", err)
	}

	url := fmt.Sprintf("https://graph.facebook.com/%s/%s/events?access_token=%s",
		facebookAPIVersion, f.pixelID, f.accessToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.http.Do(req)
	if err != nil {
		return fmt.Errorf("capi request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("capi returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	f.log.Debug("capi event delivered", "event", event.EventName, "session", p.SessionID)
	return nil
}

// capiEventName maps internal event names onto Meta standard events where one
// exists.
func capiEventName(name string) string {
	switch name {
	case "funnel.quote.started":
		return "InitiateCheckout"
	case "funnel.quote.completed":
		return "Lead"
	default:
		return name
	}
}

func hashSHA256(value string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(value))))
	return hex.EncodeToString(sum[:])
}

func currencyOrDefault(currency string) string {
	if currency == "" {
		return "MXN"
	}
	return currency
}
