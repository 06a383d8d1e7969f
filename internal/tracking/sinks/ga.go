package sinks

import (
	"bytes"
	"context"
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

const gaEndpoint = "https://www.google-analytics.com/mp/collect"

// GA ships events to Google Analytics 4 through the Measurement Protocol. A
// sink without credentials is disabled and silently drops payloads.
type GA struct {
	measurementID string
	apiSecret     string
	http          *http.Client
	log           *logger.Logger
}

type gaEvent struct {
	Name   string         `json:"name"`
	Params map[string]any `json:"params,omitempty"`
}

type gaRequest struct {
	ClientID string    `json:"client_id"`
	Events   []gaEvent `json:"events"`
}

// NewGA creates the GA4 Measurement Protocol sink.
func NewGA(cfg config.TrackingConfig, log *logger.Logger) *GA {
	sink := &GA{
		measurementID: cfg.GetGAMeasurementID(),
		apiSecret:     cfg.GetGAAPISecret(),
		http:          &http.Client{Timeout: 10 * time.Second},
		log:           log,
	}
	if !sink.enabled() {
		log.Warn("ga4 sink disabled, missing measurement id or api secret")
	}
	return sink
}

// Name returns the sink identifier.
func (g *GA) Name() string { return "ga4" }

func (g *GA) enabled() bool {
	return g.measurementID != "" && g.apiSecret != ""
}

// Deliver posts one event to the Measurement Protocol.
func (g *GA) Deliver(ctx context.Context, p tracking.Payload) error {
	if !g.enabled() {
		return nil
	}

	params := map[string]any{
		"session_id": p.SessionID,
	}
	if p.Step > 0 {
		params["funnel_step"] = p.Step
	}
	if p.TimelineID != "" {
		params["timeline"] = p.TimelineID
	}
	if p.Value > 0 {
		params["currency"] = currencyOrDefault(p.Currency)
		params["value"] = p.Value
	}

	body, err := json.Marshal(gaRequest{
		ClientID: clientID(p),
		Events:   []gaEvent{{Name: gaEventName(p.EventName), Params: params}},
	})
	if err != nil {
		return fmt.Errorf("marshal ga request: %w", err)
	}

	url := fmt.Sprintf("%s?measurement_id=%s&api_secret=%s", gaEndpoint, g.measurementID, g.apiSecret)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.http.Do(req)
	if err != nil {
		return fmt.Errorf("ga request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("ga returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	g.log.Debug("ga4 event delivered", "event", p.EventName, "session", p.SessionID)
	return nil
}

func clientID(p tracking.Payload) string {
	if p.Fingerprint != "" {
		return p.Fingerprint
	}
	return p.SessionID
}

// gaEventName converts dotted internal names into GA-safe snake case.
func gaEventName(name string) string {
	return strings.ReplaceAll(strings.TrimPrefix(name, "funnel."), ".", "_")
}
