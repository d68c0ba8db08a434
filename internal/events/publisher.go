package events

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	ceevent "github.com/cloudevents/sdk-go/v2/event"
	"github.com/google/uuid"

	"github.com/fr0stylo/sponsorboard/internal/app/ports"
	"github.com/fr0stylo/sponsorboard/internal/observability"
)

// SignatureHeader carries the hex HMAC-SHA256 of the request body.
const SignatureHeader = "X-Sponsors-Signature"

const typePrefix = "io.sponsorboard."

var _ ports.ChangePublisher = (*Publisher)(nil)

// Publisher posts structured-mode CloudEvents describing catalog changes to
// the host's event sink.
type Publisher struct {
	SinkURL    string
	Source     string
	Secret     string
	HTTPClient *http.Client
	now        func() time.Time
}

// NewPublisher returns a publisher. An empty sinkURL disables publishing.
func NewPublisher(sinkURL, source, secret string) *Publisher {
	return &Publisher{
		SinkURL:    strings.TrimSpace(sinkURL),
		Source:     strings.TrimSpace(source),
		Secret:     strings.TrimSpace(secret),
		HTTPClient: &http.Client{Timeout: 10 * time.Second, Transport: observability.HTTPTransport(nil)},
		now:        time.Now,
	}
}

// Enabled reports whether a sink is configured.
func (p *Publisher) Enabled() bool {
	return p != nil && p.SinkURL != ""
}

// Publish sends one change. It is a no-op without a sink.
func (p *Publisher) Publish(ctx context.Context, change ports.Change) error {
	if !p.Enabled() {
		return nil
	}
	event, err := p.BuildEvent(change)
	if err != nil {
		return err
	}
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode cloudevent: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.SinkURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", ceevent.ApplicationCloudEventsJSON)
	if p.Secret != "" {
		req.Header.Set(SignatureHeader, Sign(body, p.Secret))
	}

	client := p.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("send cloudevent: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("event sink rejected: status=%s body=%s", resp.Status, strings.TrimSpace(string(payload)))
	}
	return nil
}

// BuildEvent maps a change onto a CloudEvent. Types look like
// io.sponsorboard.sponsor.created; the subject is "sponsors/<id>" or
// "levels/<id>".
func (p *Publisher) BuildEvent(change ports.Change) (ceevent.Event, error) {
	var (
		entity  string
		subject string
		data    any
	)
	switch {
	case change.Sponsor != nil:
		entity = "sponsor"
		subject = "sponsors/" + strconv.FormatInt(change.Sponsor.ID, 10)
		data = change.Sponsor
	case change.Level != nil:
		entity = "level"
		subject = "levels/" + strconv.FormatInt(change.Level.ID, 10)
		data = change.Level
	default:
		return ceevent.Event{}, fmt.Errorf("change carries neither a sponsor nor a level")
	}
	if change.Kind == "" {
		return ceevent.Event{}, fmt.Errorf("change kind is required")
	}

	now := time.Now
	if p.now != nil {
		now = p.now
	}
	source := p.Source
	if source == "" {
		source = "sponsorboard"
	}

	event := ceevent.New()
	event.SetID(uuid.NewString())
	event.SetSource(source)
	event.SetType(typePrefix + entity + "." + string(change.Kind))
	event.SetSubject(subject)
	event.SetTime(now().UTC())
	if err := event.SetData(ceevent.ApplicationJSON, data); err != nil {
		return ceevent.Event{}, fmt.Errorf("set cloudevent data: %w", err)
	}
	if err := event.Validate(); err != nil {
		return ceevent.Event{}, fmt.Errorf("invalid cloudevent: %w", err)
	}
	return event, nil
}

// Sign returns the hex HMAC-SHA256 of body under secret.
func Sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
