package notify

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Event request lifecycle event posted to the operations webhook.
type Event struct {
	Type      string    `json:"type"` // request.created | request.status_changed | request.deleted
	RequestID int64     `json:"request_id"`
	Status    string    `json:"status,omitempty"`
	At        time.Time `json:"at"`
}

// Notifier delivers lifecycle events. Delivery is best-effort: failures are
// logged and never fail the operation that triggered them.
type Notifier interface {
	RequestEvent(ctx context.Context, ev Event)
}

// NoopNotifier used when no webhook is configured.
type NoopNotifier struct{}

func (NoopNotifier) RequestEvent(context.Context, Event) {}

type WebhookNotifier struct {
	client *resty.Client
	url    string
	logger *zap.Logger
}

func NewWebhookNotifier(url string, timeout time.Duration, logger *zap.Logger) *WebhookNotifier {
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(2).
		SetHeader("Content-Type", "application/json")
	return &WebhookNotifier{client: client, url: url, logger: logger}
}

func (n *WebhookNotifier) RequestEvent(ctx context.Context, ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	resp, err := n.client.R().
		SetContext(ctx).
		SetBody(ev).
		Post(n.url)
	if err != nil {
		n.logger.Warn("webhook notify failed",
			zap.String("type", ev.Type),
			zap.Int64("request_id", ev.RequestID),
			zap.Error(err))
		return
	}
	if resp.IsError() {
		n.logger.Warn("webhook notify rejected",
			zap.String("type", ev.Type),
			zap.Int64("request_id", ev.RequestID),
			zap.Int("status", resp.StatusCode()))
	}
}
