package personalize

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	pkgerrors "github.com/demolux/storefront/pkg/errors"
	"github.com/demolux/storefront/pkg/logger"
	"github.com/google/uuid"
)

// EventType is the kind of personalization event.
type EventType string

const (
	EventImpression EventType = "impression"
	EventConversion EventType = "conversion"
)

// IsValid reports whether t is a known event type.
func (t EventType) IsValid() bool {
	return t == EventImpression || t == EventConversion
}

// Event is an impression or conversion reported by the storefront.
type Event struct {
	ID                 string    `json:"event_id"`
	Type               EventType `json:"type"`
	SessionID          string    `json:"session_id,omitempty"`
	Aliases            []string  `json:"variant_aliases,omitempty"`
	ExperienceShortUID string    `json:"experience_short_uid,omitempty"`
	Path               string    `json:"path,omitempty"`
	OccurredAt         time.Time `json:"occurred_at"`
}

// Tracker records personalization events.
type Tracker interface {
	Track(ctx context.Context, event Event) error
}

// LogTracker writes events to the structured log.
type LogTracker struct {
	logg *logger.Logger
}

func NewLogTracker(logg *logger.Logger) *LogTracker {
	if logg == nil {
		logg = logger.Nop()
	}
	return &LogTracker{logg: logg}
}

func (t *LogTracker) Track(ctx context.Context, event Event) error {
	t.logg.Info(t.logg.WithFields(ctx, map[string]any{
		"event_id":   event.ID,
		"event_type": string(event.Type),
		"aliases":    event.Aliases,
		"path":       event.Path,
	}), "personalize.event")
	return nil
}

const defaultPublishTimeout = 5 * time.Second

type publisher interface {
	Publish(context.Context, *gcppubsub.Message) publishResult
}

type publishResult interface {
	Get(context.Context) (string, error)
}

// PubSubTracker publishes events to the personalization events topic.
type PubSubTracker struct {
	pub publisher
}

// NewPubSubTracker wraps a Pub/Sub publisher. A nil publisher is an error.
func NewPubSubTracker(p *gcppubsub.Publisher) (*PubSubTracker, error) {
	if p == nil {
		return nil, errors.New("pubsub publisher required")
	}
	return &PubSubTracker{pub: &gcpPublisher{Publisher: p}}, nil
}

func (t *PubSubTracker) Track(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode personalize event")
	}
	msg := &gcppubsub.Message{
		Data: payload,
		Attributes: map[string]string{
			"event_id":    event.ID,
			"event_type":  string(event.Type),
			"occurred_at": event.OccurredAt.Format(time.RFC3339Nano),
		},
	}

	publishCtx, cancel := context.WithTimeout(ctx, defaultPublishTimeout)
	defer cancel()
	result := t.pub.Publish(publishCtx, msg)
	if result == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "publisher returned no result")
	}
	if _, err := result.Get(publishCtx); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("publish %s: %w", event.ID, err), "publish personalize event")
	}
	return nil
}

type gcpPublisher struct {
	*gcppubsub.Publisher
}

func (p *gcpPublisher) Publish(ctx context.Context, msg *gcppubsub.Message) publishResult {
	if p == nil || p.Publisher == nil {
		return nil
	}
	return p.Publisher.Publish(ctx, msg)
}

// stamp fills the event id and timestamp when missing.
func stamp(event Event, now time.Time) Event {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = now.UTC()
	}
	return event
}
