package registrations

import (
	"context"
	"encoding/json"
	"errors"

	pubsub "cloud.google.com/go/pubsub/v2"

	"github.com/mijnfegon/mijnfegon-backend/pkg/enums"
	"github.com/mijnfegon/mijnfegon-backend/pkg/logger"
	"github.com/mijnfegon/mijnfegon-backend/pkg/outbox"
	"github.com/mijnfegon/mijnfegon-backend/pkg/outbox/payloads"
)

// Consumer applies registration lifecycle events from Pub/Sub. Approval
// events land the local status flip and the Drops credit, every other
// registration event just refreshes the watcher snapshot.
type Consumer struct {
	applier      *Applier
	watcher      *Watcher
	subscription *pubsub.Subscriber
	logg         *logger.Logger
}

// NewConsumer constructs a consumer that watches the provided subscription.
func NewConsumer(applier *Applier, watcher *Watcher, subscription *pubsub.Subscriber, logg *logger.Logger) (*Consumer, error) {
	if applier == nil {
		return nil, errors.New("applier is required")
	}
	if watcher == nil {
		return nil, errors.New("watcher is required")
	}
	if subscription == nil {
		return nil, errors.New("registration subscription is required")
	}
	if logg == nil {
		return nil, errors.New("logger is required")
	}
	return &Consumer{
		applier:      applier,
		watcher:      watcher,
		subscription: subscription,
		logg:         logg,
	}, nil
}

// Run processes messages until the context is canceled or the subscription errors.
func (c *Consumer) Run(ctx context.Context) error {
	return c.subscription.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		if c.process(ctx, msg) {
			msg.Ack()
			return
		}
		msg.Nack()
	})
}

// process returns true when the message should be acked. Malformed messages
// are acked so they never wedge the subscription; transient apply failures
// are nacked for redelivery.
func (c *Consumer) process(ctx context.Context, msg *pubsub.Message) bool {
	eventType := enums.OutboxEventType(msg.Attributes["event_type"])
	logCtx := c.logg.WithFields(ctx, map[string]any{
		"message_id": msg.ID,
		"event_type": string(eventType),
		"event_id":   msg.Attributes["event_id"],
	})

	var envelope outbox.PayloadEnvelope
	if err := json.Unmarshal(msg.Data, &envelope); err != nil {
		c.logg.Error(logCtx, "failed to decode event envelope", err)
		return true
	}

	switch eventType {
	case enums.EventRegistrationApproved:
		var payload payloads.RegistrationApprovedEvent
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			c.logg.Error(logCtx, "failed to decode approval payload", err)
			return true
		}
		if err := c.applier.ApplyApproval(ctx, payload); err != nil {
			c.logg.Error(logCtx, "failed to apply approval", err)
			return false
		}
		c.logg.Info(logCtx, "approval applied")
		return true

	case enums.EventRegistrationCreated,
		enums.EventRegistrationStatusChanged,
		enums.EventRegistrationDeleted,
		enums.EventRegistrationLinked,
		enums.EventRegistrationImported:
		c.watcher.Refresh(ctx)
		return true

	default:
		c.logg.Info(logCtx, "skipping event type without a handler")
		return true
	}
}
