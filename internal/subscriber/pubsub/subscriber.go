// Package pubsub reloads the reason catalog when a Google Cloud Pub/Sub message arrives.
// Publishing to the topic after replacing the catalog object refreshes every replica.
package pubsub

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/pubsub"
	"go.uber.org/zap"

	"github.com/JakeFAU/notfound-service/internal/reasons"
)

// Reloader fetches the catalog again, keeping the current one when that fails. *reasons.Cache
// satisfies it.
type Reloader interface {
	Reload(ctx context.Context) (reasons.Catalog, error)
}

// Subscriber consumes invalidation messages from one subscription.
type Subscriber struct {
	client   *pubsub.Client
	sub      *pubsub.Subscription
	reloader Reloader
	logger   *zap.Logger
}

// New creates a Subscriber reading subscriptionID through client. The subscriber owns client.
func New(client *pubsub.Client, subscriptionID string, reloader Reloader, logger *zap.Logger) (*Subscriber, error) {
	if client == nil {
		return nil, fmt.Errorf("pubsub client is required")
	}
	if subscriptionID == "" {
		return nil, fmt.Errorf("subscription id is required")
	}
	if reloader == nil {
		return nil, fmt.Errorf("reloader is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	sub := client.Subscription(subscriptionID)
	// Reloads are whole-catalog operations; handling one message at a time is plenty.
	sub.ReceiveSettings.NumGoroutines = 1
	sub.ReceiveSettings.MaxOutstandingMessages = 1
	return &Subscriber{
		client:   client,
		sub:      sub,
		reloader: reloader,
		logger:   logger,
	}, nil
}

// Dial connects to Pub/Sub in projectID and builds a Subscriber. PUBSUB_EMULATOR_HOST is honored.
func Dial(ctx context.Context, projectID, subscriptionID string, reloader Reloader, logger *zap.Logger) (*Subscriber, error) {
	client, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("create pubsub client: %w", err)
	}
	s, err := New(client, subscriptionID, reloader, logger)
	if err != nil {
		_ = client.Close()
		return nil, err
	}
	return s, nil
}

// Run receives messages until ctx is canceled. Each message reloads the catalog and is acked on
// success or nacked for redelivery on failure.
func (s *Subscriber) Run(ctx context.Context) error {
	s.logger.Info("listening for catalog invalidations", zap.String("subscription", s.sub.String()))
	err := s.sub.Receive(ctx, s.handle)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("receive from %s: %w", s.sub.String(), err)
	}
	return nil
}

func (s *Subscriber) handle(ctx context.Context, msg *pubsub.Message) {
	catalog, err := s.reloader.Reload(ctx)
	if err != nil {
		s.logger.Error("catalog reload failed", zap.String("message_id", msg.ID), zap.Error(err))
		msg.Nack()
		return
	}
	s.logger.Info("catalog reloaded",
		zap.String("message_id", msg.ID),
		zap.Int("entries", catalog.Len()),
		zap.Bool("placeholder", catalog.IsPlaceholder()),
	)
	msg.Ack()
}

// Close releases the Pub/Sub client.
func (s *Subscriber) Close() error {
	if err := s.client.Close(); err != nil {
		return fmt.Errorf("close pubsub client: %w", err)
	}
	return nil
}
