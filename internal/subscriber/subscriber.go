package subscriber

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

const DefaultChannel = "ambassador.deleted"

type AmbassadorRemover interface {
	RemoveAmbassador(ctx context.Context, ambassadorID int64) (int64, error)
}

type deletedMessage struct {
	AmbassadorID int64 `json:"ambassador_id"`
}

// Subscriber drops an ambassador from every cart once the authority announces
// it is gone.
type Subscriber struct {
	client  *redis.Client
	channel string
	carts   AmbassadorRemover
	log     *slog.Logger
	pubsub  *redis.PubSub
}

func NewSubscriber(client *redis.Client, carts AmbassadorRemover, log *slog.Logger) *Subscriber {
	return &Subscriber{client: client, channel: DefaultChannel, carts: carts, log: log}
}

// Subscribe blocks until Redis confirms the subscription.
func (s *Subscriber) Subscribe(ctx context.Context) error {
	pubsub := s.client.Subscribe(ctx, s.channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return fmt.Errorf("subscribe %s: %w", s.channel, err)
	}
	s.pubsub = pubsub
	return nil
}

// Run consumes messages until ctx is cancelled. Subscribe must have succeeded.
func (s *Subscriber) Run(ctx context.Context) {
	if s.pubsub == nil {
		s.log.ErrorContext(ctx, "subscriber run without subscription", "channel", s.channel)
		return
	}
	ch := s.pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			s.handle(ctx, msg.Payload)
		}
	}
}

func (s *Subscriber) Close() error {
	if s.pubsub == nil {
		return nil
	}
	err := s.pubsub.Close()
	if errors.Is(err, redis.ErrClosed) {
		return nil
	}
	return err
}

func (s *Subscriber) handle(ctx context.Context, payload string) {
	var msg deletedMessage
	if err := json.Unmarshal([]byte(payload), &msg); err != nil {
		s.log.WarnContext(ctx, "skipping malformed message", "channel", s.channel, "error", err)
		return
	}
	if msg.AmbassadorID <= 0 {
		s.log.WarnContext(ctx, "skipping message without ambassador_id", "channel", s.channel, "payload", payload)
		return
	}

	removed, err := s.carts.RemoveAmbassador(ctx, msg.AmbassadorID)
	if err != nil {
		s.log.ErrorContext(ctx, "failed to remove ambassador from carts",
			"ambassador_id", msg.AmbassadorID, "error", err)
		return
	}
	s.log.InfoContext(ctx, "removed deleted ambassador from carts",
		"ambassador_id", msg.AmbassadorID, "items_removed", removed)
}
