package mq

import (
	"context"
	"encoding/json"
	"fmt"

	"cardoctor/models"

	"github.com/redis/go-redis/v9"
)

// BookingChannel is the Redis pub/sub channel booking lifecycle events go to.
const BookingChannel = "booking-events"

// Publisher is the subset of *redis.Client the emitter needs.
type Publisher interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

type Emitter struct {
	pub     Publisher
	channel string
}

func NewEmitter(pub Publisher) *Emitter {
	return &Emitter{pub: pub, channel: BookingChannel}
}

// Publish sends ev as JSON to the booking channel.
func (e *Emitter) Publish(ctx context.Context, ev models.BookingEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal booking event: %w", err)
	}
	if err := e.pub.Publish(ctx, e.channel, data).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", e.channel, err)
	}
	return nil
}
