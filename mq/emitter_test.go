package mq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"cardoctor/models"

	"github.com/redis/go-redis/v9"
)

type fakePublisher struct {
	channel string
	payload []byte
	err     error
}

func (f *fakePublisher) Publish(ctx context.Context, channel string, message any) *redis.IntCmd {
	f.channel = channel
	f.payload, _ = message.([]byte)
	cmd := redis.NewIntCmd(ctx)
	if f.err != nil {
		cmd.SetErr(f.err)
	} else {
		cmd.SetVal(1)
	}
	return cmd
}

func TestEmitterPublish(t *testing.T) {
	pub := &fakePublisher{}
	at := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)
	ev := models.BookingEvent{Action: models.BookingCreated, BookingID: "abc", Email: "a@x.com", At: at}

	if err := NewEmitter(pub).Publish(context.Background(), ev); err != nil {
		t.Fatalf("Publish() unexpected error: %v", err)
	}
	if pub.channel != BookingChannel {
		t.Errorf("channel = %q, want %q", pub.channel, BookingChannel)
	}

	var got models.BookingEvent
	if err := json.Unmarshal(pub.payload, &got); err != nil {
		t.Fatalf("payload is not JSON: %v", err)
	}
	if got.Action != ev.Action || got.BookingID != "abc" || got.Email != "a@x.com" || !got.At.Equal(at) {
		t.Errorf("payload = %+v", got)
	}
}

func TestEmitterPublishError(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewEmitter(&fakePublisher{err: cause}).Publish(context.Background(), models.BookingEvent{Action: models.BookingDeleted})
	if !errors.Is(err, cause) {
		t.Fatalf("Publish() error = %v, want wrapped %v", err, cause)
	}
}
