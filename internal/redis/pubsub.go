package redisx

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// RegistrationsPubSub fans out registration changes (creation, status flips,
// proof uploads) so dashboard consumers can refresh without polling.
type RegistrationsPubSub struct {
	rdb     *redis.Client
	channel string
}

func NewRegistrationsPubSub(rdb *redis.Client) *RegistrationsPubSub {
	return &RegistrationsPubSub{
		rdb:     rdb,
		channel: ChannelRegistrationsChanged(),
	}
}

type registrationChangedMsg struct {
	Type           string `json:"type"`
	RegistrationID string `json:"registration_id"`
	TsUnix         int64  `json:"ts_unix"`
}

func (p *RegistrationsPubSub) PublishRegistrationChanged(ctx context.Context, registrationID string) error {
	msg := registrationChangedMsg{
		Type:           "registration_changed",
		RegistrationID: registrationID,
		TsUnix:         time.Now().Unix(),
	}

	b, _ := json.Marshal(msg)

	return p.rdb.Publish(ctx, p.channel, b).Err()
}

func (p *RegistrationsPubSub) Subscribe(ctx context.Context, handler func(ctx context.Context, registrationID string)) error {
	sub := p.rdb.Subscribe(ctx, p.channel)
	defer sub.Close()

	ch := sub.Channel(redis.WithChannelSize(256))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m, ok := <-ch:
			if !ok {
				return nil
			}
			var ev registrationChangedMsg
			if err := json.Unmarshal([]byte(m.Payload), &ev); err == nil &&
				ev.RegistrationID != "" {
				handler(ctx, ev.RegistrationID)
			}
		}
	}
}
