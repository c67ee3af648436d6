package service

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/sifan077/LinkDesk/internal/app/model"
)

// jetStreamPublisher is the slice of nats.JetStreamContext the publisher needs.
type jetStreamPublisher interface {
	Publish(subj string, data []byte, opts ...nats.PubOpt) (*nats.PubAck, error)
}

// Click describes the request that followed a short link.
type Click struct {
	ShortCode string
	IP        string
	UserAgent string
	Referer   string
}

// ClickPublisher publishes click events to NATS JetStream
type ClickPublisher struct {
	js  jetStreamPublisher
	now func() time.Time
}

// NewClickPublisher creates a new click event publisher
func NewClickPublisher(js jetStreamPublisher) *ClickPublisher {
	return &ClickPublisher{js: js, now: time.Now}
}

// Publish publishes a click event to the stream. The event ID doubles as the
// JetStream message ID so server-side dedupe drops accidental resends.
func (p *ClickPublisher) Publish(click Click) (*model.ClickEvent, error) {
	event := &model.ClickEvent{
		ID:        uuid.New().String(),
		ShortCode: click.ShortCode,
		IP:        click.IP,
		UserAgent: click.UserAgent,
		Referer:   click.Referer,
		Timestamp: p.now().UTC(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}

	if _, err := p.js.Publish(model.ClickStreamSubject, data, nats.MsgId(event.ID)); err != nil {
		return nil, err
	}
	return event, nil
}
