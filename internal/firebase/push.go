package firebase

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/messaging"
)

// Push sends FCM notifications to topic subscribers.
type Push struct {
	client *messaging.Client
}

func NewPush(client *messaging.Client) *Push {
	return &Push{client: client}
}

func (p *Push) SendTopic(ctx context.Context, topic, title, body string, data map[string]string) error {
	_, err := p.client.Send(ctx, &messaging.Message{
		Topic: topic,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	})
	if err != nil {
		return fmt.Errorf("fcm send %s: %w", topic, err)
	}
	return nil
}

// NopPush drops pushes when Firebase is disabled.
type NopPush struct{}

func (NopPush) SendTopic(context.Context, string, string, string, map[string]string) error {
	return nil
}
