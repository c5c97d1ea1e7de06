package mailer

import (
	"context"
	"errors"
	"log"
	"sync"
)

var ErrNotConfigured = errors.New("mailer: template not configured")

// Message is a templated email. Data fills the template's handlebars.
type Message struct {
	To         string
	ToName     string
	ReplyTo    string
	TemplateID string
	Data       map[string]any
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// Log only logs messages. Used when SendGrid is not configured.
type Log struct{}

func (Log) Send(_ context.Context, msg Message) error {
	log.Printf("[mailer] to=%s template=%s (not sent)", msg.To, msg.TemplateID)
	return nil
}

// Memory records messages for tests.
type Memory struct {
	mu   sync.Mutex
	sent []Message
}

func (m *Memory) Send(_ context.Context, msg Message) error {
	m.mu.Lock()
	m.sent = append(m.sent, msg)
	m.mu.Unlock()
	return nil
}

func (m *Memory) Sent() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Message{}, m.sent...)
}
