package mailer

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

var (
	host     = "https://api.sendgrid.com"
	endpoint = "/v3/mail/send"
)

// SendGrid sends dynamic template emails.
type SendGrid struct {
	key  string
	from *sgmail.Email
}

var _ Mailer = (*SendGrid)(nil)

func NewSendGrid(key, fromName, fromEmail string) *SendGrid {
	return &SendGrid{key: key, from: sgmail.NewEmail(fromName, fromEmail)}
}

func (s *SendGrid) prepare(msg Message) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.AddTos(sgmail.NewEmail(msg.ToName, msg.To))
	for k, v := range msg.Data {
		p.SetDynamicTemplateData(k, v)
	}

	m := sgmail.NewV3Mail()
	m.SetFrom(s.from)
	m.SetTemplateID(msg.TemplateID)
	if msg.ReplyTo != "" {
		m.SetReplyTo(sgmail.NewEmail("", msg.ReplyTo))
	}
	m.AddPersonalizations(p)
	return m
}

func (s *SendGrid) Send(_ context.Context, msg Message) error {
	if msg.TemplateID == "" {
		return ErrNotConfigured
	}
	req := sendgrid.GetRequest(s.key, endpoint, host)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(s.prepare(msg))

	res, err := sendgrid.API(req)
	if err != nil {
		return fmt.Errorf("sendgrid: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid: status %d: %s", res.StatusCode, res.Body)
	}
	return nil
}
