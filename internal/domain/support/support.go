// Package support forwards tickets from the app to the academy inbox.
package support

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/milbratheduardo/App-ZSUL-sub000/internal/mailer"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/validate"
)

var ErrBadRequest = errors.New("bad request")

func IsErrBadRequest(err error) bool {
	return errors.Is(err, ErrBadRequest)
}

type TicketInput struct {
	Categoria string `json:"categoria" validate:"omitempty,oneof=duvida pagamento problema sugestao"`
	Assunto   string `json:"assunto" validate:"required,max=120"`
	Mensagem  string `json:"mensagem" validate:"required,max=4000"`
}

func (in *TicketInput) Trim() {
	in.Categoria = strings.TrimSpace(in.Categoria)
	in.Assunto = strings.TrimSpace(in.Assunto)
	in.Mensagem = strings.TrimSpace(in.Mensagem)
}

// Sender is the signed-in user opening the ticket.
type Sender struct {
	UserID string
	Nome   string
	Email  string
	Role   string
}

type Service struct {
	mail       mailer.Mailer
	inbox      string
	templateID string
	now        func() time.Time
}

func NewService(mail mailer.Mailer, inbox, templateID string) *Service {
	return &Service{mail: mail, inbox: inbox, templateID: templateID, now: time.Now}
}

// Send emails the ticket to the inbox with the sender as reply-to.
func (s *Service) Send(ctx context.Context, from Sender, in TicketInput) error {
	in.Trim()
	if err := validate.Struct(in); err != nil {
		return fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	if in.Categoria == "" {
		in.Categoria = "duvida"
	}

	data := map[string]any{
		"categoria": in.Categoria,
		"assunto":   in.Assunto,
		"mensagem":  in.Mensagem,
		"nome":      from.Nome,
		"email":     from.Email,
		"perfil":    from.Role,
		"userId":    from.UserID,
		"enviadoEm": s.now().Format("02-01-2006 15:04"),
	}
	err := s.mail.Send(ctx, mailer.Message{
		To:         s.inbox,
		ToName:     "Suporte",
		ReplyTo:    from.Email,
		TemplateID: s.templateID,
		Data:       data,
	})
	if err != nil {
		return fmt.Errorf("failed to send support ticket: %w", err)
	}
	return nil
}
