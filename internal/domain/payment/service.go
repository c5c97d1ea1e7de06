package payment

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/milbratheduardo/App-ZSUL-sub000/internal/docstore"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/profile"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/user"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/validate"
)

type Config struct {
	// MercadoPagoPlans maps plan ids to preapproval plan ids. A plan without
	// an entry is created with an inline recurrence instead.
	MercadoPagoPlans map[string]string
	WebhookSecret    string
}

type Service struct {
	repo      *Repo
	profiles  *profile.Repo
	users     *user.Repo
	gateway   Gateway
	checkout  Checkout
	config    Config
	refresher profile.Refresher
	now       func() time.Time
}

func NewService(repo *Repo, profiles *profile.Repo, users *user.Repo, gw Gateway, checkout Checkout, cfg Config) *Service {
	return &Service{
		repo:     repo,
		profiles: profiles,
		users:    users,
		gateway:  gw,
		checkout: checkout,
		config:   cfg,
		now:      time.Now,
	}
}

func (s *Service) SetRefresher(r profile.Refresher) {
	s.refresher = r
}

// athlete loads the athlete the payment is for and checks that v may pay
// for it: staff, the athlete or a linked guardian.
func (s *Service) athlete(ctx context.Context, v user.Viewer, athleteID string) (*profile.Athlete, error) {
	a, err := s.profiles.Athlete(ctx, athleteID)
	if err != nil {
		if profile.IsErrNotFound(err) {
			return nil, fmt.Errorf("%w: athlete not found", ErrNotFound)
		}
		return nil, err
	}
	if !a.VisibleTo(v) {
		return nil, fmt.Errorf("%w: not allowed to pay for this athlete", ErrUnauthorized)
	}
	return a, nil
}

func plan(id string) (Plan, error) {
	p, ok := PlanByID(id)
	if !ok {
		return Plan{}, fmt.Errorf("%w: unknown plan %q", ErrBadRequest, id)
	}
	return p, nil
}

// PayWithCard tokenizes the card and creates a recurring preapproval. Only an
// authorized preapproval activates the plan on the athlete; any other status
// leaves it untouched.
func (s *Service) PayWithCard(ctx context.Context, v user.Viewer, in CardPaymentInput) (*Subscription, error) {
	in.Trim()
	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	p, err := plan(in.Plan)
	if err != nil {
		return nil, err
	}
	a, err := s.athlete(ctx, v, in.AthleteID)
	if err != nil {
		return nil, err
	}
	if s.gateway == nil {
		return nil, fmt.Errorf("%w: card payments are not configured", ErrPayment)
	}

	token, err := s.gateway.TokenizeCard(ctx, in.Card)
	if err != nil {
		log.Printf("[payment] tokenize card for %s: %v", a.UserID, err)
		return nil, fmt.Errorf("%w: could not tokenize card", ErrPayment)
	}
	pre, err := s.gateway.CreatePreapproval(ctx, PreapprovalRequest{
		PlanID:            s.config.MercadoPagoPlans[p.ID],
		CardToken:         token,
		PayerEmail:        in.PayerEmail,
		Reason:            p.Nome,
		ExternalReference: a.UserID,
		Amount:            p.Amount,
		Months:            p.Months,
	})
	if err != nil {
		log.Printf("[payment] preapproval for %s: %v", a.UserID, err)
		return nil, fmt.Errorf("%w: could not create subscription", ErrPayment)
	}
	if pre.Status != PreapprovalAuthorized {
		return nil, fmt.Errorf("%w: subscription status %q", ErrPaymentDeclined, pre.Status)
	}

	end := pre.EndDate
	if end == nil {
		t := s.now().UTC().AddDate(0, p.Months, 0)
		end = &t
	}
	if err := s.activate(ctx, a.UserID, p, pre.ID, *end); err != nil {
		return nil, err
	}
	s.record(ctx, Historico{
		UserID:      v.UserID,
		AthleteID:   a.UserID,
		Plano:       p.ID,
		Valor:       p.Amount,
		Metodo:      MethodCartao,
		Status:      StatusAprovado,
		IDTransacao: pre.ID,
	})
	return &Subscription{AthleteID: a.UserID, Plan: p.ID, IDTransacao: pre.ID, Status: pre.Status, EndDate: end}, nil
}

// activate is the completion write shared by the card flow and the checkout
// webhook.
func (s *Service) activate(ctx context.Context, athleteID string, p Plan, transactionID string, end time.Time) error {
	if err := s.profiles.UpdateAthlete(ctx, athleteID, map[string]any{
		"status_pagamento": p.ID,
		"id_transacao":     transactionID,
		"end_date":         end,
	}); err != nil {
		return fmt.Errorf("failed to activate plan: %w", err)
	}
	if s.refresher != nil {
		s.refresher.Refresh(ctx, athleteID)
	}
	return nil
}

// record appends to the payment history. The payment itself already
// succeeded, so a failed append is only logged.
func (s *Service) record(ctx context.Context, h Historico) {
	if h.CreatedAt.IsZero() {
		h.CreatedAt = s.now().UTC()
	}
	if _, err := s.repo.Append(ctx, h); err != nil {
		log.Printf("[payment] history for %s: %v", h.AthleteID, err)
	}
}

// CreatePix issues a one-off Pix charge. Every call uses a fresh external
// reference.
func (s *Service) CreatePix(ctx context.Context, v user.Viewer, in PixInput) (*PixCharge, error) {
	in.Trim()
	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	p, err := plan(in.Plan)
	if err != nil {
		return nil, err
	}
	a, err := s.athlete(ctx, v, in.AthleteID)
	if err != nil {
		return nil, err
	}
	if s.gateway == nil {
		return nil, fmt.Errorf("%w: pix is not configured", ErrPayment)
	}

	name := in.PayerName
	if name == "" {
		name = a.Nome
	}
	charge, err := s.gateway.CreatePix(ctx, PixRequest{
		Amount:      p.Amount,
		Description: fmt.Sprintf("%s - %s", p.Nome, a.Nome),
		PayerEmail:  in.PayerEmail,
		PayerName:   name,
		Reference:   uuid.NewString(),
	})
	if err != nil {
		log.Printf("[payment] pix for %s: %v", a.UserID, err)
		return nil, fmt.Errorf("%w: could not create pix", ErrPayment)
	}
	s.record(ctx, Historico{
		UserID:      v.UserID,
		AthleteID:   a.UserID,
		Plano:       p.ID,
		Valor:       p.Amount,
		Metodo:      MethodPix,
		Status:      StatusPendente,
		IDTransacao: charge.ID,
	})
	return charge, nil
}

// CreateCheckout returns a hosted checkout link. The plan is activated by the
// checkout.session.completed webhook.
func (s *Service) CreateCheckout(ctx context.Context, v user.Viewer, in CheckoutInput) (string, error) {
	in.Trim()
	if err := validate.Struct(in); err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	p, err := plan(in.Plan)
	if err != nil {
		return "", err
	}
	a, err := s.athlete(ctx, v, in.AthleteID)
	if err != nil {
		return "", err
	}
	if s.checkout == nil {
		return "", fmt.Errorf("%w: checkout is not configured", ErrPayment)
	}

	var email string
	if u, err := s.users.Get(ctx, v.UserID); err == nil {
		email = u.Email
	}
	url, err := s.checkout.CreateCheckout(ctx, CheckoutRequest{
		PlanID:    p.ID,
		Email:     email,
		UserID:    v.UserID,
		AthleteID: a.UserID,
	})
	if err != nil {
		if IsErrBadRequest(err) {
			return "", err
		}
		log.Printf("[payment] checkout for %s: %v", a.UserID, err)
		return "", fmt.Errorf("%w: could not create checkout", ErrPayment)
	}
	return url, nil
}

// History returns every entry for admins. Everyone else sees entries they
// paid plus entries for their own athlete record, newest first.
func (s *Service) History(ctx context.Context, v user.Viewer) ([]Historico, error) {
	if v.IsAdmin() {
		all, err := s.repo.ListAll(ctx)
		if err != nil {
			return nil, err
		}
		sortHistory(all)
		return all, nil
	}

	paid, err := s.repo.ListByUser(ctx, v.UserID)
	if err != nil {
		return nil, err
	}
	own, err := s.repo.ListByAthlete(ctx, v.UserID)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(paid))
	out := make([]Historico, 0, len(paid)+len(own))
	for _, h := range append(paid, own...) {
		if seen[h.ID] {
			continue
		}
		seen[h.ID] = true
		out = append(out, h)
	}
	sortHistory(out)
	return out, nil
}

func sortHistory(hs []Historico) {
	sort.SliceStable(hs, func(i, j int) bool { return hs[i].CreatedAt.After(hs[j].CreatedAt) })
}

func (s *Service) athleteByTransaction(ctx context.Context, transactionID string) (*profile.Athlete, error) {
	if transactionID == "" {
		return nil, nil
	}
	found, err := s.profiles.Athletes(ctx, docstore.Eq("id_transacao", transactionID))
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, nil
	}
	return &found[0], nil
}
