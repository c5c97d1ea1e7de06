package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"

	"github.com/milbratheduardo/App-ZSUL-sub000/internal/docstore"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/profile"
)

// HandleWebhook processes incoming Stripe webhooks
func (s *Service) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	const MaxBodyBytes = int64(65536)
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)

	payload, err := io.ReadAll(r.Body)
	if err != nil {
		log.Printf("webhook: error reading request body: %v", err)
		http.Error(w, "Error reading request body", http.StatusServiceUnavailable)
		return
	}

	// Verify webhook signature
	sigHeader := r.Header.Get("Stripe-Signature")
	event, err := webhook.ConstructEvent(payload, sigHeader, s.config.WebhookSecret)
	if err != nil {
		log.Printf("webhook: signature verification failed: %v", err)
		http.Error(w, fmt.Sprintf("Webhook signature verification failed: %v", err), http.StatusBadRequest)
		return
	}

	log.Printf("webhook: received event type=%s id=%s", event.Type, event.ID)
	if err := s.HandleEvent(r.Context(), event); err != nil {
		if IsErrBadRequest(err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		// Stripe redelivers on 5xx.
		if docstore.IsTransient(err) {
			log.Printf("webhook: transient error handling %s: %v", event.Type, err)
			http.Error(w, "temporarily unavailable", http.StatusServiceUnavailable)
			return
		}
		// Anything else is permanent; acknowledge so Stripe stops retrying.
		log.Printf("webhook: error handling %s: %v", event.Type, err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"received": true}`))
}

// HandleEvent applies a verified Stripe event. Malformed payloads return
// ErrBadRequest.
func (s *Service) HandleEvent(ctx context.Context, event stripe.Event) error {
	if event.Data == nil {
		return fmt.Errorf("%w: event without data", ErrBadRequest)
	}

	switch event.Type {
	case "checkout.session.completed":
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return fmt.Errorf("%w: error parsing checkout session: %v", ErrBadRequest, err)
		}
		return s.handleCheckoutCompleted(ctx, &session)

	case "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return fmt.Errorf("%w: error parsing subscription: %v", ErrBadRequest, err)
		}
		return s.handleSubscriptionDeleted(ctx, &sub)

	case "invoice.payment_failed":
		var invoice stripe.Invoice
		if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
			return fmt.Errorf("%w: error parsing invoice: %v", ErrBadRequest, err)
		}
		return s.handlePaymentFailed(ctx, &invoice)

	default:
		log.Printf("webhook: unhandled event type: %s", event.Type)
	}
	return nil
}

func (s *Service) handleCheckoutCompleted(ctx context.Context, session *stripe.CheckoutSession) error {
	athleteID := session.Metadata["athleteId"]
	if athleteID == "" {
		athleteID = session.ClientReferenceID
	}
	if athleteID == "" {
		return fmt.Errorf("missing athleteId in metadata")
	}
	p, ok := PlanByID(session.Metadata["plan"])
	if !ok {
		return fmt.Errorf("unknown plan %q in metadata", session.Metadata["plan"])
	}

	transactionID := session.ID
	if session.Subscription != nil && session.Subscription.ID != "" {
		transactionID = session.Subscription.ID
	}
	log.Printf("webhook: checkout completed athlete=%s plan=%s subscription=%s", athleteID, p.ID, transactionID)

	now := s.now().UTC()
	if err := s.activate(ctx, athleteID, p, transactionID, now.AddDate(0, p.Months, 0)); err != nil {
		return err
	}

	amount := p.Amount
	if session.AmountTotal > 0 {
		amount = float64(session.AmountTotal) / 100
	}
	s.record(ctx, Historico{
		UserID:      session.Metadata["userId"],
		AthleteID:   athleteID,
		Plano:       p.ID,
		Valor:       amount,
		Metodo:      MethodStripe,
		Status:      StatusAprovado,
		IDTransacao: transactionID,
		CreatedAt:   now,
	})
	return nil
}

func (s *Service) handleSubscriptionDeleted(ctx context.Context, sub *stripe.Subscription) error {
	a, err := s.athleteByTransaction(ctx, sub.ID)
	if err != nil {
		return err
	}
	if a == nil {
		log.Printf("webhook: subscription deleted but no athlete for %s", sub.ID)
		return nil
	}

	log.Printf("webhook: subscription deleted athlete=%s", a.UserID)
	if err := s.profiles.UpdateAthlete(ctx, a.UserID, map[string]any{
		"status_pagamento": profile.PaymentCancelled,
	}); err != nil {
		return fmt.Errorf("failed to cancel plan: %w", err)
	}
	if s.refresher != nil {
		s.refresher.Refresh(ctx, a.UserID)
	}
	s.record(ctx, Historico{
		AthleteID:   a.UserID,
		Plano:       a.StatusPagamento,
		Metodo:      MethodStripe,
		Status:      StatusCancelado,
		IDTransacao: sub.ID,
	})
	return nil
}

func (s *Service) handlePaymentFailed(ctx context.Context, invoice *stripe.Invoice) error {
	if invoice.Subscription == nil {
		return nil
	}
	a, err := s.athleteByTransaction(ctx, invoice.Subscription.ID)
	if err != nil {
		return err
	}
	if a == nil {
		log.Printf("webhook: payment failed but could not find athlete for subscription %s", invoice.Subscription.ID)
		return nil
	}

	log.Printf("webhook: payment failed athlete=%s amount=%d", a.UserID, invoice.AmountDue)
	s.record(ctx, Historico{
		AthleteID:   a.UserID,
		Plano:       a.StatusPagamento,
		Valor:       float64(invoice.AmountDue) / 100,
		Metodo:      MethodStripe,
		Status:      StatusFalhou,
		IDTransacao: invoice.Subscription.ID,
	})
	return nil
}
