package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76"

	"github.com/milbratheduardo/App-ZSUL-sub000/internal/docstore"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/profile"
)

func event(t *testing.T, kind string, object map[string]any) stripe.Event {
	t.Helper()
	raw, err := json.Marshal(map[string]any{
		"id":   "evt_1",
		"type": kind,
		"data": map[string]any{"object": object},
	})
	require.NoError(t, err)
	var ev stripe.Event
	require.NoError(t, json.Unmarshal(raw, &ev))
	return ev
}

func TestCheckoutCompletedActivatesPlan(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	err := e.svc.HandleEvent(ctx, event(t, "checkout.session.completed", map[string]any{
		"id":           "cs_1",
		"subscription": "sub_1",
		"amount_total": 42000,
		"metadata":     map[string]string{"athleteId": "a1", "plan": PlanTrimestral, "userId": "g1"},
	}))
	require.NoError(t, err)

	a, err := e.profiles.Athlete(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, PlanTrimestral, a.StatusPagamento)
	assert.Equal(t, "sub_1", a.IDTransacao)
	require.NotNil(t, a.EndDate)
	assert.True(t, a.EndDate.Equal(time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)))

	hist, err := e.svc.History(ctx, guardian)
	require.NoError(t, err)
	require.Len(t, hist, 1)
	assert.Equal(t, 420.0, hist[0].Valor)
	assert.Equal(t, MethodStripe, hist[0].Metodo)
}

func TestSubscriptionDeletedAndPaymentFailed(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	require.NoError(t, e.profiles.UpdateAthlete(ctx, "a1", map[string]any{
		"status_pagamento": PlanMensal,
		"id_transacao":     "sub_9",
	}))

	require.NoError(t, e.svc.HandleEvent(ctx, event(t, "invoice.payment_failed", map[string]any{
		"id":           "in_1",
		"subscription": "sub_9",
		"amount_due":   15000,
	})))
	require.NoError(t, e.svc.HandleEvent(ctx, event(t, "customer.subscription.deleted", map[string]any{
		"id": "sub_9",
	})))

	a, err := e.profiles.Athlete(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, profile.PaymentCancelled, a.StatusPagamento)

	hist, err := e.svc.History(ctx, admin)
	require.NoError(t, err)
	statuses := []string{}
	for _, h := range hist {
		statuses = append(statuses, h.Status)
	}
	assert.ElementsMatch(t, []string{StatusFalhou, StatusCancelado}, statuses)

	// Unknown subscriptions are acknowledged and ignored.
	assert.NoError(t, e.svc.HandleEvent(ctx, event(t, "customer.subscription.deleted", map[string]any{"id": "sub_x"})))
	assert.NoError(t, e.svc.HandleEvent(ctx, event(t, "charge.refunded", map[string]any{"id": "ch_1"})))
}

// flakyUpdates fails every Update with err while err is set.
type flakyUpdates struct {
	*docstore.Memory
	err error
}

func (f *flakyUpdates) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	if f.err != nil {
		return f.err
	}
	return f.Memory.Update(ctx, collection, id, fields)
}

func sign(payload []byte, secret string, ts time.Time) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts.Unix(), payload)
	return fmt.Sprintf("t=%d,v1=%s", ts.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

func TestHandleWebhookSignature(t *testing.T) {
	e := newEnv(t)

	payload := []byte(fmt.Sprintf(`{"id":"evt_1","object":"event","api_version":%q,"type":"checkout.session.completed","data":{"object":{"id":"cs_1","subscription":"sub_2","metadata":{"athleteId":"a1","plan":"mensal"}}}}`, stripe.APIVersion))

	req := httptest.NewRequest(http.MethodPost, "/v1/stripe/webhook", strings.NewReader(string(payload)))
	req.Header.Set("Stripe-Signature", sign(payload, "wrong", time.Now()))
	rec := httptest.NewRecorder()
	e.svc.HandleWebhook(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/v1/stripe/webhook", strings.NewReader(string(payload)))
	req.Header.Set("Stripe-Signature", sign(payload, "whsec_test", time.Now()))
	rec = httptest.NewRecorder()
	e.svc.HandleWebhook(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	a, err := e.profiles.Athlete(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, PlanMensal, a.StatusPagamento)
	assert.Equal(t, "sub_2", a.IDTransacao)
}

func TestHandleWebhookStoreFailures(t *testing.T) {
	db := &flakyUpdates{Memory: docstore.NewMemory()}
	e := newEnvOn(t, db)

	payload := []byte(fmt.Sprintf(`{"id":"evt_2","object":"event","api_version":%q,"type":"checkout.session.completed","data":{"object":{"id":"cs_2","subscription":"sub_3","metadata":{"athleteId":"a1","plan":"anual"}}}}`, stripe.APIVersion))
	deliver := func() int {
		req := httptest.NewRequest(http.MethodPost, "/v1/stripe/webhook", strings.NewReader(string(payload)))
		req.Header.Set("Stripe-Signature", sign(payload, "whsec_test", time.Now()))
		rec := httptest.NewRecorder()
		e.svc.HandleWebhook(rec, req)
		return rec.Code
	}

	db.err = fmt.Errorf("firestore: %w", docstore.ErrTransient)
	assert.Equal(t, http.StatusServiceUnavailable, deliver())

	db.err = errors.New("permission denied")
	assert.Equal(t, http.StatusOK, deliver())

	db.err = nil
	assert.Equal(t, http.StatusOK, deliver())
	a, err := e.profiles.Athlete(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, PlanAnual, a.StatusPagamento)
	assert.Equal(t, "sub_3", a.IDTransacao)
}
