package payment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milbratheduardo/App-ZSUL-sub000/internal/docstore"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/profile"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/user"
)

var (
	admin    = user.Viewer{UserID: "admin", Admin: true}
	guardian = user.Viewer{UserID: "g1", Role: user.RoleResponsavel}
	stranger = user.Viewer{UserID: "g2", Role: user.RoleResponsavel}
)

type fakeGateway struct {
	status     string
	endDate    *time.Time
	tokenErr   error
	preErr     error
	pixErr     error
	pre        []PreapprovalRequest
	references []string
}

func (f *fakeGateway) TokenizeCard(_ context.Context, card Card) (string, error) {
	if f.tokenErr != nil {
		return "", f.tokenErr
	}
	return "tok_" + card.Number[len(card.Number)-4:], nil
}

func (f *fakeGateway) CreatePreapproval(_ context.Context, req PreapprovalRequest) (*Preapproval, error) {
	f.pre = append(f.pre, req)
	if f.preErr != nil {
		return nil, f.preErr
	}
	return &Preapproval{ID: "pre_1", Status: f.status, EndDate: f.endDate}, nil
}

func (f *fakeGateway) CreatePix(_ context.Context, req PixRequest) (*PixCharge, error) {
	f.references = append(f.references, req.Reference)
	if f.pixErr != nil {
		return nil, f.pixErr
	}
	return &PixCharge{ID: "123", Status: "pending", TicketURL: "https://mp/ticket", QRCode: "000201"}, nil
}

type fakeCheckout struct {
	reqs []CheckoutRequest
}

func (f *fakeCheckout) CreateCheckout(_ context.Context, req CheckoutRequest) (string, error) {
	f.reqs = append(f.reqs, req)
	return "https://checkout.stripe.com/c/" + req.PlanID, nil
}

type env struct {
	svc      *Service
	profiles *profile.Repo
	repo     *Repo
	gw       *fakeGateway
	checkout *fakeCheckout
}

func newEnv(t *testing.T) *env {
	t.Helper()
	return newEnvOn(t, docstore.NewMemory())
}

func newEnvOn(t *testing.T, db docstore.Store) *env {
	t.Helper()
	ctx := context.Background()
	profiles := profile.NewRepo(db)
	users := user.NewRepo(db)
	require.NoError(t, users.Create(ctx, user.User{UserID: "g1", Email: "g1@x.com", Role: user.RoleResponsavel}))
	require.NoError(t, profiles.CreateAthlete(ctx, profile.Athlete{UserID: "a1", Nome: "Pedro", ResponsavelID: "g1"}))

	e := &env{
		profiles: profiles,
		repo:     NewRepo(db),
		gw:       &fakeGateway{status: PreapprovalAuthorized},
		checkout: &fakeCheckout{},
	}
	e.svc = NewService(e.repo, profiles, users, e.gw, e.checkout, Config{
		MercadoPagoPlans: map[string]string{PlanMensal: "mp-plan-mensal"},
		WebhookSecret:    "whsec_test",
	})
	e.svc.now = func() time.Time { return time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC) }
	return e
}

func cardInput(plan string) CardPaymentInput {
	return CardPaymentInput{
		AthleteID:  "a1",
		Plan:       plan,
		PayerEmail: "g1@x.com",
		Card: Card{
			Number:         "4235 6477 2802 5682",
			HolderName:     "APRO",
			ExpMonth:       "11",
			ExpYear:        "2030",
			SecurityCode:   "123",
			DocumentNumber: "123.456.789-01",
		},
	}
}

func TestPayWithCardAuthorized(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	end := time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)
	e.gw.endDate = &end

	sub, err := e.svc.PayWithCard(ctx, guardian, cardInput(" Mensal "))
	require.NoError(t, err)
	assert.Equal(t, "pre_1", sub.IDTransacao)
	assert.Equal(t, PlanMensal, sub.Plan)

	require.Len(t, e.gw.pre, 1)
	assert.Equal(t, "mp-plan-mensal", e.gw.pre[0].PlanID)
	assert.Equal(t, "tok_5682", e.gw.pre[0].CardToken)
	assert.Equal(t, "a1", e.gw.pre[0].ExternalReference)

	a, err := e.profiles.Athlete(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, PlanMensal, a.StatusPagamento)
	assert.Equal(t, "pre_1", a.IDTransacao)
	require.NotNil(t, a.EndDate)
	assert.True(t, a.EndDate.Equal(end))

	hist, err := e.svc.History(ctx, guardian)
	require.NoError(t, err)
	require.Len(t, hist, 1)
	assert.Equal(t, MethodCartao, hist[0].Metodo)
	assert.Equal(t, StatusAprovado, hist[0].Status)
}

func TestPayWithCardWithoutEndDateUsesPlanLength(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.svc.PayWithCard(ctx, admin, cardInput(PlanTrimestral))
	require.NoError(t, err)
	// No preapproval plan configured: the recurrence is sent inline.
	assert.Empty(t, e.gw.pre[0].PlanID)
	assert.Equal(t, 3, e.gw.pre[0].Months)

	a, err := e.profiles.Athlete(ctx, "a1")
	require.NoError(t, err)
	require.NotNil(t, a.EndDate)
	assert.True(t, a.EndDate.Equal(time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)))
}

func TestPayWithCardNotAuthorizedLeavesAthlete(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.gw.status = "pending"

	_, err := e.svc.PayWithCard(ctx, guardian, cardInput(PlanMensal))
	assert.True(t, IsErrPaymentDeclined(err))

	a, err := e.profiles.Athlete(ctx, "a1")
	require.NoError(t, err)
	assert.Empty(t, a.StatusPagamento)
	assert.Empty(t, a.IDTransacao)
	assert.Nil(t, a.EndDate)

	hist, err := e.svc.History(ctx, admin)
	require.NoError(t, err)
	assert.Empty(t, hist)
}

func TestPayWithCardGatewayErrors(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	e.gw.tokenErr = errors.New("boom")
	_, err := e.svc.PayWithCard(ctx, guardian, cardInput(PlanMensal))
	assert.True(t, IsErrPayment(err))
	assert.Empty(t, e.gw.pre)

	e.gw.tokenErr = nil
	e.gw.preErr = errors.New("502")
	_, err = e.svc.PayWithCard(ctx, guardian, cardInput(PlanMensal))
	assert.True(t, IsErrPayment(err))

	a, err := e.profiles.Athlete(ctx, "a1")
	require.NoError(t, err)
	assert.Empty(t, a.StatusPagamento)
}

func TestPayWithCardRejectsInput(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.svc.PayWithCard(ctx, guardian, cardInput("semanal"))
	assert.True(t, IsErrBadRequest(err))

	in := cardInput(PlanMensal)
	in.Card.SecurityCode = "1"
	_, err = e.svc.PayWithCard(ctx, guardian, in)
	assert.True(t, IsErrBadRequest(err))

	_, err = e.svc.PayWithCard(ctx, stranger, cardInput(PlanMensal))
	assert.True(t, IsErrUnauthorized(err))

	in = cardInput(PlanMensal)
	in.AthleteID = "missing"
	_, err = e.svc.PayWithCard(ctx, admin, in)
	assert.True(t, IsErrNotFound(err))
	assert.Empty(t, e.gw.pre)
}

func TestCreatePixFreshReference(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	in := PixInput{AthleteID: "a1", Plan: PlanAnual, PayerEmail: "g1@x.com"}

	first, err := e.svc.CreatePix(ctx, guardian, in)
	require.NoError(t, err)
	assert.Equal(t, "https://mp/ticket", first.TicketURL)
	_, err = e.svc.CreatePix(ctx, guardian, in)
	require.NoError(t, err)

	require.Len(t, e.gw.references, 2)
	assert.NotEqual(t, e.gw.references[0], e.gw.references[1])

	// A pending pix does not activate the plan.
	a, err := e.profiles.Athlete(ctx, "a1")
	require.NoError(t, err)
	assert.Empty(t, a.StatusPagamento)

	hist, err := e.svc.History(ctx, guardian)
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Equal(t, StatusPendente, hist[0].Status)

	e.gw.pixErr = errors.New("timeout")
	_, err = e.svc.CreatePix(ctx, guardian, in)
	assert.True(t, IsErrPayment(err))
}

func TestCreateCheckout(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	url, err := e.svc.CreateCheckout(ctx, guardian, CheckoutInput{AthleteID: "a1", Plan: PlanSemestral})
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.stripe.com/c/semestral", url)
	require.Len(t, e.checkout.reqs, 1)
	assert.Equal(t, CheckoutRequest{PlanID: PlanSemestral, Email: "g1@x.com", UserID: "g1", AthleteID: "a1"}, e.checkout.reqs[0])

	_, err = e.svc.CreateCheckout(ctx, stranger, CheckoutInput{AthleteID: "a1", Plan: PlanSemestral})
	assert.True(t, IsErrUnauthorized(err))
}

func TestPlans(t *testing.T) {
	ps := Plans()
	require.Len(t, ps, 4)
	months := map[string]int{}
	for _, p := range ps {
		months[p.ID] = p.Months
	}
	assert.Equal(t, map[string]int{PlanMensal: 1, PlanTrimestral: 3, PlanSemestral: 6, PlanAnual: 12}, months)

	_, ok := PlanByID("ANUAL")
	assert.True(t, ok)
}
