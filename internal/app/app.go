// Package app builds the service graph shared by cmd/api and the router
// tests.
package app

import (
	"context"
	"net/http"

	"github.com/milbratheduardo/App-ZSUL-sub000/internal/blob"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/config"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/docstore"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/account"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/attendance"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/event"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/gallery"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/identity"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/methodology"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/news"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/notifications"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/payment"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/profile"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/report"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/roster"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/stats"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/support"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/training"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/turma"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/user"
	apihttp "github.com/milbratheduardo/App-ZSUL-sub000/internal/http"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/logger"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/mailer"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/middleware"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/realtime"
)

// Pusher sends FCM topic notifications.
type Pusher interface {
	SendTopic(ctx context.Context, topic, title, body string, data map[string]string) error
}

// Backends are the outbound adapters, chosen by cmd/api from config and by
// tests as in-memory fakes.
type Backends struct {
	Docs     docstore.Store
	Blobs    blob.Store
	Identity user.IdentityProvider
	Push     Pusher
	Mail     mailer.Mailer
	Gateway  payment.Gateway
	Checkout payment.Checkout
	Reporter middleware.Reporter
}

type App struct {
	Hub      *realtime.Hub
	Profiles *identity.Store
	Account  *account.Service
	Payment  *payment.Service
	Handler  http.Handler
}

func New(cfg config.Config, b Backends) *App {
	if b.Identity == nil {
		b.Identity = user.NopIdentity{}
	}
	if b.Mail == nil {
		b.Mail = mailer.Log{}
	}
	if b.Reporter == nil {
		b.Reporter = logger.Nop()
	}
	hub := realtime.NewHub()

	userRepo := user.NewRepo(b.Docs)
	profileRepo := profile.NewRepo(b.Docs)
	turmaRepo := turma.NewRepo(b.Docs)
	chamadaRepo := attendance.NewRepo(b.Docs)
	eventRepo := event.NewRepo(b.Docs)
	reportRepo := report.NewRepo(b.Docs)

	store := identity.NewStore(identity.NewLoader(userRepo, profileRepo), hub)

	accountSvc := account.NewService(account.NewRepo(b.Docs), userRepo, profileRepo, store, b.Identity,
		account.NewTokens(cfg.JWTSecret, cfg.SessionTTL), b.Mail, account.Config{
			ResetTTL:        cfg.ResetTTL,
			ResetTemplateID: cfg.PasswordResetTemplateID,
			FrontendBaseURL: cfg.FrontendBaseURL,
		})

	profileSvc := profile.NewService(profileRepo, userRepo, b.Blobs, b.Identity)
	profileSvc.SetRefresher(store)
	turmaSvc := turma.NewService(turmaRepo, profileRepo)
	turmaSvc.SetRefresher(store)

	paymentSvc := payment.NewService(payment.NewRepo(b.Docs), profileRepo, userRepo, b.Gateway, b.Checkout, payment.Config{
		MercadoPagoPlans: cfg.MercadoPagoPlans,
		WebhookSecret:    cfg.StripeWebhookSecret,
	})
	paymentSvc.SetRefresher(store)

	handler := apihttp.NewRouter(apihttp.RouterDeps{
		Cfg:      cfg,
		Reporter: b.Reporter,
		Realtime: realtime.NewHandler(hub, cfg.AllowedOrigins),

		AccountSvc:       accountSvc,
		ProfileSvc:       profileSvc,
		TurmaSvc:         turmaSvc,
		AttendanceSvc:    attendance.NewService(chamadaRepo, turmaRepo, profileRepo),
		RosterSvc:        roster.NewService(turmaRepo, profileRepo, chamadaRepo),
		EventSvc:         event.NewService(eventRepo, b.Blobs, hub),
		GallerySvc:       gallery.NewService(gallery.NewRepo(b.Docs), b.Blobs),
		ReportSvc:        report.NewService(reportRepo, turmaRepo, b.Blobs),
		TrainingSvc:      training.NewService(training.NewRepo(b.Docs), profileRepo),
		MethodologySvc:   methodology.NewService(methodology.NewRepo(b.Docs)),
		NewsSvc:          news.NewService(news.NewRepo(b.Docs), b.Push, hub, cfg.NewsTopic),
		NotificationsSvc: notifications.NewService(notifications.NewRepo(b.Docs), userRepo, b.Push, hub, cfg.NewsTopic),
		StatsSvc:         stats.NewService(turmaRepo, profileRepo, chamadaRepo, eventRepo, reportRepo),
		PaymentSvc:       paymentSvc,
		SupportSvc:       support.NewService(b.Mail, cfg.SupportInbox, cfg.SupportTemplateID),
	})

	return &App{Hub: hub, Profiles: store, Account: accountSvc, Payment: paymentSvc, Handler: handler}
}
