package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/milbratheduardo/App-ZSUL-sub000/internal/app"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/blob"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/config"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/docstore"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/payment"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/firebase"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/logger"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/mailer"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cfg := config.Load()
	lg := logger.New(nil, cfg)
	defer lg.Flush()

	if cfg.JWTSecret == "" {
		if cfg.IsProduction() {
			log.Fatalf("JWT_SECRET is required in production")
		}
		cfg.JWTSecret = "dev-secret"
		log.Println("JWT_SECRET not set, using an insecure development secret")
	}

	var clients *firebase.Clients
	if cfg.FirebaseEnabled {
		var err error
		clients, err = firebase.NewClients(ctx, cfg)
		if err != nil {
			log.Fatalf("firebase init failed: %v", err)
		}
		defer clients.Close()
	}

	b := app.Backends{Reporter: lg}

	// Document store
	switch cfg.DocstoreDriver {
	case "memory":
		b.Docs = docstore.NewMemory()
		log.Println("docstore: in-memory (data is lost on restart)")
	default:
		if clients == nil || clients.Firestore == nil {
			log.Fatalf("docstore driver %q needs Firebase (set FIREBASE_PROJECT_ID)", cfg.DocstoreDriver)
		}
		b.Docs = docstore.NewFirestore(clients.Firestore)
	}
	b.Docs = docstore.WithRetry(b.Docs, docstore.RetryPolicy{
		MaxAttempts: cfg.RetryMaxAttempts,
		Initial:     cfg.RetryInitial,
		Max:         cfg.RetryMax,
		Multiplier:  2,
	})

	// File store
	switch cfg.BlobDriver {
	case "memory":
		b.Blobs = blob.NewMemory()
	case "s3":
		s3, err := blob.NewS3(ctx, blob.S3Config{
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			Bucket:          cfg.S3Bucket,
			PublicBaseURL:   cfg.S3PublicBaseURL,
			TTL:             cfg.SignedURLTTL,
		})
		if err != nil {
			log.Fatalf("s3 init failed: %v", err)
		}
		b.Blobs = s3
	default:
		if clients == nil || clients.Storage == nil {
			log.Fatalf("blob driver %q needs Firebase (set FIREBASE_PROJECT_ID)", cfg.BlobDriver)
		}
		b.Blobs = blob.NewGCS(clients.Storage, clients.Bucket, clients.IAM, cfg.SignedURLServiceAccountEmail, cfg.SignedURLTTL)
	}

	// Firebase Auth mirror and FCM
	if clients != nil {
		b.Identity = firebase.NewIdentity(clients.Auth)
		b.Push = firebase.NewPush(clients.Messaging)
	} else {
		b.Push = firebase.NopPush{}
		log.Println("Firebase disabled: no Auth mirror, no push notifications")
	}

	// Email
	if cfg.SendgridAPIKey != "" {
		b.Mail = mailer.NewSendGrid(cfg.SendgridAPIKey, cfg.MailFromName, cfg.MailFrom)
	} else {
		b.Mail = mailer.Log{}
		log.Println("SENDGRID_API_KEY not set, emails are only logged")
	}

	// Payments (optional - only if configured)
	if cfg.MercadoPagoAccessToken != "" {
		mp, err := payment.NewMercadoPago(cfg.MercadoPagoAccessToken, cfg.MercadoPagoBackURL)
		if err != nil {
			log.Fatalf("mercadopago init failed: %v", err)
		}
		b.Gateway = mp
		log.Println("Mercado Pago gateway initialized")
	} else {
		log.Println("MP_ACCESS_TOKEN not set, card and pix payments disabled")
	}
	if cfg.StripeSecretKey != "" {
		b.Checkout = payment.NewStripeCheckout(cfg.StripeSecretKey, cfg.StripePrices, cfg.CheckoutSuccessURL, cfg.CheckoutCancelURL)
		log.Println("Stripe checkout initialized")
	} else {
		log.Println("STRIPE_SECRET_KEY not set, Stripe checkout disabled")
	}

	a := app.New(cfg, b)
	go a.Hub.Run(ctx)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      a.Handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 20 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// graceful shutdown
	go func() {
		log.Printf("API listening on :%s (project=%s, env=%s)", cfg.Port, cfg.ProjectID, cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 2)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	log.Println("shutting down...")
	_ = srv.Shutdown(ctxShutdown)
	cancel()
}
