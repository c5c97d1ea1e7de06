package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env            string
	ProjectID      string
	Port           string
	AllowedOrigins []string

	// DocstoreDriver selects the document store: "firestore" or "memory".
	DocstoreDriver   string
	RetryMaxAttempts int
	RetryInitial     time.Duration
	RetryMax         time.Duration

	// BlobDriver selects the file store: "gcs", "s3" or "memory".
	BlobDriver                   string
	StorageBucket                string
	SignedURLServiceAccountEmail string
	SignedURLTTL                 time.Duration
	S3Endpoint                   string
	S3Region                     string
	S3AccessKeyID                string
	S3SecretAccessKey            string
	S3Bucket                     string
	S3PublicBaseURL              string

	FirebaseEnabled bool
	NewsTopic       string

	JWTSecret  string
	SessionTTL time.Duration
	ResetTTL   time.Duration

	StripeSecretKey     string
	StripeWebhookSecret string
	StripePrices        map[string]string
	CheckoutSuccessURL  string
	CheckoutCancelURL   string

	MercadoPagoAccessToken string
	MercadoPagoPlans       map[string]string
	MercadoPagoBackURL     string

	SendgridAPIKey          string
	MailFrom                string
	MailFromName            string
	PasswordResetTemplateID string
	SupportTemplateID       string
	SupportInbox            string
	FrontendBaseURL         string

	RollbarToken string
	Build        string
}

func Load() Config {
	// .env is optional; real deployments inject the environment directly.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[config] .env not loaded: %v", err)
	}

	projectID := getenv("FIREBASE_PROJECT_ID", "")
	if projectID == "" {
		projectID = getenv("GOOGLE_CLOUD_PROJECT", "")
	}

	storageBucket := getenv("FIREBASE_STORAGE_BUCKET", "")
	if storageBucket == "" && projectID != "" {
		storageBucket = projectID + ".appspot.com"
	}

	return Config{
		Env:            getenv("APP_ENV", "development"),
		ProjectID:      projectID,
		Port:           getenv("PORT", "8080"),
		AllowedOrigins: splitList(getenv("ALLOWED_ORIGINS", "http://localhost:8081")),

		DocstoreDriver:   getenv("DOCSTORE_DRIVER", "firestore"),
		RetryMaxAttempts: getint("DOCSTORE_RETRY_ATTEMPTS", 4),
		RetryInitial:     getduration("DOCSTORE_RETRY_INITIAL", 100*time.Millisecond),
		RetryMax:         getduration("DOCSTORE_RETRY_MAX", 2*time.Second),

		BlobDriver:                   getenv("BLOB_DRIVER", "gcs"),
		StorageBucket:                storageBucket,
		SignedURLServiceAccountEmail: getenv("SIGNED_URL_SERVICE_ACCOUNT_EMAIL", ""),
		SignedURLTTL:                 getduration("SIGNED_URL_TTL", 15*time.Minute),
		S3Endpoint:                   getenv("S3_ENDPOINT", ""),
		S3Region:                     getenv("S3_REGION", "auto"),
		S3AccessKeyID:                getenv("S3_ACCESS_KEY_ID", ""),
		S3SecretAccessKey:            getenv("S3_SECRET_ACCESS_KEY", ""),
		S3Bucket:                     getenv("S3_BUCKET", ""),
		S3PublicBaseURL:              getenv("S3_PUBLIC_BASE_URL", ""),

		FirebaseEnabled: getbool("FIREBASE_ENABLED", projectID != ""),
		NewsTopic:       getenv("FCM_NEWS_TOPIC", "novidades"),

		JWTSecret:  getenv("JWT_SECRET", ""),
		SessionTTL: getduration("SESSION_TTL", 30*24*time.Hour),
		ResetTTL:   getduration("PASSWORD_RESET_TTL", time.Hour),

		StripeSecretKey:     getenv("STRIPE_SECRET_KEY", ""),
		StripeWebhookSecret: getenv("STRIPE_WEBHOOK_SECRET", ""),
		StripePrices:        parsePairs(getenv("STRIPE_PRICES", "")),
		CheckoutSuccessURL:  getenv("CHECKOUT_SUCCESS_URL", "https://zsul.app/pagamento/sucesso"),
		CheckoutCancelURL:   getenv("CHECKOUT_CANCEL_URL", "https://zsul.app/pagamento/cancelado"),

		MercadoPagoAccessToken: getenv("MP_ACCESS_TOKEN", ""),
		MercadoPagoPlans:       parsePairs(getenv("MP_PREAPPROVAL_PLANS", "")),
		MercadoPagoBackURL:     getenv("MP_BACK_URL", "https://zsul.app"),

		SendgridAPIKey:          getenv("SENDGRID_API_KEY", ""),
		MailFrom:                getenv("MAIL_FROM", "no-reply@zsul.app"),
		MailFromName:            getenv("MAIL_FROM_NAME", "ZSUL"),
		PasswordResetTemplateID: getenv("SENDGRID_RESET_TEMPLATE_ID", ""),
		SupportTemplateID:       getenv("SENDGRID_SUPPORT_TEMPLATE_ID", ""),
		SupportInbox:            getenv("SUPPORT_INBOX", "suporte@zsul.app"),
		FrontendBaseURL:         getenv("FRONTEND_BASE_URL", "https://zsul.app"),

		RollbarToken: getenv("ROLLBAR_TOKEN", ""),
		Build:        getenv("BUILD", "dev"),
	}
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getint(key string, def int) int {
	v, err := strconv.Atoi(getenv(key, ""))
	if err != nil {
		return def
	}
	return v
}

func getbool(key string, def bool) bool {
	v, err := strconv.ParseBool(getenv(key, ""))
	if err != nil {
		return def
	}
	return v
}

func getduration(key string, def time.Duration) time.Duration {
	v, err := time.ParseDuration(getenv(key, ""))
	if err != nil {
		return def
	}
	return v
}

func splitList(s string) []string {
	out := []string{}
	for _, o := range strings.Split(s, ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			out = append(out, o)
		}
	}
	return out
}

// parsePairs reads "a=1,b=2" into a map.
func parsePairs(s string) map[string]string {
	out := map[string]string{}
	for _, item := range splitList(s) {
		k, v, ok := strings.Cut(item, "=")
		if !ok {
			continue
		}
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		if k != "" && v != "" {
			out[k] = v
		}
	}
	return out
}
