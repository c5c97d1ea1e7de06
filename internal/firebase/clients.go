package firebase

import (
	"context"
	"fmt"
	"os"

	"cloud.google.com/go/firestore"
	credentials "cloud.google.com/go/iam/credentials/apiv1"
	"cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"

	"github.com/milbratheduardo/App-ZSUL-sub000/internal/config"
)

// Clients bundles the Firebase and GCP clients the API needs.
type Clients struct {
	App       *firebase.App
	Auth      *auth.Client
	Firestore *firestore.Client
	Storage   *storage.Client
	Messaging *messaging.Client
	IAM       *credentials.IamCredentialsClient

	ProjectID string
	Bucket    string
}

// Options picks credentials from the environment. Cloud Run falls through
// to Application Default Credentials.
func Options() []option.ClientOption {
	var opts []option.ClientOption
	if raw := os.Getenv("FIREBASE_SERVICE_ACCOUNT_JSON"); raw != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(raw)))
	} else if cred := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); cred != "" {
		opts = append(opts, option.WithCredentialsFile(cred))
	}
	return opts
}

func NewApp(ctx context.Context, cfg config.Config) (*firebase.App, error) {
	if cfg.ProjectID == "" {
		return nil, fmt.Errorf("missing FIREBASE_PROJECT_ID or GOOGLE_CLOUD_PROJECT")
	}
	return firebase.NewApp(ctx, &firebase.Config{
		ProjectID:     cfg.ProjectID,
		StorageBucket: cfg.StorageBucket,
	}, Options()...)
}

// NewClients opens every client. Storage and IAM are only opened for the gcs
// blob driver; Firestore only for the firestore docstore driver.
func NewClients(ctx context.Context, cfg config.Config) (*Clients, error) {
	app, err := NewApp(ctx, cfg)
	if err != nil {
		return nil, err
	}
	c := &Clients{App: app, ProjectID: cfg.ProjectID, Bucket: cfg.StorageBucket}

	if c.Auth, err = app.Auth(ctx); err != nil {
		return nil, fmt.Errorf("auth client: %w", err)
	}
	if c.Messaging, err = app.Messaging(ctx); err != nil {
		return nil, fmt.Errorf("messaging client: %w", err)
	}

	opts := Options()
	if cfg.DocstoreDriver == "firestore" {
		if c.Firestore, err = firestore.NewClient(ctx, cfg.ProjectID, opts...); err != nil {
			return nil, fmt.Errorf("firestore client: %w", err)
		}
	}
	if cfg.BlobDriver == "gcs" {
		if c.Storage, err = storage.NewClient(ctx, opts...); err != nil {
			return nil, fmt.Errorf("storage client: %w", err)
		}
		if cfg.SignedURLServiceAccountEmail != "" {
			if c.IAM, err = credentials.NewIamCredentialsClient(ctx, opts...); err != nil {
				return nil, fmt.Errorf("iam credentials client: %w", err)
			}
		}
	}
	return c, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.Firestore != nil {
		_ = c.Firestore.Close()
	}
	if c.Storage != nil {
		_ = c.Storage.Close()
	}
	if c.IAM != nil {
		_ = c.IAM.Close()
	}
}
