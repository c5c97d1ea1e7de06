package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"time"

	credentials "cloud.google.com/go/iam/credentials/apiv1"
	credentialspb "cloud.google.com/go/iam/credentials/apiv1/credentialspb"
	"cloud.google.com/go/storage"
)

// GCS stores files in a Cloud Storage bucket and serves them through V4
// signed URLs signed by the IAM credentials API.
type GCS struct {
	client      *storage.Client
	bucket      string
	iam         *credentials.IamCredentialsClient
	signerEmail string
	ttl         time.Duration
}

var _ Store = (*GCS)(nil)

// NewGCS builds the store. iam may be nil; URLs then point at the public
// object path.
func NewGCS(client *storage.Client, bucket string, iam *credentials.IamCredentialsClient, signerEmail string, ttl time.Duration) *GCS {
	if ttl <= 0 || ttl > 7*24*time.Hour {
		ttl = 15 * time.Minute
	}
	return &GCS{client: client, bucket: bucket, iam: iam, signerEmail: signerEmail, ttl: ttl}
}

func (g *GCS) Upload(ctx context.Context, bucket, contentType string, r io.Reader) (string, error) {
	id := newFileID(contentType)
	w := g.client.Bucket(g.bucket).Object(objectKey(bucket, id)).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("upload %s: %w", objectKey(bucket, id), err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("upload %s: %w", objectKey(bucket, id), err)
	}
	return id, nil
}

func (g *GCS) URL(ctx context.Context, bucket, fileID string) (string, error) {
	key := objectKey(bucket, fileID)
	if g.iam == nil || g.signerEmail == "" {
		return "https://storage.googleapis.com/" + g.bucket + "/" + url.PathEscape(key), nil
	}

	opts := &storage.SignedURLOptions{
		Scheme:         storage.SigningSchemeV4,
		Method:         "GET",
		Expires:        time.Now().Add(g.ttl),
		GoogleAccessID: g.signerEmail,
		SignBytes: func(b []byte) ([]byte, error) {
			resp, err := g.iam.SignBlob(ctx, &credentialspb.SignBlobRequest{
				Name:    fmt.Sprintf("projects/-/serviceAccounts/%s", g.signerEmail),
				Payload: b,
			})
			if err != nil {
				return nil, err
			}
			return resp.SignedBlob, nil
		},
	}
	u, err := storage.SignedURL(g.bucket, key, opts)
	if err != nil {
		return "", fmt.Errorf("failed to sign url (check service account + permissions): %w", err)
	}
	return u, nil
}

func (g *GCS) Delete(ctx context.Context, bucket, fileID string) error {
	err := g.client.Bucket(g.bucket).Object(objectKey(bucket, fileID)).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("delete %s: %w", objectKey(bucket, fileID), err)
	}
	return nil
}
