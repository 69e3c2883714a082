package domain

import (
	"context"
	"io"
)

// IdentityProfile is the provider-reported view of a job seeker.
type IdentityProfile struct {
	ID        string
	Name      string
	Email     string
	AvatarURL string
}

// IdentityProvider resolves external identity tokens and profiles.
// Verification of job-seeker credentials is fully delegated here; the
// service never handles seeker passwords.
type IdentityProvider interface {
	// VerifyToken validates a seeker token and returns the stable external
	// user identifier it belongs to.
	VerifyToken(ctx context.Context, token string) (string, error)
	// FetchUser loads the provider's current profile for an external id.
	FetchUser(ctx context.Context, externalID string) (*IdentityProfile, error)
}

// BlobStore accepts a binary blob and returns a durable URL.
// Uploads are streamed; callers never stage files on local disk. A failed
// upload is surfaced immediately and never retried.
type BlobStore interface {
	Upload(ctx context.Context, filename, contentType string, r io.Reader) (string, error)
}
