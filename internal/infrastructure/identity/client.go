package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/openhire/jobboard/internal/domain"
	"github.com/openhire/jobboard/pkg/cache"
)

const profileCacheTTL = time.Minute

// Client talks to the external identity provider's REST API. Job-seeker
// credential verification is fully delegated here; no seeker passwords
// exist in this system.
type Client struct {
	baseURL   string
	secretKey string
	http      *http.Client
	profiles  *cache.Cache
	logger    *slog.Logger
}

// NewClient creates a new identity provider client
func NewClient(baseURL, secretKey string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		secretKey: secretKey,
		http:      &http.Client{Timeout: 10 * time.Second},
		profiles:  cache.New(),
		logger:    logger,
	}
}

type verifyResponse struct {
	UserID string `json:"user_id"`
}

type userResponse struct {
	ID             string `json:"id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	ImageURL       string `json:"image_url"`
	EmailAddresses []struct {
		EmailAddress string `json:"email_address"`
	} `json:"email_addresses"`
}

// VerifyToken resolves a seeker session token to the provider's stable
// external user identifier.
func (c *Client) VerifyToken(ctx context.Context, token string) (string, error) {
	body := strings.NewReader(url.Values{"token": {token}}.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/tokens/verify", body)
	if err != nil {
		return "", fmt.Errorf("failed to build verify request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", domain.BadGateway("identity provider unreachable")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusNotFound:
		return "", domain.Unauthorized("invalid identity token")
	default:
		c.logger.Error("identity verify failed", slog.Int("status", resp.StatusCode))
		return "", domain.BadGateway("identity provider error")
	}

	var vr verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&vr); err != nil {
		return "", domain.BadGateway("identity provider returned malformed response")
	}
	if vr.UserID == "" {
		return "", domain.Unauthorized("invalid identity token")
	}

	return vr.UserID, nil
}

// FetchUser loads the provider's current profile for an external id.
// Results are memoized briefly since every seeker request triggers a sync.
func (c *Client) FetchUser(ctx context.Context, externalID string) (*domain.IdentityProfile, error) {
	if cached, ok := c.profiles.Get(externalID); ok {
		return cached.(*domain.IdentityProfile), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/users/"+url.PathEscape(externalID), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build user request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, domain.BadGateway("identity provider unreachable")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return nil, domain.ErrUserNotFound
	default:
		c.logger.Error("identity user fetch failed",
			slog.String("external_id", externalID),
			slog.Int("status", resp.StatusCode),
		)
		return nil, domain.BadGateway("identity provider error")
	}

	var ur userResponse
	if err := json.NewDecoder(resp.Body).Decode(&ur); err != nil {
		return nil, domain.BadGateway("identity provider returned malformed response")
	}

	profile := toProfile(externalID, ur)
	c.profiles.Set(externalID, profile, profileCacheTTL)
	return profile, nil
}

func toProfile(externalID string, ur userResponse) *domain.IdentityProfile {
	name := strings.TrimSpace(ur.FirstName + " " + ur.LastName)
	if name == "" {
		name = "Unknown User"
	}

	email := ""
	if len(ur.EmailAddresses) > 0 {
		email = ur.EmailAddresses[0].EmailAddress
	}
	if email == "" {
		email = fmt.Sprintf("no-email-%s@example.com", externalID)
	}

	return &domain.IdentityProfile{
		ID:        externalID,
		Name:      name,
		Email:     email,
		AvatarURL: ur.ImageURL,
	}
}
