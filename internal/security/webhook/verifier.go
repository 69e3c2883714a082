package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const timestampTolerance = 5 * time.Minute

// Verifier checks identity-provider webhook signatures. The provider signs
// "<id>.<timestamp>.<body>" with HMAC-SHA256 under a shared secret and
// sends the result in a space-separated "v1,<base64>" signature header.
type Verifier struct {
	secret []byte
	now    func() time.Time
}

// NewVerifier creates a verifier from the shared secret. The conventional
// "whsec_" prefix is stripped and the remainder base64-decoded.
func NewVerifier(secret string) (*Verifier, error) {
	trimmed := strings.TrimPrefix(secret, "whsec_")
	key, err := base64.StdEncoding.DecodeString(trimmed)
	if err != nil {
		return nil, fmt.Errorf("invalid webhook secret: %w", err)
	}
	if len(key) == 0 {
		return nil, fmt.Errorf("empty webhook secret")
	}
	return &Verifier{secret: key, now: time.Now}, nil
}

// Verify checks the signature header triple against the raw request body.
// The timestamp must fall within the tolerance window to limit replay.
func (v *Verifier) Verify(msgID, timestamp, signatureHeader string, body []byte) error {
	if msgID == "" || timestamp == "" || signatureHeader == "" {
		return fmt.Errorf("missing signature headers")
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid timestamp: %w", err)
	}
	sent := time.Unix(ts, 0)
	now := v.now()
	if sent.Before(now.Add(-timestampTolerance)) || sent.After(now.Add(timestampTolerance)) {
		return fmt.Errorf("timestamp outside tolerance")
	}

	expected := v.Sign(msgID, timestamp, body)

	// Header may carry several versioned signatures; any v1 match passes.
	for _, part := range strings.Split(signatureHeader, " ") {
		version, sig, found := strings.Cut(part, ",")
		if !found || version != "v1" {
			continue
		}
		if hmac.Equal([]byte(sig), []byte(expected)) {
			return nil
		}
	}

	return fmt.Errorf("no matching signature")
}

// Sign computes the v1 signature for a message. Exposed for tests and for
// local tooling that replays provider events.
func (v *Verifier) Sign(msgID, timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, v.secret)
	fmt.Fprintf(mac, "%s.%s.", msgID, timestamp)
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
