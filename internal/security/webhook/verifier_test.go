package webhook

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"testing"
	"time"
)

const testSecret = "whsec_dGVzdC1zZWNyZXQta2V5LWZvci1obWFj" // "test-secret-key-for-hmac"

func newTestVerifier(t *testing.T) *Verifier {
	t.Helper()
	v, err := NewVerifier(testSecret)
	if err != nil {
		t.Fatalf("new verifier failed: %v", err)
	}
	return v
}

func TestNewVerifier(t *testing.T) {
	if _, err := NewVerifier(testSecret); err != nil {
		t.Fatalf("expected valid secret to be accepted: %v", err)
	}
	// The prefix is optional
	if _, err := NewVerifier("dGVzdC1zZWNyZXQta2V5LWZvci1obWFj"); err != nil {
		t.Fatalf("expected bare base64 secret to be accepted: %v", err)
	}
	if _, err := NewVerifier("whsec_not!!base64"); err == nil {
		t.Fatalf("expected invalid base64 to be rejected")
	}
	if _, err := NewVerifier("whsec_"); err == nil {
		t.Fatalf("expected empty secret to be rejected")
	}
}

func TestVerifyValidSignature(t *testing.T) {
	v := newTestVerifier(t)
	body := []byte(`{"type":"user.created","data":{"id":"ext-1"}}`)
	ts := strconv.FormatInt(time.Now().Unix(), 10)

	sig := v.Sign("msg-1", ts, body)
	if err := v.Verify("msg-1", ts, "v1,"+sig, body); err != nil {
		t.Fatalf("expected valid signature to verify: %v", err)
	}

	// Multiple space-separated signatures, any v1 match passes
	header := fmt.Sprintf("v2,%s v1,%s", base64.StdEncoding.EncodeToString([]byte("other")), sig)
	if err := v.Verify("msg-1", ts, header, body); err != nil {
		t.Fatalf("expected multi-signature header to verify: %v", err)
	}
}

func TestVerifyRejectsTampering(t *testing.T) {
	v := newTestVerifier(t)
	body := []byte(`{"type":"user.created"}`)
	ts := strconv.FormatInt(time.Now().Unix(), 10)
	sig := v.Sign("msg-1", ts, body)

	if err := v.Verify("msg-1", ts, "v1,"+sig, []byte(`{"type":"user.deleted"}`)); err == nil {
		t.Fatalf("expected altered body to fail")
	}
	if err := v.Verify("msg-2", ts, "v1,"+sig, body); err == nil {
		t.Fatalf("expected altered message id to fail")
	}
	if err := v.Verify("msg-1", ts, "v0,"+sig, body); err == nil {
		t.Fatalf("expected unknown signature version to fail")
	}
}

func TestVerifyRejectsMissingHeaders(t *testing.T) {
	v := newTestVerifier(t)
	body := []byte(`{}`)
	ts := strconv.FormatInt(time.Now().Unix(), 10)
	sig := v.Sign("msg-1", ts, body)

	if err := v.Verify("", ts, "v1,"+sig, body); err == nil {
		t.Fatalf("expected missing id to fail")
	}
	if err := v.Verify("msg-1", "", "v1,"+sig, body); err == nil {
		t.Fatalf("expected missing timestamp to fail")
	}
	if err := v.Verify("msg-1", ts, "", body); err == nil {
		t.Fatalf("expected missing signature to fail")
	}
	if err := v.Verify("msg-1", "not-a-number", "v1,"+sig, body); err == nil {
		t.Fatalf("expected non-numeric timestamp to fail")
	}
}

func TestVerifyRejectsStaleTimestamp(t *testing.T) {
	v := newTestVerifier(t)
	body := []byte(`{}`)

	// Pin the clock so the tolerance window is deterministic
	now := time.Unix(1_700_000_000, 0)
	v.now = func() time.Time { return now }

	fresh := strconv.FormatInt(now.Unix(), 10)
	if err := v.Verify("msg-1", fresh, "v1,"+v.Sign("msg-1", fresh, body), body); err != nil {
		t.Fatalf("expected fresh timestamp to verify: %v", err)
	}

	stale := strconv.FormatInt(now.Add(-10*time.Minute).Unix(), 10)
	if err := v.Verify("msg-1", stale, "v1,"+v.Sign("msg-1", stale, body), body); err == nil {
		t.Fatalf("expected stale timestamp to fail")
	}

	future := strconv.FormatInt(now.Add(10*time.Minute).Unix(), 10)
	if err := v.Verify("msg-1", future, "v1,"+v.Sign("msg-1", future, body), body); err == nil {
		t.Fatalf("expected far-future timestamp to fail")
	}
}
