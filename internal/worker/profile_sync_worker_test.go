package worker

import (
	"context"
	"testing"
	"time"

	"github.com/openhire/jobboard/internal/domain"
)

type memUserRepo struct {
	byID map[string]*domain.User
}

func (m *memUserRepo) Create(u *domain.User) error {
	m.byID[u.ID] = u
	return nil
}

func (m *memUserRepo) GetByID(id string) (*domain.User, error) {
	if u, ok := m.byID[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (m *memUserRepo) Update(u *domain.User) error {
	copied := *u
	copied.SyncedAt = time.Now()
	m.byID[u.ID] = &copied
	return nil
}

func (m *memUserRepo) Delete(id string) error {
	if _, ok := m.byID[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *memUserRepo) MarkSynced(id string) error {
	u, ok := m.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.SyncedAt = time.Now()
	return nil
}

func (m *memUserRepo) ListSyncedBefore(cutoff time.Time, limit int) ([]*domain.User, error) {
	out := []*domain.User{}
	for _, u := range m.byID {
		if u.SyncedAt.Before(cutoff) {
			copied := *u
			out = append(out, &copied)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

type fakeProvider struct {
	profiles map[string]*domain.IdentityProfile
}

func (f *fakeProvider) VerifyToken(ctx context.Context, token string) (string, error) {
	return "", domain.Unauthorized("not used")
}

func (f *fakeProvider) FetchUser(ctx context.Context, externalID string) (*domain.IdentityProfile, error) {
	if p, ok := f.profiles[externalID]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, domain.ErrUserNotFound
}

func TestRunOnceReconcilesStaleProfiles(t *testing.T) {
	stale := time.Now().Add(-2 * time.Hour)
	repo := &memUserRepo{byID: map[string]*domain.User{
		"drifted":   {ID: "drifted", Name: "Old Name", Email: "old@example.com", SyncedAt: stale},
		"unchanged": {ID: "unchanged", Name: "Same", Email: "same@example.com", SyncedAt: stale},
		"deleted":   {ID: "deleted", Name: "Gone", Email: "gone@example.com", SyncedAt: stale},
		"fresh":     {ID: "fresh", Name: "Fresh", Email: "fresh@example.com", SyncedAt: time.Now()},
	}}
	provider := &fakeProvider{profiles: map[string]*domain.IdentityProfile{
		"drifted":   {ID: "drifted", Name: "New Name", Email: "new@example.com"},
		"unchanged": {ID: "unchanged", Name: "Same", Email: "same@example.com"},
		"fresh":     {ID: "fresh", Name: "Should Not Sync", Email: "fresh@example.com"},
	}}

	w := NewProfileSyncWorker(repo, provider, nil, time.Hour, 10)
	w.runOnce(context.Background())

	if got := repo.byID["drifted"].Name; got != "New Name" {
		t.Fatalf("expected drifted profile patched, got %q", got)
	}
	if _, ok := repo.byID["deleted"]; ok {
		t.Fatalf("expected provider-deleted profile removed locally")
	}
	if !repo.byID["unchanged"].SyncedAt.After(stale) {
		t.Fatalf("expected unchanged profile marked synced")
	}
	// Recently synced profiles are outside the batch and stay untouched
	if got := repo.byID["fresh"].Name; got != "Fresh" {
		t.Fatalf("fresh profile must not be synced, got %q", got)
	}
}

func TestRunOnceBatchLimit(t *testing.T) {
	stale := time.Now().Add(-2 * time.Hour)
	repo := &memUserRepo{byID: map[string]*domain.User{}}
	provider := &fakeProvider{profiles: map[string]*domain.IdentityProfile{}}
	for i := 0; i < 5; i++ {
		id := string(rune('a' + i))
		repo.byID[id] = &domain.User{ID: id, Name: "n", Email: "e@example.com", SyncedAt: stale}
		provider.profiles[id] = &domain.IdentityProfile{ID: id, Name: "n", Email: "e@example.com"}
	}

	w := NewProfileSyncWorker(repo, provider, nil, time.Hour, 2)
	w.runOnce(context.Background())

	synced := 0
	for _, u := range repo.byID {
		if u.SyncedAt.After(stale) {
			synced++
		}
	}
	if synced != 2 {
		t.Fatalf("expected exactly 2 profiles synced per pass, got %d", synced)
	}
}
