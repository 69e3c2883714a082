package domain

import "time"

// User is the local cache of a job seeker's identity-provider profile.
// The ID is the provider's stable external identifier.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	AvatarURL string    `json:"avatarUrl"`
	ResumeURL string    `json:"resumeUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	SyncedAt  time.Time `json:"-"` // last reconciliation with the identity provider
}

// UserRepository defines data access for cached user profiles
type UserRepository interface {
	Create(user *User) error
	GetByID(id string) (*User, error)
	Update(user *User) error
	Delete(id string) error
	// MarkSynced records that the profile was reconciled with the provider
	// even when no field changed.
	MarkSynced(id string) error
	// ListSyncedBefore returns profiles whose last sync is older than cutoff,
	// for the background profile sync pass.
	ListSyncedBefore(cutoff time.Time, limit int) ([]*User, error)
}
