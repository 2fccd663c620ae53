package domain

import (
	"context"
	"io"
	"time"
)

// Profile is the one row per user in the hosted profiles table. The editor
// holds a working copy in memory and writes it back wholesale on submit.
// Invariant: ID always equals the current Session's UserID — the editor
// never reads or writes another user's row.
type Profile struct {
	ID          string    `json:"id"`
	FullName    string    `json:"full_name"`
	DisplayName string    `json:"display_name"`
	Bio         string    `json:"bio"`
	AvatarURL   string    `json:"avatar_url"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProfileRepository defines the data-access contract for profile rows.
// Implementations live in internal/core/repository.
type ProfileRepository interface {
	// Select returns the profile row for the given user ID.
	// Returns (nil, nil) when no row exists yet (new user).
	Select(ctx context.Context, userID string) (*Profile, error)

	// Upsert inserts or updates the row keyed by Profile.ID.
	Upsert(ctx context.Context, p *Profile) error
}

// BlobStore defines the contract with the hosted object-storage service.
// Uploaded blobs are addressed by bucket and path; replaced blobs are never
// deleted (accepted resource leak).
type BlobStore interface {
	// Upload stores the blob under bucket/path.
	Upload(ctx context.Context, bucket, path string, r io.Reader, contentType string) error

	// PublicURL returns the public URL for bucket/path. Purely derived;
	// no remote call is made and no existence check happens.
	PublicURL(bucket, path string) string
}
