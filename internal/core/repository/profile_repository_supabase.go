package repository

import (
	"context"
	"fmt"

	"github.com/supabase-community/supabase-go"

	"github.com/lorehq/lore-web/internal/core/domain"
)

const profilesTable = "profiles"

// SupabaseProfileRepository implements domain.ProfileRepository against the
// hosted PostgREST API.
type SupabaseProfileRepository struct {
	client *supabase.Client
}

// NewProfileRepository creates a new SupabaseProfileRepository.
func NewProfileRepository(client *supabase.Client) *SupabaseProfileRepository {
	return &SupabaseProfileRepository{client: client}
}

// Select returns the profile row for the given user ID.
// Returns (nil, nil) when no row exists yet.
func (r *SupabaseProfileRepository) Select(ctx context.Context, userID string) (*domain.Profile, error) {
	var rows []domain.Profile
	_, err := r.client.From(profilesTable).
		Select("id, full_name, display_name, bio, avatar_url, updated_at", "", false).
		Eq("id", userID).
		ExecuteTo(&rows)
	if err != nil {
		return nil, fmt.Errorf("select profile %s: %w", userID, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// Upsert inserts or updates the row keyed by Profile.ID.
func (r *SupabaseProfileRepository) Upsert(ctx context.Context, p *domain.Profile) error {
	_, _, err := r.client.From(profilesTable).
		Upsert(p, "id", "minimal", "").
		Execute()
	if err != nil {
		return fmt.Errorf("upsert profile %s: %w", p.ID, err)
	}
	return nil
}

// Compile-time check that SupabaseProfileRepository implements ProfileRepository.
var _ domain.ProfileRepository = (*SupabaseProfileRepository)(nil)
