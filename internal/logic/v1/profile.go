package v1

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/lorehq/lore-web/internal/core/domain"
	"github.com/lorehq/lore-web/middleware"
)

// ProfileUpdate carries the editable profile fields from one form submit.
type ProfileUpdate struct {
	FullName    string `json:"full_name"`
	DisplayName string `json:"display_name"`
	Bio         string `json:"bio"`
	AvatarURL   string `json:"avatar_url"`
}

// ProfileService implements the profile editor logic: fetch on mount,
// wholesale upsert on submit, avatar upload to blob storage.
type ProfileService struct {
	profiles domain.ProfileRepository
	blobs    domain.BlobStore
	bucket   string
	now      func() time.Time
}

// NewProfileService creates a new ProfileService storing avatars in the
// given bucket.
func NewProfileService(profiles domain.ProfileRepository, blobs domain.BlobStore, bucket string) *ProfileService {
	return &ProfileService{
		profiles: profiles,
		blobs:    blobs,
		bucket:   bucket,
		now:      time.Now,
	}
}

// Fetch loads the session user's profile row. A missing row (new user) and
// a remote error both yield an empty profile with only the ID set; the error
// is logged, never surfaced.
func (s *ProfileService) Fetch(ctx context.Context, session *domain.Session) (*domain.Profile, error) {
	if session == nil {
		return nil, ErrNotAuthenticated
	}

	ctx, span := middleware.StartSpan(ctx, "profile.fetch", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("user.id", session.UserID),
	))
	defer span.End()

	p, err := s.profiles.Select(ctx, session.UserID)
	if err != nil {
		span.RecordError(err)
		log.Warn().Err(err).Str("user_id", session.UserID).Msg("Profile fetch failed, using defaults")
		return &domain.Profile{ID: session.UserID}, nil
	}
	if p == nil {
		return &domain.Profile{ID: session.UserID}, nil
	}
	return p, nil
}

// Save writes the full profile row in a single upsert: the four editable
// fields plus the immutable session user ID and a fresh timestamp.
func (s *ProfileService) Save(ctx context.Context, session *domain.Session, upd ProfileUpdate) (*domain.Profile, error) {
	if session == nil {
		return nil, ErrNotAuthenticated
	}

	ctx, span := middleware.StartSpan(ctx, "profile.save", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("user.id", session.UserID),
	))
	defer span.End()

	row := &domain.Profile{
		ID:          session.UserID,
		FullName:    upd.FullName,
		DisplayName: upd.DisplayName,
		Bio:         upd.Bio,
		AvatarURL:   upd.AvatarURL,
		UpdatedAt:   s.now(),
	}
	if err := s.profiles.Upsert(ctx, row); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("save profile: %w", err)
	}
	return row, nil
}

// UploadAvatar stores the image under a generated object name, resolves its
// public URL and persists the URL on the profile row right away, so an
// upload is never lost by skipping the form submit. Uniqueness of the object
// name is probabilistic (random suffix); replaced blobs are never deleted.
func (s *ProfileService) UploadAvatar(ctx context.Context, session *domain.Session, filename, contentType string, r io.Reader) (string, error) {
	if session == nil {
		return "", ErrNotAuthenticated
	}
	if filename == "" || r == nil {
		return "", ErrNoFileSelected
	}

	ctx, span := middleware.StartSpan(ctx, "profile.upload_avatar", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("user.id", session.UserID),
	))
	defer span.End()

	object := fmt.Sprintf("%s-%s%s", session.UserID, uuid.NewString(), path.Ext(filename))
	if err := s.blobs.Upload(ctx, s.bucket, object, r, contentType); err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("upload avatar: %w", err)
	}
	url := s.blobs.PublicURL(s.bucket, object)

	// Persist immediately with the remaining fields carried over, keeping
	// the row keyed to the session user.
	current, err := s.Fetch(ctx, session)
	if err != nil {
		return "", err
	}
	current.AvatarURL = url
	current.UpdatedAt = s.now()
	if err := s.profiles.Upsert(ctx, current); err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("persist avatar url: %w", err)
	}
	return url, nil
}
