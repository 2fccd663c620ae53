package v1

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorehq/lore-web/internal/core/domain"
)

var testSession = &domain.Session{AccessToken: "tok", UserID: "u1", Email: "a@b.c"}

func TestFetch_ReturnsStoredRow(t *testing.T) {
	repo := &fakeProfileRepo{selectRet: &domain.Profile{
		ID: "u1", FullName: "Ada", DisplayName: "ada", Bio: "hi",
	}}
	svc := NewProfileService(repo, &fakeBlobStore{}, "avatars")

	p, err := svc.Fetch(context.Background(), testSession)
	require.NoError(t, err)
	assert.Equal(t, "Ada", p.FullName)
}

func TestFetch_RemoteErrorFallsBackToDefaults(t *testing.T) {
	repo := &fakeProfileRepo{selectErr: errors.New("boom")}
	svc := NewProfileService(repo, &fakeBlobStore{}, "avatars")

	p, err := svc.Fetch(context.Background(), testSession)
	require.NoError(t, err)
	assert.Equal(t, "u1", p.ID)
	assert.Empty(t, p.FullName)
	assert.Empty(t, p.AvatarURL)
}

func TestFetch_MissingRowYieldsDefaultsForNewUser(t *testing.T) {
	svc := NewProfileService(&fakeProfileRepo{}, &fakeBlobStore{}, "avatars")

	p, err := svc.Fetch(context.Background(), testSession)
	require.NoError(t, err)
	assert.Equal(t, &domain.Profile{ID: "u1"}, p)
}

func TestFetch_RequiresSession(t *testing.T) {
	svc := NewProfileService(&fakeProfileRepo{}, &fakeBlobStore{}, "avatars")

	_, err := svc.Fetch(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestSave_UpsertsFullRowWithSessionIDAndFreshTimestamp(t *testing.T) {
	repo := &fakeProfileRepo{}
	svc := NewProfileService(repo, &fakeBlobStore{}, "avatars")
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	_, err := svc.Save(context.Background(), testSession, ProfileUpdate{
		FullName: "A", DisplayName: "B", Bio: "C", AvatarURL: "https://cdn.example.com/x",
	})
	require.NoError(t, err)

	require.Len(t, repo.upserts, 1)
	assert.Equal(t, domain.Profile{
		ID:          "u1",
		FullName:    "A",
		DisplayName: "B",
		Bio:         "C",
		AvatarURL:   "https://cdn.example.com/x",
		UpdatedAt:   now,
	}, repo.upserts[0])
}

func TestSave_RemoteErrorIsReturned(t *testing.T) {
	repo := &fakeProfileRepo{upsertErr: errors.New("row level security")}
	svc := NewProfileService(repo, &fakeBlobStore{}, "avatars")

	_, err := svc.Save(context.Background(), testSession, ProfileUpdate{})
	assert.ErrorContains(t, err, "row level security")
}

func TestUploadAvatar_RejectsMissingFile(t *testing.T) {
	blobs := &fakeBlobStore{}
	svc := NewProfileService(&fakeProfileRepo{}, blobs, "avatars")

	_, err := svc.UploadAvatar(context.Background(), testSession, "", "", nil)
	assert.ErrorIs(t, err, ErrNoFileSelected)
	assert.Empty(t, blobs.uploads)
}

func TestUploadAvatar_StoresBlobAndPersistsURLImmediately(t *testing.T) {
	repo := &fakeProfileRepo{selectRet: &domain.Profile{ID: "u1", FullName: "Ada"}}
	blobs := &fakeBlobStore{}
	svc := NewProfileService(repo, blobs, "avatars")

	url, err := svc.UploadAvatar(context.Background(), testSession,
		"me.png", "image/png", strings.NewReader("pixels"))
	require.NoError(t, err)

	require.Len(t, blobs.uploads, 1)
	up := blobs.uploads[0]
	assert.Equal(t, "avatars", up.Bucket)
	assert.True(t, strings.HasPrefix(up.Path, "u1-"), "object name starts with the user id")
	assert.True(t, strings.HasSuffix(up.Path, ".png"), "object name keeps the extension")
	assert.Equal(t, "image/png", up.ContentType)
	assert.Equal(t, []byte("pixels"), up.Data)

	assert.Equal(t, fmt.Sprintf("https://cdn.example.com/avatars/%s", up.Path), url)

	// The URL is written to the row right away, with the other fields kept.
	require.Len(t, repo.upserts, 1)
	assert.Equal(t, "u1", repo.upserts[0].ID)
	assert.Equal(t, "Ada", repo.upserts[0].FullName)
	assert.Equal(t, url, repo.upserts[0].AvatarURL)
}

func TestUploadAvatar_DistinctNamesForRepeatedUploads(t *testing.T) {
	blobs := &fakeBlobStore{}
	svc := NewProfileService(&fakeProfileRepo{}, blobs, "avatars")

	_, err := svc.UploadAvatar(context.Background(), testSession, "a.jpg", "image/jpeg", strings.NewReader("1"))
	require.NoError(t, err)
	_, err = svc.UploadAvatar(context.Background(), testSession, "a.jpg", "image/jpeg", strings.NewReader("2"))
	require.NoError(t, err)

	require.Len(t, blobs.uploads, 2)
	// Old blobs stay behind; only the names must differ.
	assert.NotEqual(t, blobs.uploads[0].Path, blobs.uploads[1].Path)
}

func TestUploadAvatar_UploadFailureDoesNotTouchRow(t *testing.T) {
	repo := &fakeProfileRepo{}
	blobs := &fakeBlobStore{uploadErr: errors.New("bucket missing")}
	svc := NewProfileService(repo, blobs, "avatars")

	_, err := svc.UploadAvatar(context.Background(), testSession, "a.jpg", "image/jpeg", strings.NewReader("1"))
	assert.ErrorContains(t, err, "bucket missing")
	assert.Empty(t, repo.upserts)
}
