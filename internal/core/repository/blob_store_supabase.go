package repository

import (
	"context"
	"fmt"
	"io"

	storage "github.com/supabase-community/storage-go"
	"github.com/supabase-community/supabase-go"

	"github.com/lorehq/lore-web/internal/core/domain"
)

// SupabaseBlobStore implements domain.BlobStore against the hosted storage
// service. Blobs replaced by a new upload are never deleted.
type SupabaseBlobStore struct {
	client *supabase.Client
}

// NewBlobStore creates a new SupabaseBlobStore.
func NewBlobStore(client *supabase.Client) *SupabaseBlobStore {
	return &SupabaseBlobStore{client: client}
}

// Upload stores the blob under bucket/path.
func (s *SupabaseBlobStore) Upload(ctx context.Context, bucket, path string, r io.Reader, contentType string) error {
	_, err := s.client.Storage.UploadFile(bucket, path, r, storage.FileOptions{
		ContentType: &contentType,
	})
	if err != nil {
		return fmt.Errorf("upload blob %s/%s: %w", bucket, path, err)
	}
	return nil
}

// PublicURL returns the public URL issued by the storage service for
// bucket/path.
func (s *SupabaseBlobStore) PublicURL(bucket, path string) string {
	return s.client.Storage.GetPublicUrl(bucket, path).SignedURL
}

// Compile-time check that SupabaseBlobStore implements BlobStore.
var _ domain.BlobStore = (*SupabaseBlobStore)(nil)
