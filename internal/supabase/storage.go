package supabase

import (
	"bytes"
	"fmt"
	"time"

	"github.com/google/uuid"
	storage "github.com/supabase-community/storage-go"
)

// StorageClient is the object stash. Keys are write-once: every upload gets a
// fresh random component, nothing is ever overwritten.
type StorageClient struct {
	client *storage.Client
	bucket string
}

func NewStorageClient(supabaseURL, serviceKey, bucket string) (*StorageClient, error) {
	baseURL := supabaseURL
	if len(baseURL) > 0 && baseURL[len(baseURL)-1] == '/' {
		baseURL = baseURL[:len(baseURL)-1]
	}
	client := storage.NewClient(baseURL+"/storage/v1", serviceKey, nil)

	return &StorageClient{
		client: client,
		bucket: bucket,
	}, nil
}

// Upload stores file bytes under uploads/{kiosk_id}/{uuid}-{filename} and
// returns the storage key.
func (s *StorageClient) Upload(kioskID, filename string, data []byte, contentType string) (string, error) {
	key := fmt.Sprintf("uploads/%s/%s-%s", kioskID, uuid.New().String(), filename)

	if contentType == "" {
		contentType = "application/pdf"
	}
	upsert := false
	_, err := s.client.UploadFile(s.bucket, key, bytes.NewReader(data), storage.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}

	return key, nil
}

// SignedURL issues a time-limited retrieval link for a stored file.
func (s *StorageClient) SignedURL(key string, ttl time.Duration) (string, error) {
	resp, err := s.client.CreateSignedUrl(s.bucket, key, int(ttl.Seconds()))
	if err != nil {
		return "", fmt.Errorf("failed to create signed url: %w", err)
	}
	return resp.SignedURL, nil
}

func (s *StorageClient) Delete(key string) error {
	_, err := s.client.RemoveFile(s.bucket, []string{key})
	return err
}
