package facades

import (
	"bytes"
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/mkoval7/contacts-api/internal/logger"
)

// AvatarFacade stores avatar images in S3-compatible object storage and
// returns their public URLs.
type AvatarFacade struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

// NewAvatarFacade connects to the object store and ensures the bucket exists.
func NewAvatarFacade(ctx context.Context, endpoint, accessKey, secretKey, bucket, publicURL string, useSSL bool) (*AvatarFacade, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("minio bucket check: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("minio make bucket: %w", err)
		}
	}

	return &AvatarFacade{client: client, bucket: bucket, publicURL: publicURL}, nil
}

// Upload stores the avatar under a per-username key. Re-uploading for the
// same username overwrites the previous avatar.
func (f *AvatarFacade) Upload(ctx context.Context, username string, data []byte, contentType string) (string, error) {
	key := fmt.Sprintf("avatars/%s", username)

	_, err := f.client.PutObject(ctx, f.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		logger.Log.Errorw("failed to upload avatar", "username", username, "error", err)
		return "", err
	}

	return fmt.Sprintf("%s/%s/%s", f.publicURL, f.bucket, key), nil
}
