package service

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/recipebox/backend/config"
)

// ImageStore persists uploaded recipe images. Save returns the reference
// stored on the recipe row; Delete accepts that same reference.
type ImageStore interface {
	Save(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, ref string) error
}

// ImageFileName builds the storage key for an uploaded image: a fresh
// UUID keeping the original file extension.
func ImageFileName(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	return fmt.Sprintf("uploads/recipe/%s%s", uuid.New().String(), ext)
}

// S3ImageStore stores images in an S3 bucket and references them by
// public URL.
type S3ImageStore struct {
	s3Config *config.S3Config
}

func NewS3ImageStore(s3Config *config.S3Config) *S3ImageStore {
	return &S3ImageStore{s3Config: s3Config}
}

func (s *S3ImageStore) Save(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	publicURL := fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.s3Config.BucketName, key)
	log.Printf("uploaded image to S3: %s", publicURL)
	return publicURL, nil
}

func (s *S3ImageStore) Delete(ctx context.Context, ref string) error {
	prefix := fmt.Sprintf("https://%s.s3.amazonaws.com/", s.s3Config.BucketName)
	key := strings.TrimPrefix(ref, prefix)
	_, err := s.s3Config.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.s3Config.BucketName),
		Key:    aws.String(key),
	})
	return err
}

// LocalImageStore stores images under a media directory on disk and
// references them by relative path.
type LocalImageStore struct {
	root string
}

func NewLocalImageStore(root string) *LocalImageStore {
	return &LocalImageStore{root: root}
}

func (s *LocalImageStore) Save(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	path := filepath.Join(s.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return key, nil
}

func (s *LocalImageStore) Delete(ctx context.Context, ref string) error {
	path := filepath.Join(s.root, filepath.FromSlash(ref))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
