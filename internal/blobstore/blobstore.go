// Package blobstore wraps the S3-compatible object store holding item
// photographs.
package blobstore

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/ricsouza/trecos/internal/imaging"
	"github.com/ricsouza/trecos/internal/token"
)

// keyLength is the number of random characters in a blob key.
const keyLength = 10

// Config holds the object store connection settings.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

// Store wraps MinIO/S3 interactions for item photographs.
type Store struct {
	client *minio.Client
	bucket string
	region string
}

// New creates a MinIO client from the Config.
func New(cfg Config) (*Store, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio: %w", err)
	}
	return &Store{
		client: client,
		bucket: cfg.Bucket,
		region: cfg.Region,
	}, nil
}

// EnsureBucket makes sure the photo bucket exists before use.
func (s *Store) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", s.bucket, err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region}); err != nil {
			return fmt.Errorf("make bucket %s: %w", s.bucket, err)
		}
	}
	return nil
}

// Upload writes a base64-encoded photograph under a fresh random key and
// returns the durable URL it can be fetched from. The write and the URL
// resolution are two separate steps: a failed write leaves nothing behind,
// while a failed resolution after a successful write leaves an orphaned
// blob (accepted, not cleaned up). A single attempt, no retry.
func (s *Store) Upload(ctx context.Context, encoded, subtype string) (string, error) {
	data, err := DecodePayload(encoded)
	if err != nil {
		return "", err
	}
	detected, err := imaging.Validate(data)
	if err != nil {
		return "", err
	}
	subtype, err = normalizeSubtype(subtype, detected)
	if err != nil {
		return "", err
	}

	key := token.Generate(keyLength) + "." + subtype
	opts := minio.PutObjectOptions{ContentType: "image/" + subtype}
	if _, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), opts); err != nil {
		return "", fmt.Errorf("upload photo: %w", err)
	}

	return s.resolveURL(ctx, key)
}

// resolveURL confirms the object exists and composes its durable URL.
// Presigned URLs expire, so the stored reference uses the plain object path
// instead (the bucket carries a public read policy).
func (s *Store) resolveURL(ctx context.Context, key string) (string, error) {
	if _, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{}); err != nil {
		return "", fmt.Errorf("resolve photo url: %w", err)
	}
	base := strings.TrimRight(s.client.EndpointURL().String(), "/")
	return fmt.Sprintf("%s/%s/%s", base, s.bucket, key), nil
}

// normalizeSubtype reconciles the capture source's format tag with the MIME
// type sniffed from the payload bytes. The tag names the key extension and
// Content-Type, so it must agree with the sniffed type; an empty, unknown or
// mismatched tag is rejected before any key is built from it.
func normalizeSubtype(subtype, detected string) (string, error) {
	if subtype == "jpg" {
		subtype = "jpeg"
	}
	if "image/"+subtype != detected {
		return "", fmt.Errorf("photo format %q does not match detected type %s", subtype, detected)
	}
	return subtype, nil
}

// DecodePayload decodes a base64 photo payload. A full data URL is accepted
// too; everything up to and including the first comma is treated as the
// header and stripped.
func DecodePayload(encoded string) ([]byte, error) {
	if i := strings.IndexByte(encoded, ','); i >= 0 {
		encoded = encoded[i+1:]
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decoding photo payload: %w", err)
	}
	return data, nil
}
