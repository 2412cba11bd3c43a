// Copyright 2026 The namedbloom Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package archive

import (
	"context"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Scheme is the name prefix handled by S3.
const S3Scheme = "s3"

// S3Config describes how to reach an S3-compatible endpoint.
type S3Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Insecure  bool
}

// S3 opens archives named "s3://bucket/key" from an S3-compatible store.
// Objects are read with ranged GETs through io.ReaderAt, so only the zip
// central directory and the members themselves are fetched.
type S3 struct {
	client *minio.Client
}

var _ Opener = &S3{}

// NewS3 builds an S3 opener.  Without an explicit access key, credentials
// come from the standard AWS environment variables.
func NewS3(cfg S3Config) (*S3, error) {
	creds := credentials.NewEnvAWS()
	if cfg.AccessKey != "" {
		creds = credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, "")
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  creds,
		Secure: !cfg.Insecure,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("minio.New(%s): %w", cfg.Endpoint, err)
	}
	return NewS3WithClient(client), nil
}

// NewS3WithClient wraps an already configured minio client.
func NewS3WithClient(client *minio.Client) *S3 {
	return &S3{client: client}
}

// ParseS3Name splits "s3://bucket/key" into its bucket and key.
func ParseS3Name(name string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(name, S3Scheme+"://")
	if !ok {
		return "", "", fmt.Errorf("%q: missing %s:// prefix", name, S3Scheme)
	}
	bucket, key, ok = strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("%q: expected %s://bucket/key", name, S3Scheme)
	}
	return bucket, key, nil
}

func (s *S3) Open(ctx context.Context, name string) (Blob, error) {
	bucket, key, err := ParseS3Name(name)
	if err != nil {
		return nil, err
	}
	obj, err := s.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("GetObject(%s): %w", name, err)
	}
	// GetObject is lazy; Stat performs the request and gives us the size
	// zip needs to find the central directory.
	info, err := obj.Stat()
	if err != nil {
		_ = obj.Close()
		resp := minio.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket" {
			return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
		}
		return nil, fmt.Errorf("Stat(%s): %w", name, err)
	}
	return &s3Blob{Object: obj, size: info.Size}, nil
}

type s3Blob struct {
	*minio.Object
	size int64
}

func (b *s3Blob) Size() int64 {
	return b.size
}
