// Package s3store uploads normalized profile images to an S3-compatible bucket.
package s3store

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/artem13815/accounts/pkg/media"
)

// ProfileImagePrefix is the key prefix for stored profile images.
const ProfileImagePrefix = "profile_images"

// PutObjectAPI is the part of *s3.Client the uploader uses.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Options configures the S3 client.
type Options struct {
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

// NewClient builds an S3 client. A custom endpoint switches to path-style
// addressing for MinIO and similar hosts.
func NewClient(ctx context.Context, opts Options) (*s3.Client, error) {
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(opts.Region)}
	if opts.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		))
	}
	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// Uploader implements auth.ImageUploader.
type Uploader struct {
	client        PutObjectAPI
	bucket        string
	publicBaseURL string
	newKey        func() string
}

func NewUploader(client PutObjectAPI, bucket, publicBaseURL string) *Uploader {
	return &Uploader{
		client:        client,
		bucket:        bucket,
		publicBaseURL: publicBaseURL,
		newKey: func() string {
			return path.Join(ProfileImagePrefix, uuid.NewString()+".jpg")
		},
	}
}

// Upload normalizes src and stores it, returning the public URL.
func (u *Uploader) Upload(ctx context.Context, src string) (string, error) {
	raw, err := media.Decode(src)
	if err != nil {
		return "", err
	}
	img, err := media.Normalize(raw)
	if err != nil {
		return "", err
	}

	key := u.newKey()
	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(img),
		ContentLength: aws.Int64(int64(len(img))),
		ContentType:   aws.String("image/jpeg"),
		CacheControl:  aws.String("public, max-age=31536000, immutable"),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return u.publicBaseURL + "/" + key, nil
}
