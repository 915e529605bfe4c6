// Package s3 stores asset files in an S3 compatible bucket.
package s3

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	pkgerrors "github.com/pkg/errors"

	"github.com/Zsh123456-BOOP/jnu-web/internal/storage"
)

// ErrBucketRequired is returned by New without a bucket name.
var ErrBucketRequired = errors.New("s3 storage requires a bucket")

// Options configure the S3 backend.
type Options struct {
	Bucket         string
	Region         string
	Endpoint       string
	AccessKey      string
	SecretKey      string
	Prefix         string
	ForcePathStyle bool
	// PublicBaseURL is prepended to object keys to form asset URLs.
	// Empty means the endpoint (or the AWS virtual host) is used.
	PublicBaseURL string
}

// Backend implements storage.Backend on top of an S3 bucket.
type Backend struct {
	client  *s3.Client
	bucket  string
	prefix  string
	region  string
	baseURL string
}

// New creates an S3 backend.
func New(ctx context.Context, opts Options) (*Backend, error) {
	if opts.Bucket == "" {
		return nil, ErrBucketRequired
	}

	region := opts.Region
	if region == "" {
		region = "us-east-1"
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}

	if opts.AccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "load aws config")
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = opts.ForcePathStyle
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
	})

	baseURL := opts.PublicBaseURL
	if baseURL == "" {
		switch {
		case opts.Endpoint != "":
			baseURL = strings.TrimRight(opts.Endpoint, "/") + "/" + opts.Bucket
		default:
			baseURL = "https://" + opts.Bucket + ".s3." + region + ".amazonaws.com"
		}
	}

	return &Backend{
		client:  client,
		bucket:  opts.Bucket,
		prefix:  strings.Trim(opts.Prefix, "/"),
		region:  region,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

// Type implements storage.Backend.
func (b *Backend) Type() string { return "s3" }

func (b *Backend) key(rel string) (string, error) {
	cleaned, err := storage.CleanRelative(rel)
	if err != nil {
		return "", err
	}

	if b.prefix == "" {
		return cleaned, nil
	}

	return path.Join(b.prefix, cleaned), nil
}

// Put implements storage.Backend.
func (b *Backend) Put(ctx context.Context, rel string, r io.Reader, size int64, contentType string) error {
	key, err := b.key(rel)
	if err != nil {
		return err
	}

	input := &s3.PutObjectInput{
		Bucket:      &b.bucket,
		Key:         &key,
		Body:        r,
		ContentType: aws.String(contentType),
	}

	if size >= 0 {
		input.ContentLength = aws.Int64(size)
	}

	if _, err := b.client.PutObject(ctx, input); err != nil {
		return pkgerrors.Wrapf(err, "put s3://%s/%s", b.bucket, key)
	}

	return nil
}

// Delete implements storage.Backend.
func (b *Backend) Delete(ctx context.Context, rel string) error {
	key, err := b.key(rel)
	if err != nil {
		return err
	}

	_, err = b.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: &b.bucket,
		Key:    &key,
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil
		}

		return pkgerrors.Wrapf(err, "delete s3://%s/%s", b.bucket, key)
	}

	return nil
}

// URL implements storage.Backend. The request origin is not used.
func (b *Backend) URL(_, rel string) string {
	key, err := b.key(rel)
	if err != nil {
		key = strings.TrimLeft(rel, "/")
	}

	return b.baseURL + "/" + key
}
