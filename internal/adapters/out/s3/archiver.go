// Package s3 stores exported custody chains as JSON objects in an S3 bucket.
package s3

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"

	"custody/internal/core/ports"
	"custody/internal/pkg/errs"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var _ ports.CustodyArchiver = (*Archiver)(nil)

// Client is the part of the S3 API the archiver calls.
type Client interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type Options struct {
	Bucket string
	Prefix string
	Region string
	// Endpoint overrides the AWS endpoint, e.g. for MinIO. Path-style addressing is used with it.
	Endpoint string
}

type Archiver struct {
	client Client
	bucket string
	prefix string
}

// NewArchiver loads credentials from the default AWS chain.
func NewArchiver(ctx context.Context, opts Options) (*Archiver, error) {
	if opts.Bucket == "" {
		return nil, errs.NewValueIsRequiredError("archive bucket")
	}

	var loaders []func(*config.LoadOptions) error
	if opts.Region != "" {
		loaders = append(loaders, config.WithRegion(opts.Region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, loaders...)
	if err != nil {
		return nil, fmt.Errorf("s3: load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewArchiverWithClient(client, opts.Bucket, opts.Prefix), nil
}

// NewArchiverWithClient creates an archiver over an existing client.
func NewArchiverWithClient(client Client, bucket, prefix string) *Archiver {
	return &Archiver{client: client, bucket: bucket, prefix: prefix}
}

// Archive uploads document as JSON under prefix/key and returns its s3:// URI. Uploading the
// same key again overwrites the object.
func (a *Archiver) Archive(ctx context.Context, key string, document any) (string, error) {
	if key == "" {
		return "", errs.NewValueIsRequiredError("archive key")
	}
	body, err := json.Marshal(document)
	if err != nil {
		return "", fmt.Errorf("s3: encode %s: %w", key, err)
	}

	objectKey := key
	if a.prefix != "" {
		objectKey = path.Join(a.prefix, key)
	}
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(a.bucket),
		Key:           aws.String(objectKey),
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
		ContentType:   aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("s3: put %s: %w", objectKey, err)
	}
	return fmt.Sprintf("s3://%s/%s", a.bucket, objectKey), nil
}
