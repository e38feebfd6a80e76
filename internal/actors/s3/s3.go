// Package s3 is a document medium keeping the catalog document as one object
// of an S3-compatible bucket (AWS S3 or MinIO).
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rbroggi/hbnb/internal/core/model"
)

// Config holds the construction parameters of the S3 client.
type Config struct {
	Region          string
	Endpoint        string // optional; if set enables custom endpoint (e.g. MinIO)
	AccessKeyID     string // optional (falls back to default credentials chain)
	SecretAccessKey string // optional
	PathStyle       bool
}

// NewClient creates an S3 client from Config.
func NewClient(ctx context.Context, cfg Config) (*s3.Client, error) {
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("error loading aws config: %w", err)
	}
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}), nil
}

// S3MediumArgs are the mandatory arguments for the creation of a S3Medium.
type S3MediumArgs struct {
	// Client is an S3 client.
	Client *s3.Client

	// Bucket holds the document object.
	Bucket string

	// Key is the object key of the document.
	Key string
}

// NewS3Medium creates a new S3Medium.
func NewS3Medium(args S3MediumArgs) (*S3Medium, error) {
	if args.Client == nil {
		return nil, errors.New("nil client passed to s3 medium")
	}
	if args.Bucket == "" || args.Key == "" {
		return nil, errors.New("s3 bucket and key required")
	}
	return &S3Medium{client: args.Client, bucket: args.Bucket, key: args.Key}, nil
}

// S3Medium is an S3 medium.
type S3Medium struct {
	client *s3.Client
	bucket string
	key    string
}

// Read returns the document object. It returns model.ErrNoDocument if the object does not exist.
func (m *S3Medium) Read(ctx context.Context) ([]byte, error) {
	out, err := m.client.GetObject(ctx, &s3.GetObjectInput{Bucket: &m.bucket, Key: &m.key})
	if isNotFound(err) {
		return nil, fmt.Errorf("%w: s3://%s/%s", model.ErrNoDocument, m.bucket, m.key)
	}
	if err != nil {
		return nil, fmt.Errorf("error getting s3://%s/%s: %w", m.bucket, m.key, err)
	}
	defer out.Body.Close()
	doc, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading s3://%s/%s: %w", m.bucket, m.key, err)
	}
	return doc, nil
}

// Write puts the document object. S3 replaces objects as a whole.
func (m *S3Medium) Write(ctx context.Context, doc []byte) error {
	_, err := m.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &m.bucket,
		Key:         &m.key,
		Body:        bytes.NewReader(doc),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("error putting s3://%s/%s: %w", m.bucket, m.key, err)
	}
	return nil
}

func isNotFound(err error) bool {
	if err == nil {
		return false
	}
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return true
	}
	var respErr *awshttp.ResponseError
	return errors.As(err, &respErr) && respErr.HTTPStatusCode() == http.StatusNotFound
}
