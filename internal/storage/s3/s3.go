// Package s3 offloads generated cover images to an S3-compatible bucket
// (Cloudflare R2 in production) so the store keeps a URL instead of a
// multi-megabyte data URI.
package s3

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ErrNoPublicBase means covers would have no URL that outlives a presign.
var ErrNoPublicBase = errors.New("s3: public base URL not configured")

type Settings struct {
	Endpoint   string
	Region     string
	Bucket     string
	AccessKey  string
	SecretKey  string
	PublicBase string // e.g. https://covers.example.com; required
	PathStyle  bool   // https://endpoint/bucket/key instead of https://bucket.endpoint/key
}

type S3Client struct {
	Client     *s3.Client
	Bucket     string
	PublicBase string
	// endpoint is kept to recognise direct bucket URLs when discarding covers
	endpoint *url.URL
}

// NewR2Client initializes an S3-compatible client for Cloudflare R2
func NewR2Client(ctx context.Context, st Settings) (*S3Client, error) {
	if st.Bucket == "" {
		return nil, fmt.Errorf("s3: bucket not configured")
	}
	// The store outlives any presigned URL, so covers are only ever served
	// from the public base.
	if st.PublicBase == "" {
		return nil, ErrNoPublicBase
	}
	var endpoint *url.URL
	if st.Endpoint != "" {
		u, err := url.Parse(st.Endpoint)
		if err != nil || u.Host == "" {
			return nil, fmt.Errorf("s3: invalid endpoint %q", st.Endpoint)
		}
		endpoint = u
	}
	region := st.Region
	if region == "" {
		region = "auto"
	}

	creds := credentials.NewStaticCredentialsProvider(st.AccessKey, st.SecretKey, "")

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(region),
		config.WithCredentialsProvider(creds),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if st.Endpoint != "" {
			o.BaseEndpoint = aws.String(st.Endpoint)
		}
		o.UsePathStyle = st.PathStyle
		// R2 rejects the default flexible checksums on PutObject.
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		o.ResponseChecksumValidation = aws.ResponseChecksumValidationWhenRequired
	})

	return &S3Client{
		Client:     client,
		Bucket:     st.Bucket,
		PublicBase: st.PublicBase,
		endpoint:   endpoint,
	}, nil
}

// DeleteObject deletes an object from the bucket (used for cleanup).
func (s *S3Client) DeleteObject(ctx context.Context, objectKey string) error {
	_, err := s.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		return fmt.Errorf("s3: delete object %s: %w", objectKey, err)
	}
	return nil
}
