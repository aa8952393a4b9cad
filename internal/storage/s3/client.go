// Package s3 stores uploaded images in an S3 bucket (or any S3-compatible
// endpoint) with public-read URLs.
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"lawfirm-cms/internal/config"
	"lawfirm-cms/internal/storage"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

const (
	emptyAWSSessionToken         = ""
	defaultS3Region              = "us-east-1"
	publicURLFmt                 = "https://%s.s3.%s.amazonaws.com"
	cacheControlImmutable        = "public, max-age=31536000, immutable"
	errFailedCreateAWSSessionFmt = "failed to create AWS session: %w"
	errFailedPutObjectFmt        = "failed to put object: %w"
	errFailedDeleteObjectFmt     = "failed to delete object: %w"
	errFailedCreateBucketFmt     = "failed to create bucket: %w"
	errFailedWaitBucketExistsFmt = "failed to wait for bucket to exist: %w"
	errFailedHeadBucketFmt       = "failed to check bucket: %w"
)

type Client struct {
	svc           s3iface.S3API
	bucket        string
	region        string
	publicBaseURL string
}

func NewClient(cfg *config.AWSConfig) (*Client, error) {
	awsCfg := &aws.Config{
		Region: aws.String(cfg.Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			emptyAWSSessionToken,
		),
	}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
		awsCfg.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf(errFailedCreateAWSSessionFmt, err)
	}

	return newWithAPI(s3.New(sess), cfg), nil
}

func newWithAPI(api s3iface.S3API, cfg *config.AWSConfig) *Client {
	base := cfg.PublicBaseURL
	switch {
	case base != "":
	case cfg.Endpoint != "":
		base = storage.JoinURL(cfg.Endpoint, cfg.Bucket)
	default:
		base = fmt.Sprintf(publicURLFmt, cfg.Bucket, cfg.Region)
	}
	return &Client{svc: api, bucket: cfg.Bucket, region: cfg.Region, publicBaseURL: base}
}

func (c *Client) Put(ctx context.Context, filename, contentType string, data []byte) (storage.Object, error) {
	key := storage.ObjectKey(filename)

	_, err := c.svc.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(c.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(data),
		ContentType:  aws.String(contentType),
		CacheControl: aws.String(cacheControlImmutable),
	})
	if err != nil {
		return storage.Object{}, fmt.Errorf(errFailedPutObjectFmt, err)
	}

	return storage.Object{URL: storage.JoinURL(c.publicBaseURL, key), PublicID: key}, nil
}

func (c *Client) Delete(ctx context.Context, publicID string) error {
	_, err := c.svc.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(publicID),
	})

	if err != nil {
		return fmt.Errorf(errFailedDeleteObjectFmt, err)
	}

	return nil
}

// EnsureBucket creates the bucket when it does not exist yet.
func (c *Client) EnsureBucket(ctx context.Context) error {
	_, err := c.svc.HeadBucketWithContext(ctx, &s3.HeadBucketInput{Bucket: aws.String(c.bucket)})
	if err == nil {
		return nil
	}
	var aerr awserr.RequestFailure
	if !errors.As(err, &aerr) || aerr.StatusCode() != 404 {
		return fmt.Errorf(errFailedHeadBucketFmt, err)
	}

	input := &s3.CreateBucketInput{
		Bucket: aws.String(c.bucket),
	}

	if c.region != defaultS3Region {
		input.CreateBucketConfiguration = &s3.CreateBucketConfiguration{
			LocationConstraint: aws.String(c.region),
		}
	}

	if _, err := c.svc.CreateBucketWithContext(ctx, input); err != nil {
		return fmt.Errorf(errFailedCreateBucketFmt, err)
	}

	if err := c.svc.WaitUntilBucketExistsWithContext(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(c.bucket),
	}); err != nil {
		return fmt.Errorf(errFailedWaitBucketExistsFmt, err)
	}

	return nil
}
