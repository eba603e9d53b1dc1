package storage

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"
)

// S3Config beschreibt einen S3-kompatiblen Endpunkt samt Bucket.
type S3Config struct {
	URL    string
	Region string
	Key    string
	Secret string
	Bucket string
}

// Object ist ein gelistetes Objekt eines Buckets.
type Object struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// Client liest und schreibt die Objekte eines Buckets.
type Client struct {
	s3     *s3.Client
	bucket string
}

// NewS3Client erstellt einen S3-Client für den konfigurierten Endpunkt.
func NewS3Client(ctx context.Context, cfg S3Config) (*Client, error) {
	resolver := aws.EndpointResolverWithOptionsFunc(
		func(service, region string, options ...interface{}) (aws.Endpoint, error) {
			return aws.Endpoint{
				URL:               cfg.URL,
				SigningRegion:     cfg.Region,
				HostnameImmutable: true,
			}, nil
		},
	)
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.Key, cfg.Secret, "")),
		awsconfig.WithEndpointResolverWithOptions(resolver),
	)
	if err != nil {
		return nil, errors.Wrap(err, "load s3 config")
	}
	return &Client{s3: s3.NewFromConfig(awsCfg), bucket: cfg.Bucket}, nil
}

// Bucket gibt den Bucket zurück, auf dem der Client arbeitet.
func (c *Client) Bucket() string {
	return c.bucket
}

// Get lädt ein Objekt herunter.
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := c.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "get s3://%s/%s", c.bucket, key)
	}
	defer out.Body.Close()
	return io.ReadAll(out.Body)
}

// Put lädt ein Objekt hoch.
func (c *Client) Put(ctx context.Context, key string, data []byte) error {
	_, err := c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})
	return errors.Wrapf(err, "put s3://%s/%s", c.bucket, key)
}

// List gibt alle Objekte zurück, deren Schlüssel mit prefix beginnt.
func (c *Client) List(ctx context.Context, prefix string) ([]Object, error) {
	var objects []Object
	p := s3.NewListObjectsV2Paginator(c.s3, &s3.ListObjectsV2Input{
		Bucket: aws.String(c.bucket),
		Prefix: aws.String(prefix),
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, errors.Wrapf(err, "list s3://%s/%s", c.bucket, prefix)
		}
		for _, obj := range page.Contents {
			objects = append(objects, Object{
				Key:          aws.ToString(obj.Key),
				Size:         aws.ToInt64(obj.Size),
				LastModified: aws.ToTime(obj.LastModified),
			})
		}
	}
	return objects, nil
}

// Delete löscht ein Objekt.
func (c *Client) Delete(ctx context.Context, key string) error {
	_, err := c.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	return errors.Wrapf(err, "delete s3://%s/%s", c.bucket, key)
}
