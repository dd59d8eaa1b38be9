package upload

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config holds the object store connection settings. Cloudflare R2 speaks
// the S3 protocol, so the same client covers R2 and any S3-compatible
// store.
type S3Config struct {
	Endpoint        string `yaml:"endpoint"`
	Region          string `yaml:"region"`
	Bucket          string `yaml:"bucket"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	PublicDomain    string `yaml:"public_domain"`
}

// Client wraps the S3 client with presigning.
type Client struct {
	s3        *s3.Client
	presigner *s3.PresignClient
	cfg       S3Config
}

func NewClient(cfg S3Config) *Client {
	awsCfg := aws.Config{
		Region: cfg.Region,
		Credentials: credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		),
	}
	if awsCfg.Region == "" {
		awsCfg.Region = "auto"
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &Client{
		s3:        client,
		presigner: s3.NewPresignClient(client),
		cfg:       cfg,
	}
}

// PresignPut returns a one-hour URL the browser PUTs the file to directly,
// so the upload bytes never pass through this server.
func (c *Client) PresignPut(ctx context.Context, key, contentType string) (string, error) {
	req, err := c.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.cfg.Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(time.Hour))
	if err != nil {
		return "", fmt.Errorf("presign put: %w", err)
	}
	return req.URL, nil
}

func (c *Client) DeleteObject(ctx context.Context, key string) error {
	_, err := c.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.cfg.Bucket),
		Key:    aws.String(key),
	})
	return err
}

// PublicURL is the stable serving URL for a stored object.
func (c *Client) PublicURL(key string) string {
	return fmt.Sprintf("https://%s/%s", c.cfg.PublicDomain, key)
}
