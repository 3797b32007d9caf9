// Package storage uploads admin assets to an S3-compatible bucket (AWS S3 or
// Cloudflare R2) described by the stored storage settings.
package storage

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/soldbd/internal/common"
	"github.com/oklog/ulid/v2"
)

const (
	ProviderS3 = "s3"
	ProviderR2 = "r2"

	defaultRegion = "auto"
)

var (
	loadDefaultAWSConfig  = config.LoadDefaultConfig
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}
	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) error {
		_, err := c.PutObject(ctx, in)
		return err
	}
)

// Target is a resolved bucket destination.
type Target struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	PublicBaseURL   string
}

// TargetFromSettings extracts a Target for the s3 and r2 providers. Any other
// provider, or missing bucket or credentials, yields common.ErrNotConfigured.
func TargetFromSettings(provider string, settings map[string]any) (Target, error) {
	if provider != ProviderS3 && provider != ProviderR2 {
		return Target{}, fmt.Errorf("%w: provider %q does not support uploads", common.ErrNotConfigured, provider)
	}
	t := Target{
		Endpoint:        str(settings, "endpoint"),
		Region:          str(settings, "region"),
		AccessKeyID:     str(settings, "accessKeyId"),
		SecretAccessKey: str(settings, "secretAccessKey"),
		Bucket:          str(settings, "bucket"),
		PublicBaseURL:   str(settings, "publicBaseUrl"),
	}
	if t.AccessKeyID == "" || t.SecretAccessKey == "" || t.Bucket == "" {
		return Target{}, fmt.Errorf("%w: %s settings incomplete", common.ErrNotConfigured, provider)
	}
	if t.Region == "" {
		t.Region = defaultRegion
	}
	return t, nil
}

// PublicURL is where an uploaded key can be fetched from when the bucket is
// public.
func (t Target) PublicURL(key string) string {
	if t.PublicBaseURL != "" {
		return strings.TrimRight(t.PublicBaseURL, "/") + "/" + key
	}
	if t.Endpoint != "" {
		return strings.TrimRight(t.Endpoint, "/") + "/" + t.Bucket + "/" + key
	}
	return "https://" + t.Bucket + ".s3.amazonaws.com/" + key
}

type Uploader interface {
	Upload(ctx context.Context, t Target, key, contentType string, body io.Reader) (string, error)
}

type S3Uploader struct{}

func NewS3Uploader() *S3Uploader { return &S3Uploader{} }

// Upload puts body under key and returns its public URL.
func (u *S3Uploader) Upload(ctx context.Context, t Target, key, contentType string, body io.Reader) (string, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(t.Region),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(t.AccessKeyID, t.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return "", fmt.Errorf("aws config: %w", err)
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if t.Endpoint != "" {
			o.BaseEndpoint = aws.String(t.Endpoint)
			o.UsePathStyle = true
		}
	})

	if err := putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      aws.String(t.Bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	}); err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}
	return t.PublicURL(key), nil
}

var slugUnsafe = regexp.MustCompile(`[^a-z0-9_-]+`)

// ObjectKey builds "<purpose>/<ulid>.<ext>" from a free-form purpose and the
// upload content type.
func ObjectKey(purpose, contentType string) string {
	slug := strings.Trim(slugUnsafe.ReplaceAllString(strings.ToLower(purpose), "-"), "-")
	if slug == "" {
		slug = "asset"
	}
	if len(slug) > 40 {
		slug = slug[:40]
	}
	return slug + "/" + strings.ToLower(ulid.Make().String()) + "." + extFromType(contentType)
}

func extFromType(contentType string) string {
	switch strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0])) {
	case "image/png":
		return "png"
	case "image/jpeg", "image/jpg":
		return "jpg"
	case "image/webp":
		return "webp"
	case "image/gif":
		return "gif"
	case "image/svg+xml":
		return "svg"
	default:
		return "bin"
	}
}

func str(m map[string]any, key string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(v))
}
