package s3

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/gruzdev-dev/codex-users/configs"
	"github.com/gruzdev-dev/codex-users/core/ports"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type AvatarProvider struct {
	client       *minio.Client
	bucket       string
	externalHost string
}

var _ ports.AvatarProvider = (*AvatarProvider)(nil)

func NewAvatarProvider(cfg *configs.Config) (*AvatarProvider, error) {
	if cfg.S3.Endpoint == "" {
		return nil, fmt.Errorf("S3 endpoint is required")
	}
	if cfg.S3.AccessKey == "" {
		return nil, fmt.Errorf("S3 access key is required")
	}
	if cfg.S3.SecretKey == "" {
		return nil, fmt.Errorf("S3 secret key is required")
	}
	if cfg.S3.Bucket == "" {
		return nil, fmt.Errorf("S3 bucket is required")
	}

	endpoint := cfg.S3.Endpoint
	useSSL := cfg.S3.UseSSL

	if parsedURL, err := url.Parse(cfg.S3.Endpoint); err == nil && parsedURL.Host != "" {
		endpoint = parsedURL.Host
		switch parsedURL.Scheme {
		case "https":
			useSSL = true
		case "http":
			useSSL = false
		}
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.S3.AccessKey, cfg.S3.SecretKey, ""),
		Secure: useSSL,
		// a fixed region keeps presigning offline (no bucket location lookup)
		Region: cfg.S3.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &AvatarProvider{
		client:       client,
		bucket:       cfg.S3.Bucket,
		externalHost: cfg.S3.ExternalHost,
	}, nil
}

func (p *AvatarProvider) GenerateUploadURL(ctx context.Context, objectPath string, contentType string, maxSize int64, ttl time.Duration) (string, error) {
	reqParams := make(url.Values)
	extraHeaders := make(http.Header)

	extraHeaders.Set("Content-Type", contentType)

	if maxSize > 0 {
		reqParams.Set("x-amz-content-length-range", fmt.Sprintf("0,%d", maxSize))
	}

	presignedURL, err := p.client.PresignHeader(ctx, http.MethodPut, p.bucket, objectPath, ttl, reqParams, extraHeaders)
	if err != nil {
		return "", fmt.Errorf("failed to generate upload URL: %w", err)
	}

	p.rewriteHost(presignedURL)
	return presignedURL.String(), nil
}

// ObjectURL is the permanent, unsigned address of an object. It is what gets
// stored as the user's avatar reference.
func (p *AvatarProvider) ObjectURL(objectPath string) string {
	u := *p.client.EndpointURL()
	u.Path = "/" + p.bucket + "/" + objectPath
	p.rewriteHost(&u)
	return u.String()
}

func (p *AvatarProvider) rewriteHost(u *url.URL) {
	if p.externalHost == "" {
		return
	}
	u.Host = p.externalHost
	if u.Scheme == "http" {
		u.Scheme = "https"
	}
}
