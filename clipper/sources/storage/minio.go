package storage

import (
	"bytes"
	"context"
	"crypto/md5" // For simple URL hashing
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"clipper/clipper/config"
	"clipper/clipper/utils/logging"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// maxImageBytes caps a single cached image download.
const maxImageBytes = 10 << 20

// MinIOClient re-hosts extracted images so clips don't depend on origin
// servers staying up (or allowing hotlinks).
type MinIOClient struct {
	client *minio.Client
	bucket string
}

func NewMinIOClient(cfg config.Config) (*MinIOClient, error) {
	bucket := cfg.MinIOBucket
	client, err := minio.New(
		cfg.MinIOEndpoint,
		&minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinIOAccessKey, cfg.MinIOSecretKey, ""),
			Secure: false,
		},
	)
	if err != nil {
		return nil, err
	}
	// Create bucket if not exists
	exists, err := client.BucketExists(context.Background(), bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := client.MakeBucket(context.Background(), bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, err
		}
	}
	return &MinIOClient{client: client, bucket: bucket}, nil
}

// CacheImage downloads srcURL and stores it under images/<md5(url)><ext>,
// returning the cached object URL.
func (m *MinIOClient) CacheImage(ctx context.Context, srcURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srcURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("image fetch: status %d", resp.StatusCode)
	}
	contentType := resp.Header.Get("Content-Type")
	if contentType != "" && !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("not an image: %s", contentType)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return "", err
	}

	ext := path.Ext(srcURL)
	if len(ext) > 5 || strings.ContainsAny(ext, "?&=") {
		ext = ""
	}
	key := fmt.Sprintf("images/%x%s", md5.Sum([]byte(srcURL)), ext)

	_, err = m.client.PutObject(ctx, m.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", err
	}

	return m.client.EndpointURL().String() + "/" + m.bucket + "/" + key, nil
}

// CacheAll is best-effort: any image that fails to cache keeps its
// original URL so the clip never loses data over a cache hiccup.
func (m *MinIOClient) CacheAll(ctx context.Context, urls []string) []string {
	out := make([]string, len(urls))
	for i, u := range urls {
		cached, err := m.CacheImage(ctx, u)
		if err != nil {
			logging.AppLogger.Warn("image cache failed", zap.String("url", u), zap.Error(err))
			out[i] = u
			continue
		}
		out[i] = cached
	}
	return out
}
