// Package minio stores dashboard snapshots as JSON objects in an
// S3-compatible bucket.
package minio

import (
	"bytes"
	"context"
	"io"
	"net/url"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/turtacn/ProjectPulse/internal/config"
	"github.com/turtacn/ProjectPulse/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ProjectPulse/pkg/errors"
)

var (
	ErrClientClosed   = errors.New(errors.ErrCodeStorage, "minio client is closed")
	ErrObjectNotFound = errors.New(errors.ErrCodeNotFound, "object not found")
)

const (
	defaultRegion        = "us-east-1"
	defaultPresignExpiry = time.Hour
	connectTimeout       = 10 * time.Second
)

// ObjectAPI is the subset of *minio.Client the store relies on.
type ObjectAPI interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (*minio.Object, error)
	ListObjects(ctx context.Context, bucketName string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
	PresignedGetObject(ctx context.Context, bucketName, objectName string, expiry time.Duration, reqParams url.Values) (*url.URL, error)
}

// Client binds an ObjectAPI to the configured bucket.
type Client struct {
	api    ObjectAPI
	cfg    config.MinIOConfig
	logger logging.Logger

	// read fetches a whole object; swapped in tests.
	read func(ctx context.Context, key string) ([]byte, error)

	mu     sync.RWMutex
	closed bool
}

// NewClient connects to the endpoint and creates the bucket when missing.
func NewClient(cfg config.MinIOConfig, log logging.Logger) (*Client, error) {
	applyDefaults(&cfg)

	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorage, "failed to create minio client")
	}

	c := NewClientWithAPI(mc, cfg, log)

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := c.EnsureBucket(ctx); err != nil {
		return nil, err
	}

	log.Info("MinIO client connected",
		logging.String("endpoint", cfg.Endpoint),
		logging.String("bucket", cfg.Bucket),
		logging.Bool("ssl", cfg.UseSSL))
	return c, nil
}

// NewClientWithAPI wraps an existing API handle.
func NewClientWithAPI(api ObjectAPI, cfg config.MinIOConfig, log logging.Logger) *Client {
	applyDefaults(&cfg)
	c := &Client{api: api, cfg: cfg, logger: log}
	c.read = c.readObject
	return c
}

func applyDefaults(cfg *config.MinIOConfig) {
	if cfg.Region == "" {
		cfg.Region = defaultRegion
	}
	if cfg.PresignExpiry == 0 {
		cfg.PresignExpiry = defaultPresignExpiry
	}
}

// Bucket returns the configured bucket name.
func (c *Client) Bucket() string { return c.cfg.Bucket }

// EnsureBucket creates the bucket when it does not exist.
func (c *Client) EnsureBucket(ctx context.Context) error {
	exists, err := c.api.BucketExists(ctx, c.cfg.Bucket)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeExternalService, "failed to check bucket")
	}
	if exists {
		return nil
	}
	if err := c.api.MakeBucket(ctx, c.cfg.Bucket, minio.MakeBucketOptions{Region: c.cfg.Region}); err != nil {
		return errors.Wrap(err, errors.ErrCodeStorage, "failed to create bucket "+c.cfg.Bucket)
	}
	c.logger.Info("Created bucket", logging.String("bucket", c.cfg.Bucket))
	return nil
}

// Put uploads data under key.
func (c *Client) Put(ctx context.Context, key string, data []byte, contentType string, meta map[string]string) (minio.UploadInfo, error) {
	if c.isClosed() {
		return minio.UploadInfo{}, ErrClientClosed
	}
	info, err := c.api.PutObject(ctx, c.cfg.Bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType:  contentType,
		UserMetadata: meta,
	})
	if err != nil {
		return minio.UploadInfo{}, errors.Wrap(err, errors.ErrCodeStorage, "upload failed")
	}
	return info, nil
}

// Read returns the whole object under key, or ErrObjectNotFound.
func (c *Client) Read(ctx context.Context, key string) ([]byte, error) {
	if c.isClosed() {
		return nil, ErrClientClosed
	}
	return c.read(ctx, key)
}

func (c *Client) readObject(ctx context.Context, key string) ([]byte, error) {
	obj, err := c.api.GetObject(ctx, c.cfg.Bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, mapError(err, "download failed")
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, mapError(err, "download failed")
	}
	return data, nil
}

// List returns every object under prefix.
func (c *Client) List(ctx context.Context, prefix string) ([]minio.ObjectInfo, error) {
	if c.isClosed() {
		return nil, ErrClientClosed
	}
	var out []minio.ObjectInfo
	for obj := range c.api.ListObjects(ctx, c.cfg.Bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, errors.Wrap(obj.Err, errors.ErrCodeStorage, "list failed")
		}
		out = append(out, obj)
	}
	return out, nil
}

func (c *Client) Remove(ctx context.Context, key string) error {
	if c.isClosed() {
		return ErrClientClosed
	}
	if err := c.api.RemoveObject(ctx, c.cfg.Bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return mapError(err, "remove failed")
	}
	return nil
}

// PresignGet returns a time-limited download URL.  A zero expiry takes the
// configured default.
func (c *Client) PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	if expiry == 0 {
		expiry = c.cfg.PresignExpiry
	}
	u, err := c.api.PresignedGetObject(ctx, c.cfg.Bucket, key, expiry, nil)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeStorage, "presign failed")
	}
	return u.String(), nil
}

// Ping checks that the bucket is reachable.
func (c *Client) Ping(ctx context.Context) error {
	if c.isClosed() {
		return ErrClientClosed
	}
	ok, err := c.api.BucketExists(ctx, c.cfg.Bucket)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeExternalService, "minio unreachable")
	}
	if !ok {
		return errors.Newf(errors.ErrCodeStorage, "bucket %s missing", c.cfg.Bucket)
	}
	return nil
}

func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *Client) isClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

func mapError(err error, msg string) error {
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return ErrObjectNotFound.WithCause(err)
	}
	return errors.Wrap(err, errors.ErrCodeStorage, msg)
}

//Personal.AI order the ending
