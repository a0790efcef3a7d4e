// Package storage uploads binary objects to S3, GCS or MinIO.
package storage

import (
	"context"
	"errors"
	"io"
	"net/url"
	"strings"
)

// ErrEmptyKey is returned when an object key is blank.
var ErrEmptyKey = errors.New("storage: object key is empty")

// Storage is the object store used for uploads.
type Storage interface {
	io.Closer

	// PutObject stores r under key. Size may be -1 when unknown.
	PutObject(ctx context.Context, bucket, key string, r io.Reader, opts PutOptions) (ObjectInfo, error)
	DeleteObject(ctx context.Context, bucket, key string) error
}

type PutOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

type ObjectInfo struct {
	Bucket      string
	Key         string
	Size        int64
	ETag        string
	ContentType string
}

// PublicURL joins base and key, escaping every key segment.
func PublicURL(base, key string) string {
	segs := strings.Split(strings.Trim(key, "/"), "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return strings.TrimRight(base, "/") + "/" + strings.Join(segs, "/")
}
