// Package upload implements the file store on top of a gocloud blob bucket.
package upload

import (
	"context"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"nestly/config"
	"nestly/internal/domain/service"
	"nestly/internal/errors"

	"github.com/google/uuid"
	"go.uber.org/fx"
	"gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"
)

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
}

type blobStore struct {
	bucket     *blob.Bucket
	publicPath string
}

// New creates a FileStore backed by a local file bucket. The bucket
// directory is created on demand so a fresh checkout works without setup.
func New(params Params) (service.FileStore, error) {
	cfg := params.Config.Upload
	if cfg == nil || cfg.Dir == "" {
		return nil, errors.New("upload directory is not configured")
	}

	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create upload directory")
	}

	bucket, err := fileblob.OpenBucket(cfg.Dir, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open file bucket")
	}

	params.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return bucket.Close()
		},
	})

	return &blobStore{
		bucket:     bucket,
		publicPath: strings.TrimSuffix(cfg.PublicPath, "/"),
	}, nil
}

// Save implements service.FileStore. The stored name is a fresh UUID with
// the original extension, so uploads never collide or overwrite each other.
func (s *blobStore) Save(ctx context.Context, filename string, content io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	key := uuid.NewString() + ext

	writer, err := s.bucket.NewWriter(ctx, key, nil)
	if err != nil {
		return "", errors.Wrap(err, "failed to open bucket writer")
	}

	if _, err := io.Copy(writer, content); err != nil {
		writer.Close()

		return "", errors.Wrap(err, "failed to write file content")
	}

	if err := writer.Close(); err != nil {
		return "", errors.Wrap(err, "failed to finalize file write")
	}

	return path.Join(s.publicPath, key), nil
}
