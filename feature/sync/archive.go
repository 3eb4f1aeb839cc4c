package sync

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"slices"
	"strings"

	"netsync/core/storage"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// ErrReportNotFound is returned when no archived report has the requested id.
var ErrReportNotFound = errors.New("report not found")

// Archive stores run reports as "<prefix>/<run id>.json" objects.
type Archive struct {
	client    storage.Client
	bucket    string
	prefix    string
	retention int
	logger    *zap.Logger
}

// NewArchive creates a report archive. A retention of 0 keeps every report.
func NewArchive(client storage.Client, bucket, prefix string, retention int, logger *zap.Logger) *Archive {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Archive{
		client:    client,
		bucket:    bucket,
		prefix:    strings.Trim(prefix, "/"),
		retention: retention,
		logger:    logger,
	}
}

func (a *Archive) objectName(id string) string {
	return path.Join(a.prefix, id+".json")
}

// Save uploads the report and prunes the oldest reports beyond the retention.
func (a *Archive) Save(ctx context.Context, r *Report) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	name := a.objectName(r.ID)
	_, err = a.client.PutObject(ctx, a.bucket, name, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("failed to upload report %s: %w", name, err)
	}

	a.prune(ctx)
	return nil
}

// Load reads an archived report.
func (a *Archive) Load(ctx context.Context, id string) (*Report, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrReportNotFound, id)
	}

	name := a.objectName(id)
	obj, err := a.client.GetObject(ctx, a.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		if storage.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %s", ErrReportNotFound, id)
		}
		return nil, fmt.Errorf("failed to get report %s: %w", name, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if storage.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %s", ErrReportNotFound, id)
		}
		return nil, fmt.Errorf("failed to read report %s: %w", name, err)
	}

	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to decode report %s: %w", name, err)
	}
	return &r, nil
}

// prune removes the oldest reports. Failures are logged, the saved report stays valid.
func (a *Archive) prune(ctx context.Context) {
	if a.retention <= 0 {
		return
	}

	listPrefix := a.prefix
	if listPrefix != "" {
		listPrefix += "/"
	}

	var objects []minio.ObjectInfo
	for obj := range a.client.ListObjects(ctx, a.bucket, minio.ListObjectsOptions{Prefix: listPrefix, Recursive: true}) {
		if obj.Err != nil {
			a.logger.Warn("Failed to list archived reports", zap.Error(obj.Err))
			return
		}
		if strings.HasSuffix(obj.Key, ".json") {
			objects = append(objects, obj)
		}
	}
	if len(objects) <= a.retention {
		return
	}

	slices.SortFunc(objects, func(x, y minio.ObjectInfo) int {
		if c := x.LastModified.Compare(y.LastModified); c != 0 {
			return c
		}
		return strings.Compare(x.Key, y.Key)
	})
	for _, obj := range objects[:len(objects)-a.retention] {
		if err := a.client.RemoveObject(ctx, a.bucket, obj.Key, minio.RemoveObjectOptions{}); err != nil {
			a.logger.Warn("Failed to prune archived report", zap.String("object", obj.Key), zap.Error(err))
		}
	}
}
