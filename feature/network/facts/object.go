package facts

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"netsync/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// ObjectCollector reads facts that the collection workers dropped into object storage.
//
// When Prefix names a ".json" object it is read as one collection document. Otherwise
// every "<prefix>/<device key>.json" object holds the record of one device.
type ObjectCollector struct {
	Client storage.Client
	Bucket string
	Prefix string
	Logger *zap.Logger
}

// Collect implements Collector.
func (c ObjectCollector) Collect(ctx context.Context, req Request) (Collection, error) {
	if strings.HasSuffix(c.Prefix, ".json") {
		data, err := c.read(ctx, c.Prefix)
		if err != nil {
			return nil, fmt.Errorf("failed to read collection %s: %w", c.Prefix, err)
		}
		return Decode(bytes.NewReader(data))
	}

	if len(req.Addresses) > 0 {
		return c.collectAddresses(ctx, req.Addresses)
	}
	return c.collectAll(ctx)
}

// collectAddresses fetches one object per requested address. A missing object is left
// out so the normalizer reports the address as having no collection result.
func (c ObjectCollector) collectAddresses(ctx context.Context, addresses []string) (Collection, error) {
	out := make(Collection, len(addresses))
	for _, addr := range addresses {
		name := c.objectName(addr)
		data, err := c.read(ctx, name)
		if storage.IsNotFound(err) {
			c.logger().Debug("No facts object for address", zap.String("address", addr), zap.String("object", name))
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read facts for %s: %w", addr, err)
		}
		out[addr] = DecodeRecord(data)
	}
	return out, nil
}

func (c ObjectCollector) collectAll(ctx context.Context) (Collection, error) {
	prefix := strings.TrimSuffix(c.Prefix, "/") + "/"
	out := make(Collection)

	for obj := range c.Client.ListObjects(ctx, c.Bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list facts under %s: %w", prefix, obj.Err)
		}
		if !strings.HasSuffix(obj.Key, ".json") {
			continue
		}
		key := strings.TrimSuffix(path.Base(obj.Key), ".json")
		data, err := c.read(ctx, obj.Key)
		if err != nil {
			// Listed but unreadable: keep the device visible as a failure
			out[key] = Record{Failed: true, FailedReason: fmt.Sprintf("unreadable collection result: %v", err)}
			continue
		}
		out[key] = DecodeRecord(data)
	}
	return out, nil
}

func (c ObjectCollector) read(ctx context.Context, name string) ([]byte, error) {
	obj, err := c.Client.GetObject(ctx, c.Bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()
	return io.ReadAll(obj)
}

func (c ObjectCollector) objectName(key string) string {
	return strings.TrimSuffix(c.Prefix, "/") + "/" + key + ".json"
}

func (c ObjectCollector) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}
