// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind the Client interface. The service uses object
// storage in two places: the collector drops device fact documents there, and every
// reconciliation run archives its report there.
//
// # Client Interface
//
// The Client interface abstracts the underlying provider (AWS S3 or self-hosted MinIO)
// so storage interactions can be mocked in unit tests (see core/storage/mocks).
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	if err := storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region); err != nil {
//	    return err
//	}
package storage
