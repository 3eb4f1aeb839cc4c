package storage_test

import (
	"context"
	"errors"
	"testing"

	"netsync/core/storage"
	"netsync/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	t.Run("ValidConfig", func(t *testing.T) {
		cfg := storage.Config{
			Endpoint:  "localhost:9000",
			AccessKey: "testkey",
			SecretKey: "testsecret",
			UseSSL:    false,
			Bucket:    "netsync",
			Region:    "us-east-1",
		}

		client, err := storage.NewClient(cfg)
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("EndpointWithHTTP", func(t *testing.T) {
		cfg := storage.Config{
			Endpoint:  "http://localhost:9000",
			AccessKey: "testkey",
			SecretKey: "testsecret",
			UseSSL:    false,
		}

		client, err := storage.NewClient(cfg)
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("EndpointWithHTTPS", func(t *testing.T) {
		cfg := storage.Config{
			Endpoint:  "https://s3.amazonaws.com",
			AccessKey: "testkey",
			SecretKey: "testsecret",
			UseSSL:    true,
			Region:    "us-east-1",
		}

		client, err := storage.NewClient(cfg)
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})
}

func TestEnsureBucket(t *testing.T) {
	ctx := context.Background()

	t.Run("Exists", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", ctx, "netsync").Return(true, nil)

		require.NoError(t, storage.EnsureBucket(ctx, client, "netsync", ""))
		client.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Created", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", ctx, "netsync").Return(false, nil)
		client.On("MakeBucket", ctx, "netsync", minio.MakeBucketOptions{Region: "eu-west-1"}).Return(nil)

		require.NoError(t, storage.EnsureBucket(ctx, client, "netsync", "eu-west-1"))
		client.AssertExpectations(t)
	})

	t.Run("CheckFails", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", ctx, "netsync").Return(false, errors.New("connection refused"))

		err := storage.EnsureBucket(ctx, client, "netsync", "")
		assert.ErrorContains(t, err, "connection refused")
	})
}

func TestIsNotFound(t *testing.T) {
	assert.False(t, storage.IsNotFound(nil))
	assert.True(t, storage.IsNotFound(minio.ErrorResponse{Code: "NoSuchKey", StatusCode: 404}))
	assert.True(t, storage.IsNotFound(minio.ErrorResponse{Code: "NoSuchBucket"}))
	assert.False(t, storage.IsNotFound(errors.New("boom")))
}
