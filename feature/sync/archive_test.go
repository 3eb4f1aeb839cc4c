package sync

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"netsync/core/storage/mocks"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestArchiveSaveAndPrune(t *testing.T) {
	client := new(mocks.Client)
	archive := NewArchive(client, "netsync", "/reports/", 2, nil)
	report := &Report{ID: uuid.NewString(), Status: StatusCompleted}

	client.On("PutObject", mock.Anything, "netsync", "reports/"+report.ID+".json", mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, nil)

	now := time.Now()
	ch := make(chan minio.ObjectInfo, 4)
	ch <- minio.ObjectInfo{Key: "reports/new.json", LastModified: now}
	ch <- minio.ObjectInfo{Key: "reports/oldest.json", LastModified: now.Add(-2 * time.Hour)}
	ch <- minio.ObjectInfo{Key: "reports/old.json", LastModified: now.Add(-time.Hour)}
	ch <- minio.ObjectInfo{Key: "reports/notes.txt", LastModified: now.Add(-3 * time.Hour)}
	close(ch)
	client.On("ListObjects", mock.Anything, "netsync", minio.ListObjectsOptions{Prefix: "reports/", Recursive: true}).
		Return((<-chan minio.ObjectInfo)(ch))
	client.On("RemoveObject", mock.Anything, "netsync", "reports/oldest.json", mock.Anything).Return(nil)

	require.NoError(t, archive.Save(context.Background(), report))
	client.AssertExpectations(t)
	client.AssertNumberOfCalls(t, "RemoveObject", 1)
}

func TestArchiveSaveUploadError(t *testing.T) {
	client := new(mocks.Client)
	archive := NewArchive(client, "netsync", "reports", 0, nil)

	client.On("PutObject", mock.Anything, "netsync", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, errors.New("bucket is read only"))

	err := archive.Save(context.Background(), &Report{ID: uuid.NewString()})
	assert.ErrorContains(t, err, "bucket is read only")
	client.AssertNotCalled(t, "ListObjects", mock.Anything, mock.Anything, mock.Anything)
}

func TestArchiveLoad(t *testing.T) {
	client := new(mocks.Client)
	archive := NewArchive(client, "netsync", "reports", 0, nil)

	id := uuid.NewString()
	data, err := json.Marshal(&Report{ID: id, Status: StatusCompletedWithErrors})
	require.NoError(t, err)
	client.On("GetObject", mock.Anything, "netsync", "reports/"+id+".json", mock.Anything).
		Return(io.NopCloser(strings.NewReader(string(data))), nil)

	report, err := archive.Load(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, report.ID)
	assert.Equal(t, StatusCompletedWithErrors, report.Status)
}

func TestArchiveLoadNotFound(t *testing.T) {
	client := new(mocks.Client)
	archive := NewArchive(client, "netsync", "reports", 0, nil)

	_, err := archive.Load(context.Background(), "../../etc/passwd")
	assert.True(t, errors.Is(err, ErrReportNotFound))

	id := uuid.NewString()
	client.On("GetObject", mock.Anything, "netsync", "reports/"+id+".json", mock.Anything).
		Return(nil, minio.ErrorResponse{Code: "NoSuchKey", StatusCode: 404})

	_, err = archive.Load(context.Background(), id)
	assert.True(t, errors.Is(err, ErrReportNotFound))
}
