package filestore

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"jobboard-backend/internal/model"
)

type fakeClient struct {
	uploads   map[string][]byte
	uploadErr error
}

func newFakeClient() *fakeClient {
	return &fakeClient{uploads: map[string][]byte{}}
}

func (f *fakeClient) UploadFile(objectName string, fileData io.Reader) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	data, err := io.ReadAll(fileData)
	if err != nil {
		return err
	}
	f.uploads[objectName] = data
	return nil
}

func (f *fakeClient) DownloadFile(objectName string) (io.ReadCloser, int64, error) {
	data, ok := f.uploads[objectName]
	if !ok {
		return nil, 0, errors.New("object not found")
	}
	return io.NopCloser(bytes.NewReader(data)), int64(len(data)), nil
}

func TestPersist_inlineWhenNoClient(t *testing.T) {
	store := NewStore(nil)
	file := model.File{}

	err := store.Persist(&file, []byte("resume bytes"), ".pdf", ResumeObjectPrefix)

	assert.NoError(t, err)
	assert.Equal(t, []byte("resume bytes"), file.Content)
	assert.Equal(t, ".pdf", file.Extension)
	assert.Nil(t, file.StorageObjectName)
}

func TestPersist_uploadsWhenClientConfigured(t *testing.T) {
	client := newFakeClient()
	store := NewStore(client)
	file := model.File{}

	err := store.Persist(&file, []byte("resume bytes"), ".pdf", ResumeObjectPrefix)

	assert.NoError(t, err)
	assert.Nil(t, file.Content, "bytes must not be duplicated into the database")
	assert.NotNil(t, file.StorageObjectName)
	assert.True(t, strings.HasPrefix(*file.StorageObjectName, ResumeObjectPrefix+"/"))
	assert.True(t, strings.HasSuffix(*file.StorageObjectName, ".pdf"))
	assert.Equal(t, []byte("resume bytes"), client.uploads[*file.StorageObjectName])
}

func TestPersist_uploadFailure(t *testing.T) {
	client := newFakeClient()
	client.uploadErr = errors.New("bucket unavailable")
	store := NewStore(client)
	file := model.File{}

	err := store.Persist(&file, []byte("resume bytes"), ".pdf", ResumeObjectPrefix)

	assert.Error(t, err)
	assert.Nil(t, file.StorageObjectName)
}

func TestOpen_inline(t *testing.T) {
	store := NewStore(nil)
	file := model.File{Content: []byte("resume bytes")}

	reader, size, err := store.Open(&file)

	assert.NoError(t, err)
	defer reader.Close()
	assert.Equal(t, int64(len(file.Content)), size)
	data, err := io.ReadAll(reader)
	assert.NoError(t, err)
	assert.Equal(t, file.Content, data)
}

func TestOpen_remote(t *testing.T) {
	client := newFakeClient()
	store := NewStore(client)
	file := model.File{}
	assert.NoError(t, store.Persist(&file, []byte("remote bytes"), ".docx", ResumeObjectPrefix))

	reader, size, err := store.Open(&file)

	assert.NoError(t, err)
	defer reader.Close()
	assert.Equal(t, int64(len("remote bytes")), size)
	data, err := io.ReadAll(reader)
	assert.NoError(t, err)
	assert.Equal(t, []byte("remote bytes"), data)
}

func TestOpen_remoteWithoutClient(t *testing.T) {
	objectName := "resumes/abc.pdf"
	store := NewStore(nil)
	file := model.File{StorageObjectName: &objectName}

	_, _, err := store.Open(&file)

	assert.Error(t, err)
}
