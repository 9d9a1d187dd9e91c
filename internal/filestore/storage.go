// Package filestore stores uploaded documents. Bytes go to a cloud bucket
// when one is configured, otherwise they are kept inline on the file row.
package filestore

import (
	"bytes"
	"fmt"
	"io"

	"github.com/google/uuid"

	"jobboard-backend/internal/model"
)

// Object name prefixes inside the bucket
const (
	// ResumeObjectPrefix groups uploaded resumes
	ResumeObjectPrefix = "resumes"
)

// StorageClient is the contract a remote blob store has to fulfil.
type StorageClient interface {
	UploadFile(objectName string, fileData io.Reader) error
	DownloadFile(objectName string) (io.ReadCloser, int64, error)
}

// Store wraps an optional StorageClient. A nil client means files are stored
// inline in the database.
type Store struct {
	Client StorageClient
}

// NewStore creates a Store backed by the given client, which may be nil.
func NewStore(client StorageClient) *Store {
	return &Store{Client: client}
}

// Persist fills the file model from raw bytes, uploading to the bucket when
// a client is configured.
func (s *Store) Persist(file *model.File, fileBytes []byte, extension, prefix string) error {
	file.Extension = extension
	if s.Client == nil {
		file.Content = fileBytes
		file.StorageObjectName = nil
		return nil
	}

	objectName := fmt.Sprintf("%s/%s%s", prefix, uuid.NewString(), extension)
	if err := s.Client.UploadFile(objectName, bytes.NewReader(fileBytes)); err != nil {
		return err
	}

	file.StorageObjectName = &objectName
	file.Content = nil
	return nil
}

// Open returns a reader over the file's bytes together with the content
// length when known (-1 otherwise).
func (s *Store) Open(file *model.File) (io.ReadCloser, int64, error) {
	if file.StorageObjectName == nil {
		return io.NopCloser(bytes.NewReader(file.Content)), int64(len(file.Content)), nil
	}
	if s.Client == nil {
		return nil, 0, fmt.Errorf("cloud storage is disabled while the requested file is stored remotely")
	}
	return s.Client.DownloadFile(*file.StorageObjectName)
}
