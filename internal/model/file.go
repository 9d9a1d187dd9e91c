package model

// File represents an uploaded document. Content is stored inline when no
// cloud bucket is configured, otherwise StorageObjectName points at the
// remote object and Content stays empty.
type File struct {
	ID                int `gorm:"primaryKey"`
	Content           []byte
	Extension         string
	StorageObjectName *string
}
