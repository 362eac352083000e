package storage

import "io"

// BlobStore keeps raw uploaded files.
type BlobStore interface {
	Put(key string, r io.Reader) (string, error) // returns canonical key
	Get(key string) (io.ReadCloser, error)
	Delete(key string) error
}

// UploadKey is where the raw uploaded file of a quiz is archived.
func UploadKey(quizID string) string { return "uploads/" + quizID + ".json" }
