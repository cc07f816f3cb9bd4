// File: internal/interfaces/bytesource.go
package interfaces

// ByteSource is the single collaborator the core consumes for raw access to
// the underlying file or memory buffer (spec.md §1 "deliberately out of
// scope... the core consumes a ByteSource trait"). Everything above L1
// reaches the bytes on disk only through this interface.
type ByteSource interface {
	// ReadAt reads length bytes starting at offset. It must behave like
	// io.ReaderAt: a short read without io.EOF is an error.
	ReadAt(offset int64, length int) ([]byte, error)

	// Size returns the total size of the underlying source in bytes.
	Size() (int64, error)
}
