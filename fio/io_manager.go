package fio

// IOManager can be custom in options
type IOManager interface {
	// Read fills buf from the given offset, read-at semantics.
	Read(buf []byte, offset int64) (int, error)
	// Write appends data to the end of the file.
	Write(data []byte) (int, error)
	// Sync forces written bytes to durable storage.
	Sync() error
	// Size reports the current file length in bytes.
	Size() (int64, error)
	Close() error
}

// FileLocker guards a store file against a second process opening it.
type FileLocker interface {
	TryLock() (bool, error)
	Unlock() error
}
