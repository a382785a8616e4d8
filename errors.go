package pollenstore

import (
	"fmt"
)

var (
	// ErrCorruptLog means replay or a post-replay read found a truncated
	// record, a header claiming more bytes than the file holds, or a read
	// that came back shorter than the key directory promised.
	ErrCorruptLog = addPrefix("log file is corrupted or truncated")

	// ErrStoreClosed is returned by every operation after Close.
	ErrStoreClosed = addPrefix("store is closed")

	// ErrDatabaseInUse means another process holds the lock file.
	ErrDatabaseInUse = addPrefix("data file is locked by another process")

	ErrNoCodec     = addPrefix("no codec")
	ErrNoKeydir    = addPrefix("no keydir")
	ErrNoIOManager = addPrefix("no io manager")
	ErrNoFileLock  = addPrefix("need file lock")
)

func addPrefix(errStr string) error {
	return fmt.Errorf("pollenstore err: %s", errStr)
}
