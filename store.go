// Package pollenstore implements a log-structured key-value store in the
// style of the bitcask paper: an append-only data file plus an in-memory
// key directory pointing at the latest record for every live key.
//
//   - Writes append a record and fsync before returning, so every Set is
//     durable once it returns.
//   - Reads cost a single positioned read: the key directory holds the byte
//     offset and total size of the record.
//   - Opening an existing file replays it from offset zero to rebuild the
//     key directory; a truncated or corrupt log fails the open.
//
// The store is single-caller by design: no operation may run concurrently
// with another on the same store. Callers needing shared access must add
// their own mutual exclusion.
package pollenstore

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/davidmasek/pollenstore/codec"
	"github.com/davidmasek/pollenstore/fio"
	"github.com/davidmasek/pollenstore/model"
)

// DiskStore owns one log file and its key directory for the lifetime
// between Open and Close.
//
// Note the documented wart inherited from the original design: Get cannot
// distinguish a missing key from a key explicitly set to "". Both return
// ("", nil). Callers that need the distinction must track it themselves.
type DiskStore struct {
	path     string
	logFile  *model.LogFile
	fileLock fio.FileLocker
	closed   bool

	options options
}

var _ Store = (*DiskStore)(nil)

// Open opens or creates the log file at path, replays existing records to
// rebuild the key directory, and returns a store ready for use. Opening a
// file another store instance holds fails with ErrDatabaseInUse; a log with
// a truncated or malformed tail fails with ErrCorruptLog.
func Open(path string, opts ...Option) (*DiskStore, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.codec == nil {
		return nil, ErrNoCodec
	}
	if o.keydir == nil {
		return nil, ErrNoKeydir
	}
	if o.ioManagerCreator == nil {
		return nil, ErrNoIOManager
	}
	if o.fileLockCreator == nil {
		return nil, ErrNoFileLock
	}

	fileLock := o.fileLockCreator(path)
	locked, err := fileLock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("pollenstore: lock %q: %w", path, err)
	}
	if !locked {
		return nil, ErrDatabaseInUse
	}

	ioManager, err := o.ioManagerCreator(path)
	if err != nil {
		_ = fileLock.Unlock()
		return nil, fmt.Errorf("pollenstore: open %q: %w", path, err)
	}

	logFile, err := model.OpenLogFile(ioManager)
	if err != nil {
		_ = ioManager.Close()
		_ = fileLock.Unlock()
		return nil, fmt.Errorf("pollenstore: open %q: %w", path, err)
	}

	store := &DiskStore{
		path:     path,
		logFile:  logFile,
		fileLock: fileLock,
		options:  o,
	}

	if err = store.loadKeydir(); err != nil {
		// a caller-supplied keydir must not keep entries from the aborted replay
		_ = o.keydir.Close()
		_ = logFile.Close()
		_ = fileLock.Unlock()
		return nil, err
	}

	return store, nil
}

// loadKeydir replays the log from offset zero. Only headers and keys are
// read; values are skipped since the key directory needs their length, not
// their bytes. Records with an empty value are tombstones and drop the key.
func (s *DiskStore) loadKeydir() error {
	size, err := s.logFile.Size()
	if err != nil {
		return fmt.Errorf("pollenstore: stat %q: %w", s.path, err)
	}

	var offset int64
	for offset < size {
		if size-offset < codec.HeaderSize {
			return fmt.Errorf("%w: partial header at offset %d", ErrCorruptLog, offset)
		}

		headerData, err := s.logFile.Read(offset, codec.HeaderSize)
		if err != nil {
			return fmt.Errorf("%w: read header at offset %d: %v", ErrCorruptLog, offset, err)
		}

		timestamp, keySize, valueSize, err := s.options.codec.DecodeHeader(headerData)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrCorruptLog, err)
		}

		totalSize := int64(codec.HeaderSize) + int64(keySize) + int64(valueSize)
		if offset+totalSize > size {
			return fmt.Errorf("%w: record at offset %d extends past end of file", ErrCorruptLog, offset)
		}

		keyData, err := s.logFile.Read(offset+codec.HeaderSize, int64(keySize))
		if err != nil {
			return fmt.Errorf("%w: read key at offset %d: %v", ErrCorruptLog, offset, err)
		}
		if !utf8.Valid(keyData) {
			return fmt.Errorf("%w: key at offset %d is not valid utf-8", ErrCorruptLog, offset)
		}
		key := string(keyData)

		if valueSize == 0 {
			// tombstone
			s.options.keydir.Delete(key)
		} else {
			s.options.keydir.Put(key, &model.KeyEntry{
				Timestamp: timestamp,
				Position:  offset,
				Size:      totalSize,
			})
		}

		offset += totalSize
	}

	if s.logFile.WriteOffset != offset {
		return fmt.Errorf("%w: replay ended at offset %d, append position is %d", ErrCorruptLog, offset, s.logFile.WriteOffset)
	}

	s.options.logger.Info().
		Str("path", s.path).
		Int("keys", s.options.keydir.Len()).
		Int64("bytes", size).
		Msg("loaded keydir")

	return nil
}

// Set appends a record for key and forces it to durable storage before
// updating the key directory, so a successful Set survives a crash and a
// failed one leaves the index untouched.
func (s *DiskStore) Set(key, value string) error {
	if s.closed {
		return ErrStoreClosed
	}

	timestamp := time.Now().Unix()
	size, data, err := s.options.codec.EncodeKV(timestamp, key, value)
	if err != nil {
		return err
	}

	position, err := s.logFile.Write(data)
	if err != nil {
		return fmt.Errorf("pollenstore: write: %w", err)
	}
	if err = s.logFile.Sync(); err != nil {
		return fmt.Errorf("pollenstore: sync: %w", err)
	}

	s.options.keydir.Put(key, &model.KeyEntry{
		Timestamp: uint32(timestamp),
		Position:  position,
		Size:      size,
	})
	return nil
}

// Get returns the value of key, or "" when the key is not present.
func (s *DiskStore) Get(key string) (string, error) {
	if s.closed {
		return "", ErrStoreClosed
	}

	entry := s.options.keydir.Get(key)
	if entry == nil {
		return "", nil
	}

	data, err := s.logFile.Read(entry.Position, entry.Size)
	if err != nil {
		return "", fmt.Errorf("%w: read %d bytes at offset %d: %v", ErrCorruptLog, entry.Size, entry.Position, err)
	}

	_, _, value, err := s.options.codec.DecodeKV(data)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCorruptLog, err)
	}
	return value, nil
}

// Remove appends a tombstone for key and drops it from the key directory.
// Removing an absent key is a no-op. The tombstone stays in the log; only
// the index entry disappears, which is what makes Remove differ from
// Set(key, "").
func (s *DiskStore) Remove(key string) error {
	if s.closed {
		return ErrStoreClosed
	}

	if s.options.keydir.Get(key) == nil {
		return nil
	}
	if err := s.Set(key, ""); err != nil {
		return err
	}
	s.options.keydir.Delete(key)
	return nil
}

// List returns every live key, in no particular order.
func (s *DiskStore) List() ([]string, error) {
	if s.closed {
		return nil, ErrStoreClosed
	}
	return s.options.keydir.Keys(), nil
}

// Close syncs and releases the log file. Every operation afterwards,
// including a second Close, fails with ErrStoreClosed.
func (s *DiskStore) Close() error {
	if s.closed {
		return ErrStoreClosed
	}
	s.closed = true

	var firstErr error
	if err := s.logFile.Sync(); err != nil {
		firstErr = fmt.Errorf("pollenstore: sync: %w", err)
	}
	if err := s.logFile.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("pollenstore: close: %w", err)
	}
	if err := s.fileLock.Unlock(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("pollenstore: unlock: %w", err)
	}
	if err := s.options.keydir.Close(); err != nil && firstErr == nil {
		firstErr = err
	}

	s.options.logger.Info().Str("path", s.path).Msg("store closed")
	return firstErr
}
