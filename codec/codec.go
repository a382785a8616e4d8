package codec

import "errors"

// HeaderSize is the fixed length of an encoded record header:
// timestamp(4) + keySize(4) + valueSize(4).
const HeaderSize = 12

// MaxFieldValue is the largest value any header field can hold.
const MaxFieldValue = 1<<32 - 1

var (
	// ErrFieldRange means a timestamp or size does not fit in 32 bits unsigned.
	// It is only ever produced at encode time.
	ErrFieldRange = errors.New("codec: field does not fit in 32 bits unsigned")

	// ErrMalformedInput means a buffer is the wrong length for the header
	// or payload it claims to contain.
	ErrMalformedInput = errors.New("codec: malformed input buffer")

	// ErrInvalidEncoding means decoded key or value bytes are not valid UTF-8.
	ErrInvalidEncoding = errors.New("codec: key/value is not valid utf-8")
)

// Codec serializes single log records. Implementations must be stateless:
// the store calls them on every write and on every replayed record.
// you can use some other layout once you implement this interface
type Codec interface {
	// EncodeHeader serializes timestamp, key size and value size into a
	// HeaderSize-byte buffer. Fails with ErrFieldRange if any field is
	// outside [0, MaxFieldValue].
	EncodeHeader(timestamp, keySize, valueSize int64) ([]byte, error)

	// DecodeHeader is the inverse of EncodeHeader. The input must be
	// exactly HeaderSize bytes.
	DecodeHeader(data []byte) (timestamp, keySize, valueSize uint32, err error)

	// EncodeKV builds a full record (header + key bytes + value bytes) and
	// returns its total size alongside the buffer. The size is what the
	// caller records in the key directory and advances its write position by.
	// Fails with ErrInvalidEncoding if key or value is not valid UTF-8, so a
	// record that could never decode is refused before it reaches the log.
	EncodeKV(timestamp int64, key, value string) (int64, []byte, error)

	// DecodeKV decodes a buffer that starts with a record header.
	// Trailing bytes beyond the declared record are ignored.
	DecodeKV(data []byte) (timestamp uint32, key, value string, err error)
}
